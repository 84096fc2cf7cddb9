package handlers

import (
	"mime/multipart"
	"path/filepath"

	"givetzy/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// saveImage stores an uploaded image under <uploadDir>/<kind>/ with a uuid
// filename and returns the public /uploads path.
func saveImage(c *fiber.Ctx, file *multipart.FileHeader, uploadDir, kind string) (string, error) {
	ext := filepath.Ext(file.Filename)
	if !validate.ImageExt(ext) {
		return "", fiber.NewError(fiber.StatusBadRequest, "only jpg, jpeg, png and webp files are allowed")
	}
	name := uuid.NewString() + ext
	if err := c.SaveFile(file, filepath.Join(uploadDir, kind, name)); err != nil {
		return "", err
	}
	return "/uploads/" + kind + "/" + name, nil
}
