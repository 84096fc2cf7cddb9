package handlers

import (
	"errors"

	"givetzy/internal/domain"

	"github.com/gofiber/fiber/v2"
)

func jsonErr(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"msg": msg})
}

// domainErr writes a 400 with the machine-readable code when err is a
// domain-rule violation; ok reports whether it handled the error.
func domainErr(c *fiber.Ctx, err error) (error, bool) {
	var de *domain.Error
	if errors.As(err, &de) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": de.Message, "code": de.Code}), true
	}
	return nil, false
}
