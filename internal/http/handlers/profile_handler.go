package handlers

import (
	"strings"

	"givetzy/internal/domain"
	applog "givetzy/internal/log"
	"givetzy/internal/repos"
	"givetzy/internal/services"
	"givetzy/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	Auth      *services.AuthService
	Users     *repos.UserRepo
	UploadDir string
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return jsonErr(c, fiber.StatusUnauthorized, "not logged in")
	}
	return c.JSON(fiber.Map{"data": u})
}

type profileUpdateRequest struct {
	Name            *string `json:"name"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     string  `json:"new_password"`
}

// Update accepts multipart (avatar upload plus field edits) or JSON (field
// edits and password change).
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID := currentUserID(c)

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return jsonErr(c, fiber.StatusBadRequest, "invalid form")
		}
		var patch repos.UserPatch
		set := func(key string, dst **string) {
			if vs, ok := form.Value[key]; ok && len(vs) > 0 {
				v := vs[0]
				*dst = &v
			}
		}
		set("name", &patch.Name)
		set("phone", &patch.Phone)
		set("address", &patch.Address)
		if patch.Name != nil {
			if _, ok := validate.Name(*patch.Name); !ok {
				return jsonErr(c, fiber.StatusBadRequest, "invalid name")
			}
		}
		if file, err := c.FormFile("avatar"); err == nil && file != nil {
			path, err := saveImage(c, file, h.UploadDir, "avatars")
			if err != nil {
				if fe, ok := err.(*fiber.Error); ok {
					return jsonErr(c, fe.Code, fe.Message)
				}
				applog.Error(c, "profile.avatar.fail", err, nil)
				return jsonErr(c, fiber.StatusInternalServerError, "could not save avatar")
			}
			patch.AvatarPath = &path
		}
		if err := h.Users.Update(userID, patch); err != nil {
			applog.Error(c, "profile.update.fail", err, nil)
			return jsonErr(c, fiber.StatusInternalServerError, err.Error())
		}
	} else {
		var req profileUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return jsonErr(c, fiber.StatusBadRequest, "invalid request body")
		}
		if req.Name != nil {
			if _, ok := validate.Name(*req.Name); !ok {
				return jsonErr(c, fiber.StatusBadRequest, "invalid name")
			}
		}
		if req.NewPassword != "" {
			if !validate.Password(req.NewPassword) {
				return jsonErr(c, fiber.StatusBadRequest, "password must be at least 8 characters")
			}
			if err := h.Auth.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
				if err == services.ErrBadPassword {
					applog.Security(c, "profile.password.denied", nil)
					return jsonErr(c, fiber.StatusUnauthorized, "current password is wrong")
				}
				applog.Error(c, "profile.password.fail", err, nil)
				return jsonErr(c, fiber.StatusInternalServerError, err.Error())
			}
		}
		patch := repos.UserPatch{Name: req.Name, Phone: req.Phone, Address: req.Address}
		if patch.Name != nil || patch.Phone != nil || patch.Address != nil {
			if err := h.Users.Update(userID, patch); err != nil {
				applog.Error(c, "profile.update.fail", err, nil)
				return jsonErr(c, fiber.StatusInternalServerError, err.Error())
			}
		}
	}

	u, err := h.Users.ByID(userID)
	if err != nil {
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}
	applog.Audit(c, "profile.update", nil)
	return c.JSON(fiber.Map{"msg": "profile updated", "data": u})
}
