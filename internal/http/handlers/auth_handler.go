package handlers

import (
	applog "givetzy/internal/log"
	"givetzy/internal/services"
	"givetzy/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "invalid request body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return jsonErr(c, fiber.StatusBadRequest, "a valid email is required")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return jsonErr(c, fiber.StatusBadRequest, "name is required")
	}
	if !validate.Password(req.Password) {
		return jsonErr(c, fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	u, err := h.Auth.Register(email, req.Password, name, req.Phone, req.Address)
	if err != nil {
		if err == services.ErrEmailTaken {
			return jsonErr(c, fiber.StatusConflict, "email already registered")
		}
		applog.Error(c, "auth.register.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}

	applog.Audit(c, "auth.register", map[string]any{"email": email})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"msg": "registered", "user": u})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "invalid request body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return jsonErr(c, fiber.StatusBadRequest, "a valid email is required")
	}

	u, pair, err := h.Auth.Login(email, req.Password)
	if err != nil {
		switch err {
		case services.ErrUnknownEmail:
			applog.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "unknown"})
			return jsonErr(c, fiber.StatusNotFound, "no account for that email")
		case services.ErrBadPassword:
			applog.Security(c, "auth.login.fail", map[string]any{"email": email})
			return jsonErr(c, fiber.StatusUnauthorized, "wrong password")
		}
		applog.Error(c, "auth.login.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}

	applog.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.JSON(fiber.Map{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user":          u,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return jsonErr(c, fiber.StatusUnauthorized, "missing refresh token")
	}
	access, err := h.Auth.Refresh(req.RefreshToken)
	if err != nil {
		if err == services.ErrTokenExpired {
			return jsonErr(c, fiber.StatusUnauthorized, "refresh token expired")
		}
		applog.Security(c, "auth.refresh.fail", nil)
		return jsonErr(c, fiber.StatusForbidden, "invalid refresh token")
	}
	return c.JSON(fiber.Map{"access_token": access})
}
