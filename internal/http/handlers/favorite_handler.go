package handlers

import (
	applog "givetzy/internal/log"
	"givetzy/internal/repos"
	"givetzy/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type FavoriteHandler struct {
	Favs *repos.FavoriteRepo
}

func (h *FavoriteHandler) Save(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonErr(c, fiber.StatusNotFound, "item not found")
	}
	if err := h.Favs.Add(currentUserID(c), id); err != nil {
		applog.Error(c, "favorite.save.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"msg": "saved"})
}

func (h *FavoriteHandler) Unsave(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonErr(c, fiber.StatusNotFound, "item not found")
	}
	if err := h.Favs.Remove(currentUserID(c), id); err != nil {
		applog.Error(c, "favorite.unsave.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"msg": "removed"})
}

func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	items, err := h.Favs.List(currentUserID(c))
	if err != nil {
		applog.Error(c, "favorite.list.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"data": items})
}
