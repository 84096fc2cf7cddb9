package handlers

import (
	"database/sql"

	applog "givetzy/internal/log"
	"givetzy/internal/services"
	"givetzy/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	Txs *services.TransactionService
}

type createTxRequest struct {
	ItemID          string `json:"item_id"`
	Quantity        int    `json:"quantity"`
	PaymentMethod   string `json:"payment_method"`
	ShippingAddress string `json:"shipping_address"`
}

func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var req createTxRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "invalid request body")
	}
	itemID, ok := validate.ID(req.ItemID)
	if !ok {
		return jsonErr(c, fiber.StatusBadRequest, "item_id is required")
	}

	t, err := h.Txs.Create(currentUserID(c), itemID, req.Quantity, req.PaymentMethod, req.ShippingAddress)
	if err != nil {
		if resp, handled := domainErr(c, err); handled {
			applog.Security(c, "transaksi.create.reject", map[string]any{"item_id": itemID})
			return resp
		}
		if err == sql.ErrNoRows {
			return jsonErr(c, fiber.StatusNotFound, "item not found")
		}
		applog.Error(c, "transaksi.create.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}

	applog.Audit(c, "transaksi.create", map[string]any{
		"transaction_id": t.ID, "item_id": itemID, "total": t.TotalPrice,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"msg":  "transaction created",
		"data": fiber.Map{"transaction_id": t.ID, "status": t.Status},
	})
}

type updateTxRequest struct {
	Status string `json:"status"`
}

func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonErr(c, fiber.StatusNotFound, "transaction not found")
	}
	var req updateTxRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "invalid request body")
	}
	status, ok := validate.TxStatus(req.Status)
	if !ok {
		return jsonErr(c, fiber.StatusBadRequest, "invalid status")
	}

	t, err := h.Txs.UpdateStatus(id, currentUserID(c), status)
	if err != nil {
		if resp, handled := domainErr(c, err); handled {
			return resp
		}
		switch err {
		case sql.ErrNoRows:
			return jsonErr(c, fiber.StatusNotFound, "transaction not found")
		case services.ErrNotParty:
			applog.Security(c, "transaksi.update.denied", map[string]any{"transaction_id": id})
			return jsonErr(c, fiber.StatusForbidden, "not your transaction")
		}
		applog.Error(c, "transaksi.update.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}

	applog.Audit(c, "transaksi.update", map[string]any{"transaction_id": id, "status": status})
	return c.JSON(fiber.Map{"msg": "transaction updated", "data": t})
}

func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonErr(c, fiber.StatusNotFound, "transaction not found")
	}
	err := h.Txs.Delete(id, currentUserID(c))
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return jsonErr(c, fiber.StatusNotFound, "transaction not found")
		case services.ErrNotSeller:
			applog.Security(c, "transaksi.delete.denied", map[string]any{"transaction_id": id})
			return jsonErr(c, fiber.StatusForbidden, "only the seller may delete a transaction")
		case services.ErrTxNotDeletable:
			return jsonErr(c, fiber.StatusBadRequest, "only pending or cancelled transactions can be deleted")
		}
		applog.Error(c, "transaksi.delete.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}
	applog.Audit(c, "transaksi.delete", map[string]any{"transaction_id": id})
	return c.JSON(fiber.Map{"msg": "transaction deleted"})
}

func (h *TransactionHandler) List(c *fiber.Ctx) error {
	role := c.Query("role") // purchase | sale | ""
	if role != "" && role != "purchase" && role != "sale" {
		return jsonErr(c, fiber.StatusBadRequest, "role must be purchase or sale")
	}
	rows, err := h.Txs.ListForUser(currentUserID(c), role)
	if err != nil {
		applog.Error(c, "transaksi.list.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"data": rows})
}
