package handlers

import (
	"database/sql"
	"strings"

	applog "givetzy/internal/log"
	"givetzy/internal/services"
	"givetzy/internal/validate"
	appws "givetzy/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type ConversationHandler struct {
	Chat *services.ChatService
	Hub  *appws.Hub
}

func (h *ConversationHandler) List(c *fiber.Ctx) error {
	convs, err := h.Chat.ListForUser(currentUserID(c))
	if err != nil {
		applog.Error(c, "chat.list.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"data": convs})
}

func (h *ConversationHandler) Messages(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonErr(c, fiber.StatusNotFound, "conversation not found")
	}
	msgs, err := h.Chat.Messages(id, currentUserID(c))
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return jsonErr(c, fiber.StatusNotFound, "conversation not found")
		case services.ErrNotParticipant:
			applog.Security(c, "chat.messages.denied", map[string]any{"conversation_id": id})
			return jsonErr(c, fiber.StatusForbidden, "not a participant of this conversation")
		}
		applog.Error(c, "chat.messages.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"data": msgs})
}

type postMessageRequest struct {
	Content     string `json:"content"`
	RecipientID string `json:"recipient_id"`
	ProductID   string `json:"product_id"`
}

// Post handles both POST /conversations/:id/messages and
// POST /conversations/new; ":id" is the literal "new" on first contact.
func (h *ConversationHandler) Post(c *fiber.Ctx) error {
	var req postMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "invalid request body")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return jsonErr(c, fiber.StatusBadRequest, "content is required")
	}
	sender := currentUserID(c)

	var (
		res services.PostResult
		err error
	)
	if id := c.Params("id"); id != "" && id != "new" {
		if _, ok := validate.ID(id); !ok {
			return jsonErr(c, fiber.StatusNotFound, "conversation not found")
		}
		res, err = h.Chat.Post(id, sender, content, "")
	} else {
		if req.RecipientID == "" {
			return jsonErr(c, fiber.StatusBadRequest, "recipient_id is required")
		}
		res, err = h.Chat.Start(sender, req.RecipientID, req.ProductID, content, "")
	}
	if err != nil {
		if resp, handled := domainErr(c, err); handled {
			return resp
		}
		switch err {
		case sql.ErrNoRows:
			return jsonErr(c, fiber.StatusNotFound, "conversation not found")
		case services.ErrNotParticipant:
			applog.Security(c, "chat.post.denied", nil)
			return jsonErr(c, fiber.StatusForbidden, "not a participant of this conversation")
		}
		applog.Error(c, "chat.post.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, err.Error())
	}

	h.Hub.Notify(res.RecipientID, fiber.Map{
		"type":            "message.new",
		"conversation_id": res.ConversationID,
		"message":         res.Message,
	})

	status := fiber.StatusOK
	if res.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"msg":  "message sent",
		"data": fiber.Map{"conversation_id": res.ConversationID, "message": res.Message},
	})
}

// UpgradeWS only lets real websocket upgrades through to the socket handler.
func (h *ConversationHandler) UpgradeWS(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Socket registers the connection with the hub and pumps events until the
// peer goes away.
func (h *ConversationHandler) Socket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("user_id").(string)
		if userID == "" {
			conn.Close()
			return
		}
		client := &appws.Client{
			Hub:    h.Hub,
			Conn:   conn,
			Send:   make(chan []byte, 64),
			UserID: userID,
		}
		h.Hub.Register <- client
		go client.WritePump()
		client.ReadPump()
	})
}
