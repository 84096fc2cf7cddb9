package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"givetzy/internal/config"
	"givetzy/internal/http/handlers"
	applog "givetzy/internal/log"
	"givetzy/internal/repos"
	"givetzy/internal/ws"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	hub := ws.NewHub()
	go hub.Run()

	deps := handlers.NewDeps(db, cfg, hub)

	app := fiber.New(fiber.Config{
		AppName: "GiveTzy",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "something went wrong"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			} else {
				applog.Error(c, "server.error", err, nil)
			}
			return c.Status(code).JSON(fiber.Map{"msg": msg})
		},
	})
	// Global body size guard; uploads stay small.
	app.Server().MaxRequestBodySize = 8 << 20 // 8 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/uploads/")
		},
	}))

	// ---------- Uploaded files ----------
	uploadDir := cfg.UploadDir
	if !filepath.IsAbs(uploadDir) {
		if abs, err := filepath.Abs(uploadDir); err == nil {
			uploadDir = abs
		}
	}
	for _, kind := range []string{"products", "avatars"} {
		_ = os.MkdirAll(filepath.Join(uploadDir, kind), 0755)
	}
	log.Printf("[static] /uploads -> %s", uploadDir)

	// Guarded to avoid traversal
	app.Get("/uploads/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "uploads.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "uploads.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(uploadDir, clean), true)
	})

	// ---------- Auth routes (login throttled) ----------
	app.Post("/auth/register", deps.AuthHandler.Register)
	app.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"msg": "too many attempts, try again later"})
		},
	}), deps.AuthHandler.Login)
	app.Post("/auth/refresh", deps.AuthHandler.Refresh)

	// ---------- API ----------
	requireUser := handlers.RequireUser(deps.Auth)
	optionalUser := handlers.OptionalUser(deps.Auth)

	api := app.Group("/api")

	// Listings
	api.Get("/barang", deps.ProductHandler.List)
	api.Get("/barang/:id", optionalUser, deps.ProductHandler.Detail)
	api.Post("/barang", requireUser, deps.ProductHandler.Create)
	api.Put("/barang/:id", requireUser, deps.ProductHandler.Update)
	api.Delete("/barang/:id", requireUser, deps.ProductHandler.Delete)
	api.Get("/my-barang", requireUser, deps.ProductHandler.ListMine)
	api.Get("/categories", deps.ProductHandler.Categories)

	// Favorites
	api.Get("/favorites", requireUser, deps.FavoriteHandler.List)
	api.Post("/barang/:id/favorite", requireUser, deps.FavoriteHandler.Save)
	api.Delete("/barang/:id/favorite", requireUser, deps.FavoriteHandler.Unsave)

	// Transactions
	api.Post("/transaksi", requireUser, deps.TransactionHandler.Create)
	api.Get("/transaksi", requireUser, deps.TransactionHandler.List)
	api.Put("/transaksi/:id", requireUser, deps.TransactionHandler.Update)
	api.Delete("/transaksi/:id", requireUser, deps.TransactionHandler.Delete)

	// Conversations
	api.Get("/conversations", requireUser, deps.ConversationHandler.List)
	api.Post("/conversations/new", requireUser, deps.ConversationHandler.Post)
	api.Get("/conversations/:id/messages", requireUser, deps.ConversationHandler.Messages)
	api.Post("/conversations/:id/messages", requireUser, deps.ConversationHandler.Post)
	api.Get("/ws", requireUser, deps.ConversationHandler.UpgradeWS, deps.ConversationHandler.Socket())

	// Profile
	api.Get("/profile", requireUser, deps.ProfileHandler.Get)
	api.Put("/profile", requireUser, deps.ProfileHandler.Update)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"msg": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
