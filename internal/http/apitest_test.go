package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"givetzy/internal/config"
	"givetzy/internal/http/handlers"
	"givetzy/internal/repos"
	"givetzy/internal/ws"
)

// newTestApp wires the real handlers over an in-memory database with the
// production route layout.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()

	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// A fresh connection would see a fresh in-memory database.
	db.SetMaxOpenConns(1)

	cfg := config.Config{
		JWTSecret:  "test-secret",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
		UploadDir:  t.TempDir(),
	}

	hub := ws.NewHub()
	go hub.Run()
	deps := handlers.NewDeps(db, cfg, hub)

	app := fiber.New()
	requireUser := handlers.RequireUser(deps.Auth)
	optionalUser := handlers.OptionalUser(deps.Auth)

	app.Post("/auth/register", deps.AuthHandler.Register)
	app.Post("/auth/login", deps.AuthHandler.Login)
	app.Post("/auth/refresh", deps.AuthHandler.Refresh)

	api := app.Group("/api")
	api.Get("/barang", deps.ProductHandler.List)
	api.Get("/barang/:id", optionalUser, deps.ProductHandler.Detail)
	api.Post("/barang", requireUser, deps.ProductHandler.Create)
	api.Put("/barang/:id", requireUser, deps.ProductHandler.Update)
	api.Delete("/barang/:id", requireUser, deps.ProductHandler.Delete)
	api.Get("/my-barang", requireUser, deps.ProductHandler.ListMine)
	api.Get("/categories", deps.ProductHandler.Categories)

	api.Get("/favorites", requireUser, deps.FavoriteHandler.List)
	api.Post("/barang/:id/favorite", requireUser, deps.FavoriteHandler.Save)
	api.Delete("/barang/:id/favorite", requireUser, deps.FavoriteHandler.Unsave)

	api.Post("/transaksi", requireUser, deps.TransactionHandler.Create)
	api.Get("/transaksi", requireUser, deps.TransactionHandler.List)
	api.Put("/transaksi/:id", requireUser, deps.TransactionHandler.Update)
	api.Delete("/transaksi/:id", requireUser, deps.TransactionHandler.Delete)

	api.Get("/conversations", requireUser, deps.ConversationHandler.List)
	api.Post("/conversations/new", requireUser, deps.ConversationHandler.Post)
	api.Get("/conversations/:id/messages", requireUser, deps.ConversationHandler.Messages)
	api.Post("/conversations/:id/messages", requireUser, deps.ConversationHandler.Post)

	api.Get("/profile", requireUser, deps.ProfileHandler.Get)
	api.Put("/profile", requireUser, deps.ProfileHandler.Update)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp, out
}

// login returns an access token for a seeded account.
func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/auth/login", "", map[string]any{
		"email": email, "password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d (%v)", email, resp.StatusCode, body)
	}
	tok, _ := body["access_token"].(string)
	if tok == "" {
		t.Fatalf("no access token for %s", email)
	}
	return tok
}
