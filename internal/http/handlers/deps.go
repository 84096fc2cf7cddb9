package handlers

import (
	"givetzy/internal/config"
	"givetzy/internal/repos"
	"givetzy/internal/services"
	"givetzy/internal/ws"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler         *AuthHandler
	ProductHandler      *ProductHandler
	TransactionHandler  *TransactionHandler
	ConversationHandler *ConversationHandler
	ProfileHandler      *ProfileHandler
	FavoriteHandler     *FavoriteHandler
	Auth                *services.AuthService
}

func NewDeps(db *sqlx.DB, cfg config.Config, hub *ws.Hub) *Deps {
	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	txRepo := repos.NewTransactionRepo(db)
	convRepo := repos.NewConversationRepo(db)
	favRepo := repos.NewFavoriteRepo(db)

	authSvc := &services.AuthService{
		Users:      userRepo,
		Secret:     []byte(cfg.JWTSecret),
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	}
	prodSvc := services.NewProductService(prodRepo, userRepo)
	txSvc := services.NewTransactionService(txRepo, prodRepo)
	chatSvc := services.NewChatService(convRepo, userRepo)

	return &Deps{
		AuthHandler:         &AuthHandler{Auth: authSvc},
		ProductHandler:      &ProductHandler{Products: prodSvc, UploadDir: cfg.UploadDir},
		TransactionHandler:  &TransactionHandler{Txs: txSvc},
		ConversationHandler: &ConversationHandler{Chat: chatSvc, Hub: hub},
		ProfileHandler:      &ProfileHandler{Auth: authSvc, Users: userRepo, UploadDir: cfg.UploadDir},
		FavoriteHandler:     &FavoriteHandler{Favs: favRepo},
		Auth:                authSvc,
	}
}
