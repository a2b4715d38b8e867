package app

import (
	"github.com/gin-gonic/gin"

	"github.com/sableworks/vaultbreak-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:      cfg.ServiceName,
		MediaDir:         cfg.MediaDir,
		AllowOrigins:     cfg.AllowOrigins,
		ContestHandler:   handlerset.Contest,
		SessionHandler:   handlerset.Session,
		AttemptHandler:   handlerset.Attempt,
		PromptHandler:    handlerset.Prompt,
		AdminHandler:     handlerset.Admin,
		WalletMiddleware: middlewareset.Wallet,
		AdminMiddleware:  middlewareset.Admin,
	})
}
