package app

import (
	"github.com/sableworks/vaultbreak-backend/internal/logger"
	"github.com/sableworks/vaultbreak-backend/internal/middleware"
)

type Middleware struct {
	Wallet *middleware.WalletMiddleware
	Admin  *middleware.AdminMiddleware
}

func wireMiddleware(log *logger.Logger) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Wallet: middleware.NewWalletMiddleware(log),
		Admin:  middleware.NewAdminMiddleware(log),
	}
}
