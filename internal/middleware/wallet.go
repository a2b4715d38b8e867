package middleware

import (
  "net/http"
  "strings"

  "github.com/gin-gonic/gin"

  "github.com/sableworks/vaultbreak-backend/internal/logger"
)

// WalletKey is the gin context key holding the normalized wallet address.
const WalletKey = "walletAddress"

type WalletMiddleware struct {
  log *logger.Logger
}

func NewWalletMiddleware(log *logger.Logger) *WalletMiddleware {
  middlewareLogger := log.With("Middleware", "WalletMiddleware")
  return &WalletMiddleware{log: middlewareLogger}
}

// RequireWallet pulls the caller identity from the x-wallet-address header.
// Addresses are normalized to lowercase so lookups are case-insensitive.
func (wm *WalletMiddleware) RequireWallet() gin.HandlerFunc {
  return func(c *gin.Context) {
    wallet := strings.ToLower(strings.TrimSpace(c.GetHeader("x-wallet-address")))
    if wallet == "" {
      c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "x-wallet-address header is required"})
      return
    }
    c.Set(WalletKey, wallet)
    c.Next()
  }
}

// WalletFrom reads the wallet set by RequireWallet. Empty means the route was
// wired without the middleware.
func WalletFrom(c *gin.Context) string {
  return c.GetString(WalletKey)
}
