package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

  "github.com/sableworks/vaultbreak-backend/internal/handlers"
  "github.com/sableworks/vaultbreak-backend/internal/middleware"
)

type RouterConfig struct {
  ServiceName       string
  MediaDir          string
  AllowOrigins      []string
  ContestHandler    *handlers.ContestHandler
  SessionHandler    *handlers.SessionHandler
  AttemptHandler    *handlers.AttemptHandler
  PromptHandler     *handlers.PromptHandler
  AdminHandler      *handlers.AdminHandler
  WalletMiddleware  *middleware.WalletMiddleware
  AdminMiddleware   *middleware.AdminMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()
  router.Use(otelgin.Middleware(cfg.ServiceName))

  // Cors
  origins := cfg.AllowOrigins
  if len(origins) == 0 {
    origins = []string{"http://localhost:3000", "http://localhost:5173"}
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     origins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Content-Type", "X-Requested-With", "x-wallet-address", "x-admin-secret"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  router.Static("/media", cfg.MediaDir)

  api := router.Group("/api")
  api.GET("/contests", cfg.ContestHandler.List)
  api.GET("/contests/:contestId", cfg.ContestHandler.Get)
  api.GET("/contests/:contestId/leaderboard", cfg.ContestHandler.Leaderboard)

// ===============
// || Wallet    ||
// ===============
  wallet := api.Group("/")
  wallet.Use(cfg.WalletMiddleware.RequireWallet())
  // Contest membership
  wallet.POST("/contests/:contestId/join", cfg.ContestHandler.Join)
  wallet.GET("/contests/:contestId/me", cfg.ContestHandler.Me)
  // Session lifecycle
  wallet.POST("/contests/:contestId/games/:gameId/session", cfg.SessionHandler.GetOrCreate)
  wallet.POST("/contests/:contestId/games/:gameId/session/:sessionId/reset", cfg.SessionHandler.Reset)
  // Gameplay
  wallet.POST("/contests/:contestId/games/:gameId/session/:sessionId/prompt", cfg.PromptHandler.SendPrompt)
  wallet.POST("/contests/:contestId/games/:gameId/session/:sessionId/submit-answer", cfg.AttemptHandler.SubmitAnswer)
  wallet.POST("/contests/:contestId/games/:gameId/session/:sessionId/hint", cfg.AttemptHandler.UnlockHint)
  // Attempts
  wallet.GET("/attempts/:attemptId", cfg.AttemptHandler.Get)
  wallet.POST("/attempts/:attemptId/verify", cfg.AttemptHandler.Verify)

// ===============
// || Admin     ||
// ===============
  admin := api.Group("/admin")
  admin.Use(cfg.AdminMiddleware.RequireAdmin())
  admin.POST("/contests", cfg.AdminHandler.CreateContest)
  admin.POST("/contests/:contestId/games", cfg.AdminHandler.AddGame)
  admin.POST("/commitments/reconcile", cfg.AdminHandler.ReconcileCommitments)

  return router
}
