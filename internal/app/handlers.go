package app

import (
	"github.com/sableworks/vaultbreak-backend/internal/handlers"
	"github.com/sableworks/vaultbreak-backend/internal/logger"
)

type Handlers struct {
	Contest *handlers.ContestHandler
	Session *handlers.SessionHandler
	Attempt *handlers.AttemptHandler
	Prompt  *handlers.PromptHandler
	Admin   *handlers.AdminHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Contest: handlers.NewContestHandler(serviceset.Contest),
		Session: handlers.NewSessionHandler(serviceset.Contest, serviceset.Session),
		Attempt: handlers.NewAttemptHandler(serviceset.Contest, serviceset.Attempt, serviceset.Verification),
		Prompt:  handlers.NewPromptHandler(serviceset.Contest, serviceset.Prompt),
		Admin:   handlers.NewAdminHandler(serviceset.Admin),
	}
}
