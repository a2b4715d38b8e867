package app

import (
	"gorm.io/gorm"

	"github.com/sableworks/vaultbreak-backend/internal/logger"
	"github.com/sableworks/vaultbreak-backend/internal/services"
)

type Services struct {
	Commitment   services.CommitmentService
	Avatar       services.AvatarService
	Contest      services.ContestService
	Session      services.SessionService
	Attempt      services.AttemptService
	Verification services.VerificationService
	Prompt       services.PromptService
	Admin        services.AdminService
}

func wireServices(db *gorm.DB, log *logger.Logger, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")
	commitmentService := services.NewCommitmentService(db, log, reposet.Commitment, clients.ZK)
	avatarService := services.NewAvatarService(log, reposet.Participant)
	contestService := services.NewContestService(
		db, log,
		reposet.Contest, reposet.Participant, reposet.User, reposet.GameConfig, reposet.Session,
		avatarService, clients.Cache,
	)
	sessionService := services.NewSessionService(db, log, reposet.Session)
	attemptService := services.NewAttemptService(
		db, log,
		reposet.Session, reposet.Attempt, reposet.Hint,
		reposet.Participant, reposet.GameConfig, reposet.Commitment,
	)
	verificationService := services.NewVerificationService(
		db, log,
		reposet.Attempt, reposet.Participant, reposet.Contest, reposet.GameConfig, reposet.Commitment,
		clients.ZK,
	)
	promptService := services.NewPromptService(
		db, log,
		reposet.Session, reposet.Participant, reposet.GameConfig, reposet.Commitment,
		clients.AI,
	)
	adminService := services.NewAdminService(
		db, log,
		reposet.Contest, reposet.GameConfig, reposet.Commitment,
		commitmentService, clients.AI,
	)
	return Services{
		Commitment:   commitmentService,
		Avatar:       avatarService,
		Contest:      contestService,
		Session:      sessionService,
		Attempt:      attemptService,
		Verification: verificationService,
		Prompt:       promptService,
		Admin:        adminService,
	}
}
