package app

import (
	"gorm.io/gorm"

	"github.com/sableworks/vaultbreak-backend/internal/logger"
	"github.com/sableworks/vaultbreak-backend/internal/repos"
)

type Repos struct {
	User        repos.UserRepo
	Contest     repos.ContestRepo
	Participant repos.ParticipantRepo
	GameConfig  repos.GameConfigRepo
	Commitment  repos.CommitmentRepo
	Session     repos.SessionRepo
	Attempt     repos.AttemptRepo
	Hint        repos.HintRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:        repos.NewUserRepo(db, log),
		Contest:     repos.NewContestRepo(db, log),
		Participant: repos.NewParticipantRepo(db, log),
		GameConfig:  repos.NewGameConfigRepo(db, log),
		Commitment:  repos.NewCommitmentRepo(db, log),
		Session:     repos.NewSessionRepo(db, log),
		Attempt:     repos.NewAttemptRepo(db, log),
		Hint:        repos.NewHintRepo(db, log),
	}
}
