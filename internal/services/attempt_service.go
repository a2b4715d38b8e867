package services

import (
  "context"
  "errors"
  "strings"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/sableworks/vaultbreak-backend/internal/apierr"
  "github.com/sableworks/vaultbreak-backend/internal/game"
  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/repos"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

// AttemptService records answer submissions and hint disclosures. The fast
// check here is provisional UX feedback; the canonical verdict comes from the
// verification service. Each call's side effects are transactional: an
// attempt is never partially recorded.
type AttemptService interface {
  SubmitAnswer(ctx context.Context, in SubmitAnswerInput) (*SubmitAnswerResult, error)
  UnlockHint(ctx context.Context, in UnlockHintInput) (*UnlockHintResult, error)
  GetOwnedAttempt(ctx context.Context, attemptID uuid.UUID, walletAddress string) (*types.Attempt, error)
}

type SubmitAnswerInput struct {
  SessionID        uuid.UUID
  ParticipantID    uuid.UUID
  ContestID        uuid.UUID
  GameID           int
  SubmittedAnswer  string
}

type SubmitAnswerResult struct {
  AttemptID                 uuid.UUID
  SubmittedAnswer           string
  IsCorrect                 bool
  GameSolvedNow             bool
  TotalAttemptsForThisGame  int
}

type UnlockHintInput struct {
  SessionID      uuid.UUID
  ParticipantID  uuid.UUID
  ContestID      uuid.UUID
  GameID         int
}

type UnlockHintResult struct {
  HintText  string
  HintTier  int
}

type attemptService struct {
  db               *gorm.DB
  log              *logger.Logger
  sessionRepo      repos.SessionRepo
  attemptRepo      repos.AttemptRepo
  hintRepo         repos.HintRepo
  participantRepo  repos.ParticipantRepo
  gameConfigRepo   repos.GameConfigRepo
  commitmentRepo   repos.CommitmentRepo
}

func NewAttemptService(
  db *gorm.DB,
  log *logger.Logger,
  sessionRepo repos.SessionRepo,
  attemptRepo repos.AttemptRepo,
  hintRepo repos.HintRepo,
  participantRepo repos.ParticipantRepo,
  gameConfigRepo repos.GameConfigRepo,
  commitmentRepo repos.CommitmentRepo,
) AttemptService {
  serviceLog := log.With("service", "AttemptService")
  return &attemptService{
    db:              db,
    log:             serviceLog,
    sessionRepo:     sessionRepo,
    attemptRepo:     attemptRepo,
    hintRepo:        hintRepo,
    participantRepo: participantRepo,
    gameConfigRepo:  gameConfigRepo,
    commitmentRepo:  commitmentRepo,
  }
}

const attemptInsertRetries = 3

func (as *attemptService) SubmitAnswer(ctx context.Context, in SubmitAnswerInput) (*SubmitAnswerResult, error) {
  if strings.TrimSpace(in.SubmittedAnswer) == "" {
    return nil, apierr.Validation("submittedAnswer is required")
  }

  session, err := as.sessionRepo.GetOwned(ctx, nil, in.SessionID, in.ContestID, in.GameID, in.ParticipantID)
  if err != nil {
    return nil, err
  }
  if session == nil {
    return nil, apierr.AccessDenied("session does not belong to this user/game")
  }
  if session.IsSolved {
    return nil, apierr.Conflict("game already solved for this session")
  }

  commitment, err := as.commitmentRepo.GetByContestAndGameConfig(ctx, nil, in.ContestID, session.GameConfigID)
  if err != nil {
    return nil, err
  }
  if commitment == nil || commitment.AnswerPlaintext == "" {
    return nil, apierr.Configuration("game commitment not found for this contest/game")
  }

  // Provisional fast check: trimmed, case-sensitive equality.
  isCorrect := strings.TrimSpace(in.SubmittedAnswer) == strings.TrimSpace(commitment.AnswerPlaintext)

  var created *types.Attempt
  for tryNum := 0; tryNum < attemptInsertRetries; tryNum++ {
    err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
      nextIndex, err := as.attemptRepo.NextIndex(ctx, tx, in.ParticipantID, session.GameConfigID)
      if err != nil {
        return err
      }
      attempt := &types.Attempt{
        SessionID:       session.ID,
        ParticipantID:   in.ParticipantID,
        ContestID:       in.ContestID,
        GameConfigID:    session.GameConfigID,
        AttemptIndex:    nextIndex,
        SubmittedAnswer: in.SubmittedAnswer,
        IsCorrect:       isCorrect,
      }
      created, err = as.attemptRepo.Create(ctx, tx, attempt)
      if err != nil {
        return err
      }
      if isCorrect {
        if err := as.sessionRepo.MarkSolved(ctx, tx, session.ID); err != nil {
          return err
        }
        return as.participantRepo.IncrementSolved(ctx, tx, in.ParticipantID)
      }
      return as.sessionRepo.TouchActivity(ctx, tx, session.ID)
    })
    if err == nil {
      break
    }
    if errors.Is(err, gorm.ErrDuplicatedKey) {
      // Concurrent submission took this ordinal; recompute and retry.
      continue
    }
    return nil, err
  }
  if err != nil {
    return nil, err
  }

  return &SubmitAnswerResult{
    AttemptID:                created.ID,
    SubmittedAnswer:          created.SubmittedAnswer,
    IsCorrect:                isCorrect,
    GameSolvedNow:            isCorrect,
    TotalAttemptsForThisGame: created.AttemptIndex,
  }, nil
}

// UnlockHint discloses the next hint on the session's ladder. Requests past
// exhaustion keep returning the final hint at its tier and still charge the
// participant's hint counter, matching the contest rules as shipped.
func (as *attemptService) UnlockHint(ctx context.Context, in UnlockHintInput) (*UnlockHintResult, error) {
  session, err := as.sessionRepo.GetOwned(ctx, nil, in.SessionID, in.ContestID, in.GameID, in.ParticipantID)
  if err != nil {
    return nil, err
  }
  if session == nil {
    return nil, apierr.AccessDenied("session does not belong to this user/game")
  }

  config, err := as.gameConfigRepo.GetByID(ctx, nil, session.GameConfigID)
  if err != nil {
    return nil, err
  }
  if config == nil {
    return nil, apierr.Configuration("game config not found for session")
  }
  if config.Persona == nil || config.Persona.Weakness == "" {
    return nil, apierr.Validation("no weakness defined for this game (no hints available)")
  }

  usedCount, err := as.hintRepo.CountBySession(ctx, nil, session.ID)
  if err != nil {
    return nil, err
  }

  hintText, hintTier, ok := game.NextHint(config.Persona.Weakness, usedCount)
  if !ok {
    return nil, apierr.Validation("no more hints available for this weakness")
  }

  err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    hint := &types.UnlockedHint{
      SessionID: session.ID,
      HintTier:  hintTier,
      CostWei:   "0",
    }
    if _, err := as.hintRepo.Create(ctx, tx, hint); err != nil {
      return err
    }
    return as.participantRepo.IncrementHints(ctx, tx, in.ParticipantID)
  })
  if err != nil {
    return nil, err
  }

  return &UnlockHintResult{HintText: hintText, HintTier: hintTier}, nil
}

func (as *attemptService) GetOwnedAttempt(ctx context.Context, attemptID uuid.UUID, walletAddress string) (*types.Attempt, error) {
  attempt, err := as.attemptRepo.GetOwnedByWallet(ctx, nil, attemptID, walletAddress)
  if err != nil {
    return nil, err
  }
  if attempt == nil {
    return nil, apierr.AccessDenied("attempt not found or does not belong to this wallet")
  }
  return attempt, nil
}
