package services

import (
  "context"
  "errors"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/sableworks/vaultbreak-backend/internal/apierr"
  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/repos"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

// SessionService owns session lifecycle per (participant, game). The store is
// the single source of truth for "is there an active session": creation races
// are resolved by the partial unique index in internal/db, with the loser
// re-reading the winner's row.
type SessionService interface {
  GetOrCreateActive(ctx context.Context, participantID, contestID, gameConfigID uuid.UUID, gameID int) (*types.GameSession, error)
  Reset(ctx context.Context, sessionID, participantID, contestID uuid.UUID, gameID int) (*ResetResult, error)
}

type ResetResult struct {
  OldSessionID     uuid.UUID
  NewSessionID     uuid.UUID
  NewSessionIndex  int
}

type sessionService struct {
  db           *gorm.DB
  log          *logger.Logger
  sessionRepo  repos.SessionRepo
}

func NewSessionService(db *gorm.DB, log *logger.Logger, sessionRepo repos.SessionRepo) SessionService {
  serviceLog := log.With("service", "SessionService")
  return &sessionService{
    db:          db,
    log:         serviceLog,
    sessionRepo: sessionRepo,
  }
}

const sessionCreateRetries = 3

func (ss *sessionService) GetOrCreateActive(ctx context.Context, participantID, contestID, gameConfigID uuid.UUID, gameID int) (*types.GameSession, error) {
  for attempt := 0; attempt < sessionCreateRetries; attempt++ {
    existing, err := ss.sessionRepo.GetActive(ctx, nil, participantID, gameConfigID)
    if err != nil {
      return nil, err
    }
    if existing != nil {
      return existing, nil
    }

    session, err := ss.createNext(ctx, participantID, contestID, gameConfigID, gameID)
    if err == nil {
      return session, nil
    }
    if errors.Is(err, gorm.ErrDuplicatedKey) {
      // Lost the race: either another request just created the active
      // session (re-read returns it) or took our ordinal (recompute).
      continue
    }
    return nil, err
  }

  // Retries exhausted; one final read in case the winner's row is visible now.
  existing, err := ss.sessionRepo.GetActive(ctx, nil, participantID, gameConfigID)
  if err != nil {
    return nil, err
  }
  if existing != nil {
    return existing, nil
  }
  return nil, apierr.New(apierr.KindConflict, "could not create session, please retry", nil)
}

func (ss *sessionService) createNext(ctx context.Context, participantID, contestID, gameConfigID uuid.UUID, gameID int) (*types.GameSession, error) {
  var created *types.GameSession
  err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    nextIndex, err := ss.sessionRepo.NextIndex(ctx, tx, participantID, gameConfigID)
    if err != nil {
      return err
    }
    session := &types.GameSession{
      ParticipantID:  participantID,
      ContestID:      contestID,
      GameConfigID:   gameConfigID,
      GameID:         gameID,
      SessionIndex:   nextIndex,
      IsActive:       true,
      LastActivityAt: time.Now(),
    }
    created, err = ss.sessionRepo.Create(ctx, tx, session)
    return err
  })
  if err != nil {
    return nil, err
  }
  return created, nil
}

// Reset deactivates the caller's session and immediately opens a fresh one at
// the next ordinal. Only the AI conversation context is discarded; attempts
// and solve history live on the old rows and persist untouched.
func (ss *sessionService) Reset(ctx context.Context, sessionID, participantID, contestID uuid.UUID, gameID int) (*ResetResult, error) {
  session, err := ss.sessionRepo.GetOwned(ctx, nil, sessionID, contestID, gameID, participantID)
  if err != nil {
    return nil, err
  }
  if session == nil {
    return nil, apierr.AccessDenied("session does not belong to this user/game")
  }

  var result *ResetResult
  err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := ss.sessionRepo.Deactivate(ctx, tx, session.ID); err != nil {
      return err
    }
    nextIndex, err := ss.sessionRepo.NextIndex(ctx, tx, participantID, session.GameConfigID)
    if err != nil {
      return err
    }
    fresh := &types.GameSession{
      ParticipantID:  participantID,
      ContestID:      contestID,
      GameConfigID:   session.GameConfigID,
      GameID:         gameID,
      SessionIndex:   nextIndex,
      IsActive:       true,
      LastActivityAt: time.Now(),
    }
    created, err := ss.sessionRepo.Create(ctx, tx, fresh)
    if err != nil {
      return err
    }
    result = &ResetResult{
      OldSessionID:    session.ID,
      NewSessionID:    created.ID,
      NewSessionIndex: created.SessionIndex,
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  return result, nil
}
