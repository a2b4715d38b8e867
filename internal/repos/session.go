package repos

import (
  "context"
  "errors"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

type SessionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, session *types.GameSession) (*types.GameSession, error)
  GetActive(ctx context.Context, tx *gorm.DB, participantID, gameConfigID uuid.UUID) (*types.GameSession, error)
  GetOwned(ctx context.Context, tx *gorm.DB, sessionID, contestID uuid.UUID, gameID int, participantID uuid.UUID) (*types.GameSession, error)
  NextIndex(ctx context.Context, tx *gorm.DB, participantID, gameConfigID uuid.UUID) (int, error)
  Deactivate(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error
  MarkSolved(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error
  TouchActivity(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error
  IncrementPrompts(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error
}

type sessionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
  repoLog := baseLog.With("repo", "SessionRepo")
  return &sessionRepo{db: db, log: repoLog}
}

func (sr *sessionRepo) Create(ctx context.Context, tx *gorm.DB, session *types.GameSession) (*types.GameSession, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  if session.ID == uuid.Nil {
    session.ID = uuid.New()
  }
  if err := transaction.WithContext(ctx).Create(session).Error; err != nil {
    return nil, err
  }
  return session, nil
}

func (sr *sessionRepo) GetActive(ctx context.Context, tx *gorm.DB, participantID, gameConfigID uuid.UUID) (*types.GameSession, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  var session types.GameSession
  err := transaction.WithContext(ctx).
    Where("participant_id = ? AND game_config_id = ? AND is_active = ?", participantID, gameConfigID, true).
    First(&session).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &session, nil
}

// GetOwned loads a session only when it matches the caller's participant,
// contest and game. A miss is indistinguishable from "not yours" by design.
func (sr *sessionRepo) GetOwned(ctx context.Context, tx *gorm.DB, sessionID, contestID uuid.UUID, gameID int, participantID uuid.UUID) (*types.GameSession, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  var session types.GameSession
  err := transaction.WithContext(ctx).
    Where("id = ? AND contest_id = ? AND game_id = ? AND participant_id = ?", sessionID, contestID, gameID, participantID).
    First(&session).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &session, nil
}

func (sr *sessionRepo) NextIndex(ctx context.Context, tx *gorm.DB, participantID, gameConfigID uuid.UUID) (int, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  var maxIndex int
  err := transaction.WithContext(ctx).
    Model(&types.GameSession{}).
    Where("participant_id = ? AND game_config_id = ?", participantID, gameConfigID).
    Select("COALESCE(MAX(session_index), 0)").
    Scan(&maxIndex).Error
  if err != nil {
    return 0, err
  }
  return maxIndex + 1, nil
}

func (sr *sessionRepo) Deactivate(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  now := time.Now()
  return transaction.WithContext(ctx).
    Model(&types.GameSession{}).
    Where("id = ?", sessionID).
    Updates(map[string]interface{}{
      "is_active": false,
      "ended_at":  now,
    }).Error
}

func (sr *sessionRepo) MarkSolved(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  now := time.Now()
  return transaction.WithContext(ctx).
    Model(&types.GameSession{}).
    Where("id = ?", sessionID).
    Updates(map[string]interface{}{
      "is_solved":        true,
      "solved_at":        now,
      "last_activity_at": now,
    }).Error
}

func (sr *sessionRepo) TouchActivity(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  now := time.Now()
  return transaction.WithContext(ctx).
    Model(&types.GameSession{}).
    Where("id = ?", sessionID).
    Update("last_activity_at", now).Error
}

func (sr *sessionRepo) IncrementPrompts(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  now := time.Now()
  return transaction.WithContext(ctx).
    Model(&types.GameSession{}).
    Where("id = ?", sessionID).
    Updates(map[string]interface{}{
      "current_prompts_used": gorm.Expr("current_prompts_used + 1"),
      "last_activity_at":     now,
    }).Error
}
