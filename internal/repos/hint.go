package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

type HintRepo interface {
  Create(ctx context.Context, tx *gorm.DB, hint *types.UnlockedHint) (*types.UnlockedHint, error)
  CountBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int, error)
}

type hintRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewHintRepo(db *gorm.DB, baseLog *logger.Logger) HintRepo {
  repoLog := baseLog.With("repo", "HintRepo")
  return &hintRepo{db: db, log: repoLog}
}

func (hr *hintRepo) Create(ctx context.Context, tx *gorm.DB, hint *types.UnlockedHint) (*types.UnlockedHint, error) {
  transaction := tx
  if transaction == nil {
    transaction = hr.db
  }
  if hint.ID == uuid.Nil {
    hint.ID = uuid.New()
  }
  if err := transaction.WithContext(ctx).Create(hint).Error; err != nil {
    return nil, err
  }
  return hint, nil
}

func (hr *hintRepo) CountBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int, error) {
  transaction := tx
  if transaction == nil {
    transaction = hr.db
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.UnlockedHint{}).
    Where("session_id = ?", sessionID).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return int(count), nil
}
