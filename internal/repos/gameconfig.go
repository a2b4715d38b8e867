package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

type GameConfigRepo interface {
  Create(ctx context.Context, tx *gorm.DB, config *types.ContestGameConfig) (*types.ContestGameConfig, error)
  GetByID(ctx context.Context, tx *gorm.DB, configID uuid.UUID) (*types.ContestGameConfig, error)
  GetActiveByContestAndGameID(ctx context.Context, tx *gorm.DB, contestID uuid.UUID, gameID int) (*types.ContestGameConfig, error)
  ListByContest(ctx context.Context, tx *gorm.DB, contestID uuid.UUID) ([]*types.ContestGameConfig, error)
}

type gameConfigRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewGameConfigRepo(db *gorm.DB, baseLog *logger.Logger) GameConfigRepo {
  repoLog := baseLog.With("repo", "GameConfigRepo")
  return &gameConfigRepo{db: db, log: repoLog}
}

func (gr *gameConfigRepo) Create(ctx context.Context, tx *gorm.DB, config *types.ContestGameConfig) (*types.ContestGameConfig, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }
  if config.ID == uuid.Nil {
    config.ID = uuid.New()
  }
  if err := transaction.WithContext(ctx).Create(config).Error; err != nil {
    return nil, err
  }
  return config, nil
}

func (gr *gameConfigRepo) GetByID(ctx context.Context, tx *gorm.DB, configID uuid.UUID) (*types.ContestGameConfig, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }
  var config types.ContestGameConfig
  err := transaction.WithContext(ctx).
    Where("id = ?", configID).
    First(&config).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &config, nil
}

func (gr *gameConfigRepo) GetActiveByContestAndGameID(ctx context.Context, tx *gorm.DB, contestID uuid.UUID, gameID int) (*types.ContestGameConfig, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }
  var config types.ContestGameConfig
  err := transaction.WithContext(ctx).
    Where("contest_id = ? AND game_id = ? AND is_active = ?", contestID, gameID, true).
    First(&config).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &config, nil
}

func (gr *gameConfigRepo) ListByContest(ctx context.Context, tx *gorm.DB, contestID uuid.UUID) ([]*types.ContestGameConfig, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }
  var results []*types.ContestGameConfig
  if err := transaction.WithContext(ctx).
    Where("contest_id = ?", contestID).
    Order("game_id ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
