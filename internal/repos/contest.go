package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

type ContestRepo interface {
  Create(ctx context.Context, tx *gorm.DB, contest *types.Contest) (*types.Contest, error)
  GetByID(ctx context.Context, tx *gorm.DB, contestID uuid.UUID) (*types.Contest, error)
  ListByStatuses(ctx context.Context, tx *gorm.DB, statuses []string) ([]*types.Contest, error)
}

type contestRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewContestRepo(db *gorm.DB, baseLog *logger.Logger) ContestRepo {
  repoLog := baseLog.With("repo", "ContestRepo")
  return &contestRepo{db: db, log: repoLog}
}

func (cr *contestRepo) Create(ctx context.Context, tx *gorm.DB, contest *types.Contest) (*types.Contest, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if contest.ID == uuid.Nil {
    contest.ID = uuid.New()
  }
  if err := transaction.WithContext(ctx).Create(contest).Error; err != nil {
    return nil, err
  }
  return contest, nil
}

func (cr *contestRepo) GetByID(ctx context.Context, tx *gorm.DB, contestID uuid.UUID) (*types.Contest, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var contest types.Contest
  err := transaction.WithContext(ctx).
    Where("id = ?", contestID).
    First(&contest).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &contest, nil
}

func (cr *contestRepo) ListByStatuses(ctx context.Context, tx *gorm.DB, statuses []string) ([]*types.Contest, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var results []*types.Contest
  if len(statuses) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("status IN ?", statuses).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
