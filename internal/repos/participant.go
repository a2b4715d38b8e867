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

type ParticipantRepo interface {
  Create(ctx context.Context, tx *gorm.DB, participant *types.ContestParticipant) (*types.ContestParticipant, error)
  GetByID(ctx context.Context, tx *gorm.DB, participantID uuid.UUID) (*types.ContestParticipant, error)
  GetByContestAndUser(ctx context.Context, tx *gorm.DB, contestID, userID uuid.UUID) (*types.ContestParticipant, error)
  ListByContest(ctx context.Context, tx *gorm.DB, contestID uuid.UUID) ([]*types.ContestParticipant, error)
  IncrementSolved(ctx context.Context, tx *gorm.DB, participantID uuid.UUID) error
  IncrementPrompts(ctx context.Context, tx *gorm.DB, participantID uuid.UUID) error
  IncrementHints(ctx context.Context, tx *gorm.DB, participantID uuid.UUID) error
  SetAvatarPath(ctx context.Context, tx *gorm.DB, participantID uuid.UUID, path string) error
}

type participantRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewParticipantRepo(db *gorm.DB, baseLog *logger.Logger) ParticipantRepo {
  repoLog := baseLog.With("repo", "ParticipantRepo")
  return &participantRepo{db: db, log: repoLog}
}

func (pr *participantRepo) Create(ctx context.Context, tx *gorm.DB, participant *types.ContestParticipant) (*types.ContestParticipant, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  if participant.ID == uuid.Nil {
    participant.ID = uuid.New()
  }
  if err := transaction.WithContext(ctx).Create(participant).Error; err != nil {
    return nil, err
  }
  return participant, nil
}

func (pr *participantRepo) GetByID(ctx context.Context, tx *gorm.DB, participantID uuid.UUID) (*types.ContestParticipant, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  var participant types.ContestParticipant
  err := transaction.WithContext(ctx).
    Where("id = ?", participantID).
    First(&participant).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &participant, nil
}

func (pr *participantRepo) GetByContestAndUser(ctx context.Context, tx *gorm.DB, contestID, userID uuid.UUID) (*types.ContestParticipant, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  var participant types.ContestParticipant
  err := transaction.WithContext(ctx).
    Where("contest_id = ? AND user_id = ?", contestID, userID).
    First(&participant).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &participant, nil
}

// Ranking order: solved desc, prompts asc, joined asc.
func (pr *participantRepo) ListByContest(ctx context.Context, tx *gorm.DB, contestID uuid.UUID) ([]*types.ContestParticipant, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  var results []*types.ContestParticipant
  if err := transaction.WithContext(ctx).
    Where("contest_id = ?", contestID).
    Order("total_games_solved DESC").
    Order("total_prompts_used ASC").
    Order("joined_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (pr *participantRepo) IncrementSolved(ctx context.Context, tx *gorm.DB, participantID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  now := time.Now()
  return transaction.WithContext(ctx).
    Model(&types.ContestParticipant{}).
    Where("id = ?", participantID).
    Updates(map[string]interface{}{
      "total_games_solved": gorm.Expr("total_games_solved + 1"),
      "last_solved_at":     now,
    }).Error
}

func (pr *participantRepo) IncrementPrompts(ctx context.Context, tx *gorm.DB, participantID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  return transaction.WithContext(ctx).
    Model(&types.ContestParticipant{}).
    Where("id = ?", participantID).
    Update("total_prompts_used", gorm.Expr("total_prompts_used + 1")).Error
}

func (pr *participantRepo) IncrementHints(ctx context.Context, tx *gorm.DB, participantID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  return transaction.WithContext(ctx).
    Model(&types.ContestParticipant{}).
    Where("id = ?", participantID).
    Update("total_hints_used", gorm.Expr("total_hints_used + 1")).Error
}

func (pr *participantRepo) SetAvatarPath(ctx context.Context, tx *gorm.DB, participantID uuid.UUID, path string) error {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  return transaction.WithContext(ctx).
    Model(&types.ContestParticipant{}).
    Where("id = ?", participantID).
    Update("avatar_path", path).Error
}
