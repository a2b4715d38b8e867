package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

// OracleCommitmentUpdate carries the fields the proof oracle returned for a
// commitment. Nil fields are preserved on update, so a partial oracle
// response never clobbers previously stored values and the update is safe to
// apply more than once.
type OracleCommitmentUpdate struct {
  CommitmentHash *string
  SaltFull       *string
  SaltHint       *string
  StorachaCID    *string
  StorachaURL    *string
  ProofHash      *string
  AnchorTxHash   *string
}

type CommitmentRepo interface {
  Create(ctx context.Context, tx *gorm.DB, commitment *types.GameCommitment) (*types.GameCommitment, error)
  GetByContestAndGameConfig(ctx context.Context, tx *gorm.DB, contestID, gameConfigID uuid.UUID) (*types.GameCommitment, error)
  ApplyOracleUpdate(ctx context.Context, tx *gorm.DB, contestID, gameConfigID uuid.UUID, update OracleCommitmentUpdate) error
  ListMissingCommitment(ctx context.Context, tx *gorm.DB) ([]*types.GameCommitment, error)
}

type commitmentRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCommitmentRepo(db *gorm.DB, baseLog *logger.Logger) CommitmentRepo {
  repoLog := baseLog.With("repo", "CommitmentRepo")
  return &commitmentRepo{db: db, log: repoLog}
}

func (cr *commitmentRepo) Create(ctx context.Context, tx *gorm.DB, commitment *types.GameCommitment) (*types.GameCommitment, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if commitment.ID == uuid.Nil {
    commitment.ID = uuid.New()
  }
  if err := transaction.WithContext(ctx).Create(commitment).Error; err != nil {
    return nil, err
  }
  return commitment, nil
}

func (cr *commitmentRepo) GetByContestAndGameConfig(ctx context.Context, tx *gorm.DB, contestID, gameConfigID uuid.UUID) (*types.GameCommitment, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var commitment types.GameCommitment
  err := transaction.WithContext(ctx).
    Where("contest_id = ? AND game_config_id = ?", contestID, gameConfigID).
    First(&commitment).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &commitment, nil
}

func (cr *commitmentRepo) ApplyOracleUpdate(ctx context.Context, tx *gorm.DB, contestID, gameConfigID uuid.UUID, update OracleCommitmentUpdate) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  fields := map[string]interface{}{}
  if update.CommitmentHash != nil {
    fields["commitment_hash"] = *update.CommitmentHash
  }
  if update.SaltFull != nil {
    fields["salt_full"] = *update.SaltFull
  }
  if update.SaltHint != nil {
    fields["salt_hint"] = *update.SaltHint
  }
  if update.StorachaCID != nil {
    fields["storacha_cid"] = *update.StorachaCID
  }
  if update.StorachaURL != nil {
    fields["storacha_url"] = *update.StorachaURL
  }
  if update.ProofHash != nil {
    fields["proof_hash"] = *update.ProofHash
  }
  if update.AnchorTxHash != nil {
    fields["anchor_tx_hash"] = *update.AnchorTxHash
  }
  if len(fields) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Model(&types.GameCommitment{}).
    Where("contest_id = ? AND game_config_id = ?", contestID, gameConfigID).
    Updates(fields).Error
}

// ListMissingCommitment returns commitments the oracle never filled in, for
// the reconciliation sweep.
func (cr *commitmentRepo) ListMissingCommitment(ctx context.Context, tx *gorm.DB) ([]*types.GameCommitment, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var results []*types.GameCommitment
  if err := transaction.WithContext(ctx).
    Where("commitment_hash IS NULL").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
