package repos

import (
  "context"
  "errors"
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

// VerificationResult is everything the verify flow persists onto an attempt
// in one shot. Written exactly once per attempt.
type VerificationResult struct {
  Matches          bool
  CommitmentHash   *string
  UserAnswerHash   *string
  ProofHash        *string
  IpfsCID          *string
  AnchorID         *string
  AnchorTxHash     *string
  Metadata         datatypes.JSON
}

type AttemptRepo interface {
  Create(ctx context.Context, tx *gorm.DB, attempt *types.Attempt) (*types.Attempt, error)
  GetByID(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID) (*types.Attempt, error)
  GetOwnedByWallet(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID, walletAddress string) (*types.Attempt, error)
  NextIndex(ctx context.Context, tx *gorm.DB, participantID, gameConfigID uuid.UUID) (int, error)
  MarkVerified(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID, result VerificationResult) error
}

type attemptRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAttemptRepo(db *gorm.DB, baseLog *logger.Logger) AttemptRepo {
  repoLog := baseLog.With("repo", "AttemptRepo")
  return &attemptRepo{db: db, log: repoLog}
}

func (ar *attemptRepo) Create(ctx context.Context, tx *gorm.DB, attempt *types.Attempt) (*types.Attempt, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  if attempt.ID == uuid.Nil {
    attempt.ID = uuid.New()
  }
  if err := transaction.WithContext(ctx).Create(attempt).Error; err != nil {
    return nil, err
  }
  return attempt, nil
}

func (ar *attemptRepo) GetByID(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID) (*types.Attempt, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  var attempt types.Attempt
  err := transaction.WithContext(ctx).
    Where("id = ?", attemptID).
    First(&attempt).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &attempt, nil
}

// GetOwnedByWallet resolves an attempt only when the owning participant's
// user carries the given wallet. Missing and foreign rows look identical to
// the caller.
func (ar *attemptRepo) GetOwnedByWallet(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID, walletAddress string) (*types.Attempt, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  var attempt types.Attempt
  err := transaction.WithContext(ctx).
    Joins("JOIN contest_participant ON contest_participant.id = attempt.participant_id").
    Joins(`JOIN "user" ON "user".id = contest_participant.user_id`).
    Where(`attempt.id = ? AND "user".wallet_address = ?`, attemptID, walletAddress).
    First(&attempt).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &attempt, nil
}

func (ar *attemptRepo) NextIndex(ctx context.Context, tx *gorm.DB, participantID, gameConfigID uuid.UUID) (int, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  var maxIndex int
  err := transaction.WithContext(ctx).
    Model(&types.Attempt{}).
    Where("participant_id = ? AND game_config_id = ?", participantID, gameConfigID).
    Select("COALESCE(MAX(attempt_index), 0)").
    Scan(&maxIndex).Error
  if err != nil {
    return 0, err
  }
  return maxIndex + 1, nil
}

// MarkVerified flips the attempt to its terminal verified state. The guard on
// verified = false makes a concurrent double-verify write at most once.
func (ar *attemptRepo) MarkVerified(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID, result VerificationResult) error {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  now := time.Now()
  fields := map[string]interface{}{
    "verified":              true,
    "zk_matches":            result.Matches,
    "verification_metadata": result.Metadata,
    "verified_at":           now,
  }
  if result.CommitmentHash != nil {
    fields["zk_commitment_hash"] = *result.CommitmentHash
  }
  if result.UserAnswerHash != nil {
    fields["zk_user_answer_hash"] = *result.UserAnswerHash
  }
  if result.ProofHash != nil {
    fields["zk_proof_hash"] = *result.ProofHash
  }
  if result.IpfsCID != nil {
    fields["zk_ipfs_cid"] = *result.IpfsCID
  }
  if result.AnchorID != nil {
    fields["anchor_id"] = *result.AnchorID
  }
  if result.AnchorTxHash != nil {
    fields["anchor_tx_hash"] = *result.AnchorTxHash
  }
  return transaction.WithContext(ctx).
    Model(&types.Attempt{}).
    Where("id = ? AND verified = ?", attemptID, false).
    Updates(fields).Error
}
