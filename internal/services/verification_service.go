package services

import (
  "context"
  "encoding/json"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/sableworks/vaultbreak-backend/internal/apierr"
  "github.com/sableworks/vaultbreak-backend/internal/clients/zk"
  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/repos"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

// VerificationService reconciles a recorded attempt with the proof oracle's
// cryptographic verdict. An attempt verifies exactly once: repeat calls on a
// verified attempt return the stored verdict without touching the oracle, and
// a failed oracle call writes nothing.
type VerificationService interface {
  Verify(ctx context.Context, attemptID uuid.UUID, walletAddress string) (*VerifyOutcome, error)
}

type VerifyOutcome struct {
  AttemptID             uuid.UUID       `json:"attemptId"`
  Verified              bool            `json:"verified"`
  ZKMatches             *bool           `json:"zkMatches"`
  ZKCommitmentHash      *string         `json:"zkCommitmentHash"`
  ZKUserAnswerHash      *string         `json:"zkUserAnswerHash"`
  ZKProofHash           *string         `json:"zkProofHash"`
  ZKIpfsCID             *string         `json:"zkIpfsCid"`
  AnchorID              *string         `json:"anchorId"`
  AnchorTxHash          *string         `json:"anchorTxHash"`
  VerificationMetadata  json.RawMessage `json:"verificationMetadata,omitempty"`
  VerifiedAt            *string         `json:"verifiedAt"`
  ExplorerURL           string          `json:"explorerUrl,omitempty"`
}

type verificationService struct {
  db               *gorm.DB
  log              *logger.Logger
  attemptRepo      repos.AttemptRepo
  participantRepo  repos.ParticipantRepo
  contestRepo      repos.ContestRepo
  gameConfigRepo   repos.GameConfigRepo
  commitmentRepo   repos.CommitmentRepo
  zkClient         zk.Client
}

func NewVerificationService(
  db *gorm.DB,
  log *logger.Logger,
  attemptRepo repos.AttemptRepo,
  participantRepo repos.ParticipantRepo,
  contestRepo repos.ContestRepo,
  gameConfigRepo repos.GameConfigRepo,
  commitmentRepo repos.CommitmentRepo,
  zkClient zk.Client,
) VerificationService {
  serviceLog := log.With("service", "VerificationService")
  return &verificationService{
    db:              db,
    log:             serviceLog,
    attemptRepo:     attemptRepo,
    participantRepo: participantRepo,
    contestRepo:     contestRepo,
    gameConfigRepo:  gameConfigRepo,
    commitmentRepo:  commitmentRepo,
    zkClient:        zkClient,
  }
}

func (vs *verificationService) Verify(ctx context.Context, attemptID uuid.UUID, walletAddress string) (*VerifyOutcome, error) {
  attempt, err := vs.attemptRepo.GetOwnedByWallet(ctx, nil, attemptID, walletAddress)
  if err != nil {
    return nil, err
  }
  if attempt == nil {
    return nil, apierr.AccessDenied("attempt not found or not owned by this wallet")
  }

  // Idempotent short-circuit: the stored verdict is the verdict.
  if attempt.Verified {
    return outcomeFromAttempt(attempt), nil
  }

  participant, err := vs.participantRepo.GetByID(ctx, nil, attempt.ParticipantID)
  if err != nil {
    return nil, err
  }
  contest, err := vs.contestRepo.GetByID(ctx, nil, attempt.ContestID)
  if err != nil {
    return nil, err
  }
  config, err := vs.gameConfigRepo.GetByID(ctx, nil, attempt.GameConfigID)
  if err != nil {
    return nil, err
  }
  if participant == nil || contest == nil || config == nil {
    return nil, apierr.Configuration("attempt references missing contest/game/participant rows")
  }

  commitment, err := vs.commitmentRepo.GetByContestAndGameConfig(ctx, nil, attempt.ContestID, attempt.GameConfigID)
  if err != nil {
    return nil, err
  }
  if !commitment.Ready() {
    return nil, apierr.Configuration("missing commitment/secret data for this attempt; cannot run ZK verification")
  }

  resp, err := vs.zkClient.VerifyAttempt(ctx, zk.VerifyRequest{
    AttemptID:         attempt.ID,
    ContestID:         attempt.ContestID,
    OnchainContestID:  contest.OnchainContestID,
    GameConfigID:      attempt.GameConfigID,
    GameID:            config.GameID,
    ParticipantWallet: participant.WalletAddress,
    AttemptIndex:      attempt.AttemptIndex,
    UserAnswer:        attempt.SubmittedAnswer,
    SecretAnswer:      commitment.AnswerPlaintext,
    SaltFull:          *commitment.SaltFull,
    CommitmentHash:    *commitment.CommitmentHash,
  })
  if err != nil {
    // Attempt stays UNVERIFIED; caller may retry.
    return nil, apierr.DependencyUnavailable("zk verification failed", err)
  }

  metadata, err := json.Marshal(resp)
  if err != nil {
    return nil, err
  }

  result := repos.VerificationResult{
    Matches:  bool(resp.PublicInputs.Matches),
    Metadata: datatypes.JSON(metadata),
  }
  if resp.PublicInputs.CommitmentHash != "" {
    result.CommitmentHash = &resp.PublicInputs.CommitmentHash
  }
  if resp.PublicInputs.UserAnswerHash != "" {
    result.UserAnswerHash = &resp.PublicInputs.UserAnswerHash
  }
  if resp.Proof.ProofHash != "" {
    result.ProofHash = &resp.Proof.ProofHash
  }
  if resp.Storacha.CID != "" {
    result.IpfsCID = &resp.Storacha.CID
  }
  if resp.Blockchain.AnchorID != "" {
    result.AnchorID = &resp.Blockchain.AnchorID
  }
  if resp.Blockchain.TxHash != "" {
    result.AnchorTxHash = &resp.Blockchain.TxHash
  }

  if err := vs.attemptRepo.MarkVerified(ctx, nil, attempt.ID, result); err != nil {
    return nil, err
  }

  updated, err := vs.attemptRepo.GetByID(ctx, nil, attempt.ID)
  if err != nil {
    return nil, err
  }
  if updated == nil {
    return nil, apierr.Configuration("attempt disappeared during verification")
  }
  return outcomeFromAttempt(updated), nil
}

// outcomeFromAttempt rebuilds the verdict from the attempt row alone, so a
// repeat call returns exactly what the first verification returned. The
// explorer URL lives only inside the stored oracle metadata.
func outcomeFromAttempt(attempt *types.Attempt) *VerifyOutcome {
  outcome := &VerifyOutcome{
    AttemptID:            attempt.ID,
    Verified:             attempt.Verified,
    ZKMatches:            attempt.ZKMatches,
    ZKCommitmentHash:     attempt.ZKCommitmentHash,
    ZKUserAnswerHash:     attempt.ZKUserAnswerHash,
    ZKProofHash:          attempt.ZKProofHash,
    ZKIpfsCID:            attempt.ZKIpfsCID,
    AnchorID:             attempt.AnchorID,
    AnchorTxHash:         attempt.AnchorTxHash,
    VerificationMetadata: json.RawMessage(attempt.VerificationMetadata),
  }
  if attempt.VerifiedAt != nil {
    formatted := attempt.VerifiedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00")
    outcome.VerifiedAt = &formatted
  }
  if len(attempt.VerificationMetadata) > 0 {
    var meta struct {
      Blockchain struct {
        ExplorerURL string `json:"explorerUrl"`
      } `json:"blockchain"`
    }
    if err := json.Unmarshal(attempt.VerificationMetadata, &meta); err == nil {
      outcome.ExplorerURL = meta.Blockchain.ExplorerURL
    }
  }
  return outcome
}
