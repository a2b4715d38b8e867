package services

import (
  "context"
  "time"

  "github.com/google/uuid"
  "golang.org/x/sync/errgroup"
  "gorm.io/gorm"

  "github.com/sableworks/vaultbreak-backend/internal/clients/zk"
  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/repos"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

// CommitmentService owns the link between a game and its secret: the plaintext
// row written at provisioning, and the cryptographic fields filled in later by
// the proof oracle. Oracle requests run on a background queue so provisioning
// never blocks on, or fails because of, the proof service.
type CommitmentService interface {
  CreateForSecret(ctx context.Context, tx *gorm.DB, contestID, gameConfigID uuid.UUID, secretPlaintext string) (*types.GameCommitment, error)
  RequestCommitmentAsync(req zk.CreateCommitmentRequest)
  GetForGame(ctx context.Context, contestID, gameConfigID uuid.UUID) (*types.GameCommitment, error)
  StartWorker(ctx context.Context)
}

type commitmentService struct {
  db              *gorm.DB
  log             *logger.Logger
  commitmentRepo  repos.CommitmentRepo
  zkClient        zk.Client
  queue           chan zk.CreateCommitmentRequest
  workers         int
}

func NewCommitmentService(db *gorm.DB, log *logger.Logger, commitmentRepo repos.CommitmentRepo, zkClient zk.Client) CommitmentService {
  serviceLog := log.With("service", "CommitmentService")
  return &commitmentService{
    db:             db,
    log:            serviceLog,
    commitmentRepo: commitmentRepo,
    zkClient:       zkClient,
    queue:          make(chan zk.CreateCommitmentRequest, 256),
    workers:        2,
  }
}

func (cs *commitmentService) CreateForSecret(ctx context.Context, tx *gorm.DB, contestID, gameConfigID uuid.UUID, secretPlaintext string) (*types.GameCommitment, error) {
  commitment := &types.GameCommitment{
    ContestID:       contestID,
    GameConfigID:    gameConfigID,
    AnswerPlaintext: secretPlaintext,
  }
  return cs.commitmentRepo.Create(ctx, tx, commitment)
}

// RequestCommitmentAsync enqueues a create-commitment call. A full queue drops
// the request with a warning; the reconciliation sweep picks the game up later.
func (cs *commitmentService) RequestCommitmentAsync(req zk.CreateCommitmentRequest) {
  select {
  case cs.queue <- req:
  default:
    cs.log.Warn("Commitment queue full, dropping request", "game_config_id", req.GameConfigID)
  }
}

func (cs *commitmentService) GetForGame(ctx context.Context, contestID, gameConfigID uuid.UUID) (*types.GameCommitment, error) {
  return cs.commitmentRepo.GetByContestAndGameConfig(ctx, nil, contestID, gameConfigID)
}

// StartWorker runs the commitment request workers until ctx is cancelled.
// Failures are logged and swallowed: a game without a commitment still serves
// fast-checks, and verify reports "commitment not ready" until a retry lands.
func (cs *commitmentService) StartWorker(ctx context.Context) {
  group, groupCtx := errgroup.WithContext(ctx)
  for i := 0; i < cs.workers; i++ {
    group.Go(func() error {
      for {
        select {
        case <-groupCtx.Done():
          return nil
        case req := <-cs.queue:
          cs.process(groupCtx, req)
        }
      }
    })
  }
  go func() {
    _ = group.Wait()
  }()
}

func (cs *commitmentService) process(ctx context.Context, req zk.CreateCommitmentRequest) {
  callCtx, cancel := context.WithTimeout(ctx, 90*time.Second)
  defer cancel()

  resp, err := cs.zkClient.CreateCommitment(callCtx, req)
  if err != nil {
    cs.log.Error("ZK create-commitment failed", "game_config_id", req.GameConfigID, "error", err)
    return
  }

  update := repos.OracleCommitmentUpdate{}
  if resp.Commitment != nil {
    c := resp.Commitment
    if c.CommitmentHash != "" {
      update.CommitmentHash = &c.CommitmentHash
    }
    if c.SaltFull != "" {
      update.SaltFull = &c.SaltFull
    }
    if c.SaltHint != "" {
      update.SaltHint = &c.SaltHint
    }
    if c.ProofHash != "" {
      update.ProofHash = &c.ProofHash
    }
    if c.Storage != nil {
      if c.Storage.CID != "" {
        update.StorachaCID = &c.Storage.CID
      }
      if c.Storage.URL != "" {
        update.StorachaURL = &c.Storage.URL
      }
    }
  }
  if resp.Blockchain != nil && resp.Blockchain.TxHash != "" {
    update.AnchorTxHash = &resp.Blockchain.TxHash
  }

  if err := cs.commitmentRepo.ApplyOracleUpdate(ctx, nil, req.ContestID, req.GameConfigID, update); err != nil {
    cs.log.Error("Failed to apply commitment oracle update", "game_config_id", req.GameConfigID, "error", err)
    return
  }
  cs.log.Info("ZK commitment updated", "contest_id", req.ContestID, "game_config_id", req.GameConfigID)
}
