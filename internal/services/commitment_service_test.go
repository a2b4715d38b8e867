package services

import (
  "context"
  "testing"
  "time"

  "github.com/sableworks/vaultbreak-backend/internal/clients/zk"
)

func TestCommitmentWorkerAppliesOracleUpdate(t *testing.T) {
  gdb := newTestDB(t)
  log := newTestLogger(t)
  r := newTestRepos(gdb, log)
  zkStub := &stubZKClient{
    createResp: &zk.CreateCommitmentResponse{
      Commitment: &zk.CommitmentPayload{
        CommitmentHash: "0xcommit",
        SaltFull:       "0xsaltfull",
        SaltHint:       "0xsalthint",
        ProofHash:      "0xproof",
        Storage:        &zk.CommitmentStorage{CID: "bafyc", URL: "https://w3s.link/ipfs/bafyc"},
      },
      Blockchain: &zk.BlockchainAnchor{AnchorID: "3", TxHash: "0xanchor"},
    },
  }
  svc := NewCommitmentService(gdb, log, r.commitment, zkStub)

  contest := seedContest(t, r)
  config, _ := seedGame(t, r, contest.ID, 1, "OMEGA-742")

  ctx, cancel := context.WithCancel(context.Background())
  defer cancel()
  svc.StartWorker(ctx)

  svc.RequestCommitmentAsync(zk.CreateCommitmentRequest{
    ContestID:        contest.ID,
    OnchainContestID: contest.OnchainContestID,
    GameConfigID:     config.ID,
    GameID:           1,
    Difficulty:       "medium",
    SecretAnswer:     "OMEGA-742",
  })

  deadline := time.Now().Add(3 * time.Second)
  for {
    commitment, err := svc.GetForGame(context.Background(), contest.ID, config.ID)
    if err != nil {
      t.Fatalf("GetForGame: %v", err)
    }
    if commitment.Ready() {
      if commitment.StorachaCID == nil || *commitment.StorachaCID != "bafyc" {
        t.Fatalf("storacha cid = %v", commitment.StorachaCID)
      }
      if commitment.AnchorTxHash == nil || *commitment.AnchorTxHash != "0xanchor" {
        t.Fatalf("anchor tx = %v", commitment.AnchorTxHash)
      }
      if commitment.AnswerPlaintext != "OMEGA-742" {
        t.Fatalf("plaintext clobbered: %q", commitment.AnswerPlaintext)
      }
      return
    }
    if time.Now().After(deadline) {
      t.Fatal("commitment never became ready")
    }
    time.Sleep(20 * time.Millisecond)
  }
}

func TestApplyOracleUpdatePreservesExistingFields(t *testing.T) {
  gdb := newTestDB(t)
  log := newTestLogger(t)
  r := newTestRepos(gdb, log)

  contest := seedContest(t, r)
  config, _ := seedGame(t, r, contest.ID, 1, "OMEGA-742")

  if err := r.commitment.ApplyOracleUpdate(context.Background(), nil, contest.ID, config.ID, repoUpdate()); err != nil {
    t.Fatalf("first update: %v", err)
  }

  // A sparse repeat update must not blank the fields it omits.
  if err := r.commitment.ApplyOracleUpdate(context.Background(), nil, contest.ID, config.ID, reposSparseUpdate()); err != nil {
    t.Fatalf("sparse update: %v", err)
  }

  commitment, err := r.commitment.GetByContestAndGameConfig(context.Background(), nil, contest.ID, config.ID)
  if err != nil {
    t.Fatalf("reload commitment: %v", err)
  }
  if commitment.SaltFull == nil || *commitment.SaltFull != "0xsaltfull" {
    t.Fatalf("salt full lost: %v", commitment.SaltFull)
  }
  if commitment.CommitmentHash == nil || *commitment.CommitmentHash != "0xcommit2" {
    t.Fatalf("commitment hash = %v", commitment.CommitmentHash)
  }
}
