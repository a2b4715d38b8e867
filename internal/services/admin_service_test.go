package services

import (
  "context"
  "regexp"
  "testing"

  "github.com/sableworks/vaultbreak-backend/internal/apierr"
  "github.com/sableworks/vaultbreak-backend/internal/clients/zk"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

func newAdminService(t *testing.T) (AdminService, CommitmentService, testRepos, *stubZKClient, *stubAIClient) {
  t.Helper()
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
      },
      Blockchain: &zk.BlockchainAnchor{TxHash: "0xanchor"},
    },
  }
  aiStub := &stubAIClient{}
  commitmentService := NewCommitmentService(gdb, log, r.commitment, zkStub)
  adminService := NewAdminService(gdb, log, r.contest, r.gameConfig, r.commitment, commitmentService, aiStub)
  return adminService, commitmentService, r, zkStub, aiStub
}

func TestCreateContestValidation(t *testing.T) {
  svc, _, _, _, _ := newAdminService(t)

  if _, err := svc.CreateContest(context.Background(), CreateContestInput{
    Name: "", MaxPlayers: 10, TotalGames: 3,
  }); !apierr.IsKind(err, apierr.KindValidation) {
    t.Fatalf("expected validation error for empty name, got %v", err)
  }
  if _, err := svc.CreateContest(context.Background(), CreateContestInput{
    Name: "x", MaxPlayers: 0, TotalGames: 3,
  }); !apierr.IsKind(err, apierr.KindValidation) {
    t.Fatalf("expected validation error for zero players, got %v", err)
  }

  contest, err := svc.CreateContest(context.Background(), CreateContestInput{
    Name: "Nightfall", MaxPlayers: 25, TotalGames: 3, OnchainContestID: 9,
  })
  if err != nil {
    t.Fatalf("CreateContest: %v", err)
  }
  if contest.Status != types.ContestStatusOpen {
    t.Fatalf("status = %q, want open", contest.Status)
  }
  if contest.EntryFeeWei != "0" {
    t.Fatalf("entry fee default = %q", contest.EntryFeeWei)
  }
}

func TestAddPasswordRetrievalGame(t *testing.T) {
  svc, _, r, _, _ := newAdminService(t)
  contest := seedContest(t, r)

  result, err := svc.AddGame(context.Background(), AddGameInput{
    ContestID: contest.ID,
    GameID:    1,
    GameType:  types.GameTypePasswordRetrieval,
    GameName:  "The Archivist",
  })
  if err != nil {
    t.Fatalf("AddGame: %v", err)
  }
  if result.Config.Persona == nil || result.Config.Persona.Weakness == "" {
    t.Fatal("password game missing persona combination")
  }
  pattern := regexp.MustCompile(`^[A-Z]+-\d{3}$`)
  if !pattern.MatchString(result.Commitment.AnswerPlaintext) {
    t.Fatalf("secret %q not in WORD-NNN format", result.Commitment.AnswerPlaintext)
  }

  // Same game id again is a conflict, not a silent second config.
  _, err = svc.AddGame(context.Background(), AddGameInput{
    ContestID: contest.ID,
    GameID:    1,
    GameType:  types.GameTypePasswordRetrieval,
  })
  if !apierr.IsKind(err, apierr.KindConflict) {
    t.Fatalf("expected conflict for duplicate game id, got %v", err)
  }
}

func TestAddGameRejectsInvalidCombination(t *testing.T) {
  svc, _, r, _, _ := newAdminService(t)
  contest := seedContest(t, r)

  _, err := svc.AddGame(context.Background(), AddGameInput{
    ContestID: contest.ID,
    GameID:    1,
    GameType:  types.GameTypePasswordRetrieval,
    Combination: &types.PersonaCombination{
      Persona:    "guard",
      Weakness:   "politeness",
      Deflection: "flat_denial",
    },
  })
  if !apierr.IsKind(err, apierr.KindValidation) {
    t.Fatalf("expected validation error for excluded pair, got %v", err)
  }
}

func TestAddSQLInjectionGame(t *testing.T) {
  svc, _, r, _, _ := newAdminService(t)
  contest := seedContest(t, r)

  result, err := svc.AddGame(context.Background(), AddGameInput{
    ContestID: contest.ID,
    GameID:    2,
    GameType:  types.GameTypeSQLInjection,
    GameName:  "Payroll Leak",
  })
  if err != nil {
    t.Fatalf("AddGame: %v", err)
  }
  if result.Config.Persona != nil {
    t.Fatal("sql-leak game should carry no persona")
  }
  if result.Commitment.AnswerPlaintext != "123-45-6789" {
    t.Fatalf("secret = %q", result.Commitment.AnswerPlaintext)
  }
}

func TestAddGameUnknownType(t *testing.T) {
  svc, _, r, _, _ := newAdminService(t)
  contest := seedContest(t, r)

  _, err := svc.AddGame(context.Background(), AddGameInput{
    ContestID: contest.ID,
    GameID:    3,
    GameType:  "TRIVIA",
  })
  if !apierr.IsKind(err, apierr.KindValidation) {
    t.Fatalf("expected validation error for unknown type, got %v", err)
  }
}

func TestReconcileCommitmentsEnqueuesMissing(t *testing.T) {
  svc, _, r, _, _ := newAdminService(t)
  contest := seedContest(t, r)

  // One game without an oracle commitment, one already committed.
  seedGame(t, r, contest.ID, 1, "OMEGA-742")
  committedConfig, _ := seedGame(t, r, contest.ID, 2, "DELTA-100")
  err := r.commitment.ApplyOracleUpdate(context.Background(), nil, contest.ID, committedConfig.ID, repoUpdate())
  if err != nil {
    t.Fatalf("apply oracle update: %v", err)
  }

  enqueued, err := svc.ReconcileCommitments(context.Background())
  if err != nil {
    t.Fatalf("ReconcileCommitments: %v", err)
  }
  if enqueued != 1 {
    t.Fatalf("enqueued = %d, want 1", enqueued)
  }
}
