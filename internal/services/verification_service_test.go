package services

import (
  "context"
  "errors"
  "testing"

  "github.com/sableworks/vaultbreak-backend/internal/apierr"
  "github.com/sableworks/vaultbreak-backend/internal/clients/zk"
  "github.com/sableworks/vaultbreak-backend/internal/repos"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

func matchedVerifyResponse() *zk.VerifyResponse {
  return &zk.VerifyResponse{
    PublicInputs: zk.PublicInputs{
      Matches:        zk.Truthy(true),
      CommitmentHash: "0xcommit",
      UserAnswerHash: "0xuserhash",
    },
    Proof:    zk.ProofPayload{ProofHash: "0xproof"},
    Storacha: zk.StorachaPayload{CID: "bafyproof"},
    Blockchain: zk.BlockchainAnchor{
      AnchorID:    "11",
      TxHash:      "0xanchor",
      ExplorerURL: "https://scan.example/tx/0xanchor",
    },
  }
}

type verifyFixture struct {
  svc          VerificationService
  repos        testRepos
  zkStub       *stubZKClient
  attempt      *types.Attempt
  participant  *types.ContestParticipant
}

func newVerifyFixture(t *testing.T, ready bool) *verifyFixture {
  t.Helper()
  gdb := newTestDB(t)
  log := newTestLogger(t)
  r := newTestRepos(gdb, log)
  zkStub := &stubZKClient{verifyResp: matchedVerifyResponse()}
  svc := NewVerificationService(gdb, log, r.attempt, r.participant, r.contest, r.gameConfig, r.commitment, zkStub)

  contest := seedContest(t, r)
  participant := seedParticipant(t, r, contest.ID, "0xwallet1")
  config, _ := seedGame(t, r, contest.ID, 1, "OMEGA-742")
  session := seedSession(t, r, participant.ID, contest.ID, config.ID, 1)

  if ready {
    err := r.commitment.ApplyOracleUpdate(context.Background(), nil, contest.ID, config.ID, repoUpdate())
    if err != nil {
      t.Fatalf("apply oracle update: %v", err)
    }
  }

  attempt, err := r.attempt.Create(context.Background(), nil, &types.Attempt{
    SessionID:       session.ID,
    ParticipantID:   participant.ID,
    ContestID:       contest.ID,
    GameConfigID:    config.ID,
    AttemptIndex:    1,
    SubmittedAnswer: "OMEGA-742",
    IsCorrect:       true,
  })
  if err != nil {
    t.Fatalf("seed attempt: %v", err)
  }
  return &verifyFixture{svc: svc, repos: r, zkStub: zkStub, attempt: attempt, participant: participant}
}

func repoUpdate() repos.OracleCommitmentUpdate {
  return repos.OracleCommitmentUpdate{
    CommitmentHash: strPtr("0xcommit"),
    SaltFull:       strPtr("0xsaltfull"),
    SaltHint:       strPtr("0xsalthint"),
  }
}

func reposSparseUpdate() repos.OracleCommitmentUpdate {
  return repos.OracleCommitmentUpdate{
    CommitmentHash: strPtr("0xcommit2"),
  }
}

func TestVerifyPersistsOracleVerdict(t *testing.T) {
  f := newVerifyFixture(t, true)

  outcome, err := f.svc.Verify(context.Background(), f.attempt.ID, "0xwallet1")
  if err != nil {
    t.Fatalf("Verify: %v", err)
  }
  if !outcome.Verified {
    t.Fatal("outcome not verified")
  }
  if outcome.ZKMatches == nil || !*outcome.ZKMatches {
    t.Fatalf("zk matches = %v", outcome.ZKMatches)
  }
  if outcome.ExplorerURL != "https://scan.example/tx/0xanchor" {
    t.Fatalf("explorer url = %q", outcome.ExplorerURL)
  }
  if got := f.zkStub.verifyCalls.Load(); got != 1 {
    t.Fatalf("oracle calls = %d, want 1", got)
  }

  stored, err := f.repos.attempt.GetByID(context.Background(), nil, f.attempt.ID)
  if err != nil {
    t.Fatalf("reload attempt: %v", err)
  }
  if !stored.Verified || stored.VerifiedAt == nil {
    t.Fatal("attempt row not in terminal verified state")
  }
  if stored.ZKProofHash == nil || *stored.ZKProofHash != "0xproof" {
    t.Fatalf("proof hash = %v", stored.ZKProofHash)
  }
}

func TestVerifyIsIdempotent(t *testing.T) {
  f := newVerifyFixture(t, true)

  first, err := f.svc.Verify(context.Background(), f.attempt.ID, "0xwallet1")
  if err != nil {
    t.Fatalf("first Verify: %v", err)
  }
  second, err := f.svc.Verify(context.Background(), f.attempt.ID, "0xwallet1")
  if err != nil {
    t.Fatalf("second Verify: %v", err)
  }

  if got := f.zkStub.verifyCalls.Load(); got != 1 {
    t.Fatalf("oracle calls = %d, want 1 (second call must short-circuit)", got)
  }
  if second.ExplorerURL != first.ExplorerURL {
    t.Fatalf("explorer url drifted: %q vs %q", first.ExplorerURL, second.ExplorerURL)
  }
  if second.VerifiedAt == nil || first.VerifiedAt == nil || *second.VerifiedAt != *first.VerifiedAt {
    t.Fatalf("verified-at drifted: %v vs %v", first.VerifiedAt, second.VerifiedAt)
  }
  if *second.ZKMatches != *first.ZKMatches {
    t.Fatal("verdict drifted between calls")
  }
}

func TestVerifyRequiresReadyCommitment(t *testing.T) {
  f := newVerifyFixture(t, false)

  _, err := f.svc.Verify(context.Background(), f.attempt.ID, "0xwallet1")
  if !apierr.IsKind(err, apierr.KindConfiguration) {
    t.Fatalf("expected configuration error, got %v", err)
  }
  if got := f.zkStub.verifyCalls.Load(); got != 0 {
    t.Fatalf("oracle calls = %d, want 0", got)
  }

  stored, err := f.repos.attempt.GetByID(context.Background(), nil, f.attempt.ID)
  if err != nil {
    t.Fatalf("reload attempt: %v", err)
  }
  if stored.Verified {
    t.Fatal("attempt must stay unverified when commitment not ready")
  }
}

func TestVerifyRejectsForeignWallet(t *testing.T) {
  f := newVerifyFixture(t, true)

  _, err := f.svc.Verify(context.Background(), f.attempt.ID, "0xsomeoneelse")
  if !apierr.IsKind(err, apierr.KindAccessDenied) {
    t.Fatalf("expected access denied, got %v", err)
  }
  if got := f.zkStub.verifyCalls.Load(); got != 0 {
    t.Fatalf("oracle calls = %d, want 0", got)
  }
}

func TestVerifyOracleFailureLeavesAttemptUnverified(t *testing.T) {
  f := newVerifyFixture(t, true)
  f.zkStub.verifyErr = errors.New("dial tcp: connection refused")

  _, err := f.svc.Verify(context.Background(), f.attempt.ID, "0xwallet1")
  if !apierr.IsKind(err, apierr.KindDependencyUnavailable) {
    t.Fatalf("expected dependency unavailable, got %v", err)
  }

  stored, err := f.repos.attempt.GetByID(context.Background(), nil, f.attempt.ID)
  if err != nil {
    t.Fatalf("reload attempt: %v", err)
  }
  if stored.Verified || stored.ZKMatches != nil {
    t.Fatal("failed oracle call must write nothing")
  }

  // A later retry against a healthy oracle succeeds.
  f.zkStub.verifyErr = nil
  outcome, err := f.svc.Verify(context.Background(), f.attempt.ID, "0xwallet1")
  if err != nil {
    t.Fatalf("retry Verify: %v", err)
  }
  if !outcome.Verified {
    t.Fatal("retry should verify the attempt")
  }
}
