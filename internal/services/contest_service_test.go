package services

import (
  "context"
  "testing"
  "time"

  "gorm.io/gorm"

  "github.com/sableworks/vaultbreak-backend/internal/apierr"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

func newContestService(t *testing.T) (ContestService, testRepos, *gorm.DB) {
  t.Helper()
  gdb := newTestDB(t)
  log := newTestLogger(t)
  r := newTestRepos(gdb, log)
  svc := NewContestService(gdb, log, r.contest, r.participant, r.user, r.gameConfig, r.session, nil, nil)
  return svc, r, gdb
}

func TestJoinCreatesUserAndParticipant(t *testing.T) {
  svc, r, _ := newContestService(t)
  contest := seedContest(t, r)

  participant, err := svc.Join(context.Background(), JoinInput{
    ContestID:     contest.ID,
    WalletAddress: "0xABCDEF",
    JoinTxHash:    "0xjoin",
  })
  if err != nil {
    t.Fatalf("Join: %v", err)
  }
  if participant.WalletAddress != "0xabcdef" {
    t.Fatalf("wallet not normalized: %q", participant.WalletAddress)
  }

  user, err := r.user.GetByWallet(context.Background(), nil, "0xabcdef")
  if err != nil || user == nil {
    t.Fatalf("user not created: %v", err)
  }
  if user.LastLoginAt == nil {
    t.Fatal("last login not touched on join")
  }
}

func TestJoinTwiceConflicts(t *testing.T) {
  svc, r, _ := newContestService(t)
  contest := seedContest(t, r)

  if _, err := svc.Join(context.Background(), JoinInput{
    ContestID: contest.ID, WalletAddress: "0xaaa", JoinTxHash: "0x1",
  }); err != nil {
    t.Fatalf("first join: %v", err)
  }
  _, err := svc.Join(context.Background(), JoinInput{
    ContestID: contest.ID, WalletAddress: "0xAAA", JoinTxHash: "0x2",
  })
  if !apierr.IsKind(err, apierr.KindConflict) {
    t.Fatalf("expected conflict on repeat join, got %v", err)
  }
}

func TestJoinFinishedContestConflicts(t *testing.T) {
  svc, r, gdb := newContestService(t)
  contest := seedContest(t, r)
  if err := gdb.Model(&types.Contest{}).Where("id = ?", contest.ID).
    Update("status", types.ContestStatusFinished).Error; err != nil {
    t.Fatalf("finish contest: %v", err)
  }

  _, err := svc.Join(context.Background(), JoinInput{
    ContestID: contest.ID, WalletAddress: "0xaaa", JoinTxHash: "0x1",
  })
  if !apierr.IsKind(err, apierr.KindConflict) {
    t.Fatalf("expected conflict for finished contest, got %v", err)
  }
}

func TestJoinValidation(t *testing.T) {
  svc, r, _ := newContestService(t)
  contest := seedContest(t, r)

  if _, err := svc.Join(context.Background(), JoinInput{
    ContestID: contest.ID, WalletAddress: " ", JoinTxHash: "0x1",
  }); !apierr.IsKind(err, apierr.KindValidation) {
    t.Fatalf("expected validation error for blank wallet, got %v", err)
  }
  if _, err := svc.Join(context.Background(), JoinInput{
    ContestID: contest.ID, WalletAddress: "0xaaa", JoinTxHash: "",
  }); !apierr.IsKind(err, apierr.KindValidation) {
    t.Fatalf("expected validation error for missing tx hash, got %v", err)
  }
}

func TestResolveParticipantDeniesStrangers(t *testing.T) {
  svc, r, _ := newContestService(t)
  contest := seedContest(t, r)
  seedParticipant(t, r, contest.ID, "0xmember")

  if _, err := svc.ResolveParticipant(context.Background(), contest.ID, "0xstranger"); !apierr.IsKind(err, apierr.KindAccessDenied) {
    t.Fatalf("expected access denied for unknown wallet, got %v", err)
  }

  member, err := svc.ResolveParticipant(context.Background(), contest.ID, "0xMEMBER")
  if err != nil {
    t.Fatalf("ResolveParticipant: %v", err)
  }
  if member.WalletAddress != "0xmember" {
    t.Fatalf("resolved wrong participant: %q", member.WalletAddress)
  }
}

func TestLeaderboardOrdering(t *testing.T) {
  svc, r, gdb := newContestService(t)
  contest := seedContest(t, r)

  slow := seedParticipant(t, r, contest.ID, "0xslow")
  fast := seedParticipant(t, r, contest.ID, "0xfast")
  idle := seedParticipant(t, r, contest.ID, "0xidle")

  // fast and slow both solved one game, fast with fewer prompts.
  now := time.Now()
  for _, row := range []struct {
    id       interface{}
    solved   int
    prompts  int
  }{
    {slow.ID, 1, 9},
    {fast.ID, 1, 2},
    {idle.ID, 0, 4},
  } {
    if err := gdb.Model(&types.ContestParticipant{}).Where("id = ?", row.id).
      Updates(map[string]interface{}{
        "total_games_solved": row.solved,
        "total_prompts_used": row.prompts,
        "last_solved_at":     now,
      }).Error; err != nil {
      t.Fatalf("set counters: %v", err)
    }
  }

  entries, err := svc.Leaderboard(context.Background(), contest.ID)
  if err != nil {
    t.Fatalf("Leaderboard: %v", err)
  }
  if len(entries) != 3 {
    t.Fatalf("entries = %d, want 3", len(entries))
  }
  if entries[0].WalletAddress != "0xfast" || entries[1].WalletAddress != "0xslow" || entries[2].WalletAddress != "0xidle" {
    t.Fatalf("ordering = %s, %s, %s", entries[0].WalletAddress, entries[1].WalletAddress, entries[2].WalletAddress)
  }
  for i, e := range entries {
    if e.Rank != i+1 {
      t.Fatalf("rank[%d] = %d", i, e.Rank)
    }
  }
}

func TestMyStatusReportsActiveSessions(t *testing.T) {
  svc, r, _ := newContestService(t)
  contest := seedContest(t, r)
  participant := seedParticipant(t, r, contest.ID, "0xmember")
  configWithSession, _ := seedGame(t, r, contest.ID, 1, "OMEGA-742")
  seedGame(t, r, contest.ID, 2, "DELTA-100")
  session := seedSession(t, r, participant.ID, contest.ID, configWithSession.ID, 1)

  status, err := svc.MyStatus(context.Background(), contest.ID, "0xmember")
  if err != nil {
    t.Fatalf("MyStatus: %v", err)
  }
  if len(status.Games) != 2 {
    t.Fatalf("games = %d, want 2", len(status.Games))
  }
  for _, g := range status.Games {
    if g.Config.GameID == 1 {
      if g.ActiveSession == nil || g.ActiveSession.ID != session.ID {
        t.Fatalf("game 1 missing active session")
      }
    } else if g.ActiveSession != nil {
      t.Fatalf("game %d should have no active session", g.Config.GameID)
    }
  }
}
