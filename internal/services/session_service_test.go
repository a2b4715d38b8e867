package services

import (
  "context"
  "sync"
  "testing"

  "github.com/google/uuid"

  "github.com/sableworks/vaultbreak-backend/internal/apierr"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

func TestGetOrCreateActiveReusesExisting(t *testing.T) {
  gdb := newTestDB(t)
  log := newTestLogger(t)
  r := newTestRepos(gdb, log)
  svc := NewSessionService(gdb, log, r.session)

  contest := seedContest(t, r)
  participant := seedParticipant(t, r, contest.ID, "0xwallet1")
  config, _ := seedGame(t, r, contest.ID, 1, "OMEGA-742")

  first, err := svc.GetOrCreateActive(context.Background(), participant.ID, contest.ID, config.ID, 1)
  if err != nil {
    t.Fatalf("first GetOrCreateActive: %v", err)
  }
  if first.SessionIndex != 1 || !first.IsActive {
    t.Fatalf("first session = index %d active %v", first.SessionIndex, first.IsActive)
  }

  second, err := svc.GetOrCreateActive(context.Background(), participant.ID, contest.ID, config.ID, 1)
  if err != nil {
    t.Fatalf("second GetOrCreateActive: %v", err)
  }
  if second.ID != first.ID {
    t.Fatalf("expected same session, got %s and %s", first.ID, second.ID)
  }
}

func TestGetOrCreateActiveConcurrent(t *testing.T) {
  gdb := newTestDB(t)
  log := newTestLogger(t)
  r := newTestRepos(gdb, log)
  svc := NewSessionService(gdb, log, r.session)

  contest := seedContest(t, r)
  participant := seedParticipant(t, r, contest.ID, "0xwallet1")
  config, _ := seedGame(t, r, contest.ID, 1, "OMEGA-742")

  const workers = 8
  var wg sync.WaitGroup
  ids := make([]uuid.UUID, workers)
  errs := make([]error, workers)
  for i := 0; i < workers; i++ {
    wg.Add(1)
    go func(i int) {
      defer wg.Done()
      session, err := svc.GetOrCreateActive(context.Background(), participant.ID, contest.ID, config.ID, 1)
      if err != nil {
        errs[i] = err
        return
      }
      ids[i] = session.ID
    }(i)
  }
  wg.Wait()

  for i, err := range errs {
    if err != nil {
      t.Fatalf("worker %d: %v", i, err)
    }
  }
  for i := 1; i < workers; i++ {
    if ids[i] != ids[0] {
      t.Fatalf("workers got different sessions: %s vs %s", ids[0], ids[i])
    }
  }

  var activeCount int64
  if err := gdb.Model(&types.GameSession{}).
    Where("participant_id = ? AND game_config_id = ? AND is_active = ?", participant.ID, config.ID, true).
    Count(&activeCount).Error; err != nil {
    t.Fatalf("count active: %v", err)
  }
  if activeCount != 1 {
    t.Fatalf("active sessions = %d, want 1", activeCount)
  }
}

func TestResetAdvancesOrdinal(t *testing.T) {
  gdb := newTestDB(t)
  log := newTestLogger(t)
  r := newTestRepos(gdb, log)
  svc := NewSessionService(gdb, log, r.session)

  contest := seedContest(t, r)
  participant := seedParticipant(t, r, contest.ID, "0xwallet1")
  config, _ := seedGame(t, r, contest.ID, 1, "OMEGA-742")

  original, err := svc.GetOrCreateActive(context.Background(), participant.ID, contest.ID, config.ID, 1)
  if err != nil {
    t.Fatalf("GetOrCreateActive: %v", err)
  }

  result, err := svc.Reset(context.Background(), original.ID, participant.ID, contest.ID, 1)
  if err != nil {
    t.Fatalf("Reset: %v", err)
  }
  if result.OldSessionID != original.ID {
    t.Fatalf("old session id = %s, want %s", result.OldSessionID, original.ID)
  }
  if result.NewSessionIndex != 2 {
    t.Fatalf("new session index = %d, want 2", result.NewSessionIndex)
  }

  var old types.GameSession
  if err := gdb.First(&old, "id = ?", original.ID).Error; err != nil {
    t.Fatalf("reload old session: %v", err)
  }
  if old.IsActive {
    t.Fatal("old session still active after reset")
  }
  if old.EndedAt == nil {
    t.Fatal("old session missing ended_at after reset")
  }
}

func TestResetRejectsForeignSession(t *testing.T) {
  gdb := newTestDB(t)
  log := newTestLogger(t)
  r := newTestRepos(gdb, log)
  svc := NewSessionService(gdb, log, r.session)

  contest := seedContest(t, r)
  owner := seedParticipant(t, r, contest.ID, "0xowner")
  intruder := seedParticipant(t, r, contest.ID, "0xintruder")
  config, _ := seedGame(t, r, contest.ID, 1, "OMEGA-742")
  session := seedSession(t, r, owner.ID, contest.ID, config.ID, 1)

  _, err := svc.Reset(context.Background(), session.ID, intruder.ID, contest.ID, 1)
  if !apierr.IsKind(err, apierr.KindAccessDenied) {
    t.Fatalf("expected access denied, got %v", err)
  }

  _, err = svc.Reset(context.Background(), uuid.New(), owner.ID, contest.ID, 1)
  if !apierr.IsKind(err, apierr.KindAccessDenied) {
    t.Fatalf("expected access denied for unknown session, got %v", err)
  }
}
