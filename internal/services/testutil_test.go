package services

import (
  "context"
  "fmt"
  "strings"
  "sync/atomic"
  "testing"
  "time"

  "github.com/google/uuid"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"

  "github.com/sableworks/vaultbreak-backend/internal/clients/ai"
  "github.com/sableworks/vaultbreak-backend/internal/clients/zk"
  "github.com/sableworks/vaultbreak-backend/internal/db"
  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/repos"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
  t.Helper()
  dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
  gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
  if err != nil {
    t.Fatalf("open sqlite: %v", err)
  }
  sqlDB, err := gdb.DB()
  if err != nil {
    t.Fatalf("unwrap sql.DB: %v", err)
  }
  sqlDB.SetMaxOpenConns(1)
  if err := db.Migrate(gdb); err != nil {
    t.Fatalf("migrate: %v", err)
  }
  t.Cleanup(func() { _ = sqlDB.Close() })
  return gdb
}

func newTestLogger(t *testing.T) *logger.Logger {
  t.Helper()
  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("init logger: %v", err)
  }
  return log
}

type testRepos struct {
  user        repos.UserRepo
  contest     repos.ContestRepo
  participant repos.ParticipantRepo
  gameConfig  repos.GameConfigRepo
  commitment  repos.CommitmentRepo
  session     repos.SessionRepo
  attempt     repos.AttemptRepo
  hint        repos.HintRepo
}

func newTestRepos(gdb *gorm.DB, log *logger.Logger) testRepos {
  return testRepos{
    user:        repos.NewUserRepo(gdb, log),
    contest:     repos.NewContestRepo(gdb, log),
    participant: repos.NewParticipantRepo(gdb, log),
    gameConfig:  repos.NewGameConfigRepo(gdb, log),
    commitment:  repos.NewCommitmentRepo(gdb, log),
    session:     repos.NewSessionRepo(gdb, log),
    attempt:     repos.NewAttemptRepo(gdb, log),
    hint:        repos.NewHintRepo(gdb, log),
  }
}

func seedContest(t *testing.T, r testRepos) *types.Contest {
  t.Helper()
  contest, err := r.contest.Create(context.Background(), nil, &types.Contest{
    OnchainContestID: 1,
    Name:             "Midnight Vault",
    ContestType:      "standard",
    EntryFeeWei:      "1000000000000000",
    MaxPlayers:       50,
    TotalGames:       3,
    Status:           types.ContestStatusOpen,
    ChainID:          "84532",
    ContractAddress:  "0xcontract",
  })
  if err != nil {
    t.Fatalf("seed contest: %v", err)
  }
  return contest
}

func seedParticipant(t *testing.T, r testRepos, contestID uuid.UUID, wallet string) *types.ContestParticipant {
  t.Helper()
  user, err := r.user.Create(context.Background(), nil, &types.User{WalletAddress: wallet})
  if err != nil {
    t.Fatalf("seed user: %v", err)
  }
  participant, err := r.participant.Create(context.Background(), nil, &types.ContestParticipant{
    ContestID:     contestID,
    UserID:        user.ID,
    WalletAddress: wallet,
    JoinTxHash:    "0xjoin",
    JoinedAt:      time.Now(),
  })
  if err != nil {
    t.Fatalf("seed participant: %v", err)
  }
  return participant
}

func seedGame(t *testing.T, r testRepos, contestID uuid.UUID, gameID int, secret string) (*types.ContestGameConfig, *types.GameCommitment) {
  t.Helper()
  config, err := r.gameConfig.Create(context.Background(), nil, &types.ContestGameConfig{
    ContestID:  contestID,
    GameID:     gameID,
    GameType:   types.GameTypePasswordRetrieval,
    GameName:   "The Archivist",
    Difficulty: "medium",
    Persona: &types.PersonaCombination{
      Persona:    "librarian",
      Weakness:   "authority",
      Deflection: "redirect",
    },
    IsActive: true,
  })
  if err != nil {
    t.Fatalf("seed game config: %v", err)
  }
  commitment, err := r.commitment.Create(context.Background(), nil, &types.GameCommitment{
    ContestID:       contestID,
    GameConfigID:    config.ID,
    AnswerPlaintext: secret,
  })
  if err != nil {
    t.Fatalf("seed commitment: %v", err)
  }
  return config, commitment
}

func seedSession(t *testing.T, r testRepos, participantID, contestID, gameConfigID uuid.UUID, gameID int) *types.GameSession {
  t.Helper()
  session, err := r.session.Create(context.Background(), nil, &types.GameSession{
    ParticipantID:  participantID,
    ContestID:      contestID,
    GameConfigID:   gameConfigID,
    GameID:         gameID,
    SessionIndex:   1,
    IsActive:       true,
    LastActivityAt: time.Now(),
  })
  if err != nil {
    t.Fatalf("seed session: %v", err)
  }
  return session
}

func seedSessionAt(t *testing.T, r testRepos, participantID, contestID, gameConfigID uuid.UUID, gameID, sessionIndex int) *types.GameSession {
  t.Helper()
  session, err := r.session.Create(context.Background(), nil, &types.GameSession{
    ParticipantID:  participantID,
    ContestID:      contestID,
    GameConfigID:   gameConfigID,
    GameID:         gameID,
    SessionIndex:   sessionIndex,
    IsActive:       true,
    LastActivityAt: time.Now(),
  })
  if err != nil {
    t.Fatalf("seed session %d: %v", sessionIndex, err)
  }
  return session
}

// stubZKClient counts oracle calls and replays canned responses.
type stubZKClient struct {
  verifyCalls  atomic.Int64
  createCalls  atomic.Int64
  verifyResp   *zk.VerifyResponse
  verifyErr    error
  createResp   *zk.CreateCommitmentResponse
  createErr    error
}

func (s *stubZKClient) CreateCommitment(ctx context.Context, req zk.CreateCommitmentRequest) (*zk.CreateCommitmentResponse, error) {
  s.createCalls.Add(1)
  if s.createErr != nil {
    return nil, s.createErr
  }
  return s.createResp, nil
}

func (s *stubZKClient) VerifyAttempt(ctx context.Context, req zk.VerifyRequest) (*zk.VerifyResponse, error) {
  s.verifyCalls.Add(1)
  if s.verifyErr != nil {
    return nil, s.verifyErr
  }
  return s.verifyResp, nil
}

// stubAIClient replays canned persona responses and sql-leak secrets.
type stubAIClient struct {
  promptResp  *ai.PromptResponse
  promptErr   error
  sqlSecret   *ai.SQLSecret
  sqlErr      error
  promptCalls atomic.Int64
}

func (s *stubAIClient) PasswordRetrieval(ctx context.Context, req ai.PromptRequest) (*ai.PromptResponse, error) {
  s.promptCalls.Add(1)
  if s.promptErr != nil {
    return nil, s.promptErr
  }
  return s.promptResp, nil
}

func (s *stubAIClient) SQLLeak(ctx context.Context, req ai.PromptRequest) (*ai.PromptResponse, error) {
  s.promptCalls.Add(1)
  if s.promptErr != nil {
    return nil, s.promptErr
  }
  return s.promptResp, nil
}

func (s *stubAIClient) FetchSQLSecret(ctx context.Context, targetRowID int, targetField string) (*ai.SQLSecret, error) {
  if s.sqlErr != nil {
    return nil, s.sqlErr
  }
  if s.sqlSecret != nil {
    return s.sqlSecret, nil
  }
  return &ai.SQLSecret{
    TargetRowID: targetRowID,
    TargetField: targetField,
    Secret:      map[string]string{targetField: "123-45-6789"},
  }, nil
}

func strPtr(s string) *string { return &s }
