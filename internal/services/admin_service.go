package services

import (
  "context"
  "errors"
  "fmt"
  "math/rand"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/sableworks/vaultbreak-backend/internal/apierr"
  "github.com/sableworks/vaultbreak-backend/internal/clients/ai"
  "github.com/sableworks/vaultbreak-backend/internal/clients/zk"
  "github.com/sableworks/vaultbreak-backend/internal/game"
  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/repos"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

// AdminService provisions contests and their games. Provisioning writes the
// config and plaintext commitment in one transaction, then hands the oracle
// call to the commitment queue so the admin request returns immediately.
type AdminService interface {
  CreateContest(ctx context.Context, in CreateContestInput) (*types.Contest, error)
  AddGame(ctx context.Context, in AddGameInput) (*AddGameResult, error)
  ReconcileCommitments(ctx context.Context) (int, error)
}

type CreateContestInput struct {
  Name              string
  ContestType       string
  OnchainContestID  int64
  EntryFeeWei       string
  MaxPlayers        int
  TotalGames        int
  ChainID           string
  ContractAddress   string
  StartTime         *time.Time
  EndTime           *time.Time
}

type AddGameInput struct {
  ContestID             uuid.UUID
  GameID                int
  GameType              string
  GameName              string
  Difficulty            string
  Combination           *types.PersonaCombination
  SystemPrompt          string
  ModelName             string
  MaxAttemptsPerPlayer  *int
  MaxHints              *int
}

type AddGameResult struct {
  Config      *types.ContestGameConfig `json:"config"`
  Commitment  *types.GameCommitment    `json:"commitment"`
}

// Columns the SQL-leak game can target on the agent's employee table.
var sqlTargetFields = []string{"ssn", "salary", "email"}

const sqlTargetRowMax = 100

type adminService struct {
  db                 *gorm.DB
  log                *logger.Logger
  contestRepo        repos.ContestRepo
  gameConfigRepo     repos.GameConfigRepo
  commitmentRepo     repos.CommitmentRepo
  commitmentService  CommitmentService
  aiClient           ai.Client
}

func NewAdminService(
  db *gorm.DB,
  log *logger.Logger,
  contestRepo repos.ContestRepo,
  gameConfigRepo repos.GameConfigRepo,
  commitmentRepo repos.CommitmentRepo,
  commitmentService CommitmentService,
  aiClient ai.Client,
) AdminService {
  serviceLog := log.With("service", "AdminService")
  return &adminService{
    db:                db,
    log:               serviceLog,
    contestRepo:       contestRepo,
    gameConfigRepo:    gameConfigRepo,
    commitmentRepo:    commitmentRepo,
    commitmentService: commitmentService,
    aiClient:          aiClient,
  }
}

func (as *adminService) CreateContest(ctx context.Context, in CreateContestInput) (*types.Contest, error) {
  if strings.TrimSpace(in.Name) == "" {
    return nil, apierr.Validation("name is required")
  }
  if in.MaxPlayers <= 0 {
    return nil, apierr.Validation("maxPlayers must be positive")
  }
  if in.TotalGames <= 0 {
    return nil, apierr.Validation("totalGames must be positive")
  }
  contestType := in.ContestType
  if contestType == "" {
    contestType = "standard"
  }
  entryFee := strings.TrimSpace(in.EntryFeeWei)
  if entryFee == "" {
    entryFee = "0"
  }

  contest, err := as.contestRepo.Create(ctx, nil, &types.Contest{
    OnchainContestID: in.OnchainContestID,
    Name:             strings.TrimSpace(in.Name),
    ContestType:      contestType,
    EntryFeeWei:      entryFee,
    MaxPlayers:       in.MaxPlayers,
    TotalGames:       in.TotalGames,
    Status:           types.ContestStatusOpen,
    ChainID:          in.ChainID,
    ContractAddress:  in.ContractAddress,
    StartTime:        in.StartTime,
    EndTime:          in.EndTime,
  })
  if err != nil {
    return nil, err
  }
  as.log.Info("contest created", "contest_id", contest.ID.String(), "name", contest.Name)
  return contest, nil
}

func (as *adminService) AddGame(ctx context.Context, in AddGameInput) (*AddGameResult, error) {
  if in.GameID <= 0 {
    return nil, apierr.Validation("gameId must be positive")
  }
  contest, err := as.contestRepo.GetByID(ctx, nil, in.ContestID)
  if err != nil {
    return nil, err
  }
  if contest == nil {
    return nil, apierr.NotFound("contest not found")
  }

  difficulty := in.Difficulty
  if difficulty == "" {
    difficulty = "medium"
  }

  var persona *types.PersonaCombination
  var secret string

  switch in.GameType {
  case types.GameTypePasswordRetrieval:
    combo, err := as.resolveCombination(in.Combination)
    if err != nil {
      return nil, err
    }
    persona = combo
    secret = game.GenerateSecret()

  case types.GameTypeSQLInjection:
    targetRowID := rand.Intn(sqlTargetRowMax) + 1
    targetField := sqlTargetFields[rand.Intn(len(sqlTargetFields))]
    leaked, err := as.aiClient.FetchSQLSecret(ctx, targetRowID, targetField)
    if err != nil {
      return nil, apierr.DependencyUnavailable("could not fetch sql-leak secret from ai agent", err)
    }
    secret = leaked.Secret[targetField]
    if secret == "" {
      return nil, apierr.DependencyUnavailable("ai agent returned empty sql-leak secret", nil)
    }

  default:
    return nil, apierr.Validation(fmt.Sprintf("unknown gameType %q", in.GameType))
  }

  result := &AddGameResult{}
  err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    config, err := as.gameConfigRepo.Create(ctx, tx, &types.ContestGameConfig{
      ContestID:            in.ContestID,
      GameID:               in.GameID,
      GameType:             in.GameType,
      GameName:             in.GameName,
      Difficulty:           difficulty,
      Persona:              persona,
      SystemPrompt:         in.SystemPrompt,
      ModelName:            in.ModelName,
      MaxAttemptsPerPlayer: in.MaxAttemptsPerPlayer,
      MaxHints:             in.MaxHints,
      IsActive:             true,
    })
    if err != nil {
      if errors.Is(err, gorm.ErrDuplicatedKey) {
        return apierr.Conflict("game already configured for this contest")
      }
      return err
    }
    commitment, err := as.commitmentService.CreateForSecret(ctx, tx, in.ContestID, config.ID, secret)
    if err != nil {
      return err
    }
    result.Config = config
    result.Commitment = commitment
    return nil
  })
  if err != nil {
    return nil, err
  }

  as.commitmentService.RequestCommitmentAsync(zk.CreateCommitmentRequest{
    ContestID:        in.ContestID,
    OnchainContestID: contest.OnchainContestID,
    GameConfigID:     result.Config.ID,
    GameID:           in.GameID,
    Difficulty:       difficulty,
    SecretAnswer:     secret,
  })
  as.log.Info("game provisioned",
    "contest_id", in.ContestID.String(),
    "game_config_id", result.Config.ID.String(),
    "game_type", in.GameType,
  )
  return result, nil
}

func (as *adminService) resolveCombination(provided *types.PersonaCombination) (*types.PersonaCombination, error) {
  if provided == nil {
    picked := game.PickCombination()
    return &types.PersonaCombination{
      Persona:    picked.Persona,
      Weakness:   picked.Weakness,
      Deflection: picked.Deflection,
    }, nil
  }
  err := game.ValidateCombination(game.Combination{
    Persona:    provided.Persona,
    Weakness:   provided.Weakness,
    Deflection: provided.Deflection,
  })
  if err != nil {
    return nil, apierr.Validation(err.Error())
  }
  return provided, nil
}

// ReconcileCommitments re-enqueues oracle requests for games whose commitment
// hash never landed, typically after a dropped queue entry or an oracle
// outage. Returns how many were enqueued.
func (as *adminService) ReconcileCommitments(ctx context.Context) (int, error) {
  missing, err := as.commitmentRepo.ListMissingCommitment(ctx, nil)
  if err != nil {
    return 0, err
  }
  enqueued := 0
  for _, commitment := range missing {
    config, err := as.gameConfigRepo.GetByID(ctx, nil, commitment.GameConfigID)
    if err != nil {
      return enqueued, err
    }
    contest, err := as.contestRepo.GetByID(ctx, nil, commitment.ContestID)
    if err != nil {
      return enqueued, err
    }
    if config == nil || contest == nil {
      continue
    }
    as.commitmentService.RequestCommitmentAsync(zk.CreateCommitmentRequest{
      ContestID:        commitment.ContestID,
      OnchainContestID: contest.OnchainContestID,
      GameConfigID:     commitment.GameConfigID,
      GameID:           config.GameID,
      Difficulty:       config.Difficulty,
      SecretAnswer:     commitment.AnswerPlaintext,
    })
    enqueued++
  }
  if enqueued > 0 {
    as.log.Info("re-enqueued commitment requests", "count", enqueued)
  }
  return enqueued, nil
}
