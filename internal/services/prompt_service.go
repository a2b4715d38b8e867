package services

import (
  "context"
  "strings"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/sableworks/vaultbreak-backend/internal/apierr"
  "github.com/sableworks/vaultbreak-backend/internal/clients/ai"
  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/repos"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

// PromptService relays conversation turns to the AI agent. Usage counters are
// charged only after the agent answers: a failed relay costs the player
// nothing.
type PromptService interface {
  SendPrompt(ctx context.Context, in SendPromptInput) (*SendPromptResult, error)
}

type SendPromptInput struct {
  SessionID      uuid.UUID
  ParticipantID  uuid.UUID
  ContestID      uuid.UUID
  GameID         int
  Prompt         string
}

type SendPromptResult struct {
  AssistantMessage    string `json:"assistant_message"`
  SessionPromptsUsed  int    `json:"session_prompts_used"`
}

type promptService struct {
  db               *gorm.DB
  log              *logger.Logger
  sessionRepo      repos.SessionRepo
  participantRepo  repos.ParticipantRepo
  gameConfigRepo   repos.GameConfigRepo
  commitmentRepo   repos.CommitmentRepo
  aiClient         ai.Client
}

func NewPromptService(
  db *gorm.DB,
  log *logger.Logger,
  sessionRepo repos.SessionRepo,
  participantRepo repos.ParticipantRepo,
  gameConfigRepo repos.GameConfigRepo,
  commitmentRepo repos.CommitmentRepo,
  aiClient ai.Client,
) PromptService {
  serviceLog := log.With("service", "PromptService")
  return &promptService{
    db:              db,
    log:             serviceLog,
    sessionRepo:     sessionRepo,
    participantRepo: participantRepo,
    gameConfigRepo:  gameConfigRepo,
    commitmentRepo:  commitmentRepo,
    aiClient:        aiClient,
  }
}

func (ps *promptService) SendPrompt(ctx context.Context, in SendPromptInput) (*SendPromptResult, error) {
  if strings.TrimSpace(in.Prompt) == "" {
    return nil, apierr.Validation("prompt is required")
  }

  session, err := ps.sessionRepo.GetOwned(ctx, nil, in.SessionID, in.ContestID, in.GameID, in.ParticipantID)
  if err != nil {
    return nil, err
  }
  if session == nil {
    return nil, apierr.AccessDenied("session does not belong to this user/game")
  }
  if session.IsSolved {
    return nil, apierr.Conflict("game already solved for this session")
  }

  config, err := ps.gameConfigRepo.GetByID(ctx, nil, session.GameConfigID)
  if err != nil {
    return nil, err
  }
  if config == nil {
    return nil, apierr.Configuration("game config not found for this session")
  }

  req := ai.PromptRequest{
    ContestID:  in.ContestID,
    GameID:     in.GameID,
    SessionID:  in.SessionID,
    Prompt:     in.Prompt,
    Difficulty: config.Difficulty,
  }
  if config.Persona != nil {
    req.Combination = ai.Combination{
      Persona:    config.Persona.Persona,
      Weakness:   config.Persona.Weakness,
      Deflection: config.Persona.Deflection,
    }
  }

  var resp *ai.PromptResponse
  switch config.GameType {
  case "", types.GameTypePasswordRetrieval:
    commitment, err := ps.commitmentRepo.GetByContestAndGameConfig(ctx, nil, in.ContestID, session.GameConfigID)
    if err != nil {
      return nil, err
    }
    if commitment == nil || commitment.AnswerPlaintext == "" {
      return nil, apierr.Configuration("game secret not provisioned for this contest/game")
    }
    req.SecretAnswer = commitment.AnswerPlaintext
    resp, err = ps.aiClient.PasswordRetrieval(ctx, req)
    if err != nil {
      return nil, apierr.DependencyUnavailable("ai agent unavailable", err)
    }
  case types.GameTypeSQLInjection:
    var err error
    resp, err = ps.aiClient.SQLLeak(ctx, req)
    if err != nil {
      return nil, apierr.DependencyUnavailable("ai agent unavailable", err)
    }
  default:
    return nil, apierr.Configuration("unknown game type for this session")
  }

  err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := ps.sessionRepo.IncrementPrompts(ctx, tx, session.ID); err != nil {
      return err
    }
    return ps.participantRepo.IncrementPrompts(ctx, tx, in.ParticipantID)
  })
  if err != nil {
    return nil, err
  }

  return &SendPromptResult{
    AssistantMessage:   resp.AssistantMessage,
    SessionPromptsUsed: session.CurrentPromptsUsed + 1,
  }, nil
}
