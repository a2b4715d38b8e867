package ai

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "io"
  "net/http"
  "net/url"
  "strconv"
  "strings"
  "time"

  "github.com/google/uuid"
  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/utils"
)

// Client talks to the AI agent service that plays the adversarial persona.
// The sql-leak endpoint deliberately omits the secret: for that game type the
// agent holds the target data itself.
type Client interface {
  PasswordRetrieval(ctx context.Context, req PromptRequest) (*PromptResponse, error)
  SQLLeak(ctx context.Context, req PromptRequest) (*PromptResponse, error)
  FetchSQLSecret(ctx context.Context, targetRowID int, targetField string) (*SQLSecret, error)
}

type Combination struct {
  Persona     string  `json:"persona"`
  Weakness    string  `json:"weakness"`
  Deflection  string  `json:"deflection"`
}

type PromptRequest struct {
  ContestID     uuid.UUID    `json:"contestId"`
  GameID        int          `json:"gameId"`
  SessionID     uuid.UUID    `json:"sessionId"`
  Prompt        string       `json:"prompt"`
  Difficulty    string       `json:"difficulty"`
  Combination   Combination  `json:"combination"`
  SecretAnswer  string       `json:"secretAnswer,omitempty"`
}

type PromptResponse struct {
  AssistantMessage  string  `json:"assistantMessage"`
}

type SQLSecret struct {
  TargetRowID  int                `json:"target_row_id"`
  TargetField  string             `json:"target_field"`
  Secret       map[string]string  `json:"secret"`
}

type client struct {
  httpClient  *http.Client
  log         *logger.Logger
  baseURL     string
}

func NewClient(log *logger.Logger) Client {
  serviceLog := log.With("client", "AIClient")
  baseURL := utils.GetEnv("AI_AGENT_BASE_URL", "http://localhost:8000", log)
  baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
  timeoutSec := utils.GetEnvAsInt("AI_AGENT_TIMEOUT_SECONDS", 120, log)
  return &client{
    httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
    log:        serviceLog,
    baseURL:    baseURL,
  }
}

func (c *client) PasswordRetrieval(ctx context.Context, req PromptRequest) (*PromptResponse, error) {
  return c.prompt(ctx, "/api/password-retrieval", req)
}

func (c *client) SQLLeak(ctx context.Context, req PromptRequest) (*PromptResponse, error) {
  req.SecretAnswer = ""
  return c.prompt(ctx, "/api/sql-leak", req)
}

func (c *client) prompt(ctx context.Context, path string, req PromptRequest) (*PromptResponse, error) {
  raw, err := json.Marshal(req)
  if err != nil {
    return nil, fmt.Errorf("marshal request: %w", err)
  }
  httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
  if err != nil {
    return nil, fmt.Errorf("build request: %w", err)
  }
  httpReq.Header.Set("Content-Type", "application/json")

  httpResp, err := c.httpClient.Do(httpReq)
  if err != nil {
    return nil, fmt.Errorf("ai agent %s: %w", path, err)
  }
  defer httpResp.Body.Close()

  respBody, err := io.ReadAll(httpResp.Body)
  if err != nil {
    return nil, fmt.Errorf("ai agent %s: read body: %w", path, err)
  }
  if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
    return nil, fmt.Errorf("ai agent %s: status %d: %s", path, httpResp.StatusCode, string(respBody))
  }

  // The agent sometimes returns a bare string instead of the envelope.
  var envelope PromptResponse
  if err := json.Unmarshal(respBody, &envelope); err == nil && envelope.AssistantMessage != "" {
    return &envelope, nil
  }
  var plain string
  if err := json.Unmarshal(respBody, &plain); err == nil {
    return &PromptResponse{AssistantMessage: plain}, nil
  }
  return &PromptResponse{AssistantMessage: string(respBody)}, nil
}

func (c *client) FetchSQLSecret(ctx context.Context, targetRowID int, targetField string) (*SQLSecret, error) {
  endpoint := c.baseURL + "/internal/ai/sql-secret"
  params := url.Values{}
  params.Set("target_row_id", strconv.Itoa(targetRowID))
  params.Set("target_field", targetField)

  httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
  if err != nil {
    return nil, fmt.Errorf("build request: %w", err)
  }
  httpReq.Header.Set("Accept", "application/json")

  httpResp, err := c.httpClient.Do(httpReq)
  if err != nil {
    return nil, fmt.Errorf("ai agent sql-secret: %w", err)
  }
  defer httpResp.Body.Close()

  respBody, err := io.ReadAll(httpResp.Body)
  if err != nil {
    return nil, fmt.Errorf("ai agent sql-secret: read body: %w", err)
  }
  if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
    return nil, fmt.Errorf("ai agent sql-secret: status %d: %s", httpResp.StatusCode, string(respBody))
  }

  var secret SQLSecret
  if err := json.Unmarshal(respBody, &secret); err != nil {
    return nil, fmt.Errorf("ai agent sql-secret: decode response: %w", err)
  }
  return &secret, nil
}
