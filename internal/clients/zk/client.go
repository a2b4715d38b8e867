package zk

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "io"
  "net/http"
  "time"

  "github.com/google/uuid"
  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/utils"
)

// Client talks to the external proof service. CreateCommitment is called
// off the provisioning critical path; VerifyAttempt blocks the caller.
type Client interface {
  CreateCommitment(ctx context.Context, req CreateCommitmentRequest) (*CreateCommitmentResponse, error)
  VerifyAttempt(ctx context.Context, req VerifyRequest) (*VerifyResponse, error)
}

type CreateCommitmentRequest struct {
  ContestID         uuid.UUID  `json:"contestId"`
  OnchainContestID  int64      `json:"onchainContestId"`
  GameConfigID      uuid.UUID  `json:"gameConfigId"`
  GameID            int        `json:"gameId"`
  Difficulty        string     `json:"difficulty"`
  SecretAnswer      string     `json:"secretAnswer"`
}

type CommitmentStorage struct {
  CID  string  `json:"cid"`
  URL  string  `json:"url"`
}

type CommitmentPayload struct {
  CommitmentHash  string             `json:"commitmentHash"`
  SaltFull        string             `json:"saltFull"`
  SaltHint        string             `json:"saltHint"`
  Storage         *CommitmentStorage `json:"storage"`
  ProofHash       string             `json:"proofHash"`
}

type BlockchainAnchor struct {
  AnchorID     string  `json:"anchorId"`
  TxHash       string  `json:"txHash"`
  ExplorerURL  string  `json:"explorerUrl"`
}

type CreateCommitmentResponse struct {
  Commitment  *CommitmentPayload `json:"commitment"`
  Blockchain  *BlockchainAnchor  `json:"blockchain"`
}

type VerifyRequest struct {
  AttemptID         uuid.UUID  `json:"attemptId"`
  ContestID         uuid.UUID  `json:"contestId"`
  OnchainContestID  int64      `json:"onchainContestId"`
  GameConfigID      uuid.UUID  `json:"gameConfigId"`
  GameID            int        `json:"gameId"`
  ParticipantWallet string     `json:"participantWallet"`
  AttemptIndex      int        `json:"attemptIndex"`
  UserAnswer        string     `json:"userAnswer"`
  SecretAnswer      string     `json:"secretAnswer"`
  SaltFull          string     `json:"saltFull"`
  CommitmentHash    string     `json:"commitmentHash"`
}

type PublicInputs struct {
  Matches         Truthy  `json:"matches"`
  CommitmentHash  string  `json:"commitmentHash"`
  UserAnswerHash  string  `json:"userAnswerHash"`
}

type ProofPayload struct {
  ProofHash  string  `json:"proofHash"`
}

type StorachaPayload struct {
  CID  string  `json:"cid"`
}

type VerifyResponse struct {
  PublicInputs  PublicInputs     `json:"publicInputs"`
  Proof         ProofPayload     `json:"proof"`
  Storacha      StorachaPayload  `json:"storacha"`
  Blockchain    BlockchainAnchor `json:"blockchain"`
}

// Truthy accepts the oracle's loose boolean encodings: true, 1 and "1".
type Truthy bool

func (t *Truthy) UnmarshalJSON(raw []byte) error {
  var asBool bool
  if err := json.Unmarshal(raw, &asBool); err == nil {
    *t = Truthy(asBool)
    return nil
  }
  var asNum float64
  if err := json.Unmarshal(raw, &asNum); err == nil {
    *t = Truthy(asNum == 1)
    return nil
  }
  var asStr string
  if err := json.Unmarshal(raw, &asStr); err == nil {
    *t = Truthy(asStr == "1" || asStr == "true")
    return nil
  }
  return fmt.Errorf("cannot parse %q as truthy value", string(raw))
}

type client struct {
  httpClient  *http.Client
  log         *logger.Logger
  baseURL     string
}

func NewClient(log *logger.Logger) Client {
  serviceLog := log.With("client", "ZKClient")
  baseURL := utils.GetEnv("VERIFICATION_SERVER_URL", "http://localhost:3001", log)
  timeoutSec := utils.GetEnvAsInt("VERIFICATION_TIMEOUT_SECONDS", 60, log)
  return &client{
    httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
    log:        serviceLog,
    baseURL:    baseURL,
  }
}

func (c *client) CreateCommitment(ctx context.Context, req CreateCommitmentRequest) (*CreateCommitmentResponse, error) {
  var resp CreateCommitmentResponse
  if err := c.post(ctx, "/api/zk/create-commitment", req, &resp); err != nil {
    return nil, err
  }
  return &resp, nil
}

func (c *client) VerifyAttempt(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
  var resp VerifyResponse
  if err := c.post(ctx, "/api/zk/verify-response", req, &resp); err != nil {
    return nil, err
  }
  return &resp, nil
}

func (c *client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
  raw, err := json.Marshal(body)
  if err != nil {
    return fmt.Errorf("marshal request: %w", err)
  }
  httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
  if err != nil {
    return fmt.Errorf("build request: %w", err)
  }
  httpReq.Header.Set("Content-Type", "application/json")

  httpResp, err := c.httpClient.Do(httpReq)
  if err != nil {
    return fmt.Errorf("proof oracle %s: %w", path, err)
  }
  defer httpResp.Body.Close()

  respBody, err := io.ReadAll(httpResp.Body)
  if err != nil {
    return fmt.Errorf("proof oracle %s: read body: %w", path, err)
  }
  if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
    return fmt.Errorf("proof oracle %s: status %d: %s", path, httpResp.StatusCode, string(respBody))
  }
  if err := json.Unmarshal(respBody, out); err != nil {
    return fmt.Errorf("proof oracle %s: decode response: %w", path, err)
  }
  return nil
}
