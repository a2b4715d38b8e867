package handlers

import (
  "time"

  "github.com/gin-gonic/gin"

  "github.com/sableworks/vaultbreak-backend/internal/apierr"
  "github.com/sableworks/vaultbreak-backend/internal/services"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

type AdminHandler struct {
  adminService  services.AdminService
}

func NewAdminHandler(adminService services.AdminService) *AdminHandler {
  return &AdminHandler{adminService: adminService}
}

func (ah *AdminHandler) CreateContest(c *gin.Context) {
  var body struct {
    Name              string     `json:"name"`
    ContestType       string     `json:"contestType"`
    OnchainContestID  int64      `json:"onchainContestId"`
    EntryFeeWei       string     `json:"entryFeeWei"`
    MaxPlayers        int        `json:"maxPlayers"`
    TotalGames        int        `json:"totalGames"`
    ChainID           string     `json:"chainId"`
    ContractAddress   string     `json:"contractAddress"`
    StartTime         *time.Time `json:"startTime"`
    EndTime           *time.Time `json:"endTime"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, apierr.Validation("invalid request body"))
    return
  }
  contest, err := ah.adminService.CreateContest(c.Request.Context(), services.CreateContestInput{
    Name:             body.Name,
    ContestType:      body.ContestType,
    OnchainContestID: body.OnchainContestID,
    EntryFeeWei:      body.EntryFeeWei,
    MaxPlayers:       body.MaxPlayers,
    TotalGames:       body.TotalGames,
    ChainID:          body.ChainID,
    ContractAddress:  body.ContractAddress,
    StartTime:        body.StartTime,
    EndTime:          body.EndTime,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"contest": contest})
}

func (ah *AdminHandler) AddGame(c *gin.Context) {
  contestID, ok := uuidParam(c, "contestId")
  if !ok {
    return
  }
  var body struct {
    GameID                int                        `json:"gameId"`
    GameType              string                     `json:"gameType"`
    GameName              string                     `json:"gameName"`
    Difficulty            string                     `json:"difficulty"`
    Combination           *types.PersonaCombination  `json:"combination"`
    SystemPrompt          string                     `json:"systemPrompt"`
    ModelName             string                     `json:"modelName"`
    MaxAttemptsPerPlayer  *int                       `json:"maxAttemptsPerPlayer"`
    MaxHints              *int                       `json:"maxHints"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, apierr.Validation("invalid request body"))
    return
  }
  result, err := ah.adminService.AddGame(c.Request.Context(), services.AddGameInput{
    ContestID:            contestID,
    GameID:               body.GameID,
    GameType:             body.GameType,
    GameName:             body.GameName,
    Difficulty:           body.Difficulty,
    Combination:          body.Combination,
    SystemPrompt:         body.SystemPrompt,
    ModelName:            body.ModelName,
    MaxAttemptsPerPlayer: body.MaxAttemptsPerPlayer,
    MaxHints:             body.MaxHints,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, result)
}

func (ah *AdminHandler) ReconcileCommitments(c *gin.Context) {
  enqueued, err := ah.adminService.ReconcileCommitments(c.Request.Context())
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"enqueued": enqueued})
}
