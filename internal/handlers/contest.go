package handlers

import (
  "strings"

  "github.com/gin-gonic/gin"

  "github.com/sableworks/vaultbreak-backend/internal/apierr"
  "github.com/sableworks/vaultbreak-backend/internal/middleware"
  "github.com/sableworks/vaultbreak-backend/internal/services"
)

type ContestHandler struct {
  contestService  services.ContestService
}

func NewContestHandler(contestService services.ContestService) *ContestHandler {
  return &ContestHandler{contestService: contestService}
}

func (ch *ContestHandler) List(c *gin.Context) {
  var statuses []string
  if raw := strings.TrimSpace(c.Query("status")); raw != "" {
    statuses = strings.Split(raw, ",")
  }
  contests, err := ch.contestService.List(c.Request.Context(), statuses)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"contests": contests})
}

func (ch *ContestHandler) Get(c *gin.Context) {
  contestID, ok := uuidParam(c, "contestId")
  if !ok {
    return
  }
  detail, err := ch.contestService.GetWithGames(c.Request.Context(), contestID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, detail)
}

func (ch *ContestHandler) Join(c *gin.Context) {
  contestID, ok := uuidParam(c, "contestId")
  if !ok {
    return
  }
  var body struct {
    JoinTxHash  string  `json:"joinTxHash"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, apierr.Validation("invalid request body"))
    return
  }
  participant, err := ch.contestService.Join(c.Request.Context(), services.JoinInput{
    ContestID:     contestID,
    WalletAddress: middleware.WalletFrom(c),
    JoinTxHash:    body.JoinTxHash,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"participant": participant})
}

func (ch *ContestHandler) Me(c *gin.Context) {
  contestID, ok := uuidParam(c, "contestId")
  if !ok {
    return
  }
  status, err := ch.contestService.MyStatus(c.Request.Context(), contestID, middleware.WalletFrom(c))
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, status)
}

func (ch *ContestHandler) Leaderboard(c *gin.Context) {
  contestID, ok := uuidParam(c, "contestId")
  if !ok {
    return
  }
  entries, err := ch.contestService.Leaderboard(c.Request.Context(), contestID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"leaderboard": entries})
}
