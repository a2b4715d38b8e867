package handlers

import (
  "github.com/gin-gonic/gin"

  "github.com/sableworks/vaultbreak-backend/internal/apierr"
  "github.com/sableworks/vaultbreak-backend/internal/middleware"
  "github.com/sableworks/vaultbreak-backend/internal/services"
)

type AttemptHandler struct {
  contestService       services.ContestService
  attemptService       services.AttemptService
  verificationService  services.VerificationService
}

func NewAttemptHandler(
  contestService services.ContestService,
  attemptService services.AttemptService,
  verificationService services.VerificationService,
) *AttemptHandler {
  return &AttemptHandler{
    contestService:      contestService,
    attemptService:      attemptService,
    verificationService: verificationService,
  }
}

func (ah *AttemptHandler) SubmitAnswer(c *gin.Context) {
  contestID, gameID, participant, _, ok := resolveGameScope(c, ah.contestService)
  if !ok {
    return
  }
  sessionID, ok := uuidParam(c, "sessionId")
  if !ok {
    return
  }
  var body struct {
    SubmittedAnswer  string  `json:"submittedAnswer"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, apierr.Validation("invalid request body"))
    return
  }
  result, err := ah.attemptService.SubmitAnswer(c.Request.Context(), services.SubmitAnswerInput{
    SessionID:       sessionID,
    ParticipantID:   participant.ID,
    ContestID:       contestID,
    GameID:          gameID,
    SubmittedAnswer: body.SubmittedAnswer,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  if result.GameSolvedNow {
    ah.contestService.InvalidateLeaderboard(c.Request.Context(), contestID)
  }
  RespondOK(c, gin.H{
    "attemptId":                result.AttemptID,
    "submittedAnswer":          result.SubmittedAnswer,
    "isCorrect":                result.IsCorrect,
    "gameSolvedNow":            result.GameSolvedNow,
    "totalAttemptsForThisGame": result.TotalAttemptsForThisGame,
  })
}

func (ah *AttemptHandler) UnlockHint(c *gin.Context) {
  contestID, gameID, participant, _, ok := resolveGameScope(c, ah.contestService)
  if !ok {
    return
  }
  sessionID, ok := uuidParam(c, "sessionId")
  if !ok {
    return
  }
  result, err := ah.attemptService.UnlockHint(c.Request.Context(), services.UnlockHintInput{
    SessionID:     sessionID,
    ParticipantID: participant.ID,
    ContestID:     contestID,
    GameID:        gameID,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{
    "hint":     result.HintText,
    "hintTier": result.HintTier,
  })
}

func (ah *AttemptHandler) Get(c *gin.Context) {
  attemptID, ok := uuidParam(c, "attemptId")
  if !ok {
    return
  }
  attempt, err := ah.attemptService.GetOwnedAttempt(c.Request.Context(), attemptID, middleware.WalletFrom(c))
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"attempt": attempt})
}

func (ah *AttemptHandler) Verify(c *gin.Context) {
  attemptID, ok := uuidParam(c, "attemptId")
  if !ok {
    return
  }
  outcome, err := ah.verificationService.Verify(c.Request.Context(), attemptID, middleware.WalletFrom(c))
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, outcome)
}
