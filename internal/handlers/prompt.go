package handlers

import (
  "github.com/gin-gonic/gin"

  "github.com/sableworks/vaultbreak-backend/internal/apierr"
  "github.com/sableworks/vaultbreak-backend/internal/services"
)

type PromptHandler struct {
  contestService  services.ContestService
  promptService   services.PromptService
}

func NewPromptHandler(contestService services.ContestService, promptService services.PromptService) *PromptHandler {
  return &PromptHandler{contestService: contestService, promptService: promptService}
}

func (ph *PromptHandler) SendPrompt(c *gin.Context) {
  contestID, gameID, participant, _, ok := resolveGameScope(c, ph.contestService)
  if !ok {
    return
  }
  sessionID, ok := uuidParam(c, "sessionId")
  if !ok {
    return
  }
  var body struct {
    Prompt  string  `json:"prompt"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, apierr.Validation("invalid request body"))
    return
  }
  result, err := ph.promptService.SendPrompt(c.Request.Context(), services.SendPromptInput{
    SessionID:     sessionID,
    ParticipantID: participant.ID,
    ContestID:     contestID,
    GameID:        gameID,
    Prompt:        body.Prompt,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{
    "assistantMessage":   result.AssistantMessage,
    "sessionPromptsUsed": result.SessionPromptsUsed,
  })
}
