package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/sableworks/vaultbreak-backend/internal/middleware"
  "github.com/sableworks/vaultbreak-backend/internal/services"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

type SessionHandler struct {
  contestService  services.ContestService
  sessionService  services.SessionService
}

func NewSessionHandler(contestService services.ContestService, sessionService services.SessionService) *SessionHandler {
  return &SessionHandler{contestService: contestService, sessionService: sessionService}
}

// resolveGameScope turns route params plus the wallet header into the
// participant and game config every session route operates on.
func resolveGameScope(c *gin.Context, contestService services.ContestService) (contestID uuid.UUID, gameID int, participant *types.ContestParticipant, config *types.ContestGameConfig, ok bool) {
  contestID, ok = uuidParam(c, "contestId")
  if !ok {
    return
  }
  gameID, ok = intParam(c, "gameId")
  if !ok {
    return
  }
  var err error
  participant, err = contestService.ResolveParticipant(c.Request.Context(), contestID, middleware.WalletFrom(c))
  if err != nil {
    RespondError(c, err)
    ok = false
    return
  }
  config, err = contestService.ResolveGame(c.Request.Context(), contestID, gameID)
  if err != nil {
    RespondError(c, err)
    ok = false
    return
  }
  ok = true
  return
}

func (sh *SessionHandler) GetOrCreate(c *gin.Context) {
  contestID, gameID, participant, config, ok := resolveGameScope(c, sh.contestService)
  if !ok {
    return
  }
  session, err := sh.sessionService.GetOrCreateActive(c.Request.Context(), participant.ID, contestID, config.ID, gameID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"session": session})
}

func (sh *SessionHandler) Reset(c *gin.Context) {
  contestID, gameID, participant, _, ok := resolveGameScope(c, sh.contestService)
  if !ok {
    return
  }
  sessionID, ok := uuidParam(c, "sessionId")
  if !ok {
    return
  }
  result, err := sh.sessionService.Reset(c.Request.Context(), sessionID, participant.ID, contestID, gameID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{
    "oldSessionId":    result.OldSessionID,
    "newSessionId":    result.NewSessionID,
    "newSessionIndex": result.NewSessionIndex,
  })
}
