package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/sableworks/vaultbreak-backend/internal/apierr"
)

type APIError struct {
  Message     string	`json:"message"`
  Code	      string	`json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error	      APIError	`json:"error"`
}

// RespondError translates a service error into its HTTP shape. Only the
// public message crosses the wire; wrapped internals stay in the logs.
func RespondError(c *gin.Context, err error) {
  c.JSON(apierr.Status(err), ErrorEnvelope{
    Error: APIError{
      Message: apierr.PublicMessage(err),
      Code:    string(apierr.KindOf(err)),
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
  id, err := uuid.Parse(c.Param(name))
  if err != nil {
    RespondError(c, apierr.Validation(name+" must be a valid uuid"))
    return uuid.Nil, false
  }
  return id, true
}

func intParam(c *gin.Context, name string) (int, bool) {
  v, err := strconv.Atoi(c.Param(name))
  if err != nil {
    RespondError(c, apierr.Validation(name+" must be an integer"))
    return 0, false
  }
  return v, true
}
