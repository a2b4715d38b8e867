package types

import (
  "time"
  "github.com/google/uuid"
)

// UnlockedHint records one hint disclosure for a session. The tier sequence
// per session is driven solely by the count of prior rows.
type UnlockedHint struct {
  ID         uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
  SessionID  uuid.UUID    `gorm:"type:uuid;not null;index;column:session_id" json:"session_id"`
  Session    *GameSession `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"session,omitempty"`
  HintTier   int          `gorm:"not null;column:hint_tier" json:"hint_tier"`
  CostWei    string       `gorm:"not null;default:'0';column:cost_wei" json:"cost_wei"`
  TxHash     *string      `gorm:"column:tx_hash" json:"tx_hash,omitempty"`
  CreatedAt  time.Time    `gorm:"not null" json:"created_at"`
}

func (UnlockedHint) TableName() string {
  return "unlocked_hint"
}
