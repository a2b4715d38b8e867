package types

import (
  "time"
  "github.com/google/uuid"
)

const (
  GameTypePasswordRetrieval = "PASSWORD_RETRIEVAL"
  GameTypeSQLInjection      = "SQL_INJECTION"
)

type ContestGameConfig struct {
  ID                    uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
  ContestID             uuid.UUID           `gorm:"type:uuid;not null;index:idx_contest_game,unique" json:"contest_id"`
  Contest               *Contest            `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContestID;references:ID" json:"contest,omitempty"`
  GameID                int                 `gorm:"not null;index:idx_contest_game,unique;column:game_id" json:"game_id"`
  GameType              string              `gorm:"not null;column:game_type" json:"game_type"`
  GameName              string              `gorm:"not null;column:game_name" json:"game_name"`
  Difficulty            string              `gorm:"not null;column:difficulty" json:"difficulty"`
  Persona               *PersonaCombination `gorm:"type:jsonb;column:persona" json:"persona,omitempty"`
  SystemPrompt          string              `gorm:"column:system_prompt" json:"system_prompt"`
  ModelName             string              `gorm:"column:model_name" json:"model_name"`
  MaxAttemptsPerPlayer  *int                `gorm:"column:max_attempts_per_player" json:"max_attempts_per_player,omitempty"`
  MaxHints              *int                `gorm:"column:max_hints" json:"max_hints,omitempty"`
  IsActive              bool                `gorm:"not null;default:true;column:is_active" json:"is_active"`
  CreatedAt             time.Time           `gorm:"not null" json:"created_at"`
}

func (ContestGameConfig) TableName() string {
  return "contest_game_config"
}
