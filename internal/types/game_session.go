package types

import (
  "time"
  "github.com/google/uuid"
)

// GameSession is one conversation context a participant has against a game.
// At most one session per (participant, game config) is active at a time; the
// partial unique index enforcing that lives in internal/db.
type GameSession struct {
  ID                  uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
  ParticipantID       uuid.UUID           `gorm:"type:uuid;not null;index:idx_session_ordinal,unique" json:"participant_id"`
  Participant         *ContestParticipant `gorm:"constraint:OnDelete:CASCADE;foreignKey:ParticipantID;references:ID" json:"participant,omitempty"`
  ContestID           uuid.UUID           `gorm:"type:uuid;not null;index" json:"contest_id"`
  GameConfigID        uuid.UUID           `gorm:"type:uuid;not null;index:idx_session_ordinal,unique;column:game_config_id" json:"game_config_id"`
  GameID              int                 `gorm:"not null;column:game_id" json:"game_id"`
  SessionIndex        int                 `gorm:"not null;index:idx_session_ordinal,unique;column:session_index" json:"session_index"`
  IsActive            bool                `gorm:"not null;default:true;column:is_active" json:"is_active"`
  CurrentPromptsUsed  int                 `gorm:"not null;default:0;column:current_prompts_used" json:"current_prompts_used"`
  IsSolved            bool                `gorm:"not null;default:false;column:is_solved" json:"is_solved"`
  SolvedAt            *time.Time          `gorm:"column:solved_at" json:"solved_at,omitempty"`
  LastActivityAt      time.Time           `gorm:"not null;column:last_activity_at" json:"last_activity_at"`
  EndedAt             *time.Time          `gorm:"column:ended_at" json:"ended_at,omitempty"`
  CreatedAt           time.Time           `gorm:"not null" json:"created_at"`
}

func (GameSession) TableName() string {
  return "game_session"
}
