package types

import (
  "time"
  "github.com/google/uuid"
)

// Aggregate counters on this row are owned by the attempt/hint/prompt flows
// and are only ever incremented inside their transactions.
type ContestParticipant struct {
  ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
  ContestID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_contest_user,unique" json:"contest_id"`
  Contest           *Contest   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContestID;references:ID" json:"contest,omitempty"`
  UserID            uuid.UUID  `gorm:"type:uuid;not null;index:idx_contest_user,unique" json:"user_id"`
  User              *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  WalletAddress     string     `gorm:"not null;index;column:wallet_address" json:"wallet_address"`
  TotalGamesSolved  int        `gorm:"not null;default:0;column:total_games_solved" json:"total_games_solved"`
  TotalPromptsUsed  int        `gorm:"not null;default:0;column:total_prompts_used" json:"total_prompts_used"`
  TotalHintsUsed    int        `gorm:"not null;default:0;column:total_hints_used" json:"total_hints_used"`
  TotalEthSpentWei  string     `gorm:"not null;default:'0';column:total_eth_spent_wei" json:"total_eth_spent_wei"`
  Rank              *int       `gorm:"column:rank" json:"rank,omitempty"`
  IsWinner          bool       `gorm:"not null;default:false;column:is_winner" json:"is_winner"`
  PayoutAmountWei   *string    `gorm:"column:payout_amount_wei" json:"payout_amount_wei,omitempty"`
  JoinTxHash        string     `gorm:"not null;column:join_tx_hash" json:"join_tx_hash"`
  PayoutTxHash      *string    `gorm:"column:payout_tx_hash" json:"payout_tx_hash,omitempty"`
  AvatarPath        string     `gorm:"column:avatar_path" json:"avatar_path"`
  JoinedAt          time.Time  `gorm:"not null;column:joined_at" json:"joined_at"`
  LastSolvedAt      *time.Time `gorm:"column:last_solved_at" json:"last_solved_at,omitempty"`
}

func (ContestParticipant) TableName() string {
  return "contest_participant"
}
