package types

import (
  "time"
  "github.com/google/uuid"
)

const (
  ContestStatusOpen     = "open"
  ContestStatusRunning  = "running"
  ContestStatusFinished = "finished"
)

type Contest struct {
  ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
  OnchainContestID  int64      `gorm:"not null;column:onchain_contest_id" json:"onchain_contest_id"`
  Name              string     `gorm:"not null;column:name" json:"name"`
  ContestType       string     `gorm:"not null;column:contest_type" json:"contest_type"`
  EntryFeeWei       string     `gorm:"not null;column:entry_fee_wei" json:"entry_fee_wei"`
  MaxPlayers        int        `gorm:"not null;column:max_players" json:"max_players"`
  TotalGames        int        `gorm:"not null;column:total_games" json:"total_games"`
  Status            string     `gorm:"not null;index;column:status" json:"status"`
  ChainID           string     `gorm:"not null;column:chain_id" json:"chain_id"`
  ContractAddress   string     `gorm:"not null;column:contract_address" json:"contract_address"`
  CreatedAt         time.Time  `gorm:"not null" json:"created_at"`
  StartTime         *time.Time `gorm:"column:start_time" json:"start_time,omitempty"`
  EndTime           *time.Time `gorm:"column:end_time" json:"end_time,omitempty"`
}

func (Contest) TableName() string {
  return "contest"
}
