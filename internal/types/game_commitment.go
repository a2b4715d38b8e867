package types

import (
  "time"
  "github.com/google/uuid"
)

// GameCommitment links a game to its plaintext secret and, once the proof
// oracle responds, to the cryptographic commitment over it. The nullable
// columns stay NULL until the oracle update lands; attempts can fast-check
// against AnswerPlaintext regardless.
type GameCommitment struct {
  ID              uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
  ContestID       uuid.UUID          `gorm:"type:uuid;not null;index:idx_commitment_contest_game,unique" json:"contest_id"`
  GameConfigID    uuid.UUID          `gorm:"type:uuid;not null;index:idx_commitment_contest_game,unique;column:game_config_id" json:"game_config_id"`
  GameConfig      *ContestGameConfig `gorm:"constraint:OnDelete:CASCADE;foreignKey:GameConfigID;references:ID" json:"game_config,omitempty"`
  AnswerPlaintext string             `gorm:"not null;column:answer_plaintext" json:"-"`
  CommitmentHash  *string            `gorm:"column:commitment_hash" json:"commitment_hash,omitempty"`
  SaltFull        *string            `gorm:"column:salt_full" json:"-"`
  SaltHint        *string            `gorm:"column:salt_hint" json:"-"`
  StorachaCID     *string            `gorm:"column:storacha_cid" json:"storacha_cid,omitempty"`
  StorachaURL     *string            `gorm:"column:storacha_url" json:"storacha_url,omitempty"`
  ProofHash       *string            `gorm:"column:proof_hash" json:"proof_hash,omitempty"`
  AnchorTxHash    *string            `gorm:"column:anchor_tx_hash" json:"anchor_tx_hash,omitempty"`
  CreatedAt       time.Time          `gorm:"not null" json:"created_at"`
  UpdatedAt       time.Time          `gorm:"not null" json:"updated_at"`
}

func (GameCommitment) TableName() string {
  return "game_commitment"
}

// Ready reports whether the oracle has populated everything the verify path
// needs.
func (c *GameCommitment) Ready() bool {
  return c != nil &&
    c.AnswerPlaintext != "" &&
    c.CommitmentHash != nil && *c.CommitmentHash != "" &&
    c.SaltFull != nil && *c.SaltFull != ""
}
