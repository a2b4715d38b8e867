package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// Attempt is one answer submission. AttemptIndex is strictly increasing per
// (participant, game config); the ZK columns transition from NULL exactly once
// when the verification coordinator runs.
type Attempt struct {
  ID                    uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
  SessionID             uuid.UUID           `gorm:"type:uuid;not null;index;column:session_id" json:"session_id"`
  Session               *GameSession        `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"session,omitempty"`
  ParticipantID         uuid.UUID           `gorm:"type:uuid;not null;index:idx_attempt_ordinal,unique" json:"participant_id"`
  Participant           *ContestParticipant `gorm:"constraint:OnDelete:CASCADE;foreignKey:ParticipantID;references:ID" json:"participant,omitempty"`
  ContestID             uuid.UUID           `gorm:"type:uuid;not null;index" json:"contest_id"`
  GameConfigID          uuid.UUID           `gorm:"type:uuid;not null;index:idx_attempt_ordinal,unique;column:game_config_id" json:"game_config_id"`
  AttemptIndex          int                 `gorm:"not null;index:idx_attempt_ordinal,unique;column:attempt_index" json:"attempt_index"`
  SubmittedAnswer       string              `gorm:"not null;column:submitted_answer" json:"submitted_answer"`
  IsCorrect             bool                `gorm:"not null;column:is_correct" json:"is_correct"`
  Verified              bool                `gorm:"not null;default:false;column:verified" json:"verified"`
  ZKMatches             *bool               `gorm:"column:zk_matches" json:"zk_matches,omitempty"`
  ZKCommitmentHash      *string             `gorm:"column:zk_commitment_hash" json:"zk_commitment_hash,omitempty"`
  ZKUserAnswerHash      *string             `gorm:"column:zk_user_answer_hash" json:"zk_user_answer_hash,omitempty"`
  ZKProofHash           *string             `gorm:"column:zk_proof_hash" json:"zk_proof_hash,omitempty"`
  ZKIpfsCID             *string             `gorm:"column:zk_ipfs_cid" json:"zk_ipfs_cid,omitempty"`
  AnchorID              *string             `gorm:"column:anchor_id" json:"anchor_id,omitempty"`
  AnchorTxHash          *string             `gorm:"column:anchor_tx_hash" json:"anchor_tx_hash,omitempty"`
  VerificationMetadata  datatypes.JSON      `gorm:"type:jsonb;column:verification_metadata" json:"verification_metadata,omitempty"`
  VerifiedAt            *time.Time          `gorm:"column:verified_at" json:"verified_at,omitempty"`
  CreatedAt             time.Time           `gorm:"not null" json:"created_at"`
}

func (Attempt) TableName() string {
  return "attempt"
}
