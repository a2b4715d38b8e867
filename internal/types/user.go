package types

import (
  "time"
  "github.com/google/uuid"
)

type User struct {
  ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
  WalletAddress  string     `gorm:"uniqueIndex;not null;column:wallet_address" json:"wallet_address"`
  CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
  LastLoginAt    *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
}

func (User) TableName() string {
  return "user"
}
