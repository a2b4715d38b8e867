package repos

import (
  "context"
  "errors"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/types"
)

type UserRepo interface {
  Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error)
  GetByWallet(ctx context.Context, tx *gorm.DB, walletAddress string) (*types.User, error)
  TouchLastLogin(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type userRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
  repoLog := baseLog.With("repo", "UserRepo")
  return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  if user.ID == uuid.Nil {
    user.ID = uuid.New()
  }
  if err := transaction.WithContext(ctx).Create(user).Error; err != nil {
    return nil, err
  }
  return user, nil
}

func (ur *userRepo) GetByWallet(ctx context.Context, tx *gorm.DB, walletAddress string) (*types.User, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  var user types.User
  err := transaction.WithContext(ctx).
    Where("wallet_address = ?", walletAddress).
    First(&user).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &user, nil
}

func (ur *userRepo) TouchLastLogin(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }
  now := time.Now()
  return transaction.WithContext(ctx).
    Model(&types.User{}).
    Where("id = ?", userID).
    Update("last_login_at", now).Error
}
