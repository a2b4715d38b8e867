package db

import (
  "fmt"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"
  "github.com/sableworks/vaultbreak-backend/internal/types"
  "github.com/sableworks/vaultbreak-backend/internal/utils"
  "github.com/sableworks/vaultbreak-backend/internal/logger"
)

type PostgresService struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  log.Info("Loading environment variables...")
  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "vaultbreak", log)
  log.Debug("Environment variables loaded")

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  log.Info("Connecting to Postgres...")
  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    TranslateError:                           true,
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    log.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
  }

  return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Auto migrating postgres tables...")
  if err := Migrate(s.db); err != nil {
    s.log.Error("Auto migration failed for postgres tables", "error", err)
    return err
  }
  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}

// Migrate creates the schema plus the raw-SQL indexes that back the ordinal
// and single-active-session invariants. Shared with the sqlite test setup,
// so every statement here must run on both engines.
func Migrate(db *gorm.DB) error {
  err := db.AutoMigrate(
    &types.User{},
    &types.Contest{},
    &types.ContestParticipant{},
    &types.ContestGameConfig{},
    &types.GameCommitment{},
    &types.GameSession{},
    &types.Attempt{},
    &types.UnlockedHint{},
  )
  if err != nil {
    return err
  }

  // Partial unique index: at most one active session per (participant, game).
  // Racing creators hit a duplicate-key error and re-read the winner's row.
  if err := db.Exec(`
    CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_session
    ON game_session (participant_id, game_config_id)
    WHERE is_active
  `).Error; err != nil {
    return fmt.Errorf("Failed to create idx_one_active_session: %w", err)
  }
  return nil
}
