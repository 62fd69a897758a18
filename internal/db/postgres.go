package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/casalabia/realtor-backend/internal/logger"
	"github.com/casalabia/realtor-backend/internal/types"
	"github.com/casalabia/realtor-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "realtor", log)
	sslMode := utils.GetEnv("POSTGRES_SSLMODE", "disable", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		postgresUser, postgresPassword, postgresHost, postgresPort, postgresName, sslMode)

	serviceLog.Info("Connecting to Postgres...")
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.Session{},
		&types.Listing{},
		&types.Photo{},
	)
	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	if err := s.db.Exec(`
		ALTER TABLE "session"
		ADD CONSTRAINT "fk_session_user_id"
		FOREIGN KEY ("user_id")
		REFERENCES "user"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		s.log.Warn("Could not add fk_session_user_id (may already exist)", "error", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "photo"
		ADD CONSTRAINT "fk_photo_listing_id"
		FOREIGN KEY ("listing_id")
		REFERENCES "listing"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		s.log.Warn("Could not add fk_photo_listing_id (may already exist)", "error", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
