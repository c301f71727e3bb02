// Package db owns the gorm connection. Postgres is the primary store; when
// it is unreachable and DB_SQLITE_FALLBACK allows it, a local sqlite file
// keeps development setups working.
package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/T332932/for-dachaung/internal/platform/envutil"
	"github.com/T332932/for-dachaung/internal/platform/logger"
	"github.com/T332932/for-dachaung/internal/types"
)

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewService(log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DBService")

	host := envutil.String("POSTGRES_HOST", "localhost")
	port := envutil.String("POSTGRES_PORT", "5432")
	user := envutil.String("POSTGRES_USER", "postgres")
	password := envutil.String("POSTGRES_PASSWORD", "")
	name := envutil.String("POSTGRES_NAME", "dachaung")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	serviceLog.Info("Connecting to Postgres...", "host", host, "database", name)
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err == nil {
		if extErr := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; extErr != nil {
			serviceLog.Error("Failed to enable uuid-ossp extension", "error", extErr)
			return nil, fmt.Errorf("enable uuid-ossp extension: %w", extErr)
		}
		return &Service{db: gdb, log: serviceLog}, nil
	}

	if !envutil.Bool("DB_SQLITE_FALLBACK", true) {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect to Postgres: %w", err)
	}

	path := envutil.String("SQLITE_PATH", "dachaung.db")
	serviceLog.Warn("Postgres unreachable, falling back to sqlite", "error", err, "path", path)
	gdb, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		serviceLog.Error("Failed to open sqlite fallback", "error", err)
		return nil, fmt.Errorf("open sqlite fallback: %w", err)
	}
	return &Service{db: gdb, log: serviceLog}, nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := s.db.AutoMigrate(
		&types.User{},
		&types.Question{},
		&types.Paper{},
		&types.PaperQuestion{},
		&types.QuestionEmbedding{},
		&types.QuestionReview{},
	); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

func (s *Service) DB() *gorm.DB {
	return s.db
}
