package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/cityhunt-backend/internal/platform/envutil"
	"github.com/yungbote/cityhunt-backend/internal/platform/logger"
	"github.com/yungbote/cityhunt-backend/internal/types"
)

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

// New opens the database named by DATABASE_DRIVER: postgres (the
// default) or sqlite for local runs and tests.
func New(log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DatabaseService")

	driver := strings.ToLower(envutil.String("DATABASE_DRIVER", "postgres", log))

	var (
		database *gorm.DB
		err      error
	)
	switch driver {
	case "sqlite":
		path := envutil.String("SQLITE_PATH", "cityhunt.db", log)
		serviceLog.Info("Connecting to sqlite...", "path", path)
		database, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	case "postgres":
		host := envutil.String("POSTGRES_HOST", "localhost", log)
		port := envutil.String("POSTGRES_PORT", "5432", log)
		user := envutil.String("POSTGRES_USER", "postgres", log)
		password := envutil.String("POSTGRES_PASSWORD", "", log)
		name := envutil.String("POSTGRES_NAME", "cityhunt", log)
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
		serviceLog.Info("Connecting to Postgres...", "host", host, "database", name)
		database, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unknown DATABASE_DRIVER %q", driver)
	}
	if err != nil {
		serviceLog.Error("Failed to connect to database", "driver", driver, "error", err)
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	return &Service{db: database, log: serviceLog}, nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := s.db.AutoMigrate(
		&types.Group{},
		&types.Stage{},
		&types.GroupProgress{},
		&types.Authorization{},
	); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

func (s *Service) DB() *gorm.DB {
	return s.db
}
