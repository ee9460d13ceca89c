package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/logger"
	"github.com/yungbote/mrkr-backend/internal/types"
	"github.com/yungbote/mrkr-backend/internal/utils"
)

type DatabaseService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewDatabaseService connects using DATABASE_URL. The URL may contain
// {{ENV_VAR}} placeholders; postgres:// URLs use the postgres driver,
// anything else is treated as a sqlite path.
func NewDatabaseService(log *logger.Logger) (*DatabaseService, error) {
	serviceLog := log.With("service", "DatabaseService")

	rawURL := utils.GetEnv("DATABASE_URL", "mrkr.db", log)
	url, err := utils.ResolveString(rawURL)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeConfigResolution, "resolve database url", err)
	}

	var dialector gorm.Dialector
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		dialector = postgres.Open(url)
	} else {
		dialector = sqlite.Open(url)
	}

	serviceLog.Info("Connecting to database...")
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		serviceLog.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &DatabaseService{db: conn, log: serviceLog}, nil
}

func (s *DatabaseService) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.Project{},
		&types.Document{},
		&types.Ocr{},
	)
	if err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (s *DatabaseService) DB() *gorm.DB {
	return s.db
}

// Ping reports database liveness for the health endpoint.
func (s *DatabaseService) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
