package database

import (
	"fmt"
	stdlog "log"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/portfolio-backend/models"
)

type PostgresConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
	// ReplicaHosts receive read queries; writes always go to Host.
	ReplicaHosts []string
}

func (c PostgresConfig) dsn(host string) string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, c.User, c.Password, c.Name, c.Port, sslMode)
}

func dialector(dsn string) gorm.Dialector {
	return postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	})
}

// OpenPostgres connects to the primary, registers read replicas and checks the connection.
func OpenPostgres(cfg PostgresConfig) (*gorm.DB, error) {
	gormLogger := logger.New(
		stdlog.New(log.Logger.With().Str("component", "gorm").Logger(), "", 0),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector(cfg.dsn(cfg.Host)), &gorm.Config{
		PrepareStmt: false,
		Logger:      gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if len(cfg.ReplicaHosts) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.ReplicaHosts))
		for _, host := range cfg.ReplicaHosts {
			replicas = append(replicas, dialector(cfg.dsn(host)))
		}
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}).SetMaxOpenConns(10).SetConnMaxIdleTime(5 * time.Minute))
		if err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
		log.Info().Int("replicas", len(replicas)).Msg("read replicas registered")
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the tables for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.AutoMigrateModels()...)
}
