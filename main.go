package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/lifecycle"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rpupo63/portfolio-backend/storage"
)

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	c := config.New()
	setupLogger(c)
	if envErr != nil {
		log.Warn().Err(envErr).Msg("no .env file loaded, using process environment")
	}
	log.Info().Msg("Initializing app...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if prefix := config.GetString(c, "SSM_PARAMETER_PATH", ""); prefix != "" {
		client, err := config.NewSSMClient(ctx, config.GetString(c, "AWS_REGION", "us-east-1"))
		if err != nil {
			log.Fatal().Err(err).Msg("Error creating SSM client")
		}
		n, err := config.LoadSSM(ctx, client, prefix, c)
		if err != nil {
			log.Fatal().Err(err).Str("path", prefix).Msg("Error loading parameters from SSM")
		}
		log.Info().Int("parameters", n).Str("path", prefix).Msg("configuration overlaid from SSM")
	}

	currentDB, gormDB, err := openDatabase(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	if gormDB != nil {
		// If generating models, run generation and exit
		if config.GetBool(c, "GENERATE_MODELS", false) {
			log.Info().Msg("Generating models and query helpers...")
			if err := models.GenerateModels(gormDB, config.GetString(c, "GENERATE_MODELS_OUT", "./generated")); err != nil {
				log.Fatal().Err(err).Msg("Error generating models")
			}
			return
		}
		if config.GetBool(c, "AUTO_MIGRATE", false) {
			if err := database.Migrate(gormDB); err != nil {
				log.Fatal().Err(err).Msg("Error migrating database")
			}
			log.Info().Msg("database migrated")
		}
	}

	objects, err := openObjectStore(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to object storage")
	}

	manager := lifecycle.NewManager(currentDB.ProjectRepo(), objects,
		lifecycle.WithRetentionDays(config.GetInt(c, "RETENTION_DAYS", lifecycle.DefaultRetentionDays)),
		lifecycle.WithLogger(log.With().Str("component", "lifecycle").Str("dbType", config.GetString(c, "DB_TYPE", "supa")).Logger()),
	)
	sweeper := lifecycle.NewSweeper(manager,
		config.GetString(c, "SWEEP_SCHEDULE", lifecycle.DefaultSweepSchedule),
		time.Duration(config.GetInt(c, "SWEEP_TIMEOUT_MINUTES", 10))*time.Minute,
	)

	svc := api.Services{
		Manager:      manager,
		Sweeper:      sweeper,
		Contacts:     services.NewContactService(currentDB.ContactRepo(), notifiers(c)...),
		Profile:      services.NewProfileService(currentDB.SettingsRepo(), objects),
		Descriptions: services.NewDescriptionGenerator(completer(c)),
	}

	server, err := api.NewServer(c, svc)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	if err := sweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("Error scheduling retention sweeper")
	}

	// buffered so the listener can still report ErrServerClosed after shutdown
	errChannel := make(chan error, 2)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	sweeper.Stop(shutdownCtx)
	if err := currentDB.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error closing database")
	}
}

func setupLogger(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if config.GetString(c, "LOG_FORMAT", "json") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// openDatabase connects the record store selected by DB_TYPE. The gorm handle is nil for
// stores that are not SQL.
func openDatabase(ctx context.Context, c map[string]string) (database.Database, *gorm.DB, error) {
	dbType := config.GetString(c, "DB_TYPE", "supa")
	log.Info().Str("dbType", dbType).Msg("connecting to record store")

	switch dbType {
	case "supa", "postgres":
		db, err := database.OpenPostgres(database.PostgresConfig{
			Host:         config.GetString(c, "SUPABASE_DB_HOST", ""),
			User:         config.GetString(c, "SUPABASE_DB_USER", ""),
			Password:     config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			Name:         config.GetString(c, "SUPABASE_DB_NAME", ""),
			Port:         config.GetString(c, "SUPABASE_DB_PORT", "5432"),
			SSLMode:      config.GetString(c, "SUPABASE_DB_SSLMODE", "require"),
			ReplicaHosts: config.GetStrings(c, "SUPABASE_DB_REPLICA_HOSTS", nil),
		})
		if err != nil {
			return database.Database{}, nil, err
		}
		return database.New(db), db, nil
	case "mongo":
		db, err := database.ConnectMongo(ctx, config.GetString(c, "MONGODB_URI", ""), config.GetString(c, "MONGODB_DATABASE", "portfolio"))
		if err != nil {
			return database.Database{}, nil, err
		}
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			return database.Database{}, nil, err
		}
		return database.NewMongo(db), nil, nil
	case "memory":
		log.Warn().Msg("using in-memory record store, data is lost on restart")
		return database.NewMemory(), nil, nil
	}
	return database.Database{}, nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
}

func openObjectStore(ctx context.Context, c map[string]string) (storage.ObjectStore, error) {
	storageType := config.GetString(c, "STORAGE_TYPE", "s3")
	switch storageType {
	case "s3":
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:        config.GetString(c, "S3_BUCKET", ""),
			Region:        config.GetString(c, "S3_REGION", "us-east-1"),
			Endpoint:      config.GetString(c, "S3_ENDPOINT", ""),
			PublicBaseURL: config.GetString(c, "STORAGE_PUBLIC_BASE_URL", ""),
		})
	case "minio":
		return storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:        config.GetString(c, "MINIO_ENDPOINT", "localhost:9000"),
			AccessKeyID:     config.GetString(c, "MINIO_ACCESS_KEY", ""),
			SecretAccessKey: config.GetString(c, "MINIO_SECRET_KEY", ""),
			UseSSL:          config.GetBool(c, "MINIO_USE_SSL", false),
			Bucket:          config.GetString(c, "MINIO_BUCKET", "portfolio"),
			PublicBaseURL:   config.GetString(c, "STORAGE_PUBLIC_BASE_URL", ""),
		})
	case "memory":
		log.Warn().Msg("using in-memory object store, uploads are lost on restart")
		return storage.NewMemoryStore(config.GetString(c, "STORAGE_PUBLIC_BASE_URL", "")), nil
	}
	return nil, fmt.Errorf("unsupported STORAGE_TYPE %q", storageType)
}

// notifiers returns the configured contact notification channels.
func notifiers(c map[string]string) []services.Notifier {
	var out []services.Notifier
	if email := services.NewEmailNotifier(
		config.GetString(c, "RESEND_API_KEY", ""),
		config.GetString(c, "RESEND_FROM_EMAIL", ""),
		config.GetStrings(c, "CONTACT_NOTIFY_EMAILS", nil),
	); email != nil {
		out = append(out, email)
	}
	if sms := services.NewSMSNotifier(
		config.GetString(c, "TWILIO_ACCOUNT_SID", ""),
		config.GetString(c, "TWILIO_AUTH_TOKEN", ""),
		config.GetString(c, "TWILIO_FROM_NUMBER", ""),
		config.GetStrings(c, "TWILIO_NOTIFY_NUMBERS", nil),
	); sms != nil {
		out = append(out, sms)
	}
	if len(out) == 0 {
		log.Warn().Msg("no contact notifier configured, messages are only stored")
	}
	return out
}

func completer(c map[string]string) services.Completer {
	apiKey := config.GetString(c, "OPENAI_API_KEY", "")
	if apiKey == "" {
		log.Warn().Msg("OPENAI_API_KEY not set, description generator disabled")
		return nil
	}
	llm, err := services.NewOpenAICompleter(apiKey, config.GetString(c, "OPENAI_MODEL", ""))
	if err != nil {
		log.Error().Err(err).Msg("description generator disabled")
		return nil
	}
	return llm
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
