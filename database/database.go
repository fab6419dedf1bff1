package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

type Database struct {
	projectRepo  ProjectStore
	contactRepo  ContactStore
	settingsRepo SettingsStore
	closer       func(context.Context) error
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		projectRepo:  NewProjectRepo(db),
		contactRepo:  NewContactRepo(db),
		settingsRepo: NewSettingsRepo(db),
		closer: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// NewMongo backs every repository with a collection of db.
func NewMongo(db *mongo.Database) Database {
	return Database{
		projectRepo:  NewMongoProjectRepo(db),
		contactRepo:  NewMongoContactRepo(db),
		settingsRepo: NewMongoSettingsRepo(db),
		closer:       db.Client().Disconnect,
	}
}

// NewMemory keeps everything in process. Data is lost on restart.
func NewMemory() Database {
	return Database{
		projectRepo:  NewMemoryProjectRepo(),
		contactRepo:  NewMemoryContactRepo(),
		settingsRepo: NewMemorySettingsRepo(),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() ProjectStore {
	return d.projectRepo
}

func (d Database) ContactRepo() ContactStore {
	return d.contactRepo
}

func (d Database) SettingsRepo() SettingsStore {
	return d.settingsRepo
}

func (d Database) Close(ctx context.Context) error {
	if d.closer == nil {
		return nil
	}
	return d.closer(ctx)
}
