package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

// Collection names
const (
	CollectionProjects        = "projects"
	CollectionContactMessages = "contact_messages"
	CollectionSettings        = "settings"
)

// ConnectMongo opens a pooled client and verifies it with a ping.
func ConnectMongo(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(20).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(30 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	log.Info().Str("database", dbName).Msg("connected to mongodb")
	return client.Database(dbName), nil
}

// EnsureMongoIndexes creates the indexes the project queries rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionProjects).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: models.ColumnSlug, Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: models.ColumnIsDeleted, Value: 1}, {Key: models.ColumnDeletedAt, Value: 1}}},
		{Keys: bson.D{{Key: models.ColumnCreatedAt, Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create project indexes: %w", err)
	}

	_, err = db.Collection(CollectionContactMessages).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "submitted_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create contact indexes: %w", err)
	}
	return nil
}

type MongoProjectRepo struct {
	coll *mongo.Collection
}

func NewMongoProjectRepo(db *mongo.Database) *MongoProjectRepo {
	return &MongoProjectRepo{coll: db.Collection(CollectionProjects)}
}

func (r *MongoProjectRepo) Insert(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	if _, err := r.coll.InsertOne(ctx, project); err != nil {
		return errs.NewDatabaseError("insert", "project", err)
	}
	return nil
}

func (r *MongoProjectRepo) FindByID(ctx context.Context, id string) (*models.Project, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoProjectRepo) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return r.findOne(ctx, bson.M{models.ColumnSlug: slug})
}

func (r *MongoProjectRepo) findOne(ctx context.Context, filter bson.M) (*models.Project, error) {
	var project models.Project
	err := r.coll.FindOne(ctx, filter).Decode(&project)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NewNotFound("project")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("get", "project", err)
	}
	return &project, nil
}

func (r *MongoProjectRepo) Find(ctx context.Context, q ProjectQuery) ([]*models.Project, error) {
	filter := bson.M{}
	if q.Deleted != nil {
		filter[models.ColumnIsDeleted] = *q.Deleted
	}
	if q.DeletedAtOrBefore != nil {
		filter[models.ColumnDeletedAt] = bson.M{"$lte": *q.DeletedAtOrBefore}
	}
	if q.Category != "" {
		filter[models.ColumnCategory] = q.Category
	}

	opts := options.Find()
	switch q.OrderBy {
	case OrderCreatedAtDesc:
		opts.SetSort(bson.D{{Key: models.ColumnCreatedAt, Value: -1}})
	case OrderDeletedAtDesc:
		opts.SetSort(bson.D{{Key: models.ColumnDeletedAt, Value: -1}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "projects", err)
	}
	defer cursor.Close(ctx)

	projects := []*models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, errs.NewDatabaseError("decode", "projects", err)
	}
	return projects, nil
}

func (r *MongoProjectRepo) Update(ctx context.Context, id string, changes Changes) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(changes)})
	if err != nil {
		return errs.NewDatabaseError("update", "project", err)
	}
	if res.MatchedCount == 0 {
		return errs.NewNotFound("project")
	}
	return nil
}

func (r *MongoProjectRepo) IncrementLikes(ctx context.Context, id string, delta int64) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, models.ColumnIsDeleted: false},
		bson.M{"$inc": bson.M{models.ColumnLikes: delta}},
	)
	if err != nil {
		return errs.NewDatabaseError("like", "project", err)
	}
	if res.MatchedCount == 0 {
		return errs.NewNotFound("project")
	}
	return nil
}

func (r *MongoProjectRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errs.NewDatabaseError("delete", "project", err)
	}
	return nil
}

type MongoContactRepo struct {
	coll *mongo.Collection
}

func NewMongoContactRepo(db *mongo.Database) *MongoContactRepo {
	return &MongoContactRepo{coll: db.Collection(CollectionContactMessages)}
}

func (r *MongoContactRepo) Insert(ctx context.Context, m *models.ContactMessage) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		return errs.NewDatabaseError("insert", "contact message", err)
	}
	return nil
}

func (r *MongoContactRepo) List(ctx context.Context, limit int) ([]*models.ContactMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "contact messages", err)
	}
	defer cursor.Close(ctx)

	messages := []*models.ContactMessage{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, errs.NewDatabaseError("decode", "contact messages", err)
	}
	return messages, nil
}

type MongoSettingsRepo struct {
	coll *mongo.Collection
}

func NewMongoSettingsRepo(db *mongo.Database) *MongoSettingsRepo {
	return &MongoSettingsRepo{coll: db.Collection(CollectionSettings)}
}

func (r *MongoSettingsRepo) Get(ctx context.Context, key string) (*models.Setting, error) {
	var s models.Setting
	err := r.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NewNotFound("setting " + key)
	}
	if err != nil {
		return nil, errs.NewDatabaseError("get", "setting", err)
	}
	return &s, nil
}

func (r *MongoSettingsRepo) Put(ctx context.Context, s *models.Setting) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": s.Key}, s, options.Replace().SetUpsert(true))
	if err != nil {
		return errs.NewDatabaseError("save", "setting", err)
	}
	return nil
}
