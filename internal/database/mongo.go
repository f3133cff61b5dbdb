package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"leadfunnel/internal/config"
	"leadfunnel/internal/lib/sl"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const dialogSessionsCollection = "dialog_sessions"

type MongoDB struct {
	ctx           context.Context
	clientOptions *options.ClientOptions
	database      string
	sessionTTL    time.Duration
	log           *slog.Logger
}

// NewMongoClient returns nil when mongo is disabled; callers fall back to
// in-memory sessions.
func NewMongoClient(conf *config.Config, logger *slog.Logger) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		ctx:           context.Background(),
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
		sessionTTL:    conf.Session.TTL,
		log:           logger.With(sl.Module("mongodb")),
	}
	return client, nil
}

func (m *MongoDB) connect() (*mongo.Client, error) {
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect error: %w", err)
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	_ = connection.Disconnect(m.ctx)
}

func (m *MongoDB) findError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return fmt.Errorf("mongodb find error: %w", err)
}

// EnsureIndexes creates the session lookup index and, when a session ttl is
// configured, the expiry index that lets mongo drop abandoned dialogs.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(dialogSessionsCollection)

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if m.sessionTTL > 0 {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(m.sessionTTL.Seconds())),
		})
	}

	names, err := collection.Indexes().CreateMany(ctx, models)
	if err != nil {
		return fmt.Errorf("mongodb create indexes: %w", err)
	}
	m.log.Debug("indexes ready", slog.Any("indexes", names))
	return nil
}
