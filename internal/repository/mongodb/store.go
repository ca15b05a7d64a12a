// Package mongodb реализует основное хранилище в MongoDB.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/aidar/sponsortrack/internal/domain"
	"github.com/aidar/sponsortrack/internal/repository"
)

const (
	sponsorsCollection = "sponsors"
	teamsCollection    = "teams"
)

// Store реализует repository.Store для MongoDB
type Store struct {
	client   *mongo.Client
	sponsors *mongo.Collection
	teams    *mongo.Collection
	now      func() time.Time
}

// Connect подключается к MongoDB и проверяет соединение ping'ом.
// timeout ограничивает выбор сервера, чтобы недоступная БД не вешала запрос.
func Connect(ctx context.Context, uri, dbName string, timeout time.Duration) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := &Store{
		client:   client,
		sponsors: client.Database(dbName).Collection(sponsorsCollection),
		teams:    client.Database(dbName).Collection(teamsCollection),
		now:      time.Now,
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}

	return s, nil
}

// ensureIndexes создает индексы под сортировку и фильтры списка
func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.sponsors.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "assignedTeam", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create sponsor indexes: %w", err)
	}
	return nil
}

// Name возвращает метку хранилища
func (s *Store) Name() string {
	return repository.SourceMongo
}

// Ping проверяет доступность primary
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close закрывает клиент и все соединения пула
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// parseID переводит строковый id в ObjectID; невалидный id считается отсутствующим
func parseID(id string, notFound error) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, notFound
	}
	return oid, nil
}

// parseTeamRef переводит ссылку на команду в ObjectID для записи
func parseTeamRef(teamID string) (*bson.ObjectID, error) {
	if teamID == "" {
		return nil, nil
	}
	oid, err := bson.ObjectIDFromHex(teamID)
	if err != nil {
		return nil, domain.NewValidationError([]domain.FieldError{
			{Field: "assignedTeam", Message: "assignedTeam must be a valid team id"},
		})
	}
	return &oid, nil
}
