package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/aidar/sponsortrack/internal/domain"
)

// ListTeams возвращает все команды в порядке создания
func (s *Store) ListTeams(ctx context.Context) ([]domain.Team, error) {
	return s.findTeams(ctx, bson.M{})
}

func (s *Store) findTeams(ctx context.Context, filter bson.M) ([]domain.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := s.teams.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find teams: %w", err)
	}

	var docs []teamDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode teams: %w", err)
	}

	teams := make([]domain.Team, 0, len(docs))
	for i := range docs {
		teams = append(teams, docs[i].toDomain())
	}
	return teams, nil
}

// CreateTeam вставляет команду; имя не обязано быть уникальным
func (s *Store) CreateTeam(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	members := []string(team.Members)
	if members == nil {
		members = []string{}
	}

	doc := teamDoc{
		ID:        bson.NewObjectID(),
		Name:      team.Name,
		Members:   members,
		CreatedAt: s.now().UTC(),
	}

	if _, err := s.teams.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert team: %w", err)
	}

	created := doc.toDomain()
	return &created, nil
}

// UpdateTeam обновляет имя и/или состав команды
func (s *Store) UpdateTeam(ctx context.Context, id string, patch domain.TeamPatch) (*domain.Team, error) {
	oid, err := parseID(id, domain.ErrTeamNotFound)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Members != nil {
		set["members"] = []string(*patch.Members)
	}

	filter := bson.M{"_id": oid}
	var doc teamDoc
	if len(set) == 0 {
		err = s.teams.FindOne(ctx, filter).Decode(&doc)
	} else {
		err = s.teams.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&doc)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	updated := doc.toDomain()
	return &updated, nil
}

// DeleteTeam удаляет команду и снимает ссылку на нее у спонсоров
func (s *Store) DeleteTeam(ctx context.Context, id string) error {
	oid, err := parseID(id, domain.ErrTeamNotFound)
	if err != nil {
		return err
	}

	result, err := s.teams.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrTeamNotFound
	}

	_, err = s.sponsors.UpdateMany(ctx,
		bson.M{"assignedTeam": oid},
		bson.M{"$set": bson.M{"assignedTeam": nil, "updatedAt": s.now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to unassign team from sponsors: %w", err)
	}
	return nil
}
