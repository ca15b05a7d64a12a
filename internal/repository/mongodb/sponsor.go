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

// FindSponsors считает совпадения, выбирает страницу и раскрывает команды
func (s *Store) FindSponsors(ctx context.Context, q domain.SponsorQuery) (*domain.SponsorPage, error) {
	q = q.Normalize()

	filter, ok := sponsorFilter(q)
	if !ok {
		return domain.PageWindow(nil, q), nil
	}

	total, err := s.sponsors.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count sponsors: %w", err)
	}

	opts := options.Find().
		SetSort(sponsorSort).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Limit))

	cursor, err := s.sponsors.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find sponsors: %w", err)
	}

	var docs []sponsorDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode sponsors: %w", err)
	}

	sponsors := make([]domain.Sponsor, 0, len(docs))
	for i := range docs {
		sponsors = append(sponsors, docs[i].toDomain())
	}

	if err := s.expand(ctx, sponsors); err != nil {
		return nil, err
	}

	return &domain.SponsorPage{
		Sponsors:   sponsors,
		Pagination: domain.NewPagination(int(total), q),
	}, nil
}

// CreateSponsor вставляет один документ
func (s *Store) CreateSponsor(ctx context.Context, sponsor *domain.Sponsor) (*domain.Sponsor, error) {
	doc, err := newSponsorDoc(sponsor, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if _, err := s.sponsors.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert sponsor: %w", err)
	}

	created := []domain.Sponsor{doc.toDomain()}
	if err := s.expand(ctx, created); err != nil {
		return nil, err
	}
	return &created[0], nil
}

// CreateSponsors вставляет документы одним InsertMany в исходном порядке
func (s *Store) CreateSponsors(ctx context.Context, sponsors []domain.Sponsor) ([]domain.Sponsor, error) {
	if len(sponsors) == 0 {
		return []domain.Sponsor{}, nil
	}

	now := s.now().UTC()
	docs := make([]sponsorDoc, 0, len(sponsors))
	for i := range sponsors {
		doc, err := newSponsorDoc(&sponsors[i], now)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if _, err := s.sponsors.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, fmt.Errorf("failed to insert sponsors: %w", err)
	}

	created := make([]domain.Sponsor, 0, len(docs))
	for i := range docs {
		created = append(created, docs[i].toDomain())
	}
	if err := s.expand(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateSponsor обновляет только переданные поля и возвращает документ после изменения
func (s *Store) UpdateSponsor(ctx context.Context, id string, patch domain.SponsorPatch) (*domain.Sponsor, error) {
	oid, err := parseID(id, domain.ErrSponsorNotFound)
	if err != nil {
		return nil, err
	}

	update, err := sponsorUpdate(patch, s.now().UTC())
	if err != nil {
		return nil, err
	}

	var doc sponsorDoc
	err = s.sponsors.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSponsorNotFound
		}
		return nil, fmt.Errorf("failed to update sponsor: %w", err)
	}

	updated := []domain.Sponsor{doc.toDomain()}
	if err := s.expand(ctx, updated); err != nil {
		return nil, err
	}
	return &updated[0], nil
}

// DeleteSponsor удаляет документ по id
func (s *Store) DeleteSponsor(ctx context.Context, id string) error {
	oid, err := parseID(id, domain.ErrSponsorNotFound)
	if err != nil {
		return err
	}

	result, err := s.sponsors.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete sponsor: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrSponsorNotFound
	}
	return nil
}

// SponsorStats группирует спонсоров по статусу и команде
func (s *Store) SponsorStats(ctx context.Context) (*domain.SponsorStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "status", Value: "$status"},
				{Key: "team", Value: "$assignedTeam"},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := s.sponsors.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sponsor stats: %w", err)
	}

	var groups []struct {
		Key struct {
			Status string         `bson:"status"`
			Team   *bson.ObjectID `bson:"team"`
		} `bson:"_id"`
		Count int `bson:"count"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode sponsor stats: %w", err)
	}

	stats := domain.NewSponsorStats()
	for _, g := range groups {
		teamID := ""
		if g.Key.Team != nil {
			teamID = g.Key.Team.Hex()
		}
		stats.AddCount(g.Key.Status, teamID, g.Count)
	}
	return stats, nil
}

// expand подгружает команды, на которые ссылаются спонсоры, одним запросом $in
func (s *Store) expand(ctx context.Context, sponsors []domain.Sponsor) error {
	seen := make(map[string]bool)
	ids := bson.A{}
	for i := range sponsors {
		teamID := sponsors[i].TeamID()
		if teamID == "" || seen[teamID] {
			continue
		}
		seen[teamID] = true
		if oid, err := bson.ObjectIDFromHex(teamID); err == nil {
			ids = append(ids, oid)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	teams, err := s.findTeams(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	domain.ExpandTeams(sponsors, teams)
	return nil
}
