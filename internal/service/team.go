package service

import (
	"context"
	"strings"

	"github.com/aidar/sponsortrack/internal/domain"
)

// TeamService handles business logic for teams
type TeamService struct {
	stores StoreProvider
}

// NewTeamService creates a new TeamService
func NewTeamService(stores StoreProvider) *TeamService {
	return &TeamService{stores: stores}
}

// List returns all teams in creation order
func (s *TeamService) List(ctx context.Context) ([]domain.Team, error) {
	return s.stores.Store(ctx).ListTeams(ctx)
}

// Create adds a new team. Names are not required to be unique.
func (s *TeamService) Create(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	team.ID = ""
	team.Name = strings.TrimSpace(team.Name)
	team.Members = domain.ParseMembers(team.Members)

	if team.Name == "" {
		return nil, nameRequired()
	}

	return s.stores.Store(ctx).CreateTeam(ctx, team)
}

// Update renames a team and/or replaces its members
func (s *TeamService) Update(ctx context.Context, id string, patch domain.TeamPatch) (*domain.Team, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, nameRequired()
		}
		patch.Name = &name
	}
	if patch.Members != nil {
		members := domain.ParseMembers(*patch.Members)
		patch.Members = &members
	}

	return s.stores.Store(ctx).UpdateTeam(ctx, id, patch)
}

// Delete removes a team and unassigns it from every sponsor
func (s *TeamService) Delete(ctx context.Context, id string) error {
	return s.stores.Store(ctx).DeleteTeam(ctx, id)
}

func nameRequired() error {
	return domain.NewValidationError([]domain.FieldError{
		{Field: "name", Message: "name is required"},
	})
}
