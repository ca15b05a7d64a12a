package file

import (
	"context"

	"github.com/aidar/sponsortrack/internal/domain"
)

// ListTeams возвращает все команды в порядке добавления
func (s *Store) ListTeams(ctx context.Context) ([]domain.Team, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	teams := readCollection[domain.Team](s, teamsFile)
	if teams == nil {
		teams = []domain.Team{}
	}
	return teams, nil
}

// CreateTeam добавляет команду. Уникальность имени не проверяется.
func (s *Store) CreateTeam(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.teamsMu.Lock()
	defer s.teamsMu.Unlock()

	teams := readCollection[domain.Team](s, teamsFile)

	created := *team
	created.ID = s.newID()
	created.CreatedAt = s.now().UTC()
	if created.Members == nil {
		created.Members = domain.Members{}
	}

	if err := writeCollection(s, teamsFile, append(teams, created)); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTeam применяет патч к команде
func (s *Store) UpdateTeam(ctx context.Context, id string, patch domain.TeamPatch) (*domain.Team, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.teamsMu.Lock()
	defer s.teamsMu.Unlock()

	teams := readCollection[domain.Team](s, teamsFile)
	idx := indexOfTeam(teams, id)
	if idx < 0 {
		return nil, domain.ErrTeamNotFound
	}

	patch.Apply(&teams[idx])
	if err := writeCollection(s, teamsFile, teams); err != nil {
		return nil, err
	}

	updated := teams[idx]
	return &updated, nil
}

// DeleteTeam удаляет команду и снимает ее со всех спонсоров
func (s *Store) DeleteTeam(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.teamsMu.Lock()
	defer s.teamsMu.Unlock()

	teams := readCollection[domain.Team](s, teamsFile)
	idx := indexOfTeam(teams, id)
	if idx < 0 {
		return domain.ErrTeamNotFound
	}

	teams = append(teams[:idx], teams[idx+1:]...)
	if err := writeCollection(s, teamsFile, teams); err != nil {
		return err
	}

	return s.unassignTeam(id)
}

// unassignTeam снимает команду со всех спонсоров, которые на нее ссылаются
func (s *Store) unassignTeam(teamID string) error {
	s.sponsorsMu.Lock()
	defer s.sponsorsMu.Unlock()

	sponsors := readCollection[domain.Sponsor](s, sponsorsFile)
	changed := false
	now := s.now().UTC()
	for i := range sponsors {
		if sponsors[i].TeamID() == teamID {
			sponsors[i].AssignedTeam = nil
			sponsors[i].UpdatedAt = now
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return writeCollection(s, sponsorsFile, sponsors)
}

func indexOfTeam(teams []domain.Team, id string) int {
	for i := range teams {
		if teams[i].ID == id {
			return i
		}
	}
	return -1
}
