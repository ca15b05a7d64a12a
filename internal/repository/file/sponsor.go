package file

import (
	"context"

	"github.com/aidar/sponsortrack/internal/domain"
)

// FindSponsors фильтрует коллекцию в памяти. Новые записи идут первыми:
// порядок добавления в файл инвертируется.
func (s *Store) FindSponsors(ctx context.Context, q domain.SponsorQuery) (*domain.SponsorPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q = q.Normalize()
	sponsors := readCollection[domain.Sponsor](s, sponsorsFile)

	matched := make([]domain.Sponsor, 0, len(sponsors))
	for i := len(sponsors) - 1; i >= 0; i-- {
		if q.Matches(&sponsors[i]) {
			matched = append(matched, sponsors[i])
		}
	}

	page := domain.PageWindow(matched, q)
	s.expand(page.Sponsors)
	return page, nil
}

// CreateSponsor добавляет спонсора в конец коллекции
func (s *Store) CreateSponsor(ctx context.Context, sponsor *domain.Sponsor) (*domain.Sponsor, error) {
	created, err := s.CreateSponsors(ctx, []domain.Sponsor{*sponsor})
	if err != nil {
		return nil, err
	}
	return &created[0], nil
}

// CreateSponsors добавляет всех спонсоров одной записью файла
func (s *Store) CreateSponsors(ctx context.Context, sponsors []domain.Sponsor) ([]domain.Sponsor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.sponsorsMu.Lock()
	defer s.sponsorsMu.Unlock()

	existing := readCollection[domain.Sponsor](s, sponsorsFile)
	now := s.now().UTC()

	created := make([]domain.Sponsor, 0, len(sponsors))
	for _, sponsor := range sponsors {
		sponsor.ID = s.newID()
		sponsor.CreatedAt = now
		sponsor.UpdatedAt = now
		stripTeam(&sponsor)
		created = append(created, sponsor)
	}

	if err := writeCollection(s, sponsorsFile, append(existing, created...)); err != nil {
		return nil, err
	}

	s.expand(created)
	return created, nil
}

// UpdateSponsor безусловно сливает патч с записью и перезаписывает файл
func (s *Store) UpdateSponsor(ctx context.Context, id string, patch domain.SponsorPatch) (*domain.Sponsor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.sponsorsMu.Lock()
	defer s.sponsorsMu.Unlock()

	sponsors := readCollection[domain.Sponsor](s, sponsorsFile)
	idx := indexOfSponsor(sponsors, id)
	if idx < 0 {
		return nil, domain.ErrSponsorNotFound
	}

	updated := sponsors[idx]
	patch.Apply(&updated)
	updated.UpdatedAt = s.now().UTC()
	stripTeam(&updated)
	sponsors[idx] = updated

	if err := writeCollection(s, sponsorsFile, sponsors); err != nil {
		return nil, err
	}

	result := []domain.Sponsor{updated}
	s.expand(result)
	return &result[0], nil
}

// DeleteSponsor удаляет спонсора по id
func (s *Store) DeleteSponsor(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.sponsorsMu.Lock()
	defer s.sponsorsMu.Unlock()

	sponsors := readCollection[domain.Sponsor](s, sponsorsFile)
	idx := indexOfSponsor(sponsors, id)
	if idx < 0 {
		return domain.ErrSponsorNotFound
	}

	sponsors = append(sponsors[:idx], sponsors[idx+1:]...)
	return writeCollection(s, sponsorsFile, sponsors)
}

// SponsorStats считает сводку по всей коллекции
func (s *Store) SponsorStats(ctx context.Context) (*domain.SponsorStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := domain.NewSponsorStats()
	for _, sponsor := range readCollection[domain.Sponsor](s, sponsorsFile) {
		stats.Add(&sponsor)
	}
	return stats, nil
}

// expand раскрывает ссылки на команды линейным поиском по файлу команд
func (s *Store) expand(sponsors []domain.Sponsor) {
	if len(sponsors) == 0 {
		return
	}
	domain.ExpandTeams(sponsors, readCollection[domain.Team](s, teamsFile))
}

func indexOfSponsor(sponsors []domain.Sponsor, id string) int {
	for i := range sponsors {
		if sponsors[i].ID == id {
			return i
		}
	}
	return -1
}

// stripTeam оставляет в ссылке только id: в файле хранится ссылка, а не копия команды
func stripTeam(sponsor *domain.Sponsor) {
	if sponsor.AssignedTeam != nil {
		sponsor.AssignedTeam = domain.NewTeamRef(sponsor.AssignedTeam.ID)
	}
}
