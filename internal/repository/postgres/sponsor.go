package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aidar/sponsortrack/internal/domain"
)

const sponsorSelect = `
	SELECT s.id, s.company_name, s.sector, s.company_email, s.contact_person,
	       s.phone_number, s.location, s.notes, s.status, s.assigned_team,
	       s.created_at, s.updated_at,
	       t.id, t.name, t.members, t.created_at
	FROM sponsors s
	LEFT JOIN teams t ON t.id = s.assigned_team`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSponsor читает строку sponsorSelect; команда раскрывается, если JOIN ее нашел
func scanSponsor(row rowScanner) (domain.Sponsor, error) {
	var (
		s           domain.Sponsor
		status      string
		teamRef     *string
		teamID      *string
		teamName    *string
		teamMembers []string
		teamCreated *time.Time
	)

	err := row.Scan(
		&s.ID, &s.CompanyName, &s.Sector, &s.CompanyEmail, &s.ContactPerson,
		&s.PhoneNumber, &s.Location, &s.Notes, &status, &teamRef,
		&s.CreatedAt, &s.UpdatedAt,
		&teamID, &teamName, &teamMembers, &teamCreated,
	)
	if err != nil {
		return domain.Sponsor{}, err
	}

	s.Status = domain.SponsorStatus(status)
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()

	if teamRef != nil {
		s.AssignedTeam = domain.NewTeamRef(*teamRef)
	}
	if s.AssignedTeam != nil && teamID != nil {
		team := domain.Team{
			ID:      *teamID,
			Name:    *teamName,
			Members: domain.Members(teamMembers),
		}
		if team.Members == nil {
			team.Members = domain.Members{}
		}
		if teamCreated != nil {
			team.CreatedAt = teamCreated.UTC()
		}
		s.AssignedTeam.Team = &team
	}

	return s, nil
}

// buildSponsorWhere переводит запрос в WHERE. Поиск без учета регистра
// через strpos, чтобы не экранировать спецсимволы LIKE.
func buildSponsorWhere(q domain.SponsorQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if q.Search != "" {
		args = append(args, q.SearchLower())
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(strpos(lower(s.company_name), $%d) > 0 OR strpos(lower(s.contact_person), $%d) > 0)", n, n))
	}

	if q.Status != "" {
		args = append(args, q.Status)
		conds = append(conds, fmt.Sprintf("s.status = $%d", len(args)))
	}

	switch q.Team {
	case "":
	case domain.TeamUnassigned:
		conds = append(conds, "s.assigned_team IS NULL")
	default:
		args = append(args, q.Team)
		conds = append(conds, fmt.Sprintf("s.assigned_team = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// FindSponsors возвращает страницу спонсоров, новые первыми
func (r *Store) FindSponsors(ctx context.Context, q domain.SponsorQuery) (*domain.SponsorPage, error) {
	q = q.Normalize()
	where, args := buildSponsorWhere(q)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM sponsors s"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count sponsors: %w", err)
	}

	n := len(args)
	query := sponsorSelect + where + fmt.Sprintf(" ORDER BY s.seq DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, q.Limit, q.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sponsors: %w", err)
	}
	defer rows.Close()

	sponsors := make([]domain.Sponsor, 0, q.Limit)
	for rows.Next() {
		sponsor, err := scanSponsor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sponsor: %w", err)
		}
		sponsors = append(sponsors, sponsor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sponsors: %w", err)
	}

	return &domain.SponsorPage{
		Sponsors:   sponsors,
		Pagination: domain.NewPagination(total, q),
	}, nil
}

func (r *Store) getSponsor(ctx context.Context, id string) (*domain.Sponsor, error) {
	sponsor, err := scanSponsor(r.db.QueryRow(ctx, sponsorSelect+" WHERE s.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSponsorNotFound
		}
		return nil, fmt.Errorf("failed to get sponsor: %w", err)
	}
	return &sponsor, nil
}

const insertSponsor = `
	INSERT INTO sponsors (id, company_name, sector, company_email, contact_person,
	                      phone_number, location, notes, status, assigned_team,
	                      created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`

func insertArgs(id string, s *domain.Sponsor, now time.Time) []any {
	var team *string
	if teamID := s.TeamID(); teamID != "" {
		team = &teamID
	}
	return []any{
		id, s.CompanyName, s.Sector, s.CompanyEmail, s.ContactPerson,
		s.PhoneNumber, s.Location, s.Notes, string(s.Status), team, now,
	}
}

// CreateSponsor создает спонсора с новым UUID
func (r *Store) CreateSponsor(ctx context.Context, sponsor *domain.Sponsor) (*domain.Sponsor, error) {
	id := uuid.NewString()
	if _, err := r.db.Exec(ctx, insertSponsor, insertArgs(id, sponsor, r.now().UTC())...); err != nil {
		return nil, fmt.Errorf("failed to insert sponsor: %w", err)
	}
	return r.getSponsor(ctx, id)
}

// CreateSponsors вставляет всех спонсоров в одной транзакции
func (r *Store) CreateSponsors(ctx context.Context, sponsors []domain.Sponsor) ([]domain.Sponsor, error) {
	if len(sponsors) == 0 {
		return []domain.Sponsor{}, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore error as it will fail if transaction was committed
	}()

	now := r.now().UTC()
	created := make([]domain.Sponsor, 0, len(sponsors))
	for i := range sponsors {
		id := uuid.NewString()
		if _, err := tx.Exec(ctx, insertSponsor, insertArgs(id, &sponsors[i], now)...); err != nil {
			return nil, fmt.Errorf("failed to insert sponsor: %w", err)
		}

		sponsor := sponsors[i]
		sponsor.ID = id
		sponsor.CreatedAt = now
		sponsor.UpdatedAt = now
		sponsor.AssignedTeam = domain.NewTeamRef(sponsor.TeamID())
		created = append(created, sponsor)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit sponsors: %w", err)
	}

	teams, err := r.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	domain.ExpandTeams(created, teams)
	return created, nil
}

// buildSponsorUpdate собирает SET только из переданных полей; $1 это id
func buildSponsorUpdate(patch domain.SponsorPatch, now time.Time) (string, []any) {
	args := []any{nil}
	var sets []string
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.CompanyName != nil {
		set("company_name", *patch.CompanyName)
	}
	if patch.Sector != nil {
		set("sector", *patch.Sector)
	}
	if patch.CompanyEmail != nil {
		set("company_email", *patch.CompanyEmail)
	}
	if patch.ContactPerson != nil {
		set("contact_person", *patch.ContactPerson)
	}
	if patch.PhoneNumber != nil {
		set("phone_number", *patch.PhoneNumber)
	}
	if patch.Location != nil {
		set("location", *patch.Location)
	}
	if patch.Notes != nil {
		set("notes", *patch.Notes)
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.AssignedTeam.Set {
		var team *string
		if patch.AssignedTeam.TeamID != "" {
			team = &patch.AssignedTeam.TeamID
		}
		set("assigned_team", team)
	}
	set("updated_at", now)

	return "UPDATE sponsors SET " + strings.Join(sets, ", ") + " WHERE id = $1", args
}

// UpdateSponsor обновляет переданные поля спонсора
func (r *Store) UpdateSponsor(ctx context.Context, id string, patch domain.SponsorPatch) (*domain.Sponsor, error) {
	query, args := buildSponsorUpdate(patch, r.now().UTC())
	args[0] = id

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update sponsor: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, domain.ErrSponsorNotFound
	}

	return r.getSponsor(ctx, id)
}

// DeleteSponsor удаляет спонсора по id
func (r *Store) DeleteSponsor(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM sponsors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sponsor: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrSponsorNotFound
	}
	return nil
}
