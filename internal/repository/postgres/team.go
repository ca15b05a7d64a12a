package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aidar/sponsortrack/internal/domain"
)

func scanTeam(row rowScanner) (domain.Team, error) {
	var (
		team    domain.Team
		members []string
	)
	if err := row.Scan(&team.ID, &team.Name, &members, &team.CreatedAt); err != nil {
		return domain.Team{}, err
	}

	team.Members = domain.Members(members)
	if team.Members == nil {
		team.Members = domain.Members{}
	}
	team.CreatedAt = team.CreatedAt.UTC()
	return team, nil
}

// ListTeams возвращает все команды в порядке создания
func (r *Store) ListTeams(ctx context.Context) ([]domain.Team, error) {
	query := `
		SELECT id, name, members, created_at
		FROM teams
		ORDER BY seq
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	teams := make([]domain.Team, 0)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return teams, nil
}

// CreateTeam создает команду; имя не обязано быть уникальным
func (r *Store) CreateTeam(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	query := `
		INSERT INTO teams (id, name, members, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, members, created_at
	`

	members := []string(team.Members)
	if members == nil {
		members = []string{}
	}

	created, err := scanTeam(r.db.QueryRow(ctx, query, uuid.NewString(), team.Name, members, r.now().UTC()))
	if err != nil {
		return nil, fmt.Errorf("failed to insert team: %w", err)
	}
	return &created, nil
}

// UpdateTeam обновляет имя и/или состав команды
func (r *Store) UpdateTeam(ctx context.Context, id string, patch domain.TeamPatch) (*domain.Team, error) {
	args := []any{id}
	sets := make([]string, 0, 2)
	if patch.Name != nil {
		args = append(args, *patch.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if patch.Members != nil {
		members := []string(*patch.Members)
		if members == nil {
			members = []string{}
		}
		args = append(args, members)
		sets = append(sets, fmt.Sprintf("members = $%d", len(args)))
	}

	// Пустой патч просто возвращает текущее состояние
	query := `SELECT id, name, members, created_at FROM teams WHERE id = $1`
	if len(sets) > 0 {
		query = "UPDATE teams SET " + strings.Join(sets, ", ") +
			" WHERE id = $1 RETURNING id, name, members, created_at"
	}

	team, err := scanTeam(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return &team, nil
}

// DeleteTeam удаляет команду и в той же транзакции снимает ее со спонсоров
func (r *Store) DeleteTeam(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore error as it will fail if transaction was committed
	}()

	result, err := tx.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrTeamNotFound
	}

	_, err = tx.Exec(ctx,
		`UPDATE sponsors SET assigned_team = NULL, updated_at = $2 WHERE assigned_team = $1`,
		id, r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to unassign team from sponsors: %w", err)
	}

	return tx.Commit(ctx)
}
