package postgres

import (
	"context"
	"fmt"

	"github.com/aidar/sponsortrack/internal/domain"
)

// SponsorStats группирует спонсоров по статусу и команде
func (r *Store) SponsorStats(ctx context.Context) (*domain.SponsorStats, error) {
	query := `
		SELECT
			status,
			COALESCE(assigned_team, '') AS team,
			COUNT(*) AS sponsors
		FROM sponsors
		GROUP BY status, assigned_team
		ORDER BY status
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sponsor stats: %w", err)
	}
	defer rows.Close()

	stats := domain.NewSponsorStats()
	for rows.Next() {
		var (
			status, team string
			count        int
		)
		if err := rows.Scan(&status, &team, &count); err != nil {
			return nil, fmt.Errorf("failed to scan sponsor stats: %w", err)
		}
		stats.AddCount(status, team, count)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
