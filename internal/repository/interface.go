package repository

import (
	"context"

	"github.com/aidar/sponsortrack/internal/domain"
)

// Метки хранилищ, которые видит клиент
const (
	SourceMongo    = "mongodb"
	SourcePostgres = "postgres"
	SourceFile     = "local-file"
)

// SponsorRepository определяет методы для работы с данными спонсоров
type SponsorRepository interface {
	// FindSponsors возвращает страницу спонсоров по фильтрам, от новых к старым,
	// с раскрытыми ссылками на команды
	FindSponsors(ctx context.Context, q domain.SponsorQuery) (*domain.SponsorPage, error)

	// CreateSponsor создает спонсора и присваивает ему id
	CreateSponsor(ctx context.Context, sponsor *domain.Sponsor) (*domain.Sponsor, error)

	// CreateSponsors создает всех переданных спонсоров в исходном порядке
	CreateSponsors(ctx context.Context, sponsors []domain.Sponsor) ([]domain.Sponsor, error)

	// UpdateSponsor применяет патч к существующему спонсору
	UpdateSponsor(ctx context.Context, id string, patch domain.SponsorPatch) (*domain.Sponsor, error)

	// DeleteSponsor удаляет спонсора по id
	DeleteSponsor(ctx context.Context, id string) error

	// SponsorStats возвращает сводку по статусам и командам
	SponsorStats(ctx context.Context) (*domain.SponsorStats, error)
}

// TeamRepository определяет методы для работы с данными команд
type TeamRepository interface {
	// ListTeams возвращает все команды в порядке создания
	ListTeams(ctx context.Context) ([]domain.Team, error)

	// CreateTeam создает новую команду
	CreateTeam(ctx context.Context, team *domain.Team) (*domain.Team, error)

	// UpdateTeam применяет патч к существующей команде
	UpdateTeam(ctx context.Context, id string, patch domain.TeamPatch) (*domain.Team, error)

	// DeleteTeam удаляет команду и снимает ее со всех спонсоров
	DeleteTeam(ctx context.Context, id string) error
}

// Store единый интерфейс хранилища. Реализуется основной БД и файловым резервом.
type Store interface {
	SponsorRepository
	TeamRepository

	// Name возвращает метку хранилища (SourceMongo, SourcePostgres, SourceFile)
	Name() string
}
