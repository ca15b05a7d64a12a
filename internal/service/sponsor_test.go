package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/sponsortrack/internal/domain"
	"github.com/aidar/sponsortrack/internal/repository"
	"github.com/aidar/sponsortrack/internal/repository/file"
	"github.com/aidar/sponsortrack/internal/service"
)

// --- Store provider ---

type staticProvider struct {
	store repository.Store
}

func (p staticProvider) Store(context.Context) repository.Store { return p.store }

// failingStore wraps a real store and fails the operations that have an error set.
type failingStore struct {
	repository.Store
	createManyErr error
	findErr       error
}

func (f *failingStore) CreateSponsors(ctx context.Context, sponsors []domain.Sponsor) ([]domain.Sponsor, error) {
	if f.createManyErr != nil {
		return nil, f.createManyErr
	}
	return f.Store.CreateSponsors(ctx, sponsors)
}

func (f *failingStore) FindSponsors(ctx context.Context, q domain.SponsorQuery) (*domain.SponsorPage, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.Store.FindSponsors(ctx, q)
}

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFileStore(t *testing.T) *file.Store {
	t.Helper()
	store, err := file.Open(t.TempDir(), discardLogger())
	require.NoError(t, err)
	return store
}

func newSponsorService(t *testing.T) (*service.SponsorService, *file.Store) {
	t.Helper()
	store := newFileStore(t)
	return service.NewSponsorService(staticProvider{store: store}, discardLogger()), store
}

func validSponsor(name string) *domain.Sponsor {
	return &domain.Sponsor{
		CompanyName:   name,
		CompanyEmail:  "hello@" + name + ".test",
		ContactPerson: "Jane Doe",
		PhoneNumber:   "+1 555 0100",
		Location:      "Berlin",
	}
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	names := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func ptr[T any](v T) *T {
	return &v
}

// ===== Create =====

func TestSponsorCreate_DefaultsAndTrim(t *testing.T) {
	svc, _ := newSponsorService(t)

	in := validSponsor("acme")
	in.CompanyName = "  Acme  "
	in.ID = "client-supplied"

	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "client-supplied", created.ID)
	assert.Equal(t, "Acme", created.CompanyName)
	assert.Equal(t, domain.StatusInProgress, created.Status)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestSponsorCreate_MissingRequiredFields(t *testing.T) {
	svc, store := newSponsorService(t)

	_, err := svc.Create(context.Background(), &domain.Sponsor{CompanyName: "Acme", Location: "   "})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, []string{"companyEmail", "contactPerson", "phoneNumber", "location"}, fieldNames(t, err))

	// nothing was persisted
	page, err := store.FindSponsors(context.Background(), domain.SponsorQuery{}.Normalize())
	require.NoError(t, err)
	assert.Equal(t, 0, page.Pagination.Total)
}

func TestSponsorCreate_InvalidStatus(t *testing.T) {
	svc, _ := newSponsorService(t)

	in := validSponsor("acme")
	in.Status = "Maybe"

	_, err := svc.Create(context.Background(), in)
	assert.Equal(t, []string{"status"}, fieldNames(t, err))
}

// ===== BulkCreate =====

func TestSponsorBulkCreate_SkipsRowsWithoutCompanyName(t *testing.T) {
	svc, _ := newSponsorService(t)

	candidates := []domain.Sponsor{
		{CompanyName: "Acme", Status: domain.StatusContacted, Sector: "Tech"},
		{CompanyName: "   "},
		{CompanyName: "Globex", Status: "Whatever"},
		{ContactPerson: "no company"},
		{CompanyName: "Acme"},
	}

	result, err := svc.BulkCreate(context.Background(), candidates)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Added)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 5, result.Total)
	require.Len(t, result.NewSponsors, 3)

	assert.Equal(t, "Acme", result.NewSponsors[0].CompanyName)
	assert.Equal(t, domain.StatusContacted, result.NewSponsors[0].Status)
	assert.Equal(t, "Tech", result.NewSponsors[0].Sector)

	assert.Equal(t, "Globex", result.NewSponsors[1].CompanyName)
	assert.Equal(t, domain.StatusInProgress, result.NewSponsors[1].Status)
	assert.Equal(t, domain.DefaultSector, result.NewSponsors[1].Sector)

	// no deduplication
	assert.Equal(t, "Acme", result.NewSponsors[2].CompanyName)
	assert.NotEqual(t, result.NewSponsors[0].ID, result.NewSponsors[2].ID)
}

func TestSponsorBulkCreate_ClearsUnknownTeamRefs(t *testing.T) {
	svc, store := newSponsorService(t)
	ctx := context.Background()

	team, err := store.CreateTeam(ctx, &domain.Team{Name: "Outreach"})
	require.NoError(t, err)

	result, err := svc.BulkCreate(ctx, []domain.Sponsor{
		{CompanyName: "Acme", AssignedTeam: domain.NewTeamRef(team.ID)},
		{CompanyName: "Globex", AssignedTeam: domain.NewTeamRef("not-a-team")},
		{CompanyName: "Initech"},
	})
	require.NoError(t, err)

	// the row with an unknown team is imported without the reference
	assert.Equal(t, 3, result.Added)
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, result.NewSponsors, 3)
	assert.Equal(t, team.ID, result.NewSponsors[0].TeamID())
	assert.Nil(t, result.NewSponsors[1].AssignedTeam)
	assert.Nil(t, result.NewSponsors[2].AssignedTeam)

	page, err := svc.List(ctx, domain.SponsorQuery{Team: domain.TeamUnassigned})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Pagination.Total)
}

func TestSponsorBulkCreate_AllSkipped(t *testing.T) {
	svc, _ := newSponsorService(t)

	result, err := svc.BulkCreate(context.Background(), []domain.Sponsor{{}, {Notes: "x"}})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 2, result.Skipped)
	assert.NotNil(t, result.NewSponsors)
}

func TestSponsorBulkCreate_Empty(t *testing.T) {
	svc, _ := newSponsorService(t)

	_, err := svc.BulkCreate(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSponsorBulkCreate_StoreError(t *testing.T) {
	boom := errors.New("insert failed")
	store := &failingStore{Store: newFileStore(t), createManyErr: boom}
	svc := service.NewSponsorService(staticProvider{store: store}, discardLogger())

	_, err := svc.BulkCreate(context.Background(), []domain.Sponsor{{CompanyName: "Acme"}})
	assert.ErrorIs(t, err, boom)
}

// ===== List =====

func TestSponsorList_NormalizesQuery(t *testing.T) {
	svc, _ := newSponsorService(t)
	for _, name := range []string{"a", "b", "c"} {
		_, err := svc.Create(context.Background(), validSponsor(name))
		require.NoError(t, err)
	}

	page, err := svc.List(context.Background(), domain.SponsorQuery{Page: -3, Limit: 1000, Status: domain.FilterAll})
	require.NoError(t, err)
	assert.Equal(t, domain.Pagination{Total: 3, Page: 1, Pages: 1, Limit: domain.MaxLimit}, page.Pagination)
	assert.Equal(t, "c", page.Sponsors[0].CompanyName)
}

func TestSponsorList_StoreError(t *testing.T) {
	boom := errors.New("query failed")
	store := &failingStore{Store: newFileStore(t), findErr: boom}
	svc := service.NewSponsorService(staticProvider{store: store}, discardLogger())

	_, err := svc.List(context.Background(), domain.SponsorQuery{})
	assert.ErrorIs(t, err, boom)
}

// ===== Update / Delete =====

func TestSponsorUpdate(t *testing.T) {
	svc, _ := newSponsorService(t)
	created, err := svc.Create(context.Background(), validSponsor("acme"))
	require.NoError(t, err)

	t.Run("merges provided fields", func(t *testing.T) {
		updated, err := svc.Update(context.Background(), created.ID, domain.SponsorPatch{
			Notes:  ptr("  call on monday "),
			Status: ptr(domain.StatusFollowUpRequired),
		})
		require.NoError(t, err)
		assert.Equal(t, "call on monday", updated.Notes)
		assert.Equal(t, domain.StatusFollowUpRequired, updated.Status)
		assert.Equal(t, created.CompanyEmail, updated.CompanyEmail)
	})

	t.Run("blank required field", func(t *testing.T) {
		_, err := svc.Update(context.Background(), created.ID, domain.SponsorPatch{CompanyName: ptr(" ")})
		assert.Equal(t, []string{"companyName"}, fieldNames(t, err))
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.Update(context.Background(), created.ID, domain.SponsorPatch{Status: ptr(domain.SponsorStatus("Done"))})
		assert.Equal(t, []string{"status"}, fieldNames(t, err))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Update(context.Background(), "missing", domain.SponsorPatch{Notes: ptr("x")})
		assert.ErrorIs(t, err, domain.ErrSponsorNotFound)
	})
}

func TestSponsorDelete(t *testing.T) {
	svc, _ := newSponsorService(t)
	created, err := svc.Create(context.Background(), validSponsor("acme"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID), domain.ErrSponsorNotFound)
}

func TestSponsorStats(t *testing.T) {
	svc, _ := newSponsorService(t)
	_, err := svc.BulkCreate(context.Background(), []domain.Sponsor{
		{CompanyName: "a", Status: domain.StatusCompleted},
		{CompanyName: "b", Status: domain.StatusCompleted},
		{CompanyName: "c"},
	})
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[string(domain.StatusCompleted)])
	assert.Equal(t, 1, stats.ByStatus[string(domain.StatusInProgress)])
	assert.Equal(t, 3, stats.ByTeam[domain.UnassignedBucket])
}
