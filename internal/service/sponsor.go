package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aidar/sponsortrack/internal/domain"
	"github.com/aidar/sponsortrack/internal/repository"
)

// StoreProvider returns the store that should serve the current call
type StoreProvider interface {
	Store(ctx context.Context) repository.Store
}

// SponsorService handles business logic for sponsors
type SponsorService struct {
	stores StoreProvider
	logger *slog.Logger
}

// NewSponsorService creates a new SponsorService
func NewSponsorService(stores StoreProvider, logger *slog.Logger) *SponsorService {
	return &SponsorService{
		stores: stores,
		logger: logger,
	}
}

// List returns one page of sponsors matching the query
func (s *SponsorService) List(ctx context.Context, q domain.SponsorQuery) (*domain.SponsorPage, error) {
	return s.stores.Store(ctx).FindSponsors(ctx, q.Normalize())
}

// Create validates and persists a single sponsor
func (s *SponsorService) Create(ctx context.Context, sponsor *domain.Sponsor) (*domain.Sponsor, error) {
	normalizeSponsor(sponsor)
	if sponsor.Status == "" {
		sponsor.Status = domain.DefaultSponsorStatus
	}

	if err := validateSponsor(sponsor); err != nil {
		return nil, err
	}

	return s.stores.Store(ctx).CreateSponsor(ctx, sponsor)
}

// BulkCreate imports candidate rows. Rows without a company name are dropped,
// everything else is inserted with defaults for sector and status. A team
// reference that matches no existing team is cleared; the row itself is kept.
func (s *SponsorService) BulkCreate(ctx context.Context, candidates []domain.Sponsor) (*domain.BulkResult, error) {
	if len(candidates) == 0 {
		return nil, domain.NewValidationError([]domain.FieldError{
			{Field: "sponsors", Message: "at least one sponsor is required"},
		})
	}

	accepted := make([]domain.Sponsor, 0, len(candidates))
	for i := range candidates {
		candidate := candidates[i]
		normalizeSponsor(&candidate)

		if candidate.CompanyName == "" {
			continue
		}
		if candidate.Sector == "" {
			candidate.Sector = domain.DefaultSector
		}
		if !candidate.Status.IsValid() {
			candidate.Status = domain.DefaultSponsorStatus
		}
		accepted = append(accepted, candidate)
	}

	store := s.stores.Store(ctx)

	cleared, err := dropUnknownTeams(ctx, store, accepted)
	if err != nil {
		return nil, err
	}

	created, err := store.CreateSponsors(ctx, accepted)
	if err != nil {
		return nil, err
	}

	result := &domain.BulkResult{
		Added:       len(created),
		Skipped:     len(candidates) - len(accepted),
		Total:       len(candidates),
		NewSponsors: created,
	}

	s.logger.Info("bulk import finished",
		"added", result.Added,
		"skipped", result.Skipped,
		"team_refs_cleared", cleared,
		"source", store.Name(),
	)

	return result, nil
}

// dropUnknownTeams clears assignedTeam on rows whose team does not exist in store
// and returns how many references were cleared.
func dropUnknownTeams(ctx context.Context, store repository.Store, rows []domain.Sponsor) (int, error) {
	referenced := false
	for i := range rows {
		if rows[i].TeamID() != "" {
			referenced = true
			break
		}
	}
	if !referenced {
		return 0, nil
	}

	teams, err := store.ListTeams(ctx)
	if err != nil {
		return 0, err
	}
	known := make(map[string]struct{}, len(teams))
	for _, team := range teams {
		known[team.ID] = struct{}{}
	}

	cleared := 0
	for i := range rows {
		id := rows[i].TeamID()
		if id == "" {
			continue
		}
		if _, ok := known[id]; !ok {
			rows[i].AssignedTeam = nil
			cleared++
		}
	}
	return cleared, nil
}

// Update merges the provided fields into an existing sponsor
func (s *SponsorService) Update(ctx context.Context, id string, patch domain.SponsorPatch) (*domain.Sponsor, error) {
	normalizePatch(&patch)

	if err := validatePatch(&patch); err != nil {
		return nil, err
	}

	return s.stores.Store(ctx).UpdateSponsor(ctx, id, patch)
}

// Delete removes a sponsor by id
func (s *SponsorService) Delete(ctx context.Context, id string) error {
	return s.stores.Store(ctx).DeleteSponsor(ctx, id)
}

// Stats returns sponsor counts by status and team
func (s *SponsorService) Stats(ctx context.Context) (*domain.SponsorStats, error) {
	return s.stores.Store(ctx).SponsorStats(ctx)
}

func normalizeSponsor(sponsor *domain.Sponsor) {
	sponsor.ID = ""
	sponsor.CompanyName = strings.TrimSpace(sponsor.CompanyName)
	sponsor.Sector = strings.TrimSpace(sponsor.Sector)
	sponsor.CompanyEmail = strings.TrimSpace(sponsor.CompanyEmail)
	sponsor.ContactPerson = strings.TrimSpace(sponsor.ContactPerson)
	sponsor.PhoneNumber = strings.TrimSpace(sponsor.PhoneNumber)
	sponsor.Location = strings.TrimSpace(sponsor.Location)
	sponsor.Notes = strings.TrimSpace(sponsor.Notes)
	sponsor.Status = domain.SponsorStatus(strings.TrimSpace(string(sponsor.Status)))
	sponsor.AssignedTeam = domain.NewTeamRef(strings.TrimSpace(sponsor.TeamID()))
}

func normalizePatch(patch *domain.SponsorPatch) {
	for _, field := range []*string{
		patch.CompanyName, patch.Sector, patch.CompanyEmail, patch.ContactPerson,
		patch.PhoneNumber, patch.Location, patch.Notes,
	} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
	if patch.Status != nil {
		*patch.Status = domain.SponsorStatus(strings.TrimSpace(string(*patch.Status)))
	}
	patch.AssignedTeam.TeamID = strings.TrimSpace(patch.AssignedTeam.TeamID)
}

// requiredFields lists the sponsor fields that may never be blank
func requiredFields(companyName, companyEmail, contactPerson, phoneNumber, location *string) []domain.FieldError {
	var errs []domain.FieldError
	check := func(field string, value *string) {
		if value != nil && *value == "" {
			errs = append(errs, domain.FieldError{Field: field, Message: field + " is required"})
		}
	}
	check("companyName", companyName)
	check("companyEmail", companyEmail)
	check("contactPerson", contactPerson)
	check("phoneNumber", phoneNumber)
	check("location", location)
	return errs
}

func validateSponsor(sponsor *domain.Sponsor) error {
	errs := requiredFields(
		&sponsor.CompanyName, &sponsor.CompanyEmail, &sponsor.ContactPerson,
		&sponsor.PhoneNumber, &sponsor.Location,
	)
	if !sponsor.Status.IsValid() {
		errs = append(errs, invalidStatus(sponsor.Status))
	}
	return domain.NewValidationError(errs)
}

func validatePatch(patch *domain.SponsorPatch) error {
	errs := requiredFields(
		patch.CompanyName, patch.CompanyEmail, patch.ContactPerson,
		patch.PhoneNumber, patch.Location,
	)
	if patch.Status != nil && !patch.Status.IsValid() {
		errs = append(errs, invalidStatus(*patch.Status))
	}
	return domain.NewValidationError(errs)
}

func invalidStatus(status domain.SponsorStatus) domain.FieldError {
	return domain.FieldError{
		Field:   "status",
		Message: fmt.Sprintf("status %q is not valid", status),
	}
}
