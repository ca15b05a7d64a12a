package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/sponsortrack/internal/domain"
	"github.com/aidar/sponsortrack/internal/service"
)

func TestTeamCreate(t *testing.T) {
	store := newFileStore(t)
	svc := service.NewTeamService(staticProvider{store: store})

	created, err := svc.Create(context.Background(), &domain.Team{
		Name:    "  Outreach ",
		Members: domain.Members{" Ann", "", "Bob "},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Outreach", created.Name)
	assert.Equal(t, domain.Members{"Ann", "Bob"}, created.Members)

	// duplicate names are allowed
	_, err = svc.Create(context.Background(), &domain.Team{Name: "Outreach"})
	require.NoError(t, err)

	teams, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, created.ID, teams[0].ID)
}

func TestTeamCreate_NameRequired(t *testing.T) {
	svc := service.NewTeamService(staticProvider{store: newFileStore(t)})

	_, err := svc.Create(context.Background(), &domain.Team{Name: "   "})
	assert.Equal(t, []string{"name"}, fieldNames(t, err))
}

func TestTeamUpdate(t *testing.T) {
	svc := service.NewTeamService(staticProvider{store: newFileStore(t)})
	created, err := svc.Create(context.Background(), &domain.Team{Name: "Outreach"})
	require.NoError(t, err)

	members := domain.Members{"Ann", "  "}
	updated, err := svc.Update(context.Background(), created.ID, domain.TeamPatch{Members: &members})
	require.NoError(t, err)
	assert.Equal(t, "Outreach", updated.Name)
	assert.Equal(t, domain.Members{"Ann"}, updated.Members)

	_, err = svc.Update(context.Background(), created.ID, domain.TeamPatch{Name: ptr("")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Update(context.Background(), "missing", domain.TeamPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrTeamNotFound)
}

func TestTeamDelete_UnassignsSponsors(t *testing.T) {
	store := newFileStore(t)
	teams := service.NewTeamService(staticProvider{store: store})
	sponsors := service.NewSponsorService(staticProvider{store: store}, discardLogger())

	team, err := teams.Create(context.Background(), &domain.Team{Name: "Outreach"})
	require.NoError(t, err)

	in := validSponsor("acme")
	in.AssignedTeam = domain.NewTeamRef(team.ID)
	sponsor, err := sponsors.Create(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, team.ID, sponsor.TeamID())

	require.NoError(t, teams.Delete(context.Background(), team.ID))

	page, err := sponsors.List(context.Background(), domain.SponsorQuery{Team: domain.TeamUnassigned})
	require.NoError(t, err)
	require.Len(t, page.Sponsors, 1)
	assert.Nil(t, page.Sponsors[0].AssignedTeam)

	assert.ErrorIs(t, teams.Delete(context.Background(), team.ID), domain.ErrTeamNotFound)
}
