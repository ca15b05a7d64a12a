package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/aidar/sponsortrack/internal/domain"
)

// sponsorDoc документ коллекции sponsors
type sponsorDoc struct {
	ID            bson.ObjectID  `bson:"_id"`
	CompanyName   string         `bson:"companyName"`
	Sector        string         `bson:"sector"`
	CompanyEmail  string         `bson:"companyEmail"`
	ContactPerson string         `bson:"contactPerson"`
	PhoneNumber   string         `bson:"phoneNumber"`
	Location      string         `bson:"location"`
	Notes         string         `bson:"notes"`
	Status        string         `bson:"status"`
	AssignedTeam  *bson.ObjectID `bson:"assignedTeam"`
	CreatedAt     time.Time      `bson:"createdAt"`
	UpdatedAt     time.Time      `bson:"updatedAt"`
}

// teamDoc документ коллекции teams
type teamDoc struct {
	ID        bson.ObjectID `bson:"_id"`
	Name      string        `bson:"name"`
	Members   []string      `bson:"members"`
	CreatedAt time.Time     `bson:"createdAt"`
}

func newSponsorDoc(s *domain.Sponsor, now time.Time) (sponsorDoc, error) {
	team, err := parseTeamRef(s.TeamID())
	if err != nil {
		return sponsorDoc{}, err
	}
	return sponsorDoc{
		ID:            bson.NewObjectID(),
		CompanyName:   s.CompanyName,
		Sector:        s.Sector,
		CompanyEmail:  s.CompanyEmail,
		ContactPerson: s.ContactPerson,
		PhoneNumber:   s.PhoneNumber,
		Location:      s.Location,
		Notes:         s.Notes,
		Status:        string(s.Status),
		AssignedTeam:  team,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (d *sponsorDoc) toDomain() domain.Sponsor {
	s := domain.Sponsor{
		ID:            d.ID.Hex(),
		CompanyName:   d.CompanyName,
		Sector:        d.Sector,
		CompanyEmail:  d.CompanyEmail,
		ContactPerson: d.ContactPerson,
		PhoneNumber:   d.PhoneNumber,
		Location:      d.Location,
		Notes:         d.Notes,
		Status:        domain.SponsorStatus(d.Status),
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
	if d.AssignedTeam != nil {
		s.AssignedTeam = domain.NewTeamRef(d.AssignedTeam.Hex())
	}
	return s
}

func (d *teamDoc) toDomain() domain.Team {
	members := domain.Members(d.Members)
	if members == nil {
		members = domain.Members{}
	}
	return domain.Team{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Members:   members,
		CreatedAt: d.CreatedAt.UTC(),
	}
}
