package mongodb

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/aidar/sponsortrack/internal/domain"
)

// sponsorSort от новых к старым; ObjectID монотонен во времени и разрешает равенство createdAt
var sponsorSort = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// sponsorFilter строит фильтр Mongo по нормализованному запросу.
// ok=false означает, что фильтру заведомо ничего не соответствует.
func sponsorFilter(q domain.SponsorQuery) (filter bson.M, ok bool) {
	filter = bson.M{}

	if q.Search != "" {
		re := bson.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"companyName": re},
			bson.M{"contactPerson": re},
		}
	}

	if q.Status != "" {
		filter["status"] = q.Status
	}

	switch q.Team {
	case "":
	case domain.TeamUnassigned:
		// null совпадает и с отсутствующим полем
		filter["assignedTeam"] = nil
	default:
		oid, err := bson.ObjectIDFromHex(q.Team)
		if err != nil {
			return nil, false
		}
		filter["assignedTeam"] = oid
	}

	return filter, true
}

// sponsorUpdate строит $set только из переданных полей патча
func sponsorUpdate(patch domain.SponsorPatch, now time.Time) (bson.M, error) {
	set := bson.M{"updatedAt": now}

	fields := map[string]*string{
		"companyName":   patch.CompanyName,
		"sector":        patch.Sector,
		"companyEmail":  patch.CompanyEmail,
		"contactPerson": patch.ContactPerson,
		"phoneNumber":   patch.PhoneNumber,
		"location":      patch.Location,
		"notes":         patch.Notes,
	}
	for key, value := range fields {
		if value != nil {
			set[key] = *value
		}
	}

	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}

	if patch.AssignedTeam.Set {
		team, err := parseTeamRef(patch.AssignedTeam.TeamID)
		if err != nil {
			return nil, err
		}
		if team == nil {
			set["assignedTeam"] = nil
		} else {
			set["assignedTeam"] = *team
		}
	}

	return bson.M{"$set": set}, nil
}
