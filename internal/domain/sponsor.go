package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// SponsorStatus представляет этап работы со спонсором
type SponsorStatus string

// Возможные статусы спонсора
const (
	StatusInProgress       SponsorStatus = "In Progress"
	StatusContacted        SponsorStatus = "Contacted"
	StatusCompleted        SponsorStatus = "Completed"
	StatusFollowUpRequired SponsorStatus = "Follow-up Required"
	StatusNotInterested    SponsorStatus = "Not Interested"
	StatusColdMail         SponsorStatus = "Cold Mail"
	StatusColdCall         SponsorStatus = "Cold Call"
)

// Значения по умолчанию для новых записей
const (
	DefaultSponsorStatus = StatusInProgress
	DefaultSector        = "Unknown"
)

// SponsorStatuses перечисляет все допустимые статусы в порядке отображения
var SponsorStatuses = []SponsorStatus{
	StatusInProgress,
	StatusContacted,
	StatusCompleted,
	StatusFollowUpRequired,
	StatusNotInterested,
	StatusColdMail,
	StatusColdCall,
}

// IsValid возвращает true если статус входит в перечисление
func (s SponsorStatus) IsValid() bool {
	for _, status := range SponsorStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Sponsor представляет компанию-спонсора
type Sponsor struct {
	ID            string        `json:"_id"`
	CompanyName   string        `json:"companyName"`
	Sector        string        `json:"sector"`
	CompanyEmail  string        `json:"companyEmail"`
	ContactPerson string        `json:"contactPerson"`
	PhoneNumber   string        `json:"phoneNumber"`
	Location      string        `json:"location"`
	Notes         string        `json:"notes"`
	Status        SponsorStatus `json:"status"`
	AssignedTeam  *TeamRef      `json:"assignedTeam"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// TeamID возвращает id назначенной команды или пустую строку
func (s *Sponsor) TeamID() string {
	if s.AssignedTeam == nil {
		return ""
	}
	return s.AssignedTeam.ID
}

// TeamRef ссылка на команду. Если команда найдена, Team содержит полную запись
// и сериализуется целиком, иначе в JSON попадает только id.
type TeamRef struct {
	ID   string
	Team *Team
}

// NewTeamRef создает ссылку на команду; пустой id означает отсутствие команды
func NewTeamRef(id string) *TeamRef {
	if id == "" {
		return nil
	}
	return &TeamRef{ID: id}
}

// MarshalJSON реализует json.Marshaler
func (r TeamRef) MarshalJSON() ([]byte, error) {
	if r.Team != nil {
		return json.Marshal(r.Team)
	}
	return json.Marshal(r.ID)
}

// UnmarshalJSON принимает id строкой либо объект команды с полем _id
func (r *TeamRef) UnmarshalJSON(data []byte) error {
	id, team, err := decodeTeamValue(data)
	if err != nil {
		return err
	}
	r.ID = id
	r.Team = team
	return nil
}

// ExpandTeams подставляет полные записи команд вместо id.
// Ссылки на отсутствующие команды остаются голыми id.
func ExpandTeams(sponsors []Sponsor, teams []Team) {
	byID := make(map[string]*Team, len(teams))
	for i := range teams {
		byID[teams[i].ID] = &teams[i]
	}
	for i := range sponsors {
		ref := sponsors[i].AssignedTeam
		if ref == nil {
			continue
		}
		if team, ok := byID[ref.ID]; ok {
			t := *team
			ref.Team = &t
		}
	}
}

// SponsorPatch содержит поля для частичного обновления спонсора.
// nil означает, что поле не передано.
type SponsorPatch struct {
	CompanyName   *string        `json:"companyName"`
	Sector        *string        `json:"sector"`
	CompanyEmail  *string        `json:"companyEmail"`
	ContactPerson *string        `json:"contactPerson"`
	PhoneNumber   *string        `json:"phoneNumber"`
	Location      *string        `json:"location"`
	Notes         *string        `json:"notes"`
	Status        *SponsorStatus `json:"status"`
	AssignedTeam  TeamAssignment `json:"assignedTeam"`
}

// Apply переносит переданные поля патча в запись спонсора
func (p *SponsorPatch) Apply(s *Sponsor) {
	if p.CompanyName != nil {
		s.CompanyName = *p.CompanyName
	}
	if p.Sector != nil {
		s.Sector = *p.Sector
	}
	if p.CompanyEmail != nil {
		s.CompanyEmail = *p.CompanyEmail
	}
	if p.ContactPerson != nil {
		s.ContactPerson = *p.ContactPerson
	}
	if p.PhoneNumber != nil {
		s.PhoneNumber = *p.PhoneNumber
	}
	if p.Location != nil {
		s.Location = *p.Location
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.AssignedTeam.Set {
		s.AssignedTeam = NewTeamRef(p.AssignedTeam.TeamID)
	}
}

// TeamAssignment значение assignedTeam из тела запроса на обновление.
// Set отличает явный null (снять команду) от отсутствующего поля.
type TeamAssignment struct {
	Set    bool
	TeamID string
}

// UnmarshalJSON вызывается только если поле присутствует в JSON
func (a *TeamAssignment) UnmarshalJSON(data []byte) error {
	id, _, err := decodeTeamValue(data)
	if err != nil {
		return err
	}
	a.Set = true
	a.TeamID = id
	return nil
}

func decodeTeamValue(data []byte) (string, *Team, error) {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		return "", nil, nil
	case len(data) > 0 && data[0] == '{':
		var team Team
		if err := json.Unmarshal(data, &team); err != nil {
			return "", nil, err
		}
		return team.ID, &team, nil
	default:
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return "", nil, err
		}
		return id, nil, nil
	}
}

// BulkResult итог массового импорта спонсоров
type BulkResult struct {
	Added       int       `json:"added"`
	Skipped     int       `json:"skipped"`
	Total       int       `json:"total"`
	NewSponsors []Sponsor `json:"newSponsors"`
}
