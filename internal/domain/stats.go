package domain

// UnassignedBucket ключ для спонсоров без команды в SponsorStats.ByTeam
const UnassignedBucket = "unassigned"

// SponsorStats сводка по спонсорам
type SponsorStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
	ByTeam   map[string]int `json:"byTeam"`
}

// NewSponsorStats создает пустую сводку со всеми статусами
func NewSponsorStats() *SponsorStats {
	stats := &SponsorStats{
		ByStatus: make(map[string]int, len(SponsorStatuses)),
		ByTeam:   make(map[string]int),
	}
	for _, status := range SponsorStatuses {
		stats.ByStatus[string(status)] = 0
	}
	return stats
}

// Add учитывает одного спонсора в сводке
func (s *SponsorStats) Add(sponsor *Sponsor) {
	s.AddCount(string(sponsor.Status), sponsor.TeamID(), 1)
}

// AddCount учитывает n спонсоров с данным статусом и командой
func (s *SponsorStats) AddCount(status, teamID string, n int) {
	if teamID == "" {
		teamID = UnassignedBucket
	}
	s.Total += n
	s.ByStatus[status] += n
	s.ByTeam[teamID] += n
}
