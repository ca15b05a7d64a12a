package domain

import (
	"math"
	"strings"
)

// Значения фильтров, означающие отсутствие ограничения
const (
	FilterAll      = "All"
	TeamUnassigned = "Unassigned"

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage ограничивает номер страницы, чтобы смещение не переполняло int
	MaxPage = math.MaxInt/MaxLimit + 1
)

// SponsorQuery параметры выборки списка спонсоров.
// Одинаково интерпретируется всеми хранилищами.
type SponsorQuery struct {
	Page   int
	Limit  int
	Search string
	Status string
	Team   string
}

// Normalize подставляет значения по умолчанию и приводит фильтры к каноничному виду
func (q SponsorQuery) Normalize() SponsorQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	if q.Status == FilterAll {
		q.Status = ""
	}
	if q.Team == FilterAll {
		q.Team = ""
	}
	return q
}

// Offset количество записей, пропускаемых перед текущей страницей
func (q SponsorQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// SearchLower строка поиска в нижнем регистре
func (q SponsorQuery) SearchLower() string {
	return strings.ToLower(q.Search)
}

// Matches проверяет спонсора на соответствие всем фильтрам запроса.
// Ожидает нормализованный запрос.
func (q SponsorQuery) Matches(s *Sponsor) bool {
	if q.Search != "" {
		needle := q.SearchLower()
		if !strings.Contains(strings.ToLower(s.CompanyName), needle) &&
			!strings.Contains(strings.ToLower(s.ContactPerson), needle) {
			return false
		}
	}
	if q.Status != "" && string(s.Status) != q.Status {
		return false
	}
	switch q.Team {
	case "":
	case TeamUnassigned:
		if s.TeamID() != "" {
			return false
		}
	default:
		if s.TeamID() != q.Team {
			return false
		}
	}
	return true
}

// Pagination метаданные страницы
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

// NewPagination считает количество страниц для total записей
func NewPagination(total int, q SponsorQuery) Pagination {
	pages := 0
	if q.Limit > 0 {
		pages = (total + q.Limit - 1) / q.Limit
	}
	return Pagination{
		Total: total,
		Page:  q.Page,
		Pages: pages,
		Limit: q.Limit,
	}
}

// SponsorPage страница списка спонсоров
type SponsorPage struct {
	Sponsors   []Sponsor  `json:"sponsors"`
	Pagination Pagination `json:"pagination"`
}

// PageWindow возвращает срез sorted, попадающий в страницу запроса.
// sorted уже отфильтрован и упорядочен от новых к старым.
func PageWindow(sorted []Sponsor, q SponsorQuery) *SponsorPage {
	total := len(sorted)
	start := q.Offset()
	if start < 0 || start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}

	items := make([]Sponsor, end-start)
	copy(items, sorted[start:end])

	return &SponsorPage{
		Sponsors:   items,
		Pagination: NewPagination(total, q),
	}
}
