package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Team представляет группу организаторов, работающих со спонсорами
type Team struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Members   Members   `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
}

// TeamPatch содержит поля для частичного обновления команды
type TeamPatch struct {
	Name    *string  `json:"name"`
	Members *Members `json:"members"`
}

// Apply переносит переданные поля патча в команду
func (p *TeamPatch) Apply(t *Team) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Members != nil {
		t.Members = *p.Members
	}
}

// Members упорядоченный список участников команды.
// В JSON принимается как массив строк, так и строка через запятую.
type Members []string

// MarshalJSON всегда отдает массив, даже пустой
func (m Members) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(m))
}

// UnmarshalJSON реализует json.Unmarshaler
func (m *Members) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Members{}
		return nil
	}

	var raw []string
	if len(data) > 0 && data[0] == '"' {
		var joined string
		if err := json.Unmarshal(data, &joined); err != nil {
			return err
		}
		raw = strings.Split(joined, ",")
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = ParseMembers(raw)
	return nil
}

// ParseMembers обрезает пробелы и отбрасывает пустые имена
func ParseMembers(names []string) Members {
	members := make(Members, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			members = append(members, name)
		}
	}
	return members
}
