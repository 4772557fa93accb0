package services

import (
	"encoding/json"
	"strings"
	"time"
)

// Service is an offering listed on the services page.
type Service struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Pricing      string    `json:"pricing"`
	Features     []string  `json:"features"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Input is the editable part of a Service.
type Input struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Pricing     string   `json:"pricing"`
	Features    Features `json:"features"`
}

// Features decodes from either a JSON array or a newline-separated string,
// the shape the admin form submits. Blank lines are dropped.
type Features []string

// UnmarshalJSON implements json.Unmarshaler.
func (f *Features) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*f = ParseFeatures(text)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*f = compact(list)
	return nil
}

// ParseFeatures splits newline-separated feature text.
func ParseFeatures(text string) []string {
	return compact(strings.Split(text, "\n"))
}

func compact(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if s := strings.TrimSpace(l); s != "" {
			out = append(out, s)
		}
	}
	return out
}
