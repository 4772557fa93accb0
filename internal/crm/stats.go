package crm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

var valueCleaner = strings.NewReplacer("£", "", ",", "")

// ParseValue reads the leading number of a display value such as "£1,250".
// Anything unparsable counts as zero.
func ParseValue(s string) float64 {
	s = strings.TrimSpace(valueCleaner.Replace(s))

	end := 0
	seenDigit, seenDot := false, false
	for i, r := range s {
		if r >= '0' && r <= '9' {
			seenDigit = true
		} else if r == '.' && !seenDot {
			seenDot = true
		} else if (r != '-' && r != '+') || i != 0 {
			break
		}
		end = i + 1
	}
	if !seenDigit {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// Stats computes the dashboard figures: open deals, the summed value of
// open deals, and contacts that are not archived.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT value, status FROM crm_deals`)
	if err != nil {
		return Stats{}, fmt.Errorf("reading deals: %w", err)
	}
	var st Stats
	for rows.Next() {
		var value, status string
		if err := rows.Scan(&value, &status); err != nil {
			rows.Close()
			return Stats{}, fmt.Errorf("scanning deal: %w", err)
		}
		if DealStatus(status).Open() {
			st.OpenDeals++
			st.PipelineValue += ParseValue(value)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return Stats{}, err
	}
	rows.Close()

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM crm_contacts WHERE status != ?`, string(ContactArchived),
	).Scan(&st.ActiveContacts)
	if err != nil {
		return Stats{}, fmt.Errorf("counting contacts: %w", err)
	}
	return st, nil
}
