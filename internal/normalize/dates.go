package normalize

import "time"

const (
	layoutBR  = "02/01/2006"
	layoutISO = "2006-01-02"
)

// ParseDate parses a spreadsheet date cell: dd/MM/yyyy first, ISO
// yyyy-MM-dd as a fallback, nil when neither fits. Dirty cells are the
// norm, so an unparseable date is a default, not an error.
func ParseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(layoutBR, s); err == nil {
		return &t
	}
	if t, err := time.Parse(layoutISO, s); err == nil {
		return &t
	}
	return nil
}

// StartOfDay truncates a time to midnight UTC of its civil date.
// Parsed spreadsheet dates are UTC midnights, so every day-level
// comparison and map key must land in the same zone regardless of the
// host's local time.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
