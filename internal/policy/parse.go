package policy

import (
	"strings"
	"time"
)

type RSVPStatus string

const (
	StatusGoing    RSVPStatus = "going"
	StatusMaybe    RSVPStatus = "maybe"
	StatusNotGoing RSVPStatus = "not_going"
)

var statusLabels = []struct {
	status RSVPStatus
	label  string
}{
	{StatusGoing, "Going"},
	{StatusMaybe, "Maybe"},
	{StatusNotGoing, "Not Going"},
}

func (s RSVPStatus) Label() string {
	for _, sl := range statusLabels {
		if sl.status == s {
			return sl.label
		}
	}
	return string(s)
}

// ParseStatus accepts either the stored value ("not_going") or the display
// label ("Not Going"), case-insensitively.
func ParseStatus(raw string) (RSVPStatus, error) {
	v := strings.TrimSpace(raw)
	for _, sl := range statusLabels {
		if v == string(sl.status) {
			return sl.status, nil
		}
	}
	lower := strings.ToLower(v)
	for _, sl := range statusLabels {
		if lower == string(sl.status) || lower == strings.ToLower(sl.label) {
			return sl.status, nil
		}
	}
	return "", Invalid("status", "Status must be one of: Going, Maybe, Not Going")
}

const (
	MinRating = 1
	MaxRating = 5
)

func ParseRating(n int) (int, error) {
	if n < MinRating || n > MaxRating {
		return 0, Invalid("rating", "Rating must be between 1 and 5.")
	}
	return n, nil
}

// ValidateTimeRange enforces end > start.
func ValidateTimeRange(start, end time.Time) error {
	if start.IsZero() {
		return Invalid("start_time", "This field is required.")
	}
	if end.IsZero() {
		return Invalid("end_time", "This field is required.")
	}
	if !end.After(start) {
		return Invalid("end_time", "End time must be after start time.")
	}
	return nil
}
