package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// LogTime wraps time.Time with the timestamp formats climbing log exports
// actually use: RFC 3339, "2006-01-02 15:04:05 -0700", and bare dates.
type LogTime struct {
	time.Time
}

var logTimeFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseLogTime parses a timestamp in any supported export format.
func ParseLogTime(s string) (time.Time, error) {
	for _, layout := range logTimeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// UnmarshalJSON implements json.Unmarshaler for LogTime.
func (t *LogTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLogTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ExportAttempt is one attempt in a session export payload.
type ExportAttempt struct {
	Date    LogTime `json:"date"`
	Outcome string  `json:"outcome"`
}

// ExportRoute is one route/problem in a session export payload with its
// ordered attempt log.
type ExportRoute struct {
	Name       string          `json:"name"`
	Gym        string          `json:"gym"`
	Discipline string          `json:"discipline"`
	System     string          `json:"system"`
	CircuitID  string          `json:"circuit_id,omitempty"`
	Grade      string          `json:"grade"`
	SetAt      *LogTime        `json:"set_at,omitempty"`
	Attempts   []ExportAttempt `json:"attempts"`
}

// ExportPayload is the JSON body a logging app posts to the ingest
// endpoint: a batch of routes with their attempts.
type ExportPayload struct {
	Source     string        `json:"source"`
	ExportedAt LogTime       `json:"exported_at"`
	Routes     []ExportRoute `json:"routes"`
}
