// Package timeutil fixes the timestamp formats the API emits: JSON bodies
// carry RFC 3339 UTC with millisecond precision, log entries use microsecond
// precision.
package timeutil

import "time"

const (
	// RFC3339Millis is the wire format for timestamps in response bodies.
	RFC3339Millis = "2006-01-02T15:04:05.000Z"
	// RFC3339Micros is the timestamp format for log entries.
	RFC3339Micros = "2006-01-02T15:04:05.000000Z"
)

// Time wraps time.Time so JSON marshaling always produces RFC3339Millis in
// UTC. Unmarshaling JSON null keeps the existing value, like time.Time does.
type Time struct {
	time.Time
}

// NewTime wraps a standard time.Time.
func NewTime(t time.Time) Time {
	return Time{Time: t}
}

// FromUnix converts Unix seconds, the Bot API's timestamp unit, to a Time.
func FromUnix(sec int64) Time {
	return Time{Time: time.Unix(sec, 0).UTC()}
}

func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(RFC3339Millis) + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	t.Time = parsed
	return nil
}
