// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"bytes"
	"encoding/json"
	"time"
)

// errBadTimestamp is returned for a publication_date that cannot be read.
var errBadTimestamp = invalid("publication_date must be an ISO-8601 timestamp.")

// naiveLayouts are ISO-8601 date-times without a UTC offset, as sent by an
// HTML datetime-local input. They are read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
}

// Timestamp is a publication date as accepted from clients: RFC 3339, an
// ISO-8601 date-time without offset (UTC), or Unix seconds.
type Timestamp struct {
	time.Time
}

// At returns a Timestamp holding t.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp reads s as RFC 3339 or as a naive ISO-8601 date-time.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errBadTimestamp
}

// UnmarshalJSON accepts a string or a number. Anything unreadable is a
// ValidationError rather than a JSON syntax error.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errBadTimestamp
		}
		t, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		ts.Time = t
		return nil
	}

	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return errBadTimestamp
	}
	whole := int64(secs)
	ts.Time = time.Unix(whole, int64((secs-float64(whole))*1e9)).UTC()
	return nil
}
