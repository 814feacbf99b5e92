package rest

import (
	"encoding/json"
	"fmt"
	"time"
)

// dateTimeLayout matches the platform's date-time encoding: fractional
// seconds and a numeric UTC offset, e.g. 2018-10-09T13:47:02.000+0000.
// Both the legacy and the current server variants use this shape.
const dateTimeLayout = "2006-01-02T15:04:05.000-0700"

// dateTimeLayouts are tried in order when decoding.
var dateTimeLayouts = []string{
	dateTimeLayout,
	time.RFC3339,
}

// Time decodes the platform's date-time encodings. Use it for model fields
// such as last_modified_date.
type Time struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range dateTimeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized date-time %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(dateTimeLayout))
}

// decode unmarshals a validated response body, wrapping failures in
// *DecodingError so callers can distinguish shape mismatches from transport
// and server errors.
func decode(data []byte, target interface{}) error {
	if err := json.Unmarshal(data, target); err != nil {
		return &DecodingError{Err: err}
	}
	return nil
}
