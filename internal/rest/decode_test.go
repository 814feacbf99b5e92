package rest

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestTime_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "legacy offset",
			input: `"2017-03-13T16:11:13.000+0000"`,
			want:  time.Date(2017, 3, 13, 16, 11, 13, 0, time.UTC),
		},
		{
			name:  "current offset",
			input: `"2018-10-09T13:47:02.000+0000"`,
			want:  time.Date(2018, 10, 9, 13, 47, 2, 0, time.UTC),
		},
		{
			name:  "rfc3339",
			input: `"2018-10-09T13:47:02Z"`,
			want:  time.Date(2018, 10, 9, 13, 47, 2, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got Time
			if err := json.Unmarshal([]byte(tc.input), &got); err != nil {
				t.Fatalf("Failed to unmarshal %s: %v", tc.input, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, got.Time)
			}
		})
	}
}

func TestTime_UnmarshalEmpty(t *testing.T) {
	var got Time
	if err := json.Unmarshal([]byte(`""`), &got); err != nil {
		t.Fatalf("Failed to unmarshal empty string: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("Expected zero time, got %v", got.Time)
	}
}

func TestTime_UnmarshalInvalid(t *testing.T) {
	var got Time
	if err := json.Unmarshal([]byte(`"13/03/2017"`), &got); err == nil {
		t.Error("Expected error for unrecognized date-time")
	}
	if err := json.Unmarshal([]byte(`42`), &got); err == nil {
		t.Error("Expected error for non-string date-time")
	}
}

func TestTime_MarshalRoundTrip(t *testing.T) {
	orig := Time{Time: time.Date(2018, 10, 9, 13, 47, 2, 0, time.UTC)}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var got Time
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Failed to unmarshal %s: %v", data, err)
	}
	if !got.Equal(orig.Time) {
		t.Errorf("Expected %v after round trip, got %v", orig.Time, got.Time)
	}
}

func TestDecode_WrapsFailures(t *testing.T) {
	var target struct {
		Name string `json:"name"`
	}

	if err := decode([]byte(`{"name":"Acme"}`), &target); err != nil {
		t.Fatalf("Failed to decode valid body: %v", err)
	}
	if target.Name != "Acme" {
		t.Errorf("Expected decoded name, got %q", target.Name)
	}

	err := decode([]byte(`not json`), &target)
	if err == nil {
		t.Fatal("Expected error for invalid body")
	}
	var decErr *DecodingError
	if !errors.As(err, &decErr) {
		t.Errorf("Expected *DecodingError, got %T", err)
	}
}
