package api

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Timestamp is a point in time carried on the wire with the protobuf
// Timestamp JSON mapping: an RFC 3339 string in UTC with up to nine
// fractional digits.
type Timestamp struct {
	ts *timestamppb.Timestamp
}

// NewTimestamp returns t as a Timestamp.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{ts: timestamppb.New(t)}
}

// AsTime returns the timestamp as a UTC time. A nil Timestamp is the zero time.
func (t *Timestamp) AsTime() time.Time {
	if t == nil || t.ts == nil {
		return time.Time{}
	}
	return t.ts.AsTime()
}

func (t *Timestamp) MarshalJSON() ([]byte, error) {
	if t == nil || t.ts == nil {
		return []byte("null"), nil
	}
	return protojson.Marshal(t.ts)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.ts = nil
		return nil
	}
	ts := &timestamppb.Timestamp{}
	if err := protojson.Unmarshal(data, ts); err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	t.ts = ts
	return nil
}
