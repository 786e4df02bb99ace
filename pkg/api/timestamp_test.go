package api

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestamp_JSON(t *testing.T) {
	at := time.Date(2026, 3, 15, 12, 30, 0, 500_000_000, time.FixedZone("CET", 3600))

	data, err := json.Marshal(&Transaction{ID: "t1", OccurredAt: NewTimestamp(at)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if raw["occurredAt"] != "2026-03-15T11:30:00.500Z" {
		t.Errorf("occurredAt = %v, want UTC RFC 3339", raw["occurredAt"])
	}

	var got Transaction
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !got.OccurredAt.AsTime().Equal(at) {
		t.Errorf("round trip = %v, want %v", got.OccurredAt.AsTime(), at)
	}
}

func TestTimestamp_Optional(t *testing.T) {
	var req CreateTransactionRequest
	if err := json.Unmarshal([]byte(`{"amount":10}`), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if req.OccurredAt != nil || !req.OccurredAt.AsTime().IsZero() {
		t.Errorf("expected missing occurredAt to stay nil, got %v", req.OccurredAt)
	}

	data, err := json.Marshal(&CreateTransactionRequest{Amount: 10})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, ok := raw["occurredAt"]; ok {
		t.Errorf("expected occurredAt to be omitted, got %s", data)
	}
}

func TestTimestamp_Invalid(t *testing.T) {
	tests := []string{
		`{"occurredAt":"15/03/2026"}`,
		`{"occurredAt":1773576000}`,
		`{"occurredAt":"10000-01-01T00:00:00Z"}`,
	}
	for _, body := range tests {
		var req CreateTransactionRequest
		if err := json.Unmarshal([]byte(body), &req); err == nil {
			t.Errorf("%s: expected error, got %v", body, req.OccurredAt.AsTime())
		}
	}
}
