package apiconnect

import (
	"strings"
	"testing"
	"time"

	"github.com/mmynk/splitledger/pkg/api"
)

func TestJSONCodec_Struct(t *testing.T) {
	codec := JSONCodec{}
	if codec.Name() != "json" {
		t.Fatalf("expected codec name json, got %q", codec.Name())
	}

	data, err := codec.Marshal(&api.SettleDebtRequest{ToUserID: "bob", Amount: 12.5})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"toUserId":"bob","amount":12.5}` {
		t.Errorf("unexpected encoding: %s", data)
	}

	var got api.SettleDebtRequest
	if err := codec.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.ToUserID != "bob" || got.Amount != 12.5 {
		t.Errorf("unexpected decode: %+v", got)
	}
}

func TestJSONCodec_EmptyBody(t *testing.T) {
	var got api.GetDashboardRequest
	if err := (JSONCodec{}).Unmarshal(nil, &got); err != nil {
		t.Fatalf("expected empty body to decode, got %v", err)
	}
}

func TestJSONCodec_Timestamp(t *testing.T) {
	codec := JSONCodec{}
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	data, err := codec.Marshal(&api.CreateTransactionRequest{Amount: 10, OccurredAt: api.NewTimestamp(at)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"occurredAt":"2026-03-01T09:00:00Z"`) {
		t.Errorf("unexpected encoding: %s", data)
	}

	var got api.CreateTransactionRequest
	if err := codec.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !got.OccurredAt.AsTime().Equal(at) {
		t.Errorf("expected %v, got %v", at, got.OccurredAt.AsTime())
	}
}

func TestJSONCodec_InvalidJSON(t *testing.T) {
	var got api.LoginRequest
	if err := (JSONCodec{}).Unmarshal([]byte("{"), &got); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}
