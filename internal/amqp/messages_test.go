package amqp

import (
	"testing"
	"time"
)

func TestImportCompletedMessageRoundTrip(t *testing.T) {
	msg := NewImportCompletedMessage(42, 120, 3)
	if msg.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	got, err := ImportCompletedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.ImportID != 42 || got.Rows != 120 || got.Skipped != 3 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Timestamp.Sub(msg.Timestamp) > time.Second {
		t.Errorf("timestamp drifted: %v vs %v", got.Timestamp, msg.Timestamp)
	}
}

func TestImportCompletedMessageFromJSONInvalid(t *testing.T) {
	if _, err := ImportCompletedMessageFromJSON([]byte(`{not json`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
