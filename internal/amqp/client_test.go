package amqp

import (
	"testing"
	"time"
)

func TestTransactionSyncMessageRoundTrip(t *testing.T) {
	msg := NewTransactionSyncMessage(42)
	if msg.MessageID == "" {
		t.Fatal("message id should be assigned")
	}
	if msg.Timestamp.IsZero() {
		t.Fatal("timestamp should be assigned")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	back, err := TransactionSyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if back.TransactionID != 42 || back.MessageID != msg.MessageID {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestTransactionSyncMessageFromBadJSON(t *testing.T) {
	if _, err := TransactionSyncMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestMessageIDsAreUnique(t *testing.T) {
	a := NewTransactionSyncMessage(1)
	time.Sleep(time.Millisecond)
	b := NewTransactionSyncMessage(1)
	if a.MessageID == b.MessageID {
		t.Fatal("message ids must differ")
	}
}
