package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/JonMunkholm/BloodBank/internal/core"
)

func TestBuildMessage_InventoryRecorded(t *testing.T) {
	ts := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	rec := core.InventoryRecord{
		ID: "r1", InventoryType: core.DirectionOut, BloodGroup: core.GroupOPos, Quantity: 300,
		Email: "er@hospital.test", Organisation: "org-1", Hospital: "hosp-1", CreatedAt: ts,
	}

	msg, err := buildMessage(core.Event{
		Type: core.EventInventoryRecorded, Key: "org-1", Record: &rec, Source: "10.0.0.7", Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("buildMessage() error = %v", err)
	}

	if string(msg.Key) != "org-1" {
		t.Errorf("Key = %q, want org-1", msg.Key)
	}
	if !msg.Time.Equal(ts) {
		t.Errorf("Time = %v, want %v", msg.Time, ts)
	}
	if len(msg.Headers) != 1 || msg.Headers[0].Key != "event-type" || string(msg.Headers[0].Value) != core.EventInventoryRecorded {
		t.Errorf("Headers = %+v, want event-type header", msg.Headers)
	}

	var body map[string]any
	if err := json.Unmarshal(msg.Value, &body); err != nil {
		t.Fatalf("value is not JSON: %v", err)
	}
	if body["type"] != core.EventInventoryRecorded {
		t.Errorf("type = %v", body["type"])
	}
	record, ok := body["record"].(map[string]any)
	if !ok || record["hospital"] != "hosp-1" || record["bloodGroup"] != "O+" {
		t.Errorf("record = %v", body["record"])
	}
	if _, ok := body["stock"]; ok {
		t.Error("stock should be omitted for inventory.recorded")
	}
}

func TestBuildMessage_StockLow(t *testing.T) {
	stock := core.Availability{BloodGroup: core.GroupABNeg, TotalIn: 900, TotalOut: 500, Available: 400}

	msg, err := buildMessage(core.Event{
		Type: core.EventStockLow, Key: "AB-", Stock: &stock, Threshold: 1000, Timestamp: time.Now(),
	})
	if err != nil {
		t.Fatalf("buildMessage() error = %v", err)
	}

	var body struct {
		Stock     core.Availability `json:"stock"`
		Threshold int64             `json:"threshold"`
	}
	if err := json.Unmarshal(msg.Value, &body); err != nil {
		t.Fatalf("value is not JSON: %v", err)
	}
	if body.Stock.Available != 400 || body.Threshold != 1000 {
		t.Errorf("body = %+v", body)
	}
}

func TestNewKafkaPublisher_WritesAsync(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "bloodbank.ledger")
	defer p.Close()

	kp, ok := p.(*kafkaPublisher)
	if !ok {
		t.Fatalf("NewKafkaPublisher() = %T, want *kafkaPublisher", p)
	}
	if !kp.writer.Async || kp.writer.Completion == nil {
		t.Error("writer should be async with a completion callback")
	}
}

func TestLogDeliveryFailure(t *testing.T) {
	msg, err := buildMessage(core.Event{Type: core.EventStockLow, Key: "O-", Timestamp: time.Now()})
	if err != nil {
		t.Fatalf("buildMessage() error = %v", err)
	}
	if got := headerValue(msg, "event-type"); got != core.EventStockLow {
		t.Errorf("headerValue() = %q, want %q", got, core.EventStockLow)
	}
	if got := headerValue(msg, "missing"); got != "" {
		t.Errorf("headerValue(missing) = %q, want empty", got)
	}

	// Must not panic on success or failure.
	logDeliveryFailure([]kafka.Message{msg}, nil)
	logDeliveryFailure([]kafka.Message{msg}, errors.New("leader not available"))
}

func TestNoop(t *testing.T) {
	p := Noop()
	if err := p.Publish(context.Background(), core.Event{Type: core.EventStockLow}); err != nil {
		t.Errorf("Publish() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
