package mqtt

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/GeekMada/hydropi/internal/logic"
)

func TestFormatPayload(t *testing.T) {
	temp := 26.4
	event := logic.Event{
		Timestamp: time.Date(2026, 4, 12, 14, 3, 7, 0, time.UTC),
		Type:      logic.EventFanOn,
		Phase:     logic.PhaseGrowth,
		Day:       true,
		TempC:     temp,
		TempOK:    true,
		Commands:  logic.Commands{Fan: true, Heater: false, Light: true},
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Enclosure.Timestamp != "2026-04-12T14:03:07Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Enclosure.Timestamp)
	}
	if parsed.Enclosure.Event != "FAN_ON" {
		t.Errorf("unexpected event: %s", parsed.Enclosure.Event)
	}
	if parsed.Enclosure.Stage != "Croissance" {
		t.Errorf("unexpected stage: %s", parsed.Enclosure.Stage)
	}
	if !parsed.Enclosure.Day {
		t.Error("expected day true")
	}
	if parsed.Enclosure.Temperature == nil || *parsed.Enclosure.Temperature != temp {
		t.Errorf("unexpected temperature: %v", parsed.Enclosure.Temperature)
	}
	if parsed.Enclosure.Actuators.Fan != "ON" {
		t.Errorf("unexpected fan state: %s", parsed.Enclosure.Actuators.Fan)
	}
	if parsed.Enclosure.Actuators.Heater != "OFF" {
		t.Errorf("unexpected heater state: %s", parsed.Enclosure.Actuators.Heater)
	}
	if parsed.Enclosure.Actuators.Light != "ON" {
		t.Errorf("unexpected light state: %s", parsed.Enclosure.Actuators.Light)
	}
}

func TestFormatPayloadStageLabels(t *testing.T) {
	tests := []struct {
		phase logic.Phase
		want  string
	}{
		{logic.PhaseGermination, "Germination"},
		{logic.PhaseGrowth, "Croissance"},
		{logic.PhaseFlowering, "Floraison et fructification"},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			event := logic.Event{
				Timestamp: time.Now(),
				Type:      logic.EventPhaseChange,
				Phase:     tt.phase,
				TempOK:    true,
			}

			payload, err := FormatPayload(event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed Payload
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}

			if parsed.Enclosure.Stage != tt.want {
				t.Errorf("stage: got %s, want %s", parsed.Enclosure.Stage, tt.want)
			}
		})
	}
}

func TestFormatPayloadAllEventTypes(t *testing.T) {
	types := []logic.EventType{
		logic.EventFanOn,
		logic.EventFanOff,
		logic.EventHeaterOn,
		logic.EventHeaterOff,
		logic.EventLightOn,
		logic.EventLightOff,
		logic.EventPhaseChange,
	}

	for _, typ := range types {
		t.Run(string(typ), func(t *testing.T) {
			event := logic.Event{
				Timestamp: time.Now(),
				Type:      typ,
				Phase:     logic.PhaseGermination,
				TempC:     21,
				TempOK:    true,
			}

			payload, err := FormatPayload(event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed Payload
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}

			if parsed.Enclosure.Event != string(typ) {
				t.Errorf("event: got %s, want %s", parsed.Enclosure.Event, typ)
			}
		})
	}
}

func TestFormatPayloadNoReadingIsNull(t *testing.T) {
	event := logic.Event{
		Timestamp: time.Date(2026, 4, 12, 14, 3, 7, 0, time.UTC),
		Type:      logic.EventLightOn,
		Phase:     logic.PhaseGermination,
		Day:       true,
		TempOK:    false,
		Commands:  logic.Commands{Light: true},
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(string(payload), `"temperature":null`) {
		t.Errorf("expected null temperature, got %s", string(payload))
	}
}

func TestFormatPayloadExactJSON(t *testing.T) {
	event := logic.Event{
		Timestamp: time.Date(2026, 4, 12, 14, 3, 7, 0, time.UTC),
		Type:      logic.EventHeaterOn,
		Phase:     logic.PhaseFlowering,
		Day:       false,
		TempC:     14.5,
		TempOK:    true,
		Commands:  logic.Commands{Fan: false, Heater: true, Light: false},
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"enclosure":{"timestamp":"2026-04-12T14:03:07Z","event":"HEATER_ON",` +
		`"stage":"Floraison et fructification","day":false,"temperature":14.5,` +
		`"actuators":{"fan":"OFF","heater":"ON","light":"OFF"}}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatPayloadTimezoneConversion(t *testing.T) {
	paris := time.FixedZone("CEST", 2*60*60)
	event := logic.Event{
		Timestamp: time.Date(2026, 6, 1, 14, 0, 0, 0, paris),
		Type:      logic.EventFanOn,
		Phase:     logic.PhaseGrowth,
		TempC:     25,
		TempOK:    true,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	// Timestamps are normalized to UTC on the wire.
	if parsed.Enclosure.Timestamp != "2026-06-01T12:00:00Z" {
		t.Errorf("expected UTC timestamp, got %s", parsed.Enclosure.Timestamp)
	}
}

func TestTopic(t *testing.T) {
	expected := "hydro/enclosure/events"
	if Topic != expected {
		t.Errorf("unexpected topic: got %s, want %s", Topic, expected)
	}
}

func TestTopicSystem(t *testing.T) {
	expected := "hydro/enclosure/system"
	if TopicSystem != expected {
		t.Errorf("unexpected system topic: got %s, want %s", TopicSystem, expected)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 4, 13, 10, 30, 45, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed SystemPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.System.Timestamp != "2026-04-13T10:30:45Z" {
		t.Errorf("unexpected timestamp: %s", parsed.System.Timestamp)
	}
	if parsed.System.Event != "SHUTDOWN" {
		t.Errorf("unexpected event: %s", parsed.System.Event)
	}
	if parsed.System.Reason != "SIGTERM" {
		t.Errorf("unexpected reason: %s", parsed.System.Reason)
	}
}

func TestFormatSystemPayloadExactJSON(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 4, 13, 10, 30, 45, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-04-13T10:30:45Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadAllSignals(t *testing.T) {
	for _, reason := range []string{"SIGTERM", "SIGINT", "UNKNOWN"} {
		t.Run(reason, func(t *testing.T) {
			event := SystemEvent{
				Timestamp: time.Now(),
				Event:     "SHUTDOWN",
				Reason:    reason,
			}

			payload, err := FormatSystemPayload(event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed SystemPayload
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}

			if parsed.System.Reason != reason {
				t.Errorf("reason: got %s, want %s", parsed.System.Reason, reason)
			}
		})
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 4, 13, 10, 30, 45, 0, time.UTC),
		Event:     "HEARTBEAT",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(string(payload), "reason") {
		t.Errorf("expected reason to be omitted, got %s", string(payload))
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"system":{"event":"STARTUP","custom":true}}`)
	event := SystemEvent{
		Timestamp:  time.Now(),
		Event:      "STARTUP",
		RawPayload: raw,
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(payload) != string(raw) {
		t.Errorf("expected raw payload passthrough, got %s", string(payload))
	}
}

func TestWillPayloadFormat(t *testing.T) {
	payload := WillPayload()

	var parsed SystemPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.System.Event != "OFFLINE" {
		t.Errorf("unexpected will event: %s", parsed.System.Event)
	}

	// The will is registered at connect time, so it cannot carry a
	// meaningful timestamp.
	if strings.Contains(string(payload), "timestamp") {
		t.Errorf("will payload should not carry a timestamp, got %s", string(payload))
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	event := logic.Event{
		Timestamp: time.Now(),
		Type:      logic.EventFanOn,
		Phase:     logic.PhaseGermination,
		TempC:     26,
		TempOK:    true,
		Commands:  logic.Commands{Fan: true},
	}

	err := f.Publish(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.Events))
	}
	if f.Events[0].Type != logic.EventFanOn {
		t.Errorf("unexpected event type: %s", f.Events[0].Type)
	}
	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("simulated error")

	err := f.Publish(logic.Event{Timestamp: time.Now(), Type: logic.EventFanOn})
	if err == nil {
		t.Error("expected error")
	}

	if len(f.Events) != 0 {
		t.Errorf("expected no events recorded on error, got %d", len(f.Events))
	}
}

func TestFakePublisherPublishSystem(t *testing.T) {
	f := NewFakePublisher()

	event := SystemEvent{
		Timestamp: time.Now(),
		Event:     "STARTUP",
		Retained:  true,
	}

	if err := f.PublishSystem(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(f.SystemEvents))
	}
	if f.SystemEvents[0].Event != "STARTUP" {
		t.Errorf("unexpected event: %s", f.SystemEvents[0].Event)
	}
	if !f.SystemEvents[0].Retained {
		t.Error("expected retained flag to be recorded")
	}
}

func TestFakePublisherPublishSystemError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishSystemError = errors.New("simulated error")

	err := f.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "HEARTBEAT"})
	if err == nil {
		t.Error("expected error")
	}
	if len(f.SystemEvents) != 0 {
		t.Errorf("expected no system events recorded on error, got %d", len(f.SystemEvents))
	}
}

func TestFakePublisherPreservesEventOrder(t *testing.T) {
	f := NewFakePublisher()

	sequence := []logic.EventType{
		logic.EventLightOn,
		logic.EventFanOn,
		logic.EventFanOff,
		logic.EventHeaterOn,
	}
	for _, typ := range sequence {
		f.Publish(logic.Event{Timestamp: time.Now(), Type: typ})
	}

	got := f.EventTypes()
	if len(got) != len(sequence) {
		t.Fatalf("expected %d events, got %d", len(sequence), len(got))
	}
	for i := range sequence {
		if got[i] != sequence[i] {
			t.Errorf("event %d: expected %s, got %s", i, sequence[i], got[i])
		}
	}
}

func TestFakePublisherLastEvent(t *testing.T) {
	f := NewFakePublisher()

	if f.LastEvent() != nil {
		t.Error("expected nil before any publish")
	}

	f.Publish(logic.Event{Timestamp: time.Now(), Type: logic.EventLightOn})
	f.Publish(logic.Event{Timestamp: time.Now(), Type: logic.EventHeaterOn})

	last := f.LastEvent()
	if last == nil || last.Type != logic.EventHeaterOn {
		t.Errorf("unexpected last event: %v", last)
	}
}

func TestFakePublisherClose(t *testing.T) {
	f := NewFakePublisher()

	if f.Closed {
		t.Error("should not be closed initially")
	}

	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()

	f.Publish(logic.Event{Timestamp: time.Now(), Type: logic.EventFanOn})
	f.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "STARTUP"})
	f.Close()
	f.PublishError = errors.New("error")
	f.Connected = true

	f.Reset()

	if len(f.Events) != 0 || len(f.Payloads) != 0 {
		t.Error("events and payloads should be cleared")
	}
	if len(f.SystemEvents) != 0 || len(f.SystemPayloads) != 0 {
		t.Error("system events and payloads should be cleared")
	}
	if f.Closed {
		t.Error("closed should be reset")
	}
	if f.PublishError != nil {
		t.Error("error should be cleared")
	}
	if f.Connected {
		t.Error("connected should be reset")
	}
}
