package infra

import (
	"testing"
)

func TestMetrics_Counters(t *testing.T) {
	m := &Metrics{}

	m.RecordEvent()
	m.RecordEvent()
	m.RecordDuplicate()
	m.RecordMalformed()
	m.RecordAnomaly()
	m.RecordNotification()

	snap := m.Snapshot()

	if snap.EventsProcessed != 2 {
		t.Errorf("Expected 2 events, got %d", snap.EventsProcessed)
	}
	if snap.DuplicatesDropped != 1 {
		t.Errorf("Expected 1 duplicate, got %d", snap.DuplicatesDropped)
	}
	if snap.MalformedDropped != 1 {
		t.Errorf("Expected 1 malformed, got %d", snap.MalformedDropped)
	}
	if snap.Anomalies != 1 {
		t.Errorf("Expected 1 anomaly, got %d", snap.Anomalies)
	}
	if snap.NotificationsSent != 1 {
		t.Errorf("Expected 1 notification, got %d", snap.NotificationsSent)
	}
}

func TestMetrics_Gauges(t *testing.T) {
	m := &Metrics{}

	m.SetActiveSubscribers(3)
	snap := m.Snapshot()
	if snap.ActiveSubscribers != 3 {
		t.Errorf("Expected 3 subscribers, got %d", snap.ActiveSubscribers)
	}

	if snap.IngestorConnected {
		t.Error("Expected ingestor disconnected initially")
	}
	m.SetIngestorConnected(true)
	if !m.Snapshot().IngestorConnected {
		t.Error("Expected ingestor connected")
	}
	m.SetIngestorConnected(false)
	if m.Snapshot().IngestorConnected {
		t.Error("Expected ingestor disconnected")
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := &Metrics{}
	m.RecordEvent()
	m.SetActiveSubscribers(2)

	m.Reset()
	snap := m.Snapshot()
	if snap.EventsProcessed != 0 || snap.ActiveSubscribers != 0 {
		t.Error("Reset should zero everything")
	}
}
