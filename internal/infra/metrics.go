package infra

import (
	"sync/atomic"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	eventsProcessed   atomic.Uint64
	duplicatesDropped atomic.Uint64
	malformedDropped  atomic.Uint64
	anomalies         atomic.Uint64
	notificationsSent atomic.Uint64

	// Gauges
	activeSubscribers atomic.Int32
	ingestorConnected atomic.Int32 // 1 = live subscription up, 0 = down
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordEvent records a processed (merged) event.
func (m *Metrics) RecordEvent() {
	m.eventsProcessed.Add(1)
}

// RecordDuplicate records an event discarded by idempotent merge.
func (m *Metrics) RecordDuplicate() {
	m.duplicatesDropped.Add(1)
}

// RecordMalformed records a raw event dropped for missing fields.
func (m *Metrics) RecordMalformed() {
	m.malformedDropped.Add(1)
}

// RecordAnomaly records an order id observed as both filled and cancelled.
func (m *Metrics) RecordAnomaly() {
	m.anomalies.Add(1)
}

// RecordNotification records one view update delivered to a subscriber.
func (m *Metrics) RecordNotification() {
	m.notificationsSent.Add(1)
}

// SetActiveSubscribers sets the current subscriber count.
func (m *Metrics) SetActiveSubscribers(count int32) {
	m.activeSubscribers.Store(count)
}

// SetIngestorConnected flags whether the live event subscription is up.
func (m *Metrics) SetIngestorConnected(connected bool) {
	if connected {
		m.ingestorConnected.Store(1)
	} else {
		m.ingestorConnected.Store(0)
	}
}

// MetricsSnapshot is a point-in-time copy for logging or status endpoints.
type MetricsSnapshot struct {
	EventsProcessed   uint64
	DuplicatesDropped uint64
	MalformedDropped  uint64
	Anomalies         uint64
	NotificationsSent uint64
	ActiveSubscribers int32
	IngestorConnected bool
}

// Snapshot returns a consistent-enough copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		EventsProcessed:   m.eventsProcessed.Load(),
		DuplicatesDropped: m.duplicatesDropped.Load(),
		MalformedDropped:  m.malformedDropped.Load(),
		Anomalies:         m.anomalies.Load(),
		NotificationsSent: m.notificationsSent.Load(),
		ActiveSubscribers: m.activeSubscribers.Load(),
		IngestorConnected: m.ingestorConnected.Load() == 1,
	}
}

// Reset zeroes all counters. Test helper.
func (m *Metrics) Reset() {
	m.eventsProcessed.Store(0)
	m.duplicatesDropped.Store(0)
	m.malformedDropped.Store(0)
	m.anomalies.Store(0)
	m.notificationsSent.Store(0)
	m.activeSubscribers.Store(0)
	m.ingestorConnected.Store(0)
}
