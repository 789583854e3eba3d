package domain

import (
	"context"
)

// EventSource defines the contract consumed from the external ledger client:
// a one-shot historical load followed by live push delivery. Per-stream
// ordering only; no ordering holds across distinct streams.
type EventSource interface {
	LoadHistory(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Close()
}

// Journal defines how processed events are archived for diagnostics.
type Journal interface {
	Append(stream string, eventID uint64, payload any) error
}
