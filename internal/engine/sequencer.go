// Package engine runs the single-threaded ingestion hotpath. Every state
// mutation funnels through one goroutine, which is what makes idempotent
// merges and the version counter safe without per-collection locking on the
// write side.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"dexfeed/internal/domain"
	"dexfeed/internal/event"
	"dexfeed/internal/infra"
	"dexfeed/internal/state"
)

// Sequencer is the core single-threaded event processor.
type Sequencer struct {
	inbox   chan event.Event
	store   *state.Store
	journal domain.Journal

	// Boundary callbacks, invoked after the merge completed.
	onVersionChange func()
	onBalance       func(domain.TokenBalance)
}

// NewSequencer creates a new sequencer instance. journal and either
// callback may be nil.
func NewSequencer(inboxSize int, store *state.Store, journal domain.Journal,
	onVersionChange func(), onBalance func(domain.TokenBalance)) *Sequencer {
	return &Sequencer{
		inbox:           make(chan event.Event, inboxSize),
		store:           store,
		journal:         journal,
		onVersionChange: onVersionChange,
		onBalance:       onBalance,
	}
}

// Inbox returns the event channel. The ingestor sends events here.
func (s *Sequencer) Inbox() chan<- event.Event {
	return s.inbox
}

// Run starts the main event loop. This MUST be run in a single goroutine.
func (s *Sequencer) Run(ctx context.Context) {
	slog.Info("Sequencer started (single-thread hotpath)")

	defer func() {
		if r := recover(); r != nil {
			slog.Error("CRITICAL_PANIC_DETECTED", slog.Any("panic", r))
			s.DumpState("panic_dump.json")
			panic(fmt.Sprintf("HALTED: %v", r))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Sequencer stopping...")
			return
		case ev := <-s.inbox:
			s.processEvent(ev)
		}
	}
}

func (s *Sequencer) processEvent(ev event.Event) {
	switch e := ev.(type) {
	case *event.OrderPlaced:
		s.journalEvent("Order", e.Order.ID, e.Order)
		s.mergeResult(s.store.MergeOrder(e.Order))
		event.ReleaseOrderPlaced(e)

	case *event.OrderCancelled:
		s.journalEvent("Cancel", e.Cancel.ID, e.Cancel)
		s.mergeResult(s.store.MergeCancel(e.Cancel))

	case *event.TradeExecuted:
		s.journalEvent("Trade", e.Trade.ID, e.Trade)
		s.mergeResult(s.store.MergeTrade(e.Trade))
		event.ReleaseTradeExecuted(e)

	case *event.BalanceChanged:
		// balance events bypass the store entirely
		if s.onBalance != nil {
			s.onBalance(e.Balance)
		}

	case *event.HistoryLoaded:
		s.store.SetReady(true)
		slog.Info("historical replay complete, views ready",
			slog.Uint64("version", s.store.Version()))
		if s.onVersionChange != nil {
			s.onVersionChange()
		}

	default:
		slog.Warn("Unknown event type", slog.Any("type", ev.EventType()))
	}
}

// mergeResult updates metrics and fires the change callback when the merge
// actually inserted something. Duplicates are silent no-ops.
func (s *Sequencer) mergeResult(inserted bool) {
	if !inserted {
		infra.GlobalMetrics.RecordDuplicate()
		return
	}
	infra.GlobalMetrics.RecordEvent()
	if s.onVersionChange != nil {
		s.onVersionChange()
	}
}

// journalEvent archives the event when a journal is configured. Journal
// failures are diagnostic-only and never stall ingestion.
func (s *Sequencer) journalEvent(stream string, id uint64, payload any) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Append(stream, id, payload); err != nil {
		slog.Warn("journal append failed",
			slog.String("stream", stream),
			slog.Uint64("event_id", id),
			slog.Any("error", err))
	}
}

// DumpState writes the entire internal state to a file (for post-mortem).
func (s *Sequencer) DumpState(filename string) {
	slog.Info("Dumping internal state...", slog.String("file", filename))

	snap := s.store.Snapshot()
	data := struct {
		Version uint64          `json:"version"`
		Ready   bool            `json:"ready"`
		Orders  []domain.Order  `json:"orders"`
		Cancels []domain.Cancel `json:"cancels"`
		Trades  []domain.Trade  `json:"trades"`
	}{
		Version: snap.Version,
		Ready:   snap.Ready,
		Orders:  snap.Orders,
		Cancels: snap.Cancels,
		Trades:  snap.Trades,
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal state", slog.Any("error", err))
		return
	}

	err = os.WriteFile(filename, b, 0644)
	if err != nil {
		slog.Error("Failed to write state dump", slog.Any("error", err))
	}
}
