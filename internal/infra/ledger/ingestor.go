package ledger

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"dexfeed/internal/domain"
	"dexfeed/internal/event"
	"dexfeed/internal/infra"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

const (
	maxRetries = 10
	baseDelay  = 1 * time.Second
	maxDelay   = 60 * time.Second
)

// Ingestor streams contract events into the engine inbox: one bulk
// historical load, then a resubscribing live follower. It never interprets
// the events; normalization happens in DecodeLog and everything after the
// inbox belongs to the sequencer.
type Ingestor struct {
	client *Client
	inbox  chan<- event.Event

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ domain.EventSource = (*Ingestor)(nil)

// NewIngestor creates an ingestor pushing into inbox.
func NewIngestor(client *Client, inbox chan<- event.Event) *Ingestor {
	return &Ingestor{
		client: client,
		inbox:  inbox,
	}
}

// forward pushes a decoded log into the inbox, dropping malformed events
// with a diagnostic instead of stalling the stream.
func (in *Ingestor) forward(ctx context.Context, lg ethtypes.Log) {
	ev, err := in.client.DecodeLog(lg)
	if err != nil {
		infra.GlobalMetrics.RecordMalformed()
		slog.Warn("dropping malformed event",
			slog.String("tx", lg.TxHash.Hex()),
			slog.Uint64("block", lg.BlockNumber),
			slog.Any("error", err))
		return
	}

	select {
	case in.inbox <- ev:
	case <-ctx.Done():
	}
}

// LoadHistory fetches every contract event from genesis to the current
// head and forwards the decoded records, followed by a HistoryLoaded
// marker. Single outstanding request per session; callers must wait for it
// before relying on derived views. It either completes or fails; no
// cancellation beyond ctx, no engine-imposed timeout.
func (in *Ingestor) LoadHistory(ctx context.Context) error {
	query := ethereum.FilterQuery{
		FromBlock: nil, // genesis
		ToBlock:   nil, // latest
		Addresses: []common.Address{in.client.exchange},
	}

	logs, err := in.client.rpc.FilterLogs(ctx, query)
	if err != nil {
		return domain.NewNetworkError("filter_logs", err)
	}

	for _, lg := range logs {
		in.forward(ctx, lg)
	}

	select {
	case in.inbox <- &event.HistoryLoaded{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	slog.Info("historical event load complete", slog.Int("logs", len(logs)))
	return nil
}

// Subscribe starts the live follower in its own goroutine. Delivery is
// push-based with per-stream ordering only; dropped connections are
// re-established with exponential backoff.
func (in *Ingestor) Subscribe(ctx context.Context) error {
	ctx, in.cancel = context.WithCancel(ctx)
	in.wg.Add(1)
	go in.subscriptionLoop(ctx)
	return nil
}

func (in *Ingestor) subscriptionLoop(ctx context.Context) {
	defer in.wg.Done()
	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := in.follow(ctx)
		if err == nil || errors.Is(err, context.Canceled) {
			return
		}

		infra.GlobalMetrics.SetIngestorConnected(false)
		retryCount++
		if retryCount > maxRetries {
			slog.Error("giving up on event subscription", slog.Any("error", err))
			return
		}

		delay := baseDelay << (retryCount - 1)
		if delay > maxDelay {
			delay = maxDelay
		}
		slog.Warn("event subscription lost, reconnecting",
			slog.Int("attempt", retryCount),
			slog.Duration("delay", delay),
			slog.Any("error", err))

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// follow holds one live subscription until it errors or ctx ends.
func (in *Ingestor) follow(ctx context.Context) error {
	query := ethereum.FilterQuery{
		Addresses: []common.Address{in.client.exchange},
	}
	logs := make(chan ethtypes.Log, 256)

	sub, err := in.client.ws.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return domain.NewNetworkError("subscribe", err)
	}
	defer sub.Unsubscribe()

	infra.GlobalMetrics.SetIngestorConnected(true)
	slog.Info("live event subscription established",
		slog.String("exchange", in.client.exchange.Hex()))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return domain.NewNetworkError("subscription", err)
		case lg := <-logs:
			in.forward(ctx, lg)
		}
	}
}

// Close stops the live follower and waits for it to finish.
func (in *Ingestor) Close() {
	if in.cancel != nil {
		in.cancel()
	}
	in.wg.Wait()
}
