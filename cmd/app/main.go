package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dexfeed/internal/app"
	"dexfeed/internal/domain"
	"dexfeed/internal/engine"
	"dexfeed/internal/event"
	"dexfeed/internal/infra/ledger"
	"dexfeed/internal/server/ws"
	"dexfeed/internal/service"
	"dexfeed/internal/state"

	"github.com/ethereum/go-ethereum/common"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer bootstrap.Shutdown()
	cfg := bootstrap.Config

	if cfg.Contracts.BaseAsset != "" {
		domain.BaseAsset = common.HexToAddress(cfg.Contracts.BaseAsset)
	}

	if bootstrap.Downloader != nil && cfg.Contracts.Token != "" {
		go prefetchTokenIcon(bootstrap, cfg.Contracts.Token)
	}

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. State store, views and the sequencer (the hotpath loop)
	store := state.New()
	market := service.NewMarketService(store)

	var journal domain.Journal
	if bootstrap.Journal != nil {
		journal = bootstrap.Journal
	}
	seq := engine.NewSequencer(1024, store, journal,
		market.OnVersionChange, market.OnBalanceChange)

	event.Warmup()
	go seq.Run(ctx)
	slog.InfoContext(ctx, "sequencer (hotpath) started")

	// 5. Websocket hub for downstream consumers
	updates, unsubscribe := market.Subscribe(8)
	defer unsubscribe()
	hub := ws.NewHub(updates)
	go hub.Run(ctx)

	httpServer := &http.Server{Addr: cfg.Server.ListenAddr, Handler: hub}
	go func() {
		slog.Info("view hub listening", slog.String("addr", cfg.Server.ListenAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("view hub failed", slog.Any("error", err))
		}
	}()
	defer httpServer.Close()

	// 6. Ledger client: resolve contracts, replay history, follow live
	client, err := ledger.Dial(ctx, cfg.Node.RPCURL, cfg.Node.WSURL, cfg.Contracts.Exchange)
	if err != nil {
		if errors.Is(err, domain.ErrContractsUnavailable) {
			// Not a crash: stay up, views just stay not-ready.
			slog.Error("exchange contract not deployed on the active network; views stay not ready")
			<-ctx.Done()
			return
		}
		slog.Error("ledger client failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer client.Close()

	ingestor := ledger.NewIngestor(client, seq.Inbox())
	if err := ingestor.LoadHistory(ctx); err != nil {
		slog.Error("historical load failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := ingestor.Subscribe(ctx); err != nil {
		slog.Error("live subscription failed", slog.Any("error", err))
	}
	defer ingestor.Close()

	slog.InfoContext(ctx, "dexfeed operational, press Ctrl+C to exit",
		slog.String("exchange", client.Exchange().Hex()))

	// Wait for shutdown signal
	<-ctx.Done()

	slog.InfoContext(ctx, "shutting down gracefully...")
}

// prefetchTokenIcon warms the icon cache for the configured token and, when
// the journal is on, records the token metadata next to the event rows.
func prefetchTokenIcon(bootstrap *app.Bootstrap, tokenAddr string) {
	token := common.HexToAddress(tokenAddr)
	path, err := bootstrap.Downloader.DownloadIcon(token)
	if err != nil {
		slog.Warn("token icon prefetch failed",
			slog.String("token", token.Hex()), slog.Any("error", err))
		return
	}
	slog.Info("token icon cached", slog.String("path", path))

	if bootstrap.Journal != nil {
		err := bootstrap.Journal.UpsertToken(domain.TokenInfo{
			Address:      token.Hex(),
			IconPath:     path,
			LastSyncedAt: time.Now(),
		})
		if err != nil {
			slog.Warn("recording token metadata failed", slog.Any("error", err))
		}
	}
}
