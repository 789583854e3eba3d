package app

import (
	"log/slog"

	"dexfeed/internal/infra"
	"dexfeed/internal/infra/storage"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config     *infra.Config
	Journal    *storage.Journal
	Downloader *infra.IconDownloader
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logging, journal)
func (b *Bootstrap) Initialize(configPath string) error {
	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Optional event journal
	if cfg.Journal.Enabled {
		journal, err := storage.NewJournal(cfg.Journal.Path)
		if err != nil {
			return err
		}
		b.Journal = journal
		slog.Info("event journal enabled", slog.String("path", cfg.Journal.Path))
	}

	// 4. Optional token icon cache
	if cfg.Icons.Enabled {
		downloader, err := infra.NewIconDownloader(cfg.Icons.Dir)
		if err != nil {
			return err
		}
		b.Downloader = downloader
		slog.Info("token icon cache ready", slog.String("dir", cfg.Icons.Dir))
	}

	return nil
}

// Shutdown releases resources acquired during Initialize.
func (b *Bootstrap) Shutdown() {
	if b.Journal != nil {
		if err := b.Journal.Close(); err != nil {
			slog.Warn("closing journal", slog.Any("error", err))
		}
	}
}
