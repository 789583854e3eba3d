package infra

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dexfeed/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: dexfeed
node:
  rpc_url: http://localhost:8545
contracts:
  exchange: "0x0000000000000000000000000000000000000e01"
journal:
  enabled: true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Node.WSURL != cfg.Node.RPCURL {
		t.Error("ws_url should fall back to rpc_url")
	}
	if cfg.Journal.Path == "" {
		t.Error("journal path should get a default when enabled")
	}
	if cfg.Server.ListenAddr == "" {
		t.Error("listen addr should get a default")
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	path := writeConfig(t, `
node:
  rpc_url: http://localhost:8545
`)

	_, err := LoadConfig(path)
	var ce *domain.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
	if ce.Field != "contracts.exchange" {
		t.Errorf("Expected contracts.exchange, got %s", ce.Field)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
node:
  rpc_url: http://localhost:8545
contracts:
  exchange: "0x0000000000000000000000000000000000000e01"
`)

	t.Setenv("DEXFEED_RPC_URL", "http://override:8545")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Node.RPCURL != "http://override:8545" {
		t.Errorf("env override not applied: %s", cfg.Node.RPCURL)
	}
}

func TestLoadConfig_NotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, domain.ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
}
