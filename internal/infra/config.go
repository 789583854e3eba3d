package infra

import (
	"errors"
	"os"

	"dexfeed/internal/domain"

	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting. LoadConfig reads the YAML file and
// then applies environment overrides for the endpoint secrets.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Node struct {
		// WSURL is used for the live subscription; RPCURL for the bulk
		// history fetch. Either may point at the same endpoint.
		RPCURL string `yaml:"rpc_url"`
		WSURL  string `yaml:"ws_url"`
	} `yaml:"node"`

	Contracts struct {
		Exchange  string `yaml:"exchange"`
		Token     string `yaml:"token"`
		BaseAsset string `yaml:"base_asset"` // marker address, zero address by default
	} `yaml:"contracts"`

	Journal struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"journal"`

	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`

	Icons struct {
		Enabled bool   `yaml:"enabled"`
		Dir     string `yaml:"dir"`
	} `yaml:"icons"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &domain.ConfigError{Field: path, Err: err}
	}

	// Environment overrides so endpoints never have to live in the file
	if v := os.Getenv("DEXFEED_RPC_URL"); v != "" {
		cfg.Node.RPCURL = v
	}
	if v := os.Getenv("DEXFEED_WS_URL"); v != "" {
		cfg.Node.WSURL = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Node.RPCURL == "" {
		return &domain.ConfigError{Field: "node.rpc_url", Err: errors.New("required")}
	}
	if c.Node.WSURL == "" {
		// history-only operation is still valid; live updates just stay off
		c.Node.WSURL = c.Node.RPCURL
	}
	if c.Contracts.Exchange == "" {
		return &domain.ConfigError{Field: "contracts.exchange", Err: errors.New("required")}
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		c.Journal.Path = "data/journal.db"
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = "localhost:8780"
	}
	if c.Icons.Enabled && c.Icons.Dir == "" {
		c.Icons.Dir = "assets/icons"
	}
	return nil
}
