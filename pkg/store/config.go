package store

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Backend names accepted by the "backend" setting.
const (
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"
	BackendRemote = "remote"
	BackendMemory = "memory"
)

// Config is the resolved configuration shared by every command.
type Config struct {
	Path        string `json:"path"`
	Backend     string `json:"backend"`
	RemoteURL   string `json:"remoteURL,omitempty"`
	RemoteToken string `json:"-"`

	LogLevel   string `json:"logLevel"`
	LogFile    string `json:"logFile,omitempty"`
	LogJournal bool   `json:"logJournal"`

	ServeAddr  string `json:"serveAddr"`
	ServeToken string `json:"-"`
}

// BasePath is the storage location with a leading ~ expanded.
func (c *Config) BasePath() string {
	p, err := homedir.Expand(c.Path)
	if err != nil {
		return c.Path
	}
	return p
}

// LoadConfig reads .rowcount.yaml from $ROWCOUNT_CONFIG_PATH or the working
// directory. Every key can be overridden with a ROWCOUNT_ environment
// variable, dots replaced by underscores (ROWCOUNT_REMOTE_URL).
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetDefault("path", "~/.rowcount.db")
	v.SetDefault("backend", BackendDiskv)
	v.SetDefault("log.level", "warn")
	v.SetDefault("serve.addr", "127.0.0.1:8787")
	v.SetConfigName(".rowcount") // .yaml is implicit
	v.SetEnvPrefix("ROWCOUNT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("ROWCOUNT_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	return &Config{
		Path:        v.GetString("path"),
		Backend:     v.GetString("backend"),
		RemoteURL:   v.GetString("remote.url"),
		RemoteToken: v.GetString("remote.token"),
		LogLevel:    v.GetString("log.level"),
		LogFile:     v.GetString("log.file"),
		LogJournal:  v.GetBool("log.journal"),
		ServeAddr:   v.GetString("serve.addr"),
		ServeToken:  v.GetString("serve.token"),
	}, nil
}

// Load opens the backend named by cfg. A nil cfg is read with LoadConfig.
func Load(cfg *Config) (KV, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	switch cfg.Backend {
	case "", BackendDiskv:
		return OpenDiskv(cfg.BasePath())
	case BackendSQLite:
		return OpenSQLite(cfg.BasePath())
	case BackendRemote:
		if cfg.RemoteURL == "" {
			return nil, fmt.Errorf("store: backend %q needs remote.url", BackendRemote)
		}
		return NewRemote(cfg.RemoteURL, cfg.RemoteToken), nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend)
	}
}
