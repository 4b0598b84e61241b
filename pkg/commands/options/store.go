package options

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/rowcount/pkg/app"
	"tableflip.dev/rowcount/pkg/logging"
	"tableflip.dev/rowcount/pkg/store"
)

// StoreOptions override the configured store and logging.
type StoreOptions struct {
	Backend  string
	Path     string
	LogLevel string
}

func AddStoreArgs(cmd *cobra.Command, o *StoreOptions) {
	cmd.PersistentFlags().StringVar(&o.Backend, "backend", "",
		"Store backend: diskv, sqlite, remote or memory (default from config).")
	cmd.PersistentFlags().StringVar(&o.Path, "path", "",
		"Store location (default from config).")
	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "",
		"Log level: debug, info, warn or error (default from config).")
}

// Env is everything a command needs to reach the projects.
type Env struct {
	Config  *store.Config
	KV      store.KV
	Log     *slog.Logger
	Service *app.Service

	closeLog func() error
}

// Close releases the store and the log file.
func (e *Env) Close() error {
	var err error
	if e.KV != nil {
		err = e.KV.Close()
	}
	if e.closeLog != nil {
		if lerr := e.closeLog(); err == nil {
			err = lerr
		}
	}
	return err
}

// Open loads the configuration, applies the flag overrides and opens the
// store. stderr receives log output.
func (o *StoreOptions) Open(stderr io.Writer) (*Env, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	if o.Backend != "" {
		cfg.Backend = o.Backend
	}
	if o.Path != "" {
		cfg.Path = o.Path
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	log, closeLog, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Journal: cfg.LogJournal,
		Stderr:  stderr,
	})
	if err != nil {
		return nil, err
	}
	e := &Env{Config: cfg, Log: log, closeLog: closeLog}

	kv, err := store.Load(cfg)
	if err != nil {
		_ = e.Close()
		return nil, err
	}
	e.KV = kv
	e.Service = app.New(kv, log)
	return e, nil
}
