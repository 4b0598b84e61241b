package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/rowcount/pkg/store"
)

type Info struct {
	Config *store.Config
	KV     store.KV
	Out    io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("ROWCOUNT_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "ROWCOUNT_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "ROWCOUNT_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Config.backend:", n.Config.Backend)
	switch n.Config.Backend {
	case store.BackendRemote:
		tbl.AddRow("Config.remote.url:", n.Config.RemoteURL)
	case store.BackendMemory:
	default:
		tbl.AddRow("Config.path:", n.Config.BasePath())
	}
	tbl.AddRow("Config.log.level:", n.Config.LogLevel)
	if n.Config.LogFile != "" {
		tbl.AddRow("Config.log.file:", n.Config.LogFile)
	}

	if n.KV == nil {
		_, _ = fmt.Fprintln(out, tbl)
		return fmt.Errorf("failed to open the %s store", n.Config.Backend)
	}
	repo := &store.Projects{KV: n.KV}
	ids, err := repo.IDs(ctx)
	if err != nil {
		return err
	}
	tbl.AddRow("Projects:", len(ids))
	_, _ = fmt.Fprintln(out, tbl)
	return nil
}
