package knit

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/rowcount/pkg/app"
)

// Knit opens a project in the interactive row counter.
type Knit struct {
	// Project is opened directly; empty shows a picker.
	Project string
	// Watch reloads the project when another process changes it.
	Watch bool

	Service *app.Service
	Log     *slog.Logger
}

func (n *Knit) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not knit, no store")
	}
	log := n.Log
	if log == nil {
		log = slog.Default()
	}
	ref := n.Project
	if ref == "" {
		all, err := n.Service.List(ctx)
		if err != nil {
			return err
		}
		if len(all) == 0 {
			return errors.New("no projects yet, create one with rowcount create")
		}
		if ref, err = Pick(ctx, all); err != nil || ref == "" {
			return err
		}
	}
	step, err := n.Service.Session(ctx, ref)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := New(ctx, n.Service, step, nil)
	if n.Watch {
		events, err := n.Service.Projects.Watch(ctx)
		if err != nil {
			log.Debug("not watching for changes", "error", err)
		} else {
			m.events = events
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
