package sessions

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/rowcount/pkg/app"
	"tableflip.dev/rowcount/pkg/printers"
)

// Action is a session operation.
type Action string

const (
	Start   Action = "start"
	Pause   Action = "pause"
	Resume  Action = "resume"
	Toggle  Action = "toggle"
	End     Action = "end"
	Discard Action = "discard"
	Status  Action = "status"
)

type Session struct {
	Project string
	Action  Action

	Out     io.Writer
	Service *app.Service
}

func (n *Session) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not track session, no store")
	}
	pp := printers.PrettyPrint{Out: n.Out}

	var (
		step *app.Step
		err  error
	)
	switch n.Action {
	case Start:
		step, err = n.Service.StartSession(ctx, n.Project)
	case Pause:
		step, err = n.Service.PauseSession(ctx, n.Project)
	case Resume:
		step, err = n.Service.ResumeSession(ctx, n.Project)
	case Toggle:
		step, err = n.Service.ToggleSession(ctx, n.Project)
	case Discard:
		step, err = n.Service.DiscardSession(ctx, n.Project)
	case "", Status:
		step, err = n.Service.Session(ctx, n.Project)
	case End:
		s, rec, err := n.Service.EndSession(ctx, n.Project)
		if s != nil && s.Changed {
			pp.SessionSummary(rec, s.Project.TotalTime)
		}
		return err
	default:
		return fmt.Errorf("unknown session action %q", n.Action)
	}
	if step != nil {
		pp.Status(step.Project, step.Session)
	}
	return err
}
