package move

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/rowcount/pkg/app"
	"tableflip.dev/rowcount/pkg/printers"
)

// Action is a cursor transition.
type Action string

const (
	Next     Action = "next"
	Previous Action = "prev"
	Repeat   Action = "repeat"
	Again    Action = "again"
	Finish   Action = "finish"
)

type Move struct {
	Project string
	Action  Action
	// Times repeats Next or Previous.
	Times int
	// Quiet skips the instruction listing.
	Quiet bool

	Out     io.Writer
	Service *app.Service
}

func (n *Move) step(ctx context.Context) (*app.Step, error) {
	switch n.Action {
	case Next:
		return n.Service.Next(ctx, n.Project)
	case Previous:
		return n.Service.Previous(ctx, n.Project)
	case Repeat:
		return n.Service.StartRepeat(ctx, n.Project)
	case Again:
		return n.Service.RepeatAgain(ctx, n.Project)
	case Finish:
		return n.Service.FinishRepeats(ctx, n.Project)
	default:
		return nil, fmt.Errorf("unknown move %q", n.Action)
	}
}

func (n *Move) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not move, no store")
	}
	times := n.Times
	if times < 1 || (n.Action != Next && n.Action != Previous) {
		times = 1
	}

	var (
		step  *app.Step
		err   error
		moved int
	)
	for i := 0; i < times; i++ {
		step, err = n.step(ctx)
		if err != nil || !step.Changed {
			break
		}
		moved++
	}
	if step == nil {
		return err
	}

	pp := printers.PrettyPrint{Out: n.Out}
	if moved == 0 && err == nil {
		pp.Note("nothing to do from here")
	}
	pp.Status(step.Project, step.Session)
	if !n.Quiet {
		pp.NewLine()
		pp.Instructions(step.Project)
	}
	return err
}
