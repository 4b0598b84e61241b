package list

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/rowcount/pkg/app"
	"tableflip.dev/rowcount/pkg/printers"
)

type List struct {
	ShowID  bool
	Out     io.Writer
	Service *app.Service
}

func (n *List) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not list, no store")
	}
	all, err := n.Service.List(ctx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out, ShowID: n.ShowID}
	pp.Projects(all)
	return nil
}
