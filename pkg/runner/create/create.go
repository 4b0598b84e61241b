package create

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"tableflip.dev/rowcount/pkg/app"
	"tableflip.dev/rowcount/pkg/printers"
	"tableflip.dev/rowcount/pkg/timeutil"
)

// Create compiles a pattern and stores it as a new project.
type Create struct {
	Title string
	// File holds the pattern text; "-" or empty reads In.
	File     string
	StartRow int
	// Worked is time already spent, e.g. "2h 30m".
	Worked string
	ShowID bool

	In      io.Reader
	Out     io.Writer
	Service *app.Service
}

func (n *Create) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not create, no store")
	}
	worked, err := timeutil.ParseWorked(n.Worked)
	if err != nil {
		return fmt.Errorf("--worked: %w", err)
	}
	text, err := n.readPattern()
	if err != nil {
		return err
	}

	p, err := n.Service.Create(ctx, app.CreateRequest{
		Title:    n.Title,
		Pattern:  text,
		StartRow: n.StartRow,
		Worked:   worked,
	})
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{Out: n.Out, ShowID: n.ShowID}
	pp.Title(p.Title)
	pp.Status(p, nil)
	pp.Instructions(p)
	return nil
}

func (n *Create) readPattern() (string, error) {
	if n.File != "" && n.File != "-" {
		b, err := os.ReadFile(n.File)
		if err != nil {
			return "", fmt.Errorf("read pattern: %w", err)
		}
		return string(b), nil
	}
	in := n.In
	if in == nil {
		in = os.Stdin
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read pattern: %w", err)
	}
	return string(b), nil
}
