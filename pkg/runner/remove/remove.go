package remove

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/rowcount/pkg/app"
)

type Remove struct {
	Project string
	// Yes skips the confirmation prompt.
	Yes bool

	In      io.Reader
	Out     io.Writer
	Service *app.Service
}

func (n *Remove) out() io.Writer {
	if n.Out != nil {
		return n.Out
	}
	return color.Output
}

func (n *Remove) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not remove, no store")
	}
	p, err := n.Service.Open(ctx, n.Project)
	if err != nil {
		return err
	}
	if !n.Yes && !n.confirm(p.Title) {
		_, _ = fmt.Fprintln(n.out(), "Not removed.")
		return nil
	}
	if _, err := n.Service.Delete(ctx, p.ID); err != nil {
		return err
	}
	c := color.New(color.FgHiRed)
	_, _ = c.Fprintf(n.out(), "Removed %q.\n", p.Title)
	return nil
}

func (n *Remove) confirm(title string) bool {
	in := n.In
	if in == nil {
		in = os.Stdin
	}
	_, _ = fmt.Fprintf(n.out(), "Remove %q and all of its sessions? [y/N] ", title)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
