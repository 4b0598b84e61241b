package show

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"tableflip.dev/rowcount/pkg/app"
	"tableflip.dev/rowcount/pkg/printers"
	"tableflip.dev/rowcount/pkg/project"
)

// Output formats understood by Show.
const (
	OutputPretty = "pretty"
	OutputJSON   = "json"
	OutputYAML   = "yaml"
)

type Show struct {
	Project  string
	Output   string
	Sessions bool
	ShowID   bool

	Out     io.Writer
	Service *app.Service
}

func (n *Show) out() io.Writer {
	if n.Out != nil {
		return n.Out
	}
	return color.Output
}

func (n *Show) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not show, no store")
	}
	step, err := n.Service.Session(ctx, n.Project)
	if err != nil {
		return err
	}

	switch n.Output {
	case "", OutputPretty:
		pp := printers.PrettyPrint{Out: n.Out, ShowID: n.ShowID}
		pp.Title(step.Project.Title)
		pp.Status(step.Project, step.Session)
		pp.NewLine()
		pp.Instructions(step.Project)
		if n.Sessions {
			pp.NewLine()
			pp.Sessions(step.Project)
		}
		return nil
	case OutputJSON:
		b, err := json.MarshalIndent(step.Project, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(n.out(), string(b))
		return err
	case OutputYAML:
		b, err := Export(step.Project)
		if err != nil {
			return err
		}
		_, err = n.out().Write(b)
		return err
	default:
		return fmt.Errorf("unknown output %q (expected pretty, json or yaml)", n.Output)
	}
}

// Export renders p as YAML with the same field names as the stored record.
func Export(p *project.Project) ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}
