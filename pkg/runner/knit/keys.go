package knit

import (
	"github.com/charmbracelet/bubbles/key"

	"tableflip.dev/rowcount/pkg/cursor"
	"tableflip.dev/rowcount/pkg/session"
)

type keyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Repeat  key.Binding
	Again   key.Binding
	Finish  key.Binding
	Session key.Binding
	End     key.Binding
	Discard key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("j", "down", " ", "enter"),
			key.WithHelp("space/j", "next row"),
		),
		Prev: key.NewBinding(
			key.WithKeys("k", "up", "backspace"),
			key.WithHelp("k", "previous row"),
		),
		Repeat: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "start repeat"),
		),
		Again: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "repeat again"),
		),
		Finish: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "finish repeats"),
		),
		Session: key.NewBinding(
			key.WithKeys("s", "p"),
			key.WithHelp("s", "start/pause timer"),
		),
		End: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "end session"),
		),
		Discard: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "discard session"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// sync enables only the bindings that make sense at this position.
func (k *keyMap) sync(v cursor.View, state session.State) {
	k.Repeat.SetEnabled(v.NextRepeat != nil)
	k.Again.SetEnabled(v.CanRepeatAgain)
	k.Finish.SetEnabled(v.AtRepeatEnd)
	k.End.SetEnabled(state != session.Idle)
	k.Discard.SetEnabled(state != session.Idle)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Repeat, k.Again, k.Finish, k.Session, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Repeat, k.Again, k.Finish},
		{k.Session, k.End, k.Discard},
		{k.Help, k.Quit},
	}
}
