package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// form is an ordered set of text inputs with a single focused field.
type form struct {
	inputs []textinput.Model
	labels []string
	focus  int
	active bool
}

func newForm(labels ...string) *form {
	f := &form{labels: labels}
	for _, label := range labels {
		in := textinput.New()
		in.Placeholder = label
		in.Width = 40
		f.inputs = append(f.inputs, in)
	}
	return f
}

// mask hides the field at index i, as for an API key.
func (f *form) mask(i int) *form {
	f.inputs[i].EchoMode = textinput.EchoPassword
	f.inputs[i].EchoCharacter = '•'
	return f
}

func (f *form) Focus() tea.Cmd {
	f.active = true
	f.focus = 0
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[0].Focus()
}

func (f *form) Blur() {
	f.active = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

// Next moves focus forward. It reports false when the last field was already focused.
func (f *form) Next() (tea.Cmd, bool) {
	if f.focus >= len(f.inputs)-1 {
		return nil, false
	}
	f.inputs[f.focus].Blur()
	f.focus++
	return f.inputs[f.focus].Focus(), true
}

func (f *form) Values() []string {
	values := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		values[i] = strings.TrimSpace(in.Value())
	}
	return values
}

func (f *form) SetValue(i int, v string) {
	f.inputs[i].SetValue(v)
}

func (f *form) Reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
}

func (f *form) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) View() string {
	var b strings.Builder
	for i, in := range f.inputs {
		b.WriteString(f.labels[i] + ": ")
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	return b.String()
}
