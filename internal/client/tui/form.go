package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type fieldSpec struct {
	key         string
	label       string
	value       string
	placeholder string
}

type field struct {
	key   string
	label string
	input textinput.Model
}

// form is a column of text inputs with one focused at a time.
type form struct {
	fields []field
	focus  int
}

func newForm(specs ...fieldSpec) *form {
	f := &form{}
	for _, spec := range specs {
		in := textinput.New()
		in.Placeholder = spec.placeholder
		in.CharLimit = 120
		in.Prompt = ""
		in.SetValue(spec.value)
		f.fields = append(f.fields, field{key: spec.key, label: spec.label, input: in})
	}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

func (f *form) value(key string) string {
	for _, fl := range f.fields {
		if fl.key == key {
			return strings.TrimSpace(fl.input.Value())
		}
	}
	return ""
}

func (f *form) set(key, value string) {
	for i := range f.fields {
		if f.fields[i].key == key {
			f.fields[i].input.SetValue(value)
			return
		}
	}
}

func (f *form) focused() string {
	if len(f.fields) == 0 {
		return ""
	}
	return f.fields[f.focus].key
}

func (f *form) onLast() bool {
	return f.focus == len(f.fields)-1
}

func (f *form) move(delta int) {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

// update feeds msg to the focused input and returns its key and new value.
func (f *form) update(msg tea.Msg) (string, string, tea.Cmd) {
	if len(f.fields) == 0 {
		return "", "", nil
	}
	var cmd tea.Cmd
	fl := &f.fields[f.focus]
	fl.input, cmd = fl.input.Update(msg)
	return fl.key, fl.input.Value(), cmd
}

func (f *form) view(s Styles) string {
	var b strings.Builder
	for i, fl := range f.fields {
		label := s.Label.Render(fl.label)
		if i == f.focus {
			label = s.Label.Inherit(s.Selected).Render(fl.label)
		}
		b.WriteString(label + " " + fl.input.View() + "\n")
	}
	return b.String()
}
