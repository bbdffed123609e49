package tui

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/epidemic"
)

// ErrAborted is returned by Collect when the user quits without submitting.
var ErrAborted = errors.New("tui: input aborted")

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

// Values are the model inputs gathered by the form.
type Values struct {
	Beta    float64
	Gamma   float64
	Initial epidemic.Compartments
}

type field struct {
	name  string
	label string
	value float64
}

type form struct {
	fields  []field
	cursor  int
	editing bool
	editBuf string
	err     string

	submitted bool
	aborted   bool
}

func newForm(v Values) form {
	return form{
		fields: []field{
			{"beta", "infection rate", v.Beta},
			{"gamma", "recovery rate", v.Gamma},
			{"S", "susceptible", v.Initial.S},
			{"I", "infectious", v.Initial.I},
			{"R", "recovered", v.Initial.R},
		},
	}
}

func (f form) values() Values {
	return Values{
		Beta:  f.fields[0].value,
		Gamma: f.fields[1].value,
		Initial: epidemic.Compartments{
			S: f.fields[2].value,
			I: f.fields[3].value,
			R: f.fields[4].value,
		},
	}
}

func (f form) Init() tea.Cmd { return nil }

func (f form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if f.editing {
			return f.editKey(key)
		}
		return f.navKey(key)
	}
	return f, nil
}

func (f form) editKey(msg tea.KeyMsg) (form, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		f.aborted = true
		return f, tea.Quit
	case "enter", "tab":
		f.commit()
		if msg.String() == "tab" && f.err == "" {
			f.move(1)
		}
	case "esc":
		f.editing = false
		f.editBuf = ""
	case "backspace":
		if len(f.editBuf) > 0 {
			f.editBuf = f.editBuf[:len(f.editBuf)-1]
		}
	default:
		if s := msg.String(); len(s) == 1 && isNumeric(s[0]) {
			f.editBuf += s
		}
	}
	return f, nil
}

func (f form) navKey(msg tea.KeyMsg) (form, tea.Cmd) {
	switch s := msg.String(); s {
	case "q", "esc", "ctrl+c":
		f.aborted = true
		return f, tea.Quit
	case "up", "k", "shift+tab":
		f.move(-1)
	case "down", "j", "tab":
		f.move(1)
	case "enter", " ":
		f.editing = true
		f.editBuf = strconv.FormatFloat(f.fields[f.cursor].value, 'g', -1, 64)
	case "s":
		if err := f.validate(); err != nil {
			f.err = err.Error()
			return f, nil
		}
		f.err = ""
		f.submitted = true
		return f, tea.Quit
	default:
		// Typing a number starts a fresh edit of the selected field.
		if len(s) == 1 && strings.ContainsAny(s, "0123456789.-") {
			f.editing = true
			f.editBuf = s
		}
	}
	return f, nil
}

// validate applies the same checks as a loaded config file, so a submitted
// form is never rejected after the program exits.
func (f form) validate() error {
	v := f.values()
	cfg := config.DefaultConfig()
	cfg.Beta = v.Beta
	cfg.Gamma = v.Gamma
	cfg.Initial = config.InitialConfig{S: v.Initial.S, I: v.Initial.I, R: v.Initial.R}
	return cfg.Validate()
}

func (f *form) commit() {
	v, err := strconv.ParseFloat(strings.TrimSpace(f.editBuf), 64)
	if err != nil {
		f.err = fmt.Sprintf("%s: %q is not a number", f.fields[f.cursor].name, f.editBuf)
		return
	}
	f.fields[f.cursor].value = v
	f.err = ""
	f.editing = false
	f.editBuf = ""
}

func (f *form) move(delta int) {
	n := len(f.fields)
	f.cursor = ((f.cursor+delta)%n + n) % n
}

func isNumeric(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E'
}

func (f form) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render("e p i s i m") + "  " + dim.Render("SIR model inputs") + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 34)) + "\n\n")

	for i, fd := range f.fields {
		val := fmt.Sprintf("%10s", strconv.FormatFloat(fd.value, 'g', 6, 64))
		if f.editing && i == f.cursor {
			val = fmt.Sprintf("%10s", f.editBuf+"▋")
		}
		if i == f.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-6s", fd.name)) +
				magenta.Render(val) + "  " + dim.Render(fd.label) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-6s", fd.name)) + dim.Render(val) +
				"  " + dimmer.Render(fd.label) + "\n")
		}
	}

	if f.err != "" {
		b.WriteString("\n      " + red.Render(f.err) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  enter edit  s simulate  q quit") + "\n")

	return b.String()
}

type options struct {
	defaults Values
	program  []tea.ProgramOption
}

type Option func(*options)

// WithDefaults pre-fills the form.
func WithDefaults(v Values) Option {
	return func(o *options) { o.defaults = v }
}

// WithIO redirects the program's terminal, mostly for scripted input.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(o *options) {
		o.program = append(o.program, tea.WithInput(in), tea.WithOutput(out))
	}
}

// Collect runs the form until the user submits valid values or quits.
func Collect(opts ...Option) (Values, error) {
	o := options{
		defaults: Values{
			Beta:    0.3,
			Gamma:   0.1,
			Initial: epidemic.Compartments{S: 999, I: 1},
		},
	}
	for _, opt := range opts {
		opt(&o)
	}

	final, err := tea.NewProgram(newForm(o.defaults), o.program...).Run()
	if err != nil {
		return Values{}, fmt.Errorf("tui: %w", err)
	}

	f, ok := final.(form)
	if !ok || !f.submitted {
		return Values{}, ErrAborted
	}
	return f.values(), nil
}
