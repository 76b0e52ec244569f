// Package tui is the terminal form behind "next-fast --interactive".
package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/kxue43/next-fast/scaffold"
)

type (
	navItem interface {
		ToggleHighlight()
		ToggleTick()
		Desc() string
		Update(tea.Msg) tea.Cmd
		View() string
	}

	nameItem struct {
		ti          textinput.Model
		highlighted bool
	}

	toggleItem struct {
		value       *bool
		label       string
		desc        string
		highlighted bool
	}

	Picker struct {
		help      help.Model
		draft     *scaffold.Options
		items     []navItem
		warning   string
		index     int
		navMode   bool
		submitted bool
		aborted   bool
	}

	navModeKeyMap struct{}

	inputModeKeyMap struct{}

	submitButtonKeyMap struct{}
)

var (
	ErrAborted    = errors.New("aborted by user")
	ErrNoTerminal = errors.New("--interactive needs a terminal on stdin")

	keys = struct {
		up     key.Binding
		down   key.Binding
		input  key.Binding
		finish key.Binding
		submit key.Binding
		tick   key.Binding
		help   key.Binding
		quit   key.Binding
	}{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		input: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "edit name"),
		),
		finish: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "finish input"),
		),
		submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "create project"),
		),
		tick: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x/space", "tick/untick"),
		),
		help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}

	palette = struct {
		magenta lipgloss.Color
		red     lipgloss.Color
		grey    lipgloss.Color
	}{
		magenta: lipgloss.Color("212"),
		red:     lipgloss.Color("9"),
		grey:    lipgloss.Color("245"),
	}

	highlightedStyle = getStyle(false, true)

	warningStyle = lipgloss.NewStyle().Foreground(palette.red)
)

func getStyle(off, highlighted bool) lipgloss.Style {
	style := lipgloss.NewStyle()

	if off {
		style = style.Foreground(palette.grey)
	}

	if highlighted {
		style = style.Foreground(palette.magenta)
	}

	return style
}

func (navModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.help, keys.quit}
}

func (navModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.up, keys.down, keys.input, keys.tick},
		{keys.help, keys.quit},
	}
}

func (inputModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.finish, keys.quit}
}

func (inputModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.finish, keys.quit},
	}
}

func (submitButtonKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.submit, keys.help, keys.quit}
}

func (submitButtonKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.up, keys.down, keys.submit},
		{keys.help, keys.quit},
	}
}

func marker(highlighted bool) string {
	if highlighted {
		return highlightedStyle.Render("> ")
	}

	return "  "
}

func (ni *nameItem) ToggleHighlight() {
	ni.highlighted = !ni.highlighted
}

func (ni *nameItem) ToggleTick() {}

func (ni *nameItem) Desc() string {
	return "Directory to create. It becomes the package name, so keep it lowercase."
}

func (ni *nameItem) View() string {
	return marker(ni.highlighted) + getStyle(false, ni.highlighted).Render("Project name:") + ni.ti.View()
}

func (ni *nameItem) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, keys.input) {
		if !ni.ti.Focused() {
			return ni.ti.Focus()
		}

		ni.ti.Blur()

		return nil
	}

	ni.ti, cmd = ni.ti.Update(msg)

	return cmd
}

func (ti *toggleItem) ToggleHighlight() {
	ti.highlighted = !ti.highlighted
}

func (ti *toggleItem) ToggleTick() {
	*ti.value = !*ti.value
}

func (ti *toggleItem) Desc() string {
	return ti.desc
}

func (ti *toggleItem) View() string {
	box := "[ ] "
	if *ti.value {
		box = "[x] "
	}

	return marker(ti.highlighted) + getStyle(!*ti.value, ti.highlighted).Render(box+ti.label)
}

func (ti *toggleItem) Update(tea.Msg) tea.Cmd {
	return nil
}

// NewPicker starts from the options already given on the command line.
func NewPicker(initial scaffold.Options) Picker {
	draft := initial

	ti := textinput.New()
	ti.Placeholder = "my-app"
	ti.CharLimit = 214
	ti.Width = 30
	ti.Prompt = " "
	ti.SetValue(initial.ProjectName)

	m := Picker{
		help:    help.New(),
		draft:   &draft,
		navMode: true,
	}

	m.items = []navItem{
		&nameItem{ti: ti, highlighted: true},
		&toggleItem{value: &draft.TypeScript, label: "TypeScript", desc: "Generate TypeScript (--typescript) instead of JavaScript (--javascript)."},
		&toggleItem{value: &draft.Tailwind, label: "Tailwind CSS", desc: "Set up Tailwind CSS (--tailwind)."},
		&toggleItem{value: &draft.ESLint, label: "ESLint", desc: "Set up ESLint (--eslint)."},
		&toggleItem{value: &draft.AppRouter, label: "App Router", desc: "Use the App Router (--app) instead of the Pages Router."},
		&toggleItem{value: &draft.SkipInstall, label: "Skip install prompt", desc: "Pass --skip-install to create-next-app."},
	}

	return m
}

func (m Picker) Init() tea.Cmd {
	return nil
}

func (m Picker) View() string {
	if m.submitted {
		return fmt.Sprintf("Creating %s ...\n", m.draft.ProjectName)
	}

	var b strings.Builder

	b.WriteString("Let's start a Next.js + Prisma project!\n\n")

	b.WriteString("Description: ")

	if m.index < len(m.items) {
		b.WriteString(m.items[m.index].Desc())
	}

	b.WriteString("\n\n")

	for i := range m.items {
		b.WriteString(m.items[i].View())
		b.WriteRune('\n')
	}

	b.WriteRune('\n')

	onSubmit := m.index == len(m.items)

	b.WriteString(marker(onSubmit))
	b.WriteString(getStyle(false, onSubmit).Render("[ Submit ]"))

	if m.warning != "" {
		b.WriteString("  ")
		b.WriteString(warningStyle.Render(m.warning))
	}

	b.WriteString("\n\n")

	switch {
	case m.navMode && onSubmit:
		b.WriteString(m.help.View(submitButtonKeyMap{}))
	case m.navMode:
		b.WriteString(m.help.View(navModeKeyMap{}))
	default:
		b.WriteString(m.help.View(inputModeKeyMap{}))
	}

	b.WriteRune('\n')

	return b.String()
}

func (m *Picker) highlightUp(index int) {
	if index < len(m.items) {
		m.items[index].ToggleHighlight()
	}

	m.items[index-1].ToggleHighlight()
}

func (m *Picker) highlightDown(index int) {
	m.items[index].ToggleHighlight()

	if index+1 < len(m.items) {
		m.items[index+1].ToggleHighlight()
	}
}

func (m *Picker) name() string {
	return strings.TrimSpace(m.items[0].(*nameItem).ti.Value())
}

func (m *Picker) navModeUpdate(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.up):
		if m.index > 0 {
			m.highlightUp(m.index)
			m.index -= 1
		}

		return nil
	case key.Matches(msg, keys.down):
		if m.index < len(m.items) {
			m.highlightDown(m.index)
			m.index += 1
		}

		return nil
	case key.Matches(msg, keys.input):
		if _, ok := m.items[m.index].(*nameItem); !ok {
			m.items[m.index].ToggleTick()

			return nil
		}

		m.navMode = false
		m.help.ShowAll = false

		return m.items[m.index].Update(msg)
	case key.Matches(msg, keys.tick):
		m.items[m.index].ToggleTick()

		return nil
	default:
		return nil
	}
}

func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.quit):
			m.aborted = true

			return m, tea.Quit
		case m.navMode && m.index == len(m.items) && key.Matches(msg, keys.submit):
			if m.name() == "" {
				m.warning = "a project name is required"

				return m, nil
			}

			m.draft.ProjectName = m.name()
			m.submitted = true

			return m, tea.Quit
		case m.navMode && key.Matches(msg, keys.help):
			m.help.ShowAll = !m.help.ShowAll

			return m, nil
		case m.navMode:
			m.warning = ""

			return m, m.navModeUpdate(msg)
		case key.Matches(msg, keys.finish):
			cmd = m.items[m.index].Update(msg)
			m.navMode = true

			return m, cmd
		default:
			return m, m.items[m.index].Update(msg)
		}
	}

	if m.index < len(m.items) {
		cmd = m.items[m.index].Update(msg)
	}

	return m, cmd
}

// Result reports the chosen options once the form has been submitted.
// Non-nil returned error wraps [ErrAborted].
func (m Picker) Result() (scaffold.Options, error) {
	if !m.submitted {
		return scaffold.Options{}, ErrAborted
	}

	return *m.draft, nil
}

// Pick runs the form on the terminal and overwrites opts with the answers.
// Non-nil returned error wraps [ErrAborted] or [ErrNoTerminal] when the form could not complete.
func Pick(opts *scaffold.Options) error {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return ErrNoTerminal
	}

	final, err := tea.NewProgram(NewPicker(*opts)).Run()
	if err != nil {
		return fmt.Errorf("failed to run the interactive form: %w", err)
	}

	picker, ok := final.(Picker)
	if !ok {
		return fmt.Errorf("unexpected model %T returned by the interactive form", final)
	}

	result, err := picker.Result()
	if err != nil {
		return err
	}

	*opts = result

	return nil
}
