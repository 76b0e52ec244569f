// Package terminal prints the colored status lines of a scaffolding run.
package terminal

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

type (
	Console struct {
		out    io.Writer
		errOut io.Writer
		styles styles
		mux    sync.Mutex
	}

	styles struct {
		stage   lipgloss.Style
		step    lipgloss.Style
		success lipgloss.Style
		failure lipgloss.Style
		hint    lipgloss.Style
		heading lipgloss.Style
		banner  lipgloss.Style
		command lipgloss.Style
		label   lipgloss.Style
		signOff lipgloss.Style
	}
)

var palette = struct {
	blue    lipgloss.Color
	cyan    lipgloss.Color
	green   lipgloss.Color
	magenta lipgloss.Color
	red     lipgloss.Color
	yellow  lipgloss.Color
}{
	blue:    lipgloss.Color("12"),
	cyan:    lipgloss.Color("6"),
	green:   lipgloss.Color("2"),
	magenta: lipgloss.Color("13"),
	red:     lipgloss.Color("1"),
	yellow:  lipgloss.Color("3"),
}

// NewConsole writes status lines to out and failures to errOut.
// Colors are dropped when the writers are not terminals.
func NewConsole(out, errOut io.Writer) *Console {
	outR := lipgloss.NewRenderer(out)
	errR := lipgloss.NewRenderer(errOut)

	return &Console{
		out:    out,
		errOut: errOut,
		styles: styles{
			stage:   outR.NewStyle().Foreground(palette.yellow),
			step:    outR.NewStyle().Foreground(palette.cyan),
			success: outR.NewStyle().Foreground(palette.green),
			failure: errR.NewStyle().Foreground(palette.red),
			hint:    errR.NewStyle().Foreground(palette.yellow),
			heading: outR.NewStyle().Foreground(palette.blue).Bold(true),
			banner:  outR.NewStyle().Foreground(palette.green).Bold(true),
			command: outR.NewStyle().Foreground(palette.cyan),
			label:   outR.NewStyle().Foreground(palette.yellow),
			signOff: outR.NewStyle().Foreground(palette.magenta),
		},
	}
}

func (c *Console) println(w io.Writer, style lipgloss.Style, msg string) {
	c.mux.Lock()
	defer c.mux.Unlock()

	_, _ = fmt.Fprintln(w, style.Render(msg))
}

// spaced is println preceded by an unstyled empty line.
func (c *Console) spaced(style lipgloss.Style, msg string) {
	c.mux.Lock()
	defer c.mux.Unlock()

	_, _ = fmt.Fprintln(c.out)
	_, _ = fmt.Fprintln(c.out, style.Render(msg))
}

func (c *Console) Heading(msg string) {
	c.println(c.out, c.styles.heading, msg)
}

func (c *Console) Stage(msg string) {
	c.println(c.out, c.styles.stage, msg)
}

func (c *Console) Step(msg string) {
	c.println(c.out, c.styles.step, msg)
}

func (c *Console) Success(msg string) {
	c.println(c.out, c.styles.success, msg)
}

func (c *Console) Failure(msg string) {
	c.println(c.errOut, c.styles.failure, msg)
}

func (c *Console) Hint(msg string) {
	c.println(c.errOut, c.styles.hint, msg)
}

func (c *Console) Banner(msg string) {
	c.spaced(c.styles.banner, msg)
}

func (c *Console) Section(msg string) {
	c.spaced(c.styles.heading, msg)
}

// Numbered prints "  n. cmd" with the command highlighted.
func (c *Console) Numbered(n int, cmd string) {
	c.mux.Lock()
	defer c.mux.Unlock()

	_, _ = fmt.Fprintf(c.out, "  %d. %s\n", n, c.styles.command.Render(cmd))
}

// Bullet prints "  • label: cmd".
func (c *Console) Bullet(label, cmd string) {
	c.mux.Lock()
	defer c.mux.Unlock()

	_, _ = fmt.Fprintf(c.out, "  • %s: %s\n", c.styles.label.Render(label), c.styles.command.Render(cmd))
}

func (c *Console) SignOff(msg string) {
	c.spaced(c.styles.signOff, msg)
}

// Plain writes msg to the status writer without styling.
func (c *Console) Plain(msg string) {
	c.mux.Lock()
	defer c.mux.Unlock()

	_, _ = fmt.Fprintln(c.out, msg)
}

// Out is the writer status lines go to.
func (c *Console) Out() io.Writer {
	return c.out
}
