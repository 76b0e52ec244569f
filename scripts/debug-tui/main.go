package main

import (
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"

	"github.com/kxue43/next-fast/scaffold"
	"github.com/kxue43/next-fast/tui"
)

// recorder dumps every message the picker receives into messages.log.
type recorder struct {
	picker tui.Picker
	dump   io.Writer
}

func (r recorder) Init() tea.Cmd {
	return r.picker.Init()
}

func (r recorder) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	spew.Fdump(r.dump, msg)

	model, cmd := r.picker.Update(msg)

	if picker, ok := model.(tui.Picker); ok {
		r.picker = picker
	}

	return r, cmd
}

func (r recorder) View() string {
	return r.picker.View()
}

func main() {
	dump, err := os.OpenFile("messages.log", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		log.Fatal("failed to open log file messages.log")
	}

	defer func() {
		_ = dump.Close()
	}()

	p := tea.NewProgram(recorder{picker: tui.NewPicker(scaffold.DefaultOptions("")), dump: dump})

	final, err := p.Run()
	if err != nil {
		log.Fatal(err)
	}

	if r, ok := final.(recorder); ok {
		opts, err := r.picker.Result()
		spew.Fdump(dump, "==> ", opts, err)
	}
}
