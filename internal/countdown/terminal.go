package countdown

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type finishMsg struct{}

type terminalModel struct {
	bar     progress.Model
	info    Info
	tick    Tick
	started bool
}

func (m terminalModel) Init() tea.Cmd { return nil }

// Update ignores key input so the countdown cannot be dismissed.
func (m terminalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case Tick:
		m.tick = msg
		m.started = true
	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(60, msg.Width-4))
	case finishMsg:
		m.tick = NewTick(0, m.info.Duration)
		return m, tea.Quit
	}
	return m, nil
}

func (m terminalModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.info.Title))
	b.WriteString("\n")
	if m.info.Message != "" {
		b.WriteString(m.info.Message)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(float64(m.tick.Percent) / 100))
	b.WriteString("\n")
	if m.started {
		b.WriteString(mutedStyle.Render("Time remaining: " + m.tick.Remaining))
	}
	b.WriteString("\n")
	return b.String()
}

// TerminalDisplay renders a progress bar with bubbletea. Keyboard input is not
// read and signal handling is left to the caller.
type TerminalDisplay struct {
	out  io.Writer
	prog *tea.Program
	done chan error
}

func NewTerminalDisplay(out io.Writer) *TerminalDisplay {
	return &TerminalDisplay{out: out}
}

func (d *TerminalDisplay) Start(ctx context.Context, info Info) error {
	if d.prog != nil {
		return fmt.Errorf("terminal countdown already running")
	}
	m := terminalModel{
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		info: info,
		tick: NewTick(info.Duration, info.Duration),
	}
	d.prog = tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithOutput(d.out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	d.done = make(chan error, 1)
	go func() {
		_, err := d.prog.Run()
		d.done <- err
	}()
	return nil
}

func (d *TerminalDisplay) Update(ctx context.Context, t Tick) error {
	if d.prog == nil {
		return fmt.Errorf("terminal countdown not started")
	}
	d.prog.Send(t)
	return nil
}

func (d *TerminalDisplay) Finish(ctx context.Context) error {
	if d.prog == nil {
		return nil
	}
	d.prog.Send(finishMsg{})
	err := <-d.done
	d.prog = nil
	return err
}
