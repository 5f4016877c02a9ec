package viz

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/noisefield/internal/config"
	"github.com/san-kum/noisefield/internal/mouse"
	"github.com/san-kum/noisefield/internal/noise"
	"github.com/san-kum/noisefield/internal/sim"
)

const rowReset = "\x1b[0m"

type TickMsg time.Time

// Model drives a sim.Session from Bubble Tea messages. Bubble Tea owns the
// terminal, so mouse input arrives already decoded.
type Model struct {
	session  *sim.Session
	cfg      *config.Config
	codes    mouse.Codes
	rows     []string
	termW    int
	lastTick time.Time
	quitting bool
}

func NewModel(cfg *config.Config, src noise.Source) Model {
	w, h := sim.GridSize(cfg, 80, 24)
	return Model{
		session: sim.NewSession(cfg, src, w, h),
		cfg:     cfg,
		codes:   cfg.MouseCodes(),
		termW:   80,
	}
}

func (m Model) Session() *sim.Session { return m.session }

func (m Model) tick() tea.Cmd {
	fps := m.cfg.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "Q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	case tea.MouseMsg:
		if ev, ok := toEvent(msg, m.codes); ok {
			m.session.Apply(ev)
		}
	case tea.WindowSizeMsg:
		m.termW = msg.Width
		m.session.Resize(sim.GridSize(m.cfg, msg.Width, msg.Height))
	case TickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			m.session.Observe(now.Sub(m.lastTick))
		}
		m.lastTick = now
		m.rows = m.session.Step().Rows
		return m, m.tick()
	}
	return m, nil
}

// toEvent maps Bubble Tea's zero-based mouse report onto the one-based
// coordinates the SGR decoder produces.
func toEvent(msg tea.MouseMsg, codes mouse.Codes) (mouse.Event, bool) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		return mouse.Event{Kind: mouse.WheelUp, Code: codes.WheelUp}, true
	case msg.Button == tea.MouseButtonWheelDown:
		return mouse.Event{Kind: mouse.WheelDown, Code: codes.WheelDown}, true
	case msg.Action == tea.MouseActionMotion:
		return mouse.Event{Kind: mouse.Move, Code: codes.Move, Col: msg.X + 1, Row: msg.Y + 1}, true
	}
	return mouse.Event{}, false
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(Header(m.session.Status(), m.termW, m.cfg.FPS))
	for _, row := range m.rows {
		b.WriteByte('\n')
		b.WriteString(row)
		b.WriteString(rowReset)
	}
	return b.String()
}

// Run shows the field in a Bubble Tea program until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, cfg *config.Config, src noise.Source) error {
	p := tea.NewProgram(NewModel(cfg, src),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.session.Close()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
