package status

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/bnema/share-cli/internal/domain"
	"github.com/bnema/share-cli/internal/ports"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

const tickInterval = time.Second

// Controls are the session signals bound to keys in the live view.
type Controls interface {
	Shutdown()
	KeepServing()
}

type snapshotMsg domain.Snapshot

type tickMsg time.Time

type doneMsg struct{}

type keyMap struct {
	shutdown    key.Binding
	keepServing key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		shutdown:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("Ctrl+C", "to close now")),
		keepServing: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("Ctrl+R", "to allow more downloads")),
	}
}

func (k keyMap) hints() []string {
	hints := make([]string, 0, 2)
	for _, b := range []key.Binding{k.shutdown, k.keepServing} {
		help := b.Help()
		hints = append(hints, help.Key+" "+help.Desc)
	}
	return hints
}

type model struct {
	snapshot domain.Snapshot
	controls Controls
	keys     keyMap
	spinner  spinner.Model
	styles   styles
	now      func() time.Time
	done     bool
}

func newModel(controls Controls, initial domain.Snapshot) model {
	st := newStyles()
	return model{
		snapshot: initial,
		controls: controls,
		keys:     newKeyMap(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(st.spinner),
		),
		styles: st,
		now:    time.Now,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.shutdown):
			m.controls.Shutdown()
		case key.Matches(msg, m.keys.keepServing):
			m.controls.KeepServing()
		}
		return m, nil
	case snapshotMsg:
		m.snapshot = domain.Snapshot(msg)
		return m, nil
	case tickMsg:
		if m.done {
			return m, nil
		}
		return m, tick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case doneMsg:
		m.done = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return renderView(m.snapshot, viewOptions{
		Now:       m.now(),
		Spinner:   m.spinner.View(),
		HoldHints: m.keys.hints(),
	}, m.styles) + "\n"
}

type LiveOptions struct {
	Output io.Writer
	// Input is read for key presses; nil opens the controlling terminal.
	Input io.Reader
}

// Live renders session snapshots with bubbletea and turns key presses into
// session signals. It implements ports.SessionObserver.
type Live struct {
	program *tea.Program
	once    sync.Once
	done    chan struct{}
	err     error
}

var _ ports.SessionObserver = (*Live)(nil)

func NewLive(ctx context.Context, controls Controls, opts LiveOptions) *Live {
	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	} else {
		programOpts = append(programOpts, tea.WithInputTTY())
	}

	return &Live{
		program: tea.NewProgram(newModel(controls, domain.NewSession().Snapshot()), programOpts...),
		done:    make(chan struct{}),
	}
}

// Start runs the program in the background.
func (l *Live) Start() {
	l.once.Do(func() {
		go func() {
			defer close(l.done)
			finalModel, err := l.program.Run()
			if err != nil && !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, tea.ErrInterrupted) {
				l.err = err
				return
			}
			if _, ok := finalModel.(model); !ok && err == nil {
				l.err = ErrUnexpectedRenderModel
			}
		}()
	})
}

func (l *Live) Observe(snapshot domain.Snapshot) {
	l.program.Send(snapshotMsg(snapshot))
}

// Stop renders the last frame and waits for the program to exit.
func (l *Live) Stop() error {
	l.Start()
	l.program.Send(doneMsg{})
	<-l.done
	return l.err
}
