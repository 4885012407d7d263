package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tilecrawl/internal/core"
	"github.com/vovakirdan/tilecrawl/internal/registry"
	"github.com/vovakirdan/tilecrawl/internal/storage"
)

// maxFrameDT caps the simulated time of a single tick. A stalled terminal
// or a suspended SSH session should not turn into one giant step.
const maxFrameDT = 0.1

// LocalPlayer is the player name recorded for runs played in a local terminal.
const LocalPlayer = "local"

// Model is the Bubble Tea model for running a game.
type Model struct {
	game      registry.Game
	screen    *core.Screen
	store     *storage.Store
	config    core.RuntimeConfig
	player    string
	mem       *core.GameMemory
	input     *HeldInput
	keyMapper *KeyMapper
	now       func() time.Time

	gameState core.GameState
	lastTick  time.Time
	err       error // Memory sizing or world build failure
	saveErr   error // Last failed run save

	standalone bool // Back quits the program instead of returning to a menu
	quitting   bool
	backToMenu bool
	runSaved   bool // Whether the current run has been recorded
}

// NewModel creates a model for game, allocates its permanent storage and
// builds the first world. A failed build is kept and shown by the game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, player string) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if player == "" {
		player = LocalPlayer
	}

	m := Model{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:     store,
		config:    cfg,
		player:    player,
		input:     NewHeldInput(DefaultFirstHoldWindow, DefaultRepeatHoldWindow),
		keyMapper: NewKeyMapper(),
		now:       time.Now,
	}

	size, err := registry.MemoryFor(game)
	if err != nil {
		m.err = fmt.Errorf("size game memory: %w", err)
		return m
	}
	m.mem = core.NewGameMemory(size)
	m.err = game.Reset(cfg, m.mem)
	m.gameState = game.State()
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	actions, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.saveRun()
		m.quitting = true
		return m, tea.Quit
	}

	now := m.now()
	for _, a := range actions {
		if a == core.ActionBack {
			if m.gameState.GameOver || m.gameState.Paused || m.err != nil {
				return m.leave()
			}
			continue
		}
		m.input.Press(a, now)
	}

	return m, nil
}

func (m Model) leave() (tea.Model, tea.Cmd) {
	m.saveRun()
	m.input.Release()
	if m.standalone {
		m.quitting = true
		return m, tea.Quit
	}
	m.backToMenu = true
	return m, nil
}

// handleResize keeps the world and only resizes the screen buffer.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick runs one simulation step with the wall time since the last tick.
func (m Model) handleTick(t time.Time) (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	dt := 0.0
	if !m.lastTick.IsZero() {
		dt = t.Sub(m.lastTick).Seconds()
		if dt < 0 {
			dt = 0
		}
		if dt > maxFrameDT {
			dt = maxFrameDT
		}
	}
	m.lastTick = t

	wasOver := m.gameState.GameOver
	frame := m.input.Frame(t, dt)
	result := m.game.Step(frame)
	m.gameState = result.State

	switch {
	case wasOver && !m.gameState.GameOver:
		// Restarted into a new run.
		m.runSaved = false
		m.err = nil
	case m.gameState.GameOver:
		m.saveRun()
	}

	return m, tickCmd(m.config.TickRate)
}

// saveRun records the current run once, if it has a score.
func (m *Model) saveRun() {
	if m.runSaved || m.store == nil || m.gameState.Score <= 0 {
		return
	}
	m.runSaved = true

	run := storage.Run{
		GameID: m.game.ID(),
		Player: m.player,
		Score:  m.gameState.Score,
		Seed:   m.config.Seed,
	}
	if r, ok := m.game.(registry.RunReporter); ok {
		run.FloorChanges = r.FloorChanges()
		run.Seed = r.Seed()
		run.Duration = r.Elapsed()
	}
	if _, err := m.store.SaveRun(run); err != nil {
		m.saveErr = err
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.screen.Clear()
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".tilecrawl", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// Err returns the error that kept the game from starting, if any.
func (m Model) Err() error {
	return m.err
}

// SaveErr returns the last error from recording a run.
func (m Model) SaveErr() error {
	return m.saveErr
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a standalone Bubble Tea program for game. Finished runs are
// recorded in store when it is not nil.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewModel(game, store, cfg, LocalPlayer)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.SaveErr() != nil {
		return fmt.Errorf("save run: %w", fm.SaveErr())
	}
	return nil
}
