// Package tui is the terminal seat at a euchre table. A Model renders
// the game log and prompts; a ConsolePlayer bridges the engine's
// blocking Player interface to the Bubble Tea event loop.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/natelac/euchrego/internal/deck"
	"github.com/natelac/euchrego/internal/game"
)

// Model represents the Bubble Tea model for the euchre table
type Model struct {
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog     []string
	inputResult chan string
	quitSignal  chan bool
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Action pane state, written by the ConsolePlayer
	hand   []deck.Card
	prompt string
	hints  string

	// Sidebar state
	scores []game.TeamScore
	trump  *deck.Suit
	dealer string
	trick  int

	// Dimensions
	width       int
	height      int
	initialized bool

	// Test mode
	testMode    bool
	capturedLog []string

	program *tea.Program
}

// QuitMsg is a custom message to signal quit
type QuitMsg struct{}

// refreshMsg forces a render after state pushed from the engine
// goroutine
type refreshMsg struct{}

// NewModel creates a new TUI model
func NewModel(logger *log.Logger) *Model {
	return NewModelWithOptions(logger, false)
}

// NewModelWithOptions creates a new TUI model with test mode option
func NewModelWithOptions(logger *log.Logger, testMode bool) *Model {
	if termenv.EnvNoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	// Sized properly when the first WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Waiting for the table..."
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &Model{
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		gameLog:     []string{},
		inputResult: make(chan string, 1),
		quitSignal:  make(chan bool, 1),
		focusedPane: 1,
		testMode:    testMode,
		capturedLog: []string{},
	}
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listenForQuit())
}

func (m *Model) listenForQuit() tea.Cmd {
	return func() tea.Msg {
		<-m.quitSignal
		return QuitMsg{}
	}
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case refreshMsg:
		// Re-render with whatever the engine goroutine pushed

	case QuitMsg:
		m.quitting = true
		return m, tea.Sequence(tea.ClearScreen, tea.Quit)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			m.submitInput("quit")
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				m.submitInput(strings.TrimSpace(m.actionInput.Value()))
				m.actionInput.SetValue("")
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionWidth := max(m.width-2, 1)
	actionInnerHeight := max(actionHeight-2, 1)

	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(actionWidth).
		Height(actionInnerHeight)
	actionPane := actionStyle.Render(actionContent)

	// Sidebar pane (right side of log pane)
	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 22)
	sidebarHeight := max(m.height-actionHeight-4, 1)

	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(sidebarHeight)
	sidebarPane := sidebarStyle.Render(sidebarContent)

	// Log pane (top, fills the rest)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	logWidth := max(m.width-sidebarWidth-4, 1)
	logHeight := max(m.height-actionHeight-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = logHeight

	if !m.initialized && logWidth > 1 && logHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(logHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane creates the score and round summary
func (m *Model) renderSidebarPane() string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render(" Score "))
	content.WriteString("\n")
	for _, score := range m.scores {
		content.WriteString(fmt.Sprintf("Team %s: %d\n", score.Name, score.Points))
		for _, name := range score.Players {
			content.WriteString(InfoStyle.Render("  " + name))
			content.WriteString("\n")
		}
	}
	content.WriteString("\n")

	if m.trump != nil {
		content.WriteString(WarningStyle.Render(fmt.Sprintf("Trump: %s %s", m.trump.Symbol(), m.trump.Name())))
		content.WriteString("\n")
	}
	if m.dealer != "" {
		content.WriteString(fmt.Sprintf("Dealer: %s\n", m.dealer))
	}
	if m.trick > 0 {
		content.WriteString(fmt.Sprintf("Trick %d of 5\n", m.trick))
	}

	return content.String()
}

// renderActionPane renders the hand, the pending prompt, and the input
func (m *Model) renderActionPane() string {
	var content strings.Builder

	if len(m.hand) > 0 {
		content.WriteString(HandInfoStyle.Render("Hand: "))
		content.WriteString(m.formatHand())
		content.WriteString("\n")
	}

	if m.prompt != "" {
		content.WriteString(PromptStyle.Render(m.prompt))
		if m.hints != "" {
			content.WriteString("  ")
			content.WriteString(InfoStyle.Render(m.hints))
		}
		content.WriteString("\n")
		m.actionInput.Placeholder = ""
	} else {
		m.actionInput.Placeholder = "Waiting for the table..."
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.focusedPane == 0 {
		content.WriteString(InfoStyle.Render(
			"Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		content.WriteString(InfoStyle.Render(
			"Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}

	return content.String()
}

// formatHand renders the hand numbered for selection, colored by suit
func (m *Model) formatHand() string {
	var formatted []string
	for i, card := range m.hand {
		label := fmt.Sprintf("%d:%s", i+1, card.String())
		if card.Suit.IsRed() {
			formatted = append(formatted, RedCardStyle.Render(label))
		} else {
			formatted = append(formatted, BlackCardStyle.Render(label))
		}
	}
	return strings.Join(formatted, " ")
}

// AddLogEntry adds an entry to the game log
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
	m.refresh()
}

// SetProgram attaches the running program so state pushed from the
// engine goroutine triggers a render
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

func (m *Model) refresh() {
	if m.program != nil {
		m.program.Send(refreshMsg{})
	}
}

// SetHand updates the hand shown in the action pane
func (m *Model) SetHand(hand []deck.Card) {
	m.hand = hand
	m.refresh()
}

// SetPrompt shows a pending question above the input field. An empty
// prompt clears it.
func (m *Model) SetPrompt(prompt, hints string) {
	m.prompt = prompt
	m.hints = hints
	m.refresh()
}

// SetScores updates the sidebar score table
func (m *Model) SetScores(scores []game.TeamScore) {
	m.scores = scores
}

// SetTrump updates the sidebar trump display. A nil suit clears it
// between rounds.
func (m *Model) SetTrump(trump *deck.Suit) {
	m.trump = trump
}

// SetDealer updates the sidebar dealer display
func (m *Model) SetDealer(dealer string) {
	m.dealer = dealer
}

// SetTrick updates the sidebar trick counter, 1 through 5
func (m *Model) SetTrick(trick int) {
	m.trick = trick
}

func (m *Model) submitInput(input string) {
	select {
	case m.inputResult <- input:
	default:
		// Nobody is waiting on an answer
	}
}

// WaitForInput blocks until the user submits a line
func (m *Model) WaitForInput() string {
	return <-m.inputResult
}

// SendQuitSignal signals the TUI to quit gracefully
func (m *Model) SendQuitSignal() {
	select {
	case m.quitSignal <- true:
	default:
	}
}

// InjectInput programmatically submits a line (test mode only)
func (m *Model) InjectInput(input string) error {
	if !m.testMode {
		return fmt.Errorf("input injection only available in test mode")
	}
	select {
	case m.inputResult <- input:
		return nil
	default:
		return fmt.Errorf("input channel full")
	}
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *Model) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}
