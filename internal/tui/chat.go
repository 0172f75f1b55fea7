package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docchat-dev/docchat/internal/chat"
)

// ChatModel is the view model for the chat screen. It renders the
// transcript the controller feeds it through the sink and never
// mutates conversation state itself.
type ChatModel struct {
	controller *chat.Controller
	turns      []chat.Turn
	textarea   textarea.Model
	viewport   viewport.Model
	spinner    spinner.Model
	sessionID  string
	restoring  bool
	isLoading  bool
	width      int
	height     int
}

// NewChatModel creates a ChatModel bound to the given controller.
func NewChatModel(controller *chat.Controller) ChatModel {
	ta := textarea.New()
	ta.Placeholder = "Type your message... (Enter to send)"
	ta.CharLimit = 5000
	ta.SetWidth(72)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Focus()

	// Ctrl+J inserts a newline, Enter submits.
	keyMap := ta.KeyMap
	keyMap.InsertNewline = key.NewBinding(
		key.WithKeys("ctrl+j"),
		key.WithHelp("ctrl+j", "new line"),
	)
	ta.KeyMap = keyMap

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(primaryColor))

	vp := viewport.New(72, 16)

	return ChatModel{
		controller: controller,
		textarea:   ta,
		viewport:   vp,
		spinner:    sp,
		restoring:  true,
	}
}

// Init kicks off the startup restore.
func (m ChatModel) Init() tea.Cmd {
	controller := m.controller
	restore := func() tea.Msg {
		controller.Restore(context.Background())
		return RestoreDoneMsg{}
	}
	return tea.Batch(textarea.Blink, m.spinner.Tick, restore)
}

// Update handles messages for the chat view.
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case KeyCtrlC, KeyEsc:
			return m, tea.Quit

		case KeyCtrlN:
			controller := m.controller
			return m, func() tea.Msg {
				controller.StartNew(context.Background())
				return opDoneMsg{}
			}

		case KeyEnter:
			content := strings.TrimSpace(m.textarea.Value())
			if content == "" || m.isLoading {
				return m, nil
			}
			m.textarea.Reset()
			controller := m.controller
			return m, func() tea.Msg {
				controller.SendMessage(context.Background(), content)
				return opDoneMsg{}
			}
		}

	case TurnAppendedMsg:
		m.turns = append(m.turns, msg.Turn)
		m.refreshViewport()
		return m, nil

	case TranscriptResetMsg:
		m.turns = nil
		m.refreshViewport()
		return m, nil

	case LoadingChangedMsg:
		m.isLoading = msg.Loading
		if m.isLoading {
			cmds = append(cmds, m.spinner.Tick)
		}

	case SessionChangedMsg:
		m.sessionID = msg.ID
		return m, nil

	case FileUploadedMsg, UploadFailedMsg:
		// Outcome turns already arrived via TurnAppendedMsg.
		return m, nil

	case RestoreDoneMsg:
		m.restoring = false
		m.sessionID = m.controller.SessionID()
		m.refreshViewport()
		return m, nil

	case opDoneMsg:
		return m, nil

	case spinner.TickMsg:
		if m.isLoading || m.restoring {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := msg.Height - 14
		if vpHeight < 5 {
			vpHeight = 5
		}
		vpWidth := msg.Width - 8
		if vpWidth < 20 {
			vpWidth = 20
		}

		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
		m.textarea.SetWidth(vpWidth)
		m.refreshViewport()
		return m, nil
	}

	// Update textarea (only if not loading).
	if !m.isLoading {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Update viewport for scrolling.
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *ChatModel) refreshViewport() {
	m.viewport.SetContent(formatTurns(m.turns))
	m.viewport.GotoBottom()
}

// View renders the chat view.
func (m ChatModel) View() string {
	var b strings.Builder

	title := "docchat"
	if m.sessionID != "" {
		title = fmt.Sprintf("docchat · session %s", shortID(m.sessionID))
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")

	switch {
	case m.restoring:
		b.WriteString(fmt.Sprintf("%s Restoring conversation...", m.spinner.View()))
		b.WriteString("\n\n")
		b.WriteString(DimStyle.Render(m.textarea.View()))
	case m.isLoading:
		b.WriteString(fmt.Sprintf("%s Thinking...", m.spinner.View()))
		b.WriteString("\n\n")
		b.WriteString(DimStyle.Render(m.textarea.View()))
	default:
		b.WriteString(m.textarea.View())
	}

	b.WriteString("\n\n")
	b.WriteString(DimStyle.Render("Enter: Send · Ctrl+J: New line · Ctrl+N: New chat · Esc: Quit"))

	box := BoxStyle
	if m.width > 8 {
		box = box.Width(m.width - 4)
	}
	boxed := box.Render(b.String())

	contentHeight := lipgloss.Height(boxed)
	if m.height > contentHeight {
		padding := (m.height - contentHeight) / 3
		if padding > 0 {
			boxed = strings.Repeat("\n", padding) + boxed
		}
	}

	return boxed
}

// formatTurns formats the transcript for display in the viewport.
func formatTurns(turns []chat.Turn) string {
	if len(turns) == 0 {
		return DimStyle.Render("Welcome! Start a conversation or upload a PDF/image\nwith 'docchat upload' to ask questions about it.")
	}

	var b strings.Builder
	for i, turn := range turns {
		var prefix string
		var style lipgloss.Style

		switch turn.Role {
		case chat.RoleUser:
			prefix = "You: "
			style = UserStyle
		case chat.RoleAssistant:
			prefix = "Assistant: "
			style = AssistantStyle
		default:
			prefix = string(turn.Role) + ": "
			style = DimStyle
		}

		if strings.HasPrefix(turn.Content, "Error: ") {
			style = ErrorStyle
		}

		b.WriteString(style.Render(prefix))
		b.WriteString(turn.Content)

		if i < len(turns)-1 {
			b.WriteString("\n\n")
		}
	}

	return b.String()
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
