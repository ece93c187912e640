package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tingxin/ai-customer-assistant/internal/cli/chat"
	"github.com/tingxin/ai-customer-assistant/internal/cli/ui"
)

// UI configuration constants
const (
	defaultInputWidth      = 100
	defaultViewportWidth   = 100
	defaultViewportHeight  = 30
	defaultWindowWidth     = 100
	defaultWindowHeight    = 40
	inputCharLimit         = 4000
	inputHeightReserved    = 3
	statusHeightReserved   = 3
	minContentHeight       = 10
	sessionIDDisplayLength = 8
)

var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	chipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	activeChip  = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("63")).Padding(0, 1)
)

// ChatProgram encapsulates the chat TUI program
type ChatProgram struct {
	model chatModel
}

// NewChatProgram creates a new chat program instance
func NewChatProgram(ctx context.Context, session *chat.Session) *ChatProgram {
	return &ChatProgram{model: initialModel(ctx, session)}
}

// Run starts the chat TUI program
func (p *ChatProgram) Run() error {
	program := tea.NewProgram(p.model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// chatModel is the Bubble Tea model containing all chat interface state
type chatModel struct {
	ctx     context.Context
	session *chat.Session

	input       textinput.Model
	contentView viewport.Model
	spinner     spinner.Model

	sending    bool
	err        error
	quickIndex int // -1 when no quick reply is selected

	width  int
	height int
}

// initialModel creates the initial chat model
func initialModel(ctx context.Context, session *chat.Session) chatModel {
	input := textinput.New()
	input.Placeholder = "输入任何内容体验AI回复..."
	input.Focus()
	input.CharLimit = inputCharLimit
	input.Width = defaultInputWidth
	input.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	m := chatModel{
		ctx:         ctx,
		session:     session,
		input:       input,
		contentView: viewport.New(defaultViewportWidth, defaultViewportHeight),
		spinner:     sp,
		quickIndex:  -1,
		width:       defaultWindowWidth,
		height:      defaultWindowHeight,
	}
	m.refreshContent()
	return m
}

// Init initializes the model (Bubble Tea interface)
func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

// replyMsg signals that Session.Send returned
type replyMsg struct{ err error }

// Update processes messages and updates the model (Bubble Tea interface)
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := m.handleKeyPress(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)

	case spinner.TickMsg:
		if !m.sending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshContent()
		return m, cmd

	case replyMsg:
		m.sending = false
		m.err = msg.err
		m.input.Focus()
		m.refreshContent()
	}

	// input stays frozen while a reply is pending
	if !m.sending {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input. handled reports whether the key was consumed.
func (m *chatModel) handleKeyPress(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return tea.Quit, true

	case tea.KeyEnter:
		if m.sending {
			return nil, true
		}
		return m.send(m.input.Value()), true

	case tea.KeyTab:
		if !m.sending {
			m.nextQuickReply()
		}
		return nil, true

	case tea.KeyUp:
		m.contentView.LineUp(1)
		return nil, true

	case tea.KeyDown:
		m.contentView.LineDown(1)
		return nil, true

	case tea.KeyPgUp:
		m.contentView.ViewUp()
		return nil, true

	case tea.KeyPgDown:
		m.contentView.ViewDown()
		return nil, true
	}

	// typing drops the quick reply selection
	m.quickIndex = -1
	return nil, false
}

// nextQuickReply fills the input with the next canned prompt
func (m *chatModel) nextQuickReply() {
	m.quickIndex = (m.quickIndex + 1) % len(chat.QuickReplies)
	m.input.SetValue(chat.QuickReplies[m.quickIndex])
	m.input.CursorEnd()
}

// send starts one exchange; blank input is ignored
func (m *chatModel) send(text string) tea.Cmd {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	m.input.Reset()
	m.input.Blur()
	m.quickIndex = -1
	m.sending = true

	session, ctx := m.session, m.ctx
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			_, err := session.Send(ctx, text)
			return replyMsg{err: err}
		},
	)
}

// handleWindowResize handles window size changes
func (m *chatModel) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	contentHeight := msg.Height - inputHeightReserved - statusHeightReserved
	if contentHeight < minContentHeight {
		contentHeight = minContentHeight
	}

	m.contentView.Width = msg.Width
	m.contentView.Height = contentHeight
	m.input.Width = msg.Width - 3

	m.refreshContent()
}

// refreshContent re-renders the conversation into the viewport
func (m *chatModel) refreshContent() {
	display := ui.RenderConversation(m.session.Messages(), m.width)
	if m.sending {
		display += "\n\n" + m.spinner.View() + dimStyle.Render(" 等待回复...")
	}
	if m.err != nil {
		display += "\n\n" + errorStyle.Render(fmt.Sprintf("错误: %v", m.err))
	}
	m.contentView.SetContent(display)
	m.contentView.GotoBottom()
}

func (m chatModel) quickReplyBar() string {
	chips := make([]string, 0, len(chat.QuickReplies))
	for i, q := range chat.QuickReplies {
		if i == m.quickIndex {
			chips = append(chips, activeChip.Render(q))
		} else {
			chips = append(chips, chipStyle.Render(q))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

// View renders the UI (Bubble Tea interface)
func (m chatModel) View() string {
	id := m.session.ID()
	if len(id) > sessionIDDisplayLength {
		id = id[:sessionIDDisplayLength]
	}
	status := accentStyle.Render("智能客服") + dimStyle.Render(fmt.Sprintf(" • 会话 %s", id))
	if m.sending {
		status += dimStyle.Render(" • 回复中...")
	}

	var inputView string
	if m.sending {
		inputView = dimStyle.Render("> 等待回复完成...")
	} else {
		inputView = promptStyle.Render("> ") + m.input.View()
	}

	help := dimStyle.Render("Enter 发送 • Tab 快捷回复 • ↑↓ 滚动 • Esc 退出")

	return lipgloss.JoinVertical(lipgloss.Left,
		status,
		"",
		m.contentView.View(),
		"",
		m.quickReplyBar(),
		inputView,
		help,
	)
}
