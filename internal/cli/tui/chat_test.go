package tui

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tingxin/ai-customer-assistant/internal/cli/chat"
	"github.com/tingxin/ai-customer-assistant/internal/cli/types"
)

type echoSender struct{ calls int }

func (e *echoSender) Chat(ctx context.Context, req *types.ChatRequest) (*types.ChatReply, error) {
	e.calls++
	content, _ := json.Marshal(map[string]string{"text": "echo: " + req.Message})
	return &types.ChatReply{Type: types.ChatText, Content: content}, nil
}

func newTestModel() (chatModel, *echoSender) {
	sender := &echoSender{}
	return initialModel(context.Background(), chat.New(sender, "session-1234")), sender
}

func update(m chatModel, msg tea.Msg) (chatModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(chatModel), cmd
}

func TestTabCyclesQuickReplies(t *testing.T) {
	m, _ := newTestModel()

	for i, want := range append(chat.QuickReplies, chat.QuickReplies[0]) {
		m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
		if got := m.input.Value(); got != want {
			t.Fatalf("tab %d: input = %q, want %q", i+1, got, want)
		}
	}
}

func TestEnterSendsOnce(t *testing.T) {
	m, sender := newTestModel()

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.sending {
		t.Fatal("blank input must not send")
	}

	m.input.SetValue("你好")
	m, cmd = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.sending {
		t.Fatal("expected a pending send")
	}
	if m.input.Value() != "" {
		t.Error("input should be cleared after sending")
	}

	// a second Enter while waiting is swallowed
	m.input.SetValue("again")
	if _, cmd2 := update(m, tea.KeyMsg{Type: tea.KeyEnter}); cmd2 != nil {
		t.Error("enter while sending should be ignored")
	}

	if _, err := m.session.Send(context.Background(), "你好"); err != nil {
		t.Fatal(err)
	}
	m, _ = update(m, replyMsg{})
	if m.sending {
		t.Error("reply should end the sending state")
	}
	if sender.calls != 1 {
		t.Errorf("calls = %d", sender.calls)
	}
	if !strings.Contains(m.contentView.View(), "echo: 你好") {
		t.Errorf("reply not rendered:\n%s", m.contentView.View())
	}
}

func TestViewShowsSession(t *testing.T) {
	m, _ := newTestModel()
	view := m.View()
	if !strings.Contains(view, "session-") {
		t.Errorf("status bar should show the short session id:\n%s", view)
	}
	if !strings.Contains(view, chat.QuickReplies[0]) {
		t.Error("quick replies should be visible")
	}
}
