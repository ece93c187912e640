// Package chat keeps the in-memory conversation for one kbctl chat run.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tingxin/ai-customer-assistant/internal/cli/client"
	"github.com/tingxin/ai-customer-assistant/internal/cli/types"
)

// WelcomeText is the first bot message of every session
const WelcomeText = `您好！我是智能客服助手 🤖

欢迎体验我的AI服务！我会随机返回不同类型的消息：

• 文本消息
• 图片消息
• 卡片消息
• 列表消息

请随意输入任何内容，或点击下方按钮开始体验！`

const (
	// UnavailableText replaces the reply when the backend answers with an error
	UnavailableText = "抱歉，服务暂时不可用，请稍后再试。"
	// NetworkFailureText replaces the reply when the backend cannot be reached
	// or its reply cannot be read
	NetworkFailureText = "网络连接失败，请检查后端服务是否启动。"
)

// QuickReplies are the canned prompts offered under the input
var QuickReplies = []string{"你好", "显示卡片消息", "显示列表消息", "显示图片消息"}

// ErrBusy is returned when Send is called while a request is in flight
var ErrBusy = errors.New("a message is already being sent")

// Sender performs one chat exchange with the backend
type Sender interface {
	Chat(ctx context.Context, req *types.ChatRequest) (*types.ChatReply, error)
}

// Session is the message list of a single chat run. It is safe for concurrent use.
type Session struct {
	sender Sender
	id     string
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	messages []types.ChatMessage
	inFlight bool
}

// New starts a session with the welcome message. An empty id gets a fresh uuid.
func New(sender Sender, id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	s := &Session{
		sender: sender,
		id:     id,
		logger: slog.Default(),
		now:    time.Now,
	}
	s.append(types.TextContent{Text: WelcomeText}, types.SideLeft)
	return s
}

// ID returns the session id sent with every message
func (s *Session) ID() string {
	return s.id
}

// Messages returns a snapshot of the conversation in display order
func (s *Session) Messages() []types.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Busy reports whether a request is in flight
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Send appends the user's message, asks the backend once and appends the reply.
// Blank input is ignored. Backend failures become a bot message, never an error;
// the returned message is whatever was appended on the bot side.
func (s *Session) Send(ctx context.Context, text string) (*types.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.inFlight = true
	s.messages = append(s.messages, types.ChatMessage{
		Content: types.TextContent{Text: text},
		Side:    types.SideRight,
		At:      s.now(),
	})
	s.mu.Unlock()

	content := s.exchange(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	msg := types.ChatMessage{Content: content, Side: types.SideLeft, At: s.now()}
	s.messages = append(s.messages, msg)
	return &msg, nil
}

func (s *Session) exchange(ctx context.Context, text string) types.ChatContent {
	reply, err := s.sender.Chat(ctx, &types.ChatRequest{Message: text, SessionID: s.id})
	if err != nil {
		s.logger.DebugContext(ctx, "chat request failed", "session", s.id, "error", err)
		if client.IsTransport(err) || client.IsDecode(err) {
			return types.TextContent{Text: NetworkFailureText}
		}
		return types.TextContent{Text: UnavailableText}
	}

	// an unreadable payload is treated like an unreadable body
	content, err := reply.Decode()
	if err != nil {
		s.logger.DebugContext(ctx, "failed to decode chat reply", "type", reply.Type, "error", err)
		return types.TextContent{Text: NetworkFailureText}
	}
	return content
}

func (s *Session) append(content types.ChatContent, side types.ChatSide) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, types.ChatMessage{Content: content, Side: side, At: s.now()})
}
