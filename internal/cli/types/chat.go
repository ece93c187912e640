package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// ChatContentKind is the rendering discriminator of a chat reply
type ChatContentKind string

const (
	ChatText  ChatContentKind = "text"
	ChatImage ChatContentKind = "image"
	ChatCard  ChatContentKind = "card"
	ChatList  ChatContentKind = "list"
)

// ChatRequest represents a chat request
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatReply represents the raw reply of the chat endpoint
type ChatReply struct {
	Type      ChatContentKind `json:"type"`
	Content   json.RawMessage `json:"content"`
	Timestamp *Time           `json:"timestamp,omitempty"`
}

// ChatContent is one of TextContent, ImageContent, CardContent or ListContent
type ChatContent interface {
	Kind() ChatContentKind
}

// TextContent is a plain text bubble
type TextContent struct {
	Text string `json:"text"`
}

// ImageContent is a single picture
type ImageContent struct {
	PicURL string `json:"picUrl"`
}

// CardAction is a button attached to a card
type CardAction struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

// CardContent is a titled card with optional image and actions
type CardContent struct {
	Title   string       `json:"title"`
	Desc    string       `json:"desc"`
	Img     string       `json:"img,omitempty"`
	Actions []CardAction `json:"actions,omitempty"`
}

// ListHeader is the heading of a list reply
type ListHeader struct {
	Title string `json:"title"`
}

// ListItem is one row of a list reply
type ListItem struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// ListContent is a header followed by rows
type ListContent struct {
	Header ListHeader `json:"header"`
	Items  []ListItem `json:"items"`
}

func (TextContent) Kind() ChatContentKind  { return ChatText }
func (ImageContent) Kind() ChatContentKind { return ChatImage }
func (CardContent) Kind() ChatContentKind  { return ChatCard }
func (ListContent) Kind() ChatContentKind  { return ChatList }

// Decode converts the raw reply into its typed content.
// Unknown types are rendered as text.
func (r ChatReply) Decode() (ChatContent, error) {
	switch r.Type {
	case ChatImage:
		var c ImageContent
		if err := sonic.Unmarshal(r.Content, &c); err != nil {
			return nil, fmt.Errorf("failed to decode image content: %w", err)
		}
		return c, nil
	case ChatCard:
		var c CardContent
		if err := sonic.Unmarshal(r.Content, &c); err != nil {
			return nil, fmt.Errorf("failed to decode card content: %w", err)
		}
		return c, nil
	case ChatList:
		var c ListContent
		if err := sonic.Unmarshal(r.Content, &c); err != nil {
			return nil, fmt.Errorf("failed to decode list content: %w", err)
		}
		return c, nil
	default:
		return decodeText(r.Content), nil
	}
}

// decodeText reads {"text": ...}, then a bare string, then falls back to the raw payload
func decodeText(raw json.RawMessage) TextContent {
	var c TextContent
	if err := sonic.Unmarshal(raw, &c); err == nil && c.Text != "" {
		return c
	}
	var s string
	if err := sonic.Unmarshal(raw, &s); err == nil {
		return TextContent{Text: s}
	}
	return TextContent{Text: string(raw)}
}

// ChatSide tells which side of the conversation a message is on
type ChatSide string

const (
	SideLeft  ChatSide = "left"  // bot
	SideRight ChatSide = "right" // user
)

// ChatMessage is a message shown in the current chat session. Never persisted.
type ChatMessage struct {
	Content ChatContent
	Side    ChatSide
	At      time.Time
}

// Kind returns the discriminator of the message content
func (m ChatMessage) Kind() ChatContentKind {
	if m.Content == nil {
		return ChatText
	}
	return m.Content.Kind()
}
