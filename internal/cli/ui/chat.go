package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tingxin/ai-customer-assistant/internal/cli/types"
)

const (
	botName       = "客服"
	userName      = "You"
	minBubbleText = 10
)

// RenderChatContent renders the body of a chat message without the bubble frame
func RenderChatContent(content types.ChatContent) string {
	switch c := content.(type) {
	case types.TextContent:
		return c.Text
	case types.ImageContent:
		return "[图片] " + Styles.Link.Render(c.PicURL)
	case types.CardContent:
		return renderCard(c)
	case types.ListContent:
		return renderList(c)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", c)
	}
}

func renderCard(c types.CardContent) string {
	var lines []string
	if c.Img != "" {
		lines = append(lines, "[图片] "+Styles.Link.Render(c.Img))
	}
	lines = append(lines, Styles.CardTitle.Render(c.Title))
	if c.Desc != "" {
		lines = append(lines, Styles.Key.Render(c.Desc))
	}
	if len(c.Actions) > 0 {
		buttons := make([]string, 0, len(c.Actions))
		for _, a := range c.Actions {
			if a.URL != "" {
				buttons = append(buttons, fmt.Sprintf("[%s](%s)", a.Text, Styles.Link.Render(a.URL)))
			} else {
				buttons = append(buttons, fmt.Sprintf("[%s]", a.Text))
			}
		}
		lines = append(lines, strings.Join(buttons, " "))
	}
	return strings.Join(lines, "\n")
}

func renderList(c types.ListContent) string {
	lines := []string{Styles.Bold.Render(c.Header.Title)}
	for _, item := range c.Items {
		row := strings.TrimSpace(item.Icon + " " + Styles.Bold.Render(item.Title))
		if item.Desc != "" {
			row += " — " + Styles.Key.Render(item.Desc)
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

// RenderChatMessage renders one message as a bubble. Bot messages sit on the
// left, user messages are right aligned within width.
func RenderChatMessage(msg types.ChatMessage, width int) string {
	bubbleWidth := width * 3 / 4
	body := RenderChatContent(msg.Content)
	if bubbleWidth > minBubbleText {
		// border and padding take four columns
		body = WrapText(body, bubbleWidth-4)
	}

	if msg.Side == types.SideRight {
		block := lipgloss.JoinVertical(lipgloss.Right,
			Styles.Bold.Render(userName),
			Styles.UserBubble.Render(body),
		)
		if width <= 0 {
			return block
		}
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		Styles.Accent.Render(botName),
		Styles.BotBubble.Render(body),
	)
}

// RenderConversation renders every message separated by a blank line
func RenderConversation(msgs []types.ChatMessage, width int) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, RenderChatMessage(m, width))
	}
	return strings.Join(parts, "\n\n")
}

// WrapText wraps every line to maxWidth display columns, counting wide runes
// as two columns. ANSI sequences are kept intact.
func WrapText(text string, maxWidth int) string {
	if maxWidth <= minBubbleText {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = wrapLine(line, maxWidth)
	}
	return strings.Join(lines, "\n")
}

func wrapLine(line string, maxWidth int) string {
	if lipgloss.Width(line) <= maxWidth {
		return line
	}

	var result, current strings.Builder
	width := 0
	inEscape := false

	for _, r := range line {
		if r == '\x1b' {
			inEscape = true
		}
		if inEscape {
			current.WriteRune(r)
			if r == 'm' {
				inEscape = false
			}
			continue
		}

		w := runewidth.RuneWidth(r)
		if width+w > maxWidth && width > 0 {
			result.WriteString(current.String())
			result.WriteString("\n")
			current.Reset()
			width = 0
		}
		current.WriteRune(r)
		width += w
	}
	result.WriteString(current.String())

	return result.String()
}
