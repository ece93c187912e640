package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tingxin/ai-customer-assistant/internal/cli/chat"
	"github.com/tingxin/ai-customer-assistant/internal/cli/tui"
	"github.com/tingxin/ai-customer-assistant/internal/cli/ui"
)

const oneShotWidth = 80

var chatMessage string

// chatCmd is the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "chat with the customer-service assistant",
	Long: `Start an interactive chat session with the customer-service assistant.

The assistant replies with text, image, card or list messages. The
conversation lives only for this session and is never saved.`,
	Example: `  # Start interactive chat
  $ kbctl chat

  # Send one message and print the reply
  $ kbctl chat -m 你好

  # Keyboard controls:
  • 输入消息按 Enter 发送
  • Tab 切换快捷回复
  • Esc 退出会话`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send a single message instead of starting the TUI")
	chatCmd.SilenceUsage = true
}

func runChat(cmd *cobra.Command, args []string) error {
	oneShot := cmd.Flags().Changed("message")
	newRT := setupFullScreen
	if oneShot {
		newRT = setup
	}
	rt, err := newRT(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := rt.ctx(cmd)
	session := chat.New(rt.api, "")
	rt.log.Debug("chat session started", "session", session.ID())

	if oneShot {
		if strings.TrimSpace(chatMessage) == "" {
			ui.PrintError("message must not be empty")
			return fmt.Errorf("invalid arguments")
		}
		if _, err := session.Send(ctx, chatMessage); err != nil {
			return rt.fail("发送消息", err)
		}
		// skip the welcome message
		msgs := session.Messages()
		ui.PrintChatWelcomeBanner()
		ui.Println(ui.RenderConversation(msgs[1:], oneShotWidth))
		return nil
	}

	program := tui.NewChatProgram(ctx, session)
	if err := program.Run(); err != nil {
		return fmt.Errorf("failed to run chat TUI: %w", err)
	}

	return nil
}
