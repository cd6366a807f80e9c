package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/summarizetube/summarizetube-backend/internal/conversation"
	"github.com/summarizetube/summarizetube-backend/internal/services"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the configured model",
	Long: `Start an interactive chat. Replies stream as they arrive. Blank lines are
ignored; type "exit" or press Ctrl-D to leave.

Use 'tubesum summarize <link> --chat' to ask questions about a video.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, err := buildServices(ctx)
	if err != nil {
		return fmt.Errorf("init services: %w", err)
	}
	defer svc.Close()

	session := svc.Sessions.Create()
	return chatLoop(ctx, svc, session.ID(), cmd.InOrStdin(), cmd.OutOrStdout())
}

// chatLoop reads one message per line and streams each reply to out. A
// failed reply is reported and the loop continues.
func chatLoop(ctx context.Context, svc *services.Services, sessionID string, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, hintStyle.Render(`Ask me anything. Type "exit" to quit.`))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, youStyle.Render("You: "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case "exit", "quit":
			return nil
		}

		started := false
		_, err := svc.Chat.Send(ctx, sessionID, line, func(delta string) error {
			if !started {
				fmt.Fprint(out, botStyle.Render("Bot: "))
				started = true
			}
			_, err := fmt.Fprint(out, delta)
			return err
		})
		switch {
		case errors.Is(err, conversation.ErrEmptyInput):
			continue
		case err != nil:
			if started {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, errorStyle.Render("Error: "+err.Error()))
			if ctx.Err() != nil {
				return ctx.Err()
			}
		default:
			fmt.Fprintln(out)
		}
	}
}
