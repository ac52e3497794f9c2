package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/venturely/venturely/internal/conversation"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation with the copilot",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close(ctx)

	fmt.Printf("Venturely copilot (%s). Type /help for commands, /quit to exit.\n\n", rt.cfg.UserType)

	if history := rt.store.Messages(); len(history) > 0 {
		fmt.Printf("Restored %d messages from your previous session. /history to review.\n\n", len(history))
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := runSlashCommand(ctx, rt, line); quit {
				return nil
			}
			continue
		}

		ask(ctx, rt, line)
	}
}

// ask drives one streaming turn, printing chunks as they arrive.
func ask(ctx context.Context, rt *runtime, content string) {
	printed := 0
	rt.store.SetChunkObserver(func(text string) {
		fmt.Print(text)
		printed++
	})
	defer rt.store.SetChunkObserver(nil)

	fmt.Println()
	err := rt.store.SendMessage(ctx, content, nil)

	switch {
	case err == nil:
		messages := rt.store.Messages()
		// A response that settled without chunks still gets printed.
		if printed == 0 && len(messages) > 0 {
			fmt.Print(messages[len(messages)-1].Content)
		}
		fmt.Println()
		fmt.Println()
		printTurnExtras(messages)
	case errors.Is(err, conversation.ErrTurnInFlight):
		fmt.Fprintln(os.Stderr, "A response is still streaming; wait for it to finish.")
	default:
		fmt.Println()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

// runSlashCommand dispatches REPL commands. Returns true to exit.
func runSlashCommand(ctx context.Context, rt *runtime, line string) bool {
	command, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")

	switch command {
	case "quit", "exit", "q":
		return true

	case "help":
		fmt.Println(`Commands:
  /history        show the conversation so far
  /clear          clear the conversation history
  /regenerate     discard the last answer and re-ask
  /delete <id>    remove one message by identifier
  /suggestions    show suggested prompts for your role
  /tools          list the tools available to your role
  /quit           exit`)

	case "history":
		messages := rt.store.Messages()
		if len(messages) == 0 {
			fmt.Println("No messages yet.")
			break
		}
		for _, msg := range messages {
			fmt.Printf("[%s] %s (%s)\n    %s\n",
				msg.Timestamp.Format("15:04:05"), msg.Role, msg.ID, msg.Content)
		}

	case "clear":
		rt.store.ClearHistory()
		fmt.Println("History cleared.")

	case "regenerate":
		rt.store.SetChunkObserver(func(text string) { fmt.Print(text) })
		fmt.Println()
		err := rt.store.RegenerateLastResponse(ctx)
		rt.store.SetChunkObserver(nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		fmt.Println()
		fmt.Println()
		printTurnExtras(rt.store.Messages())

	case "delete":
		if arg == "" {
			fmt.Fprintln(os.Stderr, "Usage: /delete <message-id>")
			break
		}
		rt.store.DeleteMessage(arg)

	case "suggestions":
		for _, s := range rt.client.Suggestions(ctx) {
			fmt.Printf("  - %s\n", s)
		}

	case "tools":
		printTools(rt, rt.cfg.UserType)

	default:
		fmt.Fprintf(os.Stderr, "Unknown command /%s. Try /help.\n", command)
	}

	return false
}

// printTurnExtras prints insights and follow-up suggestions from the
// just-settled assistant message.
func printTurnExtras(messages []conversation.Message) {
	if len(messages) == 0 {
		return
	}
	last := messages[len(messages)-1]
	if last.Role != conversation.RoleAssistant {
		return
	}

	for _, insight := range last.Insights {
		fmt.Printf("  [%s/%s] %s: %s\n", insight.Type, insight.Priority, insight.Title, insight.Description)
	}
	if len(last.Suggestions) > 0 {
		fmt.Println("  You could ask:")
		for _, s := range last.Suggestions {
			fmt.Printf("    - %s\n", s)
		}
	}
}
