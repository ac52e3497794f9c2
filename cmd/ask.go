package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/venturely/venturely/internal/agent"
)

var askUserType string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the copilot a single question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askUserType, "as", "", "override the configured role for this question")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close(ctx)

	question := strings.Join(args, " ")

	resp, err := rt.client.SendMessage(ctx, question, &agent.Options{UserType: askUserType})
	if err != nil {
		return err
	}

	fmt.Println(resp.Content)

	for _, insight := range resp.Insights {
		fmt.Printf("\n[%s/%s] %s: %s\n", insight.Type, insight.Priority, insight.Title, insight.Description)
	}
	if len(resp.Suggestions) > 0 {
		fmt.Println("\nYou could ask:")
		for _, s := range resp.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}
	return nil
}
