package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools [role]",
	Short: "List the tools available to a role",
	Long: `List the tools available to a role.

Without an argument the configured role is used. Roles: entrepreneur,
investor, lender, grantor, partner.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close(ctx)

	role := rt.cfg.UserType
	if len(args) > 0 {
		role = args[0]
	}

	printTools(rt, role)
	return nil
}

// printTools lists the role's tool catalog, or every known role when
// the role has no mapping.
func printTools(rt *runtime, role string) {
	defs := rt.registry.ForUserType(role)
	if len(defs) == 0 {
		fmt.Printf("No tools mapped for role %q. Known roles: %s\n",
			role, strings.Join(rt.registry.Roles(), ", "))
		return
	}

	fmt.Printf("Tools for %s:\n", role)
	for _, def := range defs {
		fmt.Printf("  %-22s %s\n", def.Name(), def.Description())
	}
}
