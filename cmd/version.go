package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venturely/venturely/internal/config"
)

// Version information (injected at build time via ldflags).
var (
	AppVersion = "development"
	BuildTime  = "unknown"
	GitCommit  = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion() error {
	fmt.Printf("Venturely %s\n", AppVersion)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)

	cfg, err := config.Load()
	if err != nil {
		// Version must work even with a broken config.
		fmt.Printf("\nConfiguration: unavailable (%v)\n", err)
		return nil
	}

	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("  Agent: %s\n", cfg.AgentBaseURL)
	fmt.Printf("  Role: %s\n", cfg.UserType)
	fmt.Printf("  Storage: %s\n", cfg.StorageDir)
	fmt.Printf("  Tracing: %v\n", cfg.TracingEnabled)
	return nil
}
