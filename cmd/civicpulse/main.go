package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/civicpulse/civicpulse/internal/interfaces/cli/migrate"
	"github.com/civicpulse/civicpulse/internal/interfaces/cli/server"
	"github.com/civicpulse/civicpulse/internal/interfaces/cli/sla"
	"github.com/civicpulse/civicpulse/internal/interfaces/cli/token"
	"github.com/civicpulse/civicpulse/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "civicpulse",
		Short:        "CivicPulse - municipal complaint triage",
		Long:         `CivicPulse collects citizen complaints, classifies and deduplicates them, and escalates the ones that miss their resolution deadline.`,
		Version:      version.String(),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		sla.NewCommand(),
		token.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
