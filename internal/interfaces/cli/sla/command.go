package sla

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civicpulse/civicpulse/internal/application/complaint/usecases"
	"github.com/civicpulse/civicpulse/internal/infrastructure/database"
	"github.com/civicpulse/civicpulse/internal/infrastructure/repository"
	"github.com/civicpulse/civicpulse/internal/interfaces/cli/bootstrap"
	"github.com/civicpulse/civicpulse/internal/shared/db"
)

var (
	env        string
	configPath string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sla",
		Short: "SLA maintenance commands",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(&cobra.Command{
		Use:   "scan",
		Short: "Escalate every open complaint past its expected resolution date",
		Long:  `Run one SLA scan outside the server schedule, for cron or manual catch-up.`,
		RunE:  runScan,
	})

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	e, err := bootstrap.LoadWithDatabase(env, configPath)
	if err != nil {
		return err
	}
	defer database.Close()

	gdb := database.Get()
	scan := usecases.NewScanSLAsUseCase(
		repository.NewComplaintRepository(gdb),
		repository.NewComplaintActivityRepository(gdb),
		db.NewTransactionManager(gdb),
		usecases.NopMetrics(),
		e.Log,
	)

	escalated, err := scan.Execute(context.Background())
	if err != nil {
		return fmt.Errorf("sla scan failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "SLA scan complete. %d complaints escalated.\n", escalated)
	return nil
}
