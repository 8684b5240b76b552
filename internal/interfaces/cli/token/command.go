package token

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	"github.com/civicpulse/civicpulse/internal/infrastructure/auth"
	"github.com/civicpulse/civicpulse/internal/infrastructure/database"
	"github.com/civicpulse/civicpulse/internal/infrastructure/repository"
	"github.com/civicpulse/civicpulse/internal/interfaces/cli/bootstrap"
	"github.com/civicpulse/civicpulse/internal/shared/authorization"
)

var (
	env        string
	configPath string
	userID     uint
	userName   string
	role       string
)

// NewCommand issues access tokens. Identity lives outside CivicPulse, so
// operators mint tokens for demo users and integration tests with it.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token",
		Long:  `Register a citizen (when --role=citizen) and print a signed bearer token for it.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().UintVar(&userID, "user-id", 0, "User ID (required)")
	cmd.Flags().StringVar(&userName, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&role, "role", string(authorization.RoleCitizen), "Role: citizen or admin")
	_ = cmd.MarkFlagRequired("user-id")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	userRole := authorization.UserRole(role)
	if !userRole.IsValid() {
		return fmt.Errorf("invalid role %q", role)
	}

	e, err := bootstrap.LoadWithDatabase(env, configPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if userRole == authorization.RoleCitizen {
		citizen, err := complaint.NewCitizen(userID, userName)
		if err != nil {
			return err
		}
		if err := repository.NewCitizenRepository(database.Get()).Upsert(context.Background(), citizen); err != nil {
			return fmt.Errorf("failed to register citizen: %w", err)
		}
	}

	jwtSvc := auth.NewJWTService(e.Config.Auth.JWT.Secret, e.Config.Auth.JWT.AccessExpMinutes)
	issued, err := jwtSvc.Generate(userID, userName, userRole)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	e.Log.Infow("issued access token", "user_id", userID, "role", userRole)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, issued.Token)
	fmt.Fprintf(out, "expires at %s\n", issued.ExpiresAt.Format(time.RFC3339))
	return nil
}
