package command

import (
	"fmt"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/server/auth"
	"github.com/dmitrijs2005/docarchive/internal/server/config"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
	"github.com/spf13/cobra"
)

// NewTokenCommand prints a signed identity token. It stands in for the
// external identity provider during development.
func NewTokenCommand(load func() *config.Config) *cobra.Command {
	var (
		userID int64
		role   string
	)

	cmd := &cobra.Command{
		Use:                "token",
		Short:              "Print a signed access token for a user",
		FParseErrWhitelist: tolerateConfigFlags,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID <= 0 {
				return fmt.Errorf("%w: --user-id must be positive", common.ErrorValidation)
			}
			if !models.Role(role).Valid() {
				return fmt.Errorf("%w: unknown role %q", common.ErrorValidation, role)
			}

			cfg := load()
			token, err := auth.GenerateToken(userID, role, []byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
			if err != nil {
				return fmt.Errorf("error signing token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user-id", 0, "user the token identifies")
	cmd.Flags().StringVar(&role, "role", string(models.RoleClient), "role claim (admin or client)")

	return cmd
}
