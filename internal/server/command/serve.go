package command

import (
	"github.com/dmitrijs2005/docarchive/internal/server"
	"github.com/dmitrijs2005/docarchive/internal/server/config"
	"github.com/spf13/cobra"
)

func NewServeCommand(load func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:                "serve",
		Short:              "Run migrations and serve the JSON API",
		FParseErrWhitelist: tolerateConfigFlags,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := server.NewApp(cmd.Context(), load())
			if err != nil {
				return err
			}
			app.Run(cmd.Context())
			return nil
		},
	}
}

func NewMigrateCommand(load func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:                "migrate",
		Short:              "Apply pending database migrations and exit",
		FParseErrWhitelist: tolerateConfigFlags,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := server.Migrate(cmd.Context(), load()); err != nil {
				return err
			}
			cmd.Println("migrations applied")
			return nil
		},
	}
}
