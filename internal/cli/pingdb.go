package cli

import (
	"fmt"

	"gestion-produits/internal/config"
	"gestion-produits/internal/database"

	"github.com/spf13/cobra"
)

func newPingDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping-db",
		Short: "Check the database connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			logger := config.NewLoggerTo(cfg.Logger, cmd.ErrOrStderr())
			ctx := cmd.Context()

			pool, err := database.NewPool(ctx, cfg.Database, logger)
			if err != nil {
				return fmt.Errorf("unable to connect to database: %w", err)
			}
			defer pool.Close()

			var dbName string
			if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
				return fmt.Errorf("query failed: %w", err)
			}

			exists, err := database.TableExists(ctx, pool)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Successfully connected to database: %s\n", dbName)
			if exists {
				fmt.Fprintf(out, "Table %s: present\n", database.TableName)
			} else {
				fmt.Fprintf(out, "Table %s: missing\n", database.TableName)
			}
			return nil
		},
	}
}
