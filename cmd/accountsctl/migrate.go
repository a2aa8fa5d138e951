package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/store/postgres"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
	"github.com/jsamuelsen11/go-accounts-service/migrations"
)

func migrateCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the postgres entity store schema",
	}

	c.AddCommand(migrateDirectionCmd(a, postgres.Up, "Apply pending schema migrations"))
	c.AddCommand(migrateDirectionCmd(a, postgres.Down, "Roll back schema migrations, most recent first"))
	return c
}

func migrateDirectionCmd(a *app, direction, short string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   direction + " [steps]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 0
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return domain.NewValidationError("steps", "must be a positive integer")
				}
				steps = n
			}

			if dryRun {
				list, err := postgres.ListMigrations(migrations.PostgresFS, migrations.PostgresDir, direction, steps)
				if err != nil {
					return err
				}
				for _, m := range list {
					fmt.Fprintln(a.out, m.Name)
				}
				return nil
			}

			cfg, err := a.config()
			if err != nil {
				return err
			}
			if cfg.Store.Postgres.DSN == "" {
				return domain.NewValidationError("store.postgres.dsn", domain.MsgRequired)
			}

			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, &cfg.Store.Postgres)
			if err != nil {
				return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
			}
			defer pool.Close()

			return postgres.Migrate(ctx, pool, migrations.PostgresFS, migrations.PostgresDir, direction, steps, a.logger)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the migrations that would run without connecting")
	return cmd
}
