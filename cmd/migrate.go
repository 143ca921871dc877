package cmd

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/qrave1/RoomRadio/internal/application/config"
	"github.com/qrave1/RoomRadio/internal/application/constant"
	"github.com/qrave1/RoomRadio/internal/infra/adapters/postgres/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <up|down|status|...> [args]",
	Short: "Manage the postgres schema of accounts and playlists",
	Long: `Accounts and playlists live in postgres and are versioned with goose.
Room state, queues and song lists live in the room store and need no migrations.`,
	Args:      cobra.MinimumNArgs(1),
	ValidArgs: []string{"up", "up-by-one", "up-to", "down", "down-to", "redo", "reset", "status", "version"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrate(cmd.Context(), args[0], args[1:])
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrate(ctx context.Context, command string, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	goose.SetBaseFS(migrations.MigrationsFS)

	if err = goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose: set dialect: %w", err)
	}

	db, err := goose.OpenDBWithDriver("pgx", cfg.Postgres.DSN())
	if err != nil {
		return fmt.Errorf("goose: open postgres: %w", err)
	}

	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("close migration connection", slog.Any(constant.Error, err))
		}
	}()

	if err = goose.RunContext(ctx, command, db, ".", args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}

	slog.Info("migrations done", slog.String("command", command))

	return nil
}
