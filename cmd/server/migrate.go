package main

import (
	"fmt"

	"github.com/phrazzld/flipdeck/internal/platform/postgres"
	"github.com/spf13/cobra"
)

// migrationCommands are the goose commands exposed by "migrate".
var migrationCommands = []string{"up", "down", "status", "version", "redo", "reset"}

func newMigrateCmd(configPath *string) *cobra.Command {
	migrate := &cobra.Command{Use: "migrate", Short: "Manage the database schema"}

	for _, command := range migrationCommands {
		migrate.AddCommand(&cobra.Command{
			Use:   command,
			Short: fmt.Sprintf("Run goose %s with the embedded migrations", command),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, log, err := loadConfigAndLogger(*configPath)
				if err != nil {
					return err
				}
				db, err := openDatabase(cmd.Context(), cfg.Database, log)
				if err != nil {
					return err
				}
				defer func() { _ = db.Close() }()

				if err := postgres.Migrate(cmd.Context(), db, log, command); err != nil {
					return err
				}
				log.Info("migration command finished", "command", command)
				return nil
			},
		})
	}

	var dir string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new SQL migration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := postgres.CreateMigration(dir, args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created migration %s in %s\n", args[0], dir)
			return nil
		},
	}
	create.Flags().StringVar(&dir, "dir", "internal/platform/postgres/migrations", "migrations directory")
	migrate.AddCommand(create)

	return migrate
}
