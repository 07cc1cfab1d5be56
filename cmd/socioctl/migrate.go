package main

import (
	"fmt"

	"github.com/dangerclosesec/socioplus/internal/database"
	"github.com/spf13/cobra"
)

var downSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *database.Migrator) error {
			return m.Up()
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *database.Migrator) error {
			return m.Down(downSteps)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied migration version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *database.Migrator) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return nil
		})
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&downSteps, "steps", 1, "Number of migrations to roll back, 0 for all")

	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}

func withMigrator(fn func(*database.Migrator) error) error {
	cfg := loadConfig()

	m, err := database.NewMigrator(cfg.MigrationURL())
	if err != nil {
		return err
	}
	defer func() {
		_ = m.Close()
	}()

	return fn(m)
}
