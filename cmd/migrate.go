package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	config "task-tree-system.com/task-tree-system/internal/configs"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := config.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return err
		}

		sqlDB, err := database.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		log.Info("schema up to date", "driver", cfg.DatabaseDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
