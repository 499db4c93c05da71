package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	config "task-tree-system.com/task-tree-system/internal/configs"
	repository "task-tree-system.com/task-tree-system/internal/repositories"
	"task-tree-system.com/task-tree-system/internal/services"
)

var rescoreCmd = &cobra.Command{
	Use:   "rescore",
	Short: "Recompute every stored priority score once",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := config.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return err
		}

		// no workers: RescoreAll runs inline.
		rescorer := services.NewRescoreService(repository.NewTaskRepository(database), 0, 0)
		defer rescorer.Shutdown(cmd.Context())

		updated, err := rescorer.RescoreAll(cmd.Context())
		if err != nil {
			return err
		}

		log.Info("rescore finished", "updated", updated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rescoreCmd)
}
