package main

import (
	"fmt"

	"github.com/fekuna/omnipos-sales-service/internal/app"
	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded SQL migrations for DB_DRIVER",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbCfg := app.DatabaseConfig(cfg)
		if dbCfg.Driver == database.DriverMemory {
			return fmt.Errorf("the memory driver has no schema to migrate")
		}

		db, err := database.NewDB(cmd.Context(), dbCfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(cmd.Context(), db, dbCfg.Driver); err != nil {
			return err
		}
		appLogger.Info("migrations applied", zap.String("driver", dbCfg.Driver), zap.String("db_name", dbCfg.DBName))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
