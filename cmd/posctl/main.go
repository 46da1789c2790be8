package main

import (
	"fmt"
	"os"

	"github.com/fekuna/omnipos-sales-service/config"
	"github.com/fekuna/omnipos-sales-service/internal/app"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfg       *config.Config
	appLogger logger.ZapLogger
)

var rootCmd = &cobra.Command{
	Use:   "posctl",
	Short: "Operator tasks for the sales service",
	Long: `posctl runs maintenance tasks against the sales service database.

It reads the same environment variables as the API server (DB_DRIVER, DB_HOST, ...),
loading a .env file from the working directory when present.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		cfg = config.LoadEnv()
		appLogger = logger.NewZapLogger(app.LoggerConfig(cfg))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = appLogger.Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
