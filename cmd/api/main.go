package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/advoga-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/advoga-scheduler/internal/db"
	"github.com/BruksfildServices01/advoga-scheduler/internal/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "api",
		Short: "API de agendamento de consultas jurídicas",
		// sem subcomando, sobe o servidor
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Sobe o servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica o AutoMigrate no Postgres e sai",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.New("advoga-api", cfg.IsDev())

			db, err := dbpkg.NewDB(cfg, log)
			if err != nil {
				return err
			}
			if err := dbpkg.Migrate(db, log); err != nil {
				return err
			}

			log.Info().Msg("migrations applied")
			return nil
		},
	}
}
