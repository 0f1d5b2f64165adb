package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Rogerio-17/cardapio-digital-web/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply catalog and orders migrations, then seed the bundled restaurants",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := logger.New(cfg.LogLevel, cfg.LogFormat)

		var cl closers
		defer cl.closeAll()

		if _, err := openCatalog(context.Background(), cfg, log, &cl); err != nil {
			return err
		}
		if _, err := openOrderRepository(cfg, log, &cl); err != nil {
			return err
		}
		log.Info("migrations applied")
		return nil
	},
}
