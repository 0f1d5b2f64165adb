package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Rogerio-17/cardapio-digital-web/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "menu-service",
	Short: "Digital menu, cart and ordering backend for restaurants",
	Long: `menu-service serves restaurant menus, keeps per-session carts, runs the
checkout wizard and hands finished orders to the kitchen dashboard.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(loadDotEnv)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedOrdersCmd)
}

// loadDotEnv reads a .env file when present; a missing file is fine.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "Error loading .env file:", err)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
