package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cozyminds/internal/config"
	"cozyminds/internal/infra"
)

var catalogPath string

var rootCmd = &cobra.Command{
	Use:   "cozyadmin",
	Short: "Operator tooling for the Cozy Minds backend",
	Long: `cozyadmin talks to the same Postgres database as the API server.
It reads POSTGRES_URL and the other settings from the environment or a .env file.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		if err := infra.Migrate(env.db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	},
}

// adminEnv is what every database-backed command needs.
type adminEnv struct {
	cfg    *config.Config
	db     *gorm.DB
	logger *zap.Logger
}

func openEnv() (*adminEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.PostgresURL == "" {
		return nil, fmt.Errorf("POSTGRES_URL is required")
	}
	logger, err := infra.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	db, err := infra.InitPostgresql(cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &adminEnv{cfg: cfg, db: db, logger: logger.Named("cozyadmin")}, nil
}

func (e *adminEnv) close() {
	infra.ClosePostgresql(e.db, e.logger)
	_ = e.logger.Sync()
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(broadcastCmd)
	rootCmd.AddCommand(promoteCmd)
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().StringVar(&catalogPath, "file", "", "Catalog YAML to validate (default: SHOP_CATALOG_PATH or the built-in catalog)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
