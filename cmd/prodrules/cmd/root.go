package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/solatis/prodrules/internal/core/config"
	"github.com/solatis/prodrules/internal/core/db"
	"github.com/solatis/prodrules/internal/core/logging"
	"github.com/solatis/prodrules/internal/core/store"
)

const Version = "0.1.0"

var (
	configFile string
	dbURL      string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:          "prodrules",
	Short:        "Product configuration rule engine",
	Long:         `prodrules applies typeclass-scoped transformation rules to product attribute sets.`,
	Version:      Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "database connection URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, logfmt, text)")
}

func Execute() error {
	return rootCmd.Execute()
}

// env carries the resolved configuration and I/O of one command run.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	in     io.Reader
	out    io.Writer
}

// setup loads configuration and applies root flag overrides.
// Precedence: flags > PR_* environment > config file > defaults.
// Commands apply their own flag overrides and then call Validate.
func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = dbURL
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = logFormat
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	return &env{
		cfg:    cfg,
		logger: logger,
		in:     cmd.InOrStdin(),
		out:    cmd.OutOrStdout(),
	}, nil
}

// openStore opens the database and binds a product store to it.
// The caller closes the returned handle.
func openStore(ctx context.Context, databaseURL string) (*sqlx.DB, *store.ProductStore, error) {
	database, err := db.Open(ctx, databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	queries, err := db.LoadQueries(database)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to load queries: %w", err)
	}

	return database, store.New(database, queries), nil
}
