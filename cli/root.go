package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"renewals-authorization/app"
	"renewals-authorization/config"
	"renewals-authorization/logger"
)

var (
	configPath string
	verbose    bool

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "renewals",
	Short: "Create renewal orders from existing orders or shared carts",
	Long: `renewals serves the Renewals admin tool: search existing orders or import a
cart from its share URL, add ad-hoc line items, and create a renewal order.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env overrides system variables outside production
		dotenvErr := error(nil)
		if os.Getenv("ENV") != "production" {
			dotenvErr = godotenv.Overload(".env")
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		log, err = logger.New(level, cfg.Logging.Development)
		if err != nil {
			return err
		}

		if dotenvErr != nil {
			log.Debug(".env file not loaded, using system environment variables", zap.Error(dotenvErr))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "renewals.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, searchCmd, importCartCmd)
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

// openApp connects to the document store with the loaded configuration
func openApp(ctx context.Context) (*app.App, error) {
	return app.Initialize(ctx, cfg, log)
}
