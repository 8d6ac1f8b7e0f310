package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"attrition-relay/internal/config"
	"attrition-relay/internal/mapping"
	"attrition-relay/internal/metrics"
	"attrition-relay/internal/predictor"
	"attrition-relay/internal/server"
	"attrition-relay/internal/service"
	"attrition-relay/internal/sheets"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	envFile    string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "attrition-relay",
	Short: "Relay employee records through an attrition predictor into Google Sheets",
	RunE:  runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP relay",
	RunE:  runServe,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the spreadsheet is reachable and print its title",
	RunE:  runCheck,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yml", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file loaded before the environment is read")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting attrition relay...")

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	relay, metricsManager, err := buildRelay(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize relay", zap.Error(err))
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv := server.NewServer(relay, metricsManager, logger)

	logger.Info("Attrition relay is running",
		zap.String("port", cfg.Server.Port),
		zap.String("test_connection", fmt.Sprintf("http://localhost:%s/test-connection", cfg.Server.Port)),
		zap.String("add_test_line", fmt.Sprintf("http://localhost:%s/add-test-line", cfg.Server.Port)))

	if err := srv.Run(ctx, cfg.Server.Port); err != nil {
		logger.Error("Relay stopped with error", zap.Error(err))
		return err
	}

	logger.Info("Application stopped.")
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx := cmd.Context()
	relay, _, err := buildRelay(ctx, cfg, logger)
	if err != nil {
		return err
	}

	title, err := relay.SheetTitle(ctx)
	if err != nil {
		logger.Error("Connection check failed", zap.Error(err))
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Connected to spreadsheet %q\n", title)
	return nil
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath, envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, logger, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.Log.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

func buildRelay(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*service.Relay, *metrics.Manager, error) {
	sheetClient, err := sheets.NewClient(ctx, sheets.Config{
		SpreadsheetID:   cfg.Sheets.SpreadsheetID,
		Range:           cfg.Sheets.Range,
		CredentialsFile: cfg.Sheets.CredentialsFile,
		Endpoint:        cfg.Sheets.Endpoint,
	}, logger.Named("sheets"))
	if err != nil {
		return nil, nil, err
	}

	var pred service.Predictor
	switch cfg.Predictor.Mode {
	case config.PredictorModeHTTP:
		pred = predictor.NewHTTPClient(cfg.Predictor.URL, cfg.Predictor.Timeout, logger.Named("predictor"))
	default:
		execClient, err := predictor.NewExecClient(predictor.ExecConfig{
			Command: cfg.Predictor.Command,
			Args:    cfg.Predictor.Args,
			Dir:     cfg.Predictor.Dir,
			Timeout: cfg.Predictor.Timeout,
		}, logger.Named("predictor"))
		if err != nil {
			return nil, nil, err
		}
		pred = execClient
	}

	rows := mapping.NewRowBuilder(mapping.RowConfig{
		AvatarTemplate: cfg.Row.AvatarTemplate,
		DeleteTemplate: cfg.Row.DeleteTemplate,
		DeleteScript:   cfg.Row.DeleteScript,
		DeleteRow:      cfg.Row.DeleteRow,
	})

	metricsManager := metrics.NewManager()
	relay := service.NewRelay(pred, sheetClient, rows, metricsManager, logger.Named("relay"))

	return relay, metricsManager, nil
}
