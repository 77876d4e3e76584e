// @title           HabitTrack API
// @version         1.0
// @description     Habit tracking with consistency analytics.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/comitanigiacomo/habittrack/internal/adapters/repository"
	"github.com/comitanigiacomo/habittrack/internal/config"
)

const shutdownTimeout = 5 * time.Second

var (
	envFile string

	reportUser string
	reportYear int

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "habittrack",
	Short: "HabitTrack API server",
	Long: `HabitTrack serves the habit tracking REST API and its consistency
analytics: streaks, the yearly heatmap and rule-based insights.

Run without a subcommand to start the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}

		var err error
		cfg, err = config.Load(files...)
		if err != nil {
			return err
		}

		logger, err = buildLogger(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and the analytics worker",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE:  runMigrate,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a user's dashboard and heatmap as JSON",
	Long: `Computes the analytics of one user straight from storage, bypassing
the cache, and prints them to stdout.

Example:
  habittrack report --user 4f1c... --year 2024`,
	RunE: runReport,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading the environment")

	reportCmd.Flags().StringVar(&reportUser, "user", "", "user id")
	reportCmd.Flags().IntVar(&reportYear, "year", 0, "heatmap year (default: current year)")
	_ = reportCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(serveCmd, migrateCmd, reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.db != nil {
		if err := repository.Migrate(ctx, a.db); err != nil {
			return err
		}
		logger.Info("database schema ready")
	}

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     a.router(startTime),
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: the events stream stays open.
		IdleTimeout: 120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if a.worker != nil {
		g.Go(func() error {
			a.worker.Run(gctx)
			return nil
		})
	} else {
		logger.Info("redis disabled, dashboards are computed on read")
	}

	g.Go(func() error {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server exiting")
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if cfg.StorageDriver != config.StoragePostgres {
		return fmt.Errorf("migrate needs STORAGE_DRIVER=%s, got %q", config.StoragePostgres, cfg.StorageDriver)
	}

	ctx := cmd.Context()
	db, err := repository.Connect(ctx, cfg.DatabaseDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		return err
	}
	logger.Info("migrations applied")
	return nil
}

type report struct {
	Summary any `json:"summary"`
	Heatmap any `json:"heatmap"`
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.analytics.ComputeSummary(ctx, reportUser)
	if err != nil {
		return fmt.Errorf("compute summary: %w", err)
	}

	heatmap, err := a.analytics.Heatmap(ctx, reportUser, reportYear)
	if err != nil {
		return fmt.Errorf("compute heatmap: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report{Summary: summary, Heatmap: heatmap})
}
