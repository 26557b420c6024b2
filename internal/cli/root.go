// Package cli provides the stockpulse command-line interface
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/findosh/stockpulse/internal/app"
	"github.com/findosh/stockpulse/internal/config"
	"github.com/findosh/stockpulse/internal/logging"
	"github.com/findosh/stockpulse/internal/models"
	"github.com/findosh/stockpulse/internal/services/agent"
	"github.com/findosh/stockpulse/internal/services/auth"
	"github.com/findosh/stockpulse/internal/services/report"
	"github.com/findosh/stockpulse/internal/services/scheduler"
	"github.com/findosh/stockpulse/internal/storage"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies. Everything except Config and
// Logger is built lazily by Open so commands that need no storage stay fast.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	DB         *storage.DB
	Controller *app.Controller
	Auth       *auth.Service
	Activity   *agent.ActivityLog
	Registry   *agent.Registry
}

// NewRootCmd creates the root command for the CLI
func NewRootCmd() *cobra.Command {
	a := &App{Logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "stockpulse",
		Short: "StockPulse - AI portfolio reports and scheduled delivery",
		Long: `StockPulse keeps a ledger of holdings across brokers, asks a hosted
agent pipeline for daily analysis reports and manages the scheduled email
delivery of those reports.

Run 'stockpulse serve' for the dashboard API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Log.Level = "debug"
			}
			a.Config = cfg
			a.Logger = logging.New(cfg.Logging())
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.Close()
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./stockpulse.toml or ~/.config/stockpulse/stockpulse.toml)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newImportCmd(a))
	rootCmd.AddCommand(newHoldingsCmd(a))
	rootCmd.AddCommand(newReportCmd(a))
	rootCmd.AddCommand(newScheduleCmd(a))
	rootCmd.AddCommand(newHashPasswordCmd())

	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
				return
			}
			output.Printf("StockPulse v%s\n", Version)
		},
	}
}

// Open wires storage, the agent backend, the scheduler and the controller
func (a *App) Open(ctx context.Context) error {
	if a.Controller != nil {
		return nil
	}
	cfg := a.Config

	db, err := storage.New(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	a.DB = db

	backend := cfg.AgentBackend()
	a.Registry = agent.NewRegistry(backend.IDs)
	inner, err := agent.New(ctx, backend, a.Registry)
	if err != nil {
		return fmt.Errorf("failed to initialize agent backend: %w", err)
	}
	a.Activity = agent.NewActivityLog(cfg.Agent.ActivityLimit, a.Logger)
	invoker := agent.Recorded(inner, a.Activity, a.Registry)
	a.Logger.Debug().Str("provider", cfg.Agent.Provider).Msg("agent backend initialized")

	records := storage.NewRecordStore(db)
	settingsRepo := storage.NewSettingsRepository(records)

	a.Controller = app.New(app.Deps{
		Settings:  settingsRepo,
		History:   storage.NewHistoryRepository(records, cfg.History.Limit),
		Schedules: storage.NewScheduleRepository(records),
		Reporter:  report.NewService(invoker, a.Registry, a.Logger),
		Invoker:   invoker,
		Registry:  a.Registry,
		Scheduler: a.schedulerClient(settingsRepo),
		Logger:    a.Logger,
	}, app.Options{
		InitialScheduleID: cfg.Scheduler.InitialScheduleID,
		Retries:           cfg.Scheduler.Retries,
		RetryDelay:        cfg.Scheduler.RetryDelay,
		StartupDelay:      cfg.Scheduler.StartupDelay,
		HistoryLimit:      cfg.History.Limit,
		MaxPromptChars:    cfg.Import.MaxPromptChars,
		MaxUploadBytes:    cfg.Import.MaxUploadBytes,
	})

	a.Auth = auth.NewService(auth.Config{
		SecretKey:       cfg.Auth.SecretKey,
		PasswordHash:    cfg.Auth.PasswordHash,
		SessionDuration: cfg.Auth.SessionDuration,
	}, storage.NewSessionRepository(db))

	return nil
}

// schedulerClient talks to the hosted scheduler, or keeps a single local
// schedule built from the saved delivery time when none is configured
func (a *App) schedulerClient(settings *storage.SettingsRepository) scheduler.Client {
	cfg := a.Config.Scheduler
	if cfg.BaseURL != "" {
		return scheduler.NewHTTPClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout)
	}

	s, err := settings.Load()
	if err != nil {
		s = models.DefaultSettings()
	}
	s = s.Normalized()
	a.Logger.Debug().Msg("no scheduler configured, using in-process schedule")
	return scheduler.NewMemory(models.Schedule{
		ID:             cfg.InitialScheduleID,
		CronExpression: dailyCron(s.ScheduleTime),
		Timezone:       s.Timezone,
	})
}

// dailyCron turns "HH:MM" into a daily cron expression
func dailyCron(at string) string {
	t, err := time.Parse("15:04", at)
	if err != nil {
		t, _ = time.Parse("15:04", models.DefaultScheduleTime)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour())
}

// Close releases the database
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	err := a.DB.Close()
	a.DB = nil
	return err
}
