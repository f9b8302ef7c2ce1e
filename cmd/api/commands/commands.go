package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/ecoloop/core/internal/adapters/payment"
	"github.com/ecoloop/core/internal/adapters/repository"
	"github.com/ecoloop/core/internal/application/services"
	"github.com/ecoloop/core/internal/infrastructure/config"
	"github.com/ecoloop/core/internal/infrastructure/database"
	"github.com/ecoloop/core/internal/infrastructure/logger"
	"github.com/ecoloop/core/internal/infrastructure/metrics"
	"github.com/ecoloop/core/internal/infrastructure/server"
	"github.com/ecoloop/core/internal/ports"
)

// Set at build time with -ldflags "-X github.com/ecoloop/core/cmd/api/commands.Version=..."
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
	GitCommit = "development"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the EcoLoop web server",
		Long:  "Start the EcoLoop web server with the pages, the JSON API and the ops endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage the documents table of the postgres and sqlite backends (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, "up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, "down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showMigrationVersion(cmd)
		},
	})

	return migrateCmd
}

// NewPlasticsCommand creates the plastics management command
func NewPlasticsCommand() *cobra.Command {
	plasticsCmd := &cobra.Command{
		Use:   "plastics",
		Short: "Recycling submission commands",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a recycling submission",
		RunE: func(cmd *cobra.Command, args []string) error {
			company, _ := cmd.Flags().GetString("company")
			quantity, _ := cmd.Flags().GetFloat64("quantity")

			if company == "" {
				return errors.New("company is required")
			}
			if quantity < 0 {
				return errors.New("quantity must not be negative")
			}

			return withStore(func(cfg *config.Config, access *services.DocumentAccess, appLogger *logger.Logger) error {
				svc := services.NewRecyclingService(access, nil, appLogger)
				plastic, err := svc.RecordPlastic(cmd.Context(), ports.RecordPlasticRequest{Company: company, Quantity: quantity})
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Plastic recorded:\n")
				fmt.Fprintf(cmd.OutOrStdout(), "  ID: %d\n", plastic.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "  Company: %s\n", plastic.Company)
				fmt.Fprintf(cmd.OutOrStdout(), "  Quantity: %g\n", plastic.Quantity)
				return nil
			})
		},
	}

	addCmd.Flags().String("company", "", "Company name (required)")
	addCmd.Flags().Float64("quantity", 0, "Quantity of plastic")

	plasticsCmd.AddCommand(addCmd)
	return plasticsCmd
}

// NewReportCommand creates the report command
func NewReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report <company>",
		Short: "Print the recycling report of a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(cfg *config.Config, access *services.DocumentAccess, appLogger *logger.Logger) error {
				svc := services.NewRecyclingService(access, nil, appLogger)
				report, err := svc.CompanyReport(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "QUANTITY\tRECYCLED\n")
				for _, row := range report.Report {
					fmt.Fprintf(w, "%g\t%t\n", row.Quantity, row.Recycled)
				}
				fmt.Fprintf(w, "TOTAL\t%g\n", report.TotalQuantity)
				return w.Flush()
			})
		},
	}
}

// NewTransactionsCommand creates the transactions command
func NewTransactionsCommand() *cobra.Command {
	transactionsCmd := &cobra.Command{
		Use:   "transactions",
		Short: "Payment transaction commands",
	}

	transactionsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recorded transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(cfg *config.Config, access *services.DocumentAccess, appLogger *logger.Logger) error {
				txs := access.Read(cmd.Context()).Transactions

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "ID\tAMOUNT\tSTATUS\tDATE\n")
				for _, tx := range txs {
					fmt.Fprintf(w, "%d\t%g\t%s\t%s\n", tx.ID, tx.Amount, tx.Status, tx.Date)
				}
				return w.Flush()
			})
		},
	})

	return transactionsCmd
}

// NewHashPasswordCommand prints a bcrypt hash for ADMIN_PASSWORD_HASH
func NewHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Hash an operator password for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := services.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print EcoLoop version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "EcoLoop v%s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Build Date: %s\n", BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "Git Commit: %s\n", GitCommit)
		},
	}
}

// openStore opens the configured backend wrapped with logging and metrics
func openStore(cfg *config.Config, appLogger *logger.Logger, m *metrics.Metrics) (ports.DocumentStore, error) {
	store, err := repository.NewDocumentStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}
	return repository.NewInstrumentedDocumentStore(store, appLogger.WithComponent("store"), m), nil
}

// withStore loads configuration and runs fn against the configured store
func withStore(fn func(cfg *config.Config, access *services.DocumentAccess, appLogger *logger.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	store, err := openStore(cfg, appLogger, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(cfg, services.NewDocumentAccess(store, appLogger), appLogger)
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		m.Registry().MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	store, err := openStore(cfg, appLogger, m)
	if err != nil {
		return err
	}
	defer store.Close()

	gateway, err := payment.NewGateway(cfg.Payment)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, store, gateway, m, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	appLogger.Infow("Starting EcoLoop server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"store", store.Name(),
		"payment_provider", gateway.Name(),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(cfg.Server.GetAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	appLogger.Info("Server exited gracefully")
	return nil
}

// openMigrator connects to the configured SQL backend
func openMigrator() (*database.DB, *migrate.Migrate, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.New(cfg.Store.Backend, cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	m, err := db.Migrator()
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return db, m, nil
}

func runMigration(cmd *cobra.Command, direction string) error {
	db, m, err := openMigrator()
	if err != nil {
		return err
	}
	defer db.Close()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintln(cmd.OutOrStdout(), "No migrations to run")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migration %s completed successfully\n", direction)
	return nil
}

func showMigrationVersion(cmd *cobra.Command) error {
	db, m, err := openMigrator()
	if err != nil {
		return err
	}
	defer db.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(cmd.OutOrStdout(), "No migrations applied")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Current migration version: %d\n", version)
	fmt.Fprintf(cmd.OutOrStdout(), "Dirty: %t\n", dirty)
	return nil
}
