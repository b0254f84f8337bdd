// Command hrctl runs operator tasks against the VendorHR database
// without going through the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/mitrahse/vendorhr-api/internal/config"
	"github.com/mitrahse/vendorhr-api/internal/database"
	"github.com/mitrahse/vendorhr-api/internal/jobs"
	"github.com/mitrahse/vendorhr-api/internal/repository"
	"github.com/mitrahse/vendorhr-api/internal/services"
	"github.com/mitrahse/vendorhr-api/internal/storage"
	"github.com/mitrahse/vendorhr-api/pkg/logger"
)

// app is the service graph shared by all commands
type app struct {
	cfg    *config.Config
	svcs   *services.Services
	worker *jobs.Worker
}

func (a *app) close() {
	if a.worker != nil {
		a.worker.Shutdown()
	}
}

func newApp(migrate bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	logger.Setup(cfg.Environment, cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL, cfg.Environment)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
	}

	var store storage.FileStore
	if cfg.StorageDriver == config.StorageDrive {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		store, err = storage.NewDriveStorage(ctx, cfg.DriveCredentialsFile, cfg.DriveFolders)
	} else {
		store, err = storage.NewLocalStorage(cfg.StoragePath)
	}
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	worker := jobs.NewWorker(1)
	return &app{
		cfg:    cfg,
		svcs:   services.NewServices(repository.NewRepositories(db), worker, store, cfg),
		worker: worker,
	}, nil
}

// withApp wires the service graph before running fn
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, args, a)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hrctl",
		Short: "hrctl - operator tool for the VendorHR API",
		Long: `hrctl - operator tool for the VendorHR API.

Configuration is read from the same environment variables (and .env file)
as the API server.`,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}
	cmd.AddCommand(
		newMigrateCmd(),
		newExpiringCmd(),
		newDigestCmd(),
		newImportCmd(),
		newCreateAdminCmd(),
		newTestEmailCmd(),
		newFilesCmd(),
		newCheckAccessCmd(),
	)
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
