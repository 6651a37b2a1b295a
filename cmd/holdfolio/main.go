package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jvilaplana/holdfolio/internal/backup"
	"github.com/jvilaplana/holdfolio/internal/config"
	"github.com/jvilaplana/holdfolio/internal/logger"
	"github.com/jvilaplana/holdfolio/internal/server"
	"github.com/jvilaplana/holdfolio/internal/services"
	"github.com/jvilaplana/holdfolio/internal/store"
	"github.com/jvilaplana/holdfolio/internal/tui"
	"github.com/jvilaplana/holdfolio/internal/utils"
)

func loadConfig(port int, dbPath, dataDir string) *config.Config {
	cfg := config.NewConfig()
	cfg.LoadFromEnvironment()

	if port != 0 {
		cfg.Port = port
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration: %v", err)
	}

	return cfg
}

func main() {
	logger.Init()
	utils.LoadEnvironment()

	var (
		port    int
		dbPath  string
		dataDir string
		monitor bool
	)

	rootCmd := &cobra.Command{
		Use:   "holdfolio",
		Short: "An investment-tracking backend for Holded accounting data",
		Long:  `holdfolio syncs investment data from the Holded API into a local store and serves dashboard metrics over HTTP.`,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig(port, dbPath, dataDir)

			st, err := store.Open(cfg.DatabasePath)
			if err != nil {
				logger.Fatal("Failed to open store: %v", err)
			}
			defer st.Close()

			syncService := services.NewSyncService(cfg, st)
			srv := server.NewServer(cfg, st, syncService)

			if err := srv.ListenAndServe(); err != nil {
				logger.Fatal("Server error: %v", err)
			}
		},
	}

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one sync against the Holded API",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig(port, dbPath, dataDir)

			st, err := store.Open(cfg.DatabasePath)
			if err != nil {
				logger.Fatal("Failed to open store: %v", err)
			}
			defer st.Close()

			syncService := services.NewSyncService(cfg, st)

			if monitor {
				if err := logger.InitFileOnly(); err != nil {
					logger.Fatal("Failed to set up file logging: %v", err)
				}
				defer logger.Close()

				if err := tui.NewSyncMonitor(syncService).Run(); err != nil {
					logger.Fatal("Monitor error: %v", err)
				}
				return
			}

			result, err := syncService.Run(nil)
			if err != nil {
				logger.Fatal("Sync failed: %v", err)
			}

			logger.Info("%s", result.Message)
			summary, _ := json.MarshalIndent(result.Metrics, "", "  ")
			fmt.Fprintln(os.Stdout, string(summary))
		},
	}
	syncCmd.Flags().BoolVarP(&monitor, "monitor", "m", false, "Show a live progress monitor during the sync")

	var backupDir string
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Create a backup of the investment database",
		Long:  `Create a backup archive containing the investment database and the last sync run record.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig(port, dbPath, dataDir)

			if backupDir == "" {
				backupDir = cfg.BackupDir
			}

			backupFile, err := backup.CreateBackup(cfg.DatabasePath, cfg.DataDir, backupDir)
			if err != nil {
				logger.Fatal("Failed to create backup: %v", err)
			}
			logger.Info("Backup created successfully: %s", backupFile)
		},
	}
	backupCmd.Flags().StringVarP(&backupDir, "backup-dir", "", "", "Directory where the backup will be stored (default: ~/backups)")

	// Shared flags
	for _, cmd := range []*cobra.Command{serveCmd, syncCmd, backupCmd} {
		cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run the HTTP server on")
		cmd.Flags().StringVarP(&dbPath, "db-path", "", "", "Path to the investment database")
		cmd.Flags().StringVarP(&dataDir, "data-dir", "", "", "Directory where run metadata resides")
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(backupCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("Failed to execute command: %v", err)
	}
}
