package backup

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jvilaplana/holdfolio/internal/logger"
	"github.com/jvilaplana/holdfolio/internal/runinfo"
)

// GetDefaultBackupDir returns the default backup directory
func GetDefaultBackupDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	backupDir := filepath.Join(homeDir, "backups")
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	return backupDir, nil
}

// CreateBackup archives the database and the last-run record into a
// timestamped zip. Missing last-run metadata is not an error; a missing
// database is.
func CreateBackup(databasePath, dataDir, backupDir string) (string, error) {
	if backupDir == "" {
		var err error
		backupDir, err = GetDefaultBackupDir()
		if err != nil {
			return "", fmt.Errorf("failed to get default backup directory: %w", err)
		}
	}

	if _, err := os.Stat(databasePath); err != nil {
		return "", fmt.Errorf("database not found at %s: %w", databasePath, err)
	}

	timestamp := time.Now().Format("20060102_150405")
	backupFile := filepath.Join(backupDir, fmt.Sprintf("holdfolio_backup_%s.zip", timestamp))

	zipFile, err := os.Create(backupFile)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)
	defer zipWriter.Close()

	if err := addFileToZip(zipWriter, databasePath, filepath.Base(databasePath)); err != nil {
		return "", fmt.Errorf("failed to add database to backup: %w", err)
	}

	appDataDir, err := runinfo.GetAppDataDir(dataDir)
	if err == nil {
		lastRunPath := filepath.Join(appDataDir, "lastrun.json")
		if _, statErr := os.Stat(lastRunPath); statErr == nil {
			if err := addFileToZip(zipWriter, lastRunPath, "lastrun.json"); err != nil {
				return "", fmt.Errorf("failed to add last-run record to backup: %w", err)
			}
		} else {
			logger.Debug("No last-run record to back up")
		}
	}

	logger.Info("Backup created successfully: %s", backupFile)
	return backupFile, nil
}

func addFileToZip(zipWriter *zip.Writer, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to create file header: %w", err)
	}

	header.Name = name
	header.Method = zip.Deflate

	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create file in zip: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(writer, file); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	logger.Debug("Added file to backup: %s", name)
	return nil
}
