package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hardware-distribution-backend/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Retry configuration
const maxRetries = 3
const retryDelay = 2 * time.Minute

// CleanupExpiredFiles removes regular files in dir older than ttl and returns how many were deleted.
func CleanupExpiredFiles(dir string, ttl time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("error reading directory %s: %w", dir, err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			config.Logger.Warn("Cannot stat file during cleanup", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		if time.Since(info.ModTime()) <= ttl {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			config.Logger.Warn("Error deleting expired file", zap.String("file", path), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

// CleanupAllExpired sweeps every directory and reports the first failure.
func CleanupAllExpired(dirs []string, ttl time.Duration) error {
	var firstErr error
	for _, dir := range dirs {
		removed, err := CleanupExpiredFiles(dir, ttl)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		config.Logger.Info("Cleanup finished", zap.String("dir", dir), zap.Int("removed", removed))
	}
	return firstErr
}

// RunScheduledCleanup runs the sweep every day at 1 AM with retries. The
// caller owns the returned scheduler and stops it on shutdown.
func RunScheduledCleanup(dirs []string, ttl time.Duration) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc("0 1 * * *", func() {
		config.Logger.Info("running scheduled cleanup task")

		for attempt := 1; attempt <= maxRetries; attempt++ {
			err := CleanupAllExpired(dirs, ttl)
			if err == nil {
				return
			}
			config.Logger.Warn("cleanup failed", zap.Int("attempt", attempt), zap.Error(err))
			if attempt < maxRetries {
				time.Sleep(retryDelay)
			}
		}

		config.Logger.Error("cleanup task failed after retries", zap.Int("retries", maxRetries))
		if admin := config.GetEnv("ADMIN_EMAIL"); admin != "" {
			_ = SendEmail(admin, "The scheduled cleanup task failed after multiple attempts.", "Cleanup Task Failed", "", "")
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
