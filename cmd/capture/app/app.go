package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/roman-kulish/imu-gestures/internal/gesture"
	"github.com/roman-kulish/imu-gestures/internal/imu"
	"github.com/roman-kulish/imu-gestures/internal/imu/bno08x"
	"github.com/roman-kulish/imu-gestures/internal/storage"
)

const storageDir = "data"

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	store, err := createStorage(&config.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	defer store.Close()

	handler, err := bno08x.New(config.Device.Config)
	if err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}
	device := imu.NewDevice(config.Device.Name, handler, imu.WithLogger(logger))

	options := []func(*Collector){WithMaxBatchSize(config.Storage.MaxBatchSize)}
	if config.Detector.Enabled {
		cfg := config.Detector.StreamConfig(float64(config.Device.Config.Hz))
		options = append(options, WithDetector(gesture.NewDetector(cfg)))
	}
	if config.Rolling.Enabled {
		cfg := config.Rolling.RollingDetectorConfig()
		options = append(options, WithRollingDetector(gesture.NewRollingDetector(cfg)))
	}

	collector := NewCollector(device, config.Device.Config, store, logger, options...)
	return collector.Run(ctx)
}

func createStorage(config *StorageConfig) (storage.Store, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current working directory: %w", err)
	}

	dbPath := filepath.Join(wd, storageDir)
	if config.DataDirectory != "" {
		dbPath = filepath.Join(wd, config.DataDirectory)
	}

	stat, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("storage directory '%s' does not exist: %w", dbPath, err)
		}
		return nil, fmt.Errorf("checking storage directory '%s': %w", dbPath, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("invalid storage directory '%s'", dbPath)
	}

	dbPath = filepath.Join(dbPath, fmt.Sprintf("imu_session_%s.sqlite", time.Now().UTC().Format("20060102_150405")))
	return storage.NewSqliteStore(dbPath), nil
}
