package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/config"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/state"
	"go.uber.org/zap"
)

// StateFactory creates watermark stores based on configuration
type StateFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStateFactory creates a new state factory
func NewStateFactory(cfg *config.Config, logger *zap.Logger) *StateFactory {
	return &StateFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateWatermarkStore creates a watermark store based on the configuration
func (f *StateFactory) CreateWatermarkStore() (core.WatermarkStore, error) {
	stateCfg := f.cfg.GetState()

	switch stateCfg.Type {
	case "memory":
		return state.NewMemoryStore(f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(stateCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return state.NewSQLiteStore(stateCfg.SQLitePath, f.logger)
	default:
		return nil, fmt.Errorf("unsupported state store type: %s", stateCfg.Type)
	}
}
