package factory

import (
	"fmt"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/adapters/openai"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/adapters/static"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/config"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/utils"
	"go.uber.org/zap"
)

// NLPFactory creates entity extractors
type NLPFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewNLPFactory creates a new NLP factory
func NewNLPFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *NLPFactory {
	return &NLPFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateEntityExtractor creates an entity extractor based on the configuration
func (f *NLPFactory) CreateEntityExtractor() (core.EntityExtractor, error) {
	nlpConfig := f.cfg.GetNLP()

	switch nlpConfig.Provider {
	case "openai":
		factory := openai.NewFactory(f.cfg, f.logger, f.textProcessor)
		return factory.CreateEntityExtractor()
	case "static":
		return static.NewEntityExtractor(f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported NLP provider: %s", nlpConfig.Provider)
	}
}
