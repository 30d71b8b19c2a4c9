package openai

import (
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/config"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Factory creates new instances of EntityExtractor
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for EntityExtractor instances
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateEntityExtractor creates a new OpenAI-backed entity extractor
func (f *Factory) CreateEntityExtractor() (core.EntityExtractor, error) {
	openaiCfg := f.cfg.GetOpenAI()

	client := openai.NewClient(openaiCfg.APIKey)

	return NewEntityExtractor(
		client,
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		openaiCfg.MaxBodySize,
		openaiCfg.EntityThreshold,
		f.logger,
		f.textProcessor,
	), nil
}
