package static

import (
	"context"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"go.uber.org/zap"
)

// EntityExtractor is the offline NLP provider. It returns no entities so the
// extraction pipeline runs on regex patterns alone, which keeps dev and test
// runs free of API calls.
type EntityExtractor struct {
	logger *zap.Logger
}

// NewEntityExtractor creates a new static entity extractor
func NewEntityExtractor(logger *zap.Logger) *EntityExtractor {
	return &EntityExtractor{logger: logger}
}

// ExtractEntities returns no entities.
func (e *EntityExtractor) ExtractEntities(ctx context.Context, text string, labels []string) ([]core.Entity, error) {
	return nil, nil
}

// Classify returns an unknown classification with zero confidence.
func (e *EntityExtractor) Classify(ctx context.Context, text string) (core.Classification, error) {
	return core.Classification{Label: "unknown", Score: 0}, nil
}
