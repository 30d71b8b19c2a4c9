package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// EntityExtractor implements the core.EntityExtractor interface with OpenAI
// chat completions. Extraction is zero-shot: the caller supplies the label
// set and the model returns scored spans, which are filtered against the
// configured confidence threshold before the core sees them.
type EntityExtractor struct {
	client          *openai.Client
	modelName       string
	maxTokens       int
	temperature     float32
	topP            float32
	maxBodySize     int
	entityThreshold float64
	logger          *zap.Logger
	textProcessor   *utils.TextProcessor
	extractFormat   string
	classifyFormat  string
}

type entityResponse struct {
	Entities []struct {
		Label string  `json:"label"`
		Text  string  `json:"text"`
		Score float64 `json:"score"`
	} `json:"entities"`
}

type classifyResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NewEntityExtractor creates a new OpenAI-backed entity extractor
func NewEntityExtractor(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	entityThreshold float64,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *EntityExtractor {
	return &EntityExtractor{
		client:          client,
		modelName:       modelName,
		maxTokens:       maxTokens,
		temperature:     temperature,
		topP:            topP,
		maxBodySize:     maxBodySize,
		entityThreshold: entityThreshold,
		logger:          logger,
		textProcessor:   textProcessor,
		extractFormat: `You are a named entity extraction system for recruiting emails.
Extract every span of the text matching one of these labels: %s.
Respond with a JSON object containing:
- entities: array of objects, each with:
  - label: string (one of the requested labels)
  - text: string (the exact span from the text)
  - score: number between 0 and 1 (how confident you are in the span)

Text:
%s

Respond only with the JSON object and nothing else.`,
		classifyFormat: `You are an email classification system. Decide whether the
following email is a recruiter outreach message about a job opening.
Respond with a JSON object containing:
- label: string ("recruiter" or "other")
- score: number between 0 and 1 (how confident you are)

Email:
%s

Respond only with the JSON object and nothing else.`,
	}
}

// ExtractEntities performs zero-shot extraction of the given labels.
func (e *EntityExtractor) ExtractEntities(ctx context.Context, text string, labels []string) ([]core.Entity, error) {
	if len(labels) == 0 {
		return nil, nil
	}

	body := e.textProcessor.ProcessText(text, e.maxBodySize)
	prompt := fmt.Sprintf(e.extractFormat, strings.Join(labels, ", "), body)

	responseText, err := e.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed entityResponse
	if err := unmarshalWithScan(responseText, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse entity response: %w", err)
	}

	requested := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		requested[strings.ToLower(label)] = struct{}{}
	}

	var entities []core.Entity
	for _, ent := range parsed.Entities {
		label := strings.ToLower(strings.TrimSpace(ent.Label))
		if _, ok := requested[label]; !ok {
			continue
		}
		if ent.Score < e.entityThreshold || strings.TrimSpace(ent.Text) == "" {
			continue
		}
		entities = append(entities, core.Entity{
			Label: label,
			Text:  strings.TrimSpace(ent.Text),
			Score: ent.Score,
		})
	}

	e.logger.Debug("Extracted entities",
		zap.Int("returned", len(parsed.Entities)),
		zap.Int("kept", len(entities)))

	return entities, nil
}

// Classify performs binary classification of the text.
func (e *EntityExtractor) Classify(ctx context.Context, text string) (core.Classification, error) {
	body := e.textProcessor.ProcessText(text, e.maxBodySize)
	prompt := fmt.Sprintf(e.classifyFormat, body)

	responseText, err := e.complete(ctx, prompt)
	if err != nil {
		return core.Classification{}, err
	}

	var parsed classifyResponse
	if err := unmarshalWithScan(responseText, &parsed); err != nil {
		return core.Classification{}, fmt.Errorf("failed to parse classification response: %w", err)
	}

	return core.Classification{
		Label: strings.ToLower(strings.TrimSpace(parsed.Label)),
		Score: parsed.Score,
	}, nil
}

func (e *EntityExtractor) complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: e.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an information extraction system. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
		TopP:        e.topP,
	}
	req.ResponseFormat = &openai.ChatCompletionResponseFormat{
		Type: "json_object",
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// unmarshalWithScan parses the model response as JSON, falling back to the
// outermost brace-delimited region when the model wraps the object in prose.
func unmarshalWithScan(responseText string, out any) error {
	if err := json.Unmarshal([]byte(responseText), out); err == nil {
		return nil
	}

	jsonStart := strings.IndexByte(responseText, '{')
	jsonEnd := strings.LastIndexByte(responseText, '}')
	if jsonStart < 0 || jsonEnd < jsonStart {
		return fmt.Errorf("no JSON object in model response")
	}
	return json.Unmarshal([]byte(responseText[jsonStart:jsonEnd+1]), out)
}
