package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/adapters/clean"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/config"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/extract"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/factory"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/logging"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/rules"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/utils"
	"go.uber.org/zap"
)

var (
	// NLP provider flags
	provider        = flag.String("provider", "static", "NLP provider (openai, static)")
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4o-mini", "OpenAI model name")
	maxBodySize     = flag.Int("max-body-size", 4096, "Maximum body size to send to the model")

	// Extraction flags
	rulesPath     = flag.String("rules", "./configs/extraction_filters.csv", "Path to the extraction rules CSV")
	ownerEmail    = flag.String("owner", "", "Address of the mailbox the message came from")
	minConfidence = flag.Float64("min-company-confidence", 0.7, "Minimum confidence for a company candidate")

	// Input flags
	inputFile  = flag.String("file", "", "Input email file (use stdin if not specified)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	var cfg *config.Config
	var err error

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
	} else {
		cfg = createConfigFromFlags()
	}

	ctx := context.Background()

	// Load extraction rules
	repo := rules.NewRepository(cfg.GetRules().CSVPath, nil, logger)
	if err := repo.Load(ctx); err != nil {
		logger.Fatal("Failed to load extraction rules", zap.Error(err))
	}

	// Initialize NLP provider
	textProcessor := utils.NewTextProcessor(logger)
	nlpFactory := factory.NewNLPFactory(cfg, logger, textProcessor)
	nlp, err := nlpFactory.CreateEntityExtractor()
	if err != nil {
		logger.Fatal("Failed to create entity extractor", zap.Error(err))
	}

	// Read message from file or stdin
	var raw []byte
	if *inputFile != "" {
		raw, err = os.ReadFile(*inputFile)
		if err != nil {
			logger.Fatal("Failed to read input file", zap.Error(err), zap.String("file", *inputFile))
		}
	} else {
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			logger.Fatal("Failed to read stdin", zap.Error(err))
		}
	}

	pm, err := extract.ParseMessage(raw, 0)
	if err != nil {
		logger.Fatal("Failed to parse message", zap.Error(err))
	}

	// Clean the body
	cleaner := clean.NewHTMLCleaner(logger)
	body := pm.HTMLBody
	if body == "" {
		body = pm.TextBody
	}
	cleanBody, err := cleaner.Clean(body)
	if err != nil {
		logger.Warn("Body cleaning failed, using raw text part", zap.Error(err))
		cleanBody = pm.TextBody
	}

	fmt.Printf("\n=== Message Summary ===\n")
	fmt.Printf("From: %s\n", pm.From)
	fmt.Printf("Subject: %s\n", pm.Subject)
	fmt.Printf("Body length: %d bytes\n", len(cleanBody))

	// Classify the message
	extractionCfg := cfg.GetExtraction()
	mailFilter := extract.NewMailFilter(repo, logger)
	startTime := time.Now()

	fmt.Printf("\n=== Classification ===\n")
	fmt.Printf("Calendar invite: %t\n", pm.IsCalendarInvite())
	fmt.Printf("Junk sender: %t\n", mailFilter.IsJunk(pm.From))
	fmt.Printf("Recruiter mail: %t\n", mailFilter.IsRecruiterMail(pm.Subject, cleanBody, pm.From))
	if cfg.GetNLP().Provider == "openai" {
		if classification, err := nlp.Classify(ctx, cleanBody); err != nil {
			logger.Warn("Model classification failed", zap.Error(err))
		} else {
			fmt.Printf("Model label: %s (%.4f)\n", classification.Label, classification.Score)
		}
	}

	// Extract contacts
	extractor := extract.NewContactExtractor(
		repo,
		extract.NewRegexExtractor(repo, logger),
		extract.NewCompanyScorer(repo, extractionCfg.MinCompanyConfidence, extractionCfg.VendorPreferenceMargin, logger),
		extract.NewNameExtractor(repo, logger),
		extract.NewPositionExtractor(repo, logger),
		extract.NewLocationExtractor(repo, logger),
		nlp,
		logger,
	)
	contacts := extractor.ExtractContacts(ctx, pm, cleanBody, *ownerEmail)
	duration := time.Since(startTime)

	fmt.Printf("\n=== Contacts (%d) ===\n", len(contacts))
	for i, contact := range contacts {
		fmt.Printf("[%d] %s\n", i+1, contact.Name)
		fmt.Printf("    Email:      %s\n", contact.Email)
		if contact.Phone != "" {
			fmt.Printf("    Phone:      %s\n", contact.Phone)
		}
		if contact.LinkedInID != "" {
			fmt.Printf("    LinkedIn:   %s\n", contact.LinkedInID)
		}
		if contact.Company != "" {
			fmt.Printf("    Company:    %s\n", contact.Company)
		}
		if contact.Location != "" {
			fmt.Printf("    Location:   %s\n", contact.Location)
		}
		if contact.JobPosition != "" {
			fmt.Printf("    Position:   %s\n", contact.JobPosition)
		}
		if contact.EmploymentType != "" {
			fmt.Printf("    Employment: %s\n", contact.EmploymentType)
		}
		fmt.Printf("    Source:     %s\n", contact.ExtractionSource)
	}
	fmt.Printf("\nProcessing time: %v\n", duration)
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("nlp.provider", *provider)
	if *provider == "openai" {
		v.Set("openai.api_key", *openaiAPIKey)
		v.Set("openai.model_name", *openaiModelName)
		v.Set("openai.max_body_size", *maxBodySize)
	}
	v.Set("rules.csv_path", *rulesPath)
	v.Set("extraction.min_company_confidence", *minConfidence)

	return config.NewFromViper(v)
}
