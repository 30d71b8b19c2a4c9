package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/adapters/clean"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/adapters/imap"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/adapters/whitebox"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/config"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/extract"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/factory"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/logging"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/rules"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/runner"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/state"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewNLPFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStateFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register entity extractor
	if err := container.Provide(func(f *factory.NLPFactory) (core.EntityExtractor, error) {
		return f.CreateEntityExtractor()
	}); err != nil {
		return nil, err
	}

	// Register watermark store
	if err := container.Provide(func(f *factory.StateFactory) (core.WatermarkStore, error) {
		return f.CreateWatermarkStore()
	}); err != nil {
		return nil, err
	}

	// Register persistence API client as contact store and rule source
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *whitebox.Client {
		apiCfg := cfg.GetAPI()
		return whitebox.NewClient(
			apiCfg.BaseURL,
			apiCfg.Username,
			apiCfg.Password,
			apiCfg.Token,
			apiCfg.EmployeeID,
			apiCfg.Timeout,
			logger,
		)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(c *whitebox.Client) core.ContactStore { return c }); err != nil {
		return nil, err
	}
	if err := container.Provide(func(c *whitebox.Client) core.RuleSource { return c }); err != nil {
		return nil, err
	}

	// Register rule repository, loaded up front so the keyword-fed
	// components below see a populated rule set
	if err := container.Provide(func(cfg *config.Config, source core.RuleSource, logger *zap.Logger) (*rules.Repository, error) {
		repo := rules.NewRepository(cfg.GetRules().CSVPath, source, logger)
		if err := repo.Load(context.Background()); err != nil {
			return nil, err
		}
		return repo, nil
	}); err != nil {
		return nil, err
	}

	// Register body cleaner
	if err := container.Provide(func(logger *zap.Logger) core.BodyCleaner {
		return clean.NewHTMLCleaner(logger)
	}); err != nil {
		return nil, err
	}

	// Register extraction components
	if err := container.Provide(extract.NewRegexExtractor); err != nil {
		return nil, err
	}
	if err := container.Provide(extract.NewNameExtractor); err != nil {
		return nil, err
	}
	if err := container.Provide(extract.NewPositionExtractor); err != nil {
		return nil, err
	}
	if err := container.Provide(extract.NewLocationExtractor); err != nil {
		return nil, err
	}
	if err := container.Provide(extract.NewMailFilter); err != nil {
		return nil, err
	}
	if err := container.Provide(func(repo *rules.Repository, cfg *config.Config, logger *zap.Logger) *extract.CompanyScorer {
		extractionCfg := cfg.GetExtraction()
		return extract.NewCompanyScorer(repo,
			extractionCfg.MinCompanyConfidence,
			extractionCfg.VendorPreferenceMargin,
			logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(extract.NewContactExtractor); err != nil {
		return nil, err
	}

	// Register deduplication cache
	if err := container.Provide(state.NewDeduplicationCache); err != nil {
		return nil, err
	}

	// Register mailbox transport factory
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) runner.TransportFactory {
		imapCfg := cfg.GetIMAP()
		return func(username, password string) core.MailboxTransport {
			return imap.NewTransport(imapCfg.Host, imapCfg.Port, imapCfg.Folder, username, password, logger)
		}
	}); err != nil {
		return nil, err
	}

	// Register configured accounts
	if err := container.Provide(func(cfg *config.Config) ([]runner.Account, error) {
		return runner.ParseAccounts(cfg.GetIMAP().Accounts)
	}); err != nil {
		return nil, err
	}

	// Register mailbox runner
	if err := container.Provide(func(
		transports runner.TransportFactory,
		cleaner core.BodyCleaner,
		filter *extract.MailFilter,
		extractor *extract.ContactExtractor,
		contacts core.ContactStore,
		watermarks core.WatermarkStore,
		dedup *state.DeduplicationCache,
		cfg *config.Config,
		logger *zap.Logger,
	) *runner.MailboxRunner {
		imapCfg := cfg.GetIMAP()
		stateCfg := cfg.GetState()
		return runner.NewMailboxRunner(transports, cleaner, filter, extractor,
			contacts, watermarks, dedup,
			imapCfg.BatchSize, imapCfg.MaxMessages, stateCfg.KnownContactsLimit, logger)
	}); err != nil {
		return nil, err
	}

	// Register extraction service
	if err := container.Provide(runner.NewService); err != nil {
		return nil, err
	}

	return container, nil
}
