package runner

import (
	"context"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"go.uber.org/zap"
)

// Service runs the extraction pipeline across every configured mailbox.
// Mailboxes are independent: one failing does not stop the others. Rules are
// loaded before the pipeline is wired, so by the time Run is called every
// component already carries its keyword lists.
type Service struct {
	runner   *MailboxRunner
	accounts []Account
	logger   *zap.Logger
}

// NewService creates a new extraction service
func NewService(runner *MailboxRunner, accounts []Account, logger *zap.Logger) *Service {
	return &Service{
		runner:   runner,
		accounts: accounts,
		logger:   logger,
	}
}

// Run processes all configured mailboxes sequentially and aggregates their
// results.
func (s *Service) Run(ctx context.Context) core.ServiceRunResult {
	result := core.ServiceRunResult{Status: core.RunSuccess}

	if len(s.accounts) == 0 {
		s.logger.Warn("No mailbox accounts configured, nothing to do")
		return result
	}

	for _, account := range s.accounts {
		if ctx.Err() != nil {
			s.logger.Warn("Run aborted before mailbox", zap.String("mailbox", account.Email))
			result.Mailboxes = append(result.Mailboxes, core.MailboxRunResult{
				Mailbox: account.Email,
				Status:  core.RunFailed,
				Err:     errAborted.Error(),
			})
			continue
		}
		mr := s.runner.Run(ctx, account)
		result.Mailboxes = append(result.Mailboxes, mr)
		result.TotalContacts += mr.ContactsSaved
	}

	failed := 0
	for _, mr := range result.Mailboxes {
		if mr.Status == core.RunFailed {
			failed++
		} else if mr.Status == core.RunPartialSuccess {
			result.Status = core.RunPartialSuccess
		}
	}
	switch {
	case failed == len(result.Mailboxes):
		result.Status = core.RunFailed
	case failed > 0:
		result.Status = core.RunPartialSuccess
	}

	s.logger.Info("Extraction run finished",
		zap.String("status", string(result.Status)),
		zap.Int("mailboxes", len(result.Mailboxes)),
		zap.Int("total_contacts", result.TotalContacts))
	return result
}
