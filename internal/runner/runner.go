package runner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/extract"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/state"
	"go.uber.org/zap"
)

// Account is one mailbox to scan. OwnerID links the mailbox to its backend
// record for activity logging; zero means unregistered.
type Account struct {
	Email    string
	Password string
	OwnerID  int
}

// ParseAccounts parses configured account entries of the form
// "email:password" or "email:password:ownerID". Malformed entries are
// reported, not skipped, so a typo cannot silently drop a mailbox.
func ParseAccounts(entries []string) ([]Account, error) {
	accounts := make([]Account, 0, len(entries))
	for _, entry := range entries {
		email, rest, ok := strings.Cut(entry, ":")
		if !ok || email == "" || rest == "" {
			return nil, fmt.Errorf("malformed account entry %q, want email:password[:ownerID]", email)
		}
		password, ownerPart, hasOwner := strings.Cut(rest, ":")
		account := Account{Email: email, Password: password}
		if hasOwner {
			ownerID, err := strconv.Atoi(ownerPart)
			if err != nil {
				return nil, fmt.Errorf("bad owner id in account entry for %s: %v", email, err)
			}
			account.OwnerID = ownerID
		}
		if account.Password == "" {
			return nil, fmt.Errorf("empty password in account entry for %s", email)
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// TransportFactory builds a mailbox transport for one account.
type TransportFactory func(username, password string) core.MailboxTransport

// MailboxRunner drives one mailbox through a full extraction run: fetch
// messages above the stored watermark in pages, filter, extract, deduplicate,
// persist, then advance the watermark once the run has committed.
type MailboxRunner struct {
	transports  TransportFactory
	cleaner     core.BodyCleaner
	filter      *extract.MailFilter
	extractor   *extract.ContactExtractor
	contacts    core.ContactStore
	watermarks  core.WatermarkStore
	dedup       *state.DeduplicationCache
	batchSize   int
	maxMessages int
	knownLimit  int
	logger      *zap.Logger
}

// NewMailboxRunner creates a new mailbox runner
func NewMailboxRunner(
	transports TransportFactory,
	cleaner core.BodyCleaner,
	filter *extract.MailFilter,
	extractor *extract.ContactExtractor,
	contacts core.ContactStore,
	watermarks core.WatermarkStore,
	dedup *state.DeduplicationCache,
	batchSize int,
	maxMessages int,
	knownLimit int,
	logger *zap.Logger,
) *MailboxRunner {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &MailboxRunner{
		transports:  transports,
		cleaner:     cleaner,
		filter:      filter,
		extractor:   extractor,
		contacts:    contacts,
		watermarks:  watermarks,
		dedup:       dedup,
		batchSize:   batchSize,
		maxMessages: maxMessages,
		knownLimit:  knownLimit,
		logger:      logger,
	}
}

// Run processes one mailbox and reports its statistics. Pages are fetched
// newest first, so the watermark advances once, after every page has
// committed; a mid-run failure leaves it untouched and the next run re-reads
// the same span, with the deduplication cache absorbing the overlap.
func (r *MailboxRunner) Run(ctx context.Context, account Account) core.MailboxRunResult {
	result := core.MailboxRunResult{Mailbox: account.Email, Status: core.RunSuccess}
	logger := r.logger.With(zap.String("mailbox", account.Email))

	sinceUID := uint32(0)
	if wm, err := r.watermarks.Get(ctx, account.Email); err != nil {
		logger.Warn("Failed to read watermark, rescanning whole mailbox", zap.Error(err))
	} else if wm != nil {
		sinceUID = wm.LastUID
		result.LastUID = wm.LastUID
	}

	transport := r.transports(account.Email, account.Password)
	if err := transport.Connect(ctx); err != nil {
		logger.Error("Mailbox connection failed", zap.Error(err))
		return r.finish(ctx, account, result, err)
	}
	defer transport.Disconnect()

	r.dedup.ResetRun()
	if err := r.dedup.Warm(ctx, r.contacts, account.Email, r.knownLimit); err != nil {
		logger.Warn("Deduplication cache warm failed, run may re-save known contacts", zap.Error(err))
	}

	cursor := 0
	var maxSeenUID uint32
	for {
		raws, next, err := transport.FetchBatch(ctx, sinceUID, r.batchSize, cursor)
		if err != nil {
			logger.Error("Message fetch failed", zap.Error(err))
			return r.finish(ctx, account, result, err)
		}
		if len(raws) == 0 {
			break
		}
		if r.maxMessages > 0 && result.EmailsFetched+len(raws) > r.maxMessages {
			raws = raws[:r.maxMessages-result.EmailsFetched]
		}
		result.EmailsFetched += len(raws)
		for _, raw := range raws {
			if raw.UID > maxSeenUID {
				maxSeenUID = raw.UID
			}
		}

		if err := r.processBatch(ctx, account, raws, &result); err != nil {
			return r.finish(ctx, account, result, err)
		}

		if r.maxMessages > 0 && result.EmailsFetched >= r.maxMessages {
			logger.Info("Reached message cap for this run", zap.Int("max_messages", r.maxMessages))
			break
		}
		if next < 0 {
			break
		}
		cursor = next
	}

	if maxSeenUID > 0 {
		if err := r.watermarks.Advance(ctx, account.Email, maxSeenUID); err != nil {
			logger.Error("Watermark advance failed", zap.Error(err))
			return r.finish(ctx, account, result, err)
		}
		if maxSeenUID > result.LastUID {
			result.LastUID = maxSeenUID
		}
	}

	return r.finish(ctx, account, result, nil)
}

func (r *MailboxRunner) processBatch(ctx context.Context, account Account, raws []core.RawMessage, result *core.MailboxRunResult) error {
	logger := r.logger.With(zap.String("mailbox", account.Email))

	messages := make([]*extract.ParsedMessage, 0, len(raws))
	for _, raw := range raws {
		pm, err := extract.ParseMessage(raw.Raw, raw.UID)
		if err != nil {
			logger.Warn("Skipping unparseable message", zap.Uint32("uid", raw.UID), zap.Error(err))
			continue
		}
		messages = append(messages, pm)
	}

	kept, bodies, stats := r.filter.Filter(messages, r.cleanBody)
	result.FilterStats.Add(stats)

	var extracted []core.Contact
	for i, pm := range kept {
		extracted = append(extracted, r.extractor.ExtractContacts(ctx, pm, bodies[i], account.Email)...)
	}

	admitted := r.dedup.Filter(extracted)
	result.Deduplicated += len(extracted) - len(admitted)

	if len(admitted) > 0 {
		saved, err := r.contacts.SaveContactsBulk(ctx, admitted)
		if err != nil {
			logger.Error("Contact save failed, watermark not advanced", zap.Error(err))
			return err
		}
		result.ContactsSaved += saved.Inserted
	}
	return nil
}

func (r *MailboxRunner) cleanBody(pm *extract.ParsedMessage) string {
	body := pm.HTMLBody
	if body == "" {
		body = pm.TextBody
	}
	clean, err := r.cleaner.Clean(body)
	if err != nil {
		r.logger.Warn("Body cleaning failed, using raw text part",
			zap.Uint32("uid", pm.UID), zap.Error(err))
		return pm.TextBody
	}
	return clean
}

// finish settles the run status and logs the activity summary.
func (r *MailboxRunner) finish(ctx context.Context, account Account, result core.MailboxRunResult, runErr error) core.MailboxRunResult {
	if runErr != nil {
		result.Err = runErr.Error()
		if result.ContactsSaved > 0 {
			result.Status = core.RunPartialSuccess
		} else {
			result.Status = core.RunFailed
		}
	}

	notes := fmt.Sprintf("emails=%d passed=%d junk=%d not_recruiter=%d deduplicated=%d status=%s",
		result.FilterStats.Total, result.FilterStats.Passed, result.FilterStats.Junk,
		result.FilterStats.NotRecruiter, result.Deduplicated, result.Status)
	if err := r.contacts.LogActivity(ctx, account.OwnerID, result.ContactsSaved, notes); err != nil {
		r.logger.Warn("Activity logging failed",
			zap.String("mailbox", account.Email), zap.Error(err))
	}

	r.logger.Info("Mailbox run finished",
		zap.String("mailbox", account.Email),
		zap.String("status", string(result.Status)),
		zap.Int("emails_fetched", result.EmailsFetched),
		zap.Int("contacts_saved", result.ContactsSaved),
		zap.Int("deduplicated", result.Deduplicated),
		zap.Uint32("last_uid", result.LastUID))
	return result
}

// errAborted marks context cancellation between mailboxes.
var errAborted = errors.New("run aborted")
