package core

import (
	"context"
)

// MailboxTransport defines the interface for fetching messages from a
// recruiter mailbox. Implementations own the connection lifecycle; Connect
// must be called before FetchBatch and a failed Connect is fatal to that
// mailbox's run.
type MailboxTransport interface {
	// Connect authenticates against the mailbox.
	Connect(ctx context.Context) error

	// FetchBatch pages through messages with UID greater than sinceUID,
	// newest first. cursor is 0 for the first page; the returned next
	// cursor is -1 when no pages remain. sinceUID of 0 means all messages.
	FetchBatch(ctx context.Context, sinceUID uint32, batchSize, cursor int) ([]RawMessage, int, error)

	// Disconnect closes the connection. Safe to call after a failed Connect.
	Disconnect() error
}

// EntityExtractor defines the interface for the external NLP capability. The
// core never assumes a specific model; it only requires these two call shapes
// and applies its own confidence thresholds.
type EntityExtractor interface {
	// ExtractEntities performs zero-shot extraction of the given labels.
	ExtractEntities(ctx context.Context, text string, labels []string) ([]Entity, error)

	// Classify performs binary/topic classification of the text.
	Classify(ctx context.Context, text string) (Classification, error)
}

// BodyCleaner converts a raw (possibly HTML) message body to plain text.
type BodyCleaner interface {
	Clean(body string) (string, error)
}

// ContactStore defines the interface for the remote persistence service.
type ContactStore interface {
	// SaveContactsBulk persists resolved contacts in one call.
	SaveContactsBulk(ctx context.Context, contacts []Contact) (SaveResult, error)

	// KnownIdentities returns the normalized identity keys already stored
	// for a mailbox, used to warm the deduplication cache at run start.
	KnownIdentities(ctx context.Context, mailbox string, limit int) (map[string]struct{}, error)

	// LogActivity records a run summary for a mailbox owner.
	LogActivity(ctx context.Context, mailboxOwnerID int, countExtracted int, notes string) error
}

// WatermarkStore persists per-mailbox sync watermarks. Advancing is
// monotonic; a watermark is never rolled back except by an explicit Reset.
type WatermarkStore interface {
	// Get returns the stored watermark, or nil if the mailbox has never
	// completed a batch.
	Get(ctx context.Context, mailbox string) (*SyncWatermark, error)

	// Advance records uid as the new watermark for the mailbox. It must be
	// called only after the batch has fully committed.
	Advance(ctx context.Context, mailbox string, uid uint32) error

	// Reset deletes one mailbox's watermark, forcing a full resync.
	Reset(ctx context.Context, mailbox string) error

	// ResetAll clears every watermark.
	ResetAll(ctx context.Context) error
}

// RuleSource is the remote fallback for rule loading when the local rule
// file is absent or unreadable.
type RuleSource interface {
	ListRules(ctx context.Context) ([]Rule, error)
}
