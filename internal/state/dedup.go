package state

import (
	"context"
	"sync"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"go.uber.org/zap"
)

// DeduplicationCache tracks contact identities in two tiers: identities the
// backend already knows (warmed once per run) and identities seen earlier in
// the current run. A contact passes at most once per identity key.
type DeduplicationCache struct {
	mu        sync.Mutex
	known     map[string]struct{}
	seenInRun map[string]struct{}
	logger    *zap.Logger
}

// NewDeduplicationCache creates an empty cache.
func NewDeduplicationCache(logger *zap.Logger) *DeduplicationCache {
	return &DeduplicationCache{
		known:     make(map[string]struct{}),
		seenInRun: make(map[string]struct{}),
		logger:    logger,
	}
}

// Warm loads the identities the backend already stores for a mailbox.
// A warm failure is not fatal: the run proceeds with in-run dedup only and
// the backend's own skip logic catches the rest.
func (d *DeduplicationCache) Warm(ctx context.Context, store core.ContactStore, mailbox string, limit int) error {
	known, err := store.KnownIdentities(ctx, mailbox, limit)
	if err != nil {
		d.logger.Warn("Failed to warm dedup cache, continuing without",
			zap.String("mailbox", mailbox),
			zap.Error(err))
		return err
	}
	d.mu.Lock()
	d.known = known
	d.mu.Unlock()
	d.logger.Info("Warmed dedup cache",
		zap.String("mailbox", mailbox),
		zap.Int("known_identities", len(known)))
	return nil
}

// Admit reports whether the contact's identity is new, recording it as seen.
// Contacts without an identity key are never admitted.
func (d *DeduplicationCache) Admit(contact *core.Contact) bool {
	key := contact.IdentityKey()
	if key == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.known[key]; ok {
		return false
	}
	if _, ok := d.seenInRun[key]; ok {
		return false
	}
	d.seenInRun[key] = struct{}{}
	return true
}

// Filter returns the contacts whose identity has not been seen before.
func (d *DeduplicationCache) Filter(contacts []core.Contact) []core.Contact {
	var out []core.Contact
	for i := range contacts {
		if d.Admit(&contacts[i]) {
			out = append(out, contacts[i])
		}
	}
	if dropped := len(contacts) - len(out); dropped > 0 {
		d.logger.Debug("Dropped duplicate contacts", zap.Int("count", dropped))
	}
	return out
}

// ResetRun clears the in-run tier, keeping the warmed backend identities.
func (d *DeduplicationCache) ResetRun() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seenInRun = make(map[string]struct{})
}
