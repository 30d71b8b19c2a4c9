package state

import (
	"context"
	"sync"
	"time"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory watermark store for tests and one-shot runs
// where persistence across processes is not wanted.
type MemoryStore struct {
	mu     sync.RWMutex
	marks  map[string]core.SyncWatermark
	logger *zap.Logger
}

// NewMemoryStore creates an empty in-memory watermark store.
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		marks:  make(map[string]core.SyncWatermark),
		logger: logger,
	}
}

func (s *MemoryStore) Get(ctx context.Context, mailbox string) (*core.SyncWatermark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wm, ok := s.marks[mailbox]
	if !ok {
		return nil, nil
	}
	out := wm
	return &out, nil
}

func (s *MemoryStore) Advance(ctx context.Context, mailbox string, uid uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.marks[mailbox]; ok && uid <= current.LastUID {
		return nil
	}
	s.marks[mailbox] = core.SyncWatermark{
		Mailbox: mailbox,
		LastUID: uid,
		LastRun: time.Now().UTC(),
	}
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context, mailbox string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.marks, mailbox)
	return nil
}

func (s *MemoryStore) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks = make(map[string]core.SyncWatermark)
	return nil
}

// Stop is a no-op; it exists so both store types can be shut down the same
// way.
func (s *MemoryStore) Stop() {}
