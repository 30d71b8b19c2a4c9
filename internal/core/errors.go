package core

import "errors"

// Error taxonomy used by the runner to decide per-mailbox run status.
// Transport errors abort the mailbox; rule-load errors abort the service;
// persistence errors stop the batch without advancing the watermark.
var (
	ErrTransport   = errors.New("mailbox transport error")
	ErrRuleLoad    = errors.New("rule load error")
	ErrPersistence = errors.New("persistence error")
)
