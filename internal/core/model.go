package core

import (
	"strings"
	"time"
)

// MatchType determines how a rule keyword is compared against a value.
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchContains MatchType = "contains"
	MatchRegex    MatchType = "regex"
)

// RuleAction is the decision a matching rule produces.
type RuleAction string

const (
	ActionAllow RuleAction = "allow"
	ActionBlock RuleAction = "block"
	// ActionNone is the explicit "no rule matched" outcome. Callers apply
	// their own configured default instead of treating it as a block.
	ActionNone RuleAction = ""
)

// Rule is one externally configured classification rule. Rules are always
// evaluated in ascending Priority order and the first match wins.
type Rule struct {
	ID       int
	Category string
	Source   string
	Keywords []string
	Match    MatchType
	Action   RuleAction
	Priority int
	Active   bool
}

// CandidateSource identifies where an extraction candidate came from. The
// base confidence for each source is fixed (see the extract package).
type CandidateSource string

const (
	SourceExplicitMarker  CandidateSource = "explicit_marker"
	SourceMarkupSpan      CandidateSource = "markup_span"
	SourcePositionPattern CandidateSource = "position_pattern"
	SourceSignature       CandidateSource = "signature"
	SourceIntroText       CandidateSource = "introduction_text"
	SourceModelEntity     CandidateSource = "model_entity"
	SourceDomainHeuristic CandidateSource = "domain_heuristic"
)

// ProvenanceType classifies a company candidate by whose company it names:
// the staffing vendor, the hiring client, an applicant tracking system, or
// unknown.
type ProvenanceType string

const (
	ProvenanceClient  ProvenanceType = "client"
	ProvenanceVendor  ProvenanceType = "vendor"
	ProvenanceATS     ProvenanceType = "ats"
	ProvenanceUnknown ProvenanceType = "unknown"
)

// ExtractionCandidate is a transient per-field candidate value. Confidence is
// computed once from the source base score plus penalties and bonuses, then
// clamped to [0,1]. Candidates are never persisted.
type ExtractionCandidate struct {
	Value      string
	Source     CandidateSource
	Confidence float64
	Provenance ProvenanceType
}

// NewExtractionCandidate builds a candidate with the confidence clamped into
// the valid range.
func NewExtractionCandidate(value string, source CandidateSource, confidence float64, prov ProvenanceType) ExtractionCandidate {
	return ExtractionCandidate{
		Value:      value,
		Source:     source,
		Confidence: ClampScore(confidence),
		Provenance: prov,
	}
}

// ClampScore bounds a confidence score to [0,1].
func ClampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// Contact is one resolved vendor contact record for a message.
type Contact struct {
	Name             string
	Email            string
	Phone            string
	Company          string
	LinkedInID       string
	Location         string
	ZipCode          string
	JobPosition      string
	EmploymentType   string
	ExtractionSource string
	SourceMailbox    string
	ExtractedFromUID uint32
}

// HasIdentity reports whether the contact carries at least one strong
// identifier. Records without one are dropped before persistence.
func (c *Contact) HasIdentity() bool {
	return c.Email != "" || c.LinkedInID != ""
}

// IdentityKey returns the normalized deduplication key for the contact.
func (c *Contact) IdentityKey() string {
	if c.Email != "" {
		return strings.ToLower(strings.TrimSpace(c.Email))
	}
	if c.LinkedInID != "" {
		return "li:" + strings.ToLower(strings.TrimSpace(c.LinkedInID))
	}
	return ""
}

// SyncWatermark is the last processed message UID for one mailbox. It is
// created on the first successful batch and only ever advances.
type SyncWatermark struct {
	Mailbox string
	LastUID uint32
	LastRun time.Time
}

// RawMessage is one fetched mailbox message before parsing.
type RawMessage struct {
	UID uint32
	Raw []byte
}

// Entity is one span returned by the entity extraction capability.
type Entity struct {
	Label string
	Text  string
	Score float64
}

// Classification is the result of the binary text classification capability.
type Classification struct {
	Label string
	Score float64
}

// SaveResult reports the outcome of a bulk contact save.
type SaveResult struct {
	Inserted int
	Skipped  int
}

// FilterStats counts message filter outcomes for one mailbox run.
type FilterStats struct {
	Total           int
	Passed          int
	Junk            int
	NotRecruiter    int
	CalendarInvites int
}

// Add accumulates another batch's stats.
func (s *FilterStats) Add(other FilterStats) {
	s.Total += other.Total
	s.Passed += other.Passed
	s.Junk += other.Junk
	s.NotRecruiter += other.NotRecruiter
	s.CalendarInvites += other.CalendarInvites
}

// RunStatus summarizes a run outcome.
type RunStatus string

const (
	RunSuccess        RunStatus = "success"
	RunPartialSuccess RunStatus = "partial_success"
	RunFailed         RunStatus = "failed"
)

// MailboxRunResult aggregates statistics for a single mailbox run.
type MailboxRunResult struct {
	Mailbox       string
	Status        RunStatus
	EmailsFetched int
	ContactsSaved int
	Deduplicated  int
	LastUID       uint32
	FilterStats   FilterStats
	Err           string
}

// ServiceRunResult aggregates results across all mailboxes in one invocation.
type ServiceRunResult struct {
	Status        RunStatus
	TotalContacts int
	Mailboxes     []MailboxRunResult
}
