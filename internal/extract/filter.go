package extract

import (
	"regexp"
	"strings"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/rules"
	"go.uber.org/zap"
)

// Marketing mail usually piles up soft sales language; a handful of matches
// is needed before a mail is written off so recruiter mail that borrows one
// or two phrases still passes.
const antiKeywordThreshold = 4

var fromAddressPattern = regexp.MustCompile(`(?i)(?:<|\(|^)([\w.-]+@[\w.-]+)(?:>|\)|$)`)

// MailFilter classifies fetched messages: calendar invites always pass,
// junk senders are dropped by rule verdicts, and the rest must read like
// recruiter outreach.
type MailFilter struct {
	rules  *rules.Repository
	logger *zap.Logger

	recruiterKeywords []string
	antiKeywords      []string
}

// NewMailFilter creates a MailFilter fed from the recruiter_keywords and
// anti_recruiter_keywords rule categories.
func NewMailFilter(repo *rules.Repository, logger *zap.Logger) *MailFilter {
	mf := &MailFilter{rules: repo, logger: logger}
	for _, kw := range repo.KeywordsFor("recruiter_keywords") {
		mf.recruiterKeywords = append(mf.recruiterKeywords, strings.ToLower(kw))
	}
	for _, kw := range repo.KeywordsFor("anti_recruiter_keywords") {
		mf.antiKeywords = append(mf.antiKeywords, strings.ToLower(kw))
	}
	return mf
}

// extractCleanEmail pulls the bare address out of a From header value.
func extractCleanEmail(fromHeader string) string {
	m := fromAddressPattern.FindStringSubmatch(fromHeader)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// IsJunk reports whether the sender is an automated or blocked source. A
// From header without a parsable address is junk by definition.
func (mf *MailFilter) IsJunk(fromHeader string) bool {
	email := extractCleanEmail(fromHeader)
	if email == "" || !strings.Contains(email, "@") {
		return true
	}
	switch mf.rules.CheckEmail(email) {
	case core.ActionBlock:
		mf.logger.Debug("Sender blocked by rule", zap.String("email", email))
		return true
	case core.ActionAllow:
		return false
	}
	return false
}

// IsRecruiterMail classifies a message as recruiter outreach. Subject
// keywords are the strongest signal; failing that, body keywords or any
// single keyword overall is enough, unless marketing language dominates.
func (mf *MailFilter) IsRecruiterMail(subject, body, fromHeader string) bool {
	if mf.IsJunk(fromHeader) {
		return false
	}

	subjectLower := strings.ToLower(subject)
	bodyLower := strings.ToLower(body)
	combined := subjectLower + " " + bodyLower

	antiCount := 0
	for _, kw := range mf.antiKeywords {
		if strings.Contains(combined, kw) {
			antiCount++
		}
	}
	if antiCount >= antiKeywordThreshold {
		mf.logger.Debug("Filtered marketing mail", zap.Int("anti_keywords", antiCount))
		return false
	}

	subjectCount := 0
	for _, kw := range mf.recruiterKeywords {
		if strings.Contains(subjectLower, kw) {
			subjectCount++
		}
	}
	if subjectCount >= 1 {
		return true
	}

	bodyCount := 0
	for _, kw := range mf.recruiterKeywords {
		if strings.Contains(bodyLower, kw) {
			bodyCount++
		}
	}
	if bodyCount >= 2 {
		return true
	}
	return subjectCount+bodyCount >= 1
}

// Filter splits parsed messages into those worth extracting from and
// counts why the rest were dropped. Calendar invites are always kept.
func (mf *MailFilter) Filter(messages []*ParsedMessage, cleaner func(*ParsedMessage) string) ([]*ParsedMessage, []string, core.FilterStats) {
	stats := core.FilterStats{Total: len(messages)}
	var kept []*ParsedMessage
	var bodies []string

	for _, pm := range messages {
		if pm.IsCalendarInvite() {
			stats.CalendarInvites++
			kept = append(kept, pm)
			bodies = append(bodies, cleaner(pm))
			continue
		}
		if mf.IsJunk(pm.From) {
			stats.Junk++
			continue
		}
		body := cleaner(pm)
		if mf.IsRecruiterMail(pm.Subject, body, pm.From) {
			kept = append(kept, pm)
			bodies = append(bodies, body)
		} else {
			stats.NotRecruiter++
		}
	}

	stats.Passed = len(kept)
	mf.logger.Info("Filtered messages",
		zap.Int("total", stats.Total),
		zap.Int("passed", stats.Passed),
		zap.Int("junk", stats.Junk),
		zap.Int("not_recruiter", stats.NotRecruiter),
		zap.Int("calendar_invites", stats.CalendarInvites))
	return kept, bodies, stats
}
