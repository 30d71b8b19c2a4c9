package extract

import (
	"regexp"
	"strings"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/rules"
	"github.com/nyaruka/phonenumbers"
	"go.uber.org/zap"
)

var (
	emailPattern    = regexp.MustCompile(`(?i)[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	linkedinPattern = regexp.MustCompile(`(?i)https?://(?:[a-z]{2,3}\.)?linkedin\.com/in/([a-zA-Z0-9\-_]+)`)

	// Runs of digits with common phone punctuation, long enough to be a
	// dialable number once parsed.
	phoneCandidatePattern = regexp.MustCompile(`\+?\(?\d[\d\s().-]{8,18}\d`)
)

// RegexExtractor extracts contact fields with deterministic patterns. Email
// acceptance is rule-driven: the repository's block/allow verdict is applied
// after structural validation.
type RegexExtractor struct {
	rules  *rules.Repository
	logger *zap.Logger

	fileExtensions map[string]struct{}
}

// NewRegexExtractor creates a RegexExtractor. The invalid_email_extension
// rule category seeds the file/CID suffix blocklist.
func NewRegexExtractor(repo *rules.Repository, logger *zap.Logger) *RegexExtractor {
	exts := make(map[string]struct{})
	for _, kw := range repo.KeywordsFor("invalid_email_extension") {
		exts[strings.ToLower(kw)] = struct{}{}
	}
	if len(exts) > 0 {
		logger.Info("Loaded invalid email extensions", zap.Int("count", len(exts)))
	}
	return &RegexExtractor{
		rules:          repo,
		logger:         logger,
		fileExtensions: exts,
	}
}

// isValidEmailFormat rejects addresses that are not real mailboxes: inline
// image CID references (image001.png@01dc6e1f.089ef930), file attachments
// masquerading as addresses, hex-only domains, and domains too short to
// resolve.
func (r *RegexExtractor) isValidEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 {
		return false
	}
	localPart := strings.ToLower(email[:at])
	domain := strings.ToLower(email[at+1:])

	for ext := range r.fileExtensions {
		if strings.HasSuffix(localPart, ext) {
			r.logger.Debug("Filtered out file/CID address", zap.String("email", email))
			return false
		}
	}

	// Hex-only domain parts are CID references, not hosts.
	allHex := true
	for _, part := range strings.Split(domain, ".") {
		for _, c := range part {
			if !strings.ContainsRune("0123456789abcdef", c) {
				allHex = false
				break
			}
		}
		if !allHex {
			break
		}
	}
	if allHex {
		r.logger.Debug("Filtered out CID reference", zap.String("email", email))
		return false
	}

	hasAlpha := false
	for _, c := range domain {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			hasAlpha = true
			break
		}
	}
	if !hasAlpha {
		return false
	}

	return len(domain) >= 4
}

// ExtractEmail returns the first address in text that passes structural
// validation and is not blocked by the rule repository.
func (r *RegexExtractor) ExtractEmail(text string) string {
	for _, email := range emailPattern.FindAllString(text, -1) {
		email = strings.ToLower(email)
		if !r.isValidEmailFormat(email) {
			continue
		}
		if r.rules.CheckEmail(email) == core.ActionBlock {
			r.logger.Debug("Skipped blocked email", zap.String("email", email))
			continue
		}
		return email
	}
	return ""
}

// ExtractAllEmails returns every address pattern match, lowercased, without
// rule filtering.
func (r *RegexExtractor) ExtractAllEmails(text string) []string {
	raw := emailPattern.FindAllString(text, -1)
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		out = append(out, strings.ToLower(e))
	}
	return out
}

// ExtractPhone finds the first valid phone number and formats it E.164.
// Candidate digit runs are parsed as US numbers first, then region-free for
// numbers written with an international prefix.
func (r *RegexExtractor) ExtractPhone(text string) string {
	for _, region := range []string{"US", ""} {
		for _, candidate := range phoneCandidatePattern.FindAllString(text, -1) {
			num, err := phonenumbers.Parse(candidate, region)
			if err != nil {
				continue
			}
			if phonenumbers.IsValidNumber(num) {
				return phonenumbers.Format(num, phonenumbers.E164)
			}
		}
	}
	return ""
}

// ExtractLinkedInID returns the profile slug from the first LinkedIn
// profile URL in text.
func (r *RegexExtractor) ExtractLinkedInID(text string) string {
	m := linkedinPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtractLinkedInURL returns the full matched LinkedIn profile URL.
func (r *RegexExtractor) ExtractLinkedInURL(text string) string {
	return linkedinPattern.FindString(text)
}

// ValidLinkedInID reports whether an extracted slug looks like a real
// profile ID rather than scraped prose.
func ValidLinkedInID(id string) bool {
	if id == "" || len(id) > 50 {
		return false
	}
	if strings.Contains(id, "@") {
		return false
	}
	if strings.Contains(id, "  ") {
		return false
	}
	lower := strings.ToLower(id)
	for _, title := range []string{"mr ", "mr.", "ms ", "ms.", "mrs ", "mrs.", "dr ", "dr."} {
		if strings.HasPrefix(lower, title) {
			return false
		}
	}
	return true
}
