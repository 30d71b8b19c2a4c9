package extract

import (
	"net/mail"
	"strings"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/rules"
	"go.uber.org/zap"
)

var signatureNamePatterns = compileAll(
	// Name on the line after a signoff
	`(?m)(?:Thanks|Regards|Best|Sincerely|Warm regards|Kind regards|Cheers),?\s*[\r\n]+\s*([A-Z][a-z]+(?:[\s-][A-Z][a-z]+){1,2})\s*[\r\n]`,
	// Name followed by a title line
	`(?m)([A-Z][a-z]+(?:[\s-][A-Z][a-z]+){1,2})\s*[\r\n]+(?:Senior|Lead|Director|Manager|Recruiter|VP|President)`,
	// Name followed by contact details
	`(?m)([A-Z][a-z]+(?:[\s-][A-Z][a-z]+){1,2})\s*[\r\n]+(?:Phone|Mobile|Email|Tel):`,
	// Signoff with the name on the same paragraph
	`(?m)(?:Thanks|Regards|Best|Sincerely),?\s*[\r\n]+\s*([A-Z][a-z]+(?:[\s][A-Z][a-z]+){1,2})`,
)

// NameExtractor resolves the vendor contact's display name. Header display
// names are preferred, then signature patterns, then a name formatted from
// the address local part. Every source is checked against the mailbox
// owner's address so the candidate's own name never becomes a vendor record.
type NameExtractor struct {
	greetingPatterns  []string
	companyIndicators []string
	logger            *zap.Logger
}

// NewNameExtractor creates a NameExtractor seeded with the
// greeting_patterns and company_indicators rule categories.
func NewNameExtractor(repo *rules.Repository, logger *zap.Logger) *NameExtractor {
	ne := &NameExtractor{logger: logger}
	for _, kw := range repo.KeywordsFor("greeting_patterns") {
		ne.greetingPatterns = append(ne.greetingPatterns, strings.ToLower(strings.TrimSpace(kw)))
	}
	for _, kw := range repo.KeywordsFor("company_indicators") {
		ne.companyIndicators = append(ne.companyIndicators, strings.ToLower(strings.TrimSpace(kw)))
	}
	return ne
}

// FromHeaderForEmail returns the display name of whichever addressing
// header carries the given address. Matching the header to the address
// keeps the name and the identity from the same participant.
func (ne *NameExtractor) FromHeaderForEmail(pm *ParsedMessage, email string) string {
	if email == "" {
		return ""
	}
	emailLower := strings.ToLower(email)

	single := []string{pm.ReplyTo, pm.Sender, pm.From}
	for _, header := range single {
		if header == "" || !strings.Contains(strings.ToLower(header), emailLower) {
			continue
		}
		if addr, err := mail.ParseAddress(header); err == nil && addr.Name != "" && addr.Name != addr.Address {
			return strings.TrimSpace(decodeHeader(addr.Name))
		}
	}

	for _, header := range []string{pm.Cc, pm.Bcc} {
		if header == "" {
			continue
		}
		for _, chunk := range strings.Split(header, ",") {
			chunk = strings.TrimSpace(chunk)
			if !strings.Contains(strings.ToLower(chunk), emailLower) {
				continue
			}
			if addr, err := mail.ParseAddress(chunk); err == nil && addr.Name != "" && addr.Name != addr.Address {
				return strings.TrimSpace(decodeHeader(addr.Name))
			}
		}
	}
	return ""
}

// FromSignature extracts a human name from signature blocks near signoffs,
// titles or contact lines.
func (ne *NameExtractor) FromSignature(text string) string {
	for _, pattern := range signatureNamePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		words := strings.Fields(name)
		if len(words) >= 2 && len(words) <= 3 && !strings.ContainsAny(name, "0123456789") {
			return name
		}
	}
	return ""
}

// FromEmailLocalPart formats a fallback name from the address local part:
// "jane.doe@x.com" yields "Jane Doe". Single short fragments are dropped.
func (ne *NameExtractor) FromEmailLocalPart(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return ""
	}
	local := email[:at]
	for _, sep := range []string{".", "_", "-"} {
		local = strings.ReplaceAll(local, sep, " ")
	}
	var cleaned strings.Builder
	for _, c := range local {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == ' ' {
			cleaned.WriteRune(c)
		} else {
			cleaned.WriteRune(' ')
		}
	}

	var words []string
	for _, w := range strings.Fields(cleaned.String()) {
		if len(w) > 1 {
			words = append(words, strings.Title(strings.ToLower(w)))
		}
	}
	name := strings.Join(words, " ")
	if len(words) >= 2 || len(name) >= 3 {
		return name
	}
	return ""
}

// IsCandidateName reports whether a name belongs to the mailbox owner
// rather than the vendor. Greeting fragments and company phrases also
// count as rejections: a greeting captured as a name means the extraction
// grabbed the salutation aimed at the candidate.
func (ne *NameExtractor) IsCandidateName(name, ownerEmail string) bool {
	if name == "" || ownerEmail == "" {
		return false
	}
	nameLower := strings.ToLower(strings.TrimSpace(name))

	for _, pattern := range ne.greetingPatterns {
		if strings.Contains(nameLower, pattern) || strings.HasPrefix(nameLower, pattern) {
			ne.logger.Debug("Rejected greeting as name", zap.String("name", name))
			return true
		}
	}
	for _, indicator := range ne.companyIndicators {
		if strings.Contains(nameLower, indicator) {
			ne.logger.Debug("Rejected company phrase as name", zap.String("name", name))
			return true
		}
	}

	local := ownerEmail
	if at := strings.Index(ownerEmail, "@"); at > 0 {
		local = ownerEmail[:at]
	}
	local = strings.ToLower(local)

	normalized := nameLower
	for _, sep := range []string{".", "_", "-"} {
		normalized = strings.ReplaceAll(normalized, sep, " ")
	}
	var parts []string
	for _, p := range strings.Fields(normalized) {
		if len(p) > 1 {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return false
	}

	matches := 0
	for _, part := range parts {
		if len(part) >= 3 && strings.Contains(local, part) {
			matches++
		}
	}
	if matches >= 2 {
		ne.logger.Debug("Rejected candidate's own name", zap.String("name", name), zap.String("owner", ownerEmail))
		return true
	}

	// A lone matching part that makes up most of the local part still
	// identifies the owner for two-word names.
	if len(parts) == 2 && matches == 1 {
		for _, part := range parts {
			if len(part) >= 4 && strings.Contains(local, part) {
				if float64(len(part))/float64(len(local)) > 0.5 {
					ne.logger.Debug("Rejected candidate's own name", zap.String("name", name), zap.String("owner", ownerEmail))
					return true
				}
			}
		}
	}
	return false
}
