package extract

import (
	"regexp"
	"sort"
	"strings"
)

// bodySearchLimit bounds the body prefix scanned for employment types; the
// engagement terms are stated early in recruiter mail when present at all.
const employmentBodyLimit = 1000

type employmentPattern struct {
	normalized string
	patterns   []*regexp.Regexp
}

var employmentPatterns = []employmentPattern{
	{"W2", compileAll(
		`(?i)\bW-?2\b`,
		`(?i)\bW\s*2\b`,
	)},
	{"C2C", compileAll(
		`(?i)\bC-?2-?C\b`,
		`(?i)\bCorp\s*to\s*Corp\b`,
		`(?i)\bCorp-to-Corp\b`,
	)},
	{"1099", compileAll(
		`(?i)\b1099\b`,
		`(?i)\bIndependent\s+Contractor\b`,
	)},
	{"Full-time", compileAll(
		`(?i)\bFull-?time\b`,
		`(?i)\bFull\s+Time\b`,
		`(?i)\bFT\b`,
		`(?i)\bPermanent\b`,
		`(?i)\bPerm\b`,
	)},
	{"Contract", compileAll(
		`(?i)\bContract\b`,
		`(?i)\bContractor\b`,
		`(?i)\bCTR\b`,
		`(?i)\bTemp\b`,
		`(?i)\bTemporary\b`,
	)},
	{"Part-time", compileAll(
		`(?i)\bPart-?time\b`,
		`(?i)\bPart\s+Time\b`,
		`(?i)\bPT\b`,
	)},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// ExtractEmploymentTypes returns the normalized engagement types mentioned
// in the mail, sorted for determinism. The subject is scanned in full; the
// body only up to its first kilobyte. Multiple types are legitimate
// ("W2/C2C" postings) and all are kept.
func ExtractEmploymentTypes(body, subject string) []string {
	found := map[string]struct{}{}
	scan := func(text string) {
		if text == "" {
			return
		}
		for _, ep := range employmentPatterns {
			for _, p := range ep.patterns {
				if p.MatchString(text) {
					found[ep.normalized] = struct{}{}
					break
				}
			}
		}
	}

	scan(subject)
	if len(body) > employmentBodyLimit {
		body = body[:employmentBodyLimit]
	}
	scan(body)

	out := make([]string, 0, len(found))
	for t := range found {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ExtractEmploymentTypeString formats the extracted types as a single
// comma-separated value, or "" when none were found.
func ExtractEmploymentTypeString(body, subject string) string {
	types := ExtractEmploymentTypes(body, subject)
	if len(types) == 0 {
		return ""
	}
	return strings.Join(types, ", ")
}
