package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/rules"
	"go.uber.org/zap"
)

// Base confidence per candidate source. The goal is the CLIENT company
// (where the position is), not the staffing vendor: explicit client markers
// outrank everything, while the sender's email domain is the weakest signal
// because it almost always names the vendor.
var companySourceScores = map[core.CandidateSource]float64{
	core.SourceExplicitMarker:  0.95,
	core.SourceMarkupSpan:      0.90,
	core.SourcePositionPattern: 0.85,
	core.SourceSignature:       0.75,
	core.SourceIntroText:       0.60,
	core.SourceModelEntity:     0.50,
	core.SourceDomainHeuristic: 0.30,
}

const (
	penaltyATSDomain      = -0.40
	penaltyClientLanguage = -0.50
	penaltyGenericTerm    = -0.30
	penaltyTooShort       = -0.20
	penaltyIsLocation     = -0.60
	bonusBusinessSuffix   = 0.10
	bonusVendorIndicator  = 0.05

	defaultMinCompanyScore     = 0.70
	defaultVendorPreferMargin  = 0.15
	defaultSourceFallbackScore = 0.50
)

var explicitClientPatterns = compileAll(
	`(?im)(?:end\s+)?client\s*:\s*([A-Z][a-zA-Z0-9\s&.,'-]+?)(?:\.|,|;|\s+is\s|\s+has\s|\s+in\s|\n|$)`,
	`(?im)client\s+name\s*:\s*([A-Z][a-zA-Z0-9\s&.,'-]+?)(?:\.|,|;|\s+is\s|\s+has\s|\s+in\s|\n|$)`,
	`(?im)our\s+client[,\s]+([A-Z][a-zA-Z0-9\s&.,'-]+?)(?:\.|,|;|\s+is\s|\s+has\s|\s+in\s|\n|$)`,
	`(?im)for\s+our\s+client\s+([A-Z][a-zA-Z0-9\s&.,'-]+?)(?:\.|,|;|\s+is\s|\s+has\s|\s+in\s|\n|$)`,
	`(?im)client\s+company\s+name\s*:\s*([A-Z][a-zA-Z0-9\s&.,'-]+?)(?:\.|,|;|\s+is\s|\s+has\s|\s+in\s|\n|$)`,
	`(?im)working\s+with\s+(?:our\s+)?client\s+([A-Z][a-zA-Z0-9\s&.,'-]+?)(?:\.|,|;|\s+is\s|\s+has\s|\s+in\s|\n|$)`,
	`(?im)position\s+(?:with|at)\s+\[([A-Z][a-zA-Z0-9\s&.,'-]+?)\]`,
	`(?im)position\s+(?:with|at)\s+\(([A-Z][a-zA-Z0-9\s&.,'-]+?)\)`,
)

var positionContextPatterns = compileAll(
	`(?im)(?:position|role|job|opportunity)\s+(?:at|with)\s+([A-Z][a-zA-Z0-9\s&.,'-]+?)(?:\.|,|;|\s+in\s|\s+for\s|\s+located\s|\n|$)`,
	`(?im)(?:developer|engineer|analyst|manager|architect|consultant|specialist|lead|senior|junior)\s+at\s+([A-Z][a-zA-Z0-9\s&.,'-]+?)(?:\.|,|;|\s+in\s|\s+for\s|\s+located\s|\n|$)`,
	`(?im)(?:developer|engineer|analyst|manager|architect|consultant|specialist|lead|senior|junior)\s+with\s+([A-Z][a-zA-Z0-9\s&.,'-]+?)(?:\.|,|;|\s+in\s|\s+for\s|\s+located\s|\n|$)`,
	`(?im)opening\s+at\s+([A-Z][a-zA-Z0-9\s&.,'-]+?)(?:\.|,|;|\s+in\s|\s+for\s|\s+located\s|\n|$)`,
	`(?im)vacancy\s+at\s+([A-Z][a-zA-Z0-9\s&.,'-]+?)(?:\.|,|;|\s+in\s|\s+for\s|\s+located\s|\n|$)`,
)

var bodyIntroPatterns = compileAll(
	`(?im)(?:I'?m|I am)\s+(?:from|with|at)\s+([A-Z][a-zA-Z0-9\s&.,'-]+?)(?:\.|,|;|\s+and\s|\s+in\s|\s+for\s|\s+to\s|$)`,
	`(?im)(?:I|We)\s+work\s+(?:for|at|with)\s+([A-Z][a-zA-Z0-9\s&.,'-]+?)(?:\.|,|;|\s+and\s|\s+in\s|\s+for\s|\s+to\s|$)`,
	`(?im)(?:I|We)\s+represent\s+([A-Z][a-zA-Z0-9\s&.,'-]+?)(?:\.|,|;|\s+and\s|\s+in\s|\s+for\s|\s+to\s|$)`,
	`(?im)calling\s+from\s+([A-Z][a-zA-Z0-9\s&.,'-]+?)(?:\.|,|;|\s+and\s|\s+in\s|\s+for\s|\s+to\s|$)`,
	`(?im)reaching\s+out\s+from\s+([A-Z][a-zA-Z0-9\s&.,'-]+?)(?:\.|,|;|\s+and\s|\s+in\s|\s+for\s|\s+to\s|$)`,
	`(?im)working\s+with\s+([A-Z][a-zA-Z0-9\s&.,'-]+?)(?:\.|,|;|\s+and\s|\s+in\s|\s+for\s|\s+to\s|$)`,
	`(?im)on\s+behalf\s+of\s+([A-Z][a-zA-Z0-9\s&.,'-]+?)(?:\.|,|;|\s+and\s|\s+in\s|\s+for\s|\s+to\s|$)`,
)

var commonBusinessSuffixes = []string{
	"inc", "llc", "corp", "ltd", "limited", "corporation", "incorporated",
	"co", "company", "group", "solutions", "services", "technologies",
	"tech", "systems",
}

// US states, countries and directional words used to reject locations that
// were captured as company names. Short entries (state codes) require an
// exact word match so names like "Sibitalent" do not trip on "al".
var locationIndicatorWords = []string{
	"alabama", "alaska", "arizona", "arkansas", "california", "colorado", "connecticut",
	"delaware", "florida", "georgia", "hawaii", "idaho", "illinois", "indiana", "iowa",
	"kansas", "kentucky", "louisiana", "maine", "maryland", "massachusetts", "michigan",
	"minnesota", "mississippi", "missouri", "montana", "nebraska", "nevada", "new hampshire",
	"new jersey", "new mexico", "new york", "north carolina", "north dakota", "ohio",
	"oklahoma", "oregon", "pennsylvania", "rhode island", "south carolina", "south dakota",
	"tennessee", "texas", "utah", "vermont", "virginia", "washington", "west virginia",
	"wisconsin", "wyoming",
	"ca", "ny", "tx", "fl", "il", "pa", "oh", "ga", "nc", "mi", "nj", "va", "wa", "az",
	"ma", "tn", "in", "mo", "md", "wi", "co", "mn", "sc", "al", "la", "ky", "or", "ok",
	"ct", "ia", "ut", "ar", "nv", "ms", "ks", "nm", "ne", "wv", "id", "hi", "nh", "me",
	"ri", "mt", "de", "sd", "nd", "ak", "dc", "vt", "wy",
	"city", "town", "county", "state", "province", "region", "area", "district",
	"united states", "usa", "us", "uk", "united kingdom", "canada", "australia",
	"north", "south", "east", "west", "northern", "southern", "eastern", "western",
	"upper", "lower", "central", "metro", "greater",
}

var knownCityNames = toSet(
	"new york", "los angeles", "chicago", "houston", "phoenix", "philadelphia",
	"san antonio", "san diego", "dallas", "san jose", "austin", "jacksonville",
	"san francisco", "indianapolis", "columbus", "fort worth", "charlotte",
	"seattle", "denver", "washington", "boston", "el paso", "detroit", "nashville",
	"portland", "oklahoma city", "las vegas", "memphis", "louisville", "baltimore",
	"milwaukee", "albuquerque", "tucson", "fresno", "sacramento", "kansas city",
	"mesa", "atlanta", "omaha", "colorado springs", "raleigh", "virginia beach",
	"miami", "oakland", "minneapolis", "tulsa", "cleveland", "wichita", "arlington",
	"tampa", "new orleans", "honolulu", "london", "paris", "tokyo", "sydney",
	"toronto", "vancouver", "montreal", "mumbai", "delhi", "bangalore", "singapore",
)

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// CompanyScorer collects company candidates from every source, scores them
// and picks the best. All keyword lists come from the rule repository.
type CompanyScorer struct {
	logger *zap.Logger

	jobTitleKeywords map[string]struct{}
	suffixMappings   [][2]string
	atsDomains       []string
	clientKeywords   []string
	genericTerms     []string
	vendorIndicators []string

	minScore     float64
	vendorMargin float64
}

// NewCompanyScorer creates a CompanyScorer seeded from the repository's
// company categories.
func NewCompanyScorer(repo *rules.Repository, minScore, vendorMargin float64, logger *zap.Logger) *CompanyScorer {
	if minScore <= 0 {
		minScore = defaultMinCompanyScore
	}
	if vendorMargin <= 0 {
		vendorMargin = defaultVendorPreferMargin
	}
	s := &CompanyScorer{
		logger:           logger,
		jobTitleKeywords: map[string]struct{}{},
		minScore:         minScore,
		vendorMargin:     vendorMargin,
	}
	for _, kw := range repo.KeywordsFor("job_title_keywords") {
		s.jobTitleKeywords[strings.ToLower(strings.TrimSpace(kw))] = struct{}{}
	}
	for _, kw := range repo.KeywordsFor("company_suffix_mapping") {
		old, repl, ok := strings.Cut(kw, "|")
		if ok {
			s.suffixMappings = append(s.suffixMappings, [2]string{strings.TrimSpace(old), strings.TrimSpace(repl)})
		}
	}
	for _, kw := range repo.KeywordsFor("blocked_ats_domain") {
		s.atsDomains = append(s.atsDomains, strings.ToLower(strings.TrimSpace(kw)))
	}
	for _, kw := range repo.KeywordsFor("client_language_keywords") {
		s.clientKeywords = append(s.clientKeywords, strings.ToLower(strings.TrimSpace(kw)))
	}
	for _, kw := range repo.KeywordsFor("generic_company_terms") {
		s.genericTerms = append(s.genericTerms, strings.ToLower(strings.TrimSpace(kw)))
	}
	for _, kw := range repo.KeywordsFor("vendor_indicators") {
		s.vendorIndicators = append(s.vendorIndicators, strings.ToLower(strings.TrimSpace(kw)))
	}
	return s
}

// ExtractCompany gathers candidates from every source, scores them and
// returns the winner. modelCompany is the company entity produced by the
// NLP capability, if any. The empty string means no candidate survived the
// minimum score.
func (s *CompanyScorer) ExtractCompany(text, html, senderEmail, modelCompany string) string {
	var candidates []core.ExtractionCandidate

	add := func(name string, source core.CandidateSource, prov core.ProvenanceType, context string) {
		if name == "" {
			return
		}
		cand := core.ExtractionCandidate{Value: name, Source: source, Provenance: prov}
		cand.Confidence = s.score(&cand, context)
		candidates = append(candidates, cand)
		s.logger.Debug("Company candidate",
			zap.String("name", cand.Value),
			zap.String("source", string(cand.Source)),
			zap.Float64("score", cand.Confidence))
	}

	add(s.extractExplicitClient(text), core.SourceExplicitMarker, core.ProvenanceClient, text)
	if html != "" {
		if _, company := s.ExtractVendorSpan(html); company != "" {
			add(company, core.SourceMarkupSpan, core.ProvenanceUnknown, html)
		}
	}
	add(s.extractPositionContext(text), core.SourcePositionPattern, core.ProvenanceClient, text)
	add(s.ExtractCompanyFromSignature(text), core.SourceSignature, core.ProvenanceUnknown, text)
	add(s.extractBodyIntro(text), core.SourceIntroText, core.ProvenanceVendor, text)
	if modelCompany != "" && !s.isJobTitle(modelCompany) && !s.isLocation(modelCompany) {
		add(modelCompany, core.SourceModelEntity, core.ProvenanceUnknown, text)
	}
	if senderEmail != "" {
		if domainCompany := s.ExtractCompanyFromDomain(senderEmail); domainCompany != "" {
			prov := core.ProvenanceVendor
			if at := strings.Index(senderEmail, "@"); at >= 0 && s.isATSDomain(senderEmail[at+1:]) {
				prov = core.ProvenanceATS
			}
			add(domainCompany, core.SourceDomainHeuristic, prov, text)
		}
	}

	var valid []core.ExtractionCandidate
	for _, c := range candidates {
		if c.Confidence >= s.minScore {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		s.logger.Debug("No company candidate met minimum score", zap.Float64("min_score", s.minScore))
		return ""
	}

	// Stable sort keeps source order as the tiebreak.
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Confidence > valid[j].Confidence
	})

	best := valid[0]
	// A vendor candidate close behind a client wins; the record being built
	// is a vendor contact, not a client directory entry.
	for _, cand := range valid[1:] {
		if cand.Provenance == core.ProvenanceVendor && best.Provenance == core.ProvenanceClient {
			if cand.Confidence >= best.Confidence-s.vendorMargin {
				best = cand
				s.logger.Debug("Preferred vendor candidate over client", zap.String("name", best.Value))
				break
			}
		}
	}

	s.logger.Info("Selected company",
		zap.String("name", best.Value),
		zap.String("source", string(best.Source)),
		zap.Float64("score", best.Confidence),
		zap.String("type", string(best.Provenance)))
	return best.Value
}

// score computes the candidate's confidence: source base score, penalties,
// bonuses, clamped to [0,1]. Client language near a candidate of unknown
// provenance reclassifies it as the client company and penalizes it; sources
// that already declared a provenance keep it, so an explicit client marker
// is not punished for the marker that found it.
func (s *CompanyScorer) score(cand *core.ExtractionCandidate, context string) float64 {
	score, ok := companySourceScores[cand.Source]
	if !ok {
		score = defaultSourceFallbackScore
	}
	name := cand.Value
	nameLower := strings.ToLower(name)

	if cand.Provenance == core.ProvenanceATS {
		score += penaltyATSDomain
	}
	if cand.Provenance == core.ProvenanceUnknown &&
		(s.containsClientLanguage(candidateContext(context, name)) || s.containsClientLanguage(name)) {
		score += penaltyClientLanguage
		cand.Provenance = core.ProvenanceClient
	}
	for _, term := range s.genericTerms {
		if strings.Contains(nameLower, term) {
			score += penaltyGenericTerm
			break
		}
	}
	if s.isLocation(name) {
		score += penaltyIsLocation
	}
	if len(name) < 3 {
		score += penaltyTooShort
	}
	for _, suffix := range commonBusinessSuffixes {
		if strings.HasSuffix(nameLower, suffix) || strings.Contains(nameLower, " "+suffix) {
			score += bonusBusinessSuffix
			break
		}
	}
	for _, indicator := range s.vendorIndicators {
		if strings.Contains(nameLower, indicator) {
			score += bonusVendorIndicator
			cand.Provenance = core.ProvenanceVendor
			break
		}
	}

	return core.ClampScore(score)
}

func (s *CompanyScorer) extractExplicitClient(text string) string {
	return s.firstValidMatch(explicitClientPatterns, text)
}

func (s *CompanyScorer) extractPositionContext(text string) string {
	return s.firstValidMatch(positionContextPatterns, text)
}

func (s *CompanyScorer) extractBodyIntro(text string) string {
	return s.firstValidMatch(bodyIntroPatterns, text)
}

func (s *CompanyScorer) firstValidMatch(patterns []*regexp.Regexp, text string) string {
	if text == "" {
		return ""
	}
	for _, pattern := range patterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := strings.Trim(strings.Join(strings.Fields(m[1]), " "), ".,;: ")
		if s.isValidCompanyName(candidate) {
			return s.CleanCompanyName(candidate)
		}
	}
	return ""
}

var vendorSpanPatterns = compileAll(
	// <span>Name - Company</span>
	`(?m)<(?:span|div|p|td|th|b|strong)[^>]*>\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\s*[-–—]\s*([A-Z][a-zA-Z0-9\s&.,]+?)\s*</(?:span|div|p|td|th|b|strong)>`,
	// <span>Name | Company</span>
	`(?m)<(?:span|div|p|td|th|b|strong)[^>]*>\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\s*\|\s*([A-Z][a-zA-Z0-9\s&.,]+?)\s*</(?:span|div|p|td|th|b|strong)>`,
	// <span>Name, Company</span>
	`(?m)<(?:span|div|p|td|th|b|strong)[^>]*>\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\s*,\s*([A-Z][a-zA-Z0-9\s&.,]+?)\s*</(?:span|div|p|td|th|b|strong)>`,
	// <span>Name (Company)</span>
	`(?m)<(?:span|div|p|td|th|b|strong)[^>]*>\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\s*\(\s*([A-Z][a-zA-Z0-9\s&.,]+?)\s*\)\s*</(?:span|div|p|td|th|b|strong)>`,
	// Plain text Name - Company on its own line
	`(?m)(?:^|\n)\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\s*[-–—]\s*([A-Z][a-zA-Z0-9\s&.,]+?)\s*(?:$|\n)`,
	// Plain text Name | Company
	`(?m)(?:^|\n)\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\s*\|\s*([A-Z][a-zA-Z0-9\s&.,]+?)\s*(?:$|\n)`,
	// <span>Name at Company</span>
	`(?m)<(?:span|div|p)[^>]*>\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\s+at\s+([A-Z][a-zA-Z0-9\s&.,]+?)\s*</(?:span|div|p)>`,
	// <span>Name</span><br><span>Company</span>
	`(?m)<(?:span|div|p|b|strong)[^>]*>\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\s*</(?:span|div|p|b|strong)>\s*(?:<br\s*/?>|\n)\s*<(?:span|div|p)[^>]*>\s*([A-Z][a-zA-Z0-9\s&.,]+?)\s*</(?:span|div|p)>`,
)

// ExtractVendorSpan pulls a recruiter name and company out of signature
// markup like "<span>Jane Doe - Acme Staffing</span>" or the plain-text
// equivalent.
func (s *CompanyScorer) ExtractVendorSpan(text string) (name, company string) {
	for _, pattern := range vendorSpanPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name = strings.TrimSpace(m[1])
		company = strings.TrimSpace(m[2])

		words := strings.Fields(name)
		if len(words) < 2 || len(words) > 4 || strings.ContainsAny(name, "0123456789") {
			name, company = "", ""
			continue
		}

		company = htmlTagPattern.ReplaceAllString(company, "")
		company = strings.Trim(strings.Join(strings.Fields(company), " "), ".,;: ")
		if len(company) > 1 && len(company) < 100 && s.isValidCompanyName(company) {
			s.logger.Debug("Extracted vendor from markup span",
				zap.String("name", name),
				zap.String("company", company))
			return name, company
		}
		name, company = "", ""
	}
	return "", ""
}

// ExtractCompanyFromSignature finds a company on the line following a job
// title in a signature block:
//
//	John Smith
//	Senior Recruiter
//	TechCorp Inc.
func (s *CompanyScorer) ExtractCompanyFromSignature(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if s.isJobTitle(strings.TrimSpace(line)) && i+1 < len(lines) {
			candidate := strings.TrimSpace(lines[i+1])
			if s.isValidCompanyName(candidate) {
				return s.CleanCompanyName(candidate)
			}
		}
	}
	return ""
}

// ExtractCompanyFromDomain derives a company name from the sender's
// address: jane@cyber-coders.com yields "Cyber Coders". Blocked, generic
// and ATS domains yield nothing.
func (s *CompanyScorer) ExtractCompanyFromDomain(email string) string {
	at := strings.Index(email, "@")
	if at < 0 {
		return ""
	}
	fullDomain := strings.ToLower(email[at+1:])
	if s.isATSDomain(fullDomain) {
		s.logger.Debug("Rejected ATS domain", zap.String("domain", fullDomain))
		return ""
	}

	name := rootDomain(fullDomain)
	if name == "" {
		return ""
	}
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.Title(w)
	}
	return s.CleanCompanyName(strings.Join(words, " "))
}

// rootDomain returns the registrable label of a host name, skipping common
// multi-part public suffixes (co.uk, com.au).
func rootDomain(domain string) string {
	parts := strings.Split(domain, ".")
	if len(parts) < 2 {
		return ""
	}
	secondLevel := map[string]struct{}{"co": {}, "com": {}, "org": {}, "net": {}, "ac": {}, "gov": {}}
	idx := len(parts) - 2
	if _, ok := secondLevel[parts[idx]]; ok && len(parts) >= 3 {
		idx--
	}
	return parts[idx]
}

// candidateContext returns the text surrounding the first occurrence of
// name, so client-language detection judges the candidate's neighborhood
// rather than the whole mail.
func candidateContext(text, name string) string {
	if text == "" || name == "" {
		return ""
	}
	idx := strings.Index(strings.ToLower(text), strings.ToLower(name))
	if idx < 0 {
		return ""
	}
	start := idx - 100
	if start < 0 {
		start = 0
	}
	end := idx + len(name) + 100
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

func (s *CompanyScorer) containsClientLanguage(text string) bool {
	if text == "" || len(s.clientKeywords) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range s.clientKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (s *CompanyScorer) isATSDomain(domain string) bool {
	if domain == "" {
		return false
	}
	lower := strings.ToLower(domain)
	for _, ats := range s.atsDomains {
		if strings.Contains(lower, ats) {
			return true
		}
	}
	return false
}

func (s *CompanyScorer) isJobTitle(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for kw := range s.jobTitleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// isLocation reports whether text names a place rather than a company.
func (s *CompanyScorer) isLocation(text string) bool {
	if text == "" {
		return false
	}
	clean := nonWordPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "")
	words := toSet(strings.Fields(clean)...)
	for _, indicator := range locationIndicatorWords {
		if len(indicator) <= 3 {
			if _, ok := words[indicator]; ok {
				return true
			}
		} else if strings.Contains(clean, indicator) {
			return true
		}
	}
	_, known := knownCityNames[clean]
	return known
}

func (s *CompanyScorer) isValidCompanyName(text string) bool {
	if len(text) < 2 || len(text) > 100 {
		return false
	}
	first := rune(text[0])
	if !((first >= 'A' && first <= 'Z') || (first >= '0' && first <= '9')) {
		return false
	}
	if s.isJobTitle(text) || s.isLocation(text) {
		return false
	}
	for _, c := range text {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return false
}

// CleanCompanyName normalizes whitespace, strips trailing punctuation (the
// dot in "Inc." survives) and canonicalizes rule-mapped suffixes.
func (s *CompanyScorer) CleanCompanyName(company string) string {
	company = strings.Join(strings.Fields(company), " ")
	company = strings.TrimRight(company, ",;: ")

	lower := strings.ToLower(company)
	for _, mapping := range s.suffixMappings {
		if strings.HasSuffix(lower, mapping[0]) {
			company = company[:len(company)-len(mapping[0])] + mapping[1]
			break
		}
	}
	return company
}
