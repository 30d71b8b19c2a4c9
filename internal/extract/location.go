package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/rules"
	"go.uber.org/zap"
)

var (
	usZipPattern     = regexp.MustCompile(`\b(\d{5}(?:-\d{4})?)\b`)
	canadaZipPattern = regexp.MustCompile(`(?i)\b([A-Z]\d[A-Z]\s?\d[A-Z]\d)\b`)
	ukZipPattern     = regexp.MustCompile(`(?i)\b([A-Z]{1,2}\d{1,2}\s?\d[A-Z]{2})\b`)
	usZipExact       = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)

	// State abbreviations are matched case-sensitively so prose words like
	// "or" and "in" never match as OR / IN.
	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b([A-Z_][\w\s]+?),\s*([A-Z]{2})\b(?:\s*(\d{5}(?:-\d{4})?))?`),
		regexp.MustCompile(`(?:Location|City|Based in|Located in):\s*([A-Z_][\w\s]+?),\s*([A-Z]{2})\b(?:\s*(\d{5}(?:-\d{4})?))?`),
	}

	locationComponentsPattern = regexp.MustCompile(`^([^,]+),\s*([A-Z]{2}|[A-Z][a-z]+(?:\s[A-Z][a-z]+)?)\s*(\d{5}(?:-\d{4})?)?`)

	cityPrefixPatterns = compileAll(
		`(?i)^Agent\s+`,
		`(?i)^Engineer\s+At\s+`,
		`(?i)^Location\s+Of\s+`,
		`(?i)^Onsite\s+In\s+`,
		`(?i)^Based\s+In\s+`,
		`(?i)^Located\s+In\s+`,
		`(?i)^Ca\s+Or\s+`,
		`(?i)^Or\s+`,
		`(?i)^And\s+`,
		`(?i)^At\s+`,
		`(?i)^In\s+`,
		`(?i)^Various\s+`,
	)
)

var (
	commonPhrases = toSet(
		"thank you", "kind regards", "best regards", "sincerely",
		"regards", "thanks", "cheers", "yours", "respectfully",
		"cordially", "warmly", "looking forward",
	)
	commonVerbsAdjectives = toSet(
		"growing", "managing", "leading", "developing", "building",
		"creating", "designing", "testing", "working", "including",
		"ensuring", "providing", "supporting", "maintaining",
	)
	techTerms = toSet(
		"sql", "api", "aws", "gcp", "azure", "cloud", "java",
		"python", "react", "node", "docker", "kubernetes",
	)
	invalidCityPrefixWords = toSet("or", "and", "for", "with", "from", "to")
	businessSuffixes       = []string{
		"inc", "llc", "corp", "ltd", "limited", "corporation",
		"solutions", "technologies", "systems", "services",
		"consulting", "group", "partners", "associates",
	}
	htmlArtifacts = []string{"&nbsp", "&amp", "&quot", "&lt", "&gt", "&#", "nbsp", "quot", "amp"}
	genericWords  = toSet("area", "story", "team", "group", "department", "division", "unit", "office", "branch")
)

func toSet(items ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

// Location is a resolved work location.
type Location struct {
	Location string
	City     string
	State    string
	ZipCode  string
}

// LocationExtractor pulls City/State/ZIP locations out of free text with
// rule-fed validation lists.
type LocationExtractor struct {
	logger *zap.Logger

	falsePositives   map[string]struct{}
	majorCities      map[string]struct{}
	junkPatterns     []*regexp.Regexp
	stateAbbrs       map[string]struct{}
	stateNameToAbbr  map[string]string
	streetIndicators map[string]struct{}
}

// NewLocationExtractor creates a LocationExtractor seeded from the rule
// repository's location categories. State name mappings use "name|abbr"
// keyword pairs.
func NewLocationExtractor(repo *rules.Repository, logger *zap.Logger) *LocationExtractor {
	le := &LocationExtractor{
		logger:           logger,
		falsePositives:   map[string]struct{}{},
		majorCities:      map[string]struct{}{},
		stateAbbrs:       map[string]struct{}{},
		stateNameToAbbr:  map[string]string{},
		streetIndicators: map[string]struct{}{},
	}
	for _, kw := range repo.KeywordsFor("location_false_positives") {
		le.falsePositives[strings.ToLower(strings.TrimSpace(kw))] = struct{}{}
	}
	for _, kw := range repo.KeywordsFor("us_major_cities") {
		le.majorCities[strings.ToLower(strings.TrimSpace(kw))] = struct{}{}
	}
	for _, kw := range repo.KeywordsFor("location_junk_patterns") {
		re, err := regexp.Compile(`(?i)` + strings.TrimSpace(kw))
		if err != nil {
			logger.Warn("Skipping invalid location junk pattern", zap.String("pattern", kw), zap.Error(err))
			continue
		}
		le.junkPatterns = append(le.junkPatterns, re)
	}
	for _, kw := range repo.KeywordsFor("us_state_abbreviations") {
		le.stateAbbrs[strings.ToUpper(strings.TrimSpace(kw))] = struct{}{}
	}
	for _, kw := range repo.KeywordsFor("us_state_name_mappings") {
		name, abbr, ok := strings.Cut(kw, "|")
		if ok {
			le.stateNameToAbbr[strings.ToLower(strings.TrimSpace(name))] = strings.ToUpper(strings.TrimSpace(abbr))
		}
	}
	for _, kw := range repo.KeywordsFor("location_name_indicators") {
		le.streetIndicators[strings.ToLower(strings.TrimSpace(kw))] = struct{}{}
	}
	return le
}

// ExtractZipCode returns the first postal code in text, preferring US ZIPs,
// then Canadian and UK formats.
func (le *LocationExtractor) ExtractZipCode(text string) string {
	if text == "" {
		return ""
	}
	if m := usZipPattern.FindStringSubmatch(text); m != nil && le.isValidUSZip(m[1]) {
		return m[1]
	}
	if m := canadaZipPattern.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := ukZipPattern.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}

// ExtractLocationWithZip finds the first valid "City, ST [ZIP]" occurrence.
// When no structured location matches, a standalone ZIP is still returned;
// recruiter signatures often carry the ZIP on its own line.
func (le *LocationExtractor) ExtractLocationWithZip(text string) Location {
	var result Location
	if text == "" {
		return result
	}

	for _, pattern := range locationPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			city := strings.TrimSpace(m[1])
			state := strings.TrimSpace(m[2])
			zip := ""
			if len(m) > 3 {
				zip = strings.TrimSpace(m[3])
			}
			if city == "" || state == "" {
				continue
			}
			stateNorm := le.normalizeState(state)
			if stateNorm == "" {
				continue
			}
			cityClean := le.cleanCityName(city)
			if cityClean == "" {
				continue
			}
			if zip != "" && !le.isValidUSZip(zip) {
				zip = ""
			}
			result = Location{
				Location: fmt.Sprintf("%s, %s", cityClean, stateNorm),
				City:     cityClean,
				State:    stateNorm,
				ZipCode:  zip,
			}
			if result.ZipCode == "" {
				result.ZipCode = le.ExtractZipCode(text)
			}
			le.logger.Debug("Extracted location", zap.String("location", result.Location))
			return result
		}
	}

	result.ZipCode = le.ExtractZipCode(text)
	return result
}

// ParseLocationComponents splits an already-resolved location string like
// "San Francisco, CA 94105" into its parts.
func (le *LocationExtractor) ParseLocationComponents(location string) Location {
	var result Location
	location = strings.TrimSpace(location)
	if location == "" {
		return result
	}
	m := locationComponentsPattern.FindStringSubmatch(location)
	if m == nil {
		return result
	}
	cityClean := le.cleanCityName(strings.TrimSpace(m[1]))
	stateNorm := le.normalizeState(strings.TrimSpace(m[2]))
	if cityClean == "" || stateNorm == "" {
		return result
	}
	result.City = cityClean
	result.State = stateNorm
	result.ZipCode = strings.TrimSpace(m[3])
	result.Location = fmt.Sprintf("%s, %s", cityClean, stateNorm)
	return result
}

func (le *LocationExtractor) normalizeState(state string) string {
	state = strings.TrimSpace(state)
	if state == "" {
		return ""
	}
	if len(state) == 2 {
		if _, ok := le.stateAbbrs[strings.ToUpper(state)]; ok {
			return strings.ToUpper(state)
		}
	}
	if abbr, ok := le.stateNameToAbbr[strings.ToLower(state)]; ok {
		return abbr
	}
	return ""
}

// cleanCityName normalizes a candidate city and rejects everything that is
// not plausibly a city: company names, acronyms, HTML artifacts, sentence
// fragments, street addresses, and rule-listed false positives.
func (le *LocationExtractor) cleanCityName(city string) string {
	city = strings.Trim(strings.Join(strings.Fields(city), " "), " _()")
	for _, re := range cityPrefixPatterns {
		city = re.ReplaceAllString(city, "")
	}

	// Casing checks run on the raw form; title-casing below would erase
	// the very patterns they look for. All-caps words fall through to the
	// acronym check so "AUSTIN" is not mistaken for CamelCase.
	if !strings.Contains(city, " ") && len(city) > 1 && city != strings.ToUpper(city) {
		for _, c := range city[1:] {
			if c >= 'A' && c <= 'Z' {
				le.logger.Debug("Rejected CamelCase location", zap.String("city", city))
				return ""
			}
		}
	}
	if city == strings.ToUpper(city) && len(city) >= 2 && len(city) <= 4 {
		if _, ok := le.stateAbbrs[city]; !ok {
			le.logger.Debug("Rejected acronym location", zap.String("city", city))
			return ""
		}
	}

	city = strings.Title(strings.ToLower(city))

	if len(city) < 3 || len(city) > 30 {
		return ""
	}
	hasAlpha := false
	for _, c := range city {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			hasAlpha = true
			break
		}
	}
	if !hasAlpha {
		return ""
	}

	cityLower := strings.ToLower(city)

	for _, suffix := range businessSuffixes {
		if strings.Contains(cityLower, suffix) {
			le.logger.Debug("Rejected location with business suffix", zap.String("city", city))
			return ""
		}
	}

	for _, artifact := range htmlArtifacts {
		if strings.Contains(cityLower, artifact) {
			return ""
		}
	}
	if _, ok := genericWords[cityLower]; ok {
		return ""
	}
	if _, ok := commonPhrases[cityLower]; ok {
		return ""
	}
	if _, ok := commonVerbsAdjectives[cityLower]; ok {
		return ""
	}
	if _, ok := techTerms[cityLower]; ok {
		return ""
	}

	firstWord := cityLower
	if i := strings.Index(cityLower, " "); i > 0 {
		firstWord = cityLower[:i]
	}
	if _, ok := invalidCityPrefixWords[firstWord]; ok {
		return ""
	}

	for indicator := range le.streetIndicators {
		if strings.Contains(cityLower, indicator) {
			le.logger.Debug("Rejected street name", zap.String("city", city))
			return ""
		}
	}
	for fp := range le.falsePositives {
		if strings.Contains(cityLower, fp) {
			le.logger.Debug("Rejected rule-listed location false positive", zap.String("city", city))
			return ""
		}
	}
	for _, pattern := range le.junkPatterns {
		if pattern.MatchString(cityLower) {
			return ""
		}
	}

	alphaCount := 0
	for _, c := range city {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == ' ' {
			alphaCount++
		}
	}
	if float64(alphaCount)/float64(len(city)) < 0.7 {
		return ""
	}

	words := strings.Fields(city)
	if len(words) >= 3 {
		// Three or more words must name a known city (San Francisco, Salt
		// Lake City); otherwise it is a captured sentence fragment.
		if _, ok := le.majorCities[cityLower]; !ok {
			le.logger.Debug("Rejected multi-word non-city", zap.String("city", city))
			return ""
		}
	}
	for _, w := range words {
		switch strings.ToLower(w) {
		case "or", "and", "with", "from":
			le.logger.Debug("Rejected sentence fragment", zap.String("city", city))
			return ""
		}
	}

	return city
}

func (le *LocationExtractor) isValidUSZip(zip string) bool {
	return usZipExact.MatchString(zip)
}
