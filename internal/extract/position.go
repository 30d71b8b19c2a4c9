package extract

import (
	"regexp"
	"strings"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/rules"
	"go.uber.org/zap"
)

var positionPatterns = []*regexp.Regexp{
	// "looking for a Senior Java Developer"
	regexp.MustCompile(`(?im)(?:looking for|seeking|hiring|need|require|searching for)\s+(?:a\s+|an\s+)?([A-Z][a-zA-Z\s/\-.]+?(?:Developer|Engineer|Architect|Manager|Analyst|Designer|Consultant|Specialist|Administrator|Coordinator|Lead|Director|Programmer|Tester|Scientist|Researcher))`),
	// "Position: Senior Java Developer"
	regexp.MustCompile(`(?im)(?:position|role|opening|opportunity|job title|title):\s*([A-Z][a-zA-Z\s/\-.]+)`),
	// "for the Senior Java Developer position"
	regexp.MustCompile(`(?im)for\s+the\s+([A-Z][a-zA-Z\s/\-.]+?(?:position|role|opening))`),
	// "Senior Java Developer - Contract"
	regexp.MustCompile(`(?im)^([A-Z][a-zA-Z\s/\-.]+?(?:Developer|Engineer|Architect|Manager|Analyst|Designer|Consultant|Specialist))\s*[-–—]\s*(?:Contract|Full[- ]?time|Part[- ]?time|Permanent|Temporary)`),
	// "Job: Senior Java Developer"
	regexp.MustCompile(`(?im)(?:Job|Vacancy|Req):\s*([A-Z][a-zA-Z\s/\-.]+)`),
	// "We have an opening for Senior Java Developer"
	regexp.MustCompile(`(?im)opening for\s+(?:a\s+|an\s+)?([A-Z][a-zA-Z\s/\-.]+)`),
	// Subject lines that are nothing but the title
	regexp.MustCompile(`(?im)^([A-Z][a-zA-Z\s/\-.]+?(?:Developer|Engineer|Architect|Manager|Analyst|Designer|Consultant|Specialist|Administrator|Coordinator|Lead|Director|Programmer|Tester|Scientist|Researcher))$`),
}

var jobTitleSuffixes = []string{
	"developer", "engineer", "architect", "manager", "analyst", "designer",
	"consultant", "specialist", "administrator", "coordinator", "lead",
	"director", "programmer", "tester", "scientist", "researcher", "officer",
	"executive", "associate", "representative", "agent", "advisor",
}

var positionPrefixes = []string{
	"the ", "a ", "an ", "our ", "your ", "this ", "that ",
	"position of ", "role of ", "job of ",
}

var marketingFluff = []string{
	"highly skilled", "highly-skilled", "innovative", "experienced",
	"talented", "exceptional", "outstanding", "expert", "professional",
	"qualified", "certified", "proven", "dedicated", "motivated",
	"dynamic", "results-driven", "results driven", "top-notch", "top notch",
	"world-class", "world class", "best-in-class", "best in class",
}

var trailingArtifacts = []string{
	"location", "duration", "role", "position", "opening", "opportunity",
	"job", "vacancy", "req", "requirement", "needed", "wanted",
}

var positionFalsePositives = []string{
	"team", "department", "company", "organization", "group",
	"please", "thank", "regards", "sincerely", "best",
	"email", "phone", "contact", "address",
}

var (
	htmlTagPattern      = regexp.MustCompile(`<[^>]+>`)
	trailingNounPattern = regexp.MustCompile(`(?i)\s+(position|role|opening|opportunity|job)$`)
	leadingAndPattern   = regexp.MustCompile(`(?i)^And\s+`)
)

// PositionExtractor pulls job titles out of subjects and bodies using the
// regex patterns above, with trigger words fed from the rule repository.
type PositionExtractor struct {
	triggerWords []string
	logger       *zap.Logger
}

// NewPositionExtractor creates a PositionExtractor seeded with the
// job_position_trigger_words rule category.
func NewPositionExtractor(repo *rules.Repository, logger *zap.Logger) *PositionExtractor {
	var triggers []string
	for _, kw := range repo.KeywordsFor("job_position_trigger_words") {
		triggers = append(triggers, strings.ToLower(strings.TrimSpace(kw)))
	}
	if len(triggers) > 0 {
		logger.Info("Loaded job position trigger words", zap.Int("count", len(triggers)))
	}
	return &PositionExtractor{triggerWords: triggers, logger: logger}
}

// Extract returns the best job position found in subject or body. The
// subject is tried first since recruiter subject lines usually carry the
// title verbatim.
func (p *PositionExtractor) Extract(body, subject string) string {
	if pos := p.extractRegex(subject); pos != "" {
		return pos
	}
	return p.extractRegex(body)
}

func (p *PositionExtractor) extractRegex(text string) string {
	if text == "" {
		return ""
	}
	for _, pattern := range positionPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			position := cleanPosition(m[1])
			if p.isValidPosition(position) {
				p.logger.Debug("Extracted job position", zap.String("position", position))
				return position
			}
		}
	}
	return ""
}

// cleanPosition strips markup, marketing fluff, boilerplate prefixes and
// trailing artifacts, then normalizes whitespace and casing.
func cleanPosition(position string) string {
	position = htmlTagPattern.ReplaceAllString(position, "")

	for _, fluff := range marketingFluff {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(fluff) + `\b`)
		position = re.ReplaceAllString(position, "")
	}

	lower := strings.ToLower(position)
	for _, prefix := range positionPrefixes {
		if strings.HasPrefix(lower, prefix) {
			position = position[len(prefix):]
			lower = strings.ToLower(position)
		}
	}

	for _, artifact := range trailingArtifacts {
		re := regexp.MustCompile(`(?i)\s+` + regexp.QuoteMeta(artifact) + `$`)
		position = re.ReplaceAllString(position, "")
	}
	position = trailingNounPattern.ReplaceAllString(position, "")

	position = strings.Join(strings.Fields(position), " ")
	position = strings.Title(strings.ToLower(position))

	position = strings.ReplaceAll(position, "Sr.", "Senior")
	position = strings.ReplaceAll(position, "Jr.", "Junior")
	position = strings.ReplaceAll(position, "Mgr", "Manager")
	position = leadingAndPattern.ReplaceAllString(position, "")

	return strings.TrimSpace(position)
}

func (p *PositionExtractor) isValidPosition(position string) bool {
	if len(position) < 2 || len(position) > 100 {
		return false
	}
	hasAlpha := false
	for _, c := range position {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			hasAlpha = true
			break
		}
	}
	if !hasAlpha {
		return false
	}
	if position == strings.ToUpper(position) && len(position) > 10 {
		return false
	}

	lower := strings.ToLower(position)
	hasSuffix := false
	for _, suffix := range jobTitleSuffixes {
		if strings.Contains(lower, suffix) {
			hasSuffix = true
			break
		}
	}
	hasTrigger := false
	for _, trigger := range p.triggerWords {
		if strings.Contains(lower, trigger) {
			hasTrigger = true
			break
		}
	}
	if !hasSuffix && !hasTrigger {
		return false
	}

	for _, fp := range positionFalsePositives {
		if strings.Contains(lower, fp) {
			return false
		}
	}
	return true
}
