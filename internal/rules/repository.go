package rules

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"go.uber.org/zap"
)

const defaultPriority = 999

// Repository loads and caches extraction rules. A local CSV file is the
// primary source; when it is absent or unreadable the repository falls back
// to the remote rule source.
type Repository struct {
	csvPath  string
	fallback core.RuleSource
	logger   *zap.Logger

	mu    sync.RWMutex
	rules []core.Rule
}

// NewRepository creates a rule repository. fallback may be nil when no
// remote source is configured.
func NewRepository(csvPath string, fallback core.RuleSource, logger *zap.Logger) *Repository {
	return &Repository{
		csvPath:  csvPath,
		fallback: fallback,
		logger:   logger,
	}
}

// Load reads rules from the CSV file, falling back to the remote source.
// Inactive rules are dropped and the remainder is sorted by ascending
// priority so lower numbers win ties during matching.
func (r *Repository) Load(ctx context.Context) error {
	rules, err := r.loadFromCSV()
	if err != nil {
		if r.fallback == nil {
			return fmt.Errorf("%w: %v", core.ErrRuleLoad, err)
		}
		r.logger.Warn("Failed to load rules from CSV, falling back to remote source",
			zap.String("csv_path", r.csvPath),
			zap.Error(err))
		rules, err = r.loadFromRemote(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", core.ErrRuleLoad, err)
		}
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority < rules[j].Priority
	})

	r.mu.Lock()
	r.rules = rules
	r.mu.Unlock()

	r.logger.Info("Loaded extraction rules", zap.Int("count", len(rules)))
	return nil
}

func (r *Repository) loadFromCSV() ([]core.Rule, error) {
	f, err := os.Open(r.csvPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse rule CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("rule CSV is empty")
	}

	header := map[string]int{}
	for i, name := range records[0] {
		header[strings.TrimSpace(strings.ToLower(name))] = i
	}
	field := func(row []string, name string) string {
		idx, ok := header[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var rules []core.Rule
	for _, row := range records[1:] {
		active := true
		if s := field(row, "is_active"); s != "" {
			n, err := strconv.Atoi(s)
			if err == nil && n != 1 {
				active = false
			}
		}
		if !active {
			continue
		}

		id, _ := strconv.Atoi(field(row, "id"))
		priority := defaultPriority
		if s := field(row, "priority"); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				priority = n
			}
		}

		rules = append(rules, core.Rule{
			ID:       id,
			Category: field(row, "category"),
			Source:   field(row, "source"),
			Keywords: splitKeywords(field(row, "keywords")),
			Match:    parseMatchType(field(row, "match_type")),
			Action:   core.RuleAction(field(row, "action")),
			Priority: priority,
			Active:   true,
		})
	}
	return rules, nil
}

func (r *Repository) loadFromRemote(ctx context.Context) ([]core.Rule, error) {
	all, err := r.fallback.ListRules(ctx)
	if err != nil {
		return nil, err
	}
	var rules []core.Rule
	for _, rule := range all {
		if rule.Active && rule.Source == "email_extractor" {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

func splitKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

func parseMatchType(s string) core.MatchType {
	switch core.MatchType(strings.ToLower(s)) {
	case core.MatchExact:
		return core.MatchExact
	case core.MatchRegex:
		return core.MatchRegex
	default:
		return core.MatchContains
	}
}

// Rules returns all cached rules in priority order.
func (r *Repository) Rules() []core.Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rules
}

// RulesByCategory returns the cached rules for one category.
func (r *Repository) RulesByCategory(category string) []core.Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []core.Rule
	for _, rule := range r.rules {
		if rule.Category == category {
			out = append(out, rule)
		}
	}
	return out
}

// KeywordsFor returns the flattened keyword list for one category.
func (r *Repository) KeywordsFor(category string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, rule := range r.rules {
		if rule.Category == category {
			out = append(out, rule.Keywords...)
		}
	}
	return out
}

// KeywordLists returns every category's keywords keyed by category name.
func (r *Repository) KeywordLists() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string][]string)
	for _, rule := range r.rules {
		if len(rule.Keywords) > 0 {
			out[rule.Category] = append(out[rule.Category], rule.Keywords...)
		}
	}
	return out
}

// CheckEmail matches an email address against the rules in priority order
// and returns the action of the first match. The category name selects the
// slice of the address each rule sees: localpart categories match the local
// part, domain categories the domain, and everything else the full address.
// A malformed address is blocked outright.
func (r *Repository) CheckEmail(email string) core.RuleAction {
	if email == "" {
		return core.ActionNone
	}
	emailLower := strings.ToLower(email)
	at := strings.Index(emailLower, "@")
	if at < 0 {
		return core.ActionBlock
	}
	localPart := emailLower[:at]
	domain := emailLower[at+1:]

	r.mu.RLock()
	rules := r.rules
	r.mu.RUnlock()

	for _, rule := range rules {
		// Keyword-list categories carry no verdict and must not shadow
		// blocking rules further down the priority order.
		if rule.Action == core.ActionNone {
			continue
		}
		category := strings.ToLower(rule.Category)
		var target string
		switch {
		case strings.Contains(category, "localpart"):
			target = localPart
		case strings.Contains(category, "domain"):
			target = domain
		case strings.Contains(category, "email"):
			target = emailLower
		default:
			target = emailLower
		}

		for _, keyword := range rule.Keywords {
			if matches(target, keyword, rule.Match) {
				r.logger.Debug("Rule matched",
					zap.String("category", rule.Category),
					zap.String("keyword", keyword),
					zap.String("action", string(rule.Action)))
				return rule.Action
			}
		}
	}
	return core.ActionNone
}

func matches(text, pattern string, matchType core.MatchType) bool {
	switch matchType {
	case core.MatchExact:
		return text == strings.ToLower(pattern)
	case core.MatchContains:
		return strings.Contains(text, strings.ToLower(pattern))
	case core.MatchRegex:
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return false
		}
		return re.MatchString(text)
	default:
		return false
	}
}
