package rules

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"go.uber.org/zap"
)

const testCSV = `id,category,source,keywords,match_type,action,priority,is_active
1,blocked_email_localpart,email_extractor,"noreply,no-reply,donotreply",contains,block,1,1
2,allowed_email_exact,email_extractor,recruiter@goodvendor.com,exact,allow,2,1
3,blocked_email_domain,email_extractor,"newsletter.example.com",exact,block,3,1
4,blocked_email_regex,email_extractor,"^bounce",regex,block,4,1
5,recruiter_keywords,email_extractor,"job opportunity,position,hiring",contains,allow,10,1
6,blocked_email_domain,email_extractor,disabled.example.com,exact,block,5,0
`

func writeTestCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filters.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test CSV: %v", err)
	}
	return path
}

func newTestRepository(t *testing.T, csv string) *Repository {
	t.Helper()
	repo := NewRepository(writeTestCSV(t, csv), nil, zap.NewNop())
	if err := repo.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return repo
}

func TestCheckEmail(t *testing.T) {
	repo := newTestRepository(t, testCSV)

	tests := []struct {
		name  string
		email string
		want  core.RuleAction
	}{
		{"blocked local part", "noreply@company.com", core.ActionBlock},
		{"blocked local part substring", "jobs-donotreply@company.com", core.ActionBlock},
		{"allowed exact address", "recruiter@goodvendor.com", core.ActionAllow},
		{"blocked domain", "alice@newsletter.example.com", core.ActionBlock},
		{"regex match on local part", "bounce-123@mailer.net", core.ActionBlock},
		{"no match", "jane.doe@staffing.com", core.ActionNone},
		{"malformed address", "not-an-email", core.ActionBlock},
		{"empty address", "", core.ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repo.CheckEmail(tt.email); got != tt.want {
				t.Errorf("CheckEmail(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestCheckEmailPriorityOrder(t *testing.T) {
	// An allow rule with higher priority (lower number) must win over a
	// later block rule that also matches.
	csv := `id,category,source,keywords,match_type,action,priority,is_active
1,allowed_email_exact,email_extractor,noreply@trusted.com,exact,allow,1,1
2,blocked_email_localpart,email_extractor,noreply,contains,block,5,1
`
	repo := newTestRepository(t, csv)
	if got := repo.CheckEmail("noreply@trusted.com"); got != core.ActionAllow {
		t.Errorf("CheckEmail() = %q, want allow from higher priority rule", got)
	}
	if got := repo.CheckEmail("noreply@other.com"); got != core.ActionBlock {
		t.Errorf("CheckEmail() = %q, want block from lower priority rule", got)
	}
}

func TestInactiveRulesDropped(t *testing.T) {
	repo := newTestRepository(t, testCSV)
	if got := repo.CheckEmail("bob@disabled.example.com"); got != core.ActionNone {
		t.Errorf("CheckEmail() = %q, inactive rule should not match", got)
	}
}

func TestKeywordLists(t *testing.T) {
	repo := newTestRepository(t, testCSV)
	lists := repo.KeywordLists()
	got := lists["recruiter_keywords"]
	want := []string{"job opportunity", "position", "hiring"}
	if len(got) != len(want) {
		t.Fatalf("KeywordLists()[recruiter_keywords] = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keyword[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

type stubRuleSource struct {
	rules []core.Rule
}

func (s *stubRuleSource) ListRules(ctx context.Context) ([]core.Rule, error) {
	return s.rules, nil
}

func TestRemoteFallback(t *testing.T) {
	fallback := &stubRuleSource{rules: []core.Rule{
		{ID: 1, Category: "blocked_email_domain", Source: "email_extractor", Keywords: []string{"spam.com"}, Match: core.MatchExact, Action: core.ActionBlock, Priority: 1, Active: true},
		{ID: 2, Category: "blocked_email_domain", Source: "other_tool", Keywords: []string{"keep.com"}, Match: core.MatchExact, Action: core.ActionBlock, Priority: 1, Active: true},
		{ID: 3, Category: "blocked_email_domain", Source: "email_extractor", Keywords: []string{"off.com"}, Match: core.MatchExact, Action: core.ActionBlock, Priority: 1, Active: false},
	}}
	repo := NewRepository(filepath.Join(t.TempDir(), "missing.csv"), fallback, zap.NewNop())
	if err := repo.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if got := repo.CheckEmail("x@spam.com"); got != core.ActionBlock {
		t.Errorf("CheckEmail() = %q, want block from remote rule", got)
	}
	// Rules from other sources and inactive rules are filtered out.
	if got := repo.CheckEmail("x@keep.com"); got != core.ActionNone {
		t.Errorf("CheckEmail() = %q, want no match for foreign source rule", got)
	}
	if got := repo.CheckEmail("x@off.com"); got != core.ActionNone {
		t.Errorf("CheckEmail() = %q, want no match for inactive rule", got)
	}
}

func TestLoadErrorWithoutFallback(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "missing.csv"), nil, zap.NewNop())
	err := repo.Load(context.Background())
	if err == nil {
		t.Fatal("Load() expected error for missing CSV without fallback")
	}
	if !errors.Is(err, core.ErrRuleLoad) {
		t.Errorf("Load() error = %v, want core.ErrRuleLoad", err)
	}
}
