package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/rules"
	"go.uber.org/zap"
)

const testRulesCSV = `id,category,source,keywords,match_type,action,priority,is_active
1,blocked_email_localpart,email_extractor,"noreply,no-reply,donotreply,mailer-daemon",contains,block,1,1
2,blocked_email_domain,email_extractor,"gmail.com,yahoo.com,hotmail.com",exact,block,2,1
3,blocked_email_domain,email_extractor,newsletter.promomail.com,exact,block,3,1
4,recruiter_keywords,email_extractor,"job opportunity,position,hiring,requirement,recruiter,your resume",contains,,10,1
5,anti_recruiter_keywords,email_extractor,"unsubscribe,webinar,discount,limited time,flash sale,promo code",contains,,10,1
6,job_title_keywords,email_extractor,"recruiter,talent acquisition,hiring manager,staffing specialist",contains,,10,1
7,company_suffix_mapping,email_extractor,"inc.|Inc,llc.|LLC,corp.|Corp",contains,,10,1
8,blocked_ats_domain,email_extractor,"myworkday.com,greenhouse.io,lever.co,icims.com",contains,,10,1
9,client_language_keywords,email_extractor,"our client,end client,client name",contains,,10,1
10,generic_company_terms,email_extractor,"staffing agency,consulting firm,recruitment firm",contains,,10,1
11,vendor_indicators,email_extractor,"staffing,infotech,consultancy",contains,,10,1
12,greeting_patterns,email_extractor,"hello,good morning,greetings",contains,,10,1
13,company_indicators,email_extractor,"technologies,consulting,infotech",contains,,10,1
14,skip_header_keywords,email_extractor,"noreply,jobs-listings,do-not-reply,notifications",contains,,10,1
15,invalid_email_extension,email_extractor,".png,.jpg,.gif,.jpeg,.pdf",contains,,10,1
16,location_false_positives,email_extractor,"remote,anywhere",contains,,10,1
17,us_major_cities,email_extractor,"new york,san francisco,salt lake city,los angeles",contains,,10,1
18,us_state_abbreviations,email_extractor,"CA,NY,TX,FL,WA,VA,IL,GA,NC,NJ,AZ,CO",contains,,10,1
19,us_state_name_mappings,email_extractor,"california|CA,new york|NY,texas|TX,florida|FL",contains,,10,1
20,location_name_indicators,email_extractor,"street,avenue,boulevard,parkway",contains,,10,1
21,location_junk_patterns,email_extractor,"click\s+here,apply\s+now",regex,,10,1
22,job_position_trigger_words,email_extractor,"developer,engineer,architect,devops,sdet",contains,,10,1
`

func newTestRules(t *testing.T) *rules.Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filters.csv")
	if err := os.WriteFile(path, []byte(testRulesCSV), 0o644); err != nil {
		t.Fatalf("failed to write test CSV: %v", err)
	}
	repo := rules.NewRepository(path, nil, zap.NewNop())
	if err := repo.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return repo
}
