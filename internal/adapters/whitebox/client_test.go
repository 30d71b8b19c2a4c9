package whitebox

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"go.uber.org/zap"
)

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, "bot@example.com", "secret", "", 7, 5*time.Second, zap.NewNop())
}

func serveLogin(t *testing.T, w http.ResponseWriter, r *http.Request) {
	t.Helper()
	if err := r.ParseForm(); err != nil {
		t.Errorf("parse login form: %v", err)
		return
	}
	if r.PostForm.Get("username") != "bot@example.com" || r.PostForm.Get("password") != "secret" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1", "token_type": "bearer"})
}

func TestSaveContactsBulk(t *testing.T) {
	var gotAuth string
	var gotPayload struct {
		Contacts []contactPayload `json:"contacts"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			serveLogin(t, w, r)
		case "/api/vendor_contact/bulk":
			gotAuth = r.Header.Get("Authorization")
			if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
				t.Errorf("decode bulk payload: %v", err)
			}
			json.NewEncoder(w).Encode(map[string]int{"inserted": 1, "skipped": 1})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	contacts := []core.Contact{
		{
			Name:             "Jane Doe",
			Email:            "jane@acmestaffing.com",
			Phone:            "+14695550142",
			Company:          "Acme Staffing Inc",
			Location:         "Austin, TX",
			ZipCode:          "78701",
			JobPosition:      "Senior Java Developer",
			EmploymentType:   "Contract, W2",
			ExtractionSource: "from",
			SourceMailbox:    "owner@gmail.com",
			ExtractedFromUID: 42,
		},
		{Email: "bob@vendor.com", SourceMailbox: "owner@gmail.com"},
	}

	result, err := c.SaveContactsBulk(context.Background(), contacts)
	if err != nil {
		t.Fatalf("SaveContactsBulk: %v", err)
	}
	if result.Inserted != 1 || result.Skipped != 1 {
		t.Errorf("result = %+v, want inserted 1 skipped 1", result)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if len(gotPayload.Contacts) != 2 {
		t.Fatalf("sent %d contacts, want 2", len(gotPayload.Contacts))
	}

	first := gotPayload.Contacts[0]
	if first.FullName != "Jane Doe" || first.Email != "jane@acmestaffing.com" {
		t.Errorf("first contact = %+v", first)
	}
	if first.SourceEmail != "owner@gmail.com" || first.ExtractedFromUID != 42 {
		t.Errorf("source fields = %q uid %d", first.SourceEmail, first.ExtractedFromUID)
	}
	if first.JobSource != "Bot Candidate Email Extractor" {
		t.Errorf("job_source = %q", first.JobSource)
	}

	// Nameless contact falls back to the email local part.
	if gotPayload.Contacts[1].FullName != "bob" {
		t.Errorf("fallback name = %q, want bob", gotPayload.Contacts[1].FullName)
	}
}

func TestSaveContactsBulkEmpty(t *testing.T) {
	c := newTestClient("http://unreachable.invalid")
	result, err := c.SaveContactsBulk(context.Background(), nil)
	if err != nil {
		t.Fatalf("SaveContactsBulk: %v", err)
	}
	if result.Inserted != 0 || result.Skipped != 0 {
		t.Errorf("result = %+v, want zero", result)
	}
}

func TestSaveContactsBulkServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/login" {
			serveLogin(t, w, r)
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.SaveContactsBulk(context.Background(), []core.Contact{{Name: "Jane Doe", Email: "j@v.com"}})
	if !errors.Is(err, core.ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
}

func TestExpiredTokenIsRefreshed(t *testing.T) {
	logins := 0
	bulkCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			logins++
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
		case "/api/vendor_contact/bulk":
			bulkCalls++
			if bulkCalls == 1 {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]int{"inserted": 1})
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	result, err := c.SaveContactsBulk(context.Background(), []core.Contact{{Name: "Jane Doe", Email: "j@v.com"}})
	if err != nil {
		t.Fatalf("SaveContactsBulk: %v", err)
	}
	if result.Inserted != 1 {
		t.Errorf("inserted = %d, want 1", result.Inserted)
	}
	if logins != 2 || bulkCalls != 2 {
		t.Errorf("logins = %d bulkCalls = %d, want 2 and 2", logins, bulkCalls)
	}
}

func TestStaticTokenIsNotRefreshed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/login" {
			t.Error("login must not be called with a static token")
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "", "static-tok", 0, time.Second, zap.NewNop())
	_, err := c.SaveContactsBulk(context.Background(), []core.Contact{{Name: "Jane Doe", Email: "j@v.com"}})
	if !errors.Is(err, core.ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
}

func TestKnownIdentities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			serveLogin(t, w, r)
		case "/api/vendor_contact/recent":
			if got := r.URL.Query().Get("source_email"); got != "owner@gmail.com" {
				t.Errorf("source_email = %q", got)
			}
			if got := r.URL.Query().Get("limit"); got != "5000" {
				t.Errorf("limit = %q", got)
			}
			json.NewEncoder(w).Encode(map[string][]string{
				"emails": {" Jane@AcmeStaffing.com ", "bob@vendor.com", ""},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	known, err := c.KnownIdentities(context.Background(), "owner@gmail.com", 5000)
	if err != nil {
		t.Fatalf("KnownIdentities: %v", err)
	}
	if len(known) != 2 {
		t.Fatalf("len(known) = %d, want 2", len(known))
	}
	if _, ok := known["jane@acmestaffing.com"]; !ok {
		t.Error("normalized key jane@acmestaffing.com missing")
	}
}

func TestLogActivityCachesJobType(t *testing.T) {
	jobTypeCalls := 0
	var gotLogs struct {
		Logs []activityLogPayload `json:"logs"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			serveLogin(t, w, r)
		case "/api/job-types":
			jobTypeCalls++
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": 3, "unique_id": "other_bot"},
				{"id": 9, "unique_id": "bot_candidate_email_extractor"},
			})
		case "/api/job_activity_logs/bulk":
			if err := json.NewDecoder(r.Body).Decode(&gotLogs); err != nil {
				t.Errorf("decode logs: %v", err)
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("{}"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if err := c.LogActivity(context.Background(), 101, 12, "run complete"); err != nil {
		t.Fatalf("LogActivity: %v", err)
	}
	if err := c.LogActivity(context.Background(), 102, 3, ""); err != nil {
		t.Fatalf("LogActivity second call: %v", err)
	}
	if jobTypeCalls != 1 {
		t.Errorf("job type lookups = %d, want 1 (cached)", jobTypeCalls)
	}

	if len(gotLogs.Logs) != 1 {
		t.Fatalf("last payload carried %d logs, want 1", len(gotLogs.Logs))
	}
	entry := gotLogs.Logs[0]
	if entry.JobID != 9 || entry.CandidateID != 102 || entry.ActivityCount != 3 || entry.EmployeeID != 7 {
		t.Errorf("log entry = %+v", entry)
	}
}

func TestLogActivitySkipsUnregisteredMailbox(t *testing.T) {
	c := newTestClient("http://unreachable.invalid")
	if err := c.LogActivity(context.Background(), 0, 5, ""); err != nil {
		t.Fatalf("LogActivity: %v", err)
	}
}

func TestListRules(t *testing.T) {
	wrapped := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			serveLogin(t, w, r)
		case "/api/job-automation-keywords":
			rows := []map[string]any{
				{
					"id": 1, "category": "blocked_email_domain", "source": "email_extractor",
					"keywords": "gmail.com, yahoo.com", "match_type": "contains",
					"action": "Block", "priority": 10, "is_active": 1,
				},
				{
					"id": 2, "category": "recruiter_keywords", "source": "email_extractor",
					"keywords": "job opportunity", "is_active": 0,
				},
			}
			if wrapped {
				json.NewEncoder(w).Encode(map[string]any{"data": rows})
			} else {
				json.NewEncoder(w).Encode(rows)
			}
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	for _, wrap := range []bool{false, true} {
		wrapped = wrap
		c := newTestClient(srv.URL)
		rules, err := c.ListRules(context.Background())
		if err != nil {
			t.Fatalf("ListRules (wrapped=%v): %v", wrap, err)
		}
		if len(rules) != 2 {
			t.Fatalf("len(rules) = %d, want 2", len(rules))
		}
		first := rules[0]
		if first.Action != core.ActionBlock || first.Match != core.MatchContains || first.Priority != 10 {
			t.Errorf("first rule = %+v", first)
		}
		if len(first.Keywords) != 2 || first.Keywords[1] != "yahoo.com" {
			t.Errorf("keywords = %v", first.Keywords)
		}
		if rules[1].Active {
			t.Error("inactive rule reported active")
		}
		if rules[1].Priority != 999 {
			t.Errorf("default priority = %d, want 999", rules[1].Priority)
		}
	}
}
