package whitebox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/core"
	"go.uber.org/zap"
)

const (
	jobSourceLabel  = "Bot Candidate Email Extractor"
	jobTypeUniqueID = "bot_candidate_email_extractor"
)

// Client talks to the remote contact persistence API. It implements both the
// ContactStore and RuleSource interfaces. Authentication is either a static
// bearer token from config or a username/password login against the API's
// token endpoint; an expired token is refreshed once per request.
type Client struct {
	baseURL    string
	username   string
	password   string
	employeeID int
	httpClient *http.Client
	logger     *zap.Logger

	mu        sync.Mutex
	token     string
	jobTypeID int
}

// NewClient creates a new persistence API client. token may be empty when
// username/password login is configured.
func NewClient(
	baseURL string,
	username string,
	password string,
	token string,
	employeeID int,
	timeout time.Duration,
	logger *zap.Logger,
) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		password:   password,
		token:      token,
		employeeID: employeeID,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}
	if c.username == "" || c.password == "" {
		return "", fmt.Errorf("no API token and no login credentials configured")
	}

	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("login returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if lr.AccessToken == "" {
		return "", fmt.Errorf("no access_token in login response")
	}

	c.token = lr.AccessToken
	c.logger.Info("Authenticated against persistence API")
	return c.token, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// doJSON performs an authenticated JSON request. A 401 triggers one token
// refresh and retry when login credentials are available; a static config
// token has no refresh path.
func (c *Client) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request payload: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		token, err := c.ensureToken(ctx)
		if err != nil {
			return err
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request %s %s failed: %w", method, path, err)
		}

		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 && c.username != "" && c.password != "" {
			resp.Body.Close()
			c.invalidateToken()
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return fmt.Errorf("%s %s returned status %d: %s",
				method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
		}

		if out != nil {
			err = json.NewDecoder(resp.Body).Decode(out)
		}
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
		}
		return nil
	}
}

type contactPayload struct {
	FullName         string `json:"full_name"`
	SourceEmail      string `json:"source_email,omitempty"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	LinkedInID       string `json:"linkedin_id,omitempty"`
	CompanyName      string `json:"company_name,omitempty"`
	Location         string `json:"location,omitempty"`
	ZipCode          string `json:"zip_code,omitempty"`
	JobPosition      string `json:"job_position,omitempty"`
	EmploymentType   string `json:"employment_type,omitempty"`
	ExtractionSource string `json:"extraction_source,omitempty"`
	ExtractedFromUID uint32 `json:"extracted_from_uid,omitempty"`
	ExtractionDate   string `json:"extraction_date"`
	JobSource        string `json:"job_source"`
}

type bulkSaveResponse struct {
	Inserted *int `json:"inserted"`
	Saved    *int `json:"saved"`
	Skipped  int  `json:"skipped"`
}

// SaveContactsBulk persists resolved contacts in a single API call. Contacts
// without a name are sent with the email local part as a placeholder name so
// the backend's non-null constraint holds.
func (c *Client) SaveContactsBulk(ctx context.Context, contacts []core.Contact) (core.SaveResult, error) {
	if len(contacts) == 0 {
		return core.SaveResult{}, nil
	}

	payload := make([]contactPayload, 0, len(contacts))
	for _, contact := range contacts {
		name := contact.Name
		if name == "" {
			if at := strings.Index(contact.Email, "@"); at > 0 {
				name = contact.Email[:at]
			}
		}
		if name == "" {
			continue
		}
		payload = append(payload, contactPayload{
			FullName:         name,
			SourceEmail:      contact.SourceMailbox,
			Email:            contact.Email,
			Phone:            contact.Phone,
			LinkedInID:       contact.LinkedInID,
			CompanyName:      contact.Company,
			Location:         contact.Location,
			ZipCode:          contact.ZipCode,
			JobPosition:      contact.JobPosition,
			EmploymentType:   contact.EmploymentType,
			ExtractionSource: contact.ExtractionSource,
			ExtractedFromUID: contact.ExtractedFromUID,
			ExtractionDate:   time.Now().Format("2006-01-02"),
			JobSource:        jobSourceLabel,
		})
	}
	if len(payload) == 0 {
		return core.SaveResult{Skipped: len(contacts)}, nil
	}

	c.logger.Info("Saving contacts via persistence API", zap.Int("count", len(payload)))

	var resp bulkSaveResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/vendor_contact/bulk",
		map[string]any{"contacts": payload}, &resp)
	if err != nil {
		return core.SaveResult{}, fmt.Errorf("%w: failed to save contacts: %v", core.ErrPersistence, err)
	}

	inserted := len(payload)
	if resp.Inserted != nil {
		inserted = *resp.Inserted
	} else if resp.Saved != nil {
		inserted = *resp.Saved
	}
	return core.SaveResult{
		Inserted: inserted,
		Skipped:  resp.Skipped + (len(contacts) - len(payload)),
	}, nil
}

type knownIdentitiesResponse struct {
	Emails []string `json:"emails"`
}

// KnownIdentities returns the normalized identity keys already stored for a
// mailbox, newest first, capped at limit.
func (c *Client) KnownIdentities(ctx context.Context, mailbox string, limit int) (map[string]struct{}, error) {
	query := url.Values{}
	query.Set("source_email", mailbox)
	if limit > 0 {
		query.Set("limit", fmt.Sprintf("%d", limit))
	}

	var resp knownIdentitiesResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/vendor_contact/recent?"+query.Encode(), nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch known contacts: %v", core.ErrPersistence, err)
	}

	known := make(map[string]struct{}, len(resp.Emails))
	for _, email := range resp.Emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			known[email] = struct{}{}
		}
	}
	return known, nil
}

type jobType struct {
	ID       int    `json:"id"`
	UniqueID string `json:"unique_id"`
}

func (c *Client) resolveJobTypeID(ctx context.Context) (int, error) {
	c.mu.Lock()
	cached := c.jobTypeID
	c.mu.Unlock()
	if cached != 0 {
		return cached, nil
	}

	var types []jobType
	if err := c.doJSON(ctx, http.MethodGet, "/api/job-types", nil, &types); err != nil {
		return 0, err
	}
	for _, jt := range types {
		if jt.UniqueID == jobTypeUniqueID {
			c.mu.Lock()
			c.jobTypeID = jt.ID
			c.mu.Unlock()
			return jt.ID, nil
		}
	}
	return 0, fmt.Errorf("job type %q not found", jobTypeUniqueID)
}

type activityLogPayload struct {
	JobID         int    `json:"job_id"`
	CandidateID   int    `json:"candidate_id"`
	EmployeeID    int    `json:"employee_id,omitempty"`
	ActivityDate  string `json:"activity_date"`
	ActivityCount int    `json:"activity_count"`
	Notes         string `json:"notes,omitempty"`
}

// LogActivity records how many contacts a mailbox run extracted. A zero
// mailboxOwnerID means the mailbox has no backend record and the log is
// skipped.
func (c *Client) LogActivity(ctx context.Context, mailboxOwnerID int, countExtracted int, notes string) error {
	if mailboxOwnerID == 0 {
		c.logger.Debug("Skipping activity log for unregistered mailbox")
		return nil
	}

	jobTypeID, err := c.resolveJobTypeID(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to resolve job type: %v", core.ErrPersistence, err)
	}

	entry := activityLogPayload{
		JobID:         jobTypeID,
		CandidateID:   mailboxOwnerID,
		EmployeeID:    c.employeeID,
		ActivityDate:  time.Now().Format("2006-01-02"),
		ActivityCount: countExtracted,
		Notes:         notes,
	}
	err = c.doJSON(ctx, http.MethodPost, "/api/job_activity_logs/bulk",
		map[string]any{"logs": []activityLogPayload{entry}}, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to log activity: %v", core.ErrPersistence, err)
	}
	return nil
}

type remoteRule struct {
	ID       int    `json:"id"`
	Category string `json:"category"`
	Source   string `json:"source"`
	Keywords string `json:"keywords"`
	Match    string `json:"match_type"`
	Action   string `json:"action"`
	Priority int    `json:"priority"`
	IsActive int    `json:"is_active"`
}

// ListRules fetches the extraction rule set from the API. The caller filters
// by source and activity; this returns everything the endpoint serves.
func (c *Client) ListRules(ctx context.Context) ([]core.Rule, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/api/job-automation-keywords", nil, &raw); err != nil {
		return nil, err
	}

	// The endpoint serves either a bare array or a {"data": [...]} wrapper.
	var remote []remoteRule
	if err := json.Unmarshal(raw, &remote); err != nil {
		var wrapped struct {
			Data []remoteRule `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to decode rule list: %w", err)
		}
		remote = wrapped.Data
	}

	rules := make([]core.Rule, 0, len(remote))
	for _, rr := range remote {
		priority := rr.Priority
		if priority == 0 {
			priority = 999
		}
		rules = append(rules, core.Rule{
			ID:       rr.ID,
			Category: rr.Category,
			Source:   rr.Source,
			Keywords: splitKeywords(rr.Keywords),
			Match:    parseMatchType(rr.Match),
			Action:   core.RuleAction(strings.ToLower(strings.TrimSpace(rr.Action))),
			Priority: priority,
			Active:   rr.IsActive == 1,
		})
	}
	c.logger.Info("Fetched extraction rules from persistence API", zap.Int("count", len(rules)))
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
