package extract

import (
	"testing"

	"go.uber.org/zap"
)

func newTestScorer(t *testing.T) *CompanyScorer {
	t.Helper()
	return NewCompanyScorer(newTestRules(t), 0.70, 0.15, zap.NewNop())
}

func TestExtractCompanyExplicitClientMarker(t *testing.T) {
	s := newTestScorer(t)

	text := "Client: Globex Corporation.\nThe role is onsite in Dallas."
	if got := s.ExtractCompany(text, "", "", ""); got != "Globex Corporation" {
		t.Errorf("ExtractCompany() = %q, want %q", got, "Globex Corporation")
	}
}

func TestExtractCompanyPrefersVendorNearTie(t *testing.T) {
	s := newTestScorer(t)

	text := "Client: Globex Corporation.\nPlease review and respond."
	html := "<span>Jane Doe - Acme Staffing</span>"
	if got := s.ExtractCompany(text, html, "", ""); got != "Acme Staffing" {
		t.Errorf("ExtractCompany() = %q, want %q", got, "Acme Staffing")
	}
}

func TestExtractCompanyMinimumScore(t *testing.T) {
	s := newTestScorer(t)

	// A bare domain heuristic scores far below the floor.
	if got := s.ExtractCompany("", "", "jane@quantumworks.com", ""); got != "" {
		t.Errorf("ExtractCompany() = %q, want empty", got)
	}
}

func TestExtractCompanyRejectsLocationName(t *testing.T) {
	s := newTestScorer(t)

	if got := s.ExtractCompany("Client: New York.", "", "", ""); got != "" {
		t.Errorf("ExtractCompany() = %q, want empty", got)
	}
}

func TestExtractCompanyFromSignature(t *testing.T) {
	s := newTestScorer(t)

	text := "Jane Doe\nSenior Technical Recruiter\nBrightPath Solutions\nPhone: 469-555-0142"
	if got := s.ExtractCompanyFromSignature(text); got != "BrightPath Solutions" {
		t.Errorf("ExtractCompanyFromSignature() = %q, want %q", got, "BrightPath Solutions")
	}

	if got := s.ExtractCompanyFromSignature("No titles here.\nJust text."); got != "" {
		t.Errorf("ExtractCompanyFromSignature() = %q, want empty", got)
	}
}

func TestExtractCompanyFromDomain(t *testing.T) {
	s := newTestScorer(t)

	tests := []struct {
		email string
		want  string
	}{
		{"jane@cyber-coders.com", "Cyber Coders"},
		{"jane@cyber-coders.co.uk", "Cyber Coders"},
		{"recruiter@jobs.myworkday.com", ""},
		{"not-an-address", ""},
	}
	for _, tc := range tests {
		if got := s.ExtractCompanyFromDomain(tc.email); got != tc.want {
			t.Errorf("ExtractCompanyFromDomain(%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}

func TestExtractVendorSpan(t *testing.T) {
	s := newTestScorer(t)

	tests := []struct {
		name        string
		text        string
		wantName    string
		wantCompany string
	}{
		{
			"dash separated span",
			"<span>Jane Doe - Acme Staffing</span>",
			"Jane Doe",
			"Acme Staffing",
		},
		{
			"pipe separated span",
			"<div>Bob Smith | BrightPath Solutions</div>",
			"Bob Smith",
			"BrightPath Solutions",
		},
		{
			"plain text line",
			"Regards,\nCarol King - Vertex Infotech\n",
			"Carol King",
			"Vertex Infotech",
		},
		{
			"single word name rejected",
			"<span>Jane - Acme Staffing</span>",
			"",
			"",
		},
		{
			"no span",
			"Nothing to see here.",
			"",
			"",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			name, company := s.ExtractVendorSpan(tc.text)
			if name != tc.wantName || company != tc.wantCompany {
				t.Errorf("ExtractVendorSpan() = (%q, %q), want (%q, %q)",
					name, company, tc.wantName, tc.wantCompany)
			}
		})
	}
}

func TestCleanCompanyName(t *testing.T) {
	s := newTestScorer(t)

	tests := []struct {
		in   string
		want string
	}{
		{"Acme   Staffing  ", "Acme Staffing"},
		{"Globex Inc.", "Globex Inc"},
		{"Initech LLC.", "Initech LLC"},
		{"Hooli,", "Hooli"},
	}
	for _, tc := range tests {
		if got := s.CleanCompanyName(tc.in); got != tc.want {
			t.Errorf("CleanCompanyName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsLocation(t *testing.T) {
	s := newTestScorer(t)

	tests := []struct {
		in   string
		want bool
	}{
		{"New York", true},
		{"Austin, TX", true},
		{"Dallas Texas", true},
		{"BrightPath Solutions", false},
		{"Sibitalent", false},
	}
	for _, tc := range tests {
		if got := s.isLocation(tc.in); got != tc.want {
			t.Errorf("isLocation(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
