package extract

import (
	"testing"

	"go.uber.org/zap"
)

func TestIsJunk(t *testing.T) {
	mf := NewMailFilter(newTestRules(t), zap.NewNop())

	tests := []struct {
		name string
		from string
		want bool
	}{
		{"normal sender", "Jane Doe <jane@acmestaffing.com>", false},
		{"blocked local part", "noreply@jobsite.com", true},
		{"blocked substring", "System <donotreply-alerts@jobsite.com>", true},
		{"unparsable header", "not an address", true},
		{"empty header", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := mf.IsJunk(tc.from); got != tc.want {
				t.Errorf("IsJunk(%q) = %v, want %v", tc.from, got, tc.want)
			}
		})
	}
}

func TestIsRecruiterMail(t *testing.T) {
	mf := NewMailFilter(newTestRules(t), zap.NewNop())

	from := "Jane Doe <jane@acmestaffing.com>"

	tests := []struct {
		name    string
		subject string
		body    string
		want    bool
	}{
		{
			"subject keyword is enough",
			"Job opportunity for you",
			"Please see below.",
			true,
		},
		{
			"two body keywords",
			"Quick question",
			"We have a new position open, please send your resume.",
			true,
		},
		{
			"single body keyword still passes",
			"Quick question",
			"This requirement closes Friday.",
			true,
		},
		{
			"no keywords",
			"Lunch tomorrow?",
			"See you at noon.",
			false,
		},
		{
			"marketing language dominates",
			"Last chance discount",
			"Flash sale ends soon! Unsubscribe below. Limited time promo code inside. We are hiring too.",
			false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := mf.IsRecruiterMail(tc.subject, tc.body, from); got != tc.want {
				t.Errorf("IsRecruiterMail(%q) = %v, want %v", tc.subject, got, tc.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	mf := NewMailFilter(newTestRules(t), zap.NewNop())

	messages := []*ParsedMessage{
		{
			From:     "Jane Doe <jane@acmestaffing.com>",
			Subject:  "Job opportunity: Java Developer",
			TextBody: "We have a position for you.",
		},
		{
			From:     "noreply@jobsite.com",
			Subject:  "Job opportunity",
			TextBody: "Automated alert.",
		},
		{
			From:     "Bob <bob@friends.org>",
			Subject:  "Lunch tomorrow?",
			TextBody: "See you at noon.",
		},
		{
			From:         "noreply@calendar-system.com",
			Subject:      "Interview invitation",
			CalendarBody: "BEGIN:VCALENDAR\nORGANIZER:mailto:carol@acmestaffing.com\nEND:VCALENDAR",
		},
	}

	kept, bodies, stats := mf.Filter(messages, func(pm *ParsedMessage) string { return pm.TextBody })

	if len(kept) != 2 {
		t.Fatalf("kept %d messages, want 2", len(kept))
	}
	if len(bodies) != len(kept) {
		t.Fatalf("bodies length %d does not match kept %d", len(bodies), len(kept))
	}
	if kept[0].Subject != "Interview invitation" && kept[1].Subject != "Interview invitation" {
		t.Error("calendar invite was not kept")
	}

	if stats.Total != 4 {
		t.Errorf("Total = %d, want 4", stats.Total)
	}
	if stats.Passed != 2 {
		t.Errorf("Passed = %d, want 2", stats.Passed)
	}
	if stats.Junk != 1 {
		t.Errorf("Junk = %d, want 1", stats.Junk)
	}
	if stats.NotRecruiter != 1 {
		t.Errorf("NotRecruiter = %d, want 1", stats.NotRecruiter)
	}
	if stats.CalendarInvites != 1 {
		t.Errorf("CalendarInvites = %d, want 1", stats.CalendarInvites)
	}
}
