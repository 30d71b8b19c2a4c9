package extract

import (
	"testing"

	"go.uber.org/zap"
)

func TestPositionExtract(t *testing.T) {
	pe := NewPositionExtractor(newTestRules(t), zap.NewNop())

	tests := []struct {
		name    string
		body    string
		subject string
		want    string
	}{
		{
			"subject wins over body",
			"We need a Data Analyst for this project.",
			"Hiring Senior Java Developer",
			"Senior Java Developer",
		},
		{
			"labeled position line",
			"Position: Data Engineer",
			"",
			"Data Engineer",
		},
		{
			"marketing fluff stripped",
			"We are looking for a Highly Skilled Python Developer to start soon.",
			"",
			"Python Developer",
		},
		{
			"abbreviated seniority normalized",
			"Position: Sr. Devops Engineer",
			"",
			"Senior Devops Engineer",
		},
		{
			"no title",
			"Just checking in about last week.",
			"",
			"",
		},
		{
			"false positive word rejected",
			"Position: Team Outing Friday",
			"",
			"",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := pe.Extract(tc.body, tc.subject); got != tc.want {
				t.Errorf("Extract() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCleanPosition(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"the Senior   Java Developer role", "Senior Java Developer"},
		{"<b>QA Tester</b> position", "Qa Tester"},
		{"experienced React Developer needed", "React Developer"},
	}
	for _, tc := range tests {
		if got := cleanPosition(tc.in); got != tc.want {
			t.Errorf("cleanPosition(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
