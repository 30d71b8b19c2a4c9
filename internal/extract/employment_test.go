package extract

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractEmploymentTypes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		subject string
		want    []string
	}{
		{
			"subject with both w2 and c2c",
			"",
			"Senior Java Developer - W2/C2C",
			[]string{"C2C", "W2"},
		},
		{
			"spelled out corp to corp",
			"This is a contract role, corp to corp is fine.",
			"",
			[]string{"C2C", "Contract"},
		},
		{
			"independent contractor maps to 1099",
			"Open to an independent contractor arrangement.",
			"",
			[]string{"1099", "Contract"},
		},
		{
			"permanent maps to full time",
			"This is a permanent placement.",
			"",
			[]string{"Full-time"},
		},
		{
			"nothing mentioned",
			"Let me know your availability.",
			"",
			[]string{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractEmploymentTypes(tc.body, tc.subject)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ExtractEmploymentTypes() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExtractEmploymentTypesBodyLimit(t *testing.T) {
	body := strings.Repeat("lorem ipsum ", 100) + "W2 only"
	if got := ExtractEmploymentTypes(body, ""); len(got) != 0 {
		t.Errorf("expected no types past the body limit, got %v", got)
	}
}

func TestExtractEmploymentTypeString(t *testing.T) {
	got := ExtractEmploymentTypeString("Available on W2 or corp to corp.", "")
	if got != "C2C, W2" {
		t.Errorf("ExtractEmploymentTypeString() = %q, want %q", got, "C2C, W2")
	}
	if got := ExtractEmploymentTypeString("no terms here", ""); got != "" {
		t.Errorf("ExtractEmploymentTypeString() = %q, want empty", got)
	}
}
