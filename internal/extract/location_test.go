package extract

import (
	"testing"

	"go.uber.org/zap"
)

func TestExtractLocationWithZip(t *testing.T) {
	le := NewLocationExtractor(newTestRules(t), zap.NewNop())

	tests := []struct {
		name     string
		text     string
		location string
		zip      string
	}{
		{
			"city state zip",
			"The role is onsite. Austin, TX 78701 is the work site.",
			"Austin, TX",
			"78701",
		},
		{
			"labeled location without zip",
			"Location: San Francisco, CA",
			"San Francisco, CA",
			"",
		},
		{
			"zip picked up from elsewhere in text",
			"Office: Dallas, TX. Mail stop 75201.",
			"Dallas, TX",
			"75201",
		},
		{
			"unknown state code rejected",
			"Shipping via Springfield, QQ today.",
			"",
			"",
		},
		{
			"standalone zip only",
			"Suite 4, ZIP 94105.",
			"",
			"94105",
		},
		{
			"no location",
			"Call me tomorrow.",
			"",
			"",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := le.ExtractLocationWithZip(tc.text)
			if got.Location != tc.location {
				t.Errorf("Location = %q, want %q", got.Location, tc.location)
			}
			if got.ZipCode != tc.zip {
				t.Errorf("ZipCode = %q, want %q", got.ZipCode, tc.zip)
			}
		})
	}
}

func TestCleanCityName(t *testing.T) {
	le := NewLocationExtractor(newTestRules(t), zap.NewNop())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain city", "Austin", "Austin"},
		{"lowercased input normalized", "austin", "Austin"},
		{"known multi word city", "Salt Lake City", "Salt Lake City"},
		{"unknown multi word fragment", "Great Growth Opportunity", ""},
		{"business suffix", "Acme Solutions", ""},
		{"camel case company", "BrightPath", ""},
		{"acronym", "IBM", ""},
		{"street address", "Main Street", ""},
		{"rule listed false positive", "Remote", ""},
		{"html artifact", "Nbsp Dallas", ""},
		{"sentence fragment connector", "Dallas And Houston", ""},
		{"too short", "LA", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := le.cleanCityName(tc.in); got != tc.want {
				t.Errorf("cleanCityName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeState(t *testing.T) {
	le := NewLocationExtractor(newTestRules(t), zap.NewNop())

	tests := []struct {
		in   string
		want string
	}{
		{"TX", "TX"},
		{"tx", "TX"},
		{"california", "CA"},
		{"California", "CA"},
		{"QQ", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := le.normalizeState(tc.in); got != tc.want {
			t.Errorf("normalizeState(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractZipCode(t *testing.T) {
	le := NewLocationExtractor(newTestRules(t), zap.NewNop())

	tests := []struct {
		in   string
		want string
	}{
		{"Plano, TX 75024-1234", "75024-1234"},
		{"Toronto M5V 2T6 office", "M5V 2T6"},
		{"nothing here", ""},
	}
	for _, tc := range tests {
		if got := le.ExtractZipCode(tc.in); got != tc.want {
			t.Errorf("ExtractZipCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseLocationComponents(t *testing.T) {
	le := NewLocationExtractor(newTestRules(t), zap.NewNop())

	got := le.ParseLocationComponents("San Francisco, CA 94105")
	if got.City != "San Francisco" || got.State != "CA" || got.ZipCode != "94105" {
		t.Errorf("ParseLocationComponents() = %+v", got)
	}
	if got.Location != "San Francisco, CA" {
		t.Errorf("Location = %q, want %q", got.Location, "San Francisco, CA")
	}

	if got := le.ParseLocationComponents("not a location"); got.Location != "" {
		t.Errorf("expected empty result, got %+v", got)
	}
}
