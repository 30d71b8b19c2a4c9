package clean

import (
	"fmt"
	"strings"

	"github.com/jaytaylor/html2text"
	"go.uber.org/zap"
)

// HTMLCleaner converts HTML bodies to plain text. Non-HTML input passes
// through with only whitespace normalization.
type HTMLCleaner struct {
	logger *zap.Logger
}

// NewHTMLCleaner creates a new HTML body cleaner
func NewHTMLCleaner(logger *zap.Logger) *HTMLCleaner {
	return &HTMLCleaner{logger: logger}
}

// Clean converts a raw message body to plain text.
func (c *HTMLCleaner) Clean(body string) (string, error) {
	if body == "" {
		return "", nil
	}
	if !looksLikeHTML(body) {
		return normalizeWhitespace(body), nil
	}

	text, err := html2text.FromString(body, html2text.Options{
		TextOnly: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML body: %w", err)
	}
	return normalizeWhitespace(text), nil
}

func looksLikeHTML(body string) bool {
	lower := strings.ToLower(body)
	for _, marker := range []string{"<html", "<body", "<div", "<p", "<br", "<table", "<span", "&nbsp;"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// normalizeWhitespace collapses runs of blank lines and trims each line so
// downstream regex extraction sees consistent separators.
func normalizeWhitespace(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
