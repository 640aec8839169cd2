package crawler

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	readability "codeberg.org/readeck/go-readability"
)

// ContentExtractor runs readability over a notice page. It backs the
// per-source extract_content option for boards whose markup defeats
// the longest-block heuristic.
type ContentExtractor struct{}

func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

func (e *ContentExtractor) Run(html string, pageURL string) (string, error) {
	if html == "" {
		return "", fmt.Errorf("HTML data is empty")
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		u = nil
	}

	article, err := readability.FromReader(strings.NewReader(html), u)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := NormalizeText(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	slog.Debug("Content extracted successfully",
		"title", article.Title,
		"content_length", len(text))

	return text, nil
}
