package crawler

import (
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const attachmentNameLimit = 120

var (
	detailDateClassRe = regexp.MustCompile(`(?i)(date|time|posted|reg)`)
	attachmentHrefRe  = regexp.MustCompile(`(?i)(\.(pdf|hwp|hwpx|docx?|pptx?|xlsx?)$)|download|attach`)
)

type DetailExtractor struct{}

func NewDetailExtractor() *DetailExtractor {
	return &DetailExtractor{}
}

// Run extracts title, body text, attachments and posted date from a
// single notice page. Extraction is best-effort: missing or unparsable
// fields come back empty, never as an error.
func (e *DetailExtractor) Run(html string, pageURL string) DetailRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return DetailRecord{}
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	doc.Find("script, style, noscript").Remove()

	record := DetailRecord{
		Title:    e.extractTitle(doc),
		Body:     e.extractBody(doc),
		PostedAt: e.extractPostedAt(doc),
	}
	record.Attachments = e.collectAttachments(doc, base)
	return record
}

// extractTitle starts from the document title and replaces it with the
// first h1/h2 when that heading looks like a real notice title.
func (e *DetailExtractor) extractTitle(doc *goquery.Document) string {
	title := NormalizeText(doc.Find("title").First().Text())

	heading := doc.Find("h1, h2").First()
	if heading.Length() > 0 {
		text := NormalizeText(heading.Text())
		if n := utf8.RuneCountInString(text); n >= 5 && n <= 200 {
			title = text
		}
	}
	return title
}

// extractBody picks the single article/main/section/div with the
// longest collapsed text; tag priority is irrelevant once sorted by
// length. Falls back to the whole document when no such block exists.
func (e *DetailExtractor) extractBody(doc *goquery.Document) string {
	blocks := doc.Find("article, main, section, div")
	if blocks.Length() == 0 {
		return NormalizeText(doc.Text())
	}

	var best string
	blocks.Each(func(_ int, block *goquery.Selection) {
		text := NormalizeText(block.Text())
		if len(text) > len(best) {
			best = text
		}
	})
	return best
}

func (e *DetailExtractor) extractPostedAt(doc *goquery.Document) *time.Time {
	if node := findByClassHint(doc.Selection, detailDateClassRe); node != nil {
		return ParseFlexibleDate(node.Text())
	}
	if m := numericDateRe.FindString(doc.Text()); m != "" {
		return ParseFlexibleDate(m)
	}
	return nil
}

// collectAttachments keeps anchors that look like document downloads,
// deduplicated by resolved href, first occurrence wins.
func (e *DetailExtractor) collectAttachments(doc *goquery.Document, base *url.URL) []Attachment {
	var files []Attachment
	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		if href == "" || !attachmentHrefRe.MatchString(href) {
			return
		}

		abs := resolveURL(base, href)
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}

		name := NormalizeText(anchor.Text())
		if name == "" {
			name = href
			if i := strings.LastIndex(href, "/"); i >= 0 {
				name = href[i+1:]
			}
		}

		files = append(files, Attachment{
			Name: truncateRunes(name, attachmentNameLimit),
			Href: abs,
		})
	})
	return files
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
