package crawler

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

var (
	fourDigitRe = regexp.MustCompile(`\d{4}`)
	dateClassRe = regexp.MustCompile(`(?i)(date|time)`)
	catClassRe  = regexp.MustCompile(`(?i)(cat|category|label|tag)`)
)

// listingPage is the shared input of all listing strategies. The
// goquery document is parsed lazily so the feed strategy can reject
// XML payloads without an HTML parse.
type listingPage struct {
	raw    string
	base   *url.URL
	doc    *goquery.Document
	docErr bool
}

func (p *listingPage) document() *goquery.Document {
	if p.doc == nil && !p.docErr {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.raw))
		if err != nil {
			p.docErr = true
			return nil
		}
		p.doc = doc
	}
	return p.doc
}

// listingStrategy extracts candidate items from a listing page.
// Strategies are tried in order; the first non-empty result wins.
type listingStrategy interface {
	Name() string
	Extract(page *listingPage) []ListItem
}

type ListingExtractor struct {
	strategies []listingStrategy
}

func NewListingExtractor() *ListingExtractor {
	return &ListingExtractor{
		strategies: []listingStrategy{
			&feedStrategy{parser: gofeed.NewParser()},
			&tableStrategy{},
			&listStrategy{},
		},
	}
}

// Run parses a listing page into an ordered, deduplicated sequence of
// candidate items. Items lacking a title or link are dropped; items
// sharing a link collapse to the first occurrence.
func (e *ListingExtractor) Run(body string, baseURL string) []ListItem {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}
	page := &listingPage{raw: body, base: base}

	for _, strategy := range e.strategies {
		if items := strategy.Extract(page); len(items) > 0 {
			return dedupItems(items)
		}
	}
	return nil
}

func dedupItems(items []ListItem) []ListItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]ListItem, 0, len(items))
	for _, item := range items {
		if item.Title == "" || item.Link == "" {
			continue
		}
		if _, ok := seen[item.Link]; ok {
			continue
		}
		seen[item.Link] = struct{}{}
		out = append(out, item)
	}
	return out
}

// feedStrategy handles boards that expose an RSS/Atom mirror of the
// listing. HTML payloads pass through untouched.
type feedStrategy struct {
	parser *gofeed.Parser
}

func (s *feedStrategy) Name() string { return "feed" }

func (s *feedStrategy) Extract(page *listingPage) []ListItem {
	head := strings.ToLower(strings.TrimSpace(page.raw))
	if len(head) > 512 {
		head = head[:512]
	}
	if !strings.HasPrefix(head, "<?xml") && !strings.Contains(head, "<rss") && !strings.Contains(head, "<feed") {
		return nil
	}

	feed, err := s.parser.ParseString(page.raw)
	if err != nil {
		return nil
	}

	items := make([]ListItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		item := ListItem{
			Title: NormalizeText(entry.Title),
			Link:  resolveURL(page.base, entry.Link),
		}
		if entry.PublishedParsed != nil {
			item.PostedAt = entry.PublishedParsed
		}
		if len(entry.Categories) > 0 {
			item.Category = NormalizeText(entry.Categories[0])
		}
		items = append(items, item)
	}
	return items
}

// tableStrategy handles <table> layouts: one notice per body row, the
// first anchor carries title and link, the remaining cells are scanned
// for a posted date and a category.
type tableStrategy struct{}

func (s *tableStrategy) Name() string { return "table" }

func (s *tableStrategy) Extract(page *listingPage) []ListItem {
	doc := page.document()
	if doc == nil {
		return nil
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil
	}

	rows := table.Find("tbody tr")
	if rows.Length() == 0 {
		rows = table.Find("tr")
	}

	var items []ListItem
	rows.Each(func(_ int, row *goquery.Selection) {
		anchor := row.Find("a[href]").First()
		if anchor.Length() == 0 {
			return
		}
		href, _ := anchor.Attr("href")

		item := ListItem{
			Title: NormalizeText(anchor.Text()),
			Link:  resolveURL(page.base, href),
		}

		cells := row.Find("td")

		// Date candidate: scan cells right-to-left for a year token.
		dateCell := -1
		for i := cells.Length() - 1; i >= 0; i-- {
			text := NormalizeText(cells.Eq(i).Text())
			if !yearTokenRe.MatchString(text) {
				continue
			}
			if d := ParseFlexibleDate(text); d != nil {
				item.PostedAt = d
				dateCell = i
				break
			}
		}

		// Category candidate: a short non-numeric cell, left-to-right,
		// that is neither part of the title nor the claimed date cell.
		for i := 0; i < cells.Length(); i++ {
			if i == dateCell {
				continue
			}
			text := NormalizeText(cells.Eq(i).Text())
			if text == "" || fourDigitRe.MatchString(text) {
				continue
			}
			if n := utf8.RuneCountInString(text); n < 1 || n > 6 {
				continue
			}
			if strings.Contains(item.Title, text) {
				continue
			}
			item.Category = text
			break
		}

		items = append(items, item)
	})
	return items
}

// listStrategy handles <ul><li> layouts, used only when no table
// yields items.
type listStrategy struct{}

func (s *listStrategy) Name() string { return "list" }

func (s *listStrategy) Extract(page *listingPage) []ListItem {
	doc := page.document()
	if doc == nil {
		return nil
	}

	var items []ListItem
	doc.Find("ul").Each(func(_ int, ul *goquery.Selection) {
		ul.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			anchor := li.Find("a[href]").First()
			if anchor.Length() == 0 {
				return
			}
			href, _ := anchor.Attr("href")

			item := ListItem{
				Title: NormalizeText(anchor.Text()),
				Link:  resolveURL(page.base, href),
			}

			if node := findByClassHint(li, dateClassRe); node != nil {
				item.PostedAt = ParseFlexibleDate(node.Text())
			}
			if node := findByClassHint(li, catClassRe); node != nil {
				item.Category = NormalizeText(node.Text())
			}

			// No class hint matched: scan the row text for a
			// YYYY[./-]M[./-]D shaped substring.
			if item.PostedAt == nil {
				blob := NormalizeText(li.Text())
				if m := numericDateRe.FindString(blob); m != "" {
					item.PostedAt = ParseFlexibleDate(m)
				}
			}

			items = append(items, item)
		})
	})
	return items
}

// findByClassHint returns the first descendant whose class attribute
// matches the given hint pattern.
func findByClassHint(s *goquery.Selection, hint *regexp.Regexp) *goquery.Selection {
	var found *goquery.Selection
	s.Find("[class]").EachWithBreak(func(_ int, node *goquery.Selection) bool {
		class, _ := node.Attr("class")
		if hint.MatchString(class) {
			found = node
			return false
		}
		return true
	})
	return found
}
