package crawler

import (
	"testing"
)

const tableListingHTML = `<!DOCTYPE html>
<html>
<head><title>공지사항</title></head>
<body>
<table class="board">
<thead><tr><th>분류</th><th>제목</th><th>작성일</th></tr></thead>
<tbody>
<tr>
  <td>장학</td>
  <td><a href="/notice/view?id=101">2026학년도 교내 근로 신청 안내</a></td>
  <td>2025.08.12</td>
</tr>
<tr>
  <td>학사</td>
  <td><a href="/notice/view?id=102">수강신청 일정 변경 안내</a></td>
  <td>2025.08.10</td>
</tr>
<tr>
  <td></td>
  <td><a href="/notice/view?id=103">도서관 휴관 안내</a></td>
  <td>2025-08-08</td>
</tr>
</tbody>
</table>
</body>
</html>`

func TestListingExtractorTable(t *testing.T) {
	extractor := NewListingExtractor()
	items := extractor.Run(tableListingHTML, "https://www.ewha.ac.kr/ewha/news/notice.do")

	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}

	first := items[0]
	if first.Title != "2026학년도 교내 근로 신청 안내" {
		t.Errorf("Expected first row title, got %q", first.Title)
	}
	if first.Link != "https://www.ewha.ac.kr/notice/view?id=101" {
		t.Errorf("Expected resolved absolute link, got %q", first.Link)
	}
	if first.Category != "장학" {
		t.Errorf("Expected category '장학', got %q", first.Category)
	}
	if first.PostedAt == nil {
		t.Fatal("Expected posted date, got nil")
	}
	if first.PostedAt.Format("2006-01-02") != "2025-08-12" {
		t.Errorf("Expected date 2025-08-12, got %s", first.PostedAt.Format("2006-01-02"))
	}

	if items[2].Category != "" {
		t.Errorf("Expected empty category for third item, got %q", items[2].Category)
	}
}

func TestListingExtractorTableDateCellNotCategory(t *testing.T) {
	// A date-bearing cell must never double as the category, even when
	// no other candidate exists.
	html := `<table><tbody>
<tr><td><a href="/n/1">공지사항 제목입니다</a></td><td>2025.08.12</td></tr>
</tbody></table>`

	extractor := NewListingExtractor()
	items := extractor.Run(html, "https://example.com/list")

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].Category != "" {
		t.Errorf("Expected no category, got %q", items[0].Category)
	}
	if items[0].PostedAt == nil {
		t.Error("Expected posted date, got nil")
	}
}

func TestListingExtractorTableWithoutTbody(t *testing.T) {
	html := `<table>
<tr><td><a href="/n/1">첫 번째 공지</a></td></tr>
<tr><td><a href="/n/2">두 번째 공지</a></td></tr>
</table>`

	extractor := NewListingExtractor()
	items := extractor.Run(html, "https://example.com/list")

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
}

func TestListingExtractorListFallback(t *testing.T) {
	html := `<!DOCTYPE html>
<html><body>
<ul class="notice-list">
<li>
  <span class="category">장학</span>
  <a href="/board/201">근로장학생 모집 공고</a>
  <span class="date">2025-08-11</span>
</li>
<li>
  <a href="/board/202">기숙사 입사 안내</a>
  <span class="date">2025-08-09</span>
</li>
</ul>
</body></html>`

	extractor := NewListingExtractor()
	items := extractor.Run(html, "https://dorm.ewha.ac.kr/board")

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].Title != "근로장학생 모집 공고" {
		t.Errorf("Expected title from anchor, got %q", items[0].Title)
	}
	if items[0].Link != "https://dorm.ewha.ac.kr/board/201" {
		t.Errorf("Expected resolved link, got %q", items[0].Link)
	}
	if items[0].Category != "장학" {
		t.Errorf("Expected category from class hint, got %q", items[0].Category)
	}
	if items[0].PostedAt == nil || items[0].PostedAt.Format("2006-01-02") != "2025-08-11" {
		t.Errorf("Expected date 2025-08-11, got %v", items[0].PostedAt)
	}
}

func TestListingExtractorListDateWithoutClassHint(t *testing.T) {
	html := `<ul>
<li><a href="/board/301">공지 제목</a> 2025.08.07 조회 152</li>
</ul>`

	extractor := NewListingExtractor()
	items := extractor.Run(html, "https://example.com/")

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].PostedAt == nil {
		t.Fatal("Expected date from row text, got nil")
	}
	if items[0].PostedAt.Format("2006-01-02") != "2025-08-07" {
		t.Errorf("Expected 2025-08-07, got %s", items[0].PostedAt.Format("2006-01-02"))
	}
}

func TestListingExtractorDedup(t *testing.T) {
	html := `<table><tbody>
<tr><td><a href="/n/1">중복 공지</a></td><td>2025.08.12</td></tr>
<tr><td><a href="/n/1">중복 공지 다시</a></td><td>2025.08.11</td></tr>
<tr><td><a href="/n/2">다른 공지</a></td></tr>
</tbody></table>`

	extractor := NewListingExtractor()
	items := extractor.Run(html, "https://example.com/list")

	if len(items) != 2 {
		t.Fatalf("Expected 2 items after dedup, got %d", len(items))
	}
	// First occurrence wins.
	if items[0].Title != "중복 공지" {
		t.Errorf("Expected first occurrence to win, got %q", items[0].Title)
	}
}

func TestListingExtractorSkipsRowsWithoutLinks(t *testing.T) {
	html := `<table><tbody>
<tr><td>링크 없는 행</td></tr>
<tr><td><a href="/n/1"></a></td></tr>
<tr><td><a href="/n/2">유효한 공지</a></td></tr>
</tbody></table>`

	extractor := NewListingExtractor()
	items := extractor.Run(html, "https://example.com/list")

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].Title != "유효한 공지" {
		t.Errorf("Expected valid item kept, got %q", items[0].Title)
	}
}

func TestListingExtractorFeed(t *testing.T) {
	rss := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>공지사항</title>
<link>https://example.com/notice</link>
<item>
  <title>RSS로 배포된 공지</title>
  <link>https://example.com/notice/401</link>
  <category>학사</category>
  <pubDate>Tue, 12 Aug 2025 09:00:00 +0900</pubDate>
</item>
<item>
  <title>두 번째 RSS 공지</title>
  <link>https://example.com/notice/402</link>
</item>
</channel>
</rss>`

	extractor := NewListingExtractor()
	items := extractor.Run(rss, "https://example.com/notice")

	if len(items) != 2 {
		t.Fatalf("Expected 2 items from feed, got %d", len(items))
	}
	if items[0].Title != "RSS로 배포된 공지" {
		t.Errorf("Expected feed title, got %q", items[0].Title)
	}
	if items[0].Category != "학사" {
		t.Errorf("Expected feed category, got %q", items[0].Category)
	}
	if items[0].PostedAt == nil {
		t.Error("Expected published date from feed, got nil")
	}
	if items[1].PostedAt != nil {
		t.Error("Expected nil date for item without pubDate")
	}
}

func TestListingExtractorFeedIgnoresHTML(t *testing.T) {
	// An HTML payload must fall through to the DOM strategies.
	extractor := NewListingExtractor()
	items := extractor.Run(tableListingHTML, "https://example.com/list")

	if len(items) != 3 {
		t.Fatalf("Expected table strategy to handle HTML, got %d items", len(items))
	}
}

func TestListingExtractorEmptyInput(t *testing.T) {
	extractor := NewListingExtractor()
	if items := extractor.Run("", "https://example.com/"); items != nil {
		t.Errorf("Expected nil for empty input, got %v", items)
	}
	if items := extractor.Run("<p>본문만 있는 페이지</p>", "https://example.com/"); items != nil {
		t.Errorf("Expected nil for page without listings, got %v", items)
	}
}
