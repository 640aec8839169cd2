package crawler

import (
	"strings"
	"testing"
)

func TestContentExtractorRun(t *testing.T) {
	html := `<!DOCTYPE html>
<html>
<head><title>장학금 신청 안내</title></head>
<body>
<nav>메뉴 / 홈 / 공지사항</nav>
<article>
<h1>2026학년도 장학금 신청 안내</h1>
<p>2026학년도 1학기 교내 장학금 신청을 다음과 같이 안내합니다.
신청 대상은 직전 학기 12학점 이상 이수한 재학생입니다.</p>
<p>신청 기간은 2025년 9월 1일부터 9월 12일까지이며,
학교 포털에서 온라인으로 접수합니다. 기간 외 접수는 받지 않습니다.</p>
<p>심사 결과는 10월 중 개별 통보되며, 서류 미비 시 탈락 처리될 수 있으니
제출 전에 반드시 확인하시기 바랍니다.</p>
</article>
<footer>Copyright 2025</footer>
</body>
</html>`

	extractor := NewContentExtractor()
	text, err := extractor.Run(html, "https://www.ewha.ac.kr/notice/view?id=1")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(text, "교내 장학금 신청") {
		t.Errorf("Expected article text extracted, got %q", text)
	}
}

func TestContentExtractorEmptyInput(t *testing.T) {
	extractor := NewContentExtractor()
	if _, err := extractor.Run("", "https://example.com/"); err == nil {
		t.Error("Expected error for empty input, got nil")
	}
}
