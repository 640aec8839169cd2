package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cambee/cambee-server/app/crawler"
	"github.com/cambee/cambee-server/app/database"
	"github.com/cambee/cambee-server/app/sources"
	"github.com/cambee/cambee-server/app/tasks"
)

const (
	defaultRunLimit    = 30
	defaultPreviewTake = 5
	previewBodyLimit   = 2000
	defaultListLimit   = 30
)

func NewHandler(noticeRepo database.NoticeRepository, srcs *sources.Cache,
	scheduler tasks.SchedulerInterface, db database.SessionFactory,
	fetcher *crawler.Fetcher, listings *crawler.ListingExtractor,
	details *crawler.DetailExtractor, content *crawler.ContentExtractor) *Handler {
	return &Handler{
		noticeRepo: noticeRepo,
		srcs:       srcs,
		scheduler:  scheduler,
		db:         db,
		fetcher:    fetcher,
		listings:   listings,
		details:    details,
		content:    content,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"sources":   h.srcs.Count(),
	}

	if count, err := h.noticeRepo.GetNoticeCount(); err == nil {
		health["notices"] = count
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetScheduleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.scheduler.Status())
}

// RunCrawl triggers a synchronous crawl of one listing URL, bypassing
// the schedule.
func (h *Handler) RunCrawl(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit <= 0 {
		req.Limit = defaultRunLimit
	}

	session, err := h.db.BeginSession()
	if err != nil {
		slog.Error("Database error", "operation", "begin_session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer session.Close()

	task := tasks.NewCrawlSeedTask(req.ListURL, req.Limit, false,
		h.fetcher, h.listings, h.details, h.content, session)
	task.Start()

	result, err := task.Execute(c.Request.Context())
	if err != nil {
		slog.Error("Manual crawl failed", "url", req.ListURL, "error", err)

		status := http.StatusInternalServerError
		var fetchErr *crawler.FetchError
		if errors.As(err, &fetchErr) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// PreviewCrawl runs extraction only, without persistence, and returns
// the parsed items plus one sample detail page.
func (h *Handler) PreviewCrawl(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Take <= 0 {
		req.Take = defaultPreviewTake
	}

	html, err := h.fetcher.Run(c.Request.Context(), req.ListURL, crawler.ListingTimeout)
	if err != nil {
		slog.Error("Preview listing fetch failed", "url", req.ListURL, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	items := h.listings.Run(html, req.ListURL)
	if len(items) > req.Take {
		items = items[:req.Take]
	}

	response := PreviewResponse{
		Count: len(items),
		Items: items,
	}

	if len(items) > 0 {
		idx := req.DetailIndex
		if idx < 0 {
			idx = 0
		}
		if idx > len(items)-1 {
			idx = len(items) - 1
		}

		detailHTML, err := h.fetcher.Run(c.Request.Context(), items[idx].Link, crawler.DetailTimeout)
		if err != nil {
			slog.Error("Preview detail fetch failed", "url", items[idx].Link, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		detail := h.details.Run(detailHTML, items[idx].Link)
		if runes := []rune(detail.Body); len(runes) > previewBodyLimit {
			detail.Body = string(runes[:previewBodyLimit])
		}
		response.SampleDetail = &detail
	}

	c.JSON(http.StatusOK, response)
}

// ListNotices returns the most recently posted stored notices.
func (h *Handler) ListNotices(c *gin.Context) {
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	notices, err := h.noticeRepo.GetRecent(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_notices", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if notices == nil {
		notices = []database.Notice{}
	}

	c.JSON(http.StatusOK, gin.H{
		"notices": notices,
		"total":   len(notices),
	})
}
