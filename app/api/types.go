package api

import (
	"github.com/cambee/cambee-server/app/crawler"
	"github.com/cambee/cambee-server/app/database"
	"github.com/cambee/cambee-server/app/sources"
	"github.com/cambee/cambee-server/app/tasks"
)

type Handler struct {
	noticeRepo database.NoticeRepository
	srcs       *sources.Cache
	scheduler  tasks.SchedulerInterface
	db         database.SessionFactory
	fetcher    *crawler.Fetcher
	listings   *crawler.ListingExtractor
	details    *crawler.DetailExtractor
	content    *crawler.ContentExtractor
}

type RunRequest struct {
	ListURL string `json:"list_url" binding:"required,url"`
	Limit   int    `json:"limit"`
}

type PreviewRequest struct {
	ListURL     string `json:"list_url" binding:"required,url"`
	Take        int    `json:"take"`
	DetailIndex int    `json:"detail_index"`
}

type PreviewResponse struct {
	Count        int                   `json:"count"`
	Items        []crawler.ListItem    `json:"items"`
	SampleDetail *crawler.DetailRecord `json:"sample_detail"`
}
