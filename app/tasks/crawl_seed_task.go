package tasks

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"

	"github.com/cambee/cambee-server/app/crawler"
	"github.com/cambee/cambee-server/app/database"
)

// RunResult aggregates one crawl run over a single seed listing.
type RunResult struct {
	Found            int `json:"found"`
	Inserted         int `json:"inserted"`
	UpdatedOrSkipped int `json:"updated_or_skipped"`
	Errors           int `json:"errors"`
}

// CrawlSeedTask crawls one seed listing: fetch the list, then for each
// item fetch its detail page, merge, fingerprint and upsert. Item
// failures are isolated; only the listing fetch and the final raw-log
// write/commit fail the whole run.
type CrawlSeedTask struct {
	Task
	Limit          int
	ExtractContent bool
	fetcher        *crawler.Fetcher
	listings       *crawler.ListingExtractor
	details        *crawler.DetailExtractor
	content        *crawler.ContentExtractor
	session        database.Session
}

func NewCrawlSeedTask(seedURL string, limit int, extractContent bool,
	fetcher *crawler.Fetcher, listings *crawler.ListingExtractor,
	details *crawler.DetailExtractor, content *crawler.ContentExtractor,
	session database.Session) *CrawlSeedTask {
	return &CrawlSeedTask{
		Task:           NewTask(TaskTypeCrawlSeed, seedURL),
		Limit:          limit,
		ExtractContent: extractContent,
		fetcher:        fetcher,
		listings:       listings,
		details:        details,
		content:        content,
		session:        session,
	}
}

func (t *CrawlSeedTask) Execute(ctx context.Context) (RunResult, error) {

	select {
	case <-ctx.Done():
		return RunResult{}, ctx.Err()
	default:
	}

	html, err := t.fetcher.Run(ctx, t.SeedURL, crawler.ListingTimeout)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to fetch listing: %w", err)
	}

	items := t.listings.Run(html, t.SeedURL)
	if t.Limit > 0 && len(items) > t.Limit {
		items = items[:t.Limit]
	}

	result := RunResult{Found: len(items)}
	rawLogs := make([]database.RawLogEntry, 0, len(items))

	for _, item := range items {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		upsert, err := t.processItem(ctx, item)
		if err != nil {
			slog.Error("Item processing failed", "seed", t.SeedURL, "url", item.Link, "error", err)
			result.Errors++
			rawLogs = append(rawLogs, database.RawLogEntry{
				URL:    item.Link,
				Status: "error",
				Error:  err.Error(),
			})
			continue
		}

		if upsert == database.UpsertInserted {
			result.Inserted++
		} else {
			result.UpdatedOrSkipped++
		}
		rawLogs = append(rawLogs, database.RawLogEntry{URL: item.Link, Status: "ok"})
	}

	if _, err := t.session.RawLogs().Append(rawLogs); err != nil {
		return result, fmt.Errorf("failed to append raw fetch log: %w", err)
	}
	if err := t.session.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit crawl run: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"seed", t.SeedURL,
		"duration", t.GetDuration(),
		"found", result.Found,
		"inserted", result.Inserted,
		"updated_or_skipped", result.UpdatedOrSkipped,
		"errors", result.Errors)

	return result, nil
}

func (t *CrawlSeedTask) processItem(ctx context.Context, item crawler.ListItem) (database.UpsertResult, error) {
	html, err := t.fetcher.Run(ctx, item.Link, crawler.DetailTimeout)
	if err != nil {
		return 0, err
	}

	detail := t.details.Run(html, item.Link)
	if detail.Body == "" && t.ExtractContent && t.content != nil {
		if text, err := t.content.Run(html, item.Link); err == nil {
			detail.Body = text
		}
	}

	// Detail values win; list values fill the gaps.
	title := cmp.Or(detail.Title, item.Title)
	postedAt := detail.PostedAt
	if postedAt == nil {
		postedAt = item.PostedAt
	}

	notice := database.Notice{
		URL:      item.Link,
		URLKey:   crawler.URLKey(item.Link),
		Title:    title,
		Body:     detail.Body,
		Category: item.Category,
		PostedAt: postedAt,
		Checksum: crawler.Checksum(title, detail.Body),
	}

	return t.session.Notices().Upsert(notice)
}
