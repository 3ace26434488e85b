package job

import (
	"context"
	"encoding/json"
	"fmt"

	"adminrag/src/core/crawler"
	"adminrag/src/infrastructure/log"
)

// CrawlTask executes a crawl job: fetch, chunk and index every URL of the
// payload. Per-URL failures are absorbed by the batch; the task only fails
// on a malformed payload or an empty URL list.
type CrawlTask struct {
	crawler *crawler.Crawler
}

func NewCrawlTask(c *crawler.Crawler) *CrawlTask {
	return &CrawlTask{crawler: c}
}

func (t *CrawlTask) HandleCrawlTask(ctx context.Context, payload json.RawMessage) error {
	var p CrawlPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("failed to unmarshal crawl payload: %w", err)
	}
	if len(p.URLs) == 0 {
		return fmt.Errorf("crawl payload has no URLs")
	}

	report, err := t.crawler.CrawlBatch(ctx, p.URLs)
	if err != nil {
		return fmt.Errorf("crawl batch aborted: %w", err)
	}

	log.Info("crawl job finished", "succeeded", report.Succeeded, "total", report.Total)
	return nil
}
