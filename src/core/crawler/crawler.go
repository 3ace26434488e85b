// Package crawler fetches web pages for the corpus, subject to per-site
// robots policy and a minimum delay between fetches, and reduces HTML to
// plain text.
package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/temoto/robotstxt"
	"golang.org/x/net/html"

	"adminrag/src/core/rag"
	"adminrag/src/infrastructure/log"
)

const (
	DefaultUserAgent = "adminrag-crawler/1.0"
	DefaultDelay     = time.Second
)

// Outcome classifies the result of a single fetch. Denied and failed
// fetches are expected conditions, not errors: batches aggregate them into
// counts.
type Outcome string

const (
	OutcomeFetched Outcome = "fetched"
	OutcomeDenied  Outcome = "denied" // robots policy forbids the fetch
	OutcomeFailed  Outcome = "failed" // network failure, timeout or non-2xx
	OutcomeEmpty   Outcome = "empty"  // fetched but no visible text
)

// FetchResult is the outcome of fetching one URL.
type FetchResult struct {
	URL     string
	Text    string
	Outcome Outcome
	Err     error
}

// BatchReport counts the URLs of a batch that made it into the index.
type BatchReport struct {
	Succeeded int
	Total     int
}

// Indexer stores a fetched page in the corpus.
type Indexer interface {
	IndexDocument(ctx context.Context, doc rag.Document) (int, error)
}

// Crawler fetches pages sequentially with robots compliance and rate
// limiting. Not safe for concurrent use; crawl batches run one at a time.
type Crawler struct {
	httpClient *http.Client
	indexer    Indexer
	userAgent  string
	delay      time.Duration

	// injected clock so tests run without wall-clock delay
	sleep func(time.Duration)
	now   func() time.Time

	lastFetch time.Time
	robots    map[string]*robotstxt.RobotsData // keyed by scheme://host
}

type Option func(c *Crawler)

// WithUserAgent sets the identifying User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Crawler) {
		c.userAgent = ua
	}
}

// WithDelay sets the minimum delay between consecutive fetches in a batch.
func WithDelay(d time.Duration) Option {
	return func(c *Crawler) {
		c.delay = d
	}
}

// WithClock replaces the sleep and time functions.
func WithClock(sleep func(time.Duration), now func() time.Time) Option {
	return func(c *Crawler) {
		c.sleep = sleep
		c.now = now
	}
}

func NewCrawler(httpClient *http.Client, indexer Indexer, opts ...Option) *Crawler {
	c := &Crawler{
		httpClient: httpClient,
		indexer:    indexer,
		userAgent:  DefaultUserAgent,
		delay:      DefaultDelay,
		sleep:      time.Sleep,
		now:        time.Now,
		robots:     make(map[string]*robotstxt.RobotsData),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchText fetches one URL and extracts its visible text. The robots
// policy of the site is consulted first; an unreachable or unparsable
// robots.txt permits the fetch (fail-open, logged).
func (c *Crawler) FetchText(ctx context.Context, pageURL string) FetchResult {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return FetchResult{
			URL:     pageURL,
			Outcome: OutcomeFailed,
			Err:     fmt.Errorf("invalid URL %q: %v", pageURL, err),
		}
	}

	if !c.allowed(ctx, parsed) {
		log.Info("fetch denied by robots policy", "url", pageURL)
		return FetchResult{URL: pageURL, Outcome: OutcomeDenied}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return FetchResult{URL: pageURL, Outcome: OutcomeFailed, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error(err, "failed to fetch page", "url", pageURL)
		return FetchResult{URL: pageURL, Outcome: OutcomeFailed, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("unexpected status %s", resp.Status)
		log.Error(err, "failed to fetch page", "url", pageURL)
		return FetchResult{URL: pageURL, Outcome: OutcomeFailed, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Error(err, "failed to parse page", "url", pageURL)
		return FetchResult{URL: pageURL, Outcome: OutcomeFailed, Err: err}
	}

	text := ExtractText(doc)
	if text == "" {
		return FetchResult{URL: pageURL, Outcome: OutcomeEmpty}
	}

	return FetchResult{URL: pageURL, Text: text, Outcome: OutcomeFetched}
}

// allowed checks the wildcard agent rules of the site's robots.txt, cached
// per host for the lifetime of the crawler.
func (c *Crawler) allowed(ctx context.Context, pageURL *url.URL) bool {
	site := pageURL.Scheme + "://" + pageURL.Host

	data, ok := c.robots[site]
	if !ok {
		data = c.fetchRobots(ctx, site)
		c.robots[site] = data
	}

	if data == nil {
		// robots.txt unreachable or unparsable: permit, already logged
		return true
	}

	path := pageURL.Path
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, "*")
}

func (c *Crawler) fetchRobots(ctx context.Context, site string) *robotstxt.RobotsData {
	robotsURL := site + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		log.Error(err, "failed to build robots request", "url", robotsURL)
		return nil
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Info("robots.txt unreachable, permitting fetches", "site", site, "error", err.Error())
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		log.Info("robots.txt unparsable, permitting fetches", "site", site, "error", err.Error())
		return nil
	}

	return data
}

// CrawlBatch fetches the URLs sequentially, indexing each successfully
// fetched page independently. Denied or failed URLs are skipped and never
// reach the index; they do not stop the batch. The report counts pages
// that were fetched and indexed out of the total.
func (c *Crawler) CrawlBatch(ctx context.Context, urls []string) (BatchReport, error) {
	report := BatchReport{Total: len(urls)}

	for i, pageURL := range urls {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		c.waitTurn()
		log.Info("crawling", "url", pageURL, "position", fmt.Sprintf("%d/%d", i+1, len(urls)))

		result := c.FetchText(ctx, pageURL)
		if result.Outcome != OutcomeFetched {
			log.Info("page skipped", "url", pageURL, "outcome", string(result.Outcome))
			continue
		}

		doc := rag.Document{
			Name:  pageURL,
			Text:  result.Text,
			Media: rag.MediaWeb,
		}

		chunks, err := c.indexer.IndexDocument(ctx, doc)
		if err != nil {
			log.Error(err, "failed to index page", "url", pageURL)
			continue
		}

		log.Info("page indexed", "url", pageURL, "chunks", chunks)
		report.Succeeded++
	}

	log.Info("crawl batch finished", "succeeded", report.Succeeded, "total", report.Total)
	return report, nil
}

// waitTurn enforces the minimum delay since the previous fetch.
func (c *Crawler) waitTurn() {
	if c.delay <= 0 {
		return
	}
	if !c.lastFetch.IsZero() {
		if wait := c.delay - c.now().Sub(c.lastFetch); wait > 0 {
			c.sleep(wait)
		}
	}
	c.lastFetch = c.now()
}

// ExtractText reduces a parsed page to visible text: script and style
// content removed, one non-empty line per logical line, whitespace
// collapsed.
func ExtractText(doc *goquery.Document) string {
	doc.Find("script, style, noscript").Remove()

	var lines []string
	for _, node := range doc.Nodes {
		collectText(node, &lines)
	}

	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if fields := strings.Fields(line); len(fields) > 0 {
			cleaned = append(cleaned, strings.Join(fields, " "))
		}
	}

	return strings.Join(cleaned, "\n")
}

func collectText(n *html.Node, lines *[]string) {
	if n.Type == html.TextNode {
		*lines = append(*lines, n.Data)
		return
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "head":
			return
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, lines)
	}
}

// ReadURLFile reads a URL list file: one URL per line, blank lines ignored.
func ReadURLFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read URL file: %w", err)
	}

	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			urls = append(urls, line)
		}
	}

	return urls, nil
}
