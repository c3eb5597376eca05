package scraper

import (
	"context"
	"fmt"
	"log"
	"time"

	"otodom_scraper/cache"
	"otodom_scraper/httputil"
	"otodom_scraper/models"
)

const (
	// DefaultBaseURL is the production site root.
	DefaultBaseURL = "https://www.otodom.pl"
	// DefaultPageSize matches the site's default result page.
	DefaultPageSize = 24
	// HardCap bounds total offers per scrape against runaway
	// pagination, whatever the site claims to have.
	HardCap = 12000
)

// Options configures a scraper client. Zero values fall back to the
// package defaults.
type Options struct {
	BaseURL  string
	PageSize int
	HardCap  int
	// Delay is the pause between page fetches.
	Delay time.Duration
}

// Client drives the fetch/parse loop over search-result pages. One
// client is safe for a single caller; concurrent scrapes should each
// get their own client and may share the cache.
type Client struct {
	baseURL  string
	fetcher  httputil.Fetcher
	cache    cache.Cache
	resolver *RegionResolver
	pageSize int
	hardCap  int
	delay    time.Duration
}

func New(fetcher httputil.Fetcher, c cache.Cache, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.PageSize == 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.HardCap == 0 {
		opts.HardCap = HardCap
	}
	if c == nil {
		c = cache.NewMemoryCache()
	}

	return &Client{
		baseURL:  opts.BaseURL,
		fetcher:  fetcher,
		cache:    c,
		resolver: NewRegionResolver(opts.BaseURL, fetcher, c),
		pageSize: opts.PageSize,
		hardCap:  opts.HardCap,
		delay:    opts.Delay,
	}
}

// BaseURL returns the configured site root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Resolver exposes the region resolver for callers that want to
// inspect a resolution without scraping.
func (c *Client) Resolver() *RegionResolver {
	return c.resolver
}

// fetch performs a cached GET keyed by the URL; identical URLs within
// a run hit the network once.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	return c.cache.GetOrCompute(cache.Key("fetch", url), func() ([]byte, error) {
		resp, err := c.fetcher.Get(ctx, url)
		if err != nil {
			return nil, err
		}
		if !resp.OK() {
			return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
		}
		return resp.Body, nil
	})
}

// effectiveLimit clamps the requested limit to min(hard cap, what the
// site reports). A failed count (-1) falls back to the hard cap alone.
func (c *Client) effectiveLimit(requested, reportedTotal int) int {
	maxOffers := c.hardCap
	if reportedTotal >= 0 && reportedTotal < maxOffers {
		maxOffers = reportedTotal
	}
	if requested > 0 && requested < maxOffers {
		return requested
	}
	return maxOffers
}

// ScrapeCategory fetches search results page by page until the limit
// is reached or a short page signals the end. A no-results page stops
// the whole scrape and yields an empty list; the same conservative
// policy covers blocked searches. The returned slice may overshoot
// the limit by part of the last page; callers truncate if they care.
func (c *Client) ScrapeCategory(ctx context.Context, mainCategory, detailCategory, regionText string, pageSize, limit int, filters Filters) ([]models.Offer, error) {
	if pageSize <= 0 {
		pageSize = c.pageSize
	}

	region := c.resolver.Resolve(ctx, regionText, filters)
	total := c.CountOffers(ctx, mainCategory, detailCategory, region, filters)
	effectiveLimit := c.effectiveLimit(limit, total)

	offers := []models.Offer{}
	for page := 1; ; page++ {
		url := BuildURL(c.baseURL, mainCategory, detailCategory, region, pageSize, page, filters)

		body, err := c.fetch(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		if !WasSearchSuccessful(body) {
			log.Printf("Warning: search reported no results at %s", url)
			return []models.Offer{}, nil
		}

		pageOffers := ParseListings(c.baseURL, body, false)
		offers = append(offers, pageOffers...)
		log.Printf("Scrape: page %d: %d offers (total: %d)", page, len(pageOffers), len(offers))

		// A short page means end of results even under the limit.
		if len(offers) >= effectiveLimit || len(pageOffers) < pageSize {
			return offers, nil
		}

		if err := c.pause(ctx); err != nil {
			return offers, err
		}
	}
}

// ScrapeCategoryJSON is the _next/data variant of ScrapeCategory. It
// falls back to the HTML path when the build identifier cannot be
// resolved.
func (c *Client) ScrapeCategoryJSON(ctx context.Context, mainCategory, detailCategory, regionText string, pageSize, limit int, filters Filters) ([]models.Offer, error) {
	if pageSize <= 0 {
		pageSize = c.pageSize
	}

	region := c.resolver.Resolve(ctx, regionText, filters)

	probe := c.BuildJSONURL(ctx, mainCategory, detailCategory, region, pageSize, 1, filters)
	if probe == "" {
		log.Printf("Warning: no build identifier, falling back to markup scrape")
		return c.ScrapeCategory(ctx, mainCategory, detailCategory, regionText, pageSize, limit, filters)
	}

	effectiveLimit := c.effectiveLimit(limit, -1)
	offers := []models.Offer{}
	for page := 1; ; page++ {
		url := c.BuildJSONURL(ctx, mainCategory, detailCategory, region, pageSize, page, filters)

		body, err := c.fetch(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("data page %d: %w", page, err)
		}

		pageOffers, reported := ParseJSONListings(c.baseURL, body)
		offers = append(offers, pageOffers...)
		log.Printf("Scrape: data page %d: %d offers (total: %d)", page, len(pageOffers), len(offers))

		if page == 1 && reported > 0 {
			effectiveLimit = c.effectiveLimit(limit, reported)
		}

		if len(offers) >= effectiveLimit || len(pageOffers) < pageSize {
			return offers, nil
		}

		if err := c.pause(ctx); err != nil {
			return offers, err
		}
	}
}

func (c *Client) pause(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(c.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
