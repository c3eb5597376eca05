package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"otodom_scraper/cache"
	"otodom_scraper/models"
)

// BuildURL constructs a search-result page URL:
//
//	{base}/pl/oferty/{main}/{detail}/{region-path}[/{buildingType}][/q-{slug}]?limit=N&page=M&filters...
//
// Region district/street ids are injected as extra filter parameters.
// The result is deterministic for identical inputs, which keeps the
// response cache effective.
func BuildURL(base, mainCategory, detailCategory string, region models.Region, pageSize, page int, filters Filters) string {
	filters = filters.clone()
	if region.DistrictID != 0 {
		filters["districtId"] = region.DistrictID
	}
	if region.StreetID != 0 {
		filters["streetId"] = region.StreetID
	}

	segments := []string{base, "pl", "oferty", mainCategory}
	if detailCategory != "" {
		segments = append(segments, detailCategory)
	}
	if region.PathID != "" {
		segments = append(segments, region.PathID)
	}
	u := strings.Join(segments, "/")

	u += pathSuffix(filters)

	u = fmt.Sprintf("%s?limit=%d&page=%d", u, pageSize, page)
	if encoded := filters.Encode(); encoded != "" {
		u += "&" + encoded
	}
	return u
}

// pathSuffix renders the optional building-type and description-search
// path segments. Both keys stay in the query string as well, matching
// the site's own URLs.
func pathSuffix(filters Filters) string {
	var suffix string
	if bt := filters.String("building_type"); bt != "" {
		suffix += "/" + bt
	}
	if desc := filters.String("description_fragment"); desc != "" {
		suffix += "/q-" + strings.Join(strings.Fields(desc), "-")
	}
	return suffix
}

// jsonIdentifier resolves the _next build identifier by fetching a
// one-offer page and reading the buildManifest script path. The site
// rotates the identifier on every deploy, so the lookup is cached per
// category/region combination.
func (c *Client) jsonIdentifier(ctx context.Context, mainCategory, detailCategory string, region models.Region, filters Filters) string {
	key := cache.Key("jsonIdentifier", mainCategory, detailCategory, region.PathID, filters.Encode())
	val, err := c.cache.GetOrCompute(key, func() ([]byte, error) {
		probe := BuildURL(c.baseURL, mainCategory, detailCategory, region, 1, 1, filters)
		resp, err := c.fetcher.Get(ctx, probe)
		if err != nil {
			return nil, err
		}
		return []byte(buildManifestID(resp.Body)), nil
	})
	if err != nil {
		log.Printf("Warning: build identifier lookup failed: %v", err)
		return ""
	}
	return string(val)
}

// buildManifestID extracts the versioning token from a script src like
// /_next/static/{id}/_buildManifest.js; "" when not present.
func buildManifestID(markup []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return ""
	}

	var id string
	doc.Find("script[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		if !strings.Contains(src, "buildManifest.js") {
			return true
		}
		parts := strings.Split(src, "/")
		if len(parts) >= 2 {
			id = parts[len(parts)-2]
		}
		return false
	})
	return id
}

// BuildJSONURL constructs the equivalent _next/data endpoint URL for a
// search, or "" when the build identifier cannot be located.
func (c *Client) BuildJSONURL(ctx context.Context, mainCategory, detailCategory string, region models.Region, pageSize, page int, filters Filters) string {
	identifier := c.jsonIdentifier(ctx, mainCategory, detailCategory, region, filters)
	if identifier == "" {
		return ""
	}

	filters = filters.clone()
	if region.DistrictID != 0 {
		filters["districtId"] = region.DistrictID
	}
	if region.StreetID != 0 {
		filters["streetId"] = region.StreetID
	}

	segments := []string{c.baseURL, "_next", "data", identifier, "pl", "oferty", mainCategory}
	if detailCategory != "" {
		segments = append(segments, detailCategory)
	}
	segments = append(segments, region.PathID+".json")
	u := strings.Join(segments, "/")

	u += pathSuffix(filters)

	u = fmt.Sprintf("%s?limit=%d&page=%d", u, pageSize, page)
	if encoded := filters.Encode(); encoded != "" {
		u += "&" + encoded
	}
	return u
}

// offerDetailURL builds the canonical detail link for a slug.
func offerDetailURL(base, slug string) string {
	return strings.Join([]string{base, "pl", "oferta", slug}, "/")
}

// offerIDFromSlug returns the trailing numeric segment of a URL slug,
// e.g. "mieszkanie-gdansk-ID4abc" -> "ID4abc".
func offerIDFromSlug(slug string) string {
	idx := strings.LastIndex(slug, "-")
	if idx < 0 {
		return slug
	}
	return slug[idx+1:]
}
