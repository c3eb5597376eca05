package scraper

import (
	"bytes"
	"encoding/json"
	"log"

	"github.com/PuerkitoBio/goquery"

	"otodom_scraper/models"
)

// ParseListings extracts all offers from one search-result page. The
// page may carry two listing containers (promoted plus organic); the
// organic one is used unless includePromoted is set, in which case the
// whole page is scanned. No containers means no offers, not an error.
func ParseListings(base string, markup []byte, includePromoted bool) []models.Offer {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		log.Printf("Warning: unparseable page markup: %v", err)
		return []models.Offer{}
	}

	containers := doc.Find(`div[data-cy="search.listing"]`)

	var scope *goquery.Selection
	switch {
	case containers.Length() > 1:
		if includePromoted {
			scope = doc.Selection
		} else {
			scope = containers.Eq(1)
		}
	case containers.Length() == 1:
		scope = containers.Eq(0)
	default:
		return []models.Offer{}
	}

	offers := []models.Offer{}
	scope.Find(`a[data-cy="listing-item-link"]`).Each(func(i int, s *goquery.Selection) {
		offers = append(offers, extractOne(base, i, s))
	})
	return offers
}

// extractOne isolates a single fragment's extraction so one broken
// item never aborts the batch.
func extractOne(base string, index int, s *goquery.Selection) (offer models.Offer) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Warning: skipping malformed offer fragment %d: %v", index, r)
			offer = models.Offer{}
		}
	}()

	fragment, err := goquery.OuterHtml(s)
	if err != nil {
		log.Printf("Warning: cannot render offer fragment %d: %v", index, err)
		return models.Offer{}
	}
	return ExtractorFor(base, []byte(fragment)).Extract([]byte(fragment))
}

// WasSearchSuccessful reports whether the page carries results. A
// no-results marker is a definitive stop signal for pagination, not a
// transient error.
func WasSearchSuccessful(markup []byte) bool {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return false
	}
	return doc.Find(`div[data-cy="no-search-results"]`).Length() == 0
}

// PageCount returns the number of result pages. Only buttons inside
// the pagination container are scanned; an unrelated numeric button
// elsewhere on the page must not inflate the count. Defaults to 1.
func PageCount(markup []byte) int {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return 1
	}

	nav := doc.Find(`[data-cy="pagination"]`)
	if nav.Length() == 0 {
		return 1
	}

	maxPage := 1
	nav.Find("button").Each(func(_ int, s *goquery.Selection) {
		if n := digitsToInt(s.Text()); n > maxPage {
			maxPage = n
		}
	})
	return maxPage
}

// TotalOffersFromMarkup reads the authoritative ads-number label used
// for limit clamping; 0 when the label is missing or non-numeric.
func TotalOffersFromMarkup(markup []byte) int {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return 0
	}

	label := doc.Find(`strong[data-cy="search.listing-panel.label.ads-number"]`)
	if label.Length() == 0 {
		return 0
	}
	return digitsToInt(label.Find("span").Last().Text())
}

type jsonSearchPage struct {
	PageProps struct {
		Data struct {
			SearchAds struct {
				Items      []json.RawMessage `json:"items"`
				TotalCount int               `json:"totalCount"`
			} `json:"searchAds"`
		} `json:"data"`
	} `json:"pageProps"`
}

// ParseJSONListings extracts offers from a _next/data search response.
// The total reported by the endpoint is returned alongside the items.
func ParseJSONListings(base string, body []byte) ([]models.Offer, int) {
	var page jsonSearchPage
	if err := json.Unmarshal(body, &page); err != nil {
		log.Printf("Warning: unparseable search data response: %v", err)
		return []models.Offer{}, 0
	}

	items := page.PageProps.Data.SearchAds.Items
	offers := make([]models.Offer, 0, len(items))
	for _, item := range items {
		offers = append(offers, JSONDirect{Base: base}.Extract(item))
	}
	return offers, page.PageProps.Data.SearchAds.TotalCount
}
