package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"otodom_scraper/cache"
	"otodom_scraper/models"
)

var csrfTokenRe = regexp.MustCompile(`csrfToken\s*=\s*\\?\s*'(\w+)`)

// monthsPL maps the first three letters of a Polish month name to its
// number.
var monthsPL = map[string]time.Month{
	"sty": time.January,
	"lut": time.February,
	"mar": time.March,
	"kwi": time.April,
	"maj": time.May,
	"cze": time.June,
	"lip": time.July,
	"sie": time.August,
	"wrz": time.September,
	"paź": time.October,
	"lis": time.November,
	"gru": time.December,
}

// OfferInformation fetches one offer page and enriches the record with
// the details the search results do not carry: description, apartment
// parameter list, assets, floor data and the poster's phone numbers.
func (c *Client) OfferInformation(ctx context.Context, detailURL string) (*models.OfferDetails, error) {
	resp, err := c.fetcher.Get(ctx, detailURL)
	if err != nil {
		return nil, fmt.Errorf("offer page %s: %w", detailURL, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("offer page %s: status %d", detailURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("offer page %s: %w", detailURL, err)
	}

	details := &models.OfferDetails{
		URL:              detailURL,
		Description:      offerDescription(doc),
		MetaDescription:  metaDescription(doc),
		Floor:            offerFloor(doc),
		TotalFloors:      offerTotalFloors(doc),
		ApartmentDetails: apartmentDetails(doc),
		Assets:           additionalAssets(doc),
	}

	if available, ok := details.ApartmentDetails["Dostępne od"]; ok {
		if ts := parseAvailableFrom(available); ts > 0 {
			details.AvailableFrom = ts
		}
	}

	offerID := offerIDFromSlug(strings.TrimSuffix(detailURL, "/"))
	cookie := cookieFrom(resp.Header.Get("Set-Cookie"))
	token := csrfToken(resp.Body)
	if cookie != "" && token != "" {
		phones, err := c.offerPhoneNumbers(ctx, offerID, cookie, token)
		if err != nil {
			log.Printf("Warning: phone lookup for %s failed: %v", offerID, err)
		} else {
			details.PhoneNumbers = phones
		}
	}

	return details, nil
}

// offerPhoneNumbers asks the contact endpoint for the poster's phone
// numbers; a 404 means the poster hid them.
func (c *Client) offerPhoneNumbers(ctx context.Context, offerID, cookie, token string) ([]string, error) {
	key := cache.Key("phones", offerID)
	body, err := c.cache.GetOrCompute(key, func() ([]byte, error) {
		url := fmt.Sprintf("%s/ajax/misc/contact/phone/%s/", c.baseURL, offerID)
		resp, err := c.fetcher.PostForm(ctx, url, "CSRFToken="+token, map[string]string{"Cookie": cookie})
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == 404 {
			return []byte(`{"value":[]}`), nil
		}
		if !resp.OK() {
			return nil, fmt.Errorf("contact endpoint status %d", resp.StatusCode)
		}
		return resp.Body, nil
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Value []string `json:"value"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("contact response: %w", err)
	}
	return parsed.Value, nil
}

func offerDescription(doc *goquery.Document) string {
	for _, selector := range []string{`[data-cy="adPageAdDescription"]`, `[itemprop="description"]`, ".description"} {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func metaDescription(doc *goquery.Document) string {
	content, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	return content
}

// offerFloor returns the floor number; the ground floor ("parter")
// maps to "0".
func offerFloor(doc *goquery.Document) string {
	floor := strings.TrimSpace(doc.Find(".param_floor_no strong").First().Text())
	if floor == "parter" {
		return "0"
	}
	return floor
}

var totalFloorsRe = regexp.MustCompile(`\w+\s(\d+)`)

func offerTotalFloors(doc *goquery.Document) string {
	span := doc.Find(".param_floor_no span").First().Text()
	if match := totalFloorsRe.FindStringSubmatch(span); match != nil {
		return match[1]
	}
	return ""
}

// apartmentDetails reads the "key: value" parameter list.
func apartmentDetails(doc *goquery.Document) map[string]string {
	details := make(map[string]string)
	text := doc.Find(".sub-list").First().Text()
	for _, line := range strings.Split(text, "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), ": ", 2)
		if len(parts) == 2 && parts[0] != "" {
			details[parts[0]] = parts[1]
		}
	}
	return details
}

func additionalAssets(doc *goquery.Document) []string {
	assets := []string{}
	doc.Find(".dotted-list").Each(func(_ int, group *goquery.Selection) {
		for _, line := range strings.Split(group.Text(), "\n") {
			if asset := strings.TrimSpace(line); asset != "" {
				assets = append(assets, asset)
			}
		}
	})
	return assets
}

// parseAvailableFrom converts "12 maja 2026" into a unix timestamp,
// 0 when the date does not parse.
func parseAvailableFrom(date string) int64 {
	parts := strings.Fields(date)
	if len(parts) < 3 {
		return 0
	}

	day := digitsToInt(parts[0])
	year := digitsToInt(parts[2])
	monthKey := strings.ToLower(parts[1])
	if len([]rune(monthKey)) > 3 {
		monthKey = string([]rune(monthKey)[:3])
	}
	month, ok := monthsPL[monthKey]
	if !ok || day == 0 || year == 0 {
		return 0
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix()
}

// cookieFrom keeps the first name=value pair of a Set-Cookie header.
func cookieFrom(setCookie string) string {
	if setCookie == "" {
		return ""
	}
	return strings.Split(setCookie, ";")[0]
}

// csrfToken pulls the inline csrfToken assignment out of page markup.
func csrfToken(markup []byte) string {
	if match := csrfTokenRe.FindSubmatch(markup); match != nil {
		return string(match[1])
	}
	return ""
}
