package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"

	"otodom_scraper/cache"
	"otodom_scraper/httputil"
	"otodom_scraper/models"
	"otodom_scraper/textutil"
)

// RegionResolver maps free-text region input to a structured location
// descriptor via the site's autosuggest endpoint. Lookups are cached
// by exact input text.
type RegionResolver struct {
	baseURL string
	fetcher httputil.Fetcher
	cache   cache.Cache
}

func NewRegionResolver(baseURL string, fetcher httputil.Fetcher, c cache.Cache) *RegionResolver {
	return &RegionResolver{baseURL: baseURL, fetcher: fetcher, cache: c}
}

// flexInt tolerates the autosuggest API shipping ids as either numbers
// or quoted strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = []byte(strings.Trim(string(data), `"`))
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

type autosuggestEntry struct {
	Level      string  `json:"level"`
	Name       string  `json:"name"`
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	DistrictID flexInt `json:"district_id"`
	StreetID   flexInt `json:"street_id"`
	RegionID   flexInt `json:"region_id"`
}

// Resolve returns the region descriptor for the given free text. When
// the filters already carry explicit region keys those win and no
// remote call is made. Empty input with no keys means nationwide
// scope; so does an unusable autosuggest response, with a warning.
func (r *RegionResolver) Resolve(ctx context.Context, text string, filters Filters) models.Region {
	if filters.HasRegionKeys() {
		return regionFromFilters(filters)
	}
	if strings.TrimSpace(text) == "" {
		return models.Region{}
	}

	key := cache.Key("autosuggest", text)
	body, err := r.cache.GetOrCompute(key, func() ([]byte, error) {
		query := url.QueryEscape(textutil.Normalize(text, false, ""))
		lookup := fmt.Sprintf("%s/ajax/geo6/autosuggest/?data=%s", r.baseURL, query)
		resp, err := r.fetcher.Get(ctx, lookup)
		if err != nil {
			return nil, err
		}
		if !resp.OK() {
			return nil, fmt.Errorf("autosuggest status %d", resp.StatusCode)
		}
		return resp.Body, nil
	})
	if err != nil {
		log.Printf("Warning: region lookup for %q failed, scraping nationwide: %v", text, err)
		return models.Region{}
	}

	return parseAutosuggest(body, text)
}

func parseAutosuggest(body []byte, text string) models.Region {
	var entries []autosuggestEntry
	if err := json.Unmarshal(body, &entries); err != nil || len(entries) == 0 {
		log.Printf("Warning: no autosuggest match for %q, scraping nationwide", text)
		return models.Region{}
	}

	entry := entries[0]
	display := strings.NewReplacer("<strong>", "", "</strong>", "").Replace(entry.Text)
	parts := strings.Split(display, ", ")

	switch entry.Level {
	case models.LevelCity:
		return models.Region{
			Level:  models.LevelCity,
			City:   entry.Name,
			PathID: dottedToPath(entry.ID),
		}
	case models.LevelDistrict:
		return models.Region{
			Level:      models.LevelDistrict,
			City:       entry.Name,
			DistrictID: int(entry.DistrictID),
			PathID:     dottedToPath(entry.ID),
		}
	case models.LevelRegion:
		return models.Region{
			Level:       models.LevelRegion,
			Voivodeship: textutil.Slug(parts[0]),
			RegionID:    int(entry.RegionID),
			PathID:      dottedToPath(entry.ID),
		}
	case models.LevelStreet:
		city := strings.Split(parts[0], ",")[0]
		return models.Region{
			Level:    models.LevelStreet,
			City:     textutil.Slug(city),
			StreetID: int(entry.StreetID),
			// a street id ends with ".s.<street>"; the URL path stops
			// before that marker
			PathID: dottedToPath(strings.Split(entry.ID, ".s")[0]),
		}
	default:
		log.Printf("Warning: unknown autosuggest level %q for %q", entry.Level, text)
		return models.Region{}
	}
}

// regionFromFilters builds the descriptor from explicit filter keys,
// the fast path that skips the remote lookup entirely.
func regionFromFilters(filters Filters) models.Region {
	region := models.Region{}

	if city := filters.String("city"); city != "" {
		region.Level = models.LevelCity
		region.City = city
		region.PathID = city
	}
	if voivodeship := filters.String("voivodeship"); voivodeship != "" {
		if region.Level == "" {
			region.Level = models.LevelRegion
			region.PathID = voivodeship
		}
		region.Voivodeship = voivodeship
	}
	if districtID := filters.Int("district_id"); districtID != 0 {
		region.Level = models.LevelDistrict
		region.DistrictID = districtID
	}
	if streetID := filters.Int("street_id"); streetID != 0 {
		region.Level = models.LevelStreet
		region.StreetID = streetID
	}
	return region
}

// dottedToPath converts the API's dotted path id into the slash form
// used in search URLs.
func dottedToPath(id string) string {
	return strings.ReplaceAll(id, ".", "/")
}
