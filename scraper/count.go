package scraper

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"otodom_scraper/models"
)

// estateTranslate maps the URL detail-category segment to the query
// API's estate enum.
var estateTranslate = map[string]string{
	"mieszkanie":    "FLAT",
	"dom":           "HOUSE",
	"pokoj":         "ROOM",
	"dzialka":       "TERRAIN",
	"lokal":         "COMMERCIALPROPERTY",
	"haleimagazyny": "HALL",
	"garaz":         "GARAGE",
}

const countAdsQuery = "query GetCountAds($filterAttributes: FilterAttributes, $filterLocations: FilterLocations) {\n  countAds(filterAttributes: $filterAttributes, filterLocations: $filterLocations) {\n    ... on CountAds {\n      count\n      __typename\n    }\n    __typename\n  }\n}\n"

type countAdsResponse struct {
	Data struct {
		CountAds struct {
			Count int `json:"count"`
		} `json:"countAds"`
	} `json:"data"`
}

// CountOffers asks the site's internal query API how many ads match
// the search, used to clamp pagination. Returns -1 when the endpoint
// fails; callers fall back to the hard cap.
func (c *Client) CountOffers(ctx context.Context, mainCategory, detailCategory string, region models.Region, filters Filters) int {
	estate, ok := estateTranslate[detailCategory]
	if !ok {
		estate = "FLAT"
	}
	transaction := "SELL"
	if mainCategory == "wynajem" {
		transaction = "RENT"
	}

	filterAttributes := map[string]interface{}{
		"estate":      estate,
		"transaction": transaction,
	}
	for k, v := range filters {
		filterAttributes[k] = v
	}

	pathSegments := strings.Split(region.PathID, "/")
	geoAttributes := map[string]interface{}{
		"regionId":    segmentOrZero(pathSegments, 0),
		"subregionId": segmentOrZero(pathSegments, 1),
		"cityId":      segmentOrZero(pathSegments, 2),
		"districtId":  region.DistrictID,
		"streetId":    region.StreetID,
	}

	body := map[string]interface{}{
		"query":         countAdsQuery,
		"operationName": "GetCountAds",
		"variables": map[string]interface{}{
			"filterAttributes": filterAttributes,
			"filterLocations":  map[string]interface{}{"byGeoAttributes": []interface{}{geoAttributes}},
		},
	}

	resp, err := c.fetcher.PostJSON(ctx, c.baseURL+"/api/query", body)
	if err != nil {
		log.Printf("Warning: count query failed: %v", err)
		return -1
	}
	if !resp.OK() {
		log.Printf("Warning: count query status %d", resp.StatusCode)
		return -1
	}

	var parsed countAdsResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		log.Printf("Warning: count query returned invalid JSON: %v", err)
		return -1
	}
	return parsed.Data.CountAds.Count
}

func segmentOrZero(segments []string, i int) interface{} {
	if i < len(segments) && segments[i] != "" {
		return segments[i]
	}
	return 0
}
