package scraper

import (
	"context"
	"strings"
	"testing"

	"otodom_scraper/httputil"
	"otodom_scraper/models"
)

func TestCountOffers(t *testing.T) {
	var gotURL string
	var gotPayload interface{}
	fetcher := &fakeFetcher{
		onPost: func(url string, payload interface{}) (*httputil.Response, error) {
			gotURL = url
			gotPayload = payload
			return countResponse(842), nil
		},
	}
	client := newTestClient(fetcher)

	region := models.Region{
		Level:      models.LevelDistrict,
		PathID:     "0062/433/3200",
		DistrictID: 117,
	}
	count := client.CountOffers(context.Background(), "wynajem", "mieszkanie", region, Filters{"market": "SECONDARY"})
	if count != 842 {
		t.Fatalf("unexpected count %d", count)
	}
	if !strings.HasSuffix(gotURL, "/api/query") {
		t.Fatalf("unexpected query URL %s", gotURL)
	}

	body, ok := gotPayload.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected payload type %T", gotPayload)
	}
	if body["operationName"] != "GetCountAds" {
		t.Fatalf("unexpected operation %v", body["operationName"])
	}
	variables := body["variables"].(map[string]interface{})
	attrs := variables["filterAttributes"].(map[string]interface{})
	if attrs["estate"] != "FLAT" || attrs["transaction"] != "RENT" {
		t.Fatalf("category pair not translated: %v", attrs)
	}
	if attrs["market"] != "SECONDARY" {
		t.Fatalf("filters not merged into attributes: %v", attrs)
	}

	locations := variables["filterLocations"].(map[string]interface{})
	geo := locations["byGeoAttributes"].([]interface{})[0].(map[string]interface{})
	if geo["regionId"] != "0062" || geo["cityId"] != "3200" {
		t.Fatalf("path segments not mapped: %v", geo)
	}
	if geo["districtId"] != 117 {
		t.Fatalf("district id not forwarded: %v", geo)
	}
}

func TestCountOffersSellDefault(t *testing.T) {
	var gotPayload interface{}
	fetcher := &fakeFetcher{
		onPost: func(_ string, payload interface{}) (*httputil.Response, error) {
			gotPayload = payload
			return countResponse(12), nil
		},
	}
	client := newTestClient(fetcher)

	client.CountOffers(context.Background(), "sprzedaz", "dom", models.Region{}, Filters{})
	attrs := gotPayload.(map[string]interface{})["variables"].(map[string]interface{})["filterAttributes"].(map[string]interface{})
	if attrs["estate"] != "HOUSE" || attrs["transaction"] != "SELL" {
		t.Fatalf("category pair not translated: %v", attrs)
	}
}

func TestCountOffersFailureMeansUnknown(t *testing.T) {
	fetcher := &fakeFetcher{
		onPost: func(string, interface{}) (*httputil.Response, error) {
			return &httputil.Response{StatusCode: 500, Body: []byte("oops")}, nil
		},
	}
	client := newTestClient(fetcher)

	if count := client.CountOffers(context.Background(), "sprzedaz", "mieszkanie", models.Region{}, Filters{}); count != -1 {
		t.Fatalf("expected -1 on failure, got %d", count)
	}
}

func TestCountOffersInvalidJSON(t *testing.T) {
	fetcher := &fakeFetcher{
		onPost: func(string, interface{}) (*httputil.Response, error) {
			return htmlResponse([]byte("<html>not json</html>")), nil
		},
	}
	client := newTestClient(fetcher)

	if count := client.CountOffers(context.Background(), "sprzedaz", "mieszkanie", models.Region{}, Filters{}); count != -1 {
		t.Fatalf("expected -1 on bad response, got %d", count)
	}
}
