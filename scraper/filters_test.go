package scraper

import (
	"net/url"
	"strings"
	"testing"
)

func TestEncodeListFilter(t *testing.T) {
	f := Filters{"roomsNumber": []string{"TWO", "THREE"}}
	got := f.Encode()
	if got != "roomsNumber=[TWO,THREE]" {
		t.Fatalf("unexpected encoding %q", got)
	}
}

func TestEncodeListKeepsInputOrder(t *testing.T) {
	f := Filters{"extras": []string{"BALCONY", "BASEMENT", "AIR_CONDITIONING"}}
	if got := f.Encode(); got != "extras=[BALCONY,BASEMENT,AIR_CONDITIONING]" {
		t.Fatalf("list order not preserved: %q", got)
	}
}

func TestEncodeScalarEscapesKeyNotValue(t *testing.T) {
	f := Filters{"[filter_float_price:to]": "1500"}
	got := f.Encode()
	if got != url.QueryEscape("[filter_float_price:to]")+"=1500" {
		t.Fatalf("unexpected encoding %q", got)
	}
	if strings.Contains(got, "[filter") {
		t.Fatalf("key not percent-encoded: %q", got)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	f := Filters{
		"market":      "SECONDARY",
		"priceMax":    4000,
		"roomsNumber": []string{"TWO"},
		"areaMin":     30,
	}
	first := f.Encode()
	for i := 0; i < 10; i++ {
		if got := f.Encode(); got != first {
			t.Fatalf("encoding not stable: %q vs %q", first, got)
		}
	}
}

func TestEncodeYAMLTypedValues(t *testing.T) {
	// yaml/json decoding hands over float64 numbers and []interface{}
	f := Filters{
		"priceMax":    float64(4000),
		"roomsNumber": []interface{}{"TWO", "THREE"},
		"hasPhotos":   true,
	}
	got := f.Encode()
	for _, want := range []string{"priceMax=4000", "roomsNumber=[TWO,THREE]", "hasPhotos=true"} {
		if !strings.Contains(got, want) {
			t.Fatalf("encoding %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "4000.") {
		t.Fatalf("integral float rendered with decimal point: %q", got)
	}
}

func TestHasRegionKeys(t *testing.T) {
	if (Filters{"priceMax": 1}).HasRegionKeys() {
		t.Fatalf("priceMax is not a region key")
	}
	for _, key := range []string{"city", "voivodeship", "district_id", "street_id"} {
		if !(Filters{key: "x"}).HasRegionKeys() {
			t.Fatalf("%s should count as a region key", key)
		}
	}
}
