package scraper

import (
	"encoding/json"
	"testing"
)

const positionalFragment = `
<a data-cy="listing-item-link" href="/pl/oferta/mieszkanie-trzypokojowe-gdansk-ID4abc">
  <img src="https://img.otodom.test/a.jpg;s=655x491">
  <article>
    <h3 data-cy="listing-item-title">Mieszkanie trzypokojowe</h3>
    <p>Mieszkanie na sprzedaż</p>
    <p>1 200 000 zł</p>
    <p><span>3 pokoje</span><span>60 m²</span><span>20 000 zł/m²</span></p>
  </article>
</a>`

func TestHTMLPositionalExtract(t *testing.T) {
	offer := HTMLPositional{Base: "https://test.local"}.Extract([]byte(positionalFragment))

	if offer.DetailURL != "https://test.local/pl/oferta/mieszkanie-trzypokojowe-gdansk-ID4abc" {
		t.Fatalf("unexpected detail url %s", offer.DetailURL)
	}
	if offer.OfferID != "ID4abc" {
		t.Fatalf("expected offer id ID4abc, got %s", offer.OfferID)
	}
	if offer.Image != "https://img.otodom.test/a.jpg" {
		t.Fatalf("expected size hint trimmed from image, got %s", offer.Image)
	}
	if offer.Price != 1200000 || offer.PriceInt != 1200000 {
		t.Fatalf("unexpected price %v / %d", offer.Price, offer.PriceInt)
	}
	if offer.Rooms != 3 {
		t.Fatalf("expected 3 rooms, got %d", offer.Rooms)
	}
	if offer.Size != 60 {
		t.Fatalf("expected size 60, got %v", offer.Size)
	}
	if offer.PricePerM2 != 20000 {
		t.Fatalf("expected 20000 per m2, got %v", offer.PricePerM2)
	}
	if offer.CalculatedPerM2 != 20000 {
		t.Fatalf("expected calculated 20000, got %v", offer.CalculatedPerM2)
	}
}

func TestExtractWithoutHrefIsEmptyRecord(t *testing.T) {
	fragment := `<a data-cy="listing-item-link"><article><p>opis</p><p>100 zł</p></article></a>`
	offer := HTMLPositional{Base: "https://test.local"}.Extract([]byte(fragment))
	if !offer.IsZero() {
		t.Fatalf("expected empty record, got %+v", offer)
	}
}

func TestExtractDegradesOnMissingSpans(t *testing.T) {
	fragment := `
<a href="/pl/oferta/kawalerka-ID9">
  <article>
    <p>opis</p>
    <p>450 000 zł</p>
    <p><span>1 pokój</span></p>
  </article>
</a>`
	offer := HTMLPositional{Base: "https://test.local"}.Extract([]byte(fragment))

	if offer.IsZero() {
		t.Fatalf("expected a record with the price kept")
	}
	if offer.Price != 450000 {
		t.Fatalf("expected price 450000, got %v", offer.Price)
	}
	if offer.Rooms != 0 || offer.Size != 0 {
		t.Fatalf("expected zero rooms/size for short detail row, got %d / %v", offer.Rooms, offer.Size)
	}
	// zero size means the derived ratio is the -1 sentinel
	if offer.CalculatedPerM2 != -1.0 {
		t.Fatalf("expected -1 sentinel, got %v", offer.CalculatedPerM2)
	}
}

func TestHTMLAttributeBasedExtract(t *testing.T) {
	fragment := `
<a data-cy="listing-item-link" href="/pl/oferta/apartament-morski-ID7xy">
  <img src="https://img.otodom.test/m.jpg">
  <article>
    <span data-testid="listing-item-price">780 000 zł</span>
    <span data-testid="listing-item-rooms">2 pokoje</span>
    <span data-testid="listing-item-area">52 m²</span>
    <span data-testid="listing-item-price-per-m">15 000 zł/m²</span>
  </article>
</a>`
	extractor := ExtractorFor("https://test.local", []byte(fragment))
	if _, ok := extractor.(HTMLAttributeBased); !ok {
		t.Fatalf("expected attribute-based extractor, got %T", extractor)
	}

	offer := extractor.Extract([]byte(fragment))
	if offer.Price != 780000 || offer.Rooms != 2 || offer.Size != 52 || offer.PricePerM2 != 15000 {
		t.Fatalf("unexpected record %+v", offer)
	}
	if offer.CalculatedPerM2 != 15000 {
		t.Fatalf("expected calculated 15000, got %v", offer.CalculatedPerM2)
	}
}

func TestExtractorForSelectsByShape(t *testing.T) {
	if _, ok := ExtractorFor("b", []byte(`  {"slug":"x-ID1"}`)).(JSONDirect); !ok {
		t.Fatalf("expected JSON extractor for object input")
	}
	if _, ok := ExtractorFor("b", []byte(`<a href="/x"></a>`)).(HTMLPositional); !ok {
		t.Fatalf("expected positional extractor for plain markup")
	}
}

func TestJSONDirectExtract(t *testing.T) {
	item := map[string]interface{}{
		"id":   int64(777),
		"slug": "mieszkanie-dwupokojowe-gdansk-ID4mNo2",
		"images": []map[string]string{
			{"large": "https://img.otodom.test/large/1.jpg"},
		},
		"totalPrice":          map[string]interface{}{"value": 650000, "currency": "PLN"},
		"pricePerSquareMeter": map[string]interface{}{"value": "13 000 zł", "currency": "PLN"},
		"roomsNumber":         "TWO",
		"areaInSquareMeters":  50,
	}
	raw, _ := json.Marshal(item)

	offer := JSONDirect{Base: "https://test.local"}.Extract(raw)
	if offer.DetailURL != "https://test.local/pl/oferta/mieszkanie-dwupokojowe-gdansk-ID4mNo2" {
		t.Fatalf("unexpected detail url %s", offer.DetailURL)
	}
	if offer.OfferID != "ID4mNo2" {
		t.Fatalf("unexpected offer id %s", offer.OfferID)
	}
	if offer.IntID != 777 {
		t.Fatalf("unexpected int id %d", offer.IntID)
	}
	if offer.Price != 650000 {
		t.Fatalf("unexpected price %v", offer.Price)
	}
	if offer.PricePerM2 != 13000 {
		t.Fatalf("expected string price parsed to 13000, got %v", offer.PricePerM2)
	}
	if offer.Rooms != 2 || offer.RoomsLabel != "TWO" {
		t.Fatalf("unexpected rooms %d (%s)", offer.Rooms, offer.RoomsLabel)
	}
	if offer.CalculatedPerM2 != 13000 {
		t.Fatalf("expected calculated 13000, got %v", offer.CalculatedPerM2)
	}
	if offer.Image != "https://img.otodom.test/large/1.jpg" {
		t.Fatalf("unexpected image %s", offer.Image)
	}
}

func TestJSONDirectForeignCurrencySentinel(t *testing.T) {
	raw := []byte(`{
		"slug": "apartament-sopot-ID4pQr8",
		"totalPrice": {"value": 250000, "currency": "EUR"},
		"pricePerSquareMeter": {"value": 3100, "currency": "EUR"},
		"roomsNumber": "MORE",
		"areaInSquareMeters": 120.5
	}`)

	offer := JSONDirect{Base: "https://test.local"}.Extract(raw)
	if offer.Price != -1.0 || offer.PricePerM2 != -1.0 {
		t.Fatalf("expected -1 sentinels for foreign currency, got %v / %v", offer.Price, offer.PricePerM2)
	}
	// unknown room token maps to 0
	if offer.Rooms != 0 {
		t.Fatalf("expected 0 rooms for MORE token, got %d", offer.Rooms)
	}
	if offer.Image != "" {
		t.Fatalf("expected empty image, got %s", offer.Image)
	}
}

func TestJSONDirectZeroSizeSentinel(t *testing.T) {
	raw := []byte(`{
		"slug": "dzialka-kaszuby-ID4zZz1",
		"totalPrice": {"value": 90000, "currency": "PLN"},
		"areaInSquareMeters": 0
	}`)

	offer := JSONDirect{Base: "https://test.local"}.Extract(raw)
	if offer.CalculatedPerM2 != -1.0 {
		t.Fatalf("expected -1 sentinel for zero size, got %v", offer.CalculatedPerM2)
	}
}
