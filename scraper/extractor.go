package scraper

import (
	"bytes"
	"encoding/json"
	"log"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"otodom_scraper/models"
)

// Extractor turns one offer fragment into an Offer record. The three
// variants cover the markup shapes the site has shipped over time;
// none of them may fail on malformed input, they degrade to zero
// fields instead.
type Extractor interface {
	Extract(fragment []byte) models.Offer
}

// ExtractorFor picks a variant by the shape of the fragment: JSON
// objects go to the direct reader, markup carrying data-testid tags to
// the attribute-based reader, everything else to the positional one.
func ExtractorFor(base string, fragment []byte) Extractor {
	trimmed := bytes.TrimSpace(fragment)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return JSONDirect{Base: base}
	}
	if bytes.Contains(fragment, []byte("data-testid")) {
		return HTMLAttributeBased{Base: base}
	}
	return HTMLPositional{Base: base}
}

// perM2 derives price/size; -1 is the sentinel for a missing or zero
// size, and propagates from a sentinel price.
func perM2(price, size float64) float64 {
	if price >= 0 && size > 0 {
		return price / size
	}
	return -1.0
}

// HTMLPositional reads the legacy listing markup where price, rooms
// and size sit in fixed paragraph/span positions inside the offer
// anchor. Every multi-index access is guarded; fragments with fewer
// sub-elements than expected produce zero fields, not a panic.
type HTMLPositional struct {
	Base string
}

func (e HTMLPositional) Extract(fragment []byte) models.Offer {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(fragment))
	if err != nil {
		return models.Offer{}
	}

	href, _ := doc.Find("a").First().Attr("href")
	if href == "" {
		return models.Offer{}
	}

	offer := models.Offer{
		OfferID:   offerIDFromSlug(href),
		DetailURL: absoluteURL(e.Base, href),
		Image:     firstImageSrc(doc),
	}

	paragraphs := doc.Find("article p")
	if paragraphs.Length() > 1 {
		offer.Price = priceToFloat(paragraphs.Eq(1).Text())
		offer.PriceInt = int(math.Round(offer.Price))
	}
	if paragraphs.Length() > 2 {
		spans := paragraphs.Eq(2).Find("span")
		if spans.Length() > 2 {
			offer.RoomsLabel = strings.TrimSpace(spans.Eq(0).Text())
			offer.Rooms = digitsToInt(offer.RoomsLabel)
			offer.Size = priceToFloat(spans.Eq(1).Text())
			offer.PricePerM2 = priceToFloat(spans.Eq(2).Text())
		}
	}

	offer.CalculatedPerM2 = perM2(offer.Price, offer.Size)
	return offer
}

// HTMLAttributeBased reads the newer listing markup where fields carry
// data-testid markers, so element order no longer matters.
type HTMLAttributeBased struct {
	Base string
}

func (e HTMLAttributeBased) Extract(fragment []byte) models.Offer {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(fragment))
	if err != nil {
		return models.Offer{}
	}

	href, _ := doc.Find("a").First().Attr("href")
	if href == "" {
		return models.Offer{}
	}

	offer := models.Offer{
		OfferID:   offerIDFromSlug(href),
		DetailURL: absoluteURL(e.Base, href),
		Image:     firstImageSrc(doc),
	}

	offer.Price = priceToFloat(doc.Find(`[data-testid="listing-item-price"]`).First().Text())
	offer.PriceInt = int(math.Round(offer.Price))
	offer.RoomsLabel = strings.TrimSpace(doc.Find(`[data-testid="listing-item-rooms"]`).First().Text())
	offer.Rooms = digitsToInt(offer.RoomsLabel)
	offer.Size = priceToFloat(doc.Find(`[data-testid="listing-item-area"]`).First().Text())
	offer.PricePerM2 = priceToFloat(doc.Find(`[data-testid="listing-item-price-per-m"]`).First().Text())
	offer.CalculatedPerM2 = perM2(offer.Price, offer.Size)
	return offer
}

// JSONDirect reads an offer item from the _next/data endpoint. Prices
// in a currency other than PLN are forced to the -1 sentinel; currency
// conversion is explicitly unsupported.
type JSONDirect struct {
	Base string
}

type jsonMoney struct {
	Value    interface{} `json:"value"`
	Currency string      `json:"currency"`
}

// amount coerces the wire value, which the site ships either as a
// number or a formatted string.
func (m *jsonMoney) amount() float64 {
	if m == nil {
		return -1.0
	}
	if m.Currency != "" && m.Currency != "PLN" {
		return -1.0
	}
	switch v := m.Value.(type) {
	case float64:
		return v
	case string:
		return priceToFloat(v)
	default:
		return -1.0
	}
}

type jsonOffer struct {
	ID     int64  `json:"id"`
	Slug   string `json:"slug"`
	Images []struct {
		Large string `json:"large"`
	} `json:"images"`
	TotalPrice          *jsonMoney `json:"totalPrice"`
	PricePerSquareMeter *jsonMoney `json:"pricePerSquareMeter"`
	RoomsNumber         string     `json:"roomsNumber"`
	AreaInSquareMeters  float64    `json:"areaInSquareMeters"`
}

func (e JSONDirect) Extract(fragment []byte) models.Offer {
	var raw jsonOffer
	if err := json.Unmarshal(fragment, &raw); err != nil {
		log.Printf("Warning: malformed offer item: %v", err)
		return models.Offer{}
	}
	if raw.Slug == "" {
		return models.Offer{}
	}

	offer := models.Offer{
		DetailURL:  offerDetailURL(e.Base, raw.Slug),
		OfferID:    offerIDFromSlug(raw.Slug),
		IntID:      raw.ID,
		Rooms:      roomsTranslate[raw.RoomsNumber],
		RoomsLabel: raw.RoomsNumber,
		Size:       raw.AreaInSquareMeters,
	}
	if len(raw.Images) > 0 {
		offer.Image = raw.Images[0].Large
	}

	offer.Price = raw.TotalPrice.amount()
	offer.PriceInt = int(math.Round(offer.Price))
	offer.PricePerM2 = raw.PricePerSquareMeter.amount()
	offer.CalculatedPerM2 = perM2(offer.Price, offer.Size)
	return offer
}

// absoluteURL prefixes relative detail links with the site base.
func absoluteURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return base + href
}

// firstImageSrc returns the first img src, trimmed at the size-hint
// separator the CDN appends.
func firstImageSrc(doc *goquery.Document) string {
	img := doc.Find("img").First()
	src, _ := img.Attr("src")
	if src != "" {
		return strings.Split(src, ";")[0]
	}
	return strings.TrimSpace(img.Text())
}
