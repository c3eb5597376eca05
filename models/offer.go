package models

// Offer is one scraped listing record. The zero value is the inert
// "skip" sentinel produced when a fragment has no usable detail link.
type Offer struct {
	DetailURL       string  `json:"detail_url"`
	OfferID         string  `json:"offer_id"`
	IntID           int64   `json:"int_id,omitempty"`
	Image           string  `json:"image"`
	Price           float64 `json:"price"`
	PriceInt        int     `json:"price_int"`
	Size            float64 `json:"size"`
	Rooms           int     `json:"rooms"`
	RoomsLabel      string  `json:"rooms_label,omitempty"`
	PricePerM2      float64 `json:"price_per_m2"`
	CalculatedPerM2 float64 `json:"calculated_per_m2"`
}

// IsZero reports whether the offer is the skip sentinel.
func (o Offer) IsZero() bool {
	return o.DetailURL == ""
}

// Region levels returned by the autosuggest endpoint.
const (
	LevelCity     = "CITY"
	LevelDistrict = "DISTRICT"
	LevelRegion   = "REGION"
	LevelStreet   = "STREET"
)

// Region is a resolved geographic scope. Exactly one level is set per
// resolution; the zero value means "whole country".
type Region struct {
	Level       string `json:"level,omitempty"`
	City        string `json:"city,omitempty"`
	Voivodeship string `json:"voivodeship,omitempty"`
	// PathID is the slash-delimited region/subregion/city path used as
	// the URL path segment (converted from the API's dotted form).
	PathID     string `json:"path_id,omitempty"`
	RegionID   int    `json:"region_id,omitempty"`
	DistrictID int    `json:"district_id,omitempty"`
	StreetID   int    `json:"street_id,omitempty"`
}

// IsZero reports whether the region imposes no geographic restriction.
func (r Region) IsZero() bool {
	return r.Level == "" && r.PathID == ""
}

// OfferDetails holds the fields enriched from a single offer page.
type OfferDetails struct {
	URL              string            `json:"url"`
	Description      string            `json:"description"`
	MetaDescription  string            `json:"meta_description"`
	Floor            string            `json:"floor"`
	TotalFloors      string            `json:"total_floors"`
	ApartmentDetails map[string]string `json:"apartment_details"`
	AvailableFrom    int64             `json:"available_from,omitempty"`
	Assets           []string          `json:"assets"`
	PhoneNumbers     []string          `json:"phone_numbers"`
}
