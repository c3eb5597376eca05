package scraper

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Filters maps otodom search parameter names to values. A value is
// either a scalar (string, number, bool) or a list of enum tokens,
// e.g. market: "SECONDARY" or roomsNumber: ["TWO", "THREE"].
type Filters map[string]interface{}

// Filter keys that identify a region directly, bypassing the
// autosuggest lookup.
var regionFilterKeys = []string{"city", "voivodeship", "district_id", "street_id"}

func (f Filters) clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// HasRegionKeys reports whether the filter set carries explicit region
// identifiers.
func (f Filters) HasRegionKeys() bool {
	for _, key := range regionFilterKeys {
		if _, ok := f[key]; ok {
			return true
		}
	}
	return false
}

// String returns the scalar form of a filter value, "" when absent.
func (f Filters) String(key string) string {
	v, ok := f[key]
	if !ok {
		return ""
	}
	return scalarString(v)
}

// Int returns the numeric form of a filter value, 0 when absent or
// not a number.
func (f Filters) Int(key string) int {
	switch v := f[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		return digitsToInt(v)
	default:
		return 0
	}
}

// Encode serializes the filter set for the search query string. List
// values become key=[v1,v2,...] with the values comma-joined in input
// order and not escaped (the site rejects escaped brackets); scalar
// keys are percent-encoded with the value appended verbatim. Keys are
// emitted in sorted order so identical inputs always build identical
// URLs.
func (f Filters) Encode() string {
	if len(f) == 0 {
		return ""
	}

	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		switch v := f[key].(type) {
		case []string:
			parts = append(parts, fmt.Sprintf("%s=[%s]", key, strings.Join(v, ",")))
		case []interface{}:
			vals := make([]string, 0, len(v))
			for _, item := range v {
				vals = append(vals, scalarString(item))
			}
			parts = append(parts, fmt.Sprintf("%s=[%s]", key, strings.Join(vals, ",")))
		default:
			parts = append(parts, fmt.Sprintf("%s=%s", url.QueryEscape(key), scalarString(v)))
		}
	}
	return strings.Join(parts, "&")
}

func scalarString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		// yaml/json numbers arrive as float64; keep integral values
		// free of a decimal point.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", v)
	}
}
