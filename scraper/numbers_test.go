package scraper

import "testing"

func TestPriceToFloat(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1 234,50 zł", 1234.50},
		{"1 200 000 zł", 1200000},
		{"60 m²", 60},
		{"13 000 zł/m²", 13000},
		{"450000", 450000},
		{"brak ceny", 0.0},
		{"", 0.0},
		{"Zapytaj o cenę", 0.0},
	}
	for _, tc := range cases {
		if got := priceToFloat(tc.in); got != tc.want {
			t.Fatalf("priceToFloat(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDigitsToInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"3 pokoje", 3},
		{"strona 12", 12},
		{"brak", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := digitsToInt(tc.in); got != tc.want {
			t.Fatalf("digitsToInt(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestRoomsTranslate(t *testing.T) {
	if roomsTranslate["ONE"] != 1 || roomsTranslate["TEN"] != 10 {
		t.Fatalf("unexpected table bounds: %d, %d", roomsTranslate["ONE"], roomsTranslate["TEN"])
	}
	if roomsTranslate["MORE"] != 0 {
		t.Fatalf("unknown token must map to 0, got %d", roomsTranslate["MORE"])
	}
}
