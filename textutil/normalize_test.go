package textutil

import "testing"

func TestRemoveDiacritics(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"łódź", "lodz"},
		{"Łódź Śródmieście", "Lodz Srodmiescie"},
		{"żółćęąśźń", "zolceaszn"},
		{"gdansk", "gdansk"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := RemoveDiacritics(tc.in); got != tc.want {
			t.Fatalf("RemoveDiacritics(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Łódź  Śródmieście ", false, ""); got != "LodzSrodmiescie" {
		t.Fatalf("unexpected normalization %q", got)
	}
	if got := Normalize("Gdańsk Wrzeszcz", true, "_"); got != "gdansk_wrzeszcz" {
		t.Fatalf("unexpected normalization %q", got)
	}
}

func TestSlug(t *testing.T) {
	if got := Slug("Warszawa Praga Północ"); got != "warszawa-praga-polnoc" {
		t.Fatalf("unexpected slug %q", got)
	}
	if got := Slug("pomorskie"); got != "pomorskie" {
		t.Fatalf("unexpected slug %q", got)
	}
}
