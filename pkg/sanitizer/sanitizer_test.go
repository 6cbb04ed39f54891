package sanitizer

import "testing"

func TestNormalizeAirportCode(t *testing.T) {
	cases := map[string]string{
		" del ":  "DEL",
		" blr ":  "BLR",
		"DEL":    "DEL",
		"hyd":    "HYD",
		"  ":     "",
		"maa\n":  "MAA",
		"\tccu ": "CCU",
	}
	for in, want := range cases {
		if got := NormalizeAirportCode(in); got != want {
			t.Errorf("NormalizeAirportCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeRef(t *testing.T) {
	if got := NormalizeRef(" acb1a2b3 "); got != "ACB1A2B3" {
		t.Errorf("NormalizeRef = %q, want ACB1A2B3", got)
	}
}

func TestNormalizeText(t *testing.T) {
	cases := map[string]string{
		"  loaded   onto  truck ": "loaded onto truck",
		"ok":                      "ok",
		"":                        "",
		" \t\n ":                  "",
	}
	for in, want := range cases {
		if got := NormalizeText(in); got != want {
			t.Errorf("NormalizeText(%q) = %q, want %q", in, got, want)
		}
	}
}
