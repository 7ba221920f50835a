package format

import (
	"testing"
	"time"
)

func TestNumber(t *testing.T) {
	cases := []struct {
		n    int
		lang string
		want string
	}{
		{4500, "en", "4,500"},
		{60, "en", "60"},
		{4500, "ka", "4 500"},
		{-1234567, "en", "-1,234,567"},
	}
	for _, tc := range cases {
		if got := Number(tc.n, tc.lang); got != tc.want {
			t.Errorf("Number(%d, %q) = %q, want %q", tc.n, tc.lang, got, tc.want)
		}
	}
}

func TestDate(t *testing.T) {
	d := time.Date(2025, time.March, 9, 10, 0, 0, 0, time.UTC)
	if got := Date(d, "en"); got != "Mar 9, 2025" {
		t.Errorf("en date = %q", got)
	}
	if got := Date(d, "ka"); got != "9 მარტი, 2025" {
		t.Errorf("ka date = %q", got)
	}
}
