package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var georgianMonths = [...]string{
	"იანვარი", "თებერვალი", "მარტი", "აპრილი", "მაისი", "ივნისი",
	"ივლისი", "აგვისტო", "სექტემბერი", "ოქტომბერი", "ნოემბერი", "დეკემბერი",
}

// Number groups thousands the way lang writes them.
// Example: Number(4500, "en") => "4,500", Number(4500, "ka") => "4 500"
func Number(n int, lang string) string {
	s := humanize.Comma(int64(n))
	if strings.ToLower(lang) == "ka" {
		return strings.ReplaceAll(s, ",", " ")
	}
	return s
}

// Date formats t in a locale-friendly long form.
func Date(t time.Time, lang string) string {
	switch strings.ToLower(lang) {
	case "ka":
		return strconv.Itoa(t.Day()) + " " + georgianMonths[t.Month()-1] + ", " + strconv.Itoa(t.Year())
	default:
		return t.Format("Jan 2, 2006")
	}
}
