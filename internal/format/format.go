// Package format renders time ranges as labels for events and selections.
package format

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/javiermolinar/dayslot/internal/timeaxis"
)

// Formatter renders a time range with a pattern and locale.
type Formatter interface {
	Format(r timeaxis.Range, pattern, locale string) string
}

// Layouts used when no pattern is given.
const (
	Clock24 = "15:04"
	Clock12 = "3:04 PM"
)

// Separator joins the two bounds of a range.
const Separator = " – "

// twelveHourRegions use a 12-hour clock by default.
var twelveHourRegions = map[string]bool{
	"US": true, "CA": true, "AU": true, "NZ": true, "PH": true,
	"IN": true, "PK": true, "EG": true, "SA": true, "CO": true,
}

// Clock formats ranges with Go time layouts.
type Clock struct{}

// Format applies pattern to both bounds. An empty pattern picks a 12-hour or
// 24-hour layout from the locale's region.
func (Clock) Format(r timeaxis.Range, pattern, locale string) string {
	if pattern == "" {
		pattern = LayoutFor(locale)
	}
	return r.Start.Format(pattern) + Separator + r.End.Format(pattern)
}

// LayoutFor returns the default clock layout for a BCP 47 locale.
func LayoutFor(locale string) string {
	if strings.TrimSpace(locale) == "" {
		return Clock24
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return Clock24
	}
	region, conf := tag.Region()
	if conf == language.No {
		return Clock24
	}
	if twelveHourRegions[region.String()] {
		return Clock12
	}
	return Clock24
}

// ValidLocale reports whether locale is empty or a well-formed BCP 47 tag.
func ValidLocale(locale string) bool {
	if locale == "" {
		return true
	}
	_, err := language.Parse(locale)
	return err == nil
}
