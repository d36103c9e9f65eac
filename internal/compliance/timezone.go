package compliance

import (
	"strings"
	"time"
	"unicode"
)

// defaultZone is used when the area code is unknown. Most of the claim
// inventory sits in Central time, so it is the least-wrong guess.
const defaultZone = "America/Chicago"

// areaCodeZones maps NANP area codes to IANA zones for quiet-hours checks.
// Coverage follows the markets the recovery desk works: Florida and New York
// (Eastern), Oklahoma and Texas (Central), Arizona and Colorado (Mountain),
// California (Pacific).
var areaCodeZones = map[string]string{
	// Eastern
	"212": "America/New_York",
	"305": "America/New_York",
	"407": "America/New_York",
	"561": "America/New_York",
	"727": "America/New_York",
	"786": "America/New_York",
	"813": "America/New_York",
	"850": "America/New_York",
	"904": "America/New_York",
	"941": "America/New_York",
	"954": "America/New_York",
	// Central
	"405": "America/Chicago",
	"580": "America/Chicago",
	"918": "America/Chicago",
	"214": "America/Chicago",
	"469": "America/Chicago",
	"972": "America/Chicago",
	"512": "America/Chicago",
	"713": "America/Chicago",
	"832": "America/Chicago",
	// Mountain
	"303": "America/Denver",
	"480": "America/Denver",
	"602": "America/Denver",
	// Pacific
	"213": "America/Los_Angeles",
	"310": "America/Los_Angeles",
	"323": "America/Los_Angeles",
	"408": "America/Los_Angeles",
	"415": "America/Los_Angeles",
	"510": "America/Los_Angeles",
	"562": "America/Los_Angeles",
	"619": "America/Los_Angeles",
	"626": "America/Los_Angeles",
	"650": "America/Los_Angeles",
	"714": "America/Los_Angeles",
	"760": "America/Los_Angeles",
	"805": "America/Los_Angeles",
	"818": "America/Los_Angeles",
	"858": "America/Los_Angeles",
	"909": "America/Los_Angeles",
	"916": "America/Los_Angeles",
	"949": "America/Los_Angeles",
	"951": "America/Los_Angeles",
}

// ZoneForPhone resolves the IANA zone name for a phone number from its
// leading area code. Formatting characters and a leading country code 1 are
// ignored.
func ZoneForPhone(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) < 3 {
		return defaultZone
	}
	if zone, ok := areaCodeZones[digits[:3]]; ok {
		return zone
	}
	return defaultZone
}

// localHour returns the hour-of-day at the phone's local zone. The error
// path only triggers when the zone database itself is unusable.
func localHour(phone string, now time.Time) (int, error) {
	loc, err := time.LoadLocation(ZoneForPhone(phone))
	if err != nil {
		return 0, err
	}
	return now.In(loc).Hour(), nil
}
