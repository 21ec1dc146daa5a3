package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"itinerary-watch-service/internal/domain"
	"itinerary-watch-service/internal/timeutil"
)

// DefaultUTCOffsetMinutes is the fallback venue offset when the place detail
// source does not report one. JST, as a deliberate default for the primary
// market, not a detected value.
const DefaultUTCOffsetMinutes = 540

// Time ranges like "10:00～21:00", "10:00–21:00", "10:00 AM – 9:00 PM".
var (
	range24Pattern = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*[～\-–—]\s*(\d{1,2}):(\d{2})`)
	range12Pattern = regexp.MustCompile(`(?i)\d{1,2}:\d{2}\s*(?:AM|PM)\s*[～\-–—]\s*(\d{1,2}):(\d{2})\s*(AM|PM)`)
)

// ResolveClosingTime converts a venue's opening hours into an absolute closing
// instant for "today" in the venue's local time, or nil when no closing time
// can be determined. The result keeps the venue's UTC offset; it is never
// normalized to UTC.
func ResolveClosingTime(hours *domain.OpeningHours, utcOffsetMinutes int, now time.Time) *timeutil.Instant {
	if hours == nil {
		return nil
	}

	// "Today" as seen on the venue's wall clock.
	local := time.UnixMilli(now.UnixMilli() + int64(utcOffsetMinutes)*60_000).UTC()
	today := int(local.Weekday())

	if ct := closeFromDescriptions(hours.WeekdayDescriptions, today, local, utcOffsetMinutes); ct != nil {
		return ct
	}

	for _, p := range hours.Periods {
		if p.OpenDay == today && p.CloseHour >= 0 {
			return composeLocal(local, p.CloseHour, p.CloseMinute, utcOffsetMinutes)
		}
	}

	return nil
}

// closeFromDescriptions extracts the closing half of a free-text time range for
// the given weekday, e.g. "Sunday: 10:00–21:00" -> 21:00.
func closeFromDescriptions(descs []string, today int, local time.Time, utcOffsetMinutes int) *timeutil.Instant {
	if today >= len(descs) {
		return nil
	}
	desc := descs[today]
	if desc == "" {
		return nil
	}

	var closeHour, closeMin int

	if m := range24Pattern.FindStringSubmatch(desc); m != nil {
		closeHour, _ = strconv.Atoi(m[3])
		closeMin, _ = strconv.Atoi(m[4])
	} else if m := range12Pattern.FindStringSubmatch(desc); m != nil {
		closeHour, _ = strconv.Atoi(m[1])
		closeMin, _ = strconv.Atoi(m[2])
		meridiem := strings.ToUpper(m[3])
		switch {
		case meridiem == "PM" && closeHour < 12:
			closeHour += 12
		case meridiem == "AM" && closeHour == 12:
			closeHour = 0
		}
	} else {
		return nil
	}

	if closeHour < 0 || closeHour > 23 {
		return nil
	}

	return composeLocal(local, closeHour, closeMin, utcOffsetMinutes)
}

// composeLocal builds the instant for today's local calendar date at the given
// wall-clock time, suffixed with the venue's offset.
func composeLocal(local time.Time, hour, minute, utcOffsetMinutes int) *timeutil.Instant {
	zone := time.FixedZone("", utcOffsetMinutes*60)
	t := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, zone)
	inst := timeutil.FromTime(t)
	return &inst
}
