// Package poi implements the POI Assembler (C4): merging per-class
// candidate ids into a typed POI set, with name+location de-duplication,
// a per-activity budget cap, and the adaptive-radius retry policy.
// Grounded on the source's build_poi_list (backend/app/api/itinerary.py).
package poi

import (
	"regexp"
	"strconv"
	"time"
)

var openingHoursRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})-(\d{1,2}):(\d{2})$`)

// defaultOpenHour/defaultCloseHour are the fallback window applied when an
// opening_hours string is malformed, per §3's opening-hours grammar note.
const defaultOpenHour, defaultCloseHour = 9, 17

// ParseOpeningHours projects an "HH:MM-HH:MM" string onto day (already at
// midnight local), returning the open/close instants. Malformed strings
// fall back to the default 09:00-17:00 window; ok reports whether the
// input parsed cleanly (the caller logs a warning when it did not).
func ParseOpeningHours(raw string, day time.Time) (open, close time.Time, ok bool) {
	m := openingHoursRe.FindStringSubmatch(raw)
	if m == nil {
		return withHour(day, defaultOpenHour, 0), withHour(day, defaultCloseHour, 0), false
	}
	oh, _ := strconv.Atoi(m[1])
	om, _ := strconv.Atoi(m[2])
	ch, _ := strconv.Atoi(m[3])
	cm, _ := strconv.Atoi(m[4])
	if oh > 23 || ch > 23 || om > 59 || cm > 59 {
		return withHour(day, defaultOpenHour, 0), withHour(day, defaultCloseHour, 0), false
	}
	return withHour(day, oh, om), withHour(day, ch, cm), true
}

func withHour(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}
