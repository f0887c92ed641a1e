// Package router implements the Time-Aware Router (C5): a deterministic
// greedy nearest-neighbor scheduler constrained by each POI's opening
// window, travel time, and a per-day working-hours cap. Grounded on
// §4.5's pseudocode, the authoritative source here since the Python
// original's time_aware_greedy_route body was not present in the
// retrieved source tree (only its call sites and a loose DestCoord/
// geopy-based greedy_route in itinerary_optimizer.py survive).
package router

import (
	"sort"
	"time"

	"itineraryplanner/planner"
)

// Router schedules a single day's ordered POI subsequence.
type Router struct {
	speedKPH float64
}

// New builds a Router with the configured ground travel speed.
func New(speedKPH float64) *Router {
	return &Router{speedKPH: speedKPH}
}

// ScheduleDay implements the algorithm from §4.5: repeatedly pick the
// feasible POI minimizing (travel time, open_at, lexicographic id) until no
// POI remains feasible, returning the ordered sub-sequence. The result is
// not yet clipped to the pace's daily_activities cap — that clipping is the
// caller's responsibility, per the spec.
func (r *Router) ScheduleDay(startLat, startLon float64, startTime, dayStart, dayEnd time.Time, pois []planner.POI) []planner.POI {
	_ = dayStart // day_start is used by the caller to derive dayEnd and startTime; kept for signature clarity
	cursorLat, cursorLon := startLat, startLon
	cursorTime := startTime

	remaining := make([]planner.POI, len(pois))
	copy(remaining, pois)

	var result []planner.POI

	for len(remaining) > 0 {
		type candidate struct {
			poi      planner.POI
			travel   float64
			earliest time.Time
			end      time.Time
			idx      int
		}
		var feasible []candidate

		for i, p := range remaining {
			travel := planner.TravelTime(cursorLat, cursorLon, p.Lat, p.Lon, r.speedKPH)
			earliest := cursorTime.Add(time.Duration(travel) * time.Minute)
			if p.OpenAt.After(earliest) {
				earliest = p.OpenAt
			}
			end := earliest.Add(time.Duration(p.DurationMinutes) * time.Minute)
			if end.After(p.CloseAt) || end.After(dayEnd) {
				continue
			}
			feasible = append(feasible, candidate{poi: p, travel: travel, earliest: earliest, end: end, idx: i})
		}

		if len(feasible) == 0 {
			break
		}

		sort.Slice(feasible, func(i, j int) bool {
			a, b := feasible[i], feasible[j]
			if a.travel != b.travel {
				return a.travel < b.travel
			}
			if !a.poi.OpenAt.Equal(b.poi.OpenAt) {
				return a.poi.OpenAt.Before(b.poi.OpenAt)
			}
			return a.poi.ID.String() < b.poi.ID.String()
		})

		chosen := feasible[0]
		result = append(result, chosen.poi)
		cursorTime = chosen.end
		cursorLat, cursorLon = chosen.poi.Lat, chosen.poi.Lon

		remaining = append(remaining[:chosen.idx], remaining[chosen.idx+1:]...)
	}

	return result
}
