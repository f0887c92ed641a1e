package plan

import (
	"context"
	"time"

	"github.com/google/uuid"

	"itineraryplanner/planner"
)

// ReorderPreview is a thin wrapper over C6 exposed to external callers per
// §6: identity when the reorderer is disabled, otherwise the reorderer's
// output. Calling it twice on its own output is idempotent when C6 is
// enabled and stable, per §8's round-trip property.
func (a *Assembler) ReorderPreview(ids []uuid.UUID) []uuid.UUID {
	return a.reorderer.ReorderActivities(ids)
}

// RegenerateDayConstraints bounds what regenerate_day may adjust: a
// clamped pace and an optional per-activity price ceiling, per §6.
type RegenerateDayConstraints struct {
	PaceOverride     *string
	MaxPricePerActivity *float64
}

// RegenerateDay re-runs C5 scheduling for a single day of an existing
// itinerary over the caller-supplied pool; it does not re-run C4, so the
// pool is used as given. The pace may be clamped and each activity's
// effective price is capped at min(price, max_price_per_activity) before
// scheduling. Every
// other day of the itinerary is left untouched — this does not recompute
// the whole plan at read time, per the design notes' Open Question
// resolution that "the stored day assignments are authoritative".
func (a *Assembler) RegenerateDay(ctx context.Context, existing *planner.Itinerary, dayIndex int, constraints RegenerateDayConstraints, pool []planner.POI) (*planner.Itinerary, error) {
	if dayIndex < 0 || dayIndex >= len(existing.Days) {
		return nil, planner.New(planner.InvalidInput, "day index out of range")
	}

	pace := planner.PaceByName(existing.Intent.Pace)
	if constraints.PaceOverride != nil {
		pace = planner.PaceByName(*constraints.PaceOverride)
	}

	clamped := make([]planner.POI, len(pool))
	copy(clamped, pool)
	if constraints.MaxPricePerActivity != nil {
		cap := *constraints.MaxPricePerActivity
		for i, p := range clamped {
			if p.Class == planner.ClassActivity && p.Price > cap {
				clamped[i].Price = cap
			}
		}
	}

	date := existing.StartDate.AddDate(0, 0, dayIndex)
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 9, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(time.Duration(pace.MaxHours) * time.Hour)

	anchorLat, anchorLon := startAnchor(existing, dayIndex)

	scheduled := a.router.ScheduleDay(anchorLat, anchorLon, dayStart, dayStart, dayEnd, clamped)
	if len(scheduled) > pace.DailyActivities {
		scheduled = scheduled[:pace.DailyActivities]
	}

	dayOut := make([]planner.ScheduledPOI, 0, len(scheduled))
	cursorTime, cursorLat, cursorLon := dayStart, anchorLat, anchorLon
	for _, p := range scheduled {
		travel := planner.TravelTime(cursorLat, cursorLon, p.Lat, p.Lon, a.cfg.GroundSpeedKPH)
		start := cursorTime.Add(time.Duration(travel) * time.Minute)
		if p.OpenAt.After(start) {
			start = p.OpenAt
		}
		end := start.Add(time.Duration(p.DurationMinutes) * time.Minute)
		dayOut = append(dayOut, planner.ScheduledPOI{POI: p, Start: start, End: end, DisplayName: p.Name})
		cursorTime, cursorLat, cursorLon = end, p.Lat, p.Lon
	}

	a.enrichPOIs(ctx, dayOut)

	out := *existing
	out.Days = make([][]planner.ScheduledPOI, len(existing.Days))
	copy(out.Days, existing.Days)
	out.Days[dayIndex] = dayOut
	return &out, nil
}

func startAnchor(existing *planner.Itinerary, dayIndex int) (float64, float64) {
	if dayIndex > 0 && len(existing.Days[dayIndex-1]) > 0 {
		last := existing.Days[dayIndex-1][len(existing.Days[dayIndex-1])-1]
		return last.POI.Lat, last.POI.Lon
	}
	if len(existing.Days) > 0 && len(existing.Days[0]) > 0 {
		first := existing.Days[0][0]
		return first.POI.Lat, first.POI.Lon
	}
	return 0, 0
}
