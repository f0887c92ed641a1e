package poi

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"itineraryplanner/catalog"
	"itineraryplanner/planner"
)

// Assembler is the POI Assembler (C4).
type Assembler struct {
	gateway catalog.Gateway
	log     *zap.Logger
}

// New builds an Assembler over a catalog Gateway.
func New(gateway catalog.Gateway, log *zap.Logger) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{gateway: gateway, log: log}
}

// Input bundles build_poi_set's parameters, per §4.4.
type Input struct {
	DestIDs      []uuid.UUID
	ActIDs       []uuid.UUID
	AccIDs       []uuid.UUID
	TransIDs     []uuid.UUID
	Day0Start    time.Time
	Center       catalog.Area // Lat/Lon only; RadiusM set per call
	RadiusM      float64
	Budget       float64
	BudgetFrac   float64 // default 0.10
	RatingFloor  float64 // default 3.5
	AccomCap     int     // default 30
}

// BuildPOISet implements the five-step algorithm from §4.4: fetch each
// class within the radius, window/duration-project, dedup, and apply the
// budget cap, fanning the four class fetches out concurrently (§5's
// "independent repository fetches" fan-out point).
func (a *Assembler) BuildPOISet(ctx context.Context, in Input) ([]planner.POI, error) {
	area := catalog.Area{Lat: in.Center.Lat, Lon: in.Center.Lon, RadiusM: in.RadiusM}

	var destPOIs, actPOIs, transPOIs []planner.POI
	var accPOIs []planner.POI

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := a.fetchDestinations(gctx, in.DestIDs, area, in.Day0Start)
		if err != nil {
			return err
		}
		destPOIs = p
		return nil
	})
	g.Go(func() error {
		p, err := a.fetchActivities(gctx, in.ActIDs, area, in.Day0Start, in.Budget, in.BudgetFrac)
		if err != nil {
			return err
		}
		actPOIs = p
		return nil
	})
	g.Go(func() error {
		p, err := a.fetchAccommodations(gctx, area, in.RatingFloor, in.AccomCap, in.Day0Start)
		if err != nil {
			return err
		}
		accPOIs = p
		return nil
	})
	g.Go(func() error {
		if len(in.TransIDs) == 0 {
			return nil
		}
		p, err := a.fetchTransportation(gctx, in.TransIDs, area)
		if err != nil {
			return err
		}
		transPOIs = p
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]planner.POI, 0, len(destPOIs)+len(actPOIs)+len(accPOIs)+len(transPOIs))
	all = append(all, destPOIs...)
	all = append(all, actPOIs...)
	all = append(all, accPOIs...)
	all = append(all, transPOIs...)

	return dedupeByClassID(all), nil
}

func (a *Assembler) fetchDestinations(ctx context.Context, ids []uuid.UUID, area catalog.Area, day0 time.Time) ([]planner.POI, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	records, err := a.gateway.FindByIDsWithinRadius(ctx, catalog.ClassDestination, ids, area)
	if err != nil {
		return nil, err
	}
	out := make([]planner.POI, 0, len(records))
	for _, r := range records {
		d, ok := r.(catalog.Destination)
		if !ok {
			continue
		}
		out = append(out, planner.POI{
			ID:              d.ID,
			Class:           planner.ClassDestination,
			Name:            d.Name,
			Lat:             d.Lat,
			Lon:             d.Lon,
			OpenAt:          withHour(day0, 9, 0),
			CloseAt:         withHour(day0, 17, 0),
			DurationMinutes: 120,
			Price:           0,
		})
	}
	return out, nil
}

// dedupKey produces the ~100m grid cell key used to dedupe activities:
// (lowercase-trimmed name, lat rounded to 3 decimals, lon rounded to 3
// decimals), preserved exactly per the design notes' pinned rule.
func dedupKey(name string, lat, lon float64) string {
	return fmt.Sprintf("%s|%.3f|%.3f", strings.ToLower(strings.TrimSpace(name)), lat, lon)
}

func (a *Assembler) fetchActivities(ctx context.Context, ids []uuid.UUID, area catalog.Area, day0 time.Time, budget, budgetFrac float64) ([]planner.POI, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	records, err := a.gateway.FindByIDsWithinRadius(ctx, catalog.ClassActivity, ids, area)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	out := make([]planner.POI, 0, len(records))
	cap := budgetFrac * budget

	for _, r := range records {
		act, ok := r.(catalog.Activity)
		if !ok {
			continue
		}
		key := dedupKey(act.Name, act.Lat, act.Lon)
		if seen[key] {
			continue
		}
		seen[key] = true

		open, close, ok := ParseOpeningHours(act.OpeningHours, day0)
		if !ok {
			a.log.Warn("malformed opening hours, using default window",
				zap.String("activity_id", act.ID.String()), zap.String("raw", act.OpeningHours))
		}

		price := 0.0
		if act.Price != nil {
			price = *act.Price
		}
		// Budget cap (§4.4 step 3): drop priced activities over the cap;
		// null prices always pass.
		if act.Price != nil && *act.Price > cap {
			continue
		}

		out = append(out, planner.POI{
			ID:              act.ID,
			Class:           planner.ClassActivity,
			Name:            act.Name,
			Lat:             act.Lat,
			Lon:             act.Lon,
			OpenAt:          open,
			CloseAt:         close,
			DurationMinutes: 60,
			Price:           price,
		})
	}
	return out, nil
}

func (a *Assembler) fetchAccommodations(ctx context.Context, area catalog.Area, ratingFloor float64, cap int, day0 time.Time) ([]planner.POI, error) {
	records, err := a.gateway.FindAccommodationsWithinRadius(ctx, area, ratingFloor, cap)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		// §4.4 step 4: zero survivors after the rating filter is logged,
		// never retried with a relaxed floor — see DESIGN.md's Open
		// Question resolution.
		a.log.Warn("no accommodations met the rating floor", zap.Float64("rating_floor", ratingFloor))
	}
	out := make([]planner.POI, 0, len(records))
	for _, acc := range records {
		price := 0.0
		if acc.PricePerNight != nil {
			price = *acc.PricePerNight
		}
		out = append(out, planner.POI{
			ID:              acc.ID,
			Class:           planner.ClassAccommodation,
			Name:            acc.Name,
			Lat:             acc.Lat,
			Lon:             acc.Lon,
			OpenAt:          withHour(day0, 0, 0),
			CloseAt:         withHour(day0, 23, 59),
			DurationMinutes: 0,
			Price:           price,
		})
	}
	return out, nil
}

func (a *Assembler) fetchTransportation(ctx context.Context, ids []uuid.UUID, area catalog.Area) ([]planner.POI, error) {
	records, err := a.gateway.FindByIDsWithinRadius(ctx, catalog.ClassTransportation, ids, area)
	if err != nil {
		return nil, err
	}
	out := make([]planner.POI, 0, len(records))
	for _, r := range records {
		t, ok := r.(catalog.Transportation)
		if !ok {
			continue
		}
		price := 0.0
		if t.Price != nil {
			price = *t.Price
		}
		out = append(out, planner.POI{
			ID:              t.ID,
			Class:           planner.ClassTransportation,
			Name:            fmt.Sprintf("%s (%s)", t.Kind, t.Provider),
			Lat:             t.DepartureLat,
			Lon:             t.DepartureLon,
			OpenAt:          t.DepartureTime,
			CloseAt:         t.ArrivalTime,
			DurationMinutes: int(math.Round(t.ArrivalTime.Sub(t.DepartureTime).Minutes())),
			Price:           price,
		})
	}
	return out, nil
}

// dedupeByClassID is the final pass of §4.4 step 6, deduplicating the
// merged collection by (class, id) in case a catalog record surfaced via
// more than one fetch.
func dedupeByClassID(all []planner.POI) []planner.POI {
	seen := map[string]bool{}
	out := make([]planner.POI, 0, len(all))
	for _, p := range all {
		key := string(p.Class) + ":" + p.ID.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// CountActivities returns how many activity-class POIs are in the set,
// the signal the adaptive radius policy in §4.4 watches.
func CountActivities(pois []planner.POI) int {
	n := 0
	for _, p := range pois {
		if p.Class == planner.ClassActivity {
			n++
		}
	}
	return n
}
