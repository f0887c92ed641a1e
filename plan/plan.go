// Package plan implements the Plan Assembler (C7): the orchestration of
// C1 through C6 into one `generate` call, plus the `reorder_preview` and
// `regenerate_day` preview operations from §6. Grounded on the source's
// generate_itinerary endpoint handler (backend/app/api/itinerary.py),
// which is the single file that ties every other component together.
package plan

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"itineraryplanner/catalog"
	"itineraryplanner/nlpparse"
	"itineraryplanner/planner"
	"itineraryplanner/poi"
	"itineraryplanner/reorder"
	"itineraryplanner/router"
	"itineraryplanner/scorer"
)

// Config carries the process-wide defaults §6/§8 call out.
type Config struct {
	DefaultRadiusKM    int
	MaxItineraryDays   int
	GroundSpeedKPH     float64
	BudgetFraction     float64
	CandidateK         int
	AccommodationFloor float64
	AccommodationCap   int
	AdaptiveRadiiM     []float64
	SoftDeadline       time.Duration
}

// Assembler is the Plan Assembler (C7), the core's single entry point.
type Assembler struct {
	parser     *nlpparse.Parser
	scorers    *scorer.Registry
	gateway    catalog.Gateway
	geocoder   catalog.Geocoder
	poiBuilder *poi.Assembler
	router     *router.Router
	reorderer  *reorder.Registry
	cfg        Config
	log        *zap.Logger
}

// New wires every component together into one Assembler.
func New(
	parser *nlpparse.Parser,
	scorers *scorer.Registry,
	gateway catalog.Gateway,
	geocoder catalog.Geocoder,
	poiBuilder *poi.Assembler,
	rtr *router.Router,
	reorderer *reorder.Registry,
	cfg Config,
	log *zap.Logger,
) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{
		parser: parser, scorers: scorers, gateway: gateway, geocoder: geocoder,
		poiBuilder: poiBuilder, router: rtr, reorderer: reorderer, cfg: cfg, log: log,
	}
}

// CallerContext carries boundary-supplied identity, per §6's generate
// signature; the core never interprets UserID beyond passing it through to
// callers/loggers.
type CallerContext struct {
	UserID          string
	UserPreferences *planner.ParsedRequest
}

// Overrides lets callers tune a single generate call, per §6.
type Overrides struct {
	UseReorderer *bool
	RadiusKM     *int
	Budget       *float64
}

// Generate implements the full §4.7 orchestration for one request.
func (a *Assembler) Generate(ctx context.Context, text string, caller CallerContext, overrides Overrides) (*planner.Itinerary, error) {
	if a.cfg.SoftDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.SoftDeadline)
		defer cancel()
	}

	// Step 1: parse.
	parsed, err := a.parser.Parse(text)
	if err != nil {
		return nil, err
	}

	// Step 2: resolve locations.
	destinationName := "My Trip"
	var originName string
	if len(parsed.Locations) > 0 {
		destinationName = parsed.Locations[len(parsed.Locations)-1]
	}
	if len(parsed.Locations) >= 2 {
		originName = parsed.Locations[len(parsed.Locations)-2]
	}

	// Step 3: apply caller defaults for anything C1 left unset.
	budget := 0.0
	if parsed.Budget != nil {
		budget = *parsed.Budget
	} else if caller.UserPreferences != nil && caller.UserPreferences.Budget != nil {
		budget = *caller.UserPreferences.Budget
	}
	if overrides.Budget != nil {
		budget = *overrides.Budget
	}
	pace := planner.PaceByName(parsed.Pace)
	interests := parsed.Interests
	if len(interests) == 0 && caller.UserPreferences != nil {
		interests = caller.UserPreferences.Interests
	}

	radiusKM := a.cfg.DefaultRadiusKM
	if overrides.RadiusKM != nil {
		radiusKM = *overrides.RadiusKM
	}

	useReorderer := a.reorderer.Enabled()
	if overrides.UseReorderer != nil {
		useReorderer = *overrides.UseReorderer && a.reorderer.Enabled()
	}

	// Step 4: compute trip days, capped at the configured maximum.
	dates := expandDateRange(parsed.DateRange)
	tripDays := len(dates)
	if tripDays == 0 {
		tripDays = 1
		dates = []time.Time{time.Now().UTC()}
	}
	if tripDays > a.cfg.MaxItineraryDays {
		tripDays = a.cfg.MaxItineraryDays
		dates = dates[:tripDays]
	}

	// Step 5: resolve centroids.
	destCentroid, err := a.resolveCentroid(ctx, destinationName)
	if err != nil {
		return nil, err
	}
	var originCentroid *catalog.Area
	if originName != "" {
		if c, err := a.resolveCentroid(ctx, originName); err == nil {
			originCentroid = c
		}
	}

	queryText := text
	if len(interests) > 0 {
		queryText = text + " " + joinWords(interests)
	}

	// Step 6: per-class candidate ids, fanned out concurrently (§5).
	k := a.cfg.CandidateK
	var destIDs, actIDs, accIDs, transIDs []uuid.UUID
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := a.scorers.Destination.TopK(gctx, queryText, k)
		destIDs = ids
		return err
	})
	g.Go(func() error {
		ids, err := a.scorers.Activity.TopK(gctx, queryText, k)
		actIDs = ids
		return err
	})
	g.Go(func() error {
		ids, err := a.scorers.Accommodation.TopK(gctx, queryText, k)
		accIDs = ids
		return err
	})
	g.Go(func() error {
		ids, err := a.scorers.Transportation.TopK(gctx, queryText, k)
		transIDs = ids
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, planner.Wrap(planner.ScoringUnavailable, "candidate scoring failed", err)
	}

	// Step 7: inter-area transportation, falling back to C2's transportation
	// class candidates when the direct geo query yields nothing.
	if originCentroid != nil && len(dates) > 0 {
		t0 := dates[0]
		t1 := t0.Add(24 * time.Hour)
		direct, err := a.gateway.FindTransportationBetweenAreas(ctx, *originCentroid, *destCentroid, t0, t1, k)
		if err == nil && len(direct) > 0 {
			transIDs = transIDs[:0]
			for _, tr := range direct {
				transIDs = append(transIDs, tr.ID)
			}
		}
	}

	// Step 8: adaptive-radius POI assembly.
	radiiM := adaptiveRadii(radiusKM, a.cfg.AdaptiveRadiiM)
	var pois []planner.POI
	for i, rM := range radiiM {
		built, err := a.poiBuilder.BuildPOISet(ctx, poi.Input{
			DestIDs: destIDs, ActIDs: actIDs, AccIDs: accIDs, TransIDs: transIDs,
			Day0Start:   dates[0],
			Center:      catalog.Area{Lat: destCentroid.Lat, Lon: destCentroid.Lon},
			RadiusM:     rM,
			Budget:      budget,
			BudgetFrac:  a.cfg.BudgetFraction,
			RatingFloor: a.cfg.AccommodationFloor,
			AccomCap:    a.cfg.AccommodationCap,
		})
		if err != nil {
			return nil, err
		}
		pois = built
		if poi.CountActivities(pois) >= 3 || i == len(radiiM)-1 {
			break
		}
		a.log.Info("adaptive radius retry", zap.Float64("radius_m", rM), zap.Int("activities_found", poi.CountActivities(pois)))
	}

	// Step 9: empty plan check.
	if len(pois) == 0 {
		return nil, planner.New(planner.EmptyPlan, "no points of interest survived candidate retrieval and filtering")
	}

	// Step 10: optional reorder bias.
	if useReorderer {
		pois = a.applyReorderBias(pois)
	}

	// Step 11: per-day scheduling.
	days, err := a.scheduleDays(ctx, dates, pace, pois, *destCentroid)
	if err != nil {
		return nil, err
	}

	itin := &planner.Itinerary{
		ID:        uuid.New(),
		Name:      fmt.Sprintf("Trip to %s", destinationName),
		StartDate: dates[0],
		EndDate:   dates[len(dates)-1],
		Days:      days,
		Budget:    budget,
		Intent:    parsed,
	}
	return itin, nil
}

func (a *Assembler) resolveCentroid(ctx context.Context, name string) (*catalog.Area, error) {
	dest, err := a.gateway.FindDestinationByNameLike(ctx, name)
	if err != nil {
		return nil, err
	}
	if dest != nil {
		return &catalog.Area{Lat: dest.Lat, Lon: dest.Lon}, nil
	}
	if a.geocoder != nil {
		if lat, lon, err := a.geocoder.Resolve(ctx, name); err == nil {
			return &catalog.Area{Lat: lat, Lon: lon}, nil
		}
	}
	return nil, planner.New(planner.DestinationNotFound, fmt.Sprintf("could not resolve destination %q", name))
}

// applyReorderBias reorders the activity subset of pois per §4.6's
// integration rule: activities in the reorderer's output order (rank
// 0..n-1), followed by every non-activity POI, preserving their relative
// order.
func (a *Assembler) applyReorderBias(pois []planner.POI) []planner.POI {
	var actIDs []uuid.UUID
	for _, p := range pois {
		if p.Class == planner.ClassActivity {
			actIDs = append(actIDs, p.ID)
		}
	}
	if len(actIDs) == 0 {
		return pois
	}
	ordered := a.reorderer.ReorderActivities(actIDs)
	rank := make(map[uuid.UUID]int, len(ordered))
	for i, id := range ordered {
		rank[id] = i
	}

	out := make([]planner.POI, len(pois))
	copy(out, pois)
	sort.SliceStable(out, func(i, j int) bool {
		ai, aOK := rankGroup(out[i], rank)
		aj, bOK := rankGroup(out[j], rank)
		if aOK != bOK {
			return aOK // ranked activities sort before everything else
		}
		return ai < aj
	})
	return out
}

func rankGroup(p planner.POI, rank map[uuid.UUID]int) (int, bool) {
	if p.Class != planner.ClassActivity {
		return 0, false
	}
	r, ok := rank[p.ID]
	if !ok {
		return 0, false
	}
	return r, true
}

func (a *Assembler) scheduleDays(ctx context.Context, dates []time.Time, pace planner.Pace, pool []planner.POI, destCentroid catalog.Area) ([][]planner.ScheduledPOI, error) {
	remaining := make([]planner.POI, len(pool))
	copy(remaining, pool)

	anchorLat, anchorLon := destCentroid.Lat, destCentroid.Lon
	days := make([][]planner.ScheduledPOI, len(dates))

	for d, date := range dates {
		select {
		case <-ctx.Done():
			return nil, planner.Wrap(planner.DeadlineExceeded, "generation deadline exceeded", ctx.Err())
		default:
		}

		dayStart := time.Date(date.Year(), date.Month(), date.Day(), 9, 0, 0, 0, time.UTC)
		dayEnd := dayStart.Add(time.Duration(pace.MaxHours) * time.Hour)

		scheduled := a.router.ScheduleDay(anchorLat, anchorLon, dayStart, dayStart, dayEnd, remaining)
		if len(scheduled) > pace.DailyActivities {
			scheduled = scheduled[:pace.DailyActivities]
		}

		dayOut := make([]planner.ScheduledPOI, 0, len(scheduled))
		chosenIDs := map[string]bool{}
		cursorTime := dayStart
		cursorLat, cursorLon := anchorLat, anchorLon
		for _, p := range scheduled {
			travel := planner.TravelTime(cursorLat, cursorLon, p.Lat, p.Lon, a.cfg.GroundSpeedKPH)
			start := cursorTime.Add(time.Duration(travel) * time.Minute)
			if p.OpenAt.After(start) {
				start = p.OpenAt
			}
			end := start.Add(time.Duration(p.DurationMinutes) * time.Minute)

			dayOut = append(dayOut, planner.ScheduledPOI{
				POI:         p,
				Start:       start,
				End:         end,
				DisplayName: p.Name,
			})
			cursorTime, cursorLat, cursorLon = end, p.Lat, p.Lon
			chosenIDs[string(p.Class)+":"+p.ID.String()] = true

			anchorLat, anchorLon = p.Lat, p.Lon
		}

		a.enrichPOIs(ctx, dayOut)
		days[d] = dayOut

		filtered := remaining[:0]
		for _, p := range remaining {
			if !chosenIDs[string(p.Class)+":"+p.ID.String()] {
				filtered = append(filtered, p)
			}
		}
		remaining = filtered
	}

	return days, nil
}

func expandDateRange(dates []time.Time) []time.Time {
	if len(dates) == 0 {
		return nil
	}
	if len(dates) == 1 {
		return dates
	}
	start, end := dates[0], dates[1]
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func joinWords(words []string) string {
	out := ""
	for i, w := range words {
		if i > 0 {
			out += " "
		}
		out += w
	}
	return out
}

func adaptiveRadii(userRadiusKM int, tiersM []float64) []float64 {
	radii := make([]float64, len(tiersM))
	copy(radii, tiersM)
	if len(radii) > 0 {
		radii[0] = float64(userRadiusKM) * 1000
	}
	return radii
}
