package plan

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"itineraryplanner/catalog"
	"itineraryplanner/planner"
)

// enrichPOIs implements §4.7 step 11's per-POI enrichment via C3's
// get_record, fanning the lookups out concurrently per §5. Enrichment is
// best-effort: a failed or missing lookup leaves the POI's catalog name as
// the display fallback and is logged rather than failing the plan.
func (a *Assembler) enrichPOIs(ctx context.Context, day []planner.ScheduledPOI) {
	g, gctx := errgroup.WithContext(ctx)
	for i := range day {
		i := i
		g.Go(func() error {
			name, description, err := a.lookupDisplay(gctx, day[i].POI)
			if err != nil {
				a.log.Warn("poi enrichment failed, using catalog name",
					zap.String("poi_id", day[i].POI.ID.String()), zap.Error(err))
				return nil
			}
			if name != "" {
				day[i].DisplayName = name
			}
			day[i].Description = description
			return nil
		})
	}
	_ = g.Wait()
}

// lookupDisplay resolves a POI's full catalog record via GetRecord and
// extracts the display name/description/rating per its class.
func (a *Assembler) lookupDisplay(ctx context.Context, p planner.POI) (name, description string, err error) {
	record, err := a.gateway.GetRecord(ctx, catalog.Class(p.Class), p.ID)
	if err != nil {
		return "", "", err
	}
	if record == nil {
		return "", "", nil
	}
	switch r := record.(type) {
	case catalog.Destination:
		return r.Name, ratedDescription(r.Description, r.Rating), nil
	case catalog.Activity:
		return r.Name, ratedDescription(r.Description, r.Rating), nil
	case catalog.Accommodation:
		return r.Name, accommodationDescription(r), nil
	case catalog.Transportation:
		return fmt.Sprintf("%s (%s)", r.Kind, r.Provider), "", nil
	default:
		return "", "", nil
	}
}

func ratedDescription(description string, rating *float64) string {
	if rating == nil {
		return description
	}
	if description == "" {
		return fmt.Sprintf("Rated %.1f/5", *rating)
	}
	return fmt.Sprintf("%s (rated %.1f/5)", description, *rating)
}

func accommodationDescription(acc catalog.Accommodation) string {
	var parts []string
	if acc.StarRating != nil {
		parts = append(parts, fmt.Sprintf("%d-star", *acc.StarRating))
	}
	if acc.Rating != nil {
		parts = append(parts, fmt.Sprintf("rated %.1f/5", *acc.Rating))
	}
	if len(acc.Amenities) > 0 {
		parts = append(parts, "amenities: "+strings.Join([]string(acc.Amenities), ", "))
	}
	return strings.Join(parts, "; ")
}
