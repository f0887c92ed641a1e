package poi

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itineraryplanner/catalog"
	"itineraryplanner/planner"
)

type fakeGateway struct {
	destinations    []catalog.Destination
	activities      []catalog.Activity
	accommodations  []catalog.Accommodation
	transportations []catalog.Transportation
}

func (f *fakeGateway) FindDestinationByNameLike(ctx context.Context, nameSubstring string) (*catalog.Destination, error) {
	if len(f.destinations) == 0 {
		return nil, nil
	}
	return &f.destinations[0], nil
}

func (f *fakeGateway) FindByIDsWithinRadius(ctx context.Context, class catalog.Class, ids []uuid.UUID, area catalog.Area) ([]interface{}, error) {
	var out []interface{}
	switch class {
	case catalog.ClassDestination:
		for _, d := range f.destinations {
			out = append(out, d)
		}
	case catalog.ClassActivity:
		for _, a := range f.activities {
			out = append(out, a)
		}
	case catalog.ClassTransportation:
		for _, tr := range f.transportations {
			out = append(out, tr)
		}
	}
	return out, nil
}

func (f *fakeGateway) FindAccommodationsWithinRadius(ctx context.Context, area catalog.Area, minRating float64, limit int) ([]catalog.Accommodation, error) {
	return f.accommodations, nil
}

func (f *fakeGateway) FindTransportationBetweenAreas(ctx context.Context, origin, destination catalog.Area, t0, t1 time.Time, limit int) ([]catalog.Transportation, error) {
	return f.transportations, nil
}

func (f *fakeGateway) GetRecord(ctx context.Context, class catalog.Class, id uuid.UUID) (interface{}, error) {
	return nil, nil
}

func floatPtr(f float64) *float64 { return &f }

func TestBuildPOISetDedupsActivitiesByNameAndLocation(t *testing.T) {
	gw := &fakeGateway{
		activities: []catalog.Activity{
			{BaseModel: planner.BaseModel{ID: uuid.New()}, Name: "City Museum", Lat: 48.8566, Lon: 2.3522, OpeningHours: "09:00-17:00"},
			{BaseModel: planner.BaseModel{ID: uuid.New()}, Name: "city museum", Lat: 48.8566, Lon: 2.3522, OpeningHours: "09:00-17:00"},
		},
	}
	a := New(gw, nil)
	out, err := a.BuildPOISet(context.Background(), Input{
		ActIDs:     []uuid.UUID{uuid.New(), uuid.New()},
		Day0Start:  time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		Budget:     1000,
		BudgetFrac: 0.10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, CountActivities(out))
}

func TestBuildPOISetAppliesBudgetCap(t *testing.T) {
	gw := &fakeGateway{
		activities: []catalog.Activity{
			{BaseModel: planner.BaseModel{ID: uuid.New()}, Name: "Cheap Tour", Lat: 48.8, Lon: 2.3, OpeningHours: "09:00-17:00", Price: floatPtr(50)},
			{BaseModel: planner.BaseModel{ID: uuid.New()}, Name: "Pricey Tour", Lat: 48.9, Lon: 2.4, OpeningHours: "09:00-17:00", Price: floatPtr(500)},
			{BaseModel: planner.BaseModel{ID: uuid.New()}, Name: "Free Tour", Lat: 48.7, Lon: 2.2, OpeningHours: "09:00-17:00"},
		},
	}
	a := New(gw, nil)
	out, err := a.BuildPOISet(context.Background(), Input{
		ActIDs:     []uuid.UUID{uuid.New(), uuid.New(), uuid.New()},
		Day0Start:  time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		Budget:     1000,
		BudgetFrac: 0.10,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, CountActivities(out))
	for _, p := range out {
		if p.Class == planner.ClassActivity {
			assert.NotEqual(t, "Pricey Tour", p.Name)
		}
	}
}

func TestBuildPOISetNullPriceAlwaysPassesBudgetCap(t *testing.T) {
	gw := &fakeGateway{
		activities: []catalog.Activity{
			{BaseModel: planner.BaseModel{ID: uuid.New()}, Name: "Mystery Tour", Lat: 48.8, Lon: 2.3, OpeningHours: "09:00-17:00"},
		},
	}
	a := New(gw, nil)
	out, err := a.BuildPOISet(context.Background(), Input{
		ActIDs:     []uuid.UUID{uuid.New()},
		Day0Start:  time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		Budget:     1,
		BudgetFrac: 0.10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, CountActivities(out))
}

func TestBuildPOISetDedupesAcrossClassesByClassAndID(t *testing.T) {
	sharedID := uuid.New()
	all := []planner.POI{
		{ID: sharedID, Class: planner.ClassActivity},
		{ID: sharedID, Class: planner.ClassActivity},
		{ID: sharedID, Class: planner.ClassDestination},
	}
	out := dedupeByClassID(all)
	assert.Len(t, out, 2)
}

func TestBuildPOISetAccommodationRatingFloorIsStrictNoRelax(t *testing.T) {
	gw := &fakeGateway{accommodations: nil}
	a := New(gw, nil)
	out, err := a.BuildPOISet(context.Background(), Input{
		Day0Start:   time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		RatingFloor: 4.5,
		AccomCap:    10,
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestParseOpeningHoursFallsBackOnMalformedInput(t *testing.T) {
	day := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	open, close, ok := ParseOpeningHours("not-a-window", day)
	assert.False(t, ok)
	assert.Equal(t, 9, open.Hour())
	assert.Equal(t, 17, close.Hour())
}

func TestParseOpeningHoursParsesWellFormedInput(t *testing.T) {
	day := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	open, close, ok := ParseOpeningHours("10:30-19:00", day)
	require.True(t, ok)
	assert.Equal(t, 10, open.Hour())
	assert.Equal(t, 30, open.Minute())
	assert.Equal(t, 19, close.Hour())
}
