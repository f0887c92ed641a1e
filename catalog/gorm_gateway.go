package catalog

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"itineraryplanner/planner"
)

// GormGateway implements Gateway against a Postgres catalog via GORM,
// grounded on the teacher's core.DB query style throughout
// trips/crud_controllers.go. Per the design notes, it deliberately avoids
// PostGIS/ST_DWithin: a cheap SQL bounding-box prefilter narrows the
// candidate rows, and the exact great-circle predicate is evaluated in Go
// with planner.WithinRadius, keeping the core free of geography-extension
// dependence.
type GormGateway struct {
	db *gorm.DB
}

// NewGormGateway wraps an open *gorm.DB as a Gateway.
func NewGormGateway(db *gorm.DB) *GormGateway {
	return &GormGateway{db: db}
}

func (g *GormGateway) FindDestinationByNameLike(ctx context.Context, nameSubstring string) (*Destination, error) {
	var dest Destination
	err := g.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+nameSubstring+"%").
		Order("popularity DESC NULLS LAST").
		First(&dest).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, planner.Wrap(planner.RepositoryUnavailable, "find destination by name", err)
	}
	return &dest, nil
}

// boundingBox returns a generous lat/lon degree window covering radiusM
// around (lat, lon), used only to keep the SQL prefilter cheap; the exact
// disk membership check still happens in Go.
func boundingBox(lat, lon, radiusM float64) (latLo, latHi, lonLo, lonHi float64) {
	degLat := radiusM / 111000.0
	degLon := degLat / maxCos(lat)
	return lat - degLat, lat + degLat, lon - degLon, lon + degLon
}

func maxCos(latDeg float64) float64 {
	c := math.Cos(latDeg * math.Pi / 180)
	if c < 0.1 {
		return 0.1
	}
	return c
}

func (g *GormGateway) FindByIDsWithinRadius(ctx context.Context, class Class, ids []uuid.UUID, area Area) ([]interface{}, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	latLo, latHi, lonLo, lonHi := boundingBox(area.Lat, area.Lon, area.RadiusM)

	switch class {
	case ClassDestination:
		var rows []Destination
		if err := g.db.WithContext(ctx).
			Where("id IN ?", ids).
			Where("lat BETWEEN ? AND ?", latLo, latHi).
			Where("lon BETWEEN ? AND ?", lonLo, lonHi).
			Find(&rows).Error; err != nil {
			return nil, planner.Wrap(planner.RepositoryUnavailable, "find destinations within radius", err)
		}
		return filterWithinRadius(rows, func(d Destination) (float64, float64) { return d.Lat, d.Lon }, area), nil
	case ClassActivity:
		var rows []Activity
		if err := g.db.WithContext(ctx).
			Where("id IN ?", ids).
			Where("lat BETWEEN ? AND ?", latLo, latHi).
			Where("lon BETWEEN ? AND ?", lonLo, lonHi).
			Find(&rows).Error; err != nil {
			return nil, planner.Wrap(planner.RepositoryUnavailable, "find activities within radius", err)
		}
		return filterWithinRadius(rows, func(a Activity) (float64, float64) { return a.Lat, a.Lon }, area), nil
	case ClassAccommodation:
		var rows []Accommodation
		if err := g.db.WithContext(ctx).
			Where("id IN ?", ids).
			Where("lat BETWEEN ? AND ?", latLo, latHi).
			Where("lon BETWEEN ? AND ?", lonLo, lonHi).
			Find(&rows).Error; err != nil {
			return nil, planner.Wrap(planner.RepositoryUnavailable, "find accommodations within radius", err)
		}
		return filterWithinRadius(rows, func(a Accommodation) (float64, float64) { return a.Lat, a.Lon }, area), nil
	case ClassTransportation:
		var rows []Transportation
		if err := g.db.WithContext(ctx).
			Where("id IN ?", ids).
			Find(&rows).Error; err != nil {
			return nil, planner.Wrap(planner.RepositoryUnavailable, "find transportation within radius", err)
		}
		out := make([]interface{}, len(rows))
		for i, r := range rows {
			out[i] = r
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown class %q", class)
	}
}

func filterWithinRadius[T any](rows []T, coords func(T) (float64, float64), area Area) []interface{} {
	out := make([]interface{}, 0, len(rows))
	for _, r := range rows {
		lat, lon := coords(r)
		if planner.WithinRadius(area.Lat, area.Lon, lat, lon, area.RadiusM) {
			out = append(out, r)
		}
	}
	return out
}

func (g *GormGateway) FindAccommodationsWithinRadius(ctx context.Context, area Area, minRating float64, limit int) ([]Accommodation, error) {
	latLo, latHi, lonLo, lonHi := boundingBox(area.Lat, area.Lon, area.RadiusM)
	var rows []Accommodation
	err := g.db.WithContext(ctx).
		Where("rating >= ?", minRating).
		Where("lat BETWEEN ? AND ?", latLo, latHi).
		Where("lon BETWEEN ? AND ?", lonLo, lonHi).
		Order("rating DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, planner.Wrap(planner.RepositoryUnavailable, "find accommodations within radius", err)
	}
	out := rows[:0]
	for _, r := range rows {
		if planner.WithinRadius(area.Lat, area.Lon, r.Lat, r.Lon, area.RadiusM) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (g *GormGateway) FindTransportationBetweenAreas(ctx context.Context, origin, destination Area, t0, t1 time.Time, limit int) ([]Transportation, error) {
	oLatLo, oLatHi, oLonLo, oLonHi := boundingBox(origin.Lat, origin.Lon, origin.RadiusM)
	dLatLo, dLatHi, dLonLo, dLonHi := boundingBox(destination.Lat, destination.Lon, destination.RadiusM)

	var rows []Transportation
	err := g.db.WithContext(ctx).
		Where("departure_lat BETWEEN ? AND ?", oLatLo, oLatHi).
		Where("departure_lon BETWEEN ? AND ?", oLonLo, oLonHi).
		Where("arrival_lat BETWEEN ? AND ?", dLatLo, dLatHi).
		Where("arrival_lon BETWEEN ? AND ?", dLonLo, dLonHi).
		Where("departure_time >= ?", t0).
		Where("arrival_time <= ?", t1).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, planner.Wrap(planner.RepositoryUnavailable, "find transportation between areas", err)
	}

	out := rows[:0]
	for _, r := range rows {
		if planner.WithinRadius(origin.Lat, origin.Lon, r.DepartureLat, r.DepartureLon, origin.RadiusM) &&
			planner.WithinRadius(destination.Lat, destination.Lon, r.ArrivalLat, r.ArrivalLon, destination.RadiusM) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (g *GormGateway) GetRecord(ctx context.Context, class Class, id uuid.UUID) (interface{}, error) {
	switch class {
	case ClassDestination:
		var r Destination
		if err := g.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
			return recordOrNil(err, r)
		}
		return r, nil
	case ClassActivity:
		var r Activity
		if err := g.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
			return recordOrNil(err, r)
		}
		return r, nil
	case ClassAccommodation:
		var r Accommodation
		if err := g.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
			return recordOrNil(err, r)
		}
		return r, nil
	case ClassTransportation:
		var r Transportation
		if err := g.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
			return recordOrNil(err, r)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown class %q", class)
	}
}

func recordOrNil(err error, _ interface{}) (interface{}, error) {
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, planner.Wrap(planner.RepositoryUnavailable, "get record", err)
}
