package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Area is a center point plus a search radius in meters, used for both
// the destination-proximity queries in C4 and the origin/destination legs
// of a transportation query.
type Area struct {
	Lat      float64
	Lon      float64
	RadiusM  float64
}

// Class tags which catalog table a Gateway operation targets.
type Class string

const (
	ClassDestination    Class = "destination"
	ClassActivity       Class = "activity"
	ClassAccommodation  Class = "accommodation"
	ClassTransportation Class = "transportation"
)

// Gateway is the Catalog Repository Gateway (C3): the narrow, descriptive
// interface the core depends on, never a concrete storage engine. Every
// operation is read-only from the core's perspective and must be safe to
// call concurrently, per §4.3 and §5.
type Gateway interface {
	// FindDestinationByNameLike returns the best single record whose name
	// matches the substring, ordered by popularity desc, or nil if none
	// match.
	FindDestinationByNameLike(ctx context.Context, nameSubstring string) (*Destination, error)

	// FindByIDsWithinRadius returns the records of the given class whose
	// ids are in the set and whose (lat, lon) fall within area's
	// great-circle disk. For ClassTransportation the records are matched
	// by id only; no radius filter is applied.
	FindByIDsWithinRadius(ctx context.Context, class Class, ids []uuid.UUID, area Area) ([]interface{}, error)

	// FindAccommodationsWithinRadius returns accommodations within area,
	// with rating >= minRating, ordered by rating desc, capped at limit.
	FindAccommodationsWithinRadius(ctx context.Context, area Area, minRating float64, limit int) ([]Accommodation, error)

	// FindTransportationBetweenAreas returns transportation records whose
	// departure falls in origin's disk and departs on/after t0, and whose
	// arrival falls in destination's disk and arrives on/before t1.
	FindTransportationBetweenAreas(ctx context.Context, origin, destination Area, t0, t1 time.Time, limit int) ([]Transportation, error)

	// GetRecord resolves a single id of the given class to its full record,
	// or nil if absent.
	GetRecord(ctx context.Context, class Class, id uuid.UUID) (interface{}, error)
}
