// Package catalog defines the catalog entities and the Repository Gateway
// (C3): the read-only interface the core depends on to resolve ids,
// run geospatial proximity queries, and query inter-area transportation.
// Grounded on the teacher's GORM model + query style (trips/
// crud_controllers.go's Preload chains, core.BaseModel) and the storage
// package's StorageProvider interface shape for how this repo models a
// swappable backend behind a narrow interface.
package catalog

import (
	"time"

	"github.com/lib/pq"

	"itineraryplanner/planner"
)

// Destination is a named place with a resolvable centroid.
type Destination struct {
	planner.BaseModel
	Name        string  `gorm:"index" json:"name"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Rating      *float64 `json:"rating"`
	Popularity  *float64 `json:"popularity"`
	Country     string  `json:"country"`
	Region      string  `json:"region"`
	Timezone    string  `json:"timezone"`
}

// Activity is a bookable or free thing to do at a point in space, with an
// opening-hours string in the "HH:MM-HH:MM" grammar from §3.
type Activity struct {
	planner.BaseModel
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Lat             float64         `json:"lat"`
	Lon             float64         `json:"lon"`
	Price           *float64        `json:"price"`
	OpeningHours    string          `json:"opening_hours"`
	Rating          *float64        `json:"rating"`
	Type            string          `json:"type"`
	DurationMinutes *int            `json:"duration_minutes"`
	Tags            pq.StringArray  `gorm:"type:text[]" json:"tags"`
}

// Accommodation is a place to stay, billed per night.
type Accommodation struct {
	planner.BaseModel
	Name          string         `json:"name"`
	Lat           float64        `json:"lat"`
	Lon           float64        `json:"lon"`
	PricePerNight *float64       `json:"price_per_night"`
	Rating        *float64       `json:"rating"`
	Amenities     pq.StringArray `gorm:"type:text[]" json:"amenities"`
	StarRating    *int           `json:"star_rating"`
}

// Transportation connects two areas at fixed instants; invariant:
// DepartureTime < ArrivalTime.
type Transportation struct {
	planner.BaseModel
	Kind            string    `json:"kind"`
	DepartureLat    float64   `json:"departure_lat"`
	DepartureLon    float64   `json:"departure_lon"`
	DepartureTime   time.Time `json:"departure_time"`
	ArrivalLat      float64   `json:"arrival_lat"`
	ArrivalLon      float64   `json:"arrival_lon"`
	ArrivalTime     time.Time `json:"arrival_time"`
	Price           *float64  `json:"price"`
	Provider        string    `json:"provider"`
}

// Models returns every entity pointer for AutoMigrate, the teacher's
// database.GetAllModels() pattern narrowed to this core's read-only
// catalog.
func Models() []interface{} {
	return []interface{}{
		&Destination{}, &Activity{}, &Accommodation{}, &Transportation{},
	}
}
