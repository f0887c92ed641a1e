package planner

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel is embedded by every catalog entity, grounded on the teacher's
// core.BaseModel: a UUID primary key auto-generated on insert plus
// GORM-managed timestamps.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Date handles date-only JSON values ("2006-01-02"), falling back to full
// RFC3339 timestamps — the same dual-format contract as the teacher's
// core.Date, generalized here for ParsedRequest's date range.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = t
		return nil
	}
	return fmt.Errorf("invalid date format: %s", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("\"%s\"", d.Format("2006-01-02"))), nil
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

func (d *Date) Scan(value interface{}) error {
	if value == nil {
		d.Time = time.Time{}
		return nil
	}
	if t, ok := value.(time.Time); ok {
		d.Time = t
		return nil
	}
	return fmt.Errorf("cannot scan %T into Date", value)
}

func StringPtr(s string) *string   { return &s }
func IntPtr(i int) *int            { return &i }
func Float64Ptr(f float64) *float64 { return &f }

// Class tags a POI with the catalog entity kind it was built from.
type Class string

const (
	ClassDestination    Class = "destination"
	ClassActivity       Class = "activity"
	ClassAccommodation  Class = "accommodation"
	ClassTransportation Class = "transportation"
)

// POI is the uniform working representation every downstream component
// (C4, C5, C6, C7) operates on regardless of catalog entity shape — the
// tagged-variant replacement for the source's runtime-typed payload, per
// the design notes.
type POI struct {
	ID              uuid.UUID
	Class           Class
	Name            string
	Lat             float64
	Lon             float64
	OpenAt          time.Time
	CloseAt         time.Time
	DurationMinutes int
	Price           float64
}

// Pace is a named scheduling preset.
type Pace struct {
	Name            string
	DailyActivities int
	MaxHours        float64
}

var (
	PaceRelaxed  = Pace{Name: "relaxed", DailyActivities: 2, MaxHours: 4}
	PaceModerate = Pace{Name: "moderate", DailyActivities: 4, MaxHours: 8}
	PaceIntense  = Pace{Name: "intense", DailyActivities: 6, MaxHours: 12}
)

// PaceByName resolves a pace key, defaulting to moderate for unknown keys.
func PaceByName(name string) Pace {
	switch name {
	case "relaxed":
		return PaceRelaxed
	case "intense":
		return PaceIntense
	default:
		return PaceModerate
	}
}

// ParsedRequest is C1's output.
type ParsedRequest struct {
	Locations       []string
	DateRange       []time.Time
	Interests       []string
	Budget          *float64
	Pace            string
	GroupSize       *int
	Style           *string
	ConfidenceScore float64
	Warnings        []string
}

// Itinerary is C7's output.
type Itinerary struct {
	ID        uuid.UUID
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Days      [][]ScheduledPOI
	Budget    float64
	Intent    ParsedRequest
}

// ScheduledPOI is a POI enriched with the day's concrete start/end instants
// and display metadata resolved via the catalog gateway.
type ScheduledPOI struct {
	POI         POI
	Start       time.Time
	End         time.Time
	DisplayName string
	Description string
}
