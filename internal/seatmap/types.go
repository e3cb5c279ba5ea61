package seatmap

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"
)

// Classification is the fare tier of a trip and of every seat on it
type Classification string

const (
	ClassificationStandard Classification = "standard"
	ClassificationVIP      Classification = "vip"
)

// Valid reports whether c is a known classification
func (c Classification) Valid() bool {
	return c == ClassificationStandard || c == ClassificationVIP
}

// ParseClassification validates a raw classification value
func ParseClassification(raw string) (Classification, error) {
	c := Classification(raw)
	if !c.Valid() {
		return "", &Error{Kind: ErrUnknownClassification, Field: "classification", Message: fmt.Sprintf("got %q", raw)}
	}
	return c, nil
}

// SeatStatus is the availability of a seat. Only the booking subsystem moves a seat
// out of available.
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusHeld      SeatStatus = "held"
	SeatStatusBooked    SeatStatus = "booked"
)

// Valid reports whether s is a known status
func (s SeatStatus) Valid() bool {
	switch s {
	case SeatStatusAvailable, SeatStatusHeld, SeatStatusBooked:
		return true
	}
	return false
}

// Frozen reports whether a seat in this status keeps the class and price it was sold at
func (s SeatStatus) Frozen() bool {
	return s == SeatStatusHeld || s == SeatStatusBooked
}

// FeatureSet is a set of amenity tags, stored as TEXT[] in PostgreSQL.
// The canonical form is sorted with no duplicates.
type FeatureSet []string

// NewFeatureSet returns the canonical form of tags
func NewFeatureSet(tags ...string) FeatureSet {
	seen := make(map[string]struct{}, len(tags))
	out := make(FeatureSet, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Equal compares two sets regardless of order or duplicates
func (f FeatureSet) Equal(other FeatureSet) bool {
	a, b := NewFeatureSet(f...), NewFeatureSet(other...)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Has reports whether tag is in the set
func (f FeatureSet) Has(tag string) bool {
	for _, t := range f {
		if t == tag {
			return true
		}
	}
	return false
}

// Value implements the driver.Valuer interface
func (f FeatureSet) Value() (driver.Value, error) {
	if f == nil {
		return pq.Array([]string{}).Value()
	}
	return pq.Array([]string(f)).Value()
}

// Scan implements the sql.Scanner interface
func (f *FeatureSet) Scan(src interface{}) error {
	if src == nil {
		*f = FeatureSet{}
		return nil
	}
	slice := (*[]string)(f)
	return pq.Array(slice).Scan(src)
}

// Position is one cell of a generated layout
type Position struct {
	SeatNumber int    `json:"seat_number"`
	Row        int    `json:"row"`
	Column     int    `json:"column"`
	RowLabel   string `json:"row_label"`
}

// Seat is one bookable unit of a trip
type Seat struct {
	ID            string         `json:"id,omitempty" db:"id"`
	TripID        string         `json:"trip_id" db:"trip_id"`
	SeatNumber    int            `json:"seat_number" db:"seat_number"`
	Row           int            `json:"row" db:"row_number"`
	Column        int            `json:"column" db:"column_number"`
	SeatClass     Classification `json:"seat_class" db:"seat_class"`
	Status        SeatStatus     `json:"status" db:"status"`
	PriceModifier float64        `json:"price_modifier" db:"price_modifier"`
	FinalPrice    float64        `json:"final_price" db:"final_price"`
	Features      FeatureSet     `json:"features" db:"features"`
	IsActive      bool           `json:"is_active" db:"is_active"`
	CreatedAt     time.Time      `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at,omitempty" db:"updated_at"`
}

// SeatUpdate is a corrective write for one stored seat. Nil fields are unchanged.
// Row and Column apply to every seat; class, price and amenities only to available ones.
type SeatUpdate struct {
	ID            string          `json:"id,omitempty"`
	SeatNumber    int             `json:"seat_number"`
	Row           *int            `json:"row,omitempty"`
	Column        *int            `json:"column,omitempty"`
	SeatClass     *Classification `json:"seat_class,omitempty"`
	PriceModifier *float64        `json:"price_modifier,omitempty"`
	FinalPrice    *float64        `json:"final_price,omitempty"`
	Features      FeatureSet      `json:"features,omitempty"`
	Reactivate    bool            `json:"reactivate,omitempty"`
}

// Plan is the minimal set of writes that brings stored seats in line with the trip
type Plan struct {
	TripID       string       `json:"trip_id"`
	ToInsert     []Seat       `json:"to_insert"`
	ToUpdate     []SeatUpdate `json:"to_update"`
	ToDeactivate []Seat       `json:"to_deactivate"`
}

// IsEmpty reports whether the plan has nothing to write
func (p Plan) IsEmpty() bool {
	return len(p.ToInsert) == 0 && len(p.ToUpdate) == 0 && len(p.ToDeactivate) == 0
}

// Counts summarises the plan for logs and API responses
func (p Plan) Counts() PlanCounts {
	return PlanCounts{
		Inserted:    len(p.ToInsert),
		Updated:     len(p.ToUpdate),
		Deactivated: len(p.ToDeactivate),
	}
}

// PlanCounts is the size of each write set of a plan
type PlanCounts struct {
	Inserted    int `json:"inserted"`
	Updated     int `json:"updated"`
	Deactivated int `json:"deactivated"`
}
