package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Coordinate is a (latitude, longitude) pair in decimal degrees.
//
// Coordinates compare by exact value equality, not proximity. That exactness
// is load-bearing for route composition: every pair of coordinates the
// composer compares originates from the same street-network snapping step,
// so two values that denote the same graph node are bit-for-bit identical.
type Coordinate struct {
	Lat float64
	Lon float64
}

// MarshalJSON serializes a coordinate as a [lat, lon] array, which is the
// wire format used by the mobile clients.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lon})
}

// UnmarshalJSON parses a [lat, lon] array.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("invalid coordinate: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("invalid coordinate: expected [lat, lon], got %d elements", len(pair))
	}
	c.Lat = pair[0]
	c.Lon = pair[1]
	return nil
}

// Path is an ordered sequence of coordinates. Order is semantic: it is the
// travel order of the route, and reversing it changes meaning.
type Path []Coordinate

// Value serializes the path as JSON for storage in the routes.coords column.
func (p Path) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan deserializes the path from the routes.coords column.
func (p *Path) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = nil
		return nil
	default:
		return fmt.Errorf("unsupported type for Path: %T", src)
	}
}
