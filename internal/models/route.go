package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ContributedRoute is a fixed, named sequence of coordinates representing a
// known transit path, supplied by a user. Routes are append-only: once
// ingested they are immutable for the purposes of composition.
type ContributedRoute struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	StartTime   string    `json:"start_time" db:"start_time"` // daily service window, "HH:MM"
	EndTime     string    `json:"end_time" db:"end_time"`
	Coords      Path      `json:"coords" db:"coords"`
	UploaderID  uuid.UUID `json:"uploader_id" db:"uploader_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// RouteArea is an administrative-area tag attached to a route. Region and
// state rows are created lazily on first use (find-or-insert by name), so any
// subset of the three dimensions may be present.
type RouteArea struct {
	RouteID  uuid.UUID `json:"route_id" db:"route_id"`
	RegionID *int64    `json:"region_id" db:"region_id"`
	StateID  *int64    `json:"state_id" db:"state_id"`
	CityID   *int64    `json:"city_id" db:"city_id"`
}

// AreaFilter narrows candidate selection to one administrative dimension.
// Precedence is city > state > region: the first non-nil filter wins and the
// rest are ignored. All-nil means unscoped, which returns the whole catalog.
type AreaFilter struct {
	CityID   *int64
	StateID  *int64
	RegionID *int64
}

// IsZero reports whether no dimension is set.
func (f AreaFilter) IsZero() bool {
	return f.CityID == nil && f.StateID == nil && f.RegionID == nil
}

// ContributeRouteRequest is the body of POST /api/v1/routes/contribute.
type ContributeRouteRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	StartTime   string  `json:"start_time" binding:"required"`
	EndTime     string  `json:"end_time" binding:"required"`
	Coords      Path    `json:"coords" binding:"required"`
	UploaderID  string  `json:"uploader_id" binding:"required"`
	Region      *string `json:"region"`
	State       *string `json:"state"`
	CityID      *int64  `json:"city_id"`
}

// Validate checks the parts gin's binding tags cannot express.
func (r *ContributeRouteRequest) Validate() error {
	if len(r.Coords) < 2 {
		return fmt.Errorf("a route needs at least 2 coordinates, got %d", len(r.Coords))
	}
	if _, err := uuid.Parse(r.UploaderID); err != nil {
		return fmt.Errorf("invalid uploader_id: %w", err)
	}
	return nil
}
