package models

// RouteAreaRequest scopes a directions query to an administrative area.
// Region and state are referenced by name (lazily created on first use),
// cities by their pre-seeded id.
type RouteAreaRequest struct {
	Region *string `json:"region"`
	State  *string `json:"state"`
	CityID *int64  `json:"city_id"`
}

// DirectionsRequest is the body of POST /api/v1/directions.
type DirectionsRequest struct {
	Origin      *Coordinate       `json:"origin" binding:"required"`
	Destination *Coordinate       `json:"destination" binding:"required"`
	RouteArea   *RouteAreaRequest `json:"route_area"`
}

// DirectionsResponse lists the composed journeys, plus the direct walking
// path between the snapped origin and destination for display and fallback.
// Routes is always present: an empty list means no composition was found,
// which is a legitimate result and not an error.
type DirectionsResponse struct {
	Routes       []CompositeJourney `json:"routes"`
	WalkingRoute Path               `json:"walking_route"`
}

// RoutePlanRequest is the body of POST /api/v1/route: an ordered list of
// pins to be chained into a single drivable route.
type RoutePlanRequest struct {
	Pins Path `json:"pins" binding:"required"`
}

// RoutePlanResponse is the chained road polyline through all pins.
type RoutePlanResponse struct {
	Route Path `json:"route"`
}
