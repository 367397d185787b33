package models

import "encoding/json"

// CompositeLeg is a contiguous slice of a contributed route's coordinate
// sequence, identified by inclusive start and end indexes into the source
// route. The source sequence is never copied or mutated.
type CompositeLeg struct {
	Route *ContributedRoute
	From  int // inclusive
	To    int // inclusive
}

// Coords returns the leg's coordinate sub-range in original travel order.
func (l CompositeLeg) Coords() Path {
	return l.Route.Coords[l.From : l.To+1]
}

// MarshalJSON serializes the leg in the shape the clients draw:
// route metadata plus the sliced coordinate sequence.
func (l CompositeLeg) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		RouteID     string `json:"route_id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Coords      Path   `json:"coords"`
	}{
		RouteID:     l.Route.ID.String(),
		Name:        l.Route.Name,
		Description: l.Route.Description,
		Coords:      l.Coords(),
	})
}

// CompositeJourney chains one or two contributed-route legs so that the first
// coordinate of the first leg is the requested start, the last coordinate of
// the final leg is the requested end, and consecutive legs share their
// boundary coordinate.
type CompositeJourney struct {
	Legs []CompositeLeg `json:"legs"`
}
