// Package compose stitches contributed routes into journeys that connect a
// requested start coordinate to a requested end coordinate.
//
// The composer is a pure function of its inputs: no I/O, no shared state,
// safe to call concurrently for independent requests. Coordinates are
// compared by exact equality; both sides of every comparison come from the
// same street-network snapping step, so matching values are identical.
package compose

import (
	"github.com/communitytransit/directions-backend/internal/models"
)

// anchorView is a derived view over a contributed route: for a start anchor
// the suffix from idx to the end of the route, for an end anchor the prefix
// from the beginning up to and including idx.
type anchorView struct {
	route *models.ContributedRoute
	idx   int
}

// Journeys returns every journey of one or two contributed-route legs that
// connects start to end, in discovery order: candidate order, then anchor
// order, then first-match order.
//
// Direct (single-leg) routes always win: when at least one candidate carries
// start and end in travel order, only single-leg journeys are returned and no
// two-leg composition is attempted, even if a shorter one exists. Two-leg
// journeys join a route containing start to a route containing end at the
// first shared waypoint; deeper compositions are out of scope and would need
// a general reachability search rather than this fixed-depth policy.
//
// The result is never nil: finding nothing is an empty slice, not an error.
func Journeys(start, end models.Coordinate, candidates []models.ContributedRoute) []models.CompositeJourney {
	journeys := []models.CompositeJourney{}

	// Index pass: collect every occurrence of start and end across the
	// candidate set. A route may anchor both lists.
	var startViews, endViews []anchorView
	for r := range candidates {
		route := &candidates[r]
		for i, c := range route.Coords {
			if c == start {
				startViews = append(startViews, anchorView{route: route, idx: i})
			}
			if c == end {
				endViews = append(endViews, anchorView{route: route, idx: i})
			}
		}
	}

	// Depth 1: a single route carrying start before end.
	for _, sv := range startViews {
		coords := sv.route.Coords
		for i := sv.idx; i < len(coords); i++ {
			if coords[i] == end {
				journeys = append(journeys, models.CompositeJourney{
					Legs: []models.CompositeLeg{{Route: sv.route, From: sv.idx, To: i}},
				})
				break
			}
		}
	}
	if len(journeys) > 0 {
		return journeys
	}

	// Depth 2: join each start suffix to each end prefix at their first
	// shared waypoint. A coordinate -> (view, index) multimap built once over
	// the end prefixes keeps this linear in the total coordinate count
	// instead of quadratic per route pair, without changing which match each
	// pair selects: for a given pair the suffix is still scanned in travel
	// order and the earliest prefix occurrence of the shared coordinate wins.
	type prefixHit struct {
		view  int // index into endViews, ascending per map entry
		inner int // first index of the coordinate within the prefix
	}
	byCoord := make(map[models.Coordinate][]prefixHit)
	for e, ev := range endViews {
		seen := make(map[models.Coordinate]bool, ev.idx+1)
		for j := 0; j <= ev.idx; j++ {
			c := ev.route.Coords[j]
			if !seen[c] {
				seen[c] = true
				byCoord[c] = append(byCoord[c], prefixHit{view: e, inner: j})
			}
		}
	}

	type match struct {
		found bool
		outer int // absolute index into the start view's route
		inner int // absolute index into the end view's route
	}
	for _, sv := range startViews {
		matches := make([]match, len(endViews))
		coords := sv.route.Coords
		for k := sv.idx; k < len(coords); k++ {
			for _, h := range byCoord[coords[k]] {
				if !matches[h.view].found {
					matches[h.view] = match{found: true, outer: k, inner: h.inner}
				}
			}
		}
		for e, m := range matches {
			if !m.found {
				continue
			}
			ev := endViews[e]
			journeys = append(journeys, models.CompositeJourney{
				Legs: []models.CompositeLeg{
					{Route: sv.route, From: sv.idx, To: m.outer},
					{Route: ev.route, From: m.inner, To: ev.idx},
				},
			})
		}
	}

	return journeys
}
