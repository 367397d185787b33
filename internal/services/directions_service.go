package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/communitytransit/directions-backend/internal/compose"
	"github.com/communitytransit/directions-backend/internal/geo"
	"github.com/communitytransit/directions-backend/internal/models"
	"github.com/communitytransit/directions-backend/internal/streetnet"
)

// graphRadiusScale converts the approximate kilometer distance between
// origin and destination into the unit the street-network provider expects
// for its local extraction. The value is an empirically chosen provider
// calibration; do not change it without re-deriving against the provider.
const graphRadiusScale = 1100

// RouteCatalog is the slice of the route repository the directions flow
// needs: an area-filtered, read-only snapshot of the contributed catalog.
type RouteCatalog interface {
	SelectByArea(filter models.AreaFilter) ([]models.ContributedRoute, error)
}

// AreaResolver resolves region and state names to their lazily-created ids.
type AreaResolver interface {
	FindOrCreateRegion(name string) (int64, error)
	FindOrCreateState(name string) (int64, error)
}

// DirectionsService sequences a directions request: snap the endpoints onto
// the walking network, compute the direct walking path, pull the candidate
// routes for the area, and compose them into journeys.
type DirectionsService struct {
	routes RouteCatalog
	areas  AreaResolver
	router streetnet.Router
	logger *logrus.Logger
}

// NewDirectionsService creates a new directions service
func NewDirectionsService(routes RouteCatalog, areas AreaResolver, router streetnet.Router, logger *logrus.Logger) *DirectionsService {
	return &DirectionsService{
		routes: routes,
		areas:  areas,
		router: router,
		logger: logger,
	}
}

// GetDirections runs the full directions flow. A response with zero composed
// journeys is a legitimate success, not an error; the caller can still show
// the walking route.
func (s *DirectionsService) GetDirections(ctx context.Context, req *models.DirectionsRequest) (*models.DirectionsResponse, error) {
	if req.Origin == nil || req.Destination == nil {
		return nil, fmt.Errorf("%w: origin and destination are required", ErrInvalidRequest)
	}
	origin, destination := *req.Origin, *req.Destination

	startTime := time.Now()

	filter, err := s.resolveAreaFilter(req.RouteArea)
	if err != nil {
		return nil, err
	}
	if filter.IsZero() {
		s.logger.Warn("No area filter resolved, selecting the whole catalog")
	}

	center := geo.Centroid([]models.Coordinate{origin, destination})
	radius := geo.Distance(origin, destination) / 2 * graphRadiusScale

	graph, err := s.router.FetchLocalGraph(ctx, center, radius, streetnet.ModeWalk)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch walking network: %w", err)
	}

	originNode, destinationNode, walkPath, err := s.snapAndWalk(graph, origin, destination)
	if errors.Is(err, ErrNoPathFound) {
		// The extraction window can clip the only connecting street. Widen
		// once before giving up.
		s.logger.WithFields(logrus.Fields{
			"radius": radius,
		}).Info("No walking path in extract, retrying with doubled radius")

		graph, err = s.router.FetchLocalGraph(ctx, center, radius*2, streetnet.ModeWalk)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch walking network: %w", err)
		}
		originNode, destinationNode, walkPath, err = s.snapAndWalk(graph, origin, destination)
	}
	if err != nil {
		return nil, err
	}

	// The snapped node coordinates, not the raw request coordinates, are
	// what contributed routes anchor on.
	start, _ := graph.NodeCoordinate(originNode)
	end, _ := graph.NodeCoordinate(destinationNode)

	candidates, err := s.routes.SelectByArea(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate routes: %w", err)
	}

	journeys := compose.Journeys(start, end, candidates)

	s.logger.WithFields(logrus.Fields{
		"candidates":  len(candidates),
		"journeys":    len(journeys),
		"graph_nodes": graph.NodeCount(),
		"elapsed_ms":  time.Since(startTime).Milliseconds(),
	}).Info("Directions request completed")

	return &models.DirectionsResponse{
		Routes:       journeys,
		WalkingRoute: graph.PathCoordinates(walkPath),
	}, nil
}

// snapAndWalk snaps both endpoints onto the graph and computes the direct
// time-weighted walking path between them.
func (s *DirectionsService) snapAndWalk(graph *streetnet.Graph, origin, destination models.Coordinate) (streetnet.NodeID, streetnet.NodeID, []streetnet.NodeID, error) {
	originNode, err := graph.NearestNode(origin)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%w: origin", ErrUnroutableLocation)
	}
	destinationNode, err := graph.NearestNode(destination)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%w: destination", ErrUnroutableLocation)
	}

	walkPath, err := graph.ShortestPath(originNode, destinationNode, streetnet.WeightTime)
	if err != nil {
		if errors.Is(err, streetnet.ErrNoPath) {
			return 0, 0, nil, ErrNoPathFound
		}
		return 0, 0, nil, fmt.Errorf("shortest path failed: %w", err)
	}
	return originNode, destinationNode, walkPath, nil
}

// resolveAreaFilter turns the request's area names into the id filter the
// catalog query uses. Only dimensions present in the request are resolved.
func (s *DirectionsService) resolveAreaFilter(area *models.RouteAreaRequest) (models.AreaFilter, error) {
	var filter models.AreaFilter
	if area == nil {
		return filter, nil
	}

	filter.CityID = area.CityID
	if area.State != nil {
		id, err := s.areas.FindOrCreateState(*area.State)
		if err != nil {
			return filter, fmt.Errorf("failed to resolve state: %w", err)
		}
		filter.StateID = &id
	}
	if area.Region != nil {
		id, err := s.areas.FindOrCreateRegion(*area.Region)
		if err != nil {
			return filter, fmt.Errorf("failed to resolve region: %w", err)
		}
		filter.RegionID = &id
	}
	return filter, nil
}
