package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/communitytransit/directions-backend/internal/geo"
	"github.com/communitytransit/directions-backend/internal/models"
	"github.com/communitytransit/directions-backend/internal/streetnet"
)

// RoutePlanService chains an ordered list of pinned locations into a single
// drivable polyline. Contributors use it to trace a new route on the map
// before uploading it.
type RoutePlanService struct {
	router streetnet.Router
	logger *logrus.Logger
}

// NewRoutePlanService creates a new route planning service
func NewRoutePlanService(router streetnet.Router, logger *logrus.Logger) *RoutePlanService {
	return &RoutePlanService{router: router, logger: logger}
}

// PlanRoute snaps every pin onto the driving network and connects
// consecutive pins with distance-weighted shortest paths. A pin that snaps
// onto the same node as its predecessor is skipped rather than producing a
// zero-length segment.
func (s *RoutePlanService) PlanRoute(ctx context.Context, req *models.RoutePlanRequest) (*models.RoutePlanResponse, error) {
	if len(req.Pins) < 2 {
		return nil, fmt.Errorf("%w: at least 2 pins are required", ErrInvalidRequest)
	}

	center := geo.Centroid(req.Pins)
	farthest := 0.0
	for _, pin := range req.Pins {
		if d := geo.Distance(center, pin); d > farthest {
			farthest = d
		}
	}

	graph, err := s.router.FetchLocalGraph(ctx, center, farthest*graphRadiusScale, streetnet.ModeDrive)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch driving network: %w", err)
	}

	var routeNodes []streetnet.NodeID
	for _, pin := range req.Pins {
		node, err := graph.NearestNode(pin)
		if err != nil {
			return nil, fmt.Errorf("%w: pin (%f, %f)", ErrUnroutableLocation, pin.Lat, pin.Lon)
		}

		if len(routeNodes) == 0 {
			routeNodes = append(routeNodes, node)
			continue
		}
		if routeNodes[len(routeNodes)-1] == node {
			continue
		}

		segment, err := graph.ShortestPath(routeNodes[len(routeNodes)-1], node, streetnet.WeightDistance)
		if err != nil {
			if errors.Is(err, streetnet.ErrNoPath) {
				return nil, ErrNoPathFound
			}
			return nil, fmt.Errorf("shortest path failed: %w", err)
		}
		routeNodes = append(routeNodes, segment[1:]...)
	}

	s.logger.WithFields(logrus.Fields{
		"pins":  len(req.Pins),
		"nodes": len(routeNodes),
	}).Info("Planned route through pins")

	return &models.RoutePlanResponse{Route: graph.PathCoordinates(routeNodes)}, nil
}
