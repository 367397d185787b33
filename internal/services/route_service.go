package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/communitytransit/directions-backend/internal/models"
)

// RouteStore is the write side of the route repository.
type RouteStore interface {
	Create(route *models.ContributedRoute, area models.RouteArea) error
	GetByID(id uuid.UUID) (*models.ContributedRoute, error)
}

// ContributionService ingests user-contributed routes into the catalog.
type ContributionService struct {
	routes RouteStore
	areas  AreaResolver
	logger *logrus.Logger
}

// NewContributionService creates a new contribution service
func NewContributionService(routes RouteStore, areas AreaResolver, logger *logrus.Logger) *ContributionService {
	return &ContributionService{routes: routes, areas: areas, logger: logger}
}

// Contribute validates the submission, resolves its area tags, and persists
// the route with a fresh id.
func (s *ContributionService) Contribute(req *models.ContributeRouteRequest) (*models.ContributedRoute, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	route := &models.ContributedRoute{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Coords:      req.Coords,
		UploaderID:  uuid.MustParse(req.UploaderID),
	}

	area := models.RouteArea{RouteID: route.ID, CityID: req.CityID}
	if req.Region != nil {
		id, err := s.areas.FindOrCreateRegion(*req.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve region: %w", err)
		}
		area.RegionID = &id
	}
	if req.State != nil {
		id, err := s.areas.FindOrCreateState(*req.State)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve state: %w", err)
		}
		area.StateID = &id
	}

	if err := s.routes.Create(route, area); err != nil {
		return nil, fmt.Errorf("failed to store route: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"route_id": route.ID,
		"name":     route.Name,
		"coords":   len(route.Coords),
	}).Info("Route contributed")

	return route, nil
}

// GetRoute fetches a single contributed route by id.
func (s *ContributionService) GetRoute(id uuid.UUID) (*models.ContributedRoute, error) {
	return s.routes.GetByID(id)
}
