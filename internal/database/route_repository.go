package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/communitytransit/directions-backend/internal/models"
)

// RouteRepository handles database operations for contributed routes and
// their administrative-area tags.
type RouteRepository struct {
	db    DB
	retry Retryer
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db DB, retry Retryer) *RouteRepository {
	return &RouteRepository{db: db, retry: retry}
}

// Create persists a contributed route and its area tag in one transaction.
// Routes are append-only; there is no update or delete path.
func (r *RouteRepository) Create(route *models.ContributedRoute, area models.RouteArea) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO routes (id, name, description, start_time, end_time, coords, uploader_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err = tx.QueryRow(
		query,
		route.ID, route.Name, route.Description,
		route.StartTime, route.EndTime, route.Coords, route.UploaderID,
	).Scan(&route.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert route: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO route_areas (route_id, region_id, state_id, city_id) VALUES ($1, $2, $3, $4)`,
		route.ID, area.RegionID, area.StateID, area.CityID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert route area: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit route: %w", err)
	}
	return nil
}

// SelectByArea returns the contributed routes tagged to an administrative
// area. Filter precedence is city > state > region: only the first non-nil
// dimension is applied. An all-nil filter returns the entire catalog, which
// callers should treat as unscoped and expensive.
func (r *RouteRepository) SelectByArea(filter models.AreaFilter) ([]models.ContributedRoute, error) {
	query := `
		SELECT routes.id, routes.name, routes.description, routes.start_time,
			   routes.end_time, routes.coords, routes.uploader_id, routes.created_at
		FROM route_areas
		INNER JOIN routes ON route_areas.route_id = routes.id
	`

	var args []interface{}
	switch {
	case filter.CityID != nil:
		query += " WHERE route_areas.city_id = $1"
		args = append(args, *filter.CityID)
	case filter.StateID != nil:
		query += " WHERE route_areas.state_id = $1"
		args = append(args, *filter.StateID)
	case filter.RegionID != nil:
		query += " WHERE route_areas.region_id = $1"
		args = append(args, *filter.RegionID)
	}

	query += " ORDER BY routes.created_at, routes.id"

	routes := []models.ContributedRoute{}
	err := r.retry.Do(func() error {
		routes = routes[:0]
		return r.db.Select(&routes, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to select routes by area: %w", err)
	}
	return routes, nil
}

// GetByID retrieves a single contributed route.
func (r *RouteRepository) GetByID(id uuid.UUID) (*models.ContributedRoute, error) {
	query := `
		SELECT id, name, description, start_time, end_time, coords, uploader_id, created_at
		FROM routes
		WHERE id = $1
	`

	route := &models.ContributedRoute{}
	err := r.retry.Do(func() error {
		return r.db.Get(route, query, id)
	})
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch route: %w", err)
	}
	return route, nil
}
