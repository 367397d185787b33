package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/communitytransit/directions-backend/internal/database"
	"github.com/communitytransit/directions-backend/internal/models"
	"github.com/communitytransit/directions-backend/internal/services"
)

// RouteHandler handles route contribution and planning HTTP requests
type RouteHandler struct {
	contributionService *services.ContributionService
	routePlanService    *services.RoutePlanService
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(contributionService *services.ContributionService, routePlanService *services.RoutePlanService) *RouteHandler {
	return &RouteHandler{
		contributionService: contributionService,
		routePlanService:    routePlanService,
	}
}

// Contribute handles POST /api/v1/routes/contribute
func (h *RouteHandler) Contribute(c *gin.Context) {
	var req models.ContributeRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	route, err := h.contributionService.Contribute(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "contribution_failed",
			Message: "Failed to store route",
		})
		return
	}

	c.JSON(http.StatusCreated, route)
}

// GetRoute handles GET /api/v1/routes/:id
func (h *RouteHandler) GetRoute(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid route id",
		})
		return
	}

	route, err := h.contributionService.GetRoute(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Route not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "fetch_failed",
			Message: "Failed to fetch route",
		})
		return
	}

	c.JSON(http.StatusOK, route)
}

// PlanRoute handles POST /api/v1/route
func (h *RouteHandler) PlanRoute(c *gin.Context) {
	var req models.RoutePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	resp, err := h.routePlanService.PlanRoute(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: err.Error(),
			})
		case errors.Is(err, services.ErrUnroutableLocation), errors.Is(err, services.ErrNoPathFound):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "unroutable_pins",
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusBadGateway, ErrorResponse{
				Error:   "planning_failed",
				Message: "Failed to plan route",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
