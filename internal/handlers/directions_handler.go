package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/communitytransit/directions-backend/internal/models"
	"github.com/communitytransit/directions-backend/internal/services"
)

// DirectionsHandler handles directions HTTP requests
type DirectionsHandler struct {
	directionsService *services.DirectionsService
}

// NewDirectionsHandler creates a new directions handler
func NewDirectionsHandler(directionsService *services.DirectionsService) *DirectionsHandler {
	return &DirectionsHandler{directionsService: directionsService}
}

// GetDirections handles POST /api/v1/directions
func (h *DirectionsHandler) GetDirections(c *gin.Context) {
	var req models.DirectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	resp, err := h.directionsService.GetDirections(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: err.Error(),
			})
		case errors.Is(err, services.ErrUnroutableLocation):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "unroutable_location",
				Message: err.Error(),
			})
		case errors.Is(err, services.ErrNoPathFound):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "no_path_found",
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusBadGateway, ErrorResponse{
				Error:   "directions_failed",
				Message: "Failed to compute directions",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
