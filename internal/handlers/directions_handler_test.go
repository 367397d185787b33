package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communitytransit/directions-backend/internal/models"
	"github.com/communitytransit/directions-backend/internal/services"
	"github.com/communitytransit/directions-backend/internal/streetnet"
)

var (
	stopA = models.Coordinate{Lat: 13.0000, Lon: 121.0000}
	stopB = models.Coordinate{Lat: 13.0100, Lon: 121.0000}
)

type stubRouter struct {
	graph *streetnet.Graph
	err   error
}

func (s *stubRouter) FetchLocalGraph(_ context.Context, _ models.Coordinate, _ float64, _ streetnet.Mode) (*streetnet.Graph, error) {
	return s.graph, s.err
}

type stubCatalog struct {
	routes []models.ContributedRoute
}

func (s *stubCatalog) SelectByArea(_ models.AreaFilter) ([]models.ContributedRoute, error) {
	return s.routes, nil
}

type stubResolver struct{}

func (stubResolver) FindOrCreateRegion(string) (int64, error) { return 1, nil }
func (stubResolver) FindOrCreateState(string) (int64, error)  { return 1, nil }

func walkableGraph() *streetnet.Graph {
	g := streetnet.NewGraph()
	g.AddNode(1, stopA)
	g.AddNode(2, stopB)
	g.AddEdge(1, 2, 5.0)
	g.AddEdge(2, 1, 5.0)
	return g
}

func setupDirectionsHandler(router streetnet.Router, catalog services.RouteCatalog) *DirectionsHandler {
	svc := services.NewDirectionsService(catalog, stubResolver{}, router, testLogger())
	return NewDirectionsHandler(svc)
}

func TestGetDirectionsHandler(t *testing.T) {
	t.Run("Success With Journey", func(t *testing.T) {
		catalog := &stubCatalog{routes: []models.ContributedRoute{
			{Name: "A - B Express", Coords: models.Path{stopA, stopB}},
		}}
		handler := setupDirectionsHandler(&stubRouter{graph: walkableGraph()}, catalog)

		w := performJSON(t, handler.GetDirections, models.DirectionsRequest{
			Origin:      &models.Coordinate{Lat: 13.0001, Lon: 121.0001},
			Destination: &models.Coordinate{Lat: 13.0099, Lon: 121.0001},
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Routes       []json.RawMessage `json:"routes"`
			WalkingRoute [][]float64       `json:"walking_route"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Routes, 1)
		require.Len(t, resp.WalkingRoute, 2)
		assert.Equal(t, []float64{13.0, 121.0}, resp.WalkingRoute[0])
	})

	t.Run("Empty Journeys Serializes As Empty Array", func(t *testing.T) {
		handler := setupDirectionsHandler(&stubRouter{graph: walkableGraph()}, &stubCatalog{})

		w := performJSON(t, handler.GetDirections, models.DirectionsRequest{
			Origin:      &models.Coordinate{Lat: 13.0001, Lon: 121.0001},
			Destination: &models.Coordinate{Lat: 13.0099, Lon: 121.0001},
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"routes":[]`)
	})

	t.Run("Missing Destination", func(t *testing.T) {
		handler := setupDirectionsHandler(&stubRouter{graph: walkableGraph()}, &stubCatalog{})

		w := performJSON(t, handler.GetDirections, map[string]interface{}{
			"origin": []float64{13.0, 121.0},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unroutable Location", func(t *testing.T) {
		handler := setupDirectionsHandler(&stubRouter{graph: streetnet.NewGraph()}, &stubCatalog{})

		w := performJSON(t, handler.GetDirections, models.DirectionsRequest{
			Origin:      &models.Coordinate{Lat: 13.0001, Lon: 121.0001},
			Destination: &models.Coordinate{Lat: 13.0099, Lon: 121.0001},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "unroutable_location", resp.Error)
	})

	t.Run("Provider Failure", func(t *testing.T) {
		handler := setupDirectionsHandler(&stubRouter{err: assert.AnError}, &stubCatalog{})

		w := performJSON(t, handler.GetDirections, models.DirectionsRequest{
			Origin:      &models.Coordinate{Lat: 13.0001, Lon: 121.0001},
			Destination: &models.Coordinate{Lat: 13.0099, Lon: 121.0001},
		})
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
