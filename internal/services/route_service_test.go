package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communitytransit/directions-backend/internal/models"
)

type fakeRouteStore struct {
	created     *models.ContributedRoute
	createdArea models.RouteArea
	createErr   error
	byID        map[uuid.UUID]*models.ContributedRoute
}

func (f *fakeRouteStore) Create(route *models.ContributedRoute, area models.RouteArea) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = route
	f.createdArea = area
	return nil
}

func (f *fakeRouteStore) GetByID(id uuid.UUID) (*models.ContributedRoute, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return r, nil
}

func newContributionService(store RouteStore, areas AreaResolver) *ContributionService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewContributionService(store, areas, logger)
}

func contributeRequest() *models.ContributeRouteRequest {
	return &models.ContributeRouteRequest{
		Name:       "Alangilan - Balagtas",
		StartTime:  "05:30",
		EndTime:    "21:00",
		Coords:     models.Path{{Lat: 13.7853, Lon: 121.07339}, {Lat: 13.7565, Lon: 121.0583}},
		UploaderID: uuid.New().String(),
	}
}

func TestContribute(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := &fakeRouteStore{}
		resolver := &fakeResolver{ids: map[string]int64{"Calabarzon": 4, "Batangas": 21}}
		svc := newContributionService(store, resolver)

		req := contributeRequest()
		region, state := "Calabarzon", "Batangas"
		cityID := int64(7)
		req.Region, req.State, req.CityID = &region, &state, &cityID

		route, err := svc.Contribute(req)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, route.ID)
		assert.Equal(t, req.Name, route.Name)
		assert.Equal(t, req.Coords, route.Coords)
		assert.Equal(t, req.UploaderID, route.UploaderID.String())

		require.NotNil(t, store.created)
		assert.Equal(t, route.ID, store.createdArea.RouteID)
		require.NotNil(t, store.createdArea.RegionID)
		assert.Equal(t, int64(4), *store.createdArea.RegionID)
		require.NotNil(t, store.createdArea.StateID)
		assert.Equal(t, int64(21), *store.createdArea.StateID)
		require.NotNil(t, store.createdArea.CityID)
		assert.Equal(t, int64(7), *store.createdArea.CityID)
	})

	t.Run("No Area Tags", func(t *testing.T) {
		store := &fakeRouteStore{}
		svc := newContributionService(store, &fakeResolver{})

		_, err := svc.Contribute(contributeRequest())
		require.NoError(t, err)
		assert.Nil(t, store.createdArea.RegionID)
		assert.Nil(t, store.createdArea.StateID)
		assert.Nil(t, store.createdArea.CityID)
	})

	t.Run("Too Few Coordinates", func(t *testing.T) {
		svc := newContributionService(&fakeRouteStore{}, &fakeResolver{})

		req := contributeRequest()
		req.Coords = models.Path{{Lat: 13.7853, Lon: 121.07339}}
		_, err := svc.Contribute(req)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("Invalid Uploader Id", func(t *testing.T) {
		svc := newContributionService(&fakeRouteStore{}, &fakeResolver{})

		req := contributeRequest()
		req.UploaderID = "not-a-uuid"
		_, err := svc.Contribute(req)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("Resolver Failure", func(t *testing.T) {
		resolver := &fakeResolver{err: fmt.Errorf("database error")}
		store := &fakeRouteStore{}
		svc := newContributionService(store, resolver)

		req := contributeRequest()
		region := "Calabarzon"
		req.Region = &region
		_, err := svc.Contribute(req)
		assert.Error(t, err)
		assert.Nil(t, store.created)
	})

	t.Run("Store Failure", func(t *testing.T) {
		store := &fakeRouteStore{createErr: fmt.Errorf("database error")}
		svc := newContributionService(store, &fakeResolver{})

		_, err := svc.Contribute(contributeRequest())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to store route")
	})
}

func TestGetRoute(t *testing.T) {
	id := uuid.New()
	store := &fakeRouteStore{byID: map[uuid.UUID]*models.ContributedRoute{
		id: {ID: id, Name: "Alangilan - Balagtas"},
	}}
	svc := newContributionService(store, &fakeResolver{})

	route, err := svc.GetRoute(id)
	require.NoError(t, err)
	assert.Equal(t, "Alangilan - Balagtas", route.Name)

	_, err = svc.GetRoute(uuid.New())
	assert.Error(t, err)
}
