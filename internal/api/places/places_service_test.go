package places

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

type MockMapsAPI struct {
	mock.Mock
}

func (m *MockMapsAPI) Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]maps.GeocodingResult), args.Error(1)
}

func (m *MockMapsAPI) NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(maps.PlacesSearchResponse), args.Error(1)
}

func (m *MockMapsAPI) PlaceDetails(ctx context.Context, r *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(maps.PlaceDetailsResult), args.Error(1)
}

func (m *MockMapsAPI) PlaceAutocomplete(ctx context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(maps.AutocompleteResponse), args.Error(1)
}

func setupPlacesServiceTest(detailsPerType int) (*ServiceImpl, *MockMapsAPI) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockAPI := new(MockMapsAPI)
	return NewServiceImpl(mockAPI, detailsPerType, time.Hour, logger), mockAPI
}

func placeResult(id, name string, lat, lng float64, types ...string) maps.PlacesSearchResult {
	return maps.PlacesSearchResult{
		PlaceID:  id,
		Name:     name,
		Vicinity: name + " street",
		Types:    types,
		Rating:   4.46,
		Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: lat, Lng: lng}},
	}
}

func TestPriceTierForBudget(t *testing.T) {
	tests := []struct {
		budget float64
		want   int
	}{
		{0, 0},
		{10, 1},
		{29.99, 1},
		{30, 2},
		{59, 2},
		{60, 3},
		{99, 3},
		{100, 4},
		{500, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PriceTierForBudget(tt.budget), "budget %v", tt.budget)
	}
}

func TestMilesToMeters(t *testing.T) {
	assert.Equal(t, uint(0), MilesToMeters(0))
	assert.Equal(t, uint(8047), MilesToMeters(5))
	assert.Equal(t, uint(maxRadiusMeters), MilesToMeters(100))
	assert.Equal(t, uint(1), MilesToMeters(0.0002), "tiny positive radius never rounds to zero")
}

func TestServiceImpl_Geocode(t *testing.T) {
	ctx := context.Background()

	t.Run("success is cached per normalised address", func(t *testing.T) {
		service, mockAPI := setupPlacesServiceTest(5)
		mockAPI.On("Geocode", mock.Anything, &maps.GeocodingRequest{Address: "Lisbon, Portugal"}).
			Return([]maps.GeocodingResult{{
				FormattedAddress: "Lisbon, Portugal",
				Geometry:         maps.AddressGeometry{Location: maps.LatLng{Lat: 38.72, Lng: -9.14}},
			}}, nil).Once()

		first, err := service.Geocode(ctx, "Lisbon, Portugal")
		require.NoError(t, err)
		assert.Equal(t, 38.72, first.Lat)
		assert.Equal(t, -9.14, first.Lng)

		second, err := service.Geocode(ctx, "  lisbon,   portugal ")
		require.NoError(t, err)
		assert.Equal(t, first, second)
		mockAPI.AssertExpectations(t)
	})

	t.Run("no results", func(t *testing.T) {
		service, mockAPI := setupPlacesServiceTest(5)
		mockAPI.On("Geocode", mock.Anything, mock.Anything).Return([]maps.GeocodingResult{}, nil).Once()

		_, err := service.Geocode(ctx, "nowhere")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrLocationNotFound)
	})

	t.Run("api error is wrapped", func(t *testing.T) {
		service, mockAPI := setupPlacesServiceTest(5)
		apiErr := errors.New("REQUEST_DENIED")
		mockAPI.On("Geocode", mock.Anything, mock.Anything).Return(nil, apiErr).Once()

		_, err := service.Geocode(ctx, "somewhere")
		require.Error(t, err)
		assert.ErrorIs(t, err, apiErr)
	})

	t.Run("empty address", func(t *testing.T) {
		service, mockAPI := setupPlacesServiceTest(5)
		_, err := service.Geocode(ctx, "   ")
		assert.ErrorIs(t, err, ErrEmptyAddress)
		mockAPI.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	})
}

func TestServiceImpl_SearchNearby(t *testing.T) {
	ctx := context.Background()
	req := types.NearbySearchRequest{
		Location:     types.Coordinates{Lat: 37.77, Lng: -122.41},
		RadiusMeters: 8047,
		Type:         "restaurant",
		MaxPrice:     2,
	}

	t.Run("enriches top results with details", func(t *testing.T) {
		service, mockAPI := setupPlacesServiceTest(2)
		mockAPI.On("NearbySearch", mock.Anything, mock.MatchedBy(func(r *maps.NearbySearchRequest) bool {
			return r.Type == maps.PlaceTypeRestaurant && r.MaxPrice == maps.PriceLevelModerate && r.Radius == 8047
		})).Return(maps.PlacesSearchResponse{Results: []maps.PlacesSearchResult{
			placeResult("a", "Alpha", 1, 2, "restaurant"),
			placeResult("b", "Beta", 3, 4, "restaurant", "bar"),
			placeResult("c", "Gamma", 5, 6, "restaurant"),
		}}, nil).Once()

		utcOffset := -420
		mockAPI.On("PlaceDetails", mock.Anything, mock.MatchedBy(func(r *maps.PlaceDetailsRequest) bool {
			return r.PlaceID == "a" && slices.Contains(r.Fields, maps.PlaceDetailsFieldMaskUTCOffset)
		})).
			Return(maps.PlaceDetailsResult{
				Website:   "https://alpha.example",
				UTCOffset: &utcOffset,
				OpeningHours: &maps.OpeningHours{Periods: []maps.OpeningHoursPeriod{{
					Open:  maps.OpeningHoursOpenClose{Day: time.Friday, Time: "1100"},
					Close: maps.OpeningHoursOpenClose{Day: time.Friday, Time: "2200"},
				}}},
			}, nil).Once()
		mockAPI.On("PlaceDetails", mock.Anything, mock.MatchedBy(func(r *maps.PlaceDetailsRequest) bool { return r.PlaceID == "b" })).
			Return(maps.PlaceDetailsResult{}, errors.New("OVER_QUERY_LIMIT")).Once()

		venues, err := service.SearchNearby(ctx, req)
		require.NoError(t, err)
		require.Len(t, venues, 2)

		assert.Equal(t, "a", venues[0].ID)
		assert.Equal(t, "https://alpha.example", venues[0].Website)
		require.NotNil(t, venues[0].OpeningHours)
		require.Len(t, venues[0].OpeningHours.Periods, 1)
		assert.Equal(t, "2200", venues[0].OpeningHours.Periods[0].Close.Time)
		require.NotNil(t, venues[0].UTCOffsetMinutes)
		assert.Equal(t, -420, *venues[0].UTCOffsetMinutes)
		require.NotNil(t, venues[0].Rating)
		assert.Equal(t, 4.5, *venues[0].Rating)

		assert.Equal(t, "b", venues[1].ID, "details failure keeps the search hit")
		assert.Empty(t, venues[1].Website)
		assert.Nil(t, venues[1].UTCOffsetMinutes)
		assert.Equal(t, types.Coordinates{Lat: 3, Lng: 4}, venues[1].Location)
		mockAPI.AssertExpectations(t)
	})

	t.Run("search error", func(t *testing.T) {
		service, mockAPI := setupPlacesServiceTest(2)
		mockAPI.On("NearbySearch", mock.Anything, mock.Anything).
			Return(maps.PlacesSearchResponse{}, errors.New("INVALID_REQUEST")).Once()

		venues, err := service.SearchNearby(ctx, req)
		require.Error(t, err)
		assert.Nil(t, venues)
	})

	t.Run("zero max price omits the filter", func(t *testing.T) {
		service, mockAPI := setupPlacesServiceTest(2)
		free := req
		free.MaxPrice = 0
		mockAPI.On("NearbySearch", mock.Anything, mock.MatchedBy(func(r *maps.NearbySearchRequest) bool {
			return r.MaxPrice == ""
		})).Return(maps.PlacesSearchResponse{}, nil).Once()

		venues, err := service.SearchNearby(ctx, free)
		require.NoError(t, err)
		assert.Empty(t, venues)
		mockAPI.AssertExpectations(t)
	})
}

func TestServiceImpl_Autocomplete(t *testing.T) {
	ctx := context.Background()
	service, mockAPI := setupPlacesServiceTest(5)

	mockAPI.On("PlaceAutocomplete", mock.Anything, mock.MatchedBy(func(r *maps.PlaceAutocompleteRequest) bool {
		return r.Input == "San" && r.Types == maps.AutocompletePlaceTypeCities
	})).Return(maps.AutocompleteResponse{Predictions: []maps.AutocompletePrediction{
		{Description: "San Francisco, CA, USA", PlaceID: "sf"},
		{Description: "San Jose, CA, USA", PlaceID: "sj"},
	}}, nil).Once()

	suggestions, err := service.Autocomplete(ctx, "San")
	require.NoError(t, err)
	assert.Equal(t, []types.PlaceSuggestion{
		{Description: "San Francisco, CA, USA", PlaceID: "sf"},
		{Description: "San Jose, CA, USA", PlaceID: "sj"},
	}, suggestions)

	empty, err := service.Autocomplete(ctx, " ")
	require.NoError(t, err)
	assert.Empty(t, empty)
	mockAPI.AssertExpectations(t)
}
