package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightdelays/internal/airports"
	"github.com/dharmasatrya/flightdelays/internal/comparison"
	"github.com/dharmasatrya/flightdelays/internal/models"
	"github.com/dharmasatrya/flightdelays/internal/predictor"
	"github.com/dharmasatrya/flightdelays/internal/scraper"
	"github.com/dharmasatrya/flightdelays/internal/weather"
	"github.com/dharmasatrya/flightdelays/pkg/logger"
	"github.com/dharmasatrya/flightdelays/pkg/metrics"
)

type MockAirportLookup struct {
	mock.Mock
}

func (m *MockAirportLookup) Lookup(code string) (models.Airport, error) {
	args := m.Called(code)
	return args.Get(0).(models.Airport), args.Error(1)
}

type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(q models.FlightQuery) (models.PredictionResponse, error) {
	args := m.Called(q)
	return args.Get(0).(models.PredictionResponse), args.Error(1)
}

type MockComparer struct {
	mock.Mock
}

func (m *MockComparer) Compare(ctx context.Context, req models.ComparisonRequest) (*models.ComparisonResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ComparisonResult), args.Error(1)
}

type MockWeather struct {
	mock.Mock
}

func (m *MockWeather) Conditions(ctx context.Context, lat, lon float64, timestamp int64) (*models.WeatherResponse, error) {
	args := m.Called(ctx, lat, lon, timestamp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeatherResponse), args.Error(1)
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWelcomeHandler(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/", "")
	require.NoError(t, WelcomeHandler(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var msg string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Equal(t, WelcomeMessage, msg)
}

func TestHealthHandler(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/health", "")
	require.NoError(t, HealthHandler(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAirportHandler(t *testing.T) {
	jfk := models.Airport{IATACode: "JFK", Name: "John F. Kennedy International Airport", City: "New York", Latitude: 40.63975, Longitude: -73.77893}

	t.Run("found", func(t *testing.T) {
		lookup := new(MockAirportLookup)
		lookup.On("Lookup", "jfk").Return(jfk, nil).Once()

		c, rec := newContext(http.MethodGet, "/airport/?code=jfk", "")
		require.NoError(t, NewAirportHandler(lookup).Get(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{
			"iata_code": "JFK",
			"airport": "John F. Kennedy International Airport",
			"city": "New York",
			"lat": 40.63975,
			"lon": -73.77893
		}`, rec.Body.String())

		var got models.Airport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, jfk, got)
		lookup.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		lookup := new(MockAirportLookup)
		lookup.On("Lookup", "XXX").Return(models.Airport{}, airports.ErrAirportNotFound).Once()

		c, rec := newContext(http.MethodGet, "/airport/?code=XXX", "")
		require.NoError(t, NewAirportHandler(lookup).Get(c))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, airportNotFoundMessage, decodeError(t, rec).Message)
	})

	t.Run("missing code", func(t *testing.T) {
		lookup := new(MockAirportLookup)

		c, rec := newContext(http.MethodGet, "/airport/", "")
		require.NoError(t, NewAirportHandler(lookup).Get(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		lookup.AssertNotCalled(t, "Lookup", mock.Anything)
	})
}

func TestDistanceHandler(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		status   int
		expected string
	}{
		{
			name:     "haversine",
			query:    "lat_origin=40.63975&lon_origin=-73.77893&lat_dest=33.94254&lon_dest=-118.40807",
			status:   http.StatusOK,
			expected: "2467",
		},
		{
			name:     "identical points",
			query:    "lat_origin=10&lon_origin=10&lat_dest=10&lon_dest=10",
			status:   http.StatusOK,
			expected: "0",
		},
		{
			name:     "out of range degrees still computed",
			query:    "lat_origin=95&lon_origin=10&lat_dest=10&lon_dest=10",
			status:   http.StatusOK,
			expected: "5869",
		},
		{
			name:   "not a number",
			query:  "lat_origin=north&lon_origin=10&lat_dest=10&lon_dest=10",
			status: http.StatusBadRequest,
		},
		{
			name:   "missing parameter",
			query:  "lat_origin=1&lon_origin=10&lat_dest=10",
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown method",
			query:  "lat_origin=1&lon_origin=1&lat_dest=2&lon_dest=2&method=flat",
			status: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/distance?"+tc.query, "")
			require.NoError(t, DistanceHandler(c))

			assert.Equal(t, tc.status, rec.Code)
			if tc.expected != "" {
				assert.Equal(t, tc.expected, strings.TrimSpace(rec.Body.String()))
			}
		})
	}
}

func TestDistanceHandler_Vincenty(t *testing.T) {
	c, rec := newContext(http.MethodGet,
		"/distance?lat_origin=40.63975&lon_origin=-73.77893&lat_dest=33.94254&lon_dest=-118.40807&method=vincenty", "")
	require.NoError(t, DistanceHandler(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var miles int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &miles))
	assert.InDelta(t, 2467, miles, 15)
}

func newPredictHandler(p FlightPredictor) *PredictHandler {
	return NewPredictHandler(p, logger.NewNopLogger(), metrics.NewNopMetrics())
}

func TestPredictHandler(t *testing.T) {
	body := `{"MONTH":7,"CARRIER_NAME":"Delta Air Lines Inc.","CRS_DEP_TIME":1130,"DEP_TIME":1152,
"ARR_TIME":1420,"ARR_DELAY_NEW":22,"CRS_ARR_TIME":1358,"CRS_ELAPSED_TIME":148,"ACTUAL_ELAPSED_TIME":148}`

	t.Run("delayed", func(t *testing.T) {
		p := new(MockPredictor)
		p.On("Predict", mock.MatchedBy(func(q models.FlightQuery) bool {
			return q.Month == 7 && q.CarrierName == "Delta Air Lines Inc." && q.ArrDelayNew == 22
		})).Return(models.PredictionResponse{Status: models.PredictionDelayed, Duration: 24, Probability: 0.81}, nil).Once()

		c, rec := newContext(http.MethodPost, "/predict", body)
		require.NoError(t, newPredictHandler(p).Predict(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"delayed","duration":24,"probability":0.81}`, rec.Body.String())
		p.AssertExpectations(t)
	})

	t.Run("schema mismatch", func(t *testing.T) {
		p := new(MockPredictor)
		p.On("Predict", mock.Anything).
			Return(models.PredictionResponse{}, fmt.Errorf("%w: missing feature X", predictor.ErrSchemaMismatch)).Once()

		c, rec := newContext(http.MethodPost, "/predict", body)
		require.NoError(t, newPredictHandler(p).Predict(c))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "schema_mismatch", decodeError(t, rec).Error)
	})

	t.Run("invalid month", func(t *testing.T) {
		p := new(MockPredictor)

		c, rec := newContext(http.MethodPost, "/predict", `{"MONTH":0,"CARRIER_NAME":"x"}`)
		require.NoError(t, newPredictHandler(p).Predict(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_error", decodeError(t, rec).Error)
		p.AssertNotCalled(t, "Predict", mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		p := new(MockPredictor)

		c, rec := newContext(http.MethodPost, "/predict", `{"MONTH":"July"`)
		require.NoError(t, newPredictHandler(p).Predict(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestComparisonHandler(t *testing.T) {
	req := models.ComparisonRequest{Airline: "AA", FlightNumber: "100", Position: 1}
	target := "/comparison?airline=AA&flight_number=100&position=1"

	t.Run("ok", func(t *testing.T) {
		svc := new(MockComparer)
		svc.On("Compare", mock.Anything, req).Return(&models.ComparisonResult{
			Airline:      "AA",
			FlightNumber: "100",
			Position:     1,
			ScrapeResult: models.ScrapeResult{ScheduledTime: "10:25", ActualTime: "10:40", Terminal: "8", Gate: "B2"},
			Duration:     15,
			Status:       models.StatusDelay,
		}, nil).Once()

		c, rec := newContext(http.MethodGet, target, "")
		require.NoError(t, NewComparisonHandler(svc, logger.NewNopLogger()).Compare(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		var got models.ComparisonResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 15, got.Duration)
		assert.Equal(t, models.StatusDelay, got.Status)
		assert.Equal(t, "B2", got.Gate)
		svc.AssertExpectations(t)
	})

	errorCases := []struct {
		name   string
		err    error
		status int
		code   string
		step   string
	}{
		{
			name:   "step failure",
			err:    scraper.NewStepError(scraper.StepSubmit, 3, errors.New("not visible")),
			status: http.StatusBadGateway,
			code:   "scrape_failed",
			step:   scraper.StepSubmit,
		},
		{
			name:   "unavailable",
			err:    fmt.Errorf("%w: %w", comparison.ErrUnavailable, context.DeadlineExceeded),
			status: http.StatusServiceUnavailable,
			code:   "scraper_unavailable",
		},
		{
			name:   "unreadable",
			err:    fmt.Errorf("%w: bad", comparison.ErrUnreadableTime),
			status: http.StatusBadGateway,
			code:   "unreadable_result",
		},
		{
			name:   "other",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			code:   "comparison_error",
		},
	}

	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockComparer)
			svc.On("Compare", mock.Anything, req).Return(nil, tc.err).Once()

			c, rec := newContext(http.MethodGet, target, "")
			require.NoError(t, NewComparisonHandler(svc, logger.NewNopLogger()).Compare(c))

			assert.Equal(t, tc.status, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tc.code, resp.Error)
			assert.Equal(t, tc.step, resp.Step)
		})
	}

	t.Run("validation", func(t *testing.T) {
		svc := new(MockComparer)

		c, rec := newContext(http.MethodGet, "/comparison?airline=AA", "")
		require.NoError(t, NewComparisonHandler(svc, logger.NewNopLogger()).Compare(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Compare", mock.Anything, mock.Anything)
	})

	t.Run("position missing", func(t *testing.T) {
		svc := new(MockComparer)

		c, rec := newContext(http.MethodGet, "/comparison?airline=AA&flight_number=100", "")
		require.NoError(t, NewComparisonHandler(svc, logger.NewNopLogger()).Compare(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "validation_error", resp.Error)
		assert.Contains(t, resp.Message, "position")
		svc.AssertNotCalled(t, "Compare", mock.Anything, mock.Anything)
	})

	t.Run("position not a number", func(t *testing.T) {
		svc := new(MockComparer)

		c, rec := newContext(http.MethodGet, "/comparison?airline=AA&flight_number=1&position=first", "")
		require.NoError(t, NewComparisonHandler(svc, logger.NewNopLogger()).Compare(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestWeatherHandler(t *testing.T) {
	target := "/weather?lat=40.6&lon=-73.7&timestamp=1700000000"

	t.Run("ok", func(t *testing.T) {
		w := new(MockWeather)
		w.On("Conditions", mock.Anything, 40.6, -73.7, int64(1700000000)).
			Return(&models.WeatherResponse{Temperature: 8.4, Condition: "Rain"}, nil).Once()

		c, rec := newContext(http.MethodGet, target, "")
		require.NoError(t, NewWeatherHandler(w).Get(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		var got models.WeatherResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Rain", got.Condition)
		w.AssertExpectations(t)
	})

	t.Run("not configured", func(t *testing.T) {
		w := new(MockWeather)
		w.On("Conditions", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, weather.ErrNotConfigured).Once()

		c, rec := newContext(http.MethodGet, target, "")
		require.NoError(t, NewWeatherHandler(w).Get(c))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("upstream", func(t *testing.T) {
		w := new(MockWeather)
		w.On("Conditions", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: status 500", weather.ErrUpstream)).Once()

		c, rec := newContext(http.MethodGet, target, "")
		require.NoError(t, NewWeatherHandler(w).Get(c))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("missing timestamp", func(t *testing.T) {
		w := new(MockWeather)

		c, rec := newContext(http.MethodGet, "/weather?lat=1&lon=1", "")
		require.NoError(t, NewWeatherHandler(w).Get(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
