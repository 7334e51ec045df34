package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightdelays/internal/models"
	"github.com/dharmasatrya/flightdelays/internal/weather"
)

type WeatherProvider interface {
	Conditions(ctx context.Context, lat, lon float64, timestamp int64) (*models.WeatherResponse, error)
}

type WeatherHandler struct {
	weather WeatherProvider
}

func NewWeatherHandler(w WeatherProvider) *WeatherHandler {
	return &WeatherHandler{weather: w}
}

func (h *WeatherHandler) Get(c echo.Context) error {
	var req models.WeatherRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse query: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	resp, err := h.weather.Conditions(c.Request().Context(), req.Latitude, req.Longitude, req.Timestamp)
	switch {
	case errors.Is(err, weather.ErrNotConfigured):
		return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "weather_unavailable",
			Message: err.Error(),
			Code:    http.StatusServiceUnavailable,
		})
	case err != nil:
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "weather_error",
			Message: err.Error(),
			Code:    http.StatusBadGateway,
		})
	}

	return c.JSON(http.StatusOK, resp)
}
