package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightdelays/internal/airports"
	"github.com/dharmasatrya/flightdelays/internal/models"
)

const airportNotFoundMessage = "Airport not found, please check your airport code again!"

type AirportLookup interface {
	Lookup(code string) (models.Airport, error)
}

type AirportHandler struct {
	airports AirportLookup
}

func NewAirportHandler(a AirportLookup) *AirportHandler {
	return &AirportHandler{airports: a}
}

func (h *AirportHandler) Get(c echo.Context) error {
	code := strings.TrimSpace(c.QueryParam("code"))
	if code == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: models.ErrMissingAirportCode.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	airport, err := h.airports.Lookup(code)
	if errors.Is(err, airports.ErrAirportNotFound) {
		return c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "airport_not_found",
			Message: airportNotFoundMessage,
			Code:    http.StatusNotFound,
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "lookup_error",
			Message: "Failed to look up airport: " + err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}

	return c.JSON(http.StatusOK, airport)
}
