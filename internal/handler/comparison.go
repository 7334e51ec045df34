package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightdelays/internal/comparison"
	"github.com/dharmasatrya/flightdelays/internal/models"
	"github.com/dharmasatrya/flightdelays/internal/scraper"
	"github.com/dharmasatrya/flightdelays/pkg/logger"
)

type Comparer interface {
	Compare(ctx context.Context, req models.ComparisonRequest) (*models.ComparisonResult, error)
}

type ComparisonHandler struct {
	service Comparer
	logger  logger.Logger
}

func NewComparisonHandler(s Comparer, log logger.Logger) *ComparisonHandler {
	return &ComparisonHandler{
		service: s,
		logger:  log,
	}
}

// Compare requires airline, flight_number and position. An absent position is
// rejected rather than read as the first departure.
func (h *ComparisonHandler) Compare(c echo.Context) error {
	var req models.ComparisonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse query: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	err := req.Validate()
	if err == nil && !c.QueryParams().Has("position") {
		err = models.ErrMissingPosition
	}
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	result, err := h.service.Compare(c.Request().Context(), req)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *ComparisonHandler) writeError(c echo.Context, err error) error {
	var stepErr *scraper.StepError

	switch {
	case errors.As(err, &stepErr):
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "scrape_failed",
			Message: err.Error(),
			Code:    http.StatusBadGateway,
			Step:    stepErr.Step,
		})
	case errors.Is(err, comparison.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "scraper_unavailable",
			Message: err.Error(),
			Code:    http.StatusServiceUnavailable,
		})
	case errors.Is(err, comparison.ErrUnreadableTime):
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "unreadable_result",
			Message: err.Error(),
			Code:    http.StatusBadGateway,
		})
	default:
		h.logger.Error("comparison failed", "error", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "comparison_error",
			Message: "Failed to compare flight times: " + err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}
}
