package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightdelays/internal/models"
	"github.com/dharmasatrya/flightdelays/internal/predictor"
	"github.com/dharmasatrya/flightdelays/pkg/logger"
	"github.com/dharmasatrya/flightdelays/pkg/metrics"
)

type FlightPredictor interface {
	Predict(q models.FlightQuery) (models.PredictionResponse, error)
}

type PredictHandler struct {
	predictor FlightPredictor
	logger    logger.Logger
	metrics   *metrics.Metrics
}

func NewPredictHandler(p FlightPredictor, log logger.Logger, m *metrics.Metrics) *PredictHandler {
	return &PredictHandler{
		predictor: p,
		logger:    log,
		metrics:   m,
	}
}

func (h *PredictHandler) Predict(c echo.Context) error {
	var query models.FlightQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if err := query.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	resp, err := h.predictor.Predict(query)
	if err != nil {
		h.metrics.ErrorsCount.WithLabelValues("predict").Inc()
		h.logger.Error("prediction failed", "carrier", query.CarrierName, "error", err)

		if errors.Is(err, predictor.ErrSchemaMismatch) {
			return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:   "schema_mismatch",
				Message: err.Error(),
				Code:    http.StatusUnprocessableEntity,
			})
		}
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "prediction_error",
			Message: "Failed to predict delay: " + err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}

	h.metrics.PredictionsTotal.WithLabelValues(resp.Status).Inc()
	return c.JSON(http.StatusOK, resp)
}
