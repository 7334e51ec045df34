package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightdelays/internal/models"
	"github.com/dharmasatrya/flightdelays/pkg/distance"
)

// DistanceHandler answers with a bare integer number of miles. Coordinates
// the formula cannot handle produce 0 rather than an error.
func DistanceHandler(c echo.Context) error {
	names := []string{"lat_origin", "lon_origin", "lat_dest", "lon_dest"}
	values := make([]float64, len(names))

	for i, name := range names {
		raw := c.QueryParam(name)
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "invalid_parameter",
				Message: name + " must be a number, got " + strconv.Quote(raw),
				Code:    http.StatusBadRequest,
			})
		}
		values[i] = v
	}

	var miles int
	switch method := c.QueryParam("method"); method {
	case "", "haversine":
		miles = distance.Miles(values[0], values[1], values[2], values[3])
	case "vincenty":
		miles = distance.VincentyMiles(values[0], values[1], values[2], values[3])
	default:
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_parameter",
			Message: "method must be haversine or vincenty",
			Code:    http.StatusBadRequest,
		})
	}

	return c.JSON(http.StatusOK, miles)
}
