package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const WelcomeMessage = "Bienvenue sur Flights Delays, votre compagnon de voyage!"

func WelcomeHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, WelcomeMessage)
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
