package models

import (
	"strconv"
	"strings"
)

type ComparisonRequest struct {
	Airline      string `query:"airline"`
	FlightNumber string `query:"flight_number"`
	Position     int    `query:"position"`
}

func (r *ComparisonRequest) Validate() error {
	r.Airline = strings.TrimSpace(r.Airline)
	r.FlightNumber = strings.TrimSpace(r.FlightNumber)

	if r.Airline == "" {
		return ErrMissingAirline
	}
	if r.FlightNumber == "" {
		return ErrMissingFlightNumber
	}
	if _, err := strconv.Atoi(r.FlightNumber); err != nil {
		return ErrInvalidFlightNumber
	}
	if r.Position < 0 {
		return ErrInvalidPosition
	}
	return nil
}

type WeatherRequest struct {
	Latitude  float64 `query:"lat"`
	Longitude float64 `query:"lon"`
	Timestamp int64   `query:"timestamp"`
}

func (r *WeatherRequest) Validate() error {
	if r.Latitude < -90 || r.Latitude > 90 || r.Longitude < -180 || r.Longitude > 180 {
		return ErrInvalidCoordinates
	}
	if r.Timestamp <= 0 {
		return ErrMissingTimestamp
	}
	return nil
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingAirportCode  ValidationError = "code is required"
	ErrInvalidMonth        ValidationError = "MONTH must be between 1 and 12"
	ErrMissingCarrier      ValidationError = "CARRIER_NAME is required"
	ErrMissingAirline      ValidationError = "airline is required"
	ErrMissingFlightNumber ValidationError = "flight_number is required"
	ErrInvalidFlightNumber ValidationError = "flight_number must be numeric"
	ErrInvalidPosition     ValidationError = "position must not be negative"
	ErrMissingPosition     ValidationError = "position is required"
	ErrInvalidCoordinates  ValidationError = "lat/lon out of range"
	ErrMissingTimestamp    ValidationError = "timestamp is required"
)
