package models

import "time"

// ScrapeResult holds the four values read from the tracker's result page.
type ScrapeResult struct {
	ScheduledTime string `json:"scheduled_time"`
	ActualTime    string `json:"actual_time"`
	Terminal      string `json:"terminal"`
	Gate          string `json:"gate"`
}

const (
	StatusNoDelay   = "no delay"
	StatusDelay     = "delay"
	StatusInAdvance = "in advance"
)

type ComparisonResult struct {
	Airline      string `json:"airline"`
	FlightNumber string `json:"flight_number"`
	Position     int    `json:"position"`
	ScrapeResult
	Duration   int       `json:"duration"`
	Status     string    `json:"status"`
	ObservedAt time.Time `json:"observed_at"`
	CacheHit   bool      `json:"cache_hit"`
}

const (
	PredictionOnTime  = "on time"
	PredictionDelayed = "delayed"
)

type PredictionResponse struct {
	Status      string  `json:"status"`
	Duration    int     `json:"duration"`
	Probability float64 `json:"probability"`
}

type WeatherResponse struct {
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
	Timestamp   int64   `json:"timestamp"`
	Temperature float64 `json:"temperature"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Visibility  int     `json:"visibility"`
	Condition   string  `json:"condition"`
	Description string  `json:"description,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
	Step    string `json:"step,omitempty"`
}
