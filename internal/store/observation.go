package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dharmasatrya/flightdelays/internal/models"
)

const observationsCollection = "delay_observations"

// Observation is one scraped comparison, kept for later analysis.
type Observation struct {
	ID            string    `bson:"_id" json:"id"`
	Key           string    `bson:"key" json:"key"`
	Airline       string    `bson:"airline" json:"airline"`
	FlightNumber  string    `bson:"flightNumber" json:"flight_number"`
	Position      int       `bson:"position" json:"position"`
	Date          string    `bson:"date" json:"date"`
	ScheduledTime string    `bson:"scheduledTime" json:"scheduled_time"`
	ActualTime    string    `bson:"actualTime" json:"actual_time"`
	Terminal      string    `bson:"terminal" json:"terminal"`
	Gate          string    `bson:"gate" json:"gate"`
	DelayMinutes  int       `bson:"delayMinutes" json:"delay_minutes"`
	Status        string    `bson:"status" json:"status"`
	ObservedAt    time.Time `bson:"observedAt" json:"observed_at"`
}

func NewObservation(result *models.ComparisonResult) *Observation {
	date := result.ObservedAt.UTC().Format("2006-01-02")
	airline := strings.ToUpper(result.Airline)

	return &Observation{
		Key:           ObservationKey(airline, result.FlightNumber, result.Position, date),
		Airline:       airline,
		FlightNumber:  result.FlightNumber,
		Position:      result.Position,
		Date:          date,
		ScheduledTime: result.ScheduledTime,
		ActualTime:    result.ActualTime,
		Terminal:      result.Terminal,
		Gate:          result.Gate,
		DelayMinutes:  result.Duration,
		Status:        result.Status,
		ObservedAt:    result.ObservedAt,
	}
}

// ObservationKey is the upsert key: one record per flight, date option and day.
func ObservationKey(airline, flightNumber string, position int, date string) string {
	return fmt.Sprintf("%s|%s|%d|%s", strings.ToUpper(airline), flightNumber, position, date)
}

type ObservationRepository interface {
	Upsert(ctx context.Context, obs *Observation) error
}

type MongoObservationRepository struct {
	collection *mongo.Collection
}

func NewMongoObservationRepository(ctx context.Context, db *mongo.Database) (*MongoObservationRepository, error) {
	collection := db.Collection(observationsCollection)

	indexModel := mongo.IndexModel{
		Keys:    bson.M{"key": 1},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return nil, fmt.Errorf("create observation index: %w", err)
	}

	return &MongoObservationRepository{collection: collection}, nil
}

// Upsert replaces the latest values for obs.Key; the id is kept from the
// first insert.
func (r *MongoObservationRepository) Upsert(ctx context.Context, obs *Observation) error {
	if obs.ID == "" {
		obs.ID = uuid.NewString()
	}

	updateDoc := bson.M{
		"airline":       obs.Airline,
		"flightNumber":  obs.FlightNumber,
		"position":      obs.Position,
		"date":          obs.Date,
		"scheduledTime": obs.ScheduledTime,
		"actualTime":    obs.ActualTime,
		"terminal":      obs.Terminal,
		"gate":          obs.Gate,
		"delayMinutes":  obs.DelayMinutes,
		"status":        obs.Status,
		"observedAt":    obs.ObservedAt,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"key": obs.Key}

	_, err := r.collection.UpdateOne(
		ctx,
		filter,
		bson.M{
			"$set":         updateDoc,
			"$setOnInsert": bson.M{"_id": obs.ID},
		},
		opts,
	)
	if err != nil {
		return fmt.Errorf("upsert observation %s: %w", obs.Key, err)
	}
	return nil
}

type NoOpObservationRepository struct{}

func NewNoOpObservationRepository() *NoOpObservationRepository {
	return &NoOpObservationRepository{}
}

func (r *NoOpObservationRepository) Upsert(ctx context.Context, obs *Observation) error {
	return nil
}
