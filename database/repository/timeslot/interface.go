// File: database/repository/timeslot/interface.go
package timeslotRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"slotwise/database"
	"slotwise/models"
)

type TimeSlotRepository interface {
	InsertMany(ctx context.Context, slots []models.TimeSlot) ([]models.TimeSlot, error)
	GetByID(ctx context.Context, ownerID, slotID string) (*models.TimeSlot, error)
	GetByRequestID(ctx context.Context, ownerID, requestID string) (*models.TimeSlot, error)
	GetWindow(ctx context.Context, ownerID string, start, end time.Time) ([]models.TimeSlot, error)
	DeleteByID(ctx context.Context, ownerID, slotID string) error
	DeleteFutureSeries(ctx context.Context, ownerID string, seed models.TimeSlot) error
	SetFixed(ctx context.Context, ownerID, slotID string) (*models.TimeSlot, error)
	ExistsInterval(ctx context.Context, ownerID string, start, end time.Time) (bool, error)
	FixedSeeds(ctx context.Context, ownerID string) ([]models.TimeSlot, error)
	FixedOwners(ctx context.Context) ([]string, error)
	MinSeriesHorizon(ctx context.Context, ownerID string) (time.Time, error)
	EnsureIndexes() error
}

type mongoTimeSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoTimeSlotRepo constructs a new MongoDB TimeSlotRepository.
func NewMongoTimeSlotRepo() TimeSlotRepository {
	db := database.MongoClient.Database("slotwise")
	return &mongoTimeSlotRepo{
		coll: db.Collection("timeslots"),
	}
}
