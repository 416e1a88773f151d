// File: database/repository/timeslot/queries.go
package timeslotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"slotwise/models"
)

// GetWindow fetches every slot of the owner whose blocking range overlaps the
// [start, end) window. Transit-padded bookings are matched on their padded
// range so conflict checks against the result see the full blocked time.
func (r *mongoTimeSlotRepo) GetWindow(ctx context.Context, ownerID string, start, end time.Time) ([]models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"createdById": ownerID,
		"$or": []bson.M{
			{"start": bson.M{"$lt": end}, "end": bson.M{"$gt": start}},
			{"transitStart": bson.M{"$lt": end}, "transitEnd": bson.M{"$gt": start}},
		},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeslots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.TimeSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding timeslots: %w", err)
	}
	return slots, nil
}

func (r *mongoTimeSlotRepo) ExistsInterval(ctx context.Context, ownerID string, start, end time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"createdById": ownerID, "start": start, "end": end}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to count timeslots: %w", err)
	}
	return count > 0, nil
}

// FixedSeeds returns all fixed slots of the owner. The recurrence service
// groups them into weekly series and extends each series toward the horizon.
func (r *mongoTimeSlotRepo) FixedSeeds(ctx context.Context, ownerID string) ([]models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"createdById": ownerID, "isFixed": true}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fixed slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.TimeSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding fixed slots: %w", err)
	}
	return slots, nil
}

// FixedOwners returns the distinct account ids that have at least one fixed
// slot. The background worker walks this list on every horizon sweep.
func (r *mongoTimeSlotRepo) FixedOwners(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	values, err := r.coll.Distinct(ctx, "createdById", bson.M{"isFixed": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list fixed-slot owners: %w", err)
	}

	owners := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			owners = append(owners, s)
		}
	}
	return owners, nil
}

// MinSeriesHorizon retrieves, across the owner's weekly series, the latest
// occurrence of the LEAST extended one. Materialization must reach every
// series, so this is how far the owner's calendar is covered as a whole.
// Zero time when the owner has no fixed slots.
func (r *mongoTimeSlotRepo) MinSeriesHorizon(ctx context.Context, ownerID string) (time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdById": ownerID, "isFixed": true}}},
		// One group per weekly series: weekday + minute-of-day + duration.
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"weekday": bson.M{"$dayOfWeek": "$start"},
				"minute": bson.M{"$add": []interface{}{
					bson.M{"$multiply": []interface{}{bson.M{"$hour": "$start"}, 60}},
					bson.M{"$minute": "$start"},
				}},
				"duration": bson.M{"$subtract": []interface{}{"$end", "$start"}},
			},
			"maxStart": bson.M{"$max": "$start"},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"minHorizon": bson.M{"$min": "$maxStart"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to aggregate series horizon: %w", err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		MinHorizon time.Time `bson:"minHorizon"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return time.Time{}, fmt.Errorf("decode error: %w", err)
	}
	if len(result) == 0 {
		return time.Time{}, nil
	}
	return result[0].MinHorizon, nil
}
