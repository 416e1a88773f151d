// File: database/repository/timeslot/crud.go
package timeslotRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotwise/models"
)

func (r *mongoTimeSlotRepo) InsertMany(ctx context.Context, slots []models.TimeSlot) ([]models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	docs := make([]interface{}, len(slots))
	inserted := make([]models.TimeSlot, len(slots))
	for i, slot := range slots {
		if slot.ID == "" {
			slot.ID = uuid.New().String()
		}
		docs[i] = slot
		inserted[i] = slot
	}

	if _, err := r.coll.InsertMany(ctx, docs, &options.InsertManyOptions{Ordered: boolPtr(true)}); err != nil {
		return nil, err
	}
	return inserted, nil
}

func (r *mongoTimeSlotRepo) GetByID(ctx context.Context, ownerID, slotID string) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID, "createdById": ownerID}
	var slot models.TimeSlot
	if err := r.coll.FindOne(ctx, filter).Decode(&slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *mongoTimeSlotRepo) GetByRequestID(ctx context.Context, ownerID, requestID string) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"requestId": requestID, "createdById": ownerID}
	var slot models.TimeSlot
	if err := r.coll.FindOne(ctx, filter).Decode(&slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *mongoTimeSlotRepo) DeleteByID(ctx context.Context, ownerID, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID, "createdById": ownerID}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteFutureSeries removes all non-booked occurrences of the seed's weekly
// series from the seed's start onward: same owner, fixed, same weekday and
// same minutes-of-day, same duration.
func (r *mongoTimeSlotRepo) DeleteFutureSeries(ctx context.Context, ownerID string, seed models.TimeSlot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"createdById": ownerID,
		"isFixed":     true,
		"isBooked":    false,
		"start":       bson.M{"$gte": seed.Start},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var candidates []models.TimeSlot
	if err := cursor.All(ctx, &candidates); err != nil {
		return err
	}

	var ids []string
	for _, slot := range candidates {
		if sameSeries(slot, seed) {
			ids = append(ids, slot.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	_, err = r.coll.DeleteMany(ctx, bson.M{"id": bson.M{"$in": ids}})
	return err
}

func (r *mongoTimeSlotRepo) SetFixed(ctx context.Context, ownerID, slotID string) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID, "createdById": ownerID, "isBooked": false}
	update := bson.M{"$set": bson.M{"isFixed": true}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var slot models.TimeSlot
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

// sameSeries reports whether two fixed slots belong to the same weekly series:
// identical weekday, identical minutes-of-day and identical duration.
func sameSeries(a, b models.TimeSlot) bool {
	if a.Start.Weekday() != b.Start.Weekday() {
		return false
	}
	aMin := a.Start.Hour()*60 + a.Start.Minute()
	bMin := b.Start.Hour()*60 + b.Start.Minute()
	return aMin == bMin && a.Duration() == b.Duration()
}

func boolPtr(b bool) *bool { return &b }
