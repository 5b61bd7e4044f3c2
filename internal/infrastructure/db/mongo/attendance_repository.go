package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shiftsurge/shift-system/internal/core/domain"
)

const collectionAttendance = "attendance_logs"

type AttendanceRepository struct {
	col *mongo.Collection
}

func NewAttendanceRepository(db *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{col: db.Collection(collectionAttendance)}
}

// Create inserts a new attendance log at check-in time.
func (r *AttendanceRepository) Create(ctx context.Context, log *domain.AttendanceLog) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if log.ID == "" {
		log.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, log); err != nil {
		return fmt.Errorf("insert attendance log: %w", err)
	}
	return nil
}

// Complete closes the open log for (shiftID, userID) with the check-out time.
func (r *AttendanceRepository) Complete(ctx context.Context, shiftID, userID string, at time.Time, notes string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"check_out_time": at.UTC()}
	if notes != "" {
		set["notes"] = notes
	}

	res, err := r.col.UpdateOne(ctx, bson.M{
		"shift_id":       shiftID,
		"user_id":        userID,
		"check_out_time": bson.M{"$exists": false},
	}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("complete attendance log: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("complete attendance log: no open log for shift %s", shiftID)
	}
	return nil
}
