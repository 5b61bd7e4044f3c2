package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shiftsurge/shift-system/internal/core/domain"
	"github.com/shiftsurge/shift-system/internal/core/ports"
)

const collectionShifts = "shifts"

type ShiftRepository struct {
	col *mongo.Collection
}

func NewShiftRepository(db *mongo.Database) *ShiftRepository {
	return &ShiftRepository{col: db.Collection(collectionShifts)}
}

// unassigned matches documents with no assignee. The user_id field is
// omitted entirely when empty (omitempty), but a cleared assignee may also
// have been $unset, so both shapes count as open.
var unassigned = bson.M{"$or": bson.A{
	bson.M{"user_id": bson.M{"$exists": false}},
	bson.M{"user_id": ""},
	bson.M{"user_id": nil},
}}

// Create inserts a new shift document. IDs are hex object ids stored as
// strings so they round-trip through the domain type unchanged.
func (r *ShiftRepository) Create(ctx context.Context, s *domain.Shift) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if s.ID == "" {
		s.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert shift: %w", err)
	}
	return nil
}

func (r *ShiftRepository) FindByID(ctx context.Context, id string) (*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Shift
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrShiftNotFound
		}
		return nil, fmt.Errorf("find shift: %w", err)
	}
	return &s, nil
}

// List returns a page of shifts matching filter, sorted by start time.
func (r *ShiftRepository) List(ctx context.Context, filter ports.ListShiftsFilter) ([]*domain.Shift, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.ClaimableOnly {
		query["status"] = bson.M{"$in": bson.A{
			string(domain.StatusBidding), string(domain.StatusGhosted),
		}}
		for k, v := range unassigned {
			query[k] = v
		}
	}
	timeRange := bson.M{}
	if !filter.From.IsZero() {
		timeRange["$gte"] = filter.From.UTC()
	}
	if !filter.To.IsZero() {
		timeRange["$lte"] = filter.To.UTC()
	}
	if len(timeRange) > 0 {
		query["start_time"] = timeRange
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count shifts: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	if filter.Limit > 0 {
		opts.SetSkip(int64((page - 1) * filter.Limit)).SetLimit(int64(filter.Limit))
	}

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list shifts: %w", err)
	}
	defer cur.Close(ctx)

	var shifts []*domain.Shift
	if err := cur.All(ctx, &shifts); err != nil {
		return nil, 0, fmt.Errorf("decode shifts: %w", err)
	}
	return shifts, total, nil
}

// ClaimOpen performs the single atomic award write: assignee and status are
// set iff the shift is still claimable at write time. Mongo evaluates the
// filter and applies the update as one indivisible document operation, so
// at most one concurrent claimant can match.
func (r *ShiftRepository) ClaimOpen(ctx context.Context, shiftID, userID string) (*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id": shiftID,
		"status": bson.M{"$in": bson.A{
			string(domain.StatusBidding), string(domain.StatusGhosted),
		}},
	}
	for k, v := range unassigned {
		filter[k] = v
	}
	update := bson.M{"$set": bson.M{
		"user_id": userID,
		"status":  string(domain.StatusFilled),
	}}

	var claimed domain.Shift
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&claimed)
	if err == nil {
		return &claimed, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		// The write may have landed; surface the ambiguity, not a loss.
		return nil, fmt.Errorf("claim shift: %w", ctxErr)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("claim shift: %w", err)
	}

	// No document matched: separate "gone" from "not open" for the log.
	current, findErr := r.FindByID(ctx, shiftID)
	if findErr != nil {
		return nil, findErr
	}
	return nil, fmt.Errorf("shift %s is %s (assignee %q): %w",
		shiftID, current.Status, current.UserID, domain.ErrShiftUnavailable)
}

// TransitionStatus moves the shift from one status to another, guarded on
// the stored status still being from.
func (r *ShiftRepository) TransitionStatus(ctx context.Context, shiftID string, from, to domain.ShiftStatus, clearAssignee bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": string(to)}}
	if clearAssignee {
		update["$unset"] = bson.M{"user_id": ""}
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": shiftID, "status": string(from)}, update)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("transition shift: %w", ctxErr)
		}
		return fmt.Errorf("transition shift: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, findErr := r.FindByID(ctx, shiftID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("shift %s no longer %s: %w", shiftID, from, domain.ErrShiftUnavailable)
	}
	return nil
}

func (r *ShiftRepository) ListGhostedUnnotified(ctx context.Context) ([]*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{
		"status":      string(domain.StatusGhosted),
		"is_notified": bson.M{"$ne": true},
	})
	if err != nil {
		return nil, fmt.Errorf("list ghosted shifts: %w", err)
	}
	defer cur.Close(ctx)

	var shifts []*domain.Shift
	if err := cur.All(ctx, &shifts); err != nil {
		return nil, fmt.Errorf("decode ghosted shifts: %w", err)
	}
	return shifts, nil
}

// EscalateUnnotified escalates one ghosted shift with a pipeline update so
// the surge rate is computed from base_pay_rate inside the same atomic
// write; the ghosted+unnotified guard makes re-running the sweep safe.
func (r *ShiftRepository) EscalateUnnotified(ctx context.Context, shiftID string, multiplier float64) (*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":         shiftID,
		"status":      string(domain.StatusGhosted),
		"is_notified": bson.M{"$ne": true},
	}
	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: string(domain.StatusBidding)},
			{Key: "is_notified", Value: true},
			{Key: "current_pay_rate", Value: bson.D{
				{Key: "$multiply", Value: bson.A{"$base_pay_rate", multiplier}},
			}},
		}}},
	}

	var escalated domain.Shift
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&escalated)
	if err == nil {
		return &escalated, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("escalate shift: %w", ctxErr)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, findErr := r.FindByID(ctx, shiftID); findErr != nil {
			return nil, findErr
		}
		return nil, fmt.Errorf("shift %s not ghosted/unnotified: %w", shiftID, domain.ErrShiftUnavailable)
	}
	return nil, fmt.Errorf("escalate shift: %w", err)
}

func (r *ShiftRepository) ListOverdueScheduled(ctx context.Context, cutoff time.Time) ([]*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{
		"status":     string(domain.StatusScheduled),
		"start_time": bson.M{"$lt": cutoff.UTC()},
	})
	if err != nil {
		return nil, fmt.Errorf("list overdue shifts: %w", err)
	}
	defer cur.Close(ctx)

	var shifts []*domain.Shift
	if err := cur.All(ctx, &shifts); err != nil {
		return nil, fmt.Errorf("decode overdue shifts: %w", err)
	}
	return shifts, nil
}

// EnsureIndexes creates necessary indexes on the shifts collection.
func (r *ShiftRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "is_notified", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "start_time", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
