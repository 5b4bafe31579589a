package report

import (
	"context"
	"errors"
	"time"

	"go-propdesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReportRepository interface {
	Create(ctx context.Context, report *SavedReport) error
	Get(ctx context.Context, id string) (*SavedReport, error)
	List(ctx context.Context) ([]SavedReport, error)
	ListScheduled(ctx context.Context) ([]SavedReport, error)
	UpdateStatus(ctx context.Context, id string, status SavedReportStatus) error
	RecordRun(ctx context.Context, id string, ranAt time.Time, next *time.Time, artifact string) error
	Delete(ctx context.Context, id string) error
}

type ReportRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewReportRepository(db *database.MongodbDB) ReportRepository {
	return &ReportRepositoryImpl{
		Collection: db.DB.Collection("saved_reports"),
	}
}

func (r *ReportRepositoryImpl) Create(ctx context.Context, report *SavedReport) error {
	report.CreatedAt = time.Now()
	report.UpdatedAt = report.CreatedAt
	result, err := r.Collection.InsertOne(ctx, report)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		report.ID = oid
	}
	return nil
}

func (r *ReportRepositoryImpl) Get(ctx context.Context, id string) (*SavedReport, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrSavedReportNotFound
	}
	var report SavedReport
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSavedReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepositoryImpl) List(ctx context.Context) ([]SavedReport, error) {
	return r.find(ctx, bson.M{})
}

// ListScheduled returns active reports that carry a schedule
func (r *ReportRepositoryImpl) ListScheduled(ctx context.Context) ([]SavedReport, error) {
	return r.find(ctx, bson.M{
		"status":   SavedReportStatusActive,
		"schedule": bson.M{"$ne": nil},
	})
}

func (r *ReportRepositoryImpl) find(ctx context.Context, filter bson.M) ([]SavedReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reports := []SavedReport{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportRepositoryImpl) UpdateStatus(ctx context.Context, id string, status SavedReportStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrSavedReportNotFound
	}
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		},
	}
	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrSavedReportNotFound
	}
	return nil
}

// RecordRun stamps the outcome of a scheduled delivery
func (r *ReportRepositoryImpl) RecordRun(ctx context.Context, id string, ranAt time.Time, next *time.Time, artifact string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrSavedReportNotFound
	}
	set := bson.M{
		"schedule.last_run":      ranAt,
		"schedule.last_artifact": artifact,
		"updated_at":             time.Now(),
	}
	if next != nil {
		set["schedule.next_scheduled"] = *next
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	return err
}

func (r *ReportRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrSavedReportNotFound
	}
	result, err := r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrSavedReportNotFound
	}
	return nil
}
