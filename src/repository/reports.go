package repository

import (
	"context"
	"fmt"
	"time"

	"ganak-service/src/database"
	"ganak-service/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReportRepository struct {
	store
}

func NewReportRepository(conn *database.Connection) *ReportRepository {
	return &ReportRepository{store{conn: conn, name: ReportsCollection}}
}

func (r *ReportRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("reports indexes: %w", err)
	}
	return nil
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	report.ID = primitive.NewObjectID()
	report.CreatedAt, report.UpdatedAt = now, now
	if report.Findings == nil {
		report.Findings = []models.ReportFinding{}
	}
	_, err = coll.InsertOne(ctx, report)
	return translate(err)
}

func (r *ReportRepository) List(ctx context.Context, userID primitive.ObjectID) ([]models.Report, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, translate(err)
	}
	reports := []models.Report{}
	if err := cur.All(ctx, &reports); err != nil {
		return nil, translate(err)
	}
	return reports, nil
}

func (r *ReportRepository) Get(ctx context.Context, userID, reportID primitive.ObjectID) (*models.Report, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}
	var report models.Report
	if err := coll.FindOne(ctx, bson.M{"_id": reportID, "user_id": userID}).Decode(&report); err != nil {
		return nil, translate(err)
	}
	return &report, nil
}

func (r *ReportRepository) Delete(ctx context.Context, userID, reportID primitive.ObjectID) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": reportID, "user_id": userID})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ReportRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	_, err = coll.DeleteMany(ctx, bson.M{"user_id": userID})
	return translate(err)
}
