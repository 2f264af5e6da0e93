package repository

import (
	"context"
	"fmt"
	"regexp"

	"ganak-service/src/database"
	"ganak-service/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultClinicLimit = 20
	MaxClinicLimit     = 100
)

type ClinicRepository struct {
	store
}

func NewClinicRepository(conn *database.Connection) *ClinicRepository {
	return &ClinicRepository{store{conn: conn, name: ClinicsCollection}}
}

func (r *ClinicRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "city", Value: 1}, {Key: "specialties", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("clinics indexes: %w", err)
	}
	return nil
}

// ClinicFilter translates a lookup into a Mongo filter. City and specialty
// match case-insensitively on the whole value.
func ClinicFilter(q models.ClinicQuery) bson.M {
	filter := bson.M{}
	if q.City != "" {
		filter["city"] = exactFold(q.City)
	}
	if q.Specialty != "" {
		filter["specialties"] = exactFold(q.Specialty)
	}
	if q.Near != nil {
		near := bson.M{"$geometry": q.Near}
		if q.MaxDistanceKM > 0 {
			near["$maxDistance"] = q.MaxDistanceKM * 1000
		}
		filter["location"] = bson.M{"$nearSphere": near}
	}
	return filter
}

func exactFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

// Search returns matching clinics; results are ordered by distance when a
// point was given.
func (r *ClinicRepository) Search(ctx context.Context, q models.ClinicQuery) ([]models.Clinic, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultClinicLimit
	}
	if limit > MaxClinicLimit {
		limit = MaxClinicLimit
	}

	opts := options.Find().SetLimit(limit)
	if q.Near == nil {
		opts.SetSort(bson.D{{Key: "name", Value: 1}})
	}

	cur, err := coll.Find(ctx, ClinicFilter(q), opts)
	if err != nil {
		return nil, translate(err)
	}
	clinics := []models.Clinic{}
	if err := cur.All(ctx, &clinics); err != nil {
		return nil, translate(err)
	}
	return clinics, nil
}

func (r *ClinicRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Clinic, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}
	var clinic models.Clinic
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&clinic); err != nil {
		return nil, translate(err)
	}
	return &clinic, nil
}
