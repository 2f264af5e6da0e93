package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// GeoPoint is a GeoJSON point; Coordinates is [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

type Clinic struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Address     string             `bson:"address" json:"address"`
	City        string             `bson:"city" json:"city"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Specialties []string           `bson:"specialties" json:"specialties"`
	Location    *GeoPoint          `bson:"location,omitempty" json:"location,omitempty"`
}

// ClinicQuery is the parsed form of a clinic lookup. Near is set only when
// both coordinates were supplied.
type ClinicQuery struct {
	City          string
	Specialty     string
	Near          *GeoPoint
	MaxDistanceKM float64
	Limit         int64
}
