package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportFinding struct {
	Name  string `bson:"name" json:"name" validate:"required,max=120"`
	Value string `bson:"value" json:"value" validate:"required,max=120"`
	Unit  string `bson:"unit,omitempty" json:"unit,omitempty" validate:"max=32"`
	Range string `bson:"range,omitempty" json:"range,omitempty" validate:"max=64"`
}

type Report struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title     string             `bson:"title" json:"title"`
	Summary   string             `bson:"summary" json:"summary"`
	Findings  []ReportFinding    `bson:"findings" json:"findings"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type CreateReportRequest struct {
	Title    string          `json:"title" validate:"required,max=200"`
	Summary  string          `json:"summary" validate:"max=10000"`
	Findings []ReportFinding `json:"findings" validate:"dive"`
}
