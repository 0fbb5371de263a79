package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MatchRun is an audit record of one point-in-time match, written
// best-effort so the admin panel can review past rankings.
type MatchRun struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RunID string             `bson:"run_id" json:"run_id"` // uuid v4

	Kind       EntityKind `bson:"kind" json:"kind"` // topic|role|student|supervisor
	SubjectID  int64      `bson:"subject_id" json:"subject_id"`
	TargetRole string     `bson:"target_role,omitempty" json:"target_role,omitempty"`

	Candidates []MatchRunCandidate `bson:"candidates" json:"candidates"`
	Justified  bool                `bson:"justified" json:"justified"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type MatchRunCandidate struct {
	EntityID int64    `bson:"entity_id" json:"entity_id"`
	Label    string   `bson:"label" json:"label"`
	Score    *float64 `bson:"score,omitempty" json:"score,omitempty"`
}
