package mongo

import (
	"context"
	"time"

	"github.com/mentormatch/matching/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MatchRunRepository is the append-only audit trail of match requests.
// Writes are best-effort; a failed insert never fails the match.
type MatchRunRepository interface {
	Insert(ctx context.Context, run *models.MatchRun) error
	ListBySubject(ctx context.Context, kind models.EntityKind, subjectID int64, limit int64) ([]models.MatchRun, error)
}

type matchRunRepo struct {
	col *mongo.Collection
}

func NewMatchRunRepo(db *mongo.Database) MatchRunRepository {
	return &matchRunRepo{col: db.Collection("match_runs")}
}

func (r *matchRunRepo) Insert(ctx context.Context, run *models.MatchRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, run)
	return err
}

func (r *matchRunRepo) ListBySubject(ctx context.Context, kind models.EntityKind, subjectID int64, limit int64) ([]models.MatchRun, error) {
	if limit <= 0 {
		limit = 20
	}
	cur, err := r.col.Find(ctx,
		bson.M{"kind": kind, "subject_id": subjectID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var runs []models.MatchRun
	if err := cur.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
