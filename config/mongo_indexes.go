package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}

	db := MongoDatabase()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// match_runs indexes
	runs := db.Collection("match_runs")
	_, err := runs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// Query helper: recent runs for one subject
		{
			Keys: bson.D{
				{Key: "kind", Value: 1},
				{Key: "subject_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("by_subject_created"),
		},
		// One document per run id
		{
			Keys: bson.D{{Key: "run_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_run_id").
				SetUnique(true),
		},
	})
	return err
}
