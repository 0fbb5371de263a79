package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/mentormatch/matching/internal/embedding"
	"github.com/mentormatch/matching/internal/models"
	"github.com/mentormatch/matching/internal/utils"
	"gorm.io/gorm"
)

var ErrUnresolvableIdentifier = errors.New("unable to resolve entity identifier for embedding storage")

// PersistItem pairs an entity with its computed vector for batch writes.
type PersistItem struct {
	Entity models.Entity
	Vector []float32
}

// VectorStore persists computed vectors onto the rows owning them.
// PersistBatch is all-or-nothing: one transaction, rolled back on the
// first failing row.
type VectorStore interface {
	Persist(ctx context.Context, e models.Entity, vector []float32) error
	PersistBatch(ctx context.Context, items []PersistItem) error
}

type vectorStore struct {
	db *gorm.DB
}

func NewVectorStore(db *gorm.DB) VectorStore {
	return &vectorStore{db: db}
}

// Persist writes the vector into the embeddings column of the table
// owning the entity and stamps updated_at. It is an update by primary
// key; the owning row must already exist.
func (s *vectorStore) Persist(ctx context.Context, e models.Entity, vector []float32) error {
	return persistTo(s.db.WithContext(ctx), e, vector)
}

func (s *vectorStore) PersistBatch(ctx context.Context, items []PersistItem) error {
	if len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range items {
			if err := persistTo(tx, it.Entity, it.Vector); err != nil {
				return err
			}
		}
		return nil
	})
}

func persistTo(db *gorm.DB, e models.Entity, vector []float32) error {
	table, err := embeddingTable(e.Kind())
	if err != nil {
		return err
	}
	id := e.EntityID()
	if id == 0 {
		return ErrUnresolvableIdentifier
	}

	payload := embedding.PgvectorString(vector)
	res := db.Exec(
		"UPDATE "+table+" SET embeddings = ?::vector, updated_at = now() WHERE id = ?",
		payload, id,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s id %d", utils.ErrNotFound, table, id)
	}
	return nil
}

func embeddingTable(kind models.EntityKind) (string, error) {
	switch kind {
	case models.KindStudent, models.KindSupervisor:
		return models.User{}.TableName(), nil
	case models.KindTopic:
		return models.Topic{}.TableName(), nil
	case models.KindRole:
		return models.Role{}.TableName(), nil
	default:
		return "", fmt.Errorf("%w: %s", models.ErrUnknownEntityKind, kind)
	}
}
