package services

import (
	"context"
	"errors"

	"github.com/mentormatch/matching/internal/canonical"
	"github.com/mentormatch/matching/internal/embedding"
	"github.com/mentormatch/matching/internal/models"
	pgrepo "github.com/mentormatch/matching/internal/repositories/postgres"
	"github.com/mentormatch/matching/internal/utils"
	"github.com/sirupsen/logrus"
)

// EncoderLoader loads an allow-listed encoder, cached per repo id.
type EncoderLoader interface {
	Load(ctx context.Context, repoID string) (embedding.Encoder, error)
}

type EmbeddingService interface {
	// Refresh recomputes and persists one entity's vector. The vector
	// is written unit-normalized; compute strictly precedes persist.
	Refresh(ctx context.Context, kind models.EntityKind, entityID int64, modelRepoID string) error

	// RefreshBatch recomputes several entities and persists them in
	// one transaction: all vectors land or none do. Import workflows
	// use it to keep a partially-failed import from leaving stale
	// embeddings behind.
	RefreshBatch(ctx context.Context, items []RefreshItem, modelRepoID string) error

	// PullModel preloads a model and reports its backend dimensionality.
	PullModel(ctx context.Context, repoID string) (*ModelInfo, error)
}

type RefreshItem struct {
	Kind     models.EntityKind `json:"kind"`
	EntityID int64             `json:"entity_id"`
}

type ModelInfo struct {
	RepoID     string `json:"repo_id"`
	Dimensions int    `json:"dim"`
}

type embeddingService struct {
	records  pgrepo.RecordRepository
	store    pgrepo.VectorStore
	registry EncoderLoader
	log      *logrus.Logger
}

func NewEmbeddingService(records pgrepo.RecordRepository, store pgrepo.VectorStore, registry EncoderLoader, log *logrus.Logger) EmbeddingService {
	return &embeddingService{records: records, store: store, registry: registry, log: log}
}

func (s *embeddingService) Refresh(ctx context.Context, kind models.EntityKind, entityID int64, modelRepoID string) error {
	const op = "EmbeddingService.Refresh"

	if entityID == 0 {
		return utils.E(utils.CodeInvalidArgument, op, "entity id is required", nil)
	}

	entity, err := s.resolve(ctx, kind, entityID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, string(kind)+" not found", err)
		}
		if errors.Is(err, models.ErrUnknownEntityKind) {
			return utils.E(utils.CodeInvalidArgument, op, "unsupported entity kind", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to resolve entity", err)
	}

	text, err := canonical.BuildText(entity)
	if err != nil {
		if errors.Is(err, canonical.ErrEmptyContent) {
			return utils.E(utils.CodeInvalidArgument, op, "entity has no textual content to embed", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to build canonical text", err)
	}

	enc, err := s.registry.Load(ctx, modelRepoID)
	if err != nil {
		if errors.Is(err, embedding.ErrModelNotWhitelisted) {
			return utils.E(utils.CodeInvalidArgument, op, "model is not whitelisted", err)
		}
		return utils.E(utils.CodeUnavailable, op, "failed to load embedding model", err)
	}

	vec, err := embedding.EncodeOne(ctx, enc, text, true)
	if err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to encode entity text", err)
	}

	// The backend already normalized; re-normalize defensively so every
	// stored vector is unit-length (zero vectors pass through).
	vec = embedding.L2Normalize(vec)

	if err := s.store.Persist(ctx, entity, vec); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, string(kind)+" row disappeared before persist", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to persist embedding", err)
	}

	s.log.WithFields(logrus.Fields{
		"kind":      kind,
		"entity_id": entityID,
		"model":     enc.RepoID(),
		"dim":       enc.Dimensions(),
	}).Info("embedding refreshed")
	return nil
}

func (s *embeddingService) RefreshBatch(ctx context.Context, items []RefreshItem, modelRepoID string) error {
	const op = "EmbeddingService.RefreshBatch"

	if len(items) == 0 {
		return utils.E(utils.CodeInvalidArgument, op, "no entities to refresh", nil)
	}

	enc, err := s.registry.Load(ctx, modelRepoID)
	if err != nil {
		if errors.Is(err, embedding.ErrModelNotWhitelisted) {
			return utils.E(utils.CodeInvalidArgument, op, "model is not whitelisted", err)
		}
		return utils.E(utils.CodeUnavailable, op, "failed to load embedding model", err)
	}

	entities := make([]models.Entity, 0, len(items))
	texts := make([]string, 0, len(items))
	for _, it := range items {
		if it.EntityID == 0 {
			return utils.E(utils.CodeInvalidArgument, op, "entity id is required", nil)
		}
		entity, err := s.resolve(ctx, it.Kind, it.EntityID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return utils.E(utils.CodeNotFound, op, string(it.Kind)+" not found", err)
			}
			if errors.Is(err, models.ErrUnknownEntityKind) {
				return utils.E(utils.CodeInvalidArgument, op, "unsupported entity kind", err)
			}
			return utils.E(utils.CodeInternal, op, "failed to resolve entity", err)
		}
		text, err := canonical.BuildText(entity)
		if err != nil {
			if errors.Is(err, canonical.ErrEmptyContent) {
				return utils.E(utils.CodeInvalidArgument, op, "entity has no textual content to embed", err)
			}
			return utils.E(utils.CodeInternal, op, "failed to build canonical text", err)
		}
		entities = append(entities, entity)
		texts = append(texts, text)
	}

	vecs, err := enc.Encode(ctx, texts, true)
	if err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to encode entity texts", err)
	}
	if len(vecs) != len(entities) {
		return utils.E(utils.CodeUnavailable, op, "embedding count mismatch", nil)
	}

	batch := make([]pgrepo.PersistItem, len(entities))
	for i := range entities {
		batch[i] = pgrepo.PersistItem{Entity: entities[i], Vector: embedding.L2Normalize(vecs[i])}
	}

	if err := s.store.PersistBatch(ctx, batch); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "entity row disappeared before persist", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to persist embeddings", err)
	}

	s.log.WithFields(logrus.Fields{
		"count": len(batch),
		"model": enc.RepoID(),
		"dim":   enc.Dimensions(),
	}).Info("embedding batch refreshed")
	return nil
}

func (s *embeddingService) resolve(ctx context.Context, kind models.EntityKind, entityID int64) (models.Entity, error) {
	switch kind {
	case models.KindStudent:
		rec, err := s.records.FetchStudent(ctx, entityID)
		if err != nil {
			return nil, err
		}
		return rec, nil
	case models.KindSupervisor:
		rec, err := s.records.FetchSupervisor(ctx, entityID)
		if err != nil {
			return nil, err
		}
		return rec, nil
	case models.KindTopic:
		rec, err := s.records.FetchTopic(ctx, entityID)
		if err != nil {
			return nil, err
		}
		return rec, nil
	case models.KindRole:
		rec, err := s.records.FetchRole(ctx, entityID)
		if err != nil {
			return nil, err
		}
		return rec, nil
	default:
		return nil, models.ErrUnknownEntityKind
	}
}

func (s *embeddingService) PullModel(ctx context.Context, repoID string) (*ModelInfo, error) {
	const op = "EmbeddingService.PullModel"

	enc, err := s.registry.Load(ctx, repoID)
	if err != nil {
		if errors.Is(err, embedding.ErrModelNotWhitelisted) {
			return nil, utils.E(utils.CodeInvalidArgument, op, "model is not whitelisted", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "failed to pull model", err)
	}
	return &ModelInfo{RepoID: enc.RepoID(), Dimensions: enc.Dimensions()}, nil
}
