package workers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/mentormatch/matching/internal/models"
	"github.com/mentormatch/matching/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RefreshWorkerPool drains deferred embedding refreshes from a Redis
// stream. Import workflows enqueue {kind, entity_id} entries after
// committing their writes instead of blocking on the encode round-trip.
type RefreshWorkerPool struct {
	Redis      *redis.Client
	Embeddings services.EmbeddingService
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *RefreshWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Embeddings == nil {
		return errors.New("RefreshWorkerPool missing dependency: Redis/Embeddings must be set")
	}
	if p.Stream == "" {
		p.Stream = "embeddings:refresh"
	}
	if p.Group == "" {
		p.Group = "refresh-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

// Enqueue appends one deferred refresh to the stream.
func (p *RefreshWorkerPool) Enqueue(ctx context.Context, kind models.EntityKind, entityID int64) error {
	return p.Redis.XAdd(ctx, &redis.XAddArgs{
		Stream: p.Stream,
		Values: map[string]any{
			"kind":      string(kind),
			"entity_id": strconv.FormatInt(entityID, 10),
		},
	}).Err()
}

func (p *RefreshWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *RefreshWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	kind, err := models.ParseEntityKind(getStr("kind"))
	if err != nil {
		p.Logger.WithField("redis_id", msg.ID).Warn("skipping refresh entry with unknown kind")
		return
	}
	entityID, _ := strconv.ParseInt(getStr("entity_id"), 10, 64)
	if entityID == 0 {
		p.Logger.WithField("redis_id", msg.ID).Warn("skipping refresh entry without entity_id")
		return
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":  msg.ID,
		"kind":      kind,
		"entity_id": entityID,
	})

	if err := p.Embeddings.Refresh(ctx, kind, entityID, getStr("model_repo_id")); err != nil {
		log.WithError(err).Error("deferred embedding refresh failed")
		return
	}
	log.Info("deferred embedding refresh done")
}
