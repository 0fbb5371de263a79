package services

import (
	"context"
	"time"

	"github.com/mentormatch/matching/internal/cache"
	"github.com/mentormatch/matching/internal/embedding"
	"github.com/mentormatch/matching/internal/models"
	"github.com/mentormatch/matching/internal/providers/llm"
	pgrepo "github.com/mentormatch/matching/internal/repositories/postgres"
	"github.com/mentormatch/matching/internal/utils"
)

type fakeRecords struct {
	students    map[int64]*models.StudentRecord
	supervisors map[int64]*models.SupervisorRecord
	topics      map[int64]*models.TopicRecord
	roles       map[int64]*models.RoleRecord
}

func (f *fakeRecords) FetchStudent(_ context.Context, id int64) (*models.StudentRecord, error) {
	if r, ok := f.students[id]; ok {
		return r, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeRecords) FetchSupervisor(_ context.Context, id int64) (*models.SupervisorRecord, error) {
	if r, ok := f.supervisors[id]; ok {
		return r, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeRecords) FetchTopic(_ context.Context, id int64) (*models.TopicRecord, error) {
	if r, ok := f.topics[id]; ok {
		return r, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeRecords) FetchRole(_ context.Context, id int64) (*models.RoleRecord, error) {
	if r, ok := f.roles[id]; ok {
		return r, nil
	}
	return nil, utils.ErrNotFound
}

type fakeCandidates struct {
	users  []models.UserCandidate
	roles  []models.RoleMatch
	topics []models.TopicMatch
	open   []models.TopicSummary
	err    error

	lastTargetRole string
}

func (f *fakeCandidates) TopicCandidates(_ context.Context, _ int64, targetRole string, _ int) ([]models.UserCandidate, error) {
	f.lastTargetRole = targetRole
	return f.users, f.err
}

func (f *fakeCandidates) RoleCandidates(_ context.Context, _ int64, _ int) ([]models.UserCandidate, error) {
	return f.users, f.err
}

func (f *fakeCandidates) RolesForStudent(_ context.Context, _ int64, _ int) ([]models.RoleMatch, error) {
	return f.roles, f.err
}

func (f *fakeCandidates) TopicsForSupervisor(_ context.Context, _ int64, _ int) ([]models.TopicMatch, error) {
	return f.topics, f.err
}

func (f *fakeCandidates) TopicsNeedingStudents(_ context.Context, _ int) ([]models.TopicSummary, error) {
	return f.open, f.err
}

type fakeRuns struct {
	inserted []*models.MatchRun
	err      error
}

func (f *fakeRuns) Insert(_ context.Context, run *models.MatchRun) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, run)
	return nil
}

func (f *fakeRuns) ListBySubject(_ context.Context, kind models.EntityKind, subjectID int64, _ int64) ([]models.MatchRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.MatchRun
	for _, run := range f.inserted {
		if run.Kind == kind && run.SubjectID == subjectID {
			out = append(out, *run)
		}
	}
	return out, nil
}

type fakeJudge struct {
	text  string
	err   error
	calls int
}

func (f *fakeJudge) Justify(_ context.Context, _ string, _ []llm.MatchCandidate) (string, error) {
	f.calls++
	return f.text, f.err
}

func (f *fakeJudge) Close() error { return nil }

type fakeCache struct {
	store map[string]any
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string]any{}} }

func (f *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	v, ok := f.store[key]
	if !ok {
		return false, nil
	}
	if p, ok := dst.(*string); ok {
		*p = v.(string)
	}
	return true, nil
}

func (f *fakeCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	f.store[key] = val
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.store, k)
	}
	return nil
}

var _ cache.Cache = (*fakeCache)(nil)

type fakeStore struct {
	persisted map[string][]float32
	err       error
}

func newFakeStore() *fakeStore { return &fakeStore{persisted: map[string][]float32{}} }

func (f *fakeStore) Persist(_ context.Context, e models.Entity, vector []float32) error {
	if f.err != nil {
		return f.err
	}
	f.persisted[string(e.Kind())] = vector
	return nil
}

func (f *fakeStore) PersistBatch(ctx context.Context, items []pgrepo.PersistItem) error {
	if f.err != nil {
		return f.err
	}
	for _, it := range items {
		if err := f.Persist(ctx, it.Entity, it.Vector); err != nil {
			return err
		}
	}
	return nil
}

type fakeEncoder struct {
	repoID string
	dims   int
	vec    []float32
	err    error
}

func (f *fakeEncoder) Encode(_ context.Context, texts []string, _ bool) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = append([]float32(nil), f.vec...)
	}
	return out, nil
}

func (f *fakeEncoder) Dimensions() int { return f.dims }
func (f *fakeEncoder) RepoID() string  { return f.repoID }

type fakeLoader struct {
	enc *fakeEncoder
	err error
}

func (f *fakeLoader) Load(_ context.Context, repoID string) (embedding.Encoder, error) {
	if f.err != nil {
		return nil, f.err
	}
	if repoID == "" {
		repoID = embedding.DefaultModelRepoID
	}
	f.enc.repoID = repoID
	return f.enc, nil
}
