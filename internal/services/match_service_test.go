package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentormatch/matching/internal/models"
	"github.com/mentormatch/matching/internal/utils"
)

func ptrFloat(f float64) *float64 { return &f }

func TestMatchTopic(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ranked candidates", func(t *testing.T) {
		cands := &fakeCandidates{users: []models.UserCandidate{
			{UserID: 10, FullName: "Alice", Score: ptrFloat(0.91)},
			{UserID: 11, FullName: "Bob", Score: ptrFloat(0.80)},
		}}
		svc := NewMatchService(seededRecords(), cands, nil, nil, nil, testLogger())

		res, err := svc.MatchTopic(ctx, 3, "student")
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.Topic.TopicID)
		assert.Equal(t, "student", res.TargetRole)
		require.Len(t, res.Candidates, 2)
		assert.Equal(t, "Alice", res.Candidates[0].FullName)
		assert.Nil(t, res.Justification)
	})

	t.Run("empty target role falls back to topic seeking_role", func(t *testing.T) {
		cands := &fakeCandidates{}
		svc := NewMatchService(seededRecords(), cands, nil, nil, nil, testLogger())

		res, err := svc.MatchTopic(ctx, 3, "  ")
		require.NoError(t, err)
		assert.Equal(t, string(models.SeekingStudent), res.TargetRole)
		assert.Equal(t, string(models.SeekingStudent), cands.lastTargetRole)
	})

	t.Run("unrecognized target role is normalized everywhere", func(t *testing.T) {
		cands := &fakeCandidates{}
		runs := &fakeRuns{}
		svc := NewMatchService(seededRecords(), cands, runs, nil, nil, testLogger())

		res, err := svc.MatchTopic(ctx, 3, "mentor")
		require.NoError(t, err)
		assert.Equal(t, "student", res.TargetRole)
		assert.Equal(t, "student", cands.lastTargetRole)
		require.Len(t, runs.inserted, 1)
		assert.Equal(t, "student", runs.inserted[0].TargetRole)
	})

	t.Run("topic not found", func(t *testing.T) {
		svc := NewMatchService(seededRecords(), &fakeCandidates{}, nil, nil, nil, testLogger())
		_, err := svc.MatchTopic(ctx, 404, "")
		assert.True(t, utils.IsCode(err, utils.CodeNotFound))
	})

	t.Run("empty pool is a valid result", func(t *testing.T) {
		svc := NewMatchService(seededRecords(), &fakeCandidates{}, nil, nil, nil, testLogger())
		res, err := svc.MatchTopic(ctx, 3, "student")
		require.NoError(t, err)
		assert.Empty(t, res.Candidates)
	})

	t.Run("repository failure", func(t *testing.T) {
		cands := &fakeCandidates{err: errors.New("db down")}
		svc := NewMatchService(seededRecords(), cands, nil, nil, nil, testLogger())
		_, err := svc.MatchTopic(ctx, 3, "student")
		assert.True(t, utils.IsCode(err, utils.CodeInternal))
	})
}

func TestMatchRole(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ranked candidates", func(t *testing.T) {
		cands := &fakeCandidates{users: []models.UserCandidate{
			{UserID: 10, FullName: "Alice", Score: ptrFloat(0.7)},
		}}
		svc := NewMatchService(seededRecords(), cands, nil, nil, nil, testLogger())

		res, err := svc.MatchRole(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(4), res.Role.RoleID)
		require.Len(t, res.Candidates, 1)
	})

	t.Run("role not found", func(t *testing.T) {
		svc := NewMatchService(seededRecords(), &fakeCandidates{}, nil, nil, nil, testLogger())
		_, err := svc.MatchRole(ctx, 404)
		assert.True(t, utils.IsCode(err, utils.CodeNotFound))
	})
}

func TestMatchStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ranked roles", func(t *testing.T) {
		cands := &fakeCandidates{roles: []models.RoleMatch{
			{RoleID: 4, Name: "Backend engineer", TopicTitle: "Citation graphs", Score: ptrFloat(0.88)},
		}}
		svc := NewMatchService(seededRecords(), cands, nil, nil, nil, testLogger())

		res, err := svc.MatchStudent(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Alice", res.Student.FullName)
		require.Len(t, res.Roles, 1)
		assert.Equal(t, 0.88, *res.Roles[0].Score)
	})

	t.Run("student not found", func(t *testing.T) {
		svc := NewMatchService(seededRecords(), &fakeCandidates{}, nil, nil, nil, testLogger())
		_, err := svc.MatchStudent(ctx, 404)
		assert.True(t, utils.IsCode(err, utils.CodeNotFound))
	})
}

func TestMatchSupervisor(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ranked topics", func(t *testing.T) {
		cands := &fakeCandidates{topics: []models.TopicMatch{
			{TopicID: 3, Title: "Citation graphs", Score: ptrFloat(0.75)},
		}}
		svc := NewMatchService(seededRecords(), cands, nil, nil, nil, testLogger())

		res, err := svc.MatchSupervisor(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "Dr. Petrov", res.Supervisor.FullName)
		require.Len(t, res.Topics, 1)
	})

	t.Run("supervisor not found", func(t *testing.T) {
		svc := NewMatchService(seededRecords(), &fakeCandidates{}, nil, nil, nil, testLogger())
		_, err := svc.MatchSupervisor(ctx, 404)
		assert.True(t, utils.IsCode(err, utils.CodeNotFound))
	})
}

func TestTopicsNeedingStudents(t *testing.T) {
	cands := &fakeCandidates{open: []models.TopicSummary{
		{TopicID: 3, Title: "Citation graphs"},
	}}
	svc := NewMatchService(seededRecords(), cands, nil, nil, nil, testLogger())

	topics, err := svc.TopicsNeedingStudents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "Citation graphs", topics[0].Title)
}

func TestMatchHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("unconfigured runs store", func(t *testing.T) {
		svc := NewMatchService(seededRecords(), &fakeCandidates{}, nil, nil, nil, testLogger())
		_, err := svc.MatchHistory(ctx, models.KindTopic, 3, 10)
		assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
	})

	t.Run("returns recorded runs", func(t *testing.T) {
		runs := &fakeRuns{}
		users := []models.UserCandidate{{UserID: 10, FullName: "Alice", Score: ptrFloat(0.9)}}
		svc := NewMatchService(seededRecords(), &fakeCandidates{users: users}, runs, nil, nil, testLogger())

		_, err := svc.MatchTopic(ctx, 3, "student")
		require.NoError(t, err)

		history, err := svc.MatchHistory(ctx, models.KindTopic, 3, 10)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, int64(3), history[0].SubjectID)
	})
}

func TestMatchJustification(t *testing.T) {
	ctx := context.Background()
	users := []models.UserCandidate{
		{UserID: 10, FullName: "Alice", Program: "CS", Score: ptrFloat(0.9)},
	}

	t.Run("judge output attached", func(t *testing.T) {
		judge := &fakeJudge{text: "Alice fits the required stack."}
		svc := NewMatchService(seededRecords(), &fakeCandidates{users: users}, nil, judge, nil, testLogger())

		res, err := svc.MatchTopic(ctx, 3, "student")
		require.NoError(t, err)
		require.NotNil(t, res.Justification)
		assert.Equal(t, "Alice fits the required stack.", *res.Justification)
	})

	t.Run("judge failure never fails the match", func(t *testing.T) {
		judge := &fakeJudge{err: errors.New("quota exceeded")}
		svc := NewMatchService(seededRecords(), &fakeCandidates{users: users}, nil, judge, nil, testLogger())

		res, err := svc.MatchTopic(ctx, 3, "student")
		require.NoError(t, err)
		assert.Nil(t, res.Justification)
	})

	t.Run("judge skipped for empty pool", func(t *testing.T) {
		judge := &fakeJudge{text: "unused"}
		svc := NewMatchService(seededRecords(), &fakeCandidates{}, nil, judge, nil, testLogger())

		res, err := svc.MatchTopic(ctx, 3, "student")
		require.NoError(t, err)
		assert.Nil(t, res.Justification)
		assert.Zero(t, judge.calls)
	})

	t.Run("repeat request served from cache", func(t *testing.T) {
		judge := &fakeJudge{text: "cached answer"}
		c := newFakeCache()
		svc := NewMatchService(seededRecords(), &fakeCandidates{users: users}, nil, judge, c, testLogger())

		first, err := svc.MatchTopic(ctx, 3, "student")
		require.NoError(t, err)
		second, err := svc.MatchTopic(ctx, 3, "student")
		require.NoError(t, err)

		assert.Equal(t, *first.Justification, *second.Justification)
		assert.Equal(t, 1, judge.calls)
	})
}

func TestMatchAudit(t *testing.T) {
	ctx := context.Background()
	users := []models.UserCandidate{
		{UserID: 10, FullName: "Alice", Score: ptrFloat(0.9)},
	}

	t.Run("run recorded", func(t *testing.T) {
		runs := &fakeRuns{}
		svc := NewMatchService(seededRecords(), &fakeCandidates{users: users}, runs, nil, nil, testLogger())

		_, err := svc.MatchTopic(ctx, 3, "student")
		require.NoError(t, err)

		require.Len(t, runs.inserted, 1)
		run := runs.inserted[0]
		assert.Equal(t, models.KindTopic, run.Kind)
		assert.Equal(t, int64(3), run.SubjectID)
		assert.Equal(t, "student", run.TargetRole)
		require.Len(t, run.Candidates, 1)
		assert.Equal(t, int64(10), run.Candidates[0].EntityID)
		assert.False(t, run.Justified)
		assert.NotEmpty(t, run.RunID)
	})

	t.Run("audit failure never fails the match", func(t *testing.T) {
		runs := &fakeRuns{err: errors.New("mongo down")}
		svc := NewMatchService(seededRecords(), &fakeCandidates{users: users}, runs, nil, nil, testLogger())

		_, err := svc.MatchTopic(ctx, 3, "student")
		require.NoError(t, err)
	})
}
