package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mentormatch/matching/internal/cache"
	"github.com/mentormatch/matching/internal/models"
	"github.com/mentormatch/matching/internal/providers/llm"
	mongorepo "github.com/mentormatch/matching/internal/repositories/mongo"
	pgrepo "github.com/mentormatch/matching/internal/repositories/postgres"
	"github.com/mentormatch/matching/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	judgeTimeout     = 15 * time.Second
	auditTimeout     = 3 * time.Second
	justificationTTL = time.Hour
)

type TopicMatchResult struct {
	Topic         *models.TopicRecord    `json:"topic"`
	TargetRole    string                 `json:"target_role"`
	Candidates    []models.UserCandidate `json:"candidates"`
	Justification *string                `json:"justification,omitempty"`
}

type RoleMatchResult struct {
	Role          *models.RoleRecord     `json:"role"`
	Candidates    []models.UserCandidate `json:"candidates"`
	Justification *string                `json:"justification,omitempty"`
}

type StudentMatchResult struct {
	Student       *models.StudentRecord `json:"student"`
	Roles         []models.RoleMatch    `json:"roles"`
	Justification *string               `json:"justification,omitempty"`
}

type SupervisorMatchResult struct {
	Supervisor    *models.SupervisorRecord `json:"supervisor"`
	Topics        []models.TopicMatch      `json:"topics"`
	Justification *string                  `json:"justification,omitempty"`
}

type MatchService interface {
	MatchTopic(ctx context.Context, topicID int64, targetRole string) (*TopicMatchResult, error)
	MatchRole(ctx context.Context, roleID int64) (*RoleMatchResult, error)
	MatchStudent(ctx context.Context, studentUserID int64) (*StudentMatchResult, error)
	MatchSupervisor(ctx context.Context, supervisorUserID int64) (*SupervisorMatchResult, error)
	TopicsNeedingStudents(ctx context.Context, limit int) ([]models.TopicSummary, error)
	MatchHistory(ctx context.Context, kind models.EntityKind, subjectID int64, limit int64) ([]models.MatchRun, error)
}

type matchService struct {
	records    pgrepo.RecordRepository
	candidates pgrepo.CandidateRepository
	runs       mongorepo.MatchRunRepository // optional
	judge      llm.Judge                    // optional
	cache      cache.Cache                  // optional
	log        *logrus.Logger
}

func NewMatchService(
	records pgrepo.RecordRepository,
	candidates pgrepo.CandidateRepository,
	runs mongorepo.MatchRunRepository,
	judge llm.Judge,
	c cache.Cache,
	log *logrus.Logger,
) MatchService {
	return &matchService{
		records:    records,
		candidates: candidates,
		runs:       runs,
		judge:      judge,
		cache:      c,
		log:        log,
	}
}

func (s *matchService) MatchTopic(ctx context.Context, topicID int64, targetRole string) (*TopicMatchResult, error) {
	const op = "MatchService.MatchTopic"

	topic, err := s.records.FetchTopic(ctx, topicID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "topic not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to fetch topic", err)
	}

	if strings.TrimSpace(targetRole) == "" {
		targetRole = string(topic.SeekingRole)
	}
	// Report and audit the pool actually queried, not the raw request.
	targetRole = pgrepo.NormalizeTargetRole(targetRole)

	cands, err := s.candidates.TopicCandidates(ctx, topicID, targetRole, 0)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to query candidates", err)
	}

	result := &TopicMatchResult{Topic: topic, TargetRole: targetRole, Candidates: cands}
	result.Justification = s.justify(ctx, topicSubject(topic), userJudgeCandidates(cands))
	s.audit(ctx, models.KindTopic, topicID, targetRole, userAuditCandidates(cands), result.Justification != nil)
	return result, nil
}

func (s *matchService) MatchRole(ctx context.Context, roleID int64) (*RoleMatchResult, error) {
	const op = "MatchService.MatchRole"

	role, err := s.records.FetchRole(ctx, roleID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "role not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to fetch role", err)
	}

	cands, err := s.candidates.RoleCandidates(ctx, roleID, 0)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to query candidates", err)
	}

	result := &RoleMatchResult{Role: role, Candidates: cands}
	result.Justification = s.justify(ctx, roleSubject(role), userJudgeCandidates(cands))
	s.audit(ctx, models.KindRole, roleID, "student", userAuditCandidates(cands), result.Justification != nil)
	return result, nil
}

func (s *matchService) MatchStudent(ctx context.Context, studentUserID int64) (*StudentMatchResult, error) {
	const op = "MatchService.MatchStudent"

	student, err := s.records.FetchStudent(ctx, studentUserID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "student not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to fetch student", err)
	}

	roles, err := s.candidates.RolesForStudent(ctx, studentUserID, 0)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to query roles", err)
	}

	result := &StudentMatchResult{Student: student, Roles: roles}
	result.Justification = s.justify(ctx, studentSubject(student), roleJudgeCandidates(roles))
	s.audit(ctx, models.KindStudent, studentUserID, "", roleAuditCandidates(roles), result.Justification != nil)
	return result, nil
}

func (s *matchService) MatchSupervisor(ctx context.Context, supervisorUserID int64) (*SupervisorMatchResult, error) {
	const op = "MatchService.MatchSupervisor"

	sup, err := s.records.FetchSupervisor(ctx, supervisorUserID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "supervisor not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to fetch supervisor", err)
	}

	topics, err := s.candidates.TopicsForSupervisor(ctx, supervisorUserID, 0)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to query topics", err)
	}

	result := &SupervisorMatchResult{Supervisor: sup, Topics: topics}
	result.Justification = s.justify(ctx, supervisorSubject(sup), topicJudgeCandidates(topics))
	s.audit(ctx, models.KindSupervisor, supervisorUserID, "", topicAuditCandidates(topics), result.Justification != nil)
	return result, nil
}

func (s *matchService) TopicsNeedingStudents(ctx context.Context, limit int) ([]models.TopicSummary, error) {
	const op = "MatchService.TopicsNeedingStudents"

	topics, err := s.candidates.TopicsNeedingStudents(ctx, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list topics", err)
	}
	return topics, nil
}

// MatchHistory returns the recorded runs for one subject, newest first.
func (s *matchService) MatchHistory(ctx context.Context, kind models.EntityKind, subjectID int64, limit int64) ([]models.MatchRun, error) {
	const op = "MatchService.MatchHistory"

	if s.runs == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "match history is not configured", nil)
	}
	runs, err := s.runs.ListBySubject(ctx, kind, subjectID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list match runs", err)
	}
	return runs, nil
}

// justify asks the judge to explain the ranking. Strictly best-effort:
// any failure is logged and the match proceeds without a justification.
func (s *matchService) justify(ctx context.Context, subject string, cands []llm.MatchCandidate) *string {
	if s.judge == nil || len(cands) == 0 {
		return nil
	}

	key := justificationKey(subject, cands)
	if s.cache != nil {
		var cached string
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached
		}
	}

	jctx, cancel := context.WithTimeout(ctx, judgeTimeout)
	defer cancel()

	text, err := s.judge.Justify(jctx, subject, cands)
	if err != nil {
		s.log.WithError(err).Warn("judge justification unavailable")
		return nil
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, text, justificationTTL); err != nil {
			s.log.WithError(err).Debug("failed to cache justification")
		}
	}
	return &text
}

func justificationKey(subject string, cands []llm.MatchCandidate) string {
	h := sha256.New()
	h.Write([]byte(subject))
	for _, c := range cands {
		fmt.Fprintf(h, "|%s", c.Label)
		if c.Score != nil {
			fmt.Fprintf(h, ":%.6f", *c.Score)
		}
	}
	return "match:justification:" + hex.EncodeToString(h.Sum(nil))
}

// audit appends the run to the match history, best-effort.
func (s *matchService) audit(ctx context.Context, kind models.EntityKind, subjectID int64, targetRole string, cands []models.MatchRunCandidate, justified bool) {
	if s.runs == nil {
		return
	}

	actx, cancel := context.WithTimeout(ctx, auditTimeout)
	defer cancel()

	run := &models.MatchRun{
		RunID:      uuid.NewString(),
		Kind:       kind,
		SubjectID:  subjectID,
		TargetRole: targetRole,
		Candidates: cands,
		Justified:  justified,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.runs.Insert(actx, run); err != nil {
		s.log.WithError(err).Warn("failed to record match run")
	}
}

func topicSubject(t *models.TopicRecord) string {
	return strings.TrimSpace(strings.Join([]string{t.Title, t.Description, t.RequiredSkills}, "\n"))
}

func roleSubject(r *models.RoleRecord) string {
	parts := []string{r.Name, r.Description, r.RequiredSkills}
	if r.Topic != nil {
		parts = append(parts, r.Topic.Title)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func studentSubject(st *models.StudentRecord) string {
	return strings.TrimSpace(strings.Join([]string{st.FullName, st.Program, strings.Join(st.Skills, " "), st.Interests}, "\n"))
}

func supervisorSubject(sup *models.SupervisorRecord) string {
	return strings.TrimSpace(strings.Join([]string{sup.FullName, sup.Position, sup.Interests, sup.Requirements}, "\n"))
}

func userJudgeCandidates(cands []models.UserCandidate) []llm.MatchCandidate {
	out := make([]llm.MatchCandidate, 0, len(cands))
	for _, c := range cands {
		summary := c.Program
		if summary == "" {
			summary = c.Position
		}
		if len(c.Skills) > 0 {
			summary = strings.TrimSpace(summary + " " + strings.Join(c.Skills, " "))
		}
		out = append(out, llm.MatchCandidate{Label: c.FullName, Score: c.Score, Summary: summary})
	}
	return out
}

func roleJudgeCandidates(roles []models.RoleMatch) []llm.MatchCandidate {
	out := make([]llm.MatchCandidate, 0, len(roles))
	for _, r := range roles {
		out = append(out, llm.MatchCandidate{Label: r.Name, Score: r.Score, Summary: r.TopicTitle})
	}
	return out
}

func topicJudgeCandidates(topics []models.TopicMatch) []llm.MatchCandidate {
	out := make([]llm.MatchCandidate, 0, len(topics))
	for _, t := range topics {
		out = append(out, llm.MatchCandidate{Label: t.Title, Score: t.Score, Summary: t.RequiredSkills})
	}
	return out
}

func userAuditCandidates(cands []models.UserCandidate) []models.MatchRunCandidate {
	out := make([]models.MatchRunCandidate, 0, len(cands))
	for _, c := range cands {
		out = append(out, models.MatchRunCandidate{EntityID: c.UserID, Label: c.FullName, Score: c.Score})
	}
	return out
}

func roleAuditCandidates(roles []models.RoleMatch) []models.MatchRunCandidate {
	out := make([]models.MatchRunCandidate, 0, len(roles))
	for _, r := range roles {
		out = append(out, models.MatchRunCandidate{EntityID: r.RoleID, Label: r.Name, Score: r.Score})
	}
	return out
}

func topicAuditCandidates(topics []models.TopicMatch) []models.MatchRunCandidate {
	out := make([]models.MatchRunCandidate, 0, len(topics))
	for _, t := range topics {
		out = append(out, models.MatchRunCandidate{EntityID: t.TopicID, Label: t.Title, Score: t.Score})
	}
	return out
}
