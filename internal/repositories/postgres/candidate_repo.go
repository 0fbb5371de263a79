package postgres

import (
	"context"
	"strings"

	"github.com/mentormatch/matching/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Default result window per query, mirroring the caller contracts.
const (
	DefaultTopicCandidateLimit = 20
	DefaultRoleMatchLimit      = 40
	DefaultTopicMatchLimit     = 20
)

// CandidateRepository runs the nearest-neighbor queries. All queries
// filter to rows with a non-null embedding, order by cosine distance
// with an id tie-break, and derive score = 1 - distance per row.
type CandidateRepository interface {
	TopicCandidates(ctx context.Context, topicID int64, targetRole string, limit int) ([]models.UserCandidate, error)
	RoleCandidates(ctx context.Context, roleID int64, limit int) ([]models.UserCandidate, error)
	RolesForStudent(ctx context.Context, studentUserID int64, limit int) ([]models.RoleMatch, error)
	TopicsForSupervisor(ctx context.Context, supervisorUserID int64, limit int) ([]models.TopicMatch, error)
	TopicsNeedingStudents(ctx context.Context, limit int) ([]models.TopicSummary, error)
}

type candidateRepo struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewCandidateRepo(db *gorm.DB, log *logrus.Logger) CandidateRepository {
	return &candidateRepo{db: db, log: log}
}

// NormalizeTargetRole maps a requested target role onto the pool that
// will actually be queried. Anything unrecognized falls back to the
// student pool. Callers that echo the role back or record it must use
// the normalized value, not the raw request.
func NormalizeTargetRole(targetRole string) string {
	role := strings.ToLower(strings.TrimSpace(targetRole))
	if role == "supervisor" {
		return role
	}
	return "student"
}

func (r *candidateRepo) normalizeTargetRole(targetRole string) string {
	role := NormalizeTargetRole(targetRole)
	if raw := strings.ToLower(strings.TrimSpace(targetRole)); raw != "" && raw != role {
		r.log.WithField("target_role", targetRole).Warn("unrecognized target role, defaulting to student")
	}
	return role
}

func (r *candidateRepo) TopicCandidates(ctx context.Context, topicID int64, targetRole string, limit int) ([]models.UserCandidate, error) {
	if limit <= 0 {
		limit = DefaultTopicCandidateLimit
	}
	role := r.normalizeTargetRole(targetRole)

	var rows []models.UserCandidate
	var res *gorm.DB
	if role == "student" {
		res = r.db.WithContext(ctx).Raw(`
			SELECT u.id AS user_id, u.full_name, u.username, u.email, u.created_at,
			       (u.embeddings <=> t.embeddings) AS distance,
			       sp.program, sp.skills, sp.skills_to_learn, sp.interests, sp.cv,
			       sp.preferred_team_track, sp.team_role, sp.team_needs,
			       sp.dev_track, sp.science_track, sp.startup_track
			FROM topics t
			JOIN users u ON LOWER(u.role) = 'student' AND u.embeddings IS NOT NULL
			LEFT JOIN student_profiles sp ON sp.user_id = u.id
			WHERE t.id = ? AND t.embeddings IS NOT NULL
			ORDER BY u.embeddings <=> t.embeddings ASC, u.id ASC
			LIMIT ?
		`, topicID, limit).Scan(&rows)
	} else {
		res = r.db.WithContext(ctx).Raw(`
			SELECT u.id AS user_id, u.full_name, u.username, u.email, u.created_at,
			       (u.embeddings <=> t.embeddings) AS distance,
			       sp.position, sp.degree, sp.capacity, sp.interests
			FROM topics t
			JOIN users u ON LOWER(u.role) = 'supervisor'
			    AND u.embeddings IS NOT NULL
			    AND u.id <> t.author_user_id
			LEFT JOIN supervisor_profiles sp ON sp.user_id = u.id
			WHERE t.id = ? AND t.embeddings IS NOT NULL
			ORDER BY u.embeddings <=> t.embeddings ASC, u.id ASC
			LIMIT ?
		`, topicID, limit).Scan(&rows)
	}
	if res.Error != nil {
		return nil, res.Error
	}

	for i := range rows {
		rows[i].Score = scoreFromDistance(rows[i].Distance)
	}
	r.logRanking("topic", topicID, role, len(rows))
	return rows, nil
}

func (r *candidateRepo) RoleCandidates(ctx context.Context, roleID int64, limit int) ([]models.UserCandidate, error) {
	if limit <= 0 {
		limit = DefaultTopicCandidateLimit
	}
	var rows []models.UserCandidate
	res := r.db.WithContext(ctx).Raw(`
		SELECT u.id AS user_id, u.full_name, u.username, u.email, u.created_at,
		       (u.embeddings <=> ro.embeddings) AS distance,
		       sp.program, sp.skills, sp.skills_to_learn, sp.interests, sp.cv,
		       sp.preferred_team_track, sp.team_role, sp.team_needs,
		       sp.dev_track, sp.science_track, sp.startup_track
		FROM roles ro
		JOIN users u ON LOWER(u.role) = 'student' AND u.embeddings IS NOT NULL
		LEFT JOIN student_profiles sp ON sp.user_id = u.id
		WHERE ro.id = ? AND ro.embeddings IS NOT NULL
		ORDER BY u.embeddings <=> ro.embeddings ASC, u.id ASC
		LIMIT ?
	`, roleID, limit).Scan(&rows)
	if res.Error != nil {
		return nil, res.Error
	}

	for i := range rows {
		rows[i].Score = scoreFromDistance(rows[i].Distance)
	}
	r.logRanking("role", roleID, "student", len(rows))
	return rows, nil
}

func (r *candidateRepo) RolesForStudent(ctx context.Context, studentUserID int64, limit int) ([]models.RoleMatch, error) {
	if limit <= 0 {
		limit = DefaultRoleMatchLimit
	}
	var rows []models.RoleMatch
	res := r.db.WithContext(ctx).Raw(`
		SELECT ro.id, ro.name, ro.description, ro.required_skills, ro.capacity,
		       t.id AS topic_id, t.title AS topic_title, t.direction,
		       t.author_user_id, author.full_name AS author_name,
		       (ro.embeddings <=> su.embeddings) AS distance
		FROM users su
		JOIN roles ro ON ro.embeddings IS NOT NULL
		JOIN topics t ON t.id = ro.topic_id
		    AND t.is_active = TRUE
		    AND t.seeking_role = 'student'
		JOIN users author ON author.id = t.author_user_id
		WHERE su.id = ? AND su.embeddings IS NOT NULL AND LOWER(su.role) = 'student'
		ORDER BY ro.embeddings <=> su.embeddings ASC, ro.id ASC
		LIMIT ?
	`, studentUserID, limit).Scan(&rows)
	if res.Error != nil {
		return nil, res.Error
	}

	for i := range rows {
		rows[i].Score = scoreFromDistance(rows[i].Distance)
	}
	r.logRanking("student", studentUserID, "role", len(rows))
	return rows, nil
}

func (r *candidateRepo) TopicsForSupervisor(ctx context.Context, supervisorUserID int64, limit int) ([]models.TopicMatch, error) {
	if limit <= 0 {
		limit = DefaultTopicMatchLimit
	}
	var rows []models.TopicMatch
	res := r.db.WithContext(ctx).Raw(`
		SELECT t.id, t.title, t.description, t.required_skills, t.expected_outcomes,
		       t.author_user_id, author.full_name AS author_name,
		       (t.embeddings <=> sup.embeddings) AS distance
		FROM users sup
		JOIN topics t ON t.embeddings IS NOT NULL
		    AND t.is_active = TRUE
		    AND t.seeking_role = 'supervisor'
		JOIN users author ON author.id = t.author_user_id
		WHERE sup.id = ? AND sup.embeddings IS NOT NULL AND LOWER(sup.role) = 'supervisor'
		ORDER BY t.embeddings <=> sup.embeddings ASC, t.id ASC
		LIMIT ?
	`, supervisorUserID, limit).Scan(&rows)
	if res.Error != nil {
		return nil, res.Error
	}

	for i := range rows {
		rows[i].Score = scoreFromDistance(rows[i].Distance)
	}
	r.logRanking("supervisor", supervisorUserID, "topic", len(rows))
	return rows, nil
}

func (r *candidateRepo) TopicsNeedingStudents(ctx context.Context, limit int) ([]models.TopicSummary, error) {
	if limit <= 0 {
		limit = DefaultTopicMatchLimit
	}
	var rows []models.TopicSummary
	res := r.db.WithContext(ctx).Raw(`
		SELECT t.id, t.title, t.description, t.required_skills, t.expected_outcomes,
		       t.author_user_id, u.full_name AS author_name, t.created_at
		FROM topics t
		JOIN users u ON u.id = t.author_user_id
		WHERE t.is_active = TRUE AND t.seeking_role = 'student'
		ORDER BY t.created_at DESC
		LIMIT ?
	`, limit).Scan(&rows)
	if res.Error != nil {
		return nil, res.Error
	}
	return rows, nil
}

// scoreFromDistance converts cosine distance to a bounded similarity
// score. A null distance stays null; the row is still returned.
func scoreFromDistance(distance *float64) *float64 {
	if distance == nil {
		return nil
	}
	s := 1.0 - *distance
	return &s
}

func (r *candidateRepo) logRanking(kind string, subjectID int64, pool string, n int) {
	if n == 0 {
		return
	}
	r.log.WithFields(logrus.Fields{
		"kind":       kind,
		"subject_id": subjectID,
		"pool":       pool,
		"count":      n,
	}).Info("ranked candidates by cosine distance")
}
