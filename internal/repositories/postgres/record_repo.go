package postgres

import (
	"context"

	"github.com/mentormatch/matching/internal/models"
	"github.com/mentormatch/matching/internal/utils"
	"gorm.io/gorm"
)

// RecordRepository resolves the joined rows entities are canonicalized
// from. A missing id yields utils.ErrNotFound.
type RecordRepository interface {
	FetchStudent(ctx context.Context, userID int64) (*models.StudentRecord, error)
	FetchSupervisor(ctx context.Context, userID int64) (*models.SupervisorRecord, error)
	FetchTopic(ctx context.Context, topicID int64) (*models.TopicRecord, error)
	FetchRole(ctx context.Context, roleID int64) (*models.RoleRecord, error)
}

type recordRepo struct {
	db *gorm.DB
}

func NewRecordRepo(db *gorm.DB) RecordRepository {
	return &recordRepo{db: db}
}

func (r *recordRepo) FetchStudent(ctx context.Context, userID int64) (*models.StudentRecord, error) {
	var rec models.StudentRecord
	res := r.db.WithContext(ctx).Raw(`
		SELECT u.id AS user_id, u.full_name, u.username, u.email,
		       sp.program, sp.skills, sp.skills_to_learn, sp.interests, sp.achievements,
		       sp.preferred_team_track, sp.team_role, sp.team_needs, sp.team_has,
		       sp.dev_track, sp.science_track, sp.startup_track,
		       sp.cv, sp.requirements, sp.final_work_pref
		FROM users u
		LEFT JOIN student_profiles sp ON sp.user_id = u.id
		WHERE u.id = ? AND (LOWER(u.role) = 'student' OR sp.user_id IS NOT NULL)
	`, userID).Scan(&rec)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.ErrNotFound
	}
	return &rec, nil
}

func (r *recordRepo) FetchSupervisor(ctx context.Context, userID int64) (*models.SupervisorRecord, error) {
	var rec models.SupervisorRecord
	res := r.db.WithContext(ctx).Raw(`
		SELECT u.id AS user_id, u.full_name, u.username, u.email,
		       sp.position, sp.degree, sp.capacity, sp.interests, sp.requirements
		FROM users u
		LEFT JOIN supervisor_profiles sp ON sp.user_id = u.id
		WHERE u.id = ? AND LOWER(u.role) = 'supervisor'
	`, userID).Scan(&rec)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.ErrNotFound
	}
	return &rec, nil
}

func (r *recordRepo) FetchTopic(ctx context.Context, topicID int64) (*models.TopicRecord, error) {
	var rec models.TopicRecord
	res := r.db.WithContext(ctx).Raw(`
		SELECT t.id AS topic_id, t.title, t.description, t.expected_outcomes,
		       t.required_skills, t.direction, t.seeking_role, t.is_active,
		       t.author_user_id, u.full_name AS author_name
		FROM topics t
		JOIN users u ON u.id = t.author_user_id
		WHERE t.id = ?
	`, topicID).Scan(&rec)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.ErrNotFound
	}
	return &rec, nil
}

// roleJoinRow flattens the role + topic + author join before it is
// assembled into a RoleRecord with its TopicContext.
type roleJoinRow struct {
	RoleID         int64  `gorm:"column:role_id"`
	Name           string `gorm:"column:name"`
	Description    string `gorm:"column:description"`
	RequiredSkills string `gorm:"column:required_skills"`
	Capacity       int    `gorm:"column:capacity"`

	TopicID               int64              `gorm:"column:topic_id"`
	TopicTitle            string             `gorm:"column:topic_title"`
	TopicDescription      string             `gorm:"column:topic_description"`
	TopicExpectedOutcomes string             `gorm:"column:topic_expected_outcomes"`
	TopicRequiredSkills   string             `gorm:"column:topic_required_skills"`
	Direction             string             `gorm:"column:direction"`
	SeekingRole           models.SeekingRole `gorm:"column:seeking_role"`
	AuthorUserID          int64              `gorm:"column:author_user_id"`
	AuthorName            string             `gorm:"column:author_name"`
}

func (r *recordRepo) FetchRole(ctx context.Context, roleID int64) (*models.RoleRecord, error) {
	var row roleJoinRow
	res := r.db.WithContext(ctx).Raw(`
		SELECT r.id AS role_id, r.name, r.description, r.required_skills, r.capacity,
		       t.id AS topic_id, t.title AS topic_title, t.description AS topic_description,
		       t.expected_outcomes AS topic_expected_outcomes, t.required_skills AS topic_required_skills,
		       t.direction, t.seeking_role, t.author_user_id, u.full_name AS author_name
		FROM roles r
		JOIN topics t ON t.id = r.topic_id
		JOIN users u ON u.id = t.author_user_id
		WHERE r.id = ?
	`, roleID).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.ErrNotFound
	}

	return &models.RoleRecord{
		RoleID:         row.RoleID,
		Name:           row.Name,
		Description:    row.Description,
		RequiredSkills: row.RequiredSkills,
		Capacity:       row.Capacity,
		Topic: &models.TopicContext{
			TopicID:          row.TopicID,
			Title:            row.TopicTitle,
			Description:      row.TopicDescription,
			ExpectedOutcomes: row.TopicExpectedOutcomes,
			RequiredSkills:   row.TopicRequiredSkills,
			Direction:        row.Direction,
			AuthorUserID:     row.AuthorUserID,
			AuthorName:       row.AuthorName,
			SeekingRole:      row.SeekingRole,
		},
	}, nil
}
