package models

import (
	"time"

	"github.com/lib/pq"
)

// UserCandidate is a ranked user returned for a topic or role match.
// Student and supervisor pools share the struct; profile fields that do
// not apply to the queried pool are left zero and omitted from JSON.
type UserCandidate struct {
	UserID    int64     `gorm:"column:user_id" json:"user_id"`
	FullName  string    `gorm:"column:full_name" json:"full_name"`
	Username  string    `gorm:"column:username" json:"username"`
	Email     string    `gorm:"column:email" json:"email"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`

	// student profile
	Program            string         `gorm:"column:program" json:"program,omitempty"`
	Skills             pq.StringArray `gorm:"column:skills;type:text[]" json:"skills,omitempty"`
	SkillsToLearn      pq.StringArray `gorm:"column:skills_to_learn;type:text[]" json:"skills_to_learn,omitempty"`
	Interests          string         `gorm:"column:interests" json:"interests,omitempty"`
	CV                 string         `gorm:"column:cv" json:"cv,omitempty"`
	PreferredTeamTrack string         `gorm:"column:preferred_team_track" json:"preferred_team_track,omitempty"`
	TeamRole           string         `gorm:"column:team_role" json:"team_role,omitempty"`
	TeamNeeds          string         `gorm:"column:team_needs" json:"team_needs,omitempty"`
	DevTrack           string         `gorm:"column:dev_track" json:"dev_track,omitempty"`
	ScienceTrack       string         `gorm:"column:science_track" json:"science_track,omitempty"`
	StartupTrack       string         `gorm:"column:startup_track" json:"startup_track,omitempty"`

	// supervisor profile
	Position string `gorm:"column:position" json:"position,omitempty"`
	Degree   string `gorm:"column:degree" json:"degree,omitempty"`
	Capacity int    `gorm:"column:capacity" json:"capacity,omitempty"`

	Distance *float64 `gorm:"column:distance" json:"-"`
	Score    *float64 `gorm:"-" json:"score"`
}

// RoleMatch is a ranked role returned for a student.
type RoleMatch struct {
	RoleID         int64  `gorm:"column:id" json:"id"`
	Name           string `gorm:"column:name" json:"name"`
	Description    string `gorm:"column:description" json:"description"`
	RequiredSkills string `gorm:"column:required_skills" json:"required_skills"`
	Capacity       int    `gorm:"column:capacity" json:"capacity"`
	TopicID        int64  `gorm:"column:topic_id" json:"topic_id"`
	TopicTitle     string `gorm:"column:topic_title" json:"topic_title"`
	Direction      string `gorm:"column:direction" json:"direction"`
	AuthorUserID   int64  `gorm:"column:author_user_id" json:"author_user_id"`
	AuthorName     string `gorm:"column:author_name" json:"author_name"`

	Distance *float64 `gorm:"column:distance" json:"-"`
	Score    *float64 `gorm:"-" json:"score"`
}

// TopicMatch is a ranked topic returned for a supervisor.
type TopicMatch struct {
	TopicID          int64  `gorm:"column:id" json:"id"`
	Title            string `gorm:"column:title" json:"title"`
	Description      string `gorm:"column:description" json:"description"`
	RequiredSkills   string `gorm:"column:required_skills" json:"required_skills"`
	ExpectedOutcomes string `gorm:"column:expected_outcomes" json:"expected_outcomes"`
	AuthorUserID     int64  `gorm:"column:author_user_id" json:"author_user_id"`
	AuthorName       string `gorm:"column:author_name" json:"author_name"`

	Distance *float64 `gorm:"column:distance" json:"-"`
	Score    *float64 `gorm:"-" json:"score"`
}

// TopicSummary lists active topics still seeking students.
type TopicSummary struct {
	TopicID          int64     `gorm:"column:id" json:"id"`
	Title            string    `gorm:"column:title" json:"title"`
	Description      string    `gorm:"column:description" json:"description"`
	RequiredSkills   string    `gorm:"column:required_skills" json:"required_skills"`
	ExpectedOutcomes string    `gorm:"column:expected_outcomes" json:"expected_outcomes"`
	AuthorUserID     int64     `gorm:"column:author_user_id" json:"author_user_id"`
	AuthorName       string    `gorm:"column:author_name" json:"author_name"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
}
