package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// SeekingRole marks which pool a topic should be matched against.
type SeekingRole string

const (
	SeekingStudent    SeekingRole = "student"
	SeekingSupervisor SeekingRole = "supervisor"
)

type Topic struct {
	ID               int64       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AuthorUserID     int64       `gorm:"column:author_user_id;index" json:"author_user_id"`
	Title            string      `gorm:"column:title;type:text" json:"title"`
	Description      string      `gorm:"column:description;type:text" json:"description"`
	ExpectedOutcomes string      `gorm:"column:expected_outcomes;type:text" json:"expected_outcomes"`
	RequiredSkills   string      `gorm:"column:required_skills;type:text" json:"required_skills"`
	Direction        string      `gorm:"column:direction;type:text" json:"direction"`
	SeekingRole      SeekingRole `gorm:"column:seeking_role;type:text" json:"seeking_role"`
	IsActive         bool        `gorm:"column:is_active;default:true" json:"is_active"`

	Embeddings *pgvector.Vector `gorm:"column:embeddings;type:vector(768)" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Topic) TableName() string { return "topics" }

// Role is a specific position within a topic, matchable on its own.
type Role struct {
	ID             int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TopicID        int64  `gorm:"column:topic_id;index" json:"topic_id"`
	Name           string `gorm:"column:name;type:text" json:"name"`
	Description    string `gorm:"column:description;type:text" json:"description"`
	RequiredSkills string `gorm:"column:required_skills;type:text" json:"required_skills"`
	Capacity       int    `gorm:"column:capacity" json:"capacity"`

	Embeddings *pgvector.Vector `gorm:"column:embeddings;type:vector(768)" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Role) TableName() string { return "roles" }
