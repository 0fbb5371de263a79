package models

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// EntityKind tags the four embeddable entity variants.
type EntityKind string

const (
	KindStudent    EntityKind = "student"
	KindSupervisor EntityKind = "supervisor"
	KindTopic      EntityKind = "topic"
	KindRole       EntityKind = "role"
)

var ErrUnknownEntityKind = errors.New("unknown entity kind")

func ParseEntityKind(s string) (EntityKind, error) {
	switch EntityKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindStudent:
		return KindStudent, nil
	case KindSupervisor:
		return KindSupervisor, nil
	case KindTopic:
		return KindTopic, nil
	case KindRole:
		return KindRole, nil
	default:
		return "", ErrUnknownEntityKind
	}
}

// Entity is the closed set of embeddable records. Each variant carries
// the joined row used for canonicalization plus the primary key of the
// row owning the embedding column.
type Entity interface {
	Kind() EntityKind
	EntityID() int64
}

// StudentRecord is a users row joined with its student profile.
type StudentRecord struct {
	UserID   int64  `gorm:"column:user_id"`
	FullName string `gorm:"column:full_name"`
	Email    string `gorm:"column:email"`
	Username string `gorm:"column:username"`

	Program            string         `gorm:"column:program"`
	Skills             pq.StringArray `gorm:"column:skills;type:text[]"`
	SkillsToLearn      pq.StringArray `gorm:"column:skills_to_learn;type:text[]"`
	Interests          string         `gorm:"column:interests"`
	Achievements       string         `gorm:"column:achievements"`
	PreferredTeamTrack string         `gorm:"column:preferred_team_track"`
	TeamRole           string         `gorm:"column:team_role"`
	TeamNeeds          string         `gorm:"column:team_needs"`
	TeamHas            string         `gorm:"column:team_has"`
	DevTrack           string         `gorm:"column:dev_track"`
	ScienceTrack       string         `gorm:"column:science_track"`
	StartupTrack       string         `gorm:"column:startup_track"`
	CV                 string         `gorm:"column:cv"`
	Requirements       string         `gorm:"column:requirements"`
	FinalWorkPref      string         `gorm:"column:final_work_pref"`
}

func (StudentRecord) Kind() EntityKind { return KindStudent }
func (r StudentRecord) EntityID() int64 { return r.UserID }

// SupervisorRecord is a users row joined with its supervisor profile.
type SupervisorRecord struct {
	UserID   int64  `gorm:"column:user_id"`
	FullName string `gorm:"column:full_name"`
	Email    string `gorm:"column:email"`
	Username string `gorm:"column:username"`

	Position     string `gorm:"column:position"`
	Degree       string `gorm:"column:degree"`
	Capacity     int    `gorm:"column:capacity"`
	Interests    string `gorm:"column:interests"`
	Requirements string `gorm:"column:requirements"`
}

func (SupervisorRecord) Kind() EntityKind { return KindSupervisor }
func (r SupervisorRecord) EntityID() int64 { return r.UserID }

// TopicRecord is a topics row joined with its author.
type TopicRecord struct {
	TopicID          int64       `gorm:"column:topic_id"`
	AuthorUserID     int64       `gorm:"column:author_user_id"`
	AuthorName       string      `gorm:"column:author_name"`
	Title            string      `gorm:"column:title"`
	Description      string      `gorm:"column:description"`
	ExpectedOutcomes string      `gorm:"column:expected_outcomes"`
	RequiredSkills   string      `gorm:"column:required_skills"`
	Direction        string      `gorm:"column:direction"`
	SeekingRole      SeekingRole `gorm:"column:seeking_role"`
	IsActive         bool        `gorm:"column:is_active"`
}

func (TopicRecord) Kind() EntityKind { return KindTopic }
func (r TopicRecord) EntityID() int64 { return r.TopicID }

// TopicContext is the parent topic attached to a role record. A role's
// canonical text includes it so the role is matchable in the context of
// its topic, not just its own description.
type TopicContext struct {
	TopicID          int64       `gorm:"column:topic_id"`
	Title            string      `gorm:"column:topic_title"`
	Description      string      `gorm:"column:topic_description"`
	ExpectedOutcomes string      `gorm:"column:topic_expected_outcomes"`
	RequiredSkills   string      `gorm:"column:topic_required_skills"`
	Direction        string      `gorm:"column:direction"`
	AuthorUserID     int64       `gorm:"column:author_user_id"`
	AuthorName       string      `gorm:"column:author_name"`
	SeekingRole      SeekingRole `gorm:"column:seeking_role"`
}

// RoleRecord is a roles row joined with its parent topic and author.
type RoleRecord struct {
	RoleID         int64  `gorm:"column:role_id"`
	Name           string `gorm:"column:name"`
	Description    string `gorm:"column:description"`
	RequiredSkills string `gorm:"column:required_skills"`
	Capacity       int    `gorm:"column:capacity"`

	Topic *TopicContext `gorm:"-"`
}

func (RoleRecord) Kind() EntityKind { return KindRole }
func (r RoleRecord) EntityID() int64 { return r.RoleID }
