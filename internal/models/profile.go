package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type StudentProfile struct {
	UserID  int64  `gorm:"column:user_id;primaryKey" json:"user_id"`
	Program string `gorm:"column:program;type:text" json:"program"`

	Skills        pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`
	SkillsToLearn pq.StringArray `gorm:"column:skills_to_learn;type:text[]" json:"skills_to_learn"`

	Interests          string `gorm:"column:interests;type:text" json:"interests"`
	Achievements       string `gorm:"column:achievements;type:text" json:"achievements"`
	PreferredTeamTrack string `gorm:"column:preferred_team_track;type:text" json:"preferred_team_track"`
	TeamRole           string `gorm:"column:team_role;type:text" json:"team_role"`
	TeamNeeds          string `gorm:"column:team_needs;type:text" json:"team_needs"`
	TeamHas            string `gorm:"column:team_has;type:text" json:"team_has"`
	DevTrack           string `gorm:"column:dev_track;type:text" json:"dev_track"`
	ScienceTrack       string `gorm:"column:science_track;type:text" json:"science_track"`
	StartupTrack       string `gorm:"column:startup_track;type:text" json:"startup_track"`
	CV                 string `gorm:"column:cv;type:text" json:"cv"`
	Requirements       string `gorm:"column:requirements;type:text" json:"requirements"`
	FinalWorkPref      string `gorm:"column:final_work_pref;type:text" json:"final_work_pref"`

	// JSONB (raw survey answers from the bot, structure is flexible)
	Preferences datatypes.JSON `gorm:"column:preferences;type:jsonb" json:"preferences"`

	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (StudentProfile) TableName() string { return "student_profiles" }

type SupervisorProfile struct {
	UserID       int64  `gorm:"column:user_id;primaryKey" json:"user_id"`
	Position     string `gorm:"column:position;type:text" json:"position"`
	Degree       string `gorm:"column:degree;type:text" json:"degree"`
	Capacity     int    `gorm:"column:capacity" json:"capacity"`
	Interests    string `gorm:"column:interests;type:text" json:"interests"`
	Requirements string `gorm:"column:requirements;type:text" json:"requirements"`

	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (SupervisorProfile) TableName() string { return "supervisor_profiles" }
