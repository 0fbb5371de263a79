package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleSupervisor UserRole = "supervisor"
)

type User struct {
	ID       int64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FullName string   `gorm:"column:full_name;type:text" json:"full_name"`
	Username string   `gorm:"column:username;type:text" json:"username"`
	Email    string   `gorm:"column:email;type:text" json:"email"`
	Role     UserRole `gorm:"column:role;type:text" json:"role"`

	// nil until the first embedding refresh
	Embeddings *pgvector.Vector `gorm:"column:embeddings;type:vector(768)" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (User) TableName() string { return "users" }
