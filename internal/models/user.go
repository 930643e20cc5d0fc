package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent  Role = "student"
	RoleEmployer Role = "employer"
	RoleAlumni   Role = "alumni"
)

// User backs the local identity provider. Firebase deployments never write it.
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UID           string    `gorm:"type:text;uniqueIndex;not null" json:"uid"`
	Email         string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	DisplayName   string    `gorm:"type:text" json:"displayName"`
	Role          Role      `gorm:"type:text;default:'student'" json:"role"`
	EmailVerified bool      `gorm:"default:false" json:"emailVerified"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required"`
}
