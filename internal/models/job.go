package models

import (
	"time"

	"github.com/google/uuid"
)

const JobStatusActive = "Active"

type Job struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title           string    `gorm:"type:text;not null" json:"title" validate:"required"`
	Company         string    `gorm:"type:text" json:"company"`
	Department      string    `gorm:"type:text" json:"department,omitempty"`
	Type            string    `gorm:"type:text" json:"type"`
	Location        string    `gorm:"type:text" json:"location"`
	Description     string    `gorm:"type:text" json:"description"`
	Requirements    []string  `gorm:"type:jsonb;serializer:json" json:"requirements"`
	ExperienceLevel string    `gorm:"type:text" json:"experienceLevel,omitempty"`
	Salary          string    `gorm:"type:text" json:"salary"`
	Posted          string    `gorm:"type:text" json:"posted"`
	Deadline        string    `gorm:"type:text" json:"deadline"`
	Status          string    `gorm:"type:text;index;default:'Active'" json:"status"`
	Featured        bool      `gorm:"default:false" json:"featured"`
	EmployerID      string    `gorm:"type:text;index" json:"employerId"`
	CreatedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Job) TableName() string {
	return "jobs"
}

// JobFilter narrows job listings. Empty fields do not filter.
type JobFilter struct {
	Type     string
	Location string
	Status   string
	Query    string
	Featured *bool
	Limit    int
}

type CreateJobRequest struct {
	Title           string   `json:"title" validate:"required"`
	Company         string   `json:"company" validate:"required"`
	Department      string   `json:"department"`
	Type            string   `json:"type"`
	Location        string   `json:"location"`
	Description     string   `json:"description" validate:"required"`
	Requirements    []string `json:"requirements"`
	ExperienceLevel string   `json:"experienceLevel"`
	Salary          string   `json:"salary"`
	Deadline        string   `json:"deadline"`
	Featured        bool     `json:"featured"`
}
