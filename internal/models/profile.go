package models

import "time"

// Profile holds a student's matching preferences, keyed by identity uid.
type Profile struct {
	UserID      string    `gorm:"type:text;primaryKey" json:"userId"`
	Skills      []string  `gorm:"type:jsonb;serializer:json" json:"skills"`
	Education   string    `gorm:"type:text" json:"education"`
	Experience  string    `gorm:"type:text" json:"experience"`
	JobTypes    []string  `gorm:"type:jsonb;serializer:json" json:"jobTypes"`
	Locations   []string  `gorm:"type:jsonb;serializer:json" json:"locations"`
	CareerGoals string    `gorm:"type:text" json:"careerGoals"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Profile) TableName() string {
	return "profiles"
}

type UpdateProfileRequest struct {
	Skills      []string `json:"skills" validate:"max=100,dive,max=100"`
	Education   string   `json:"education" validate:"max=2000"`
	Experience  string   `json:"experience" validate:"max=5000"`
	JobTypes    []string `json:"jobTypes" validate:"max=20"`
	Locations   []string `json:"locations" validate:"max=20"`
	CareerGoals string   `json:"careerGoals" validate:"max=2000"`
}
