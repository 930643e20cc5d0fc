package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationSubmitted  ApplicationStatus = "submitted"
	ApplicationProcessing ApplicationStatus = "processing"
	ApplicationProcessed  ApplicationStatus = "processed"
	ApplicationFailed     ApplicationStatus = "failed"
)

// Application is a resume submitted by a student for one job.
type Application struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"jobId"`
	ApplicantID    string            `gorm:"type:text;not null;index" json:"applicantId"`
	ApplicantEmail string            `gorm:"type:text" json:"applicantEmail"`
	ApplicantName  string            `gorm:"type:text" json:"applicantName"`
	EmailVerified  bool              `gorm:"default:false" json:"emailVerified"`
	FileKey        string            `gorm:"type:text" json:"fileKey"`
	OriginalName   string            `gorm:"type:text" json:"originalName"`
	Status         ApplicationStatus `gorm:"not null;default:'submitted';index" json:"status"`
	ResumeText     *string           `gorm:"type:text" json:"-"`
	ErrorMessage   *string           `gorm:"type:text" json:"errorMessage,omitempty"`
	CreatedAt      time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt      time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`

	Job Job `gorm:"foreignKey:JobID" json:"-"`
}

func (Application) TableName() string {
	return "applications"
}

// AsCandidate shapes an application, and the applicant's profile when known,
// into the payload the employer matching endpoint accepts.
func (a Application) AsCandidate(profile *Profile) (Candidate, error) {
	fields := map[string]any{
		"id":            a.ID.String(),
		"applicationId": a.ID.String(),
		"applicantId":   a.ApplicantID,
		"name":          a.ApplicantName,
		"email":         a.ApplicantEmail,
		"emailVerified": a.EmailVerified,
		"resume":        a.FileKey,
		"status":        a.Status,
		"appliedAt":     a.CreatedAt,
	}
	if a.ResumeText != nil {
		fields["resumeData"] = *a.ResumeText
	}
	if profile != nil {
		fields["skills"] = nonNil(profile.Skills)
		fields["education"] = profile.Education
		fields["experience"] = profile.Experience
		fields["locations"] = nonNil(profile.Locations)
	}

	entity := make(Entity, len(fields))
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return Candidate{}, fmt.Errorf("failed to encode candidate field %s: %w", k, err)
		}
		entity[k] = raw
	}
	return Candidate{Entity: entity}, nil
}
