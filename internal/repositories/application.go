package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gcccs/careerlink/internal/models"
)

type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	FindByApplicant(ctx context.Context, applicantID string) ([]models.Application, error)
	FindByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error
	UpdateResumeText(ctx context.Context, id uuid.UUID, text string) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	FindPending(ctx context.Context, staleAfter time.Duration, limit int) ([]models.Application, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("application %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}

func (r *applicationRepository) FindByApplicant(ctx context.Context, applicantID string) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) FindByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find applications for job: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error {
	return r.update(ctx, id, map[string]interface{}{
		"status": status,
	})
}

func (r *applicationRepository) UpdateResumeText(ctx context.Context, id uuid.UUID, text string) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":        models.ApplicationProcessed,
		"resume_text":   text,
		"error_message": nil,
	})
}

func (r *applicationRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":        models.ApplicationFailed,
		"error_message": errorMsg,
	})
}

// FindPending returns submitted applications and those stuck in processing for
// longer than staleAfter.
func (r *applicationRepository) FindPending(ctx context.Context, staleAfter time.Duration, limit int) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ApplicationSubmitted).
		Or("status = ? AND updated_at < ?", models.ApplicationProcessing, time.Now().Add(-staleAfter)).
		Order("created_at ASC").
		Limit(limit).
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update application: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("application %s: %w", id, ErrNotFound)
	}
	return nil
}
