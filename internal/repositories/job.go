package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gcccs/careerlink/internal/models"
)

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Job, error)
	List(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// Create implements JobRepository.
func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// FindByID implements JobRepository.
func (r *jobRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

// FindByIDs implements JobRepository. Order of the result is unspecified.
func (r *jobRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	if len(ids) == 0 {
		return jobs, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to find jobs: %w", err)
	}
	return jobs, nil
}

// List implements JobRepository.
func (r *jobRepository) List(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	query := r.db.WithContext(ctx).Model(&models.Job{})

	status := filter.Status
	if status == "" {
		status = models.JobStatusActive
	}
	if status != "all" {
		query = query.Where("status = ?", status)
	}
	if filter.Type != "" {
		query = query.Where("LOWER(type) = ?", strings.ToLower(filter.Type))
	}
	if filter.Location != "" {
		query = query.Where("location ILIKE ?", "%"+filter.Location+"%")
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where("title ILIKE ? OR company ILIKE ? OR description ILIKE ?", like, like, like)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var jobs []models.Job
	if err := query.Order("featured DESC, created_at DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}
