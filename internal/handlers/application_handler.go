package handlers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"gcccs/careerlink/internal/middleware"
	"gcccs/careerlink/internal/models"
	"gcccs/careerlink/internal/repositories"
	"gcccs/careerlink/internal/services"
)

type ApplicationHandler struct {
	jobs        *JobHandler
	appRepo     repositories.ApplicationRepository
	storage     services.StorageService
	worker      services.Worker
	maxFileSize int64
}

func NewApplicationHandler(
	jobs *JobHandler,
	appRepo repositories.ApplicationRepository,
	storage services.StorageService,
	worker services.Worker,
	maxFileSize int64,
) *ApplicationHandler {
	return &ApplicationHandler{
		jobs:        jobs,
		appRepo:     appRepo,
		storage:     storage,
		worker:      worker,
		maxFileSize: maxFileSize,
	}
}

// HandleApply handles POST /api/jobs/:id/apply
func (h *ApplicationHandler) HandleApply(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)

	job, err := h.jobs.findJob(c)
	if err != nil {
		return err
	}
	if job.Status != models.JobStatusActive {
		return badRequest(c, "Job is not accepting applications")
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return badRequest(c, "Resume file is required")
	}
	if file.Size > h.maxFileSize {
		return badRequest(c, fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize))
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		return badRequest(c, "Only PDF resumes are accepted")
	}

	ctx := c.UserContext()
	key, err := h.storage.SaveFile(ctx, file, "resume")
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to save resume")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save resume",
		})
	}

	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		name = identity.Email
	}

	app := &models.Application{
		ID:             uuid.New(),
		JobID:          job.ID,
		ApplicantID:    identity.UID,
		ApplicantEmail: identity.Email,
		ApplicantName:  name,
		EmailVerified:  identity.EmailVerified,
		FileKey:        key,
		OriginalName:   file.Filename,
		Status:         models.ApplicationSubmitted,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := h.appRepo.Create(ctx, app); err != nil {
		if delErr := h.storage.DeleteFile(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("⚠️ Failed to clean up resume")
		}
		log.Error().Err(err).Msg("❌ Failed to create application")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to submit application",
		})
	}

	h.worker.Enqueue(app.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"application": app})
}

// HandleListApplications handles GET /api/applications
func (h *ApplicationHandler) HandleListApplications(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)

	apps, err := h.appRepo.FindByApplicant(c.UserContext(), identity.UID)
	if err != nil {
		log.Error().Err(err).Str("uid", identity.UID).Msg("❌ Failed to load applications")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch applications",
		})
	}

	return c.JSON(fiber.Map{"applications": apps})
}
