package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"gcccs/careerlink/internal/middleware"
	"gcccs/careerlink/internal/models"
	"gcccs/careerlink/internal/repositories"
	"gcccs/careerlink/internal/services"
)

const defaultSearchLimit = 10

type JobHandler struct {
	jobRepo     repositories.JobRepository
	appRepo     repositories.ApplicationRepository
	profileRepo repositories.ProfileRepository
	indexer     services.IndexService
}

func NewJobHandler(
	jobRepo repositories.JobRepository,
	appRepo repositories.ApplicationRepository,
	profileRepo repositories.ProfileRepository,
	indexer services.IndexService,
) *JobHandler {
	return &JobHandler{
		jobRepo:     jobRepo,
		appRepo:     appRepo,
		profileRepo: profileRepo,
		indexer:     indexer,
	}
}

type scoredJob struct {
	models.Job
	Score float32 `json:"score"`
}

// HandleListJobs handles GET /api/jobs
func (h *JobHandler) HandleListJobs(c *fiber.Ctx) error {
	filter := models.JobFilter{
		Type:     c.Query("type"),
		Location: c.Query("location"),
		Status:   c.Query("status"),
		Query:    c.Query("q"),
		Limit:    c.QueryInt("limit", 0),
	}
	if raw := c.Query("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "featured must be true or false")
		}
		filter.Featured = &featured
	}

	jobs, err := h.jobRepo.List(c.UserContext(), filter)
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to list jobs")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch jobs",
		})
	}

	return c.JSON(fiber.Map{"jobs": jobs})
}

// HandleSearchJobs handles GET /api/jobs/search
func (h *JobHandler) HandleSearchJobs(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return badRequest(c, "Query is required")
	}
	if h.indexer == nil || !h.indexer.Enabled() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Semantic search unavailable",
		})
	}

	limit := c.QueryInt("limit", defaultSearchLimit)
	if limit <= 0 || limit > 50 {
		limit = defaultSearchLimit
	}

	ctx := c.UserContext()
	hits, err := h.indexer.SearchJobs(ctx, query, limit)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("❌ Job search failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search jobs",
		})
	}

	ids := make([]uuid.UUID, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.JobID)
	}
	jobs, err := h.jobRepo.FindByIDs(ctx, ids)
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to load search results")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search jobs",
		})
	}

	byID := make(map[uuid.UUID]models.Job, len(jobs))
	for _, job := range jobs {
		byID[job.ID] = job
	}

	// keep the index's ranking; drop hits whose job no longer exists
	results := make([]scoredJob, 0, len(hits))
	for _, hit := range hits {
		if job, ok := byID[hit.JobID]; ok {
			results = append(results, scoredJob{Job: job, Score: hit.Score})
		}
	}

	return c.JSON(fiber.Map{"jobs": results})
}

// HandleGetJob handles GET /api/jobs/:id
func (h *JobHandler) HandleGetJob(c *fiber.Ctx) error {
	job, err := h.findJob(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"job": job})
}

// HandleCreateJob handles POST /api/jobs
func (h *JobHandler) HandleCreateJob(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)

	var req models.CreateJobRequest
	if msg, ok := parseAndValidate(c, &req, fieldMessages{
		"CreateJobRequest.Title":       "Title is required",
		"CreateJobRequest.Company":     "Company is required",
		"CreateJobRequest.Description": "Description is required",
	}); !ok {
		return badRequest(c, msg)
	}

	job := &models.Job{
		ID:              uuid.New(),
		Title:           req.Title,
		Company:         req.Company,
		Department:      req.Department,
		Type:            req.Type,
		Location:        req.Location,
		Description:     req.Description,
		Requirements:    req.Requirements,
		ExperienceLevel: req.ExperienceLevel,
		Salary:          req.Salary,
		Deadline:        req.Deadline,
		Featured:        req.Featured,
		Posted:          time.Now().Format("2006-01-02"),
		Status:          models.JobStatusActive,
		EmployerID:      identity.UID,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if job.Requirements == nil {
		job.Requirements = []string{}
	}

	ctx := c.UserContext()
	if err := h.jobRepo.Create(ctx, job); err != nil {
		log.Error().Err(err).Msg("❌ Failed to create job")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create job",
		})
	}

	if h.indexer != nil && h.indexer.Enabled() {
		if err := h.indexer.IndexJob(ctx, *job); err != nil {
			log.Warn().Err(err).Str("job_id", job.ID.String()).Msg("⚠️ Failed to index job")
		}
	}

	log.Info().Str("job_id", job.ID.String()).Str("employer", identity.UID).Msg("✅ Job created")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"job": job})
}

// HandleJobCandidates handles GET /api/jobs/:id/candidates. The result is the
// candidates array accepted by the employer matching endpoint.
func (h *JobHandler) HandleJobCandidates(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)

	job, err := h.findJob(c)
	if err != nil {
		return err
	}
	if job.EmployerID != identity.UID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden",
		})
	}

	ctx := c.UserContext()
	apps, err := h.appRepo.FindByJob(ctx, job.ID)
	if err != nil {
		log.Error().Err(err).Str("job_id", job.ID.String()).Msg("❌ Failed to load applications")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch candidates",
		})
	}

	applicantIDs := make([]string, 0, len(apps))
	for _, app := range apps {
		applicantIDs = append(applicantIDs, app.ApplicantID)
	}
	profiles, err := h.profileRepo.FindByUserIDs(ctx, applicantIDs)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Failed to load applicant profiles")
		profiles = nil
	}

	candidates := make([]models.Candidate, 0, len(apps))
	for _, app := range apps {
		candidate, err := app.AsCandidate(profiles[app.ApplicantID])
		if err != nil {
			return err
		}
		candidates = append(candidates, candidate)
	}

	return c.JSON(fiber.Map{
		"job":        job,
		"candidates": candidates,
	})
}

// findJob loads the job named by the :id param. Its errors are fiber errors
// rendered by ErrorHandler.
func (h *JobHandler) findJob(c *fiber.Ctx) (*models.Job, error) {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid job ID format")
	}

	job, err := h.jobRepo.FindByID(c.UserContext(), jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Job not found")
		}
		log.Error().Err(err).Str("job_id", jobID.String()).Msg("❌ Failed to load job")
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch job")
	}
	return job, nil
}
