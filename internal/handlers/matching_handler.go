package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"gcccs/careerlink/internal/models"
	"gcccs/careerlink/internal/services"
)

var (
	employerMessages = fieldMessages{
		"candidates":                      "Candidates array is required",
		"jobDetails":                      "Job details are required",
		"EmployerMatchRequest.Candidates": "Candidates array is required",
		"EmployerMatchRequest.JobDetails": "Job details are required",
	}
	studentMessages = fieldMessages{
		"jobs":                        "Jobs array is required",
		"profile":                     "Profile is required",
		"StudentMatchRequest.Jobs":    "Jobs array is required",
		"StudentMatchRequest.Profile": "Profile is required",
	}
)

type MatchingHandler struct {
	matcher services.MatchingService
}

func NewMatchingHandler(matcher services.MatchingService) *MatchingHandler {
	return &MatchingHandler{matcher: matcher}
}

// RequireAI answers 503 before anything else when no AI model is configured.
func (h *MatchingHandler) RequireAI(c *fiber.Ctx) error {
	if !h.matcher.Available() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "AI service unavailable",
		})
	}
	return c.Next()
}

// HandleEmployerMatch handles POST /api/ai-matching/employer
func (h *MatchingHandler) HandleEmployerMatch(c *fiber.Ctx) error {
	var req models.EmployerMatchRequest
	if msg, ok := parseAndValidate(c, &req, employerMessages); !ok {
		return badRequest(c, msg)
	}
	if !req.JobDetails.Present() {
		return badRequest(c, employerMessages["jobDetails"])
	}

	log.Info().
		Int("candidates", len(req.Candidates)).
		Str("job", req.JobDetails.Text("title")).
		Msg("🤖 Matching candidates")

	matches, err := h.matcher.MatchCandidates(c.UserContext(), req.Candidates, *req.JobDetails)
	if err != nil {
		return matchingFailed(c, err)
	}

	return c.JSON(models.CandidateMatchResponse{
		Success: true,
		Matches: matches,
	})
}

// HandleStudentMatch handles POST /api/ai-matching/student
func (h *MatchingHandler) HandleStudentMatch(c *fiber.Ctx) error {
	var req models.StudentMatchRequest
	if msg, ok := parseAndValidate(c, &req, studentMessages); !ok {
		return badRequest(c, msg)
	}
	if !req.Profile.Present() {
		return badRequest(c, studentMessages["profile"])
	}

	log.Info().Int("jobs", len(req.Jobs)).Msg("🤖 Matching jobs")

	matches, err := h.matcher.MatchJobs(c.UserContext(), req.Jobs, *req.Profile)
	if err != nil {
		return matchingFailed(c, err)
	}

	return c.JSON(models.JobMatchResponse{
		Success: true,
		Matches: matches,
	})
}

func matchingFailed(c *fiber.Ctx, err error) error {
	log.Error().Err(err).Str("path", c.Path()).Msg("❌ AI matching failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Failed to process AI matching",
		"details": err.Error(),
	})
}
