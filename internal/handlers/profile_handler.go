package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"gcccs/careerlink/internal/middleware"
	"gcccs/careerlink/internal/models"
	"gcccs/careerlink/internal/repositories"
)

type ProfileHandler struct {
	profileRepo repositories.ProfileRepository
}

func NewProfileHandler(profileRepo repositories.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{profileRepo: profileRepo}
}

// HandleGetProfile handles GET /api/profile
func (h *ProfileHandler) HandleGetProfile(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)

	profile, err := h.profileRepo.FindByUserID(c.UserContext(), identity.UID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Profile not found",
			})
		}
		log.Error().Err(err).Str("uid", identity.UID).Msg("❌ Failed to load profile")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch profile",
		})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

// HandleUpdateProfile handles PUT /api/profile
func (h *ProfileHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)

	var req models.UpdateProfileRequest
	if msg, ok := parseAndValidate(c, &req, nil); !ok {
		return badRequest(c, msg)
	}

	profile := &models.Profile{
		UserID:      identity.UID,
		Skills:      orEmpty(req.Skills),
		Education:   req.Education,
		Experience:  req.Experience,
		JobTypes:    orEmpty(req.JobTypes),
		Locations:   orEmpty(req.Locations),
		CareerGoals: req.CareerGoals,
		UpdatedAt:   time.Now(),
	}

	if err := h.profileRepo.Upsert(c.UserContext(), profile); err != nil {
		log.Error().Err(err).Str("uid", identity.UID).Msg("❌ Failed to save profile")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save profile",
		})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
