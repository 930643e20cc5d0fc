package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"gcccs/careerlink/internal/models"
	"gcccs/careerlink/internal/services"
)

type AuthHandler struct {
	identity    services.IdentityProvider
	exposeLinks bool
}

// NewAuthHandler builds the auth handler. exposeLinks adds the verification link
// to resend responses and is meant for non-production use.
func NewAuthHandler(identity services.IdentityProvider, exposeLinks bool) *AuthHandler {
	return &AuthHandler{
		identity:    identity,
		exposeLinks: exposeLinks,
	}
}

// HandleResendVerification handles POST /api/auth/resend-verification
func (h *AuthHandler) HandleResendVerification(c *fiber.Ctx) error {
	var req models.ResendVerificationRequest
	if err := decodeJSON(c, &req); err != nil {
		return badRequest(c, "Email is required")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		return badRequest(c, "Email is required")
	}

	ctx := c.UserContext()
	user, err := h.identity.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return h.resendFailed(c, err)
	}

	if user.EmailVerified {
		return badRequest(c, "Email is already verified")
	}

	link, err := h.identity.EmailVerificationLink(ctx, user.Email)
	if err != nil {
		return h.resendFailed(c, err)
	}

	log.Info().Str("uid", user.UID).Msg("📧 Verification link generated")

	response := fiber.Map{
		"success": true,
		"message": "Verification email sent successfully",
	}
	if h.exposeLinks {
		response["link"] = link
	}
	return c.JSON(response)
}

// HandleVerifyEmail handles GET /api/auth/verify-email?token=
func (h *AuthHandler) HandleVerifyEmail(c *fiber.Ctx) error {
	verifier, ok := h.identity.(services.EmailVerifier)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Email verification is handled by the identity provider",
		})
	}

	token := c.Query("token")
	if token == "" {
		return badRequest(c, "Token is required")
	}

	user, err := verifier.VerifyEmail(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) || errors.Is(err, services.ErrUserNotFound) {
			return badRequest(c, "Invalid or expired verification link")
		}
		log.Error().Err(err).Msg("❌ Failed to verify email")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to verify email",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Email verified successfully",
		"email":   user.Email,
	})
}

func (h *AuthHandler) resendFailed(c *fiber.Ctx, err error) error {
	log.Error().Err(err).Msg("❌ Failed to resend verification email")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to resend verification email. Please try again.",
	})
}
