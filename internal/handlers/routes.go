package handlers

import "github.com/gofiber/fiber/v2"

type Routes struct {
	Auth         fiber.Handler
	Matching     *MatchingHandler
	Identity     *AuthHandler
	Jobs         *JobHandler
	Profiles     *ProfileHandler
	Applications *ApplicationHandler
	Health       fiber.Handler
}

// RegisterRoutes mounts the API under /api. Matching routes check AI
// availability before authenticating.
func RegisterRoutes(app *fiber.App, r Routes) {
	api := app.Group("/api")

	if r.Health != nil {
		api.Get("/health", r.Health)
	}

	if r.Matching != nil {
		matching := api.Group("/ai-matching")
		matching.Post("/employer", r.Matching.RequireAI, r.Auth, r.Matching.HandleEmployerMatch)
		matching.Post("/student", r.Matching.RequireAI, r.Auth, r.Matching.HandleStudentMatch)
	}

	if r.Identity != nil {
		auth := api.Group("/auth")
		auth.Post("/resend-verification", r.Identity.HandleResendVerification)
		auth.Get("/verify-email", r.Identity.HandleVerifyEmail)
	}

	if r.Jobs != nil {
		jobs := api.Group("/jobs")
		jobs.Get("/", r.Jobs.HandleListJobs)
		jobs.Get("/search", r.Jobs.HandleSearchJobs)
		jobs.Get("/:id", r.Jobs.HandleGetJob)
		jobs.Post("/", r.Auth, r.Jobs.HandleCreateJob)
		jobs.Get("/:id/candidates", r.Auth, r.Jobs.HandleJobCandidates)
		if r.Applications != nil {
			jobs.Post("/:id/apply", r.Auth, r.Applications.HandleApply)
		}
	}

	if r.Profiles != nil {
		api.Get("/profile", r.Auth, r.Profiles.HandleGetProfile)
		api.Put("/profile", r.Auth, r.Profiles.HandleUpdateProfile)
	}

	if r.Applications != nil {
		api.Get("/applications", r.Auth, r.Applications.HandleListApplications)
	}
}
