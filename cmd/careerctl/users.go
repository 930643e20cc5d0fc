package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gcccs/careerlink/internal/app"
	"gcccs/careerlink/internal/config"
	"gcccs/careerlink/internal/models"
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a user for the local identity provider",
	RunE:  runCreateUser,
}

var issueTokenCmd = &cobra.Command{
	Use:   "issue-token",
	Short: "Print a bearer token for a local user",
	RunE:  runIssueToken,
}

var (
	userEmail    string
	userName     string
	userRole     string
	userVerified bool
)

func init() {
	createUserCmd.Flags().StringVarP(&userEmail, "email", "e", "", "User email (required)")
	createUserCmd.Flags().StringVarP(&userName, "name", "n", "", "Display name")
	createUserCmd.Flags().StringVarP(&userRole, "role", "r", string(models.RoleStudent), "student, employer or alumni")
	createUserCmd.Flags().BoolVar(&userVerified, "verified", false, "Mark the email as already verified")

	issueTokenCmd.Flags().StringVarP(&userEmail, "email", "e", "", "User email (required)")

	for _, cmd := range []*cobra.Command{createUserCmd, issueTokenCmd} {
		if err := cmd.MarkFlagRequired("email"); err != nil {
			panic(fmt.Sprintf("failed to mark email flag as required: %v", err))
		}
		rootCmd.AddCommand(cmd)
	}
}

func runCreateUser(cmd *cobra.Command, _ []string) error {
	role := models.Role(strings.ToLower(userRole))
	switch role {
	case models.RoleStudent, models.RoleEmployer, models.RoleAlumni:
	default:
		return fmt.Errorf("unknown role %q", userRole)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return err
	}
	repos := app.NewRepositories(db)

	user := &models.User{
		UID:           "local-" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Email:         userEmail,
		DisplayName:   userName,
		Role:          role,
		EmailVerified: userVerified,
	}
	if err := repos.Users.Create(cmd.Context(), user); err != nil {
		return err
	}

	log.Info().Str("uid", user.UID).Str("email", user.Email).Msg("✅ User created")
	fmt.Fprintln(cmd.OutOrStdout(), user.UID)
	return nil
}

func runIssueToken(cmd *cobra.Command, _ []string) error {
	if cfg.Auth.Provider != "local" {
		return fmt.Errorf("tokens can only be issued by the local identity provider (AUTH_PROVIDER=%s)", cfg.Auth.Provider)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return err
	}
	repos := app.NewRepositories(db)

	_, local, err := app.NewIdentity(cmd.Context(), cfg, repos.Users)
	if err != nil {
		return err
	}

	token, err := local.IssueToken(cmd.Context(), userEmail)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
