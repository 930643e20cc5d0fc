// Package app builds the services shared by the API server and the CLI from config.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"gcccs/careerlink/internal/config"
	"gcccs/careerlink/internal/repositories"
	"gcccs/careerlink/internal/services"
)

type Repositories struct {
	Jobs         repositories.JobRepository
	Profiles     repositories.ProfileRepository
	Applications repositories.ApplicationRepository
	Users        repositories.UserRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Jobs:         repositories.NewJobRepository(db),
		Profiles:     repositories.NewProfileRepository(db),
		Applications: repositories.NewApplicationRepository(db),
		Users:        repositories.NewUserRepository(db),
	}
}

// NewGemini returns nil, without error, when no API key is configured. Replies
// are cached in Redis when REDIS_URL is set and reachable.
func NewGemini(ctx context.Context, cfg *config.Config) (services.GeminiService, error) {
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("⚠️ GEMINI_API_KEY not set, AI matching disabled")
		return nil, nil
	}

	gemini, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel)
	if err != nil {
		return nil, err
	}
	log.Info().Str("model", gemini.ModelName()).Msg("✅ Gemini AI initialized")

	if cfg.Redis.URL == "" {
		return gemini, nil
	}

	cache, err := services.NewRedisCache(ctx, cfg.Redis.URL)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Redis unavailable, AI responses will not be cached")
		return gemini, nil
	}
	log.Info().Dur("ttl", cfg.Redis.AICacheTTL).Msg("✅ AI response cache enabled")
	return services.NewCachedGeminiService(gemini, cache, cfg.Redis.AICacheTTL), nil
}

// NewVectorIndex returns nil, without error, when QDRANT_URL is empty.
func NewVectorIndex(ctx context.Context, cfg *config.Config) (services.VectorIndex, error) {
	if cfg.Qdrant.URL == "" {
		return nil, nil
	}

	index, err := services.NewQdrantIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
	if err != nil {
		return nil, err
	}

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := index.InitCollection(initCtx); err != nil {
		return nil, fmt.Errorf("failed to initialize Qdrant collection: %w", err)
	}
	log.Info().Str("collection", cfg.Qdrant.Collection).Msg("✅ Qdrant initialized")
	return index, nil
}

func NewStorage(ctx context.Context, cfg *config.Config) (services.StorageService, error) {
	var storage services.StorageService

	switch cfg.Storage.Driver {
	case "local", "":
		storage = services.NewLocalStorage(cfg.Storage.UploadPath)
	case "minio":
		m := cfg.Storage.Minio
		s, err := services.NewMinioStorage(m.Endpoint, m.AccessKey, m.SecretKey, m.Bucket, m.UseSSL)
		if err != nil {
			return nil, err
		}
		storage = s
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if err := storage.EnsureReady(ctx); err != nil {
		return nil, err
	}
	log.Info().Str("driver", cfg.Storage.Driver).Msg("✅ Storage initialized")
	return storage, nil
}

// NewIdentity returns the configured identity provider. The local provider is
// also returned on its own so callers can issue tokens.
func NewIdentity(ctx context.Context, cfg *config.Config, users repositories.UserRepository) (services.IdentityProvider, *services.LocalIdentity, error) {
	a := cfg.Auth

	switch a.Provider {
	case "firebase":
		provider, err := services.NewFirebaseIdentity(ctx, a.FirebaseProjectID, a.FirebaseClientEmail, a.FirebasePrivateKey)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("project", a.FirebaseProjectID).Msg("✅ Firebase identity initialized")
		return provider, nil, nil
	case "local":
		local, err := services.NewLocalIdentity(
			users,
			a.JWTSecret,
			time.Duration(a.JWTExpirationHours)*time.Hour,
			time.Duration(a.VerificationLinkHours)*time.Hour,
			cfg.Server.PublicBaseURL,
		)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Msg("✅ Local identity initialized")
		return local, local, nil
	default:
		return nil, nil, fmt.Errorf("unknown auth provider %q", a.Provider)
	}
}
