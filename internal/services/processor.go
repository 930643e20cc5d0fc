package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"gcccs/careerlink/internal/models"
	"gcccs/careerlink/internal/repositories"
)

// ApplicationProcessor turns a stored resume into searchable text.
type ApplicationProcessor interface {
	ProcessApplication(ctx context.Context, applicationID uuid.UUID) error
}

type applicationProcessor struct {
	appRepo   repositories.ApplicationRepository
	storage   StorageService
	pdfParser PDFParserService
	indexer   IndexService
}

func NewApplicationProcessor(
	appRepo repositories.ApplicationRepository,
	storage StorageService,
	pdfParser PDFParserService,
	indexer IndexService,
) ApplicationProcessor {
	return &applicationProcessor{
		appRepo:   appRepo,
		storage:   storage,
		pdfParser: pdfParser,
		indexer:   indexer,
	}
}

// ProcessApplication implements ApplicationProcessor. Failures are recorded on
// the application before being returned.
func (p *applicationProcessor) ProcessApplication(ctx context.Context, applicationID uuid.UUID) error {
	app, err := p.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.Status == models.ApplicationProcessed {
		return nil
	}

	if err := p.appRepo.UpdateStatus(ctx, app.ID, models.ApplicationProcessing); err != nil {
		return err
	}

	text, err := p.extract(ctx, app)
	if err != nil {
		p.fail(ctx, app.ID, err)
		return err
	}

	if p.indexer != nil && p.indexer.Enabled() {
		chunks, err := p.indexer.IndexResume(ctx, app.ID.String(), text)
		if err != nil {
			// the text is still usable for matching without the index
			log.Warn().Err(err).Str("application_id", app.ID.String()).Msg("⚠️ Failed to index resume")
		} else {
			log.Debug().Int("chunks", chunks).Str("application_id", app.ID.String()).Msg("📚 Resume indexed")
		}
	}

	if err := p.appRepo.UpdateResumeText(ctx, app.ID, text); err != nil {
		p.fail(ctx, app.ID, err)
		return err
	}
	return nil
}

func (p *applicationProcessor) extract(ctx context.Context, app *models.Application) (string, error) {
	data, err := p.storage.ReadFile(ctx, app.FileKey)
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}

	content, err := p.pdfParser.ExtractText(data)
	if err != nil {
		return "", fmt.Errorf("failed to parse resume: %w", err)
	}
	if content.Text == "" {
		return "", fmt.Errorf("resume contains no extractable text")
	}
	return content.Text, nil
}

func (p *applicationProcessor) fail(ctx context.Context, id uuid.UUID, cause error) {
	if err := p.appRepo.UpdateError(ctx, id, cause.Error()); err != nil {
		log.Error().Err(err).Str("application_id", id.String()).Msg("❌ Failed to record application error")
	}
}
