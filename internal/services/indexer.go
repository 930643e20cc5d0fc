package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"gcccs/careerlink/internal/models"
)

// ErrSearchDisabled is returned when no vector index or embedding model is configured.
var ErrSearchDisabled = errors.New("semantic search is not configured")

type JobHit struct {
	JobID uuid.UUID
	Score float32
}

// IndexService embeds jobs and resumes into the vector index.
type IndexService interface {
	Enabled() bool
	IndexJob(ctx context.Context, job models.Job) error
	IndexResume(ctx context.Context, applicationID string, text string) (int, error)
	SearchJobs(ctx context.Context, query string, limit int) ([]JobHit, error)
}

type indexService struct {
	gemini        GeminiService
	index         VectorIndex
	chunker       TextChunker
	promptBuilder *PromptBuilder
}

// NewIndexService returns a service that is disabled when either dependency is nil.
func NewIndexService(gemini GeminiService, index VectorIndex) IndexService {
	return &indexService{
		gemini:        gemini,
		index:         index,
		chunker:       NewTextChunker(),
		promptBuilder: NewPromptBuilder(),
	}
}

func (s *indexService) Enabled() bool {
	return s.gemini != nil && s.index != nil
}

func (s *indexService) IndexJob(ctx context.Context, job models.Job) error {
	if !s.Enabled() {
		return ErrSearchDisabled
	}

	text := s.promptBuilder.BuildJobDocument(job)
	embedding, err := s.gemini.GenerateEmbedding(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to embed job %s: %w", job.ID, err)
	}

	if err := s.index.UpsertDocument(ctx, job.ID.String(), DocTypeJob, 0, text, embedding); err != nil {
		return fmt.Errorf("failed to index job %s: %w", job.ID, err)
	}
	return nil
}

// IndexResume replaces the indexed chunks of one application's resume and
// returns how many chunks were stored.
func (s *indexService) IndexResume(ctx context.Context, applicationID string, text string) (int, error) {
	if !s.Enabled() {
		return 0, ErrSearchDisabled
	}

	if err := s.index.DeleteDocument(ctx, applicationID); err != nil {
		return 0, err
	}

	stored := 0
	for i, chunk := range s.chunker.ChunkText(text, 1000, 200) {
		embedding, err := s.gemini.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return stored, fmt.Errorf("failed to embed resume chunk %d: %w", i, err)
		}
		if err := s.index.UpsertDocument(ctx, applicationID, DocTypeResume, i, chunk, embedding); err != nil {
			return stored, err
		}
		stored++
	}
	return stored, nil
}

func (s *indexService) SearchJobs(ctx context.Context, query string, limit int) ([]JobHit, error) {
	if !s.Enabled() {
		return nil, ErrSearchDisabled
	}

	embedding, err := s.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := s.index.SearchSimilar(ctx, embedding, DocTypeJob, limit)
	if err != nil {
		return nil, err
	}

	hits := make([]JobHit, 0, len(results))
	for _, r := range results {
		id, err := uuid.Parse(r.DocID)
		if err != nil {
			continue
		}
		hits = append(hits, JobHit{JobID: id, Score: r.Score})
	}
	return hits, nil
}
