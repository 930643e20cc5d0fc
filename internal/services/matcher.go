package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"gcccs/careerlink/internal/models"
)

const matchTemperature = 0.3

// MatchingService scores candidates or jobs with the AI, one item at a time.
// An item whose AI call or reply fails gets a heuristic score instead; it never
// fails the batch. Results are sorted by score, highest first.
type MatchingService interface {
	Available() bool
	MatchCandidates(ctx context.Context, candidates []models.Candidate, job models.JobPosting) ([]models.CandidateMatch, error)
	MatchJobs(ctx context.Context, jobs []models.JobPosting, profile models.MatchProfile) ([]models.JobMatch, error)
}

type MatchingOptions struct {
	ItemTimeout time.Duration
	MaxAttempts int
	Jitter      JitterFunc
}

type matchingService struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	opts          MatchingOptions
}

// NewMatchingService builds the matcher. A nil gemini makes Available report false.
func NewMatchingService(gemini GeminiService, opts MatchingOptions) MatchingService {
	if opts.Jitter == nil {
		opts.Jitter = HashJitter
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &matchingService{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		opts:          opts,
	}
}

func (m *matchingService) Available() bool {
	return m.gemini != nil
}

// MatchCandidates implements MatchingService.
func (m *matchingService) MatchCandidates(ctx context.Context, candidates []models.Candidate, job models.JobPosting) ([]models.CandidateMatch, error) {
	matches := make([]models.CandidateMatch, 0, len(candidates))

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("matching cancelled: %w", err)
		}

		prompt := m.promptBuilder.BuildCandidateMatchPrompt(candidate, job)
		analysis, err := m.analyze(ctx, prompt)
		if err != nil {
			log.Warn().Err(err).Str("candidate_id", candidate.ID()).Msg("⚠️ AI analysis failed, using fallback score")
			matches = append(matches, m.fallbackCandidate(candidate, job))
			continue
		}

		matches = append(matches, models.CandidateMatch{
			Candidate:  candidate,
			MatchScore: scoreField(analysis, "matchScore"),
			Insights: models.CandidateInsights{
				SkillMatch:      scoreField(analysis, "skillMatch"),
				ExperienceMatch: scoreField(analysis, "experienceMatch"),
				EducationMatch:  scoreField(analysis, "educationMatch"),
				CultureFit:      scoreField(analysis, "cultureFit"),
			},
			Assessment: analysis.Text("assessment"),
			Strengths:  listField(analysis, "strengths"),
			Concerns:   listField(analysis, "concerns"),
			Source:     models.MatchSourceAI,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})
	return matches, nil
}

// MatchJobs implements MatchingService.
func (m *matchingService) MatchJobs(ctx context.Context, jobs []models.JobPosting, profile models.MatchProfile) ([]models.JobMatch, error) {
	matches := make([]models.JobMatch, 0, len(jobs))

	log.Debug().Int("jobs", len(jobs)).Msg("🤖 Starting AI analysis")

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("matching cancelled: %w", err)
		}

		prompt := m.promptBuilder.BuildJobMatchPrompt(profile, job)
		analysis, err := m.analyze(ctx, prompt)
		if err != nil {
			log.Warn().Err(err).Str("job_id", job.ID()).Msg("⚠️ AI analysis failed, using fallback score")
			matches = append(matches, models.JobMatch{
				Job:         job,
				MatchScore:  StudentFallbackScore(profile, job),
				Explanation: models.FallbackExplanation,
				Source:      models.MatchSourceFallback,
			})
			continue
		}

		matches = append(matches, models.JobMatch{
			Job:          job,
			MatchScore:   scoreField(analysis, "matchScore"),
			Explanation:  analysis.Text("explanation"),
			Strengths:    listField(analysis, "strengths"),
			Improvements: listField(analysis, "improvements"),
			Source:       models.MatchSourceAI,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})
	return matches, nil
}

// analyze asks the model and returns its JSON reply. Only a failed call or a
// reply with no JSON object is an error; field types are read leniently.
func (m *matchingService) analyze(ctx context.Context, prompt string) (models.Entity, error) {
	if m.gemini == nil {
		return nil, fmt.Errorf("ai service not configured")
	}

	itemCtx := ctx
	if m.opts.ItemTimeout > 0 {
		var cancel context.CancelFunc
		itemCtx, cancel = context.WithTimeout(ctx, m.opts.ItemTimeout)
		defer cancel()
	}

	text, err := m.gemini.GenerateTextWithRetry(itemCtx, prompt, matchTemperature, m.opts.MaxAttempts)
	if err != nil {
		return nil, err
	}

	var analysis models.Entity
	if err := DecodeAIResponse(text, &analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

// scoreField reads a 0-100 score. Missing or non-numeric values count as 0.
func scoreField(analysis models.Entity, key string) int {
	f, _ := analysis.Number(key)
	return clampScore(f)
}

// listField reads a list of strings, accepting a lone string as one item.
func listField(analysis models.Entity, key string) []string {
	if items := analysis.Strings(key); len(items) > 0 {
		return items
	}
	var s string
	if err := json.Unmarshal(analysis[key], &s); err == nil && strings.TrimSpace(s) != "" {
		return []string{strings.TrimSpace(s)}
	}
	return []string{}
}

func (m *matchingService) fallbackCandidate(candidate models.Candidate, job models.JobPosting) models.CandidateMatch {
	score := EmployerFallbackScore(candidate, job, m.opts.Jitter)

	return models.CandidateMatch{
		Candidate:  candidate,
		MatchScore: score,
		Insights: models.CandidateInsights{
			SkillMatch:      clampScore(float64(score - 5)),
			ExperienceMatch: score,
			EducationMatch:  clampScore(float64(score - 3)),
			CultureFit:      clampScore(float64(score - 7)),
		},
		Assessment: models.FallbackExplanation,
		Strengths:  candidate.Strings("keyStrengths"),
		Concerns:   []string{},
		Source:     models.MatchSourceFallback,
	}
}
