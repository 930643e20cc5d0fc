package main

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"gcccs/careerlink/internal/app"
	"gcccs/careerlink/internal/config"
	"gcccs/careerlink/internal/models"
	"gcccs/careerlink/internal/services"
)

var reindexJobsCmd = &cobra.Command{
	Use:   "reindex-jobs",
	Short: "Embed every job into the semantic search index",
	RunE:  runReindexJobs,
}

var (
	reindexStatus      string
	reindexConcurrency int
)

func init() {
	reindexJobsCmd.Flags().StringVar(&reindexStatus, "status", models.JobStatusActive, `Only jobs with this status ("all" for every job)`)
	reindexJobsCmd.Flags().IntVarP(&reindexConcurrency, "concurrency", "c", 4, "Number of jobs embedded at once")

	rootCmd.AddCommand(reindexJobsCmd)
}

func runReindexJobs(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return err
	}
	repos := app.NewRepositories(db)

	gemini, err := app.NewGemini(ctx, cfg)
	if err != nil {
		return err
	}
	index, err := app.NewVectorIndex(ctx, cfg)
	if err != nil {
		return err
	}
	indexer := services.NewIndexService(gemini, index)
	if !indexer.Enabled() {
		return fmt.Errorf("reindexing needs GEMINI_API_KEY and QDRANT_URL: %w", services.ErrSearchDisabled)
	}

	jobs, err := repos.Jobs.List(ctx, models.JobFilter{Status: reindexStatus})
	if err != nil {
		return err
	}
	log.Info().Int("jobs", len(jobs)).Msg("📚 Reindexing jobs")

	var indexed, failed atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(reindexConcurrency, 1))

	for _, job := range jobs {
		g.Go(func() error {
			if err := indexer.IndexJob(gCtx, job); err != nil {
				failed.Add(1)
				log.Warn().Err(err).Str("job_id", job.ID.String()).Msg("⚠️ Failed to index job")
				return nil
			}
			indexed.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Int64("indexed", indexed.Load()).Int64("failed", failed.Load()).Msg("✅ Reindex complete")
	if failed.Load() > 0 {
		return fmt.Errorf("%d jobs failed to index", failed.Load())
	}
	return nil
}
