package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"gcccs/careerlink/internal/repositories"
)

// Worker extracts and indexes submitted resumes in the background.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(applicationID uuid.UUID)
}

type worker struct {
	appRepo      repositories.ApplicationRepository
	processor    ApplicationProcessor
	queue        chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	staleAfter   time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
	inFlight     sync.Map
}

func NewWorker(
	appRepo repositories.ApplicationRepository,
	processor ApplicationProcessor,
	concurrency int,
	pollInterval time.Duration,
	staleAfter time.Duration,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	return &worker{
		appRepo:      appRepo,
		processor:    processor,
		queue:        make(chan uuid.UUID, 100),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		staleAfter:   staleAfter,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Info().Int("concurrency", w.concurrency).Msg("🚀 Starting resume worker")

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.process(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPending(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Info().Msg("🛑 Stopping resume worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Info().Msg("✅ Resume worker stopped")
	})
}

// Enqueue implements Worker. An application already queued or running is skipped.
func (w *worker) Enqueue(applicationID uuid.UUID) {
	if _, loaded := w.inFlight.LoadOrStore(applicationID, struct{}{}); loaded {
		return
	}

	select {
	case w.queue <- applicationID:
		log.Debug().Str("application_id", applicationID.String()).Msg("📥 Application enqueued")
	case <-w.stopChan:
		w.inFlight.Delete(applicationID)
		log.Warn().Str("application_id", applicationID.String()).Msg("⚠️ Worker stopped, cannot enqueue application")
	}
}

func (w *worker) process(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case id := <-w.queue:
			logger := log.With().Int("worker", workerID).Str("application_id", id.String()).Logger()
			logger.Info().Msg("👷 Processing application")

			if err := w.processor.ProcessApplication(ctx, id); err != nil {
				logger.Error().Err(err).Msg("❌ Failed to process application")
			} else {
				logger.Info().Msg("✅ Application processed")
			}
			w.inFlight.Delete(id)
		}
	}
}

func (w *worker) pollPending(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pending, err := w.appRepo.FindPending(ctx, w.staleAfter, 10)
			if err != nil {
				log.Warn().Err(err).Msg("⚠️ Failed to fetch pending applications")
				continue
			}

			if len(pending) > 0 {
				log.Info().Int("count", len(pending)).Msg("📋 Found pending applications")
			}
			for _, app := range pending {
				w.Enqueue(app.ID)
			}
		}
	}
}
