package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"briefops/pkg/youtube"
)

// Job is one queued ingestion request.
type Job struct {
	UserID      string
	ChannelID   string
	Input       string // Slack file URL or YouTube URL
	ResponseURL string
	Public      bool
}

// Notifier delivers progress and outcome messages for a job.
type Notifier interface {
	PostMessage(ctx context.Context, channelID, threadTS, text string) error
	Respond(ctx context.Context, responseURL, text string, inChannel bool) error
}

// Worker runs ingestion jobs on a bounded pool of goroutines so the command
// handler can acknowledge immediately.
type Worker struct {
	ingester *Ingester
	notifier Notifier

	jobQueue    chan Job
	workerWg    sync.WaitGroup
	workerCount int
	started     bool
	mu          sync.Mutex
}

func NewWorker(ingester *Ingester, notifier Notifier, workerCount int) *Worker {
	if workerCount <= 0 {
		workerCount = 3
	}
	return &Worker{
		ingester:    ingester,
		notifier:    notifier,
		jobQueue:    make(chan Job, 100),
		workerCount: workerCount,
	}
}

// Start launches the worker goroutines. Safe to call once.
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return
	}
	for i := 0; i < w.workerCount; i++ {
		w.workerWg.Add(1)
		go w.worker(i)
	}
	w.started = true
	log.Printf("[IngestWorker] Started %d workers", w.workerCount)
}

// Stop drains the queue and waits for all workers to finish.
func (w *Worker) Stop() {
	close(w.jobQueue)
	w.workerWg.Wait()
	log.Printf("[IngestWorker] All workers stopped")
}

// Queue adds a job without blocking. Returns false when the queue is full.
func (w *Worker) Queue(job Job) bool {
	select {
	case w.jobQueue <- job:
		return true
	default:
		return false
	}
}

func (w *Worker) worker(id int) {
	defer w.workerWg.Done()

	for job := range w.jobQueue {
		w.processJob(job)
	}
	log.Printf("[IngestWorker] Worker %d stopped", id)
}

func (w *Worker) processJob(job Job) {
	ctx := context.Background()

	if youtube.VideoID(job.Input) != "" {
		w.processVideo(ctx, job)
		return
	}
	w.processDocument(ctx, job)
}

func (w *Worker) processVideo(ctx context.Context, job Job) {
	summary, err := w.ingester.IngestVideo(ctx, job.Input)
	if err != nil {
		w.reportFailure(ctx, job, err)
		return
	}

	text := fmt.Sprintf("🎉 The YouTube video has been successfully ingested and summarized. Here's a brief summary:\n%s\nFeel free to query @briefops for further details!", summary)
	w.reportSuccess(ctx, job, text)
}

func (w *Worker) processDocument(ctx context.Context, job Job) {
	fileName, summary, err := w.ingester.IngestDocument(ctx, job.Input)
	if err != nil {
		w.reportFailure(ctx, job, err)
		return
	}

	text := fmt.Sprintf("🎉 The document *%s* has been successfully ingested and summarized. Here's a brief summary:\n%s\nFeel free to query @briefops for further details!", fileName, summary)
	w.reportSuccess(ctx, job, text)
}

func (w *Worker) reportSuccess(ctx context.Context, job Job, text string) {
	var err error
	if job.Public {
		err = w.notifier.PostMessage(ctx, job.ChannelID, "", text)
	} else {
		err = w.notifier.Respond(ctx, job.ResponseURL, text, false)
	}
	if err != nil {
		log.Printf("[IngestWorker] Failed to deliver result for %s: %v", job.Input, err)
	}
}

func (w *Worker) reportFailure(ctx context.Context, job Job, err error) {
	log.Printf("[IngestWorker] Ingestion failed for %s: %v", job.Input, err)

	reason := "an unexpected error occurred, please try again later"
	switch {
	case errors.Is(err, ErrInvalidInput):
		reason = "the input is neither a Slack file URL nor a YouTube link"
	case errors.Is(err, youtube.ErrNoTranscript):
		reason = "no transcript is available for this video"
	}

	text := fmt.Sprintf(":x: An error occurred during ingestion: %s.", reason)
	if respondErr := w.notifier.Respond(ctx, job.ResponseURL, text, false); respondErr != nil {
		log.Printf("[IngestWorker] Failed to deliver failure notice for %s: %v", job.Input, respondErr)
	}
}
