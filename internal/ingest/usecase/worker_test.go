package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu       sync.Mutex
	posted   []string // channel messages
	responds []string // response URL messages
}

func (f *fakeNotifier) PostMessage(ctx context.Context, channelID, threadTS, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posted = append(f.posted, text)
	return nil
}

func (f *fakeNotifier) Respond(ctx context.Context, responseURL, text string, inChannel bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responds = append(f.responds, text)
	return nil
}

func TestWorkerDeliversVideoSummaryPublicly(t *testing.T) {
	repo := &fakeIngestionRepo{}
	transcripts := &fakeTranscripts{transcript: "a transcript worth summarizing"}
	ingester := newTestIngester(repo, &fakeObjectStore{}, transcripts, nil)
	notifier := &fakeNotifier{}

	worker := NewWorker(ingester, notifier, 1)
	worker.Start()
	require.True(t, worker.Queue(Job{
		ChannelID: "C123",
		Input:     "https://youtu.be/dQw4w9WgXcQ",
		Public:    true,
	}))
	worker.Stop()

	require.Len(t, notifier.posted, 1)
	assert.Contains(t, notifier.posted[0], "summary text")
	assert.Empty(t, notifier.responds)
	assert.Len(t, repo.videos, 1)
}

func TestWorkerReportsFailuresEphemerally(t *testing.T) {
	ingester := newTestIngester(&fakeIngestionRepo{}, &fakeObjectStore{}, &fakeTranscripts{}, nil)
	notifier := &fakeNotifier{}

	worker := NewWorker(ingester, notifier, 1)
	worker.Start()
	require.True(t, worker.Queue(Job{
		ChannelID:   "C123",
		Input:       "https://example.com/not-a-file",
		ResponseURL: "https://hooks.slack.com/respond",
	}))
	worker.Stop()

	require.Len(t, notifier.responds, 1)
	assert.Contains(t, notifier.responds[0], "An error occurred during ingestion")
	assert.Empty(t, notifier.posted)
}

func TestWorkerQueueRejectsWhenFull(t *testing.T) {
	ingester := newTestIngester(&fakeIngestionRepo{}, &fakeObjectStore{}, &fakeTranscripts{}, nil)
	worker := NewWorker(ingester, &fakeNotifier{}, 1)

	// Not started, so nothing drains the queue
	filled := 0
	for worker.Queue(Job{Input: "https://youtu.be/dQw4w9WgXcQ"}) {
		filled++
	}

	assert.Equal(t, cap(worker.jobQueue), filled)
	assert.False(t, worker.Queue(Job{Input: "https://youtu.be/dQw4w9WgXcQ"}))
}
