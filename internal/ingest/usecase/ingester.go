package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	ingestdomain "briefops/internal/ingest/domain"
	"briefops/internal/ingest/repository"
	sumrepo "briefops/internal/summarize/repository"
	sumusecase "briefops/internal/summarize/usecase"
	"briefops/pkg/gemini"
	"briefops/pkg/youtube"

	"github.com/google/uuid"
)

// ErrInvalidInput is returned when the ingest argument is neither a Slack
// file URL nor a YouTube link.
var ErrInvalidInput = errors.New("invalid Slack file URL or YouTube link")

// ObjectStore uploads content to the grounding bucket.
type ObjectStore interface {
	Upload(ctx context.Context, name string, data []byte, grounding bool) (string, error)
}

// TranscriptSource fetches a video's transcript text.
type TranscriptSource interface {
	Transcript(ctx context.Context, videoID string) (string, error)
}

// GroundingIndex stores ingested summaries for later retrieval. Optional.
type GroundingIndex interface {
	UpsertSummary(ctx context.Context, id, kind, title, summary string) error
}

// Ingester processes document and video ingestion: fetch the content, store
// it as grounding material, summarize it, and record the outcome.
type Ingester struct {
	repo        repository.IngestionRepository
	files       sumrepo.FileSource
	storage     ObjectStore
	gateway     sumusecase.DocumentGateway
	transcripts TranscriptSource
	chunker     *sumusecase.ChunkedSummarizer
	grounding   GroundingIndex
	decoding    gemini.DecodingConfig
	now         func() time.Time
}

func NewIngester(
	repo repository.IngestionRepository,
	files sumrepo.FileSource,
	storage ObjectStore,
	gateway sumusecase.DocumentGateway,
	transcripts TranscriptSource,
	chunker *sumusecase.ChunkedSummarizer,
	grounding GroundingIndex,
	decoding gemini.DecodingConfig,
) *Ingester {
	return &Ingester{
		repo:        repo,
		files:       files,
		storage:     storage,
		gateway:     gateway,
		transcripts: transcripts,
		chunker:     chunker,
		grounding:   grounding,
		decoding:    decoding,
		now:         time.Now,
	}
}

// SummarizeVideo fetches the transcript of a YouTube video and produces a
// map-reduce summary. The raw transcript is stored as grounding material.
func (i *Ingester) SummarizeVideo(ctx context.Context, videoURL string) (string, error) {
	videoID := youtube.VideoID(videoURL)
	if videoID == "" {
		return "", fmt.Errorf("%w: could not extract a video ID from %s", ErrInvalidInput, videoURL)
	}

	transcript, err := i.transcripts.Transcript(ctx, videoID)
	if err != nil {
		return "", err
	}

	transcriptName := fmt.Sprintf("youtube_transcript_%s.txt", videoID)
	if _, err := i.storage.Upload(ctx, transcriptName, []byte(transcript), true); err != nil {
		// The summary is still worth producing when the archive write fails
		log.Printf("[Ingest] Failed to store transcript %s: %v", transcriptName, err)
	}

	return i.chunker.SummarizeLong(ctx, transcript, sumusecase.DefaultChunkWords)
}

// IngestVideo summarizes a YouTube video and records the result.
func (i *Ingester) IngestVideo(ctx context.Context, videoURL string) (string, error) {
	videoID := youtube.VideoID(videoURL)
	if videoID == "" {
		return "", fmt.Errorf("%w: could not extract a video ID from %s", ErrInvalidInput, videoURL)
	}

	summary, err := i.SummarizeVideo(ctx, videoURL)
	if err != nil {
		return "", err
	}

	record := &ingestdomain.VideoSummary{
		ID:        uuid.New().String(),
		VideoID:   videoID,
		VideoURL:  videoURL,
		Summary:   summary,
		CreatedAt: i.now(),
	}
	if err := i.repo.SaveVideoSummary(ctx, record); err != nil {
		return "", err
	}

	i.index(ctx, videoID, "video", videoURL, summary)
	return summary, nil
}

// IngestDocument downloads a Slack file, archives it in the grounding
// bucket, summarizes it, and records both steps. Returns the file name and
// its summary.
func (i *Ingester) IngestDocument(ctx context.Context, fileURL string) (string, string, error) {
	fileID := extractFileID(fileURL)
	if fileID == "" {
		return "", "", fmt.Errorf("%w: could not extract the file ID from %s", ErrInvalidInput, fileURL)
	}

	file, err := i.files.FileInfo(ctx, fileID)
	if err != nil {
		return "", "", err
	}

	data, err := i.files.DownloadFile(ctx, file.DownloadURL)
	if err != nil {
		return file.Name, "", err
	}

	gcsURI, err := i.storage.Upload(ctx, file.Name, data, true)
	if err != nil {
		return file.Name, "", err
	}

	if err := i.repo.SaveIngestedFile(ctx, &ingestdomain.IngestedFile{
		ID:        uuid.New().String(),
		FileID:    fileID,
		FileName:  file.Name,
		GCSUri:    gcsURI,
		CreatedAt: i.now(),
	}); err != nil {
		return file.Name, "", err
	}

	result, err := i.gateway.SummarizeDocument(ctx, file.MimeType, data, i.decoding)
	if err != nil {
		return file.Name, "", err
	}
	if result.Empty {
		return file.Name, "", sumusecase.ErrNoSummary
	}

	if err := i.repo.SaveDocumentSummary(ctx, &ingestdomain.DocumentSummary{
		ID:        uuid.New().String(),
		FileID:    fileID,
		FileName:  file.Name,
		Summary:   result.Text,
		CreatedAt: i.now(),
	}); err != nil {
		return file.Name, "", err
	}

	i.index(ctx, fileID, "document", file.Name, result.Text)
	return file.Name, result.Text, nil
}

func (i *Ingester) index(ctx context.Context, id, kind, title, summary string) {
	if i.grounding == nil {
		return
	}
	if err := i.grounding.UpsertSummary(ctx, id, kind, title, summary); err != nil {
		log.Printf("[Ingest] Failed to index %s %s: %v", kind, id, err)
	}
}

// extractFileID pulls the file ID out of a Slack file permalink, whose path
// contains a segment starting with "F".
func extractFileID(fileURL string) string {
	for _, part := range strings.Split(fileURL, "/") {
		if strings.HasPrefix(part, "F") && len(part) > 1 {
			return part
		}
	}
	return ""
}
