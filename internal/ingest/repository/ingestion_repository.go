package repository

import (
	"context"
	"fmt"

	"briefops/internal/ingest/domain"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

const (
	ingestedFilesCollection     = "ingestedFiles"
	documentSummariesCollection = "documentSummaries"
	videoSummariesCollection    = "youtubeSummaries"
)

// IngestionRepository persists ingestion records and their summaries.
type IngestionRepository interface {
	SaveIngestedFile(ctx context.Context, rec *domain.IngestedFile) error
	SaveDocumentSummary(ctx context.Context, rec *domain.DocumentSummary) error
	SaveVideoSummary(ctx context.Context, rec *domain.VideoSummary) error
	// ListIngestedFiles returns all ingestion records, oldest first.
	ListIngestedFiles(ctx context.Context) ([]*domain.IngestedFile, error)
}

type ingestionRepository struct {
	client *firestore.Client
}

func NewIngestionRepository(client *firestore.Client) IngestionRepository {
	return &ingestionRepository{client: client}
}

func (r *ingestionRepository) SaveIngestedFile(ctx context.Context, rec *domain.IngestedFile) error {
	_, err := r.client.Collection(ingestedFilesCollection).Doc(rec.ID).Set(ctx, rec)
	if err != nil {
		return fmt.Errorf("failed to save ingested file record: %w", err)
	}
	return nil
}

func (r *ingestionRepository) SaveDocumentSummary(ctx context.Context, rec *domain.DocumentSummary) error {
	_, err := r.client.Collection(documentSummariesCollection).Doc(rec.ID).Set(ctx, rec)
	if err != nil {
		return fmt.Errorf("failed to save document summary: %w", err)
	}
	return nil
}

func (r *ingestionRepository) SaveVideoSummary(ctx context.Context, rec *domain.VideoSummary) error {
	_, err := r.client.Collection(videoSummariesCollection).Doc(rec.ID).Set(ctx, rec)
	if err != nil {
		return fmt.Errorf("failed to save video summary: %w", err)
	}
	return nil
}

func (r *ingestionRepository) ListIngestedFiles(ctx context.Context) ([]*domain.IngestedFile, error) {
	iter := r.client.Collection(ingestedFilesCollection).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var records []*domain.IngestedFile
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list ingested files: %w", err)
		}
		rec := &domain.IngestedFile{ID: doc.Ref.ID}
		if err := doc.DataTo(rec); err != nil {
			return nil, fmt.Errorf("failed to decode ingested file record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
