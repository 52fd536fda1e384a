package repository

import (
	"context"
	"fmt"

	"briefops/internal/usage/domain"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usageCollection = "usage"

// UsageRepository persists per-user daily usage counters.
type UsageRepository interface {
	// Get returns the user's usage record, or nil when none exists.
	Get(ctx context.Context, userID string) (*domain.UsageRecord, error)
	// IncrementDaily atomically sets the record to {dateKey, 1} when it is
	// absent or belongs to a prior day, and increments it otherwise.
	IncrementDaily(ctx context.Context, userID, dateKey string) error
}

type usageRepository struct {
	client *firestore.Client
}

func NewUsageRepository(client *firestore.Client) UsageRepository {
	return &usageRepository{client: client}
}

func (r *usageRepository) Get(ctx context.Context, userID string) (*domain.UsageRecord, error) {
	doc, err := r.client.Collection(usageCollection).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read usage record: %w", err)
	}

	record := &domain.UsageRecord{UserID: userID}
	if err := doc.DataTo(record); err != nil {
		return nil, fmt.Errorf("failed to decode usage record: %w", err)
	}
	return record, nil
}

// IncrementDaily runs as a single Firestore transaction so concurrent commits
// for the same user never lose an increment.
func (r *usageRepository) IncrementDaily(ctx context.Context, userID, dateKey string) error {
	ref := r.client.Collection(usageCollection).Doc(userID)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}

		if err != nil || !doc.Exists() {
			return tx.Set(ref, map[string]interface{}{"date": dateKey, "count": 1})
		}

		var record domain.UsageRecord
		if err := doc.DataTo(&record); err != nil {
			return err
		}
		if record.Date != dateKey {
			return tx.Set(ref, map[string]interface{}{"date": dateKey, "count": 1})
		}
		return tx.Update(ref, []firestore.Update{{Path: "count", Value: record.Count + 1}})
	})
}
