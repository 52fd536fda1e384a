package usecase

import (
	"context"
	"strconv"
	"time"

	"briefops/internal/summarize/domain"
	"briefops/internal/summarize/repository"
)

// Fetcher pulls complete channel or thread histories by following pagination
// cursors. Page fetches for one source are strictly sequential; each cursor
// depends on the previous page.
type Fetcher struct {
	source repository.PageSource
}

func NewFetcher(source repository.PageSource) *Fetcher {
	return &Fetcher{source: source}
}

// ChannelHistory returns all channel messages since oldest, in chronological
// order. A zero oldest fetches without a lower bound. The backend's own
// oldest filter is advisory; pages can straddle the boundary, so an explicit
// post-filter drops anything older than the bound.
func (f *Fetcher) ChannelHistory(ctx context.Context, channelID string, oldest time.Time) ([]domain.Message, error) {
	oldestTS := ""
	if !oldest.IsZero() {
		oldestTS = strconv.FormatInt(oldest.Unix(), 10)
	}

	var messages []domain.Message
	cursor := ""
	for {
		page, err := f.source.HistoryPage(ctx, channelID, oldestTS, cursor)
		if err != nil {
			return nil, err
		}
		messages = append(messages, page.Messages...)
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	if !oldest.IsZero() {
		messages = filterSince(messages, float64(oldest.Unix()))
	}
	reverseMessages(messages)
	return messages, nil
}

// ThreadReplies returns all messages of a thread in chronological order.
func (f *Fetcher) ThreadReplies(ctx context.Context, channelID, threadTS string) ([]domain.Message, error) {
	var messages []domain.Message
	cursor := ""
	for {
		page, err := f.source.RepliesPage(ctx, channelID, threadTS, cursor)
		if err != nil {
			return nil, err
		}
		messages = append(messages, page.Messages...)
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	reverseMessages(messages)
	return messages, nil
}

func filterSince(messages []domain.Message, oldest float64) []domain.Message {
	kept := messages[:0]
	for _, m := range messages {
		ts, err := strconv.ParseFloat(m.Timestamp, 64)
		if err != nil {
			continue
		}
		if ts >= oldest {
			kept = append(kept, m)
		}
	}
	return kept
}

func reverseMessages(messages []domain.Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
