package repository

import (
	"context"
	"errors"
	"fmt"

	"briefops/internal/summarize/domain"
	"briefops/pkg/slackbot"

	"github.com/slack-go/slack"
)

// ErrNotAMember distinguishes "bot lacks access to the channel" from other
// fetch failures so delivery can render an invite instruction.
var ErrNotAMember = errors.New("bot is not a member of the channel")

// PageSource fetches raw pages of conversation messages.
type PageSource interface {
	HistoryPage(ctx context.Context, channelID, oldest, cursor string) (domain.FetchPage, error)
	RepliesPage(ctx context.Context, channelID, threadTS, cursor string) (domain.FetchPage, error)
}

// FileSource looks up and downloads uploaded files.
type FileSource interface {
	FileInfo(ctx context.Context, fileID string) (domain.Attachment, error)
	DownloadFile(ctx context.Context, downloadURL string) ([]byte, error)
}

type SlackSource struct {
	client *slackbot.Client
}

// NewSlackSource adapts the Slack client to the domain-level page and file
// sources.
func NewSlackSource(client *slackbot.Client) *SlackSource {
	return &SlackSource{client: client}
}

func (s *SlackSource) HistoryPage(ctx context.Context, channelID, oldest, cursor string) (domain.FetchPage, error) {
	page, err := s.client.HistoryPage(ctx, channelID, oldest, cursor)
	if err != nil {
		return domain.FetchPage{}, mapFetchError(err)
	}
	return toDomainPage(page), nil
}

func (s *SlackSource) RepliesPage(ctx context.Context, channelID, threadTS, cursor string) (domain.FetchPage, error) {
	page, err := s.client.RepliesPage(ctx, channelID, threadTS, cursor)
	if err != nil {
		return domain.FetchPage{}, mapFetchError(err)
	}
	return toDomainPage(page), nil
}

func (s *SlackSource) FileInfo(ctx context.Context, fileID string) (domain.Attachment, error) {
	file, err := s.client.FileInfo(ctx, fileID)
	if err != nil {
		return domain.Attachment{}, err
	}
	return toDomainAttachment(*file), nil
}

func (s *SlackSource) DownloadFile(ctx context.Context, downloadURL string) ([]byte, error) {
	return s.client.DownloadFile(ctx, downloadURL)
}

func mapFetchError(err error) error {
	if errors.Is(err, slackbot.ErrNotAMember) {
		return ErrNotAMember
	}
	return fmt.Errorf("failed to fetch messages: %w", err)
}

func toDomainPage(page *slackbot.Page) domain.FetchPage {
	messages := make([]domain.Message, 0, len(page.Messages))
	for _, m := range page.Messages {
		messages = append(messages, toDomainMessage(m))
	}
	return domain.FetchPage{
		Messages:   messages,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}
}

func toDomainMessage(m slack.Message) domain.Message {
	msg := domain.Message{
		Timestamp: m.Timestamp,
		AuthorID:  m.User,
		Text:      m.Text,
		ThreadTS:  m.ThreadTimestamp,
	}
	for _, f := range m.Files {
		msg.Files = append(msg.Files, toDomainAttachment(f))
	}
	return msg
}

func toDomainAttachment(f slack.File) domain.Attachment {
	return domain.Attachment{
		ID:          f.ID,
		Name:        f.Name,
		MimeType:    f.Mimetype,
		SizeBytes:   f.Size,
		DownloadURL: f.URLPrivateDownload,
	}
}
