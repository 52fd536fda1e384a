package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"briefops/internal/summarize/domain"
	"briefops/internal/summarize/repository"
	"briefops/pkg/gemini"
)

// DocumentGateway extends the summarization gateway with inline document
// summarization for binary attachments.
type DocumentGateway interface {
	Gateway
	SummarizeDocument(ctx context.Context, mimeType string, data []byte, cfg gemini.DecodingConfig) (gemini.Result, error)
}

// WebFetcher retrieves the readable text of a web page.
type WebFetcher interface {
	ExtractText(ctx context.Context, pageURL string) (string, error)
}

// Service orchestrates the summarization paths: channel history over a day
// window, thread content, single attachments and web pages.
type Service struct {
	fetcher  *Fetcher
	files    repository.FileSource
	gateway  DocumentGateway
	web      WebFetcher
	decoding gemini.DecodingConfig
}

func NewService(fetcher *Fetcher, files repository.FileSource, gateway DocumentGateway, web WebFetcher, decoding gemini.DecodingConfig) *Service {
	return &Service{
		fetcher:  fetcher,
		files:    files,
		gateway:  gateway,
		web:      web,
		decoding: decoding,
	}
}

// SummarizeChannel summarizes the channel's messages from the past number of
// days.
func (s *Service) SummarizeChannel(ctx context.Context, channelID string, days int) (string, error) {
	oldest := time.Now().AddDate(0, 0, -days)
	messages, err := s.fetcher.ChannelHistory(ctx, channelID, oldest)
	if err != nil {
		return "", err
	}

	texts := messageTexts(messages)
	if len(texts) == 0 {
		return "", ErrNothingToSummarize
	}
	return s.summarizeText(ctx, strings.Join(texts, "\n"))
}

// SummarizeThread summarizes a thread's messages together with any
// summarizable attachments. Attachment failures degrade to an inline notice
// instead of failing the whole thread summary.
func (s *Service) SummarizeThread(ctx context.Context, channelID, threadTS string) (string, error) {
	messages, err := s.fetcher.ThreadReplies(ctx, channelID, threadTS)
	if err != nil {
		return "", err
	}

	parts := messageTexts(messages)
	for _, msg := range messages {
		for _, file := range msg.Files {
			parts = append(parts, s.describeAttachment(ctx, file))
		}
	}
	if len(parts) == 0 {
		return "", ErrNothingToSummarize
	}
	return s.summarizeText(ctx, strings.Join(parts, "\n"))
}

// SummarizeAttachment downloads an uploaded file and summarizes its content.
// Only application/pdf and text/csv are supported on this direct path.
func (s *Service) SummarizeAttachment(ctx context.Context, att domain.Attachment) (string, error) {
	data, err := s.files.DownloadFile(ctx, att.DownloadURL)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", att.Name, err)
	}

	var result gemini.Result
	if att.MimeType == "text/csv" {
		result, err = s.gateway.Summarize(ctx, string(data), s.decoding)
	} else {
		result, err = s.gateway.SummarizeDocument(ctx, att.MimeType, data, s.decoding)
	}
	if err != nil {
		return "", err
	}
	if result.Empty {
		return "", ErrNoSummary
	}
	return result.Text, nil
}

// SummarizeURL fetches a web page and summarizes its readable text.
func (s *Service) SummarizeURL(ctx context.Context, pageURL string) (string, error) {
	text, err := s.web.ExtractText(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch the URL content: %w", err)
	}
	if text == "" {
		return "", ErrNothingToSummarize
	}
	return s.summarizeText(ctx, text)
}

func (s *Service) summarizeText(ctx context.Context, content string) (string, error) {
	result, err := s.gateway.Summarize(ctx, content, s.decoding)
	if err != nil {
		return "", err
	}
	if result.Empty {
		return "", ErrNoSummary
	}
	return result.Text, nil
}

// describeAttachment returns the text block a thread summary should carry for
// one attachment: its summary for supported types, a notice otherwise.
func (s *Service) describeAttachment(ctx context.Context, file domain.Attachment) string {
	if file.MimeType != "application/pdf" && file.MimeType != "text/csv" {
		return fmt.Sprintf("File type %s is not supported for summarization.", file.MimeType)
	}
	summary, err := s.SummarizeAttachment(ctx, file)
	if err != nil {
		log.Printf("[Summarize] Failed to summarize attachment %s: %v", file.Name, err)
		return fmt.Sprintf("The file %q could not be summarized.", file.Name)
	}
	return fmt.Sprintf("Summary of the attached file %q:\n%s", file.Name, summary)
}

func messageTexts(messages []domain.Message) []string {
	var texts []string
	for _, m := range messages {
		if m.Text != "" {
			texts = append(texts, m.Text)
		}
	}
	return texts
}
