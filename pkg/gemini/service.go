package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// systemInstruction is the fixed instruction sent with every summarization
// request; per-use-case behavior is controlled through DecodingConfig only.
const systemInstruction = "You are BriefOps, a summarization assistant. " +
	"Summarize the provided content concisely, preserving key decisions, action items and links."

// ErrUnavailable is returned for any transport or backend failure. The
// underlying error is logged server-side and never shown to the end user.
var ErrUnavailable = errors.New("the summarization service is currently unavailable")

// DecodingConfig holds the generation knobs for a summarization call.
type DecodingConfig struct {
	Temperature     float32
	TopP            float32
	TopK            int32
	MaxOutputTokens int32
}

// Result is the normalized outcome of a summarization call. Empty means the
// backend returned no usable candidate, which is a recoverable outcome
// distinct from a hard failure.
type Result struct {
	Text  string
	Empty bool
}

// Service is the single choke point for Gemini calls.
type Service struct {
	client *genai.Client
	model  string
}

func NewService(ctx context.Context, apiKey, model string) (*Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Service{client: client, model: model}, nil
}

// Summarize sends exactly one generation request for the given content.
// No internal retry.
func (s *Service) Summarize(ctx context.Context, content string, cfg DecodingConfig) (Result, error) {
	model := s.configuredModel(cfg)
	resp, err := model.GenerateContent(ctx, genai.Text(content))
	if err != nil {
		log.Printf("[Gemini] Generation failed: %v", err)
		return Result{}, ErrUnavailable
	}
	return decodeResponse(resp), nil
}

// SummarizeDocument sends the raw document bytes inline alongside the
// summarization prompt. Used for PDF and similar binary attachments.
func (s *Service) SummarizeDocument(ctx context.Context, mimeType string, data []byte, cfg DecodingConfig) (Result, error) {
	model := s.configuredModel(cfg)
	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: data},
		genai.Text("Summarize this document concisely."),
	)
	if err != nil {
		log.Printf("[Gemini] Document generation failed: %v", err)
		return Result{}, ErrUnavailable
	}
	return decodeResponse(resp), nil
}

func (s *Service) Close() error {
	return s.client.Close()
}

func (s *Service) configuredModel(cfg DecodingConfig) *genai.GenerativeModel {
	model := s.client.GenerativeModel(s.model)
	model.SetTemperature(cfg.Temperature)
	model.SetTopP(cfg.TopP)
	model.SetTopK(cfg.TopK)
	model.SetMaxOutputTokens(cfg.MaxOutputTokens)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}
	return model
}

// decodeResponse extracts the first candidate's first text part. The response
// shape is decoded exactly once, here; everything downstream sees Result.
func decodeResponse(resp *genai.GenerateContentResponse) Result {
	if resp == nil || len(resp.Candidates) == 0 {
		return Result{Empty: true}
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return Result{Empty: true}
	}
	text, ok := content.Parts[0].(genai.Text)
	if !ok || string(text) == "" {
		return Result{Empty: true}
	}
	return Result{Text: string(text)}
}
