package delivery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"briefops/internal/search/usecase"
	sumusecase "briefops/internal/summarize/usecase"

	"github.com/slack-go/slack"
)

// Responder delivers slash command replies.
type Responder interface {
	Respond(ctx context.Context, responseURL, text string, inChannel bool) error
}

// Handler routes the /briefops-search command.
type Handler struct {
	svc       *usecase.Service
	responder Responder
}

func NewHandler(svc *usecase.Service, responder Responder) *Handler {
	return &Handler{svc: svc, responder: responder}
}

// HandleSearch processes "/briefops-search <query> [--summarize] [--public]".
// Without --summarize it lists the top results; with it, the result pages are
// fetched and condensed into one summary with cited sources.
func (h *Handler) HandleSearch(ctx context.Context, cmd slack.SlashCommand) {
	query, summarize, public := parseSearchArgs(cmd.Text)
	if query == "" {
		h.respond(ctx, cmd.ResponseURL, "Usage: `/briefops-search <query> [--summarize] [--public]`", false)
		return
	}

	if !summarize {
		h.listResults(ctx, cmd, query, public)
		return
	}

	h.respond(ctx, cmd.ResponseURL, "_Searching and summarizing, please wait..._", false)

	report, err := h.svc.SearchAndSummarize(ctx, query)
	if err != nil {
		log.Printf("[Search] Summarized search for %q failed: %v", query, err)
		h.respond(ctx, cmd.ResponseURL, searchErrorText(err), false)
		return
	}

	h.respond(ctx, cmd.ResponseURL, formatReport(query, report), public)
}

func (h *Handler) listResults(ctx context.Context, cmd slack.SlashCommand, query string, public bool) {
	results, err := h.svc.Search(ctx, query)
	if err != nil {
		log.Printf("[Search] Search for %q failed: %v", query, err)
		h.respond(ctx, cmd.ResponseURL, searchErrorText(err), false)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Search results for:* %s\n", query))
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("%d. *%s*\n%s\n<%s>\n", i+1, r.Title, r.Snippet, r.Link))
	}
	h.respond(ctx, cmd.ResponseURL, sb.String(), public)
}

func (h *Handler) respond(ctx context.Context, responseURL, text string, inChannel bool) {
	if err := h.responder.Respond(ctx, responseURL, text, inChannel); err != nil {
		log.Printf("[Search] Failed to respond: %v", err)
	}
}

func formatReport(query string, report *usecase.SummaryReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Summary for:* %s\n\n%s\n", query, report.Summary))

	sb.WriteString(fmt.Sprintf("\n*Search Summary Stats:* %d source(s) summarized", len(report.Used)))
	if len(report.Failed) > 0 {
		sb.WriteString(fmt.Sprintf(", %d source(s) could not be fetched", len(report.Failed)))
	}
	if report.Truncated {
		sb.WriteString(", content truncated to fit the model input limit")
	}
	sb.WriteString(".\n")

	if len(report.Used) > 0 {
		sb.WriteString("\n*Sources Cited:*\n")
		for _, ref := range report.Used {
			sb.WriteString(fmt.Sprintf("• <%s|%s>\n", ref.URL, ref.Title))
		}
	}
	return sb.String()
}

func parseSearchArgs(text string) (query string, summarize, public bool) {
	var words []string
	for _, arg := range strings.Fields(text) {
		switch arg {
		case "--summarize", "--summarise", "-summarize", "-summarise":
			summarize = true
		case "--public", "-public":
			public = true
		default:
			words = append(words, arg)
		}
	}
	return strings.Join(words, " "), summarize, public
}

func searchErrorText(err error) string {
	switch {
	case errors.Is(err, usecase.ErrNoResults):
		return "No search results were found for that query."
	case errors.Is(err, sumusecase.ErrNothingToSummarize):
		return "None of the result pages could be fetched for summarization."
	case errors.Is(err, sumusecase.ErrNoSummary):
		return "The model returned no summary for these results. Please try again."
	default:
		return ":x: The search failed, please try again later."
	}
}
