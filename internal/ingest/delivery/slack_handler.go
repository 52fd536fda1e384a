package delivery

import (
	"context"
	"log"
	"strings"

	"briefops/internal/ingest/usecase"

	"github.com/slack-go/slack"
)

// Handler routes the /briefops-ingest command onto the ingestion worker pool.
type Handler struct {
	worker   *usecase.Worker
	notifier usecase.Notifier
}

func NewHandler(worker *usecase.Worker, notifier usecase.Notifier) *Handler {
	return &Handler{worker: worker, notifier: notifier}
}

// HandleIngest processes "/briefops-ingest <file URL or YouTube URL>
// [--public]". The actual work runs on the worker pool; the command returns
// immediately.
func (h *Handler) HandleIngest(ctx context.Context, cmd slack.SlashCommand) {
	input, public := parseIngestArgs(cmd.Text)
	if input == "" {
		h.respond(ctx, cmd.ResponseURL, "Usage: `/briefops-ingest <Slack file URL or YouTube link> [--public]`")
		return
	}

	queued := h.worker.Queue(usecase.Job{
		UserID:      cmd.UserID,
		ChannelID:   cmd.ChannelID,
		Input:       input,
		ResponseURL: cmd.ResponseURL,
		Public:      public,
	})
	if !queued {
		h.respond(ctx, cmd.ResponseURL, ":warning: The ingestion queue is full right now, please try again in a moment.")
		return
	}

	h.respond(ctx, cmd.ResponseURL, "Ingestion started, you will be notified when the summary is ready...")
}

func (h *Handler) respond(ctx context.Context, responseURL, text string) {
	if err := h.notifier.Respond(ctx, responseURL, text, false); err != nil {
		log.Printf("[Ingest] Failed to respond: %v", err)
	}
}

func parseIngestArgs(text string) (input string, public bool) {
	for _, arg := range strings.Fields(text) {
		switch arg {
		case "--public", "-public":
			public = true
		default:
			if input == "" {
				input = unwrapSlackURL(arg)
			}
		}
	}
	return input, public
}

// unwrapSlackURL strips the <...|label> decoration Slack applies to links in
// command text.
func unwrapSlackURL(arg string) string {
	arg = strings.Trim(arg, "<>")
	if i := strings.IndexByte(arg, '|'); i >= 0 {
		arg = arg[:i]
	}
	return arg
}
