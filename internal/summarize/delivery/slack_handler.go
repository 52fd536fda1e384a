package delivery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"briefops/internal/summarize/repository"
	"briefops/internal/summarize/usecase"
	usagelimit "briefops/internal/usage/usecase"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

const defaultDays = 7

// Responder delivers slash command replies and channel messages.
type Responder interface {
	Respond(ctx context.Context, responseURL, text string, inChannel bool) error
	PostMessage(ctx context.Context, channelID, threadTS, text string) error
}

// VideoSummarizer produces a summary for a YouTube video URL.
type VideoSummarizer interface {
	SummarizeVideo(ctx context.Context, videoURL string) (string, error)
}

// Handler routes the /briefops command and thread mentions to the
// summarization use cases.
type Handler struct {
	svc       *usecase.Service
	fetcher   *usecase.Fetcher
	videos    VideoSummarizer
	limiter   *usagelimit.Limiter
	responder Responder
}

func NewHandler(svc *usecase.Service, fetcher *usecase.Fetcher, videos VideoSummarizer, limiter *usagelimit.Limiter, responder Responder) *Handler {
	return &Handler{
		svc:       svc,
		fetcher:   fetcher,
		videos:    videos,
		limiter:   limiter,
		responder: responder,
	}
}

// HandleSummarize processes "/briefops [days] [--private]": it summarizes the
// channel's recent history and posts the result in-channel unless --private
// was given.
func (h *Handler) HandleSummarize(ctx context.Context, cmd slack.SlashCommand) {
	numDays, isPublic := parseSummarizeArgs(cmd.Text)

	decision, err := h.limiter.CheckAndReserve(ctx, cmd.UserID, numDays)
	if err != nil {
		log.Printf("[Summarize] Usage check failed for %s: %v", cmd.UserID, err)
		h.respond(ctx, cmd.ResponseURL, ":x: Could not check your usage quota, please try again later.", false)
		return
	}
	switch decision {
	case usagelimit.DaysLimitExceeded:
		h.respond(ctx, cmd.ResponseURL, fmt.Sprintf(":warning: You can summarize at most %d days of history on the free tier.", h.limiter.MaxDays()), false)
		return
	case usagelimit.DailyLimitExceeded:
		h.respond(ctx, cmd.ResponseURL, fmt.Sprintf(":no_entry: You have reached your daily limit of %d summaries. Please try again tomorrow.", h.limiter.DailyLimit()), false)
		return
	}

	h.respond(ctx, cmd.ResponseURL, "_Generating the summary, please wait..._", false)

	summary, err := h.svc.SummarizeChannel(ctx, cmd.ChannelID, numDays)
	if err != nil {
		h.respond(ctx, cmd.ResponseURL, summarizeErrorText(err), false)
		return
	}

	if err := h.limiter.Commit(ctx, cmd.UserID); err != nil {
		log.Printf("[Summarize] Failed to record usage for %s: %v", cmd.UserID, err)
	}

	text := fmt.Sprintf("*Here is the summary for the past %d day(s):*\n%s", numDays, summary)
	h.respond(ctx, cmd.ResponseURL, text, isPublic)
}

// HandleThreadMention summarizes the content of the thread the bot was
// mentioned in. The most relevant content wins: an attached document, then a
// YouTube link, then a plain URL, then the thread's own messages.
func (h *Handler) HandleThreadMention(ctx context.Context, ev *slackevents.AppMentionEvent) {
	// A top-level mention is its own thread root
	threadTS := ev.ThreadTimeStamp
	if threadTS == "" {
		threadTS = ev.TimeStamp
	}

	messages, err := h.fetcher.ThreadReplies(ctx, ev.Channel, threadTS)
	if err != nil {
		log.Printf("[Summarize] Failed to fetch thread %s: %v", threadTS, err)
		h.reply(ctx, ev, summarizeErrorText(err))
		return
	}

	cls := usecase.Classify(messages)

	// Transcripts are long and cost several model calls, so video
	// summarization must be asked for explicitly
	if cls.VideoURL != "" && !strings.Contains(ev.Text, "--youtube") {
		h.reply(ctx, ev, fmt.Sprintf("This thread links a YouTube video. Mention me with `--youtube` to summarize its transcript, or run `/briefops-ingest %s`.", cls.VideoURL))
		return
	}

	h.reply(ctx, ev, "_Generating the summary, please wait..._")

	var summary string
	switch {
	case cls.File != nil:
		summary, err = h.svc.SummarizeAttachment(ctx, *cls.File)
		if err == nil {
			summary = fmt.Sprintf("*Summary of the file %q:*\n%s", cls.File.Name, summary)
		}
	case cls.VideoURL != "":
		summary, err = h.videos.SummarizeVideo(ctx, cls.VideoURL)
		if err == nil {
			summary = fmt.Sprintf("*Summary of the video:*\n%s", summary)
		}
	case cls.URL != "":
		summary, err = h.svc.SummarizeURL(ctx, cls.URL)
		if err == nil {
			summary = fmt.Sprintf("*Summary of <%s>:*\n%s", cls.URL, summary)
		}
	default:
		summary, err = h.svc.SummarizeThread(ctx, ev.Channel, threadTS)
		if err == nil {
			summary = fmt.Sprintf("*Thread summary:*\n%s", summary)
		}
	}
	if err != nil {
		log.Printf("[Summarize] Thread mention in %s failed: %v", ev.Channel, err)
		h.reply(ctx, ev, summarizeErrorText(err))
		return
	}

	h.reply(ctx, ev, summary)
}

func (h *Handler) respond(ctx context.Context, responseURL, text string, inChannel bool) {
	if err := h.responder.Respond(ctx, responseURL, text, inChannel); err != nil {
		log.Printf("[Summarize] Failed to respond: %v", err)
	}
}

func (h *Handler) reply(ctx context.Context, ev *slackevents.AppMentionEvent, text string) {
	threadTS := ev.ThreadTimeStamp
	if threadTS == "" {
		threadTS = ev.TimeStamp
	}
	if err := h.responder.PostMessage(ctx, ev.Channel, threadTS, text); err != nil {
		log.Printf("[Summarize] Failed to post reply in %s: %v", ev.Channel, err)
	}
}

// parseSummarizeArgs reads the day count and visibility flags from the
// command text. Unrecognized tokens are ignored.
func parseSummarizeArgs(text string) (numDays int, isPublic bool) {
	numDays = defaultDays
	isPublic = true
	for _, arg := range strings.Fields(text) {
		switch arg {
		case "--private", "-private":
			isPublic = false
		default:
			if n, err := strconv.Atoi(arg); err == nil && n > 0 {
				numDays = n
			}
		}
	}
	return numDays, isPublic
}

func summarizeErrorText(err error) string {
	switch {
	case errors.Is(err, repository.ErrNotAMember):
		return "Please invite me to this channel with `/invite @briefops` and try again."
	case errors.Is(err, usecase.ErrNothingToSummarize):
		return "There is nothing to summarize in the requested content."
	case errors.Is(err, usecase.ErrNoSummary):
		return "The model returned no summary for this content. Please try again."
	default:
		return ":x: Failed to generate the summary, please try again later."
	}
}
