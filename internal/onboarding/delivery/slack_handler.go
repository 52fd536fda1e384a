package delivery

import (
	"context"
	"fmt"
	"log"
	"strings"

	ingestrepo "briefops/internal/ingest/repository"
	usagelimit "briefops/internal/usage/usecase"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

const welcomeText = `:wave: Welcome to *BriefOps*!
Here are the commands you can use to get started:

1. ` + "`/briefops [days]`" + ` - Summarize channel conversations from the last [days] days (default: 7 days).
2. ` + "`/briefops-status`" + ` - Check the app's status and usage limits.
3. ` + "`/briefops-ingest [SLACK-PDF][YOUTUBE_VID_URL]`" + ` - Summarize the content of the media; add ` + "`--public`" + ` to share the summary with the channel.
4. ` + "`/briefops-search`" + ` - Private Google Search. Use ` + "`--summarise`" + ` to summarize the result sources and ` + "`--public`" + ` to share that summary with the channel.

Happy summarizing! 🚀`

// Responder delivers messages to channels and slash command reply URLs.
type Responder interface {
	PostMessage(ctx context.Context, channelID, threadTS, text string) error
	Respond(ctx context.Context, responseURL, text string, inChannel bool) error
}

// Handler greets users who mention the bot without a request and serves the
// /briefops-status command.
type Handler struct {
	responder Responder
	limiter   *usagelimit.Limiter
	ingests   ingestrepo.IngestionRepository
	botUserID string
}

func NewHandler(responder Responder, limiter *usagelimit.Limiter, ingests ingestrepo.IngestionRepository, botUserID string) *Handler {
	return &Handler{
		responder: responder,
		limiter:   limiter,
		ingests:   ingests,
		botUserID: botUserID,
	}
}

// MaybeWelcome posts the onboarding message when the mention carries no other
// text. Reports whether the event was consumed.
func (h *Handler) MaybeWelcome(ctx context.Context, ev *slackevents.AppMentionEvent) bool {
	if strings.TrimSpace(ev.Text) != fmt.Sprintf("<@%s>", h.botUserID) {
		return false
	}
	if err := h.responder.PostMessage(ctx, ev.Channel, "", welcomeText); err != nil {
		log.Printf("[Onboarding] Failed to send welcome message: %v", err)
	}
	return true
}

// HandleStatus processes "/briefops-status": it reports the configured usage
// limits and how much content has been ingested so far.
func (h *Handler) HandleStatus(ctx context.Context, cmd slack.SlashCommand) {
	var sb strings.Builder
	sb.WriteString("*BriefOps status*\n")
	sb.WriteString(":large_green_circle: The bot is up and listening.\n")

	if limit := h.limiter.DailyLimit(); limit > 0 {
		sb.WriteString(fmt.Sprintf("• Daily summaries per user: %d\n", limit))
	} else {
		sb.WriteString("• Daily summaries per user: unlimited\n")
	}
	if maxDays := h.limiter.MaxDays(); maxDays > 0 {
		sb.WriteString(fmt.Sprintf("• Maximum summarization window: %d days\n", maxDays))
	}

	files, err := h.ingests.ListIngestedFiles(ctx)
	if err != nil {
		log.Printf("[Onboarding] Failed to count ingested files: %v", err)
		sb.WriteString("• Ingested documents: unavailable\n")
	} else {
		sb.WriteString(fmt.Sprintf("• Ingested documents: %d\n", len(files)))
	}

	if err := h.responder.Respond(ctx, cmd.ResponseURL, sb.String(), false); err != nil {
		log.Printf("[Onboarding] Failed to respond to status command: %v", err)
	}
}
