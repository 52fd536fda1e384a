package slackbot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

// maxPageSize is the Slack Web API limit per history/replies call.
const maxPageSize = 200

// ErrNotAMember is returned when the bot lacks access to the requested
// channel. Callers render a specific invite instruction for it.
var ErrNotAMember = errors.New("bot is not a member of the channel")

// CommandHandler processes one slash command invocation.
type CommandHandler func(ctx context.Context, cmd slack.SlashCommand)

// MentionHandler processes one app_mention event.
type MentionHandler func(ctx context.Context, ev *slackevents.AppMentionEvent)

// Page is one raw page of messages from a paged conversations API call.
type Page struct {
	Messages   []slack.Message
	HasMore    bool
	NextCursor string
}

// Client wraps the Slack Web API and the Socket Mode event stream.
type Client struct {
	api  *slack.Client
	sock *socketmode.Client

	commandHandlers map[string]CommandHandler
	mentionHandler  MentionHandler
}

func New(botToken, appToken string) *Client {
	api := slack.New(botToken, slack.OptionAppLevelToken(appToken))
	return &Client{
		api:             api,
		sock:            socketmode.New(api),
		commandHandlers: make(map[string]CommandHandler),
	}
}

// HandleCommand registers a handler for a slash command, e.g. "/briefops".
func (c *Client) HandleCommand(name string, h CommandHandler) {
	c.commandHandlers[name] = h
}

// HandleMention registers the single app_mention handler.
func (c *Client) HandleMention(h MentionHandler) {
	c.mentionHandler = h
}

// HistoryPage fetches one page of channel history, newest first. oldest and
// cursor may be empty.
func (c *Client) HistoryPage(ctx context.Context, channelID, oldest, cursor string) (*Page, error) {
	resp, err := c.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Oldest:    oldest,
		Limit:     maxPageSize,
		Cursor:    cursor,
	})
	if err != nil {
		return nil, mapAPIError(err)
	}
	return &Page{
		Messages:   resp.Messages,
		HasMore:    resp.HasMore,
		NextCursor: resp.ResponseMetaData.NextCursor,
	}, nil
}

// RepliesPage fetches one page of a thread's replies.
func (c *Client) RepliesPage(ctx context.Context, channelID, threadTS, cursor string) (*Page, error) {
	msgs, hasMore, nextCursor, err := c.api.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
		ChannelID: channelID,
		Timestamp: threadTS,
		Limit:     maxPageSize,
		Cursor:    cursor,
	})
	if err != nil {
		return nil, mapAPIError(err)
	}
	return &Page{Messages: msgs, HasMore: hasMore, NextCursor: nextCursor}, nil
}

// PostMessage posts to a channel, threaded when threadTS is non-empty.
func (c *Client) PostMessage(ctx context.Context, channelID, threadTS, text string) error {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if threadTS != "" {
		opts = append(opts, slack.MsgOptionTS(threadTS))
	}
	_, _, err := c.api.PostMessageContext(ctx, channelID, opts...)
	return err
}

// Respond replies to a slash command through its response URL, either
// in-channel or ephemeral.
func (c *Client) Respond(ctx context.Context, responseURL, text string, inChannel bool) error {
	responseType := "ephemeral"
	if inChannel {
		responseType = "in_channel"
	}
	return slack.PostWebhookContext(ctx, responseURL, &slack.WebhookMessage{
		Text:         text,
		ResponseType: responseType,
	})
}

// FileInfo looks up metadata for an uploaded file.
func (c *Client) FileInfo(ctx context.Context, fileID string) (*slack.File, error) {
	file, _, _, err := c.api.GetFileInfoContext(ctx, fileID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file info: %w", err)
	}
	return file, nil
}

// DownloadFile retrieves the private file content with the bot token.
func (c *Client) DownloadFile(ctx context.Context, downloadURL string) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.api.GetFileContext(ctx, downloadURL, &buf); err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	return buf.Bytes(), nil
}

// BotUserID resolves the bot's own user ID via auth.test.
func (c *Client) BotUserID(ctx context.Context) (string, error) {
	resp, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return "", fmt.Errorf("auth.test failed: %w", err)
	}
	return resp.UserID, nil
}

// Run consumes the Socket Mode event stream, dispatching each event to its
// handler in a fresh goroutine. The connection is retried a bounded number of
// times with a fixed interval; exhaustion is fatal to the caller.
func (c *Client) Run(ctx context.Context) error {
	const (
		maxRetries    = 5
		retryInterval = 5 * time.Second
	)

	go c.dispatchLoop(ctx)

	for attempt := 1; ; attempt++ {
		err := c.sock.RunContext(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt >= maxRetries {
			return fmt.Errorf("socket mode connection failed after %d attempts: %w", maxRetries, err)
		}
		log.Printf("[Slack] Socket Mode disconnected: %v, reconnecting in %s (attempt #%d)", err, retryInterval, attempt)
		time.Sleep(retryInterval)
	}
}

func (c *Client) dispatchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-c.sock.Events:
			if !ok {
				return
			}
			switch evt.Type {
			case socketmode.EventTypeConnected:
				log.Printf("[Slack] Socket Mode connected")
			case socketmode.EventTypeSlashCommand:
				cmd, ok := evt.Data.(slack.SlashCommand)
				if !ok {
					continue
				}
				c.sock.Ack(*evt.Request)
				if h, registered := c.commandHandlers[cmd.Command]; registered {
					go h(ctx, cmd)
				} else {
					log.Printf("[Slack] No handler registered for %s", cmd.Command)
				}
			case socketmode.EventTypeEventsAPI:
				apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
				if !ok {
					continue
				}
				c.sock.Ack(*evt.Request)
				if apiEvent.Type != slackevents.CallbackEvent {
					continue
				}
				if mention, ok := apiEvent.InnerEvent.Data.(*slackevents.AppMentionEvent); ok && c.mentionHandler != nil {
					go c.mentionHandler(ctx, mention)
				}
			}
		}
	}
}

// mapAPIError converts the Slack API's not_in_channel error into the
// distinguished ErrNotAMember; everything else passes through wrapped.
func mapAPIError(err error) error {
	if err == nil {
		return nil
	}
	if err.Error() == "not_in_channel" {
		return ErrNotAMember
	}
	return fmt.Errorf("slack api call failed: %w", err)
}
