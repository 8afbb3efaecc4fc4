package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultAPIBase = "https://discord.com/api/v10"

// DiscordNotifier implements Notifier by posting channel messages through
// the Discord REST API with a bot token.
type DiscordNotifier struct {
	token   string
	apiBase string
	client  *http.Client
}

// NewDiscordNotifier creates a DiscordNotifier authenticating with the
// given bot token.
func NewDiscordNotifier(token string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		token:   token,
		apiBase: defaultAPIBase,
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// WithAPIBase overrides the Discord API base URL. Used in tests.
func WithAPIBase(base string) DiscordOption {
	return func(d *DiscordNotifier) {
		d.apiBase = base
	}
}

type channelMessage struct {
	Content string `json:"content"`
}

// Send posts text as a message to the given channel.
func (d *DiscordNotifier) Send(ctx context.Context, channelID, text string) error {
	body, err := json.Marshal(channelMessage{Content: text})
	if err != nil {
		return fmt.Errorf("marshaling discord message: %w", err)
	}

	url := fmt.Sprintf("%s/channels/%s/messages", d.apiBase, channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bot "+d.token)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
