package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ParseMode selects the inline-markup mode for outgoing messages.
type ParseMode string

const ParseModeHTML ParseMode = "HTML"

const telegramAPIURL = "https://api.telegram.org"

// Client posts messages to one fixed Telegram chat. Errors are
// returned, never panicked; callers treat a failed send as non-fatal
// and move on. One attempt per call — retry policy, if any, belongs to
// the caller.
type Client struct {
	apiURL     string
	token      string
	chatID     string
	httpClient *http.Client
}

func NewClient(httpClient *http.Client, token, chatID string) *Client {
	return &Client{
		apiURL:     telegramAPIURL,
		token:      token,
		chatID:     chatID,
		httpClient: httpClient,
	}
}

// InputMediaPhoto mirrors the Bot API media-group entry.
type InputMediaPhoto struct {
	Type      string `json:"type"`
	Media     string `json:"media"`
	Caption   string `json:"caption,omitempty"`
	ParseMode string `json:"parse_mode,omitempty"`
}

func (c *Client) SendMessage(ctx context.Context, text string, mode ParseMode) error {
	payload := map[string]any{
		"chat_id":                  c.chatID,
		"text":                     text,
		"parse_mode":               string(mode),
		"disable_web_page_preview": false,
	}
	return c.post(ctx, "sendMessage", payload)
}

func (c *Client) SendMediaGroup(ctx context.Context, media []InputMediaPhoto) error {
	payload := map[string]any{
		"chat_id": c.chatID,
		"media":   media,
	}
	return c.post(ctx, "sendMediaGroup", payload)
}

func (c *Client) post(ctx context.Context, method string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", c.apiURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	data, _ := io.ReadAll(resp.Body)
	var apiError struct {
		Description string `json:"description"`
	}
	if json.Unmarshal(data, &apiError) == nil && apiError.Description != "" {
		return fmt.Errorf("%s failed: %s (HTTP %d)", method, apiError.Description, resp.StatusCode)
	}
	return fmt.Errorf("%s failed: HTTP %d", method, resp.StatusCode)
}
