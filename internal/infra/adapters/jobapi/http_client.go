// File: internal/infra/adapters/jobapi/http_client.go
package jobapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"spodown-client/internal/domain"
	"spodown-client/internal/domain/model"
	"spodown-client/internal/domain/ports/adapter"
)

var _ adapter.JobServiceAdapter = (*Client)(nil)

// noSuchSession is the server's ad hoc marker for an expired or unknown
// handle. It is normalized into typed outcomes here and must never leak past
// this package.
const noSuchSession = "No such session"

// Client implements the job-service transport against the SpoDown HTTP
// routes.
type Client struct {
	base   string
	client *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) StartDownload(ctx context.Context, req adapter.StartRequest) (string, error) {
	payload := map[string]string{"url": req.Ref, "mode": string(req.Mode)}
	b, _ := json.Marshal(payload)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/download", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("start download: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		SessionID string `json:"session_id"`
		Error     string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("start download: decode response: %w", err)
	}
	if body.SessionID == "" {
		reason := body.Error
		if reason == "" {
			reason = fmt.Sprintf("download not started (status %d)", resp.StatusCode)
		}
		return "", &adapter.ServerError{Reason: reason}
	}
	return body.SessionID, nil
}

func (c *Client) PollProgress(ctx context.Context, sessionID string) (adapter.ProgressSample, error) {
	resp, err := c.get(ctx, "/download-progress", url.Values{"session_id": {sessionID}})
	if err != nil {
		return adapter.ProgressSample{}, fmt.Errorf("poll progress: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return adapter.ProgressSample{Status: adapter.PollUnknown}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return adapter.ProgressSample{}, fmt.Errorf("poll progress: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Percentage int  `json:"percentage"`
		Complete   bool `json:"download_complete"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return adapter.ProgressSample{}, fmt.Errorf("poll progress: decode response: %w", err)
	}
	if body.Complete {
		return adapter.ProgressSample{Status: adapter.PollComplete, Percentage: 100}, nil
	}
	return adapter.ProgressSample{Status: adapter.PollProgress, Percentage: body.Percentage}, nil
}

func (c *Client) FetchOutput(ctx context.Context, sessionID string) (string, bool, error) {
	resp, err := c.get(ctx, "/output", url.Values{"session_id": {sessionID}})
	if err != nil {
		return "", false, fmt.Errorf("fetch output: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("fetch output: read body: %w", err)
	}
	text := string(raw)
	if resp.StatusCode == http.StatusNotFound || text == noSuchSession {
		return "", false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("fetch output: unexpected status %d", resp.StatusCode)
	}
	return text, true, nil
}

func (c *Client) ListItems(ctx context.Context, sessionID string) ([]string, error) {
	resp, err := c.get(ctx, "/tracks", url.Values{"session_id": {sessionID}})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrUnknownSession
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list items: unexpected status %d", resp.StatusCode)
	}
	var items []string
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("list items: decode response: %w", err)
	}
	return items, nil
}

func (c *Client) ItemURL(sessionID, item string) string {
	return c.base + "/download/" + url.PathEscape(sessionID) + "/" + url.PathEscape(item)
}

func (c *Client) ArchiveURL(sessionID string) string {
	return c.base + "/download/" + url.PathEscape(sessionID)
}

func (c *Client) Cancel(ctx context.Context, sessionID string) error {
	u := c.base + "/cancel-download?" + url.Values{"session_id": {sessionID}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("cancel: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrUnknownSession
	}
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("cancel: decode response: %w", err)
	}
	if !body.Success {
		reason := body.Error
		if reason == "" {
			reason = "cancel rejected"
		}
		return &adapter.ServerError{Reason: reason}
	}
	return nil
}

func (c *Client) ListMessages(ctx context.Context) (model.ChatFeed, error) {
	resp, err := c.get(ctx, "/chat/messages", nil)
	if err != nil {
		return model.ChatFeed{}, fmt.Errorf("list messages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.ChatFeed{}, fmt.Errorf("list messages: unexpected status %d", resp.StatusCode)
	}
	var body struct {
		Success       bool          `json:"success"`
		Messages      []wireMessage `json:"messages"`
		CurrentUserID string        `json:"current_user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.ChatFeed{}, fmt.Errorf("list messages: decode response: %w", err)
	}

	feed := model.ChatFeed{CurrentUserID: body.CurrentUserID}
	feed.Messages = make([]model.ChatMessage, 0, len(body.Messages))
	for _, m := range body.Messages {
		feed.Messages = append(feed.Messages, m.toModel())
	}
	return feed, nil
}

func (c *Client) SendMessage(ctx context.Context, text string) error {
	b, _ := json.Marshal(map[string]string{"message": text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/chat/send", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("send message: decode response: %w", err)
	}
	if !body.Success {
		reason := body.Error
		if reason == "" {
			reason = "message rejected"
		}
		return &adapter.ServerError{Reason: reason}
	}
	return nil
}

func (c *Client) SearchTracks(ctx context.Context, query string) ([]model.TrackHit, error) {
	resp, err := c.get(ctx, "/api/search", url.Values{"q": {query}, "type": {"track"}})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: unexpected status %d", resp.StatusCode)
	}
	var body struct {
		Success bool `json:"success"`
		Results []struct {
			Name       string `json:"name"`
			Artists    string `json:"artists"`
			ImageURL   string `json:"image_url"`
			SpotifyURL string `json:"spotify_url"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}
	hits := make([]model.TrackHit, 0, len(body.Results))
	for _, r := range body.Results {
		hits = append(hits, model.TrackHit{
			Name:       r.Name,
			Artists:    r.Artists,
			ImageURL:   r.ImageURL,
			SpotifyURL: r.SpotifyURL,
		})
	}
	return hits, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (*http.Response, error) {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) && uerr.Timeout() {
			return nil, fmt.Errorf("timeout: %w", err)
		}
		return nil, err
	}
	return resp, nil
}

// wireMessage mirrors the server's message shape.
type wireMessage struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	ProfileImage string `json:"profile_image"`
	Text         string `json:"text"`
	MediaFile    string `json:"media_file"`
	MediaType    string `json:"media_type"`
	Timestamp    string `json:"timestamp"`
}

func (m wireMessage) toModel() model.ChatMessage {
	msg := model.ChatMessage{
		SenderID:  m.UserID,
		Username:  m.Username,
		AvatarRef: m.ProfileImage,
		Text:      m.Text,
	}
	if m.MediaFile != "" && m.MediaType != "" {
		msg.Media = &model.ChatMedia{Kind: model.MediaKind(m.MediaType), Ref: m.MediaFile}
	}
	if ts, err := time.Parse(time.RFC3339, m.Timestamp); err == nil {
		msg.SentAt = ts
	}
	return msg
}
