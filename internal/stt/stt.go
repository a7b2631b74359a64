// Package stt forwards recorded audio to an OpenAI-compatible
// speech-to-text endpoint. The proxy is stateless: audio in, text out.
// Upstream timeouts and upstream rejections are distinct error classes, and
// upstream error bodies are never passed through to callers.
package stt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	foxerrors "github.com/foxerapp/foxer/internal/errors"
)

// Client calls the upstream transcription API.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	maxBytes int
	timeout  time.Duration
	http     *http.Client
}

// NewClient creates a transcription client.
func NewClient(endpoint, apiKey, model string, maxBytes int, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		maxBytes: maxBytes,
		timeout:  timeout,
		http:     &http.Client{},
	}
}

// SetHTTPClient replaces the underlying HTTP client (tests).
func (c *Client) SetHTTPClient(h *http.Client) {
	c.http = h
}

// Transcribe sends audio bytes upstream and returns the recognized text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", foxerrors.NewInvalidRequest("audio payload is empty")
	}
	if c.maxBytes > 0 && len(audio) > c.maxBytes {
		return "", foxerrors.NewPayloadTooLarge(c.maxBytes, len(audio))
	}
	if mimeType == "" {
		mimeType = "audio/webm"
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "voice.webm")
	if err != nil {
		return "", foxerrors.NewInternal(err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", foxerrors.NewInternal(err)
	}
	_ = form.WriteField("model", c.model)
	_ = form.WriteField("response_format", "text")
	if err := form.Close(); err != nil {
		return "", foxerrors.NewInternal(err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", foxerrors.NewInternal(err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", foxerrors.NewUpstreamTimeout()
		}
		return "", foxerrors.NewUpstreamFailed(0)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", foxerrors.NewUpstreamFailed(resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", foxerrors.NewUpstreamFailed(resp.StatusCode)
	}

	return strings.TrimSpace(string(raw)), nil
}
