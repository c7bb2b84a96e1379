// Package genai calls the remote text-generation endpoint.
package genai

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
)

// DefaultEndpoint is the generateContent URL used when none is configured.
const DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash-preview-05-20:generateContent"

var (
	// ErrTransport wraps failures to reach the endpoint or read its reply.
	ErrTransport = errors.New("generator transport failure")
	// ErrNoText reports a reply without a generated text field.
	ErrNoText = errors.New("generator returned no text")
)

// Config describes how to reach the endpoint.
type Config struct {
	Endpoint   string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client issues generateContent requests.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// New builds a client. A zero Timeout leaves the transport default in place.
func New(cfg Config) *Client {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		client:   pickHTTPClient(cfg.HTTPClient, cfg.Timeout),
	}
}

func pickHTTPClient(custom *http.Client, timeout time.Duration) *http.Client {
	if custom != nil {
		return custom
	}
	return &http.Client{Timeout: timeout}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction content   `json:"systemInstruction"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate sends one request transforming text under the system instruction
// and returns the first candidate's text. There are no retries.
func (c *Client) Generate(ctx context.Context, system, text string) (string, error) {
	payload := generateRequest{
		Contents:          []content{{Parts: []part{{Text: text}}}},
		SystemInstruction: content{Parts: []part{{Text: system}}},
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.requestURL(), bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return extractText(resp.Status, body)
}

func extractText(status string, body []byte) (string, error) {
	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: %s: undecodable reply: %v", ErrNoText, status, err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoText, status)
	}
	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("%w: %s: empty text", ErrNoText, status)
	}
	return text, nil
}

func (c *Client) requestURL() string {
	sep := "?"
	if strings.Contains(c.endpoint, "?") {
		sep = "&"
	}
	return c.endpoint + sep + "key=" + url.QueryEscape(c.apiKey)
}
