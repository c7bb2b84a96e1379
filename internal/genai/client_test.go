package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateSendsRequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if got := r.URL.Query().Get("key"); got != "secret" {
			t.Errorf("expected key param, got %q", got)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}
		var payload struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
			SystemInstruction struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"systemInstruction"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		if len(payload.Contents) != 1 || payload.Contents[0].Parts[0].Text != "Backend engineer, 5 years." {
			t.Errorf("unexpected contents: %+v", payload.Contents)
		}
		if payload.SystemInstruction.Parts[0].Text != "be a coach" {
			t.Errorf("unexpected system instruction: %+v", payload.SystemInstruction)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Results-driven backend engineer with five years..."}]}}]}`))
	}))
	defer server.Close()

	client := New(Config{Endpoint: server.URL, APIKey: "secret", HTTPClient: server.Client()})
	text, err := client.Generate(context.Background(), "be a coach", "Backend engineer, 5 years.")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if text != "Results-driven backend engineer with five years..." {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestGenerateMissingText(t *testing.T) {
	for _, body := range []string{`{}`, `{"candidates":[]}`, `{"candidates":[{"content":{"parts":[]}}]}`, `not json`, `{"error":{"code":400}}`} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		client := New(Config{Endpoint: server.URL, HTTPClient: server.Client()})
		_, err := client.Generate(context.Background(), "sys", "x")
		server.Close()
		if !errors.Is(err, ErrNoText) {
			t.Fatalf("%s: expected ErrNoText, got %v", body, err)
		}
	}
}

func TestGenerateTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client := New(Config{Endpoint: endpoint})
	_, err := client.Generate(context.Background(), "sys", "x")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestRequestURLKeepsExistingQuery(t *testing.T) {
	c := New(Config{Endpoint: "http://host/gen?alt=json", APIKey: "a b"})
	if got := c.requestURL(); got != "http://host/gen?alt=json&key=a+b" {
		t.Fatalf("unexpected url: %s", got)
	}
	c = New(Config{})
	if got := c.requestURL(); got != DefaultEndpoint+"?key=" {
		t.Fatalf("unexpected default url: %s", got)
	}
}
