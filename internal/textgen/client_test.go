package textgen

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

const okBody = `{"choices":[{"message":{"content":"  I choose Thunder Shock!  "}}]}`

func TestClientGenerateSendsChatRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization = %q", got)
		}
		var body chatRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.Model != "gpt-4o" || len(body.Messages) != 2 || body.Messages[0].Role != "system" || body.MaxTokens != 500 {
			t.Errorf("unexpected body: %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, okBody)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL + "/", APIKey: "sk-test", RequireKey: true})
	got, err := c.Generate(context.Background(), Request{Model: "gpt-4o", System: "sys", User: "pick", MaxTokens: 500, Temperature: 0.7})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "I choose Thunder Shock!" {
		t.Fatalf("got %q", got)
	}
}

func TestClientRequiresKey(t *testing.T) {
	c := NewClient(ClientConfig{RequireKey: true})
	if _, err := c.Generate(context.Background(), Request{User: "x"}); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestClientLocalProviderOmitsAuthorization(t *testing.T) {
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected authorization header")
		}
		return jsonResponse(http.StatusOK, okBody), nil
	})}
	c := NewClient(ClientConfig{BaseURL: "http://localhost:11434", HTTPClient: hc})
	if _, err := c.Generate(context.Background(), Request{User: "x"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls int32
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		switch atomic.AddInt32(&calls, 1) {
		case 1:
			return jsonResponse(http.StatusTooManyRequests, `{"error":"slow down"}`), nil
		case 2:
			return jsonResponse(http.StatusBadGateway, `oops`), nil
		default:
			return jsonResponse(http.StatusOK, okBody), nil
		}
	})}
	c := NewClient(ClientConfig{HTTPClient: hc, Retries: 2, InitialBackoff: time.Millisecond})
	got, err := c.Generate(context.Background(), Request{User: "x"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got == "" || atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("got %q after %d calls", got, calls)
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return jsonResponse(http.StatusUnauthorized, `bad key`), nil
	})}
	c := NewClient(ClientConfig{HTTPClient: hc, Retries: 3, InitialBackoff: time.Millisecond})
	_, err := c.Generate(context.Background(), Request{User: "x"})
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 status error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
}

func TestClientGivesUpAfterRetries(t *testing.T) {
	var calls int32
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("connection refused")
	})}
	c := NewClient(ClientConfig{HTTPClient: hc, Retries: 1, InitialBackoff: time.Millisecond})
	if _, err := c.Generate(context.Background(), Request{User: "x"}); err == nil {
		t.Fatalf("expected error")
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected two calls, got %d", calls)
	}
}

func TestClientEmptyChoices(t *testing.T) {
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"choices":[]}`), nil
	})}
	c := NewClient(ClientConfig{HTTPClient: hc, Retries: 2, InitialBackoff: time.Millisecond})
	if _, err := c.Generate(context.Background(), Request{User: "x"}); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestStubReplaysAndRecords(t *testing.T) {
	s := &Stub{Replies: []string{"a", "b"}}
	ctx := context.Background()
	for _, want := range []string{"a", "b", "b"} {
		got, err := s.Generate(ctx, Request{User: want})
		if err != nil || got != want {
			t.Fatalf("got %q/%v want %q", got, err, want)
		}
	}
	if len(s.Requests()) != 3 {
		t.Fatalf("expected 3 recorded requests")
	}
}
