// Package textgen is the text generation capability used for decisions and
// narration. Generator is the seam: the OpenAI-compatible Client talks to a
// chat completions endpoint, Stub answers deterministically.
package textgen

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNoAPIKey      = errors.New("api key not set")
	ErrEmptyResponse = errors.New("empty response from model")
	ErrEmptyPrompt   = errors.New("prompt is required")
)

// Request is a single chat exchange: one system message, one user message.
type Request struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Generator turns a prompt into free text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Stub is a deterministic Generator. It replays Replies in order (the last
// reply repeats once the list is exhausted) unless Respond is set, in which
// case Respond decides. Err, when set, is returned for every call.
type Stub struct {
	Replies []string
	Respond func(req Request) (string, error)
	Err     error

	mu       sync.Mutex
	requests []Request
}

func (s *Stub) Generate(ctx context.Context, req Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.requests)
	s.requests = append(s.requests, req)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Err != nil {
		return "", s.Err
	}
	if s.Respond != nil {
		return s.Respond(req)
	}
	if len(s.Replies) == 0 {
		return "", ErrEmptyResponse
	}
	if n >= len(s.Replies) {
		n = len(s.Replies) - 1
	}
	return s.Replies[n], nil
}

// Requests returns a copy of every request the stub has received.
func (s *Stub) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}
