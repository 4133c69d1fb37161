package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ericogr/pikabattle/internal/engine"
	"github.com/ericogr/pikabattle/internal/game"
	"github.com/ericogr/pikabattle/internal/service"
)

type recordingRunner struct {
	req  service.BattleRequest
	runs int
}

func (r *recordingRunner) Run(ctx context.Context, req service.BattleRequest, observer engine.Observer) (*service.BattleResult, error) {
	r.req = req
	r.runs++
	observer(game.LogEntry{Round: 1, Kind: game.LogSystem, Text: "--- Round 1 ---"})
	observer(game.LogEntry{Round: 1, Kind: game.LogSystem, Text: "The battle is over! The winner is Pikachu2"})
	return &service.BattleResult{Winner: "Pikachu2"}, nil
}

type errReader struct{}

func (errReader) Read(p []byte) (int, error) { return 0, errors.New("tty gone") }

func TestRunPromptsAndPrints(t *testing.T) {
	var out bytes.Buffer
	r := &recordingRunner{}
	if err := run(context.Background(), strings.NewReader("  zap them  \nstay calm\n"), &out, r); err != nil {
		t.Fatalf("run: %v", err)
	}
	if r.req.Strategy1 != "zap them" || r.req.Strategy2 != "stay calm" {
		t.Fatalf("strategies: %+v", r.req)
	}
	text := out.String()
	for _, want := range []string{
		"Trainer 1, enter battle strategy for Pikachu1: ",
		"Trainer 2, enter battle strategy for Pikachu2: ",
		"\n--- Round 1 ---\n",
		"The battle is over! The winner is Pikachu2\n",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}

func TestRunEndOfInputUsesDefaults(t *testing.T) {
	r := &recordingRunner{}
	if err := run(context.Background(), strings.NewReader("only one"), &bytes.Buffer{}, r); err != nil {
		t.Fatalf("run: %v", err)
	}
	if r.req.Strategy1 != "only one" || r.req.Strategy2 != "" || r.runs != 1 {
		t.Fatalf("unexpected request: %+v", r.req)
	}
}

func TestRunUnreadableInput(t *testing.T) {
	r := &recordingRunner{}
	if err := run(context.Background(), errReader{}, &bytes.Buffer{}, r); err == nil {
		t.Fatalf("expected read error")
	}
	if r.runs != 0 {
		t.Fatalf("battle must not start")
	}
}

var _ battleRunner = (*service.Runner)(nil)
