package narration

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ericogr/pikabattle/internal/engine"
	"github.com/ericogr/pikabattle/internal/game"
	"github.com/ericogr/pikabattle/internal/logging"
	"github.com/ericogr/pikabattle/internal/storage"
	"github.com/ericogr/pikabattle/internal/textgen"
)

var _ engine.Narrator = (*Narrator)(nil)

type memRepo struct {
	mu    sync.Mutex
	rows  map[string]game.GeneratedNarration
	saves int
}

func newMemRepo() *memRepo { return &memRepo{rows: map[string]game.GeneratedNarration{}} }

func (m *memRepo) GetNarrationByKey(key string) (*game.GeneratedNarration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &r, nil
}

func (m *memRepo) SaveNarration(key, kind, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.rows[key] = game.GeneratedNarration{NarrationKey: key, Kind: kind, Text: text}
	return nil
}

func testState(stage int) *game.BattleState {
	a, b := game.DefaultRoster("", "")
	return game.NewBattleState("b1", a, b, game.Stages()[stage], 0)
}

func TestSceneRendersSnapshotPrompt(t *testing.T) {
	stub := &textgen.Stub{Replies: []string{"Sparks fly."}}
	n := New(Config{Generator: stub})
	s := testState(0)
	s.Round = 5
	s.Second.ApplyDamage(120)

	if got := n.Scene(context.Background(), s, false); got != "Sparks fly." {
		t.Fatalf("got %q", got)
	}
	req := stub.Requests()[0]
	if req.Model != "gpt-3.5-turbo" || !strings.Contains(req.System, "visual descriptor") {
		t.Fatalf("request: %+v", req)
	}
	want := "It's round 5, and Pikachu1 is leading with 120 more HP than Pikachu2."
	if !strings.Contains(req.User, want) || !strings.Contains(req.User, "Thunder Plateau") {
		t.Fatalf("user prompt %q", req.User)
	}
}

func TestFinalSceneUsesFinalTemplate(t *testing.T) {
	stub := &textgen.Stub{Replies: []string{"It is over."}}
	n := New(Config{Generator: stub, Templates: Templates{Final: "{{leader}} beat {{trailer}} by {{diff}} on {{stage}}"}})
	s := testState(1)
	s.First.ApplyDamage(30)
	n.Scene(context.Background(), s, true)
	if got := stub.Requests()[0].User; got != "Pikachu2 beat Pikachu1 by 30 on Mud Swamp" {
		t.Fatalf("got %q", got)
	}
}

func TestFinalSceneOnDrawUsesDrawTemplate(t *testing.T) {
	stub := &textgen.Stub{Replies: []string{"Neither yields."}}
	n := New(Config{Generator: stub})
	s := testState(0)
	s.Round = 50
	s.Status = game.StatusFinished
	s.Outcome = game.OutcomeDraw

	n.Scene(context.Background(), s, true)
	got := stub.Requests()[0].User
	if strings.Contains(got, "has won") || !strings.Contains(got, "ends in a draw") {
		t.Fatalf("draw prompt: %q", got)
	}
	if !strings.Contains(got, "Pikachu1 and Pikachu2") {
		t.Fatalf("draw prompt should name both combatants: %q", got)
	}

	custom := &textgen.Stub{Replies: []string{"x"}}
	New(Config{Generator: custom, Templates: Templates{Draw: "{{first}} ties {{second}}"}}).Scene(context.Background(), s, true)
	if got := custom.Requests()[0].User; got != "Pikachu1 ties Pikachu2" {
		t.Fatalf("custom draw template: %q", got)
	}
}

func TestSceneFallbackOnFailure(t *testing.T) {
	n := New(Config{Generator: &textgen.Stub{Err: errors.New("offline")}})
	s := testState(2)
	s.Second.ApplyDamage(10)
	want := "The battle rages on at Windy Valley! Pikachu1 seems to have the upper hand, but Pikachu2 is not giving up!"
	if got := n.Scene(context.Background(), s, false); got != want {
		t.Fatalf("got %q", got)
	}
	if got := New(Config{}).Scene(context.Background(), s, true); got != want {
		t.Fatalf("nil generator: got %q", got)
	}
}

func TestBattleStartCachesByKey(t *testing.T) {
	repo := newMemRepo()
	stub := &textgen.Stub{Replies: []string{"They step onto the plateau.", "unused"}}
	n := New(Config{Generator: stub, Repo: repo})

	first := n.BattleStart(context.Background(), testState(0))
	second := n.BattleStart(context.Background(), testState(0))
	if first != "They step onto the plateau." || second != first {
		t.Fatalf("got %q then %q", first, second)
	}
	if len(stub.Requests()) != 1 || repo.saves != 1 {
		t.Fatalf("expected one generation and one save, got %d/%d", len(stub.Requests()), repo.saves)
	}
	req := stub.Requests()[0]
	if req.Model != "gpt-4o-mini" || !strings.Contains(req.User, "walk onto the battle stage named 'Thunder Plateau'") {
		t.Fatalf("request: %+v", req)
	}
}

func TestBattleStartFailureIsNotCached(t *testing.T) {
	repo := newMemRepo()
	n := New(Config{Generator: &textgen.Stub{Err: errors.New("down")}, Repo: repo})
	got := n.BattleStart(context.Background(), testState(1))
	if !strings.HasPrefix(got, "The battle rages on at Mud Swamp!") {
		t.Fatalf("got %q", got)
	}
	if repo.saves != 0 {
		t.Fatalf("fallback must not be cached")
	}
}

func TestBattleStartConcurrentCallersShareGeneration(t *testing.T) {
	repo := newMemRepo()
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	gen := textgen.GeneratorFunc(func(ctx context.Context, req textgen.Request) (string, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return "Together at last.", nil
	})
	n := New(Config{Generator: gen, Repo: repo})

	var wg sync.WaitGroup
	results := make([]string, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = n.BattleStart(context.Background(), testState(2))
		}(i)
	}
	close(release)
	wg.Wait()

	for _, r := range results {
		if r != "Together at last." {
			t.Fatalf("unexpected result %q", r)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if calls < 1 || repo.saves != calls {
		t.Fatalf("calls=%d saves=%d", calls, repo.saves)
	}
}

type failingSaveRepo struct {
	*memRepo
}

func (failingSaveRepo) SaveNarration(key, kind, text string) error {
	return errors.New("disk full")
}

// lineWriter forwards each log line to a channel.
type lineWriter struct {
	lines chan string
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.lines <- string(p)
	return len(p), nil
}

func TestBattleStartCancelledWhileSaveFails(t *testing.T) {
	w := &lineWriter{lines: make(chan string, 16)}
	logging.SetOutput(w)
	defer logging.SetOutput(os.Stderr)

	release := make(chan struct{})
	gen := textgen.GeneratorFunc(func(ctx context.Context, req textgen.Request) (string, error) {
		<-release
		return "Late arrival.", nil
	})
	n := New(Config{Generator: gen, Repo: failingSaveRepo{newMemRepo()}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := testState(0)
	s.ID = "cancelled-battle"
	s.First.Name = "Sparky"
	if got := n.BattleStart(ctx, s); got != Fallback(s) {
		t.Fatalf("expected fallback, got %q", got)
	}
	close(release)

	for {
		select {
		case line := <-w.lines:
			if !strings.Contains(line, "failed to save start narration") {
				continue
			}
			var entry map[string]interface{}
			if err := json.Unmarshal([]byte(line), &entry); err != nil {
				t.Fatalf("decode %q: %v", line, err)
			}
			if entry["level"] != "error" || entry["error"] != "disk full" || entry["battle_id"] != "cancelled-battle" {
				t.Fatalf("unexpected save failure entry: %v", entry)
			}
			return
		case <-time.After(5 * time.Second):
			t.Fatalf("save failure was never logged")
		}
	}
}
