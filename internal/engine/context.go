package engine

import (
	"context"

	"github.com/ericogr/pikabattle/internal/game"
)

// Decider is the decision source: given the acting combatant and a
// snapshot it returns free text naming a move. Errors and empty text are
// tolerated; the engine falls back to a random move.
type Decider interface {
	Decide(ctx context.Context, self *game.Combatant, snap game.Snapshot) (string, error)
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func(ctx context.Context, self *game.Combatant, snap game.Snapshot) (string, error)

func (f DeciderFunc) Decide(ctx context.Context, self *game.Combatant, snap game.Snapshot) (string, error) {
	return f(ctx, self, snap)
}

// Narrator is the narration source. Implementations never fail: they
// substitute canned text themselves.
type Narrator interface {
	BattleStart(ctx context.Context, s *game.BattleState) string
	Scene(ctx context.Context, s *game.BattleState, final bool) string
}

// Observer receives every log entry as it is appended.
type Observer func(game.LogEntry)

// Options configures a Battle.
type Options struct {
	Roller   Roller
	Decider  Decider
	Narrator Narrator
	// SceneEvery requests a scene description after every Nth round. Zero
	// means every 5 rounds; negative disables periodic scenes.
	SceneEvery int
}

// --- Battle context and helpers ----------------------------------------
type Battle struct {
	state      *game.BattleState
	roller     Roller
	decider    Decider
	narrator   Narrator
	sceneEvery int
	observers  []Observer
}

// NewBattle wires a battle state to its collaborators. A nil Roller uses a
// randomly seeded one; a nil Decider always yields random moves; a nil
// Narrator skips narration.
func NewBattle(state *game.BattleState, opts Options) *Battle {
	r := opts.Roller
	if r == nil {
		seed, err := NewSeed()
		if err != nil {
			seed = 1
		}
		r = NewRoller(seed)
	}
	every := opts.SceneEvery
	if every == 0 {
		every = 5
	}
	return &Battle{
		state:      state,
		roller:     r,
		decider:    opts.Decider,
		narrator:   opts.Narrator,
		sceneEvery: every,
	}
}

// OnEvent registers an observer for log entries.
func (b *Battle) OnEvent(o Observer) {
	if o != nil {
		b.observers = append(b.observers, o)
	}
}

// State returns the battle state owned by b.
func (b *Battle) State() *game.BattleState { return b.state }

func (b *Battle) add(kind game.LogKind, msg string) {
	e := b.state.Append(kind, msg)
	for _, o := range b.observers {
		o(e)
	}
}
