package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ericogr/pikabattle/internal/config"
	"github.com/ericogr/pikabattle/internal/constants"
	"github.com/ericogr/pikabattle/internal/engine"
	"github.com/ericogr/pikabattle/internal/game"
	"github.com/ericogr/pikabattle/internal/logging"
)

var ErrInvalidMaxRounds = errors.New("max rounds must be between 1 and 500")

// BattleRequest describes one battle between the default roster.
type BattleRequest struct {
	Strategy1 string `json:"strategy1"`
	Strategy2 string `json:"strategy2"`
	Guidance1 string `json:"guidance1,omitempty"`
	Guidance2 string `json:"guidance2,omitempty"`
	// Seed fixes dice and stage selection. Zero defers to the runner.
	Seed int64 `json:"seed,omitempty"`
	// MaxRounds overrides the runner's cap when positive.
	MaxRounds int `json:"max_rounds,omitempty"`
}

// BattleResult is the outcome of a finished battle.
type BattleResult struct {
	ID        string          `json:"id"`
	Stage     string          `json:"stage"`
	Status    game.Status     `json:"status"`
	Outcome   game.Outcome    `json:"outcome"`
	Winner    string          `json:"winner,omitempty"`
	Rounds    int             `json:"rounds"`
	HitPoints map[string]int  `json:"hit_points"`
	Log       []game.LogEntry `json:"log"`
}

// Runner assembles and runs battles with shared decision and narration
// sources.
type Runner struct {
	Decider  engine.Decider
	Narrator engine.Narrator
	// Guidance maps combatant names to trainer guidance from the config
	// file. Request guidance takes precedence.
	Guidance  map[string]string
	MaxRounds int
	// Seed is used when a request has none. Zero picks a random seed per
	// battle.
	Seed int64
}

func (r *Runner) seed(req BattleRequest) (int64, error) {
	if req.Seed != 0 {
		return req.Seed, nil
	}
	if r.Seed != 0 {
		return r.Seed, nil
	}
	return engine.NewSeed()
}

func (r *Runner) maxRounds(req BattleRequest) (int, error) {
	n := r.MaxRounds
	if req.MaxRounds != 0 {
		n = req.MaxRounds
	}
	if n == 0 {
		n = game.DefaultMaxRounds
	}
	if n < 1 || n > config.MaxRoundsLimit {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidMaxRounds, n)
	}
	return n, nil
}

func pickGuidance(explicit string, fromConfig map[string]string, name string) string {
	if g := strings.TrimSpace(explicit); g != "" {
		return g
	}
	return fromConfig[name]
}

// ChooseStage picks a stage uniformly with r.
func ChooseStage(r engine.Roller) game.Stage {
	stages := game.Stages()
	return stages[r.Roll(len(stages))-1]
}

// NewBattle validates req and builds a battle that has not started yet.
func (r *Runner) NewBattle(req BattleRequest) (*engine.Battle, error) {
	rounds, err := r.maxRounds(req)
	if err != nil {
		return nil, err
	}
	seed, err := r.seed(req)
	if err != nil {
		return nil, fmt.Errorf("seed battle: %w", err)
	}
	roller := engine.NewRoller(seed)

	a, b := game.DefaultRoster(req.Strategy1, req.Strategy2)
	a.Guidance = pickGuidance(req.Guidance1, r.Guidance, a.Name)
	b.Guidance = pickGuidance(req.Guidance2, r.Guidance, b.Name)

	state := game.NewBattleState(uuid.NewString(), a, b, ChooseStage(roller), rounds)
	logging.Debug("battle assembled", logging.Fields{
		constants.LogFieldBattleID: state.ID, constants.LogFieldStage: state.Stage.Name, "seed": seed,
	})
	return engine.NewBattle(state, engine.Options{
		Roller:   roller,
		Decider:  r.Decider,
		Narrator: r.Narrator,
	}), nil
}

// Run builds and plays one battle. Observer, if not nil, receives each
// log entry as it happens.
func (r *Runner) Run(ctx context.Context, req BattleRequest, observer engine.Observer) (*BattleResult, error) {
	b, err := r.NewBattle(req)
	if err != nil {
		return nil, err
	}
	b.OnEvent(observer)
	runErr := b.Run(ctx)
	return Result(b.State()), runErr
}

// Result summarizes s.
func Result(s *game.BattleState) *BattleResult {
	res := &BattleResult{
		ID:      s.ID,
		Stage:   s.Stage.Name,
		Status:  s.Status,
		Outcome: s.Outcome,
		Winner:  s.Winner,
		Rounds:  s.Round,
		HitPoints: map[string]int{
			s.First.Name:  s.First.HitPoints,
			s.Second.Name: s.Second.HitPoints,
		},
		Log: append([]game.LogEntry(nil), s.Log...),
	}
	return res
}
