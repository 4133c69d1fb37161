package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ericogr/pikabattle/internal/constants"
	"github.com/ericogr/pikabattle/internal/game"
	"github.com/ericogr/pikabattle/internal/logging"
)

var (
	ErrEmptyDecision    = errors.New("decision source returned no text")
	ErrAlreadyStarted   = errors.New("battle already started")
	ErrMissingCombatant = errors.New("battle needs two combatants")
)

// Run plays the battle to completion: opening narration, stage effects,
// then up to MaxRounds rounds in which First and Second each take one
// turn. A knockout ends the battle immediately. If both combatants are
// still standing after the last round the one with more hit points wins;
// equal hit points is a draw with no winner. Run returns an error only if
// the battle cannot start or ctx is cancelled.
func (b *Battle) Run(ctx context.Context) error {
	s := b.state
	if s.Status != game.StatusNotStarted {
		return ErrAlreadyStarted
	}
	if s.First == nil || s.Second == nil {
		return ErrMissingCombatant
	}
	s.Status = game.StatusInProgress
	logging.Info("battle started", logging.Fields{
		constants.LogFieldBattleID: s.ID, constants.LogFieldStage: s.Stage.Name, "max_rounds": s.MaxRounds,
	})

	b.add(game.LogSystem, s.First.Name+" and "+s.Second.Name+" enter "+s.Stage.Name+". "+s.Stage.Description)
	if b.narrator != nil {
		b.add(game.LogNarration, b.narrator.BattleStart(ctx, s))
	}
	if s.MarkStageApplied() {
		if msg := ApplyStageEffects(s.Stage, s.First, s.Second); msg != "" {
			b.add(game.LogSystem, msg)
		}
	}

	for round := 1; round <= s.MaxRounds; round++ {
		s.Round = round
		b.add(game.LogSystem, "--- Round "+strconv.Itoa(round)+" ---")

		if err := ctx.Err(); err != nil {
			return b.abort(err)
		}
		b.ResolveTurn(ctx, s.First, s.Second)
		if s.Second.IsKnockedOut() {
			b.finish(game.OutcomeKnockout, s.First)
			break
		}

		if err := ctx.Err(); err != nil {
			return b.abort(err)
		}
		b.ResolveTurn(ctx, s.Second, s.First)
		if s.First.IsKnockedOut() {
			b.finish(game.OutcomeKnockout, s.Second)
			break
		}

		if b.narrator != nil && b.sceneEvery > 0 && round%b.sceneEvery == 0 {
			b.add(game.LogNarration, b.narrator.Scene(ctx, s, false))
		}
	}

	if s.Status != game.StatusFinished {
		b.finishOnPoints()
	}
	if b.narrator != nil {
		b.add(game.LogNarration, b.narrator.Scene(ctx, s, true))
	}
	if s.Outcome == game.OutcomeDraw {
		b.add(game.LogSystem, "The battle is over! It ends in a draw.")
	} else {
		b.add(game.LogSystem, "The battle is over! The winner is "+s.Winner)
	}
	logging.Info("battle finished", logging.Fields{
		constants.LogFieldBattleID: s.ID, constants.LogFieldRound: s.Round, "outcome": string(s.Outcome),
		"winner": s.Winner, "first_hp": s.First.HitPoints, "second_hp": s.Second.HitPoints,
	})
	return nil
}

func (b *Battle) finish(outcome game.Outcome, winner *game.Combatant) {
	s := b.state
	s.Status = game.StatusFinished
	s.Outcome = outcome
	if winner != nil {
		s.Winner = winner.Name
	}
	if outcome == game.OutcomeKnockout {
		b.add(game.LogSystem, s.Opponent(winner).Name+" is knocked out!")
	}
}

// finishOnPoints settles a battle that ran out of rounds.
func (b *Battle) finishOnPoints() {
	s := b.state
	switch {
	case s.First.HitPoints > s.Second.HitPoints:
		b.finish(game.OutcomeDecision, s.First)
	case s.Second.HitPoints > s.First.HitPoints:
		b.finish(game.OutcomeDecision, s.Second)
	default:
		b.finish(game.OutcomeDraw, nil)
	}
	b.add(game.LogSystem, "Round limit of "+strconv.Itoa(s.MaxRounds)+" reached.")
}

func (b *Battle) abort(err error) error {
	logging.Warn("battle aborted", err, logging.Fields{constants.LogFieldBattleID: b.state.ID, constants.LogFieldRound: b.state.Round})
	return fmt.Errorf("battle %s aborted in round %d: %w", b.state.ID, b.state.Round, err)
}
