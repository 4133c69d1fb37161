// Package agent turns a combatant's strategy into a move choice by asking a
// text generator.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ericogr/pikabattle/internal/constants"
	"github.com/ericogr/pikabattle/internal/game"
	"github.com/ericogr/pikabattle/internal/logging"
	"github.com/ericogr/pikabattle/internal/textgen"
)

// ErrNoDecision wraps every failure to obtain usable text.
var ErrNoDecision = errors.New("no decision")

const defaultSystemPrompt = "You are {{name}}, a Pikachu with stats {{stats}}. Your battle strategy is: '{{strategy}}'. Your available moves are: {{moves}}."

// LLMDecider asks a Generator which move to use.
type LLMDecider struct {
	gen         textgen.Generator
	model       string
	template    string
	maxTokens   int
	temperature float64
}

// NewLLMDecider builds a decider calling gen with model. An empty template
// uses the built-in system prompt.
func NewLLMDecider(gen textgen.Generator, model, template string) *LLMDecider {
	if strings.TrimSpace(template) == "" {
		template = defaultSystemPrompt
	}
	if model == "" {
		model = constants.OpenAIDecisionModel
	}
	return &LLMDecider{
		gen:         gen,
		model:       model,
		template:    template,
		maxTokens:   constants.DefaultMaxTokens,
		temperature: constants.DefaultTemperature,
	}
}

// SystemPrompt renders the combatant's persona, with trainer guidance
// appended when present.
func (d *LLMDecider) SystemPrompt(self *game.Combatant) string {
	r := strings.NewReplacer(
		"{{name}}", self.Name,
		"{{stats}}", self.Stats.String(),
		"{{strategy}}", self.Strategy,
		"{{moves}}", strings.Join(self.Moves, ", "),
	)
	out := r.Replace(d.template)
	if g := strings.TrimSpace(self.Guidance); g != "" {
		out += " Your trainer's guidance: " + g
	}
	return out
}

// UserPrompt renders the per-turn question.
func UserPrompt(snap game.Snapshot) string {
	return "Based on the current game state: " + snap.String() + ", choose one of your available moves to use."
}

// Decide implements engine.Decider.
func (d *LLMDecider) Decide(ctx context.Context, self *game.Combatant, snap game.Snapshot) (string, error) {
	if d.gen == nil {
		return "", fmt.Errorf("%w: no generator", ErrNoDecision)
	}
	text, err := d.gen.Generate(ctx, textgen.Request{
		Model:       d.model,
		System:      d.SystemPrompt(self),
		User:        UserPrompt(snap),
		MaxTokens:   d.maxTokens,
		Temperature: d.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w for %s: %v", ErrNoDecision, self.Name, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w for %s: empty reply", ErrNoDecision, self.Name)
	}
	logging.Debug("decision received", logging.Fields{
		constants.LogFieldCombatant: self.Name, constants.LogFieldRound: snap.Round, constants.LogFieldModel: d.model,
	})
	return text, nil
}
