package narration

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ericogr/pikabattle/internal/constants"
	"github.com/ericogr/pikabattle/internal/dedupe"
	"github.com/ericogr/pikabattle/internal/game"
	"github.com/ericogr/pikabattle/internal/keys"
	"github.com/ericogr/pikabattle/internal/logging"
	"github.com/ericogr/pikabattle/internal/storage"
	"github.com/ericogr/pikabattle/internal/textgen"
)

const (
	KindStart = "start"
	KindScene = "scene"
	KindFinal = "final"
)

const (
	gameMasterSystem = "You are the Game Master narrating a Pokémon battle."
	descriptorSystem = "You are a visual descriptor for Pokémon battles. Provide vivid, concise descriptions of battle scenes."

	defaultStartPrompt = "Narrate the scene where {{first}} and {{second}} walk onto the battle stage named '{{stage}}', which has the effect: {{effect}}."
	defaultScenePrompt = "Describe a snapshot of an ongoing Pokémon battle between two Pikachus on {{stage}}. It's round {{round}}, and {{leader}} is leading with {{diff}} more HP than {{trailer}}. The stage effect is: {{effect}}."
	defaultFinalPrompt = "Describe the final scene of an intense Pokémon battle between two Pikachus on {{stage}}. {{leader}} has won with {{diff}} more HP than {{trailer}}. The stage effect is: {{effect}}."
	defaultDrawPrompt  = "Describe the final scene of an intense Pokémon battle between two Pikachus on {{stage}}. {{first}} and {{second}} are both still standing with equal HP, and the battle ends in a draw. The stage effect is: {{effect}}."
)

// Templates overrides the built-in prompts. Empty fields keep the default.
type Templates struct {
	Start string
	Scene string
	Final string
	// Draw replaces Final when the battle ended without a winner.
	Draw string
}

// Config wires a Narrator.
type Config struct {
	Generator textgen.Generator
	// Repo caches start narrations. Nil disables the cache.
	Repo       storage.Repository
	StartModel string
	SceneModel string
	Templates  Templates
}

// Narrator produces battle narration. It never fails: any generation
// error is logged and replaced by a canned line.
type Narrator struct {
	gen        textgen.Generator
	repo       storage.Repository
	startModel string
	sceneModel string
	tmpl       Templates
}

func New(cfg Config) *Narrator {
	t := cfg.Templates
	if strings.TrimSpace(t.Start) == "" {
		t.Start = defaultStartPrompt
	}
	if strings.TrimSpace(t.Scene) == "" {
		t.Scene = defaultScenePrompt
	}
	if strings.TrimSpace(t.Final) == "" {
		t.Final = defaultFinalPrompt
	}
	if strings.TrimSpace(t.Draw) == "" {
		t.Draw = defaultDrawPrompt
	}
	if cfg.StartModel == "" {
		cfg.StartModel = constants.OpenAINarrationModel
	}
	if cfg.SceneModel == "" {
		cfg.SceneModel = constants.OpenAISceneModel
	}
	return &Narrator{gen: cfg.Generator, repo: cfg.Repo, startModel: cfg.StartModel, sceneModel: cfg.SceneModel, tmpl: t}
}

// Fallback is the canned line used whenever generation fails.
func Fallback(s *game.BattleState) string {
	leader, trailer := s.Leader()
	return fmt.Sprintf("The battle rages on at %s! %s seems to have the upper hand, but %s is not giving up!",
		s.Stage.Name, leader.Name, trailer.Name)
}

func render(tmpl string, s *game.BattleState) string {
	leader, trailer := s.Leader()
	return strings.NewReplacer(
		"{{stage}}", s.Stage.Name,
		"{{effect}}", s.Stage.Description,
		"{{leader}}", leader.Name,
		"{{trailer}}", trailer.Name,
		"{{diff}}", strconv.Itoa(leader.HitPoints-trailer.HitPoints),
		"{{round}}", strconv.Itoa(s.Round),
		"{{first}}", s.First.Name,
		"{{second}}", s.Second.Name,
	).Replace(tmpl)
}

func (n *Narrator) generate(ctx context.Context, model, system, user string) (string, error) {
	if n.gen == nil {
		return "", textgen.ErrEmptyResponse
	}
	return n.gen.Generate(ctx, textgen.Request{
		Model:       model,
		System:      system,
		User:        user,
		MaxTokens:   constants.DefaultMaxTokens,
		Temperature: constants.DefaultTemperature,
	})
}

// Scene describes the battle at the current round, or its final moment
// when final is set. A drawn battle gets the draw template. Scenes are
// never cached.
func (n *Narrator) Scene(ctx context.Context, s *game.BattleState, final bool) string {
	kind, tmpl := KindScene, n.tmpl.Scene
	switch {
	case final && s.Outcome == game.OutcomeDraw:
		kind, tmpl = KindFinal, n.tmpl.Draw
	case final:
		kind, tmpl = KindFinal, n.tmpl.Final
	}
	text, err := n.generate(ctx, n.sceneModel, descriptorSystem, render(tmpl, s))
	if err != nil {
		logging.Warn("narration failed, using fallback", err, logging.Fields{
			constants.LogFieldBattleID: s.ID, constants.LogFieldRound: s.Round, "kind": kind,
		})
		return Fallback(s)
	}
	return text
}

// BattleStart narrates the combatants walking onto the stage. Results are
// cached by stage and combatant names; concurrent requests for the same
// key share one generation.
func (n *Narrator) BattleStart(ctx context.Context, s *game.BattleState) string {
	key := keys.NarrationKey(KindStart, s.Stage.Name, s.First.Name, s.Second.Name)
	fields := logging.Fields{constants.LogFieldBattleID: s.ID, constants.LogFieldKey: key}

	if text, ok := n.cached(key); ok {
		fields[constants.LogFieldSource] = "db_key"
		logging.Info("start narration cache hit", fields)
		return text
	}

	battleID := s.ID
	ch := dedupe.NarrationGroup.DoChan(key, func() (interface{}, error) {
		// Another caller may have saved it while we waited.
		if text, ok := n.cached(key); ok {
			return text, nil
		}
		text, err := n.generate(ctx, n.startModel, gameMasterSystem, render(n.tmpl.Start, s))
		if err != nil {
			return "", err
		}
		if n.repo != nil {
			if err := n.repo.SaveNarration(key, KindStart, text); err != nil {
				logging.Error("failed to save start narration", err, logging.Fields{
					constants.LogFieldBattleID: battleID, constants.LogFieldKey: key,
				})
			}
		}
		return text, nil
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			logging.Warn("start narration failed, using fallback", r.Err, fields)
			return Fallback(s)
		}
		return r.Val.(string)
	case <-ctx.Done():
		logging.Warn("start narration abandoned", ctx.Err(), fields)
		return Fallback(s)
	}
}

func (n *Narrator) cached(key string) (string, bool) {
	if n.repo == nil {
		return "", false
	}
	row, err := n.repo.GetNarrationByKey(key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logging.Error("narration cache lookup failed", err, logging.Fields{constants.LogFieldKey: key})
		}
		return "", false
	}
	if row == nil || strings.TrimSpace(row.Text) == "" {
		return "", false
	}
	return row.Text, true
}
