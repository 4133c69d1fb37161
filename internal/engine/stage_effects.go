package engine

import (
	"strconv"

	"github.com/ericogr/pikabattle/internal/game"
)

// stageRule is the mechanical behaviour of one stage effect kind. Either
// hook may be nil.
type stageRule struct {
	// apply mutates both combatants once at battle start and returns a log
	// line, or "" when nothing changed.
	apply func(eff game.StageEffect, a, b *game.Combatant) string
	// bonusPercent returns the damage increase for move on this stage.
	bonusPercent func(eff game.StageEffect, move game.Move) int
}

var stageRules = map[game.EffectKind]stageRule{
	game.EffectElectricBoost: {
		bonusPercent: func(eff game.StageEffect, move game.Move) int {
			dt := eff.DamageType
			if dt == "" {
				dt = game.DamageElectric
			}
			if move.Type != dt {
				return 0
			}
			return eff.Percent
		},
	},
	game.EffectSpeedPenalty: {
		apply: func(eff game.StageEffect, a, b *game.Combatant) string {
			stat := eff.Stat
			if stat == "" {
				stat = game.StatSpeed
			}
			a.Stats.Add(stat, -eff.Amount)
			b.Stats.Add(stat, -eff.Amount)
			return "The terrain saps both fighters: " + string(stat) + " -" + strconv.Itoa(eff.Amount) + " for " + a.Name + " and " + b.Name + "."
		},
	},
	// Ranged disadvantage is described to players but has no mechanical
	// hook yet.
	game.EffectRangedDisadvantage: {},
}

// ApplyStageEffects runs the stat-mutating part of the stage effect on both
// combatants and returns a description ("" if nothing changed). It does
// not guard against repeated calls; Battle does that through
// BattleState.MarkStageApplied.
func ApplyStageEffects(stage game.Stage, a, b *game.Combatant) string {
	rule, ok := stageRules[stage.Effect.Kind]
	if !ok || rule.apply == nil {
		return ""
	}
	return rule.apply(stage.Effect, a, b)
}

// StageDamage returns move's base damage adjusted by the stage, rounded
// down, and whether a boost applied.
func StageDamage(stage game.Stage, move game.Move) (int, bool) {
	rule, ok := stageRules[stage.Effect.Kind]
	if !ok || rule.bonusPercent == nil {
		return move.Damage, false
	}
	pct := rule.bonusPercent(stage.Effect, move)
	if pct == 0 {
		return move.Damage, false
	}
	return move.Damage * (100 + pct) / 100, true
}
