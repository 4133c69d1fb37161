package engine

import (
	"context"
	"strconv"
	"strings"

	"github.com/ericogr/pikabattle/internal/constants"
	"github.com/ericogr/pikabattle/internal/game"
	"github.com/ericogr/pikabattle/internal/logging"
)

// AttackResult is the outcome of the dice exchange for one move.
type AttackResult struct {
	Move        game.Move `json:"move"`
	AttackRoll  int       `json:"attack_roll"`
	DefenseRoll int       `json:"defense_roll"`
	AttackMod   int       `json:"attack_mod"`
	DefenseMod  int       `json:"defense_mod"`
	Hit         bool      `json:"hit"`
	Damage      int       `json:"damage"`
	Boosted     bool      `json:"boosted"`
}

// TurnResult describes one resolved turn.
type TurnResult struct {
	Attacker   string       `json:"attacker"`
	Defender   string       `json:"defender"`
	Decision   string       `json:"decision"`
	Tier       MatchTier    `json:"tier"`
	Resolved   bool         `json:"resolved"`
	Attack     AttackResult `json:"attack"`
	DefenderHP int          `json:"defender_hp"`
}

// ResolveAttack rolls a d20 for each side and applies the move's damage to
// defender on success. The attacker wins ties.
func ResolveAttack(r Roller, move game.Move, attacker, defender *game.Combatant, stage game.Stage) AttackResult {
	res := AttackResult{
		Move:       move,
		AttackMod:  statModifier(attacker, move.Stat),
		DefenseMod: statModifier(defender, move.DefenseStat),
	}
	res.AttackRoll = r.Roll(D20)
	res.DefenseRoll = r.Roll(D20)
	res.Hit = res.AttackRoll+res.AttackMod >= res.DefenseRoll+res.DefenseMod
	if !res.Hit {
		return res
	}
	res.Damage, res.Boosted = StageDamage(stage, move)
	defender.ApplyDamage(res.Damage)
	return res
}

// ResolveTurn asks attacker's decision source for an action, maps it onto
// a known move and resolves it against defender. It never fails: bad or
// missing decisions become random moves.
func (b *Battle) ResolveTurn(ctx context.Context, attacker, defender *game.Combatant) TurnResult {
	out := TurnResult{Attacker: attacker.Name, Defender: defender.Name}
	snap := b.state.Snapshot(attacker, defender)
	out.Decision = b.decide(ctx, attacker, snap)

	name, tier := ParseMove(out.Decision, attacker.Moves, b.roller)
	out.Tier = tier
	move, ok := game.LookupMove(name)
	if !ok {
		move, ok = b.randomTabledMove(attacker)
		if !ok {
			b.add(game.LogAction, attacker.Name+" uses "+name+", but nothing happens.")
			out.DefenderHP = defender.HitPoints
			return out
		}
		logging.Debug("move has no table entry; substituted", logging.Fields{
			constants.LogFieldBattleID: b.state.ID, constants.LogFieldCombatant: attacker.Name,
			"requested": name, constants.LogFieldMove: move.Name,
		})
		out.Tier = MatchRandom
	}

	out.Resolved = true
	out.Attack = ResolveAttack(b.roller, move, attacker, defender, b.state.Stage)
	out.DefenderHP = defender.HitPoints
	if out.Attack.Hit {
		b.add(game.LogDamage, attacker.Name+" uses "+move.Name+" and hits "+defender.Name+" for "+strconv.Itoa(out.Attack.Damage)+" damage!")
	} else {
		b.add(game.LogDodge, attacker.Name+" uses "+move.Name+", but "+defender.Name+" dodges the attack!")
	}
	logging.Debug("turn resolved", logging.Fields{
		constants.LogFieldBattleID: b.state.ID, constants.LogFieldRound: b.state.Round,
		constants.LogFieldCombatant: attacker.Name, constants.LogFieldMove: move.Name,
		"tier": string(out.Tier), "attack": out.Attack.AttackRoll + out.Attack.AttackMod,
		"defense": out.Attack.DefenseRoll + out.Attack.DefenseMod, "damage": out.Attack.Damage,
	})
	return out
}

// decide returns the decision text, substituting a random known move on
// failure.
func (b *Battle) decide(ctx context.Context, self *game.Combatant, snap game.Snapshot) string {
	if b.decider == nil {
		return pick(b.roller, self.Moves)
	}
	text, err := b.decider.Decide(ctx, self, snap)
	if err == nil && strings.TrimSpace(text) != "" {
		return text
	}
	fallback := pick(b.roller, self.Moves)
	if err == nil {
		err = ErrEmptyDecision
	}
	logging.Warn("decision source failed; using random move", err, logging.Fields{
		constants.LogFieldBattleID: b.state.ID, constants.LogFieldCombatant: self.Name, constants.LogFieldMove: fallback,
	})
	return fallback
}

func (b *Battle) randomTabledMove(c *game.Combatant) (game.Move, bool) {
	names := make([]string, 0, len(c.Moves))
	for _, n := range c.Moves {
		if _, ok := game.LookupMove(n); ok {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return game.Move{}, false
	}
	return game.LookupMove(pick(b.roller, names))
}
