package game

import (
	"fmt"
	"strings"
)

// Snapshot is the view of the battle handed to a decision source before a
// turn.
type Snapshot struct {
	Round         int    `json:"round"`
	Attacker      string `json:"attacker"`
	Defender      string `json:"defender"`
	AttackerStats Stats  `json:"attacker_stats"`
	DefenderStats Stats  `json:"defender_stats"`
	AttackerHP    int    `json:"attacker_hp"`
	DefenderHP    int    `json:"defender_hp"`
	StageEffect   string `json:"stage_effect"`
}

// Snapshot captures the state as seen by attacker.
func (s *BattleState) Snapshot(attacker, defender *Combatant) Snapshot {
	return Snapshot{
		Round:         s.Round,
		Attacker:      attacker.Name,
		Defender:      defender.Name,
		AttackerStats: attacker.Stats,
		DefenderStats: defender.Stats,
		AttackerHP:    attacker.HitPoints,
		DefenderHP:    defender.HitPoints,
		StageEffect:   s.Stage.Description,
	}
}

// String renders the stats block the way prompts present it.
func (s Stats) String() string {
	return fmt.Sprintf("{strength: %d, endurance: %d, speed: %d, intelligence: %d, loyalty: %d}",
		s.Strength, s.Endurance, s.Speed, s.Intelligence, s.Loyalty)
}

// String renders the snapshot for inclusion in a prompt.
func (s Snapshot) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "round: %d; ", s.Round)
	fmt.Fprintf(&b, "attacker: %s (HP %d, stats %s); ", s.Attacker, s.AttackerHP, s.AttackerStats)
	fmt.Fprintf(&b, "defender: %s (HP %d, stats %s); ", s.Defender, s.DefenderHP, s.DefenderStats)
	fmt.Fprintf(&b, "stage effect: %s", s.StageEffect)
	return b.String()
}
