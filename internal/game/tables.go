package game

import "strings"

// Move names shared by the default roster.
const (
	MoveQuickAttack  = "Quick Attack"
	MoveThunderShock = "Thunder Shock"
	MoveElectroBall  = "Electro Ball"
	MoveAgility      = "Agility"
)

// StartingHitPoints is the hit point total every combatant starts with.
const StartingHitPoints = 1000

// DefaultStrategy is used when a trainer leaves the strategy blank.
const DefaultStrategy = "Prioritize quick attacks and use speed to dodge attacks."

var moveTable = map[string]Move{
	strings.ToLower(MoveQuickAttack):  {Name: MoveQuickAttack, Damage: 42, Stat: StatSpeed, DefenseStat: StatSpeed, Type: DamagePhysical, DC: 12},
	strings.ToLower(MoveThunderShock): {Name: MoveThunderShock, Damage: 50, Stat: StatIntelligence, DefenseStat: StatEndurance, Type: DamageElectric, DC: 13},
	strings.ToLower(MoveElectroBall):  {Name: MoveElectroBall, Damage: 60, Stat: StatIntelligence, DefenseStat: StatSpeed, Type: DamageElectric, DC: 14},
}

// LookupMove returns the table entry for name (case-insensitive).
func LookupMove(name string) (Move, bool) {
	m, ok := moveTable[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// Moves lists the move table in a stable order.
func Moves() []Move {
	return []Move{
		moveTable[strings.ToLower(MoveQuickAttack)],
		moveTable[strings.ToLower(MoveThunderShock)],
		moveTable[strings.ToLower(MoveElectroBall)],
	}
}

var stageTable = []Stage{
	{
		Name:        "Thunder Plateau",
		Description: "Electric attacks are boosted by 10%.",
		Effect:      StageEffect{Kind: EffectElectricBoost, Percent: 10, DamageType: DamageElectric},
	},
	{
		Name:        "Mud Swamp",
		Description: "Speed is reduced by 2 due to the muddy terrain.",
		Effect:      StageEffect{Kind: EffectSpeedPenalty, Amount: 2, Stat: StatSpeed},
	},
	{
		Name:        "Windy Valley",
		Description: "Ranged attacks have disadvantage.",
		Effect:      StageEffect{Kind: EffectRangedDisadvantage},
	},
}

// Stages returns a copy of the stage table.
func Stages() []Stage {
	out := make([]Stage, len(stageTable))
	copy(out, stageTable)
	return out
}

// LookupStage finds a stage by name (case-insensitive).
func LookupStage(name string) (Stage, bool) {
	for _, s := range stageTable {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			return s, true
		}
	}
	return Stage{}, false
}

// DefaultStats are the stats both stock Pikachus share.
func DefaultStats() Stats {
	return Stats{Strength: 15, Endurance: 12, Speed: 18, Intelligence: 14, Loyalty: 16}
}

// DefaultMoves is the move list both stock Pikachus know.
func DefaultMoves() []string {
	return []string{MoveQuickAttack, MoveThunderShock, MoveElectroBall, MoveAgility}
}

// NewCombatant builds a combatant at full hit points. An empty strategy
// falls back to DefaultStrategy.
func NewCombatant(name string, stats Stats, strategy string, moves []string) *Combatant {
	strategy = strings.TrimSpace(strategy)
	if strategy == "" {
		strategy = DefaultStrategy
	}
	mv := make([]string, len(moves))
	copy(mv, moves)
	return &Combatant{
		Name:      name,
		HitPoints: StartingHitPoints,
		Stats:     stats,
		Strategy:  strategy,
		Moves:     mv,
	}
}

// DefaultRoster returns the two stock combatants, Pikachu1 and Pikachu2.
func DefaultRoster(strategy1, strategy2 string) (*Combatant, *Combatant) {
	return NewCombatant("Pikachu1", DefaultStats(), strategy1, DefaultMoves()),
		NewCombatant("Pikachu2", DefaultStats(), strategy2, DefaultMoves())
}
