package game

import (
	"strings"

	"gorm.io/gorm"
)

// Stat names a combatant attribute used by the move table.
type Stat string

const (
	StatStrength     Stat = "strength"
	StatEndurance    Stat = "endurance"
	StatSpeed        Stat = "speed"
	StatIntelligence Stat = "intelligence"
	StatLoyalty      Stat = "loyalty"
)

// Stats is the fixed attribute block every combatant carries.
type Stats struct {
	Strength     int `json:"strength"`
	Endurance    int `json:"endurance"`
	Speed        int `json:"speed"`
	Intelligence int `json:"intelligence"`
	Loyalty      int `json:"loyalty"`
}

// Get returns the value for the named stat. ok is false for names outside
// the fixed set.
func (s Stats) Get(name Stat) (int, bool) {
	switch Stat(strings.ToLower(string(name))) {
	case StatStrength:
		return s.Strength, true
	case StatEndurance:
		return s.Endurance, true
	case StatSpeed:
		return s.Speed, true
	case StatIntelligence:
		return s.Intelligence, true
	case StatLoyalty:
		return s.Loyalty, true
	}
	return 0, false
}

// Add shifts the named stat by delta. Unknown names are ignored.
func (s *Stats) Add(name Stat, delta int) {
	switch Stat(strings.ToLower(string(name))) {
	case StatStrength:
		s.Strength += delta
	case StatEndurance:
		s.Endurance += delta
	case StatSpeed:
		s.Speed += delta
	case StatIntelligence:
		s.Intelligence += delta
	case StatLoyalty:
		s.Loyalty += delta
	}
}

// Combatant is one side of a battle. HitPoints only changes through
// ApplyDamage.
type Combatant struct {
	Name      string   `json:"name"`
	HitPoints int      `json:"hit_points"`
	Stats     Stats    `json:"stats"`
	Strategy  string   `json:"strategy"`
	Moves     []string `json:"moves"`
	// Guidance is optional trainer advice appended to the decision prompt.
	Guidance string `json:"guidance,omitempty"`
}

// ApplyDamage subtracts damage from the combatant's hit points, flooring
// at zero. Non-positive damage is ignored.
func (c *Combatant) ApplyDamage(damage int) {
	if damage <= 0 {
		return
	}
	c.HitPoints -= damage
	if c.HitPoints < 0 {
		c.HitPoints = 0
	}
}

// IsKnockedOut reports whether the combatant has no hit points left.
func (c *Combatant) IsKnockedOut() bool { return c.HitPoints <= 0 }

// KnowsMove reports whether name is in the combatant's move list
// (case-insensitive).
func (c *Combatant) KnowsMove(name string) bool {
	for _, m := range c.Moves {
		if strings.EqualFold(m, name) {
			return true
		}
	}
	return false
}

// DamageType tags a move for stage interactions.
type DamageType string

const (
	DamagePhysical DamageType = "Physical"
	DamageElectric DamageType = "Electric"
)

// Move is an immutable entry of the move table. DC is carried for
// completeness; resolution does not read it.
type Move struct {
	Name        string     `json:"name"`
	Damage      int        `json:"damage"`
	Stat        Stat       `json:"stat"`
	DefenseStat Stat       `json:"defense_stat"`
	Type        DamageType `json:"type"`
	DC          int        `json:"dc"`
}

// EffectKind identifies a structured stage effect.
type EffectKind string

const (
	EffectNone               EffectKind = ""
	EffectElectricBoost      EffectKind = "electric_boost"
	EffectSpeedPenalty       EffectKind = "speed_penalty"
	EffectRangedDisadvantage EffectKind = "ranged_disadvantage"
)

// StageEffect is the mechanical side of a stage. Only the fields relevant
// to Kind are set.
type StageEffect struct {
	Kind       EffectKind `json:"kind"`
	Percent    int        `json:"percent,omitempty"`
	Amount     int        `json:"amount,omitempty"`
	DamageType DamageType `json:"damage_type,omitempty"`
	Stat       Stat       `json:"stat,omitempty"`
}

// Stage is the arena a battle takes place in. Description is the prose
// shown to players and narrators.
type Stage struct {
	Name        string      `json:"name"`
	Description string      `json:"effect"`
	Effect      StageEffect `json:"mechanics"`
}

// Status is the lifecycle state of a battle.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

// Outcome describes how a finished battle ended.
type Outcome string

const (
	OutcomeNone     Outcome = ""
	OutcomeKnockout Outcome = "knockout"
	OutcomeDecision Outcome = "decision"
	OutcomeDraw     Outcome = "draw"
)

// LogKind classifies battle log entries.
type LogKind string

const (
	LogSystem    LogKind = "system"
	LogAction    LogKind = "action"
	LogDamage    LogKind = "damage"
	LogDodge     LogKind = "dodge"
	LogNarration LogKind = "narration"
)

// LogEntry is one line of the battle log.
type LogEntry struct {
	Round int     `json:"round"`
	Kind  LogKind `json:"kind"`
	Text  string  `json:"text"`
}

// DefaultMaxRounds caps a battle when nobody is knocked out.
const DefaultMaxRounds = 50

// BattleState is owned by a single battle loop.
type BattleState struct {
	ID        string     `json:"id"`
	Round     int        `json:"round"`
	MaxRounds int        `json:"max_rounds"`
	First     *Combatant `json:"first"`
	Second    *Combatant `json:"second"`
	Stage     Stage      `json:"stage"`
	Status    Status     `json:"status"`
	Outcome   Outcome    `json:"outcome"`
	Winner    string     `json:"winner"`
	Log       []LogEntry `json:"log"`

	stageApplied bool
}

// NewBattleState prepares a battle between a and b on stage. maxRounds
// below one falls back to DefaultMaxRounds.
func NewBattleState(id string, a, b *Combatant, stage Stage, maxRounds int) *BattleState {
	if maxRounds < 1 {
		maxRounds = DefaultMaxRounds
	}
	return &BattleState{
		ID:        id,
		MaxRounds: maxRounds,
		First:     a,
		Second:    b,
		Stage:     stage,
		Status:    StatusNotStarted,
		Log:       make([]LogEntry, 0, 4*maxRounds),
	}
}

// Append adds an entry to the log at the current round and returns it.
func (s *BattleState) Append(kind LogKind, text string) LogEntry {
	e := LogEntry{Round: s.Round, Kind: kind, Text: text}
	s.Log = append(s.Log, e)
	return e
}

// MarkStageApplied records that stat-mutating stage effects ran. It
// returns false when they had already been applied.
func (s *BattleState) MarkStageApplied() bool {
	if s.stageApplied {
		return false
	}
	s.stageApplied = true
	return true
}

// Opponent returns the other combatant.
func (s *BattleState) Opponent(c *Combatant) *Combatant {
	if c == s.First {
		return s.Second
	}
	return s.First
}

// Leader returns the combatant with more hit points, then the other one.
// Ties go to Second.
func (s *BattleState) Leader() (leader, trailer *Combatant) {
	if s.First.HitPoints > s.Second.HitPoints {
		return s.First, s.Second
	}
	return s.Second, s.First
}

// GeneratedNarration caches narration text produced for a canonical key
// (stage plus combatant names) so repeated battles reuse it.
type GeneratedNarration struct {
	gorm.Model
	NarrationKey string `json:"narration_key" gorm:"uniqueIndex"`
	Kind         string `json:"kind"`
	Text         string `json:"text"`
}

// TableName keeps the cache in its own table.
func (GeneratedNarration) TableName() string { return "narration_cache" }
