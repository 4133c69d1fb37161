package engine

import "github.com/ericogr/pikabattle/internal/game"

// --- Modifier helpers --------------------------------------------------

// Modifier converts a stat value into a to-hit bonus: floor((v-10)/2).
func Modifier(v int) int {
	d := v - 10
	if d < 0 {
		return -((-d + 1) / 2)
	}
	return d / 2
}

// statModifier returns the modifier for c's named stat. Stats outside the
// fixed set count as 10 (modifier 0).
func statModifier(c *game.Combatant, stat game.Stat) int {
	v, ok := c.Stats.Get(stat)
	if !ok {
		return 0
	}
	return Modifier(v)
}
