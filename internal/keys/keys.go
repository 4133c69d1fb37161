package keys

import (
	"sort"
	"strings"
)

// canonical trims a part, lower-cases it and replaces spaces with
// underscores.
func canonical(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
}

// NarrationKey produces a stable cache key for a generated narration. The
// combatant names are sorted so "A vs B" and "B vs A" share a key; kind and
// stage keep their position. Example: "start:thunder_plateau:pikachu1_pikachu2".
func NarrationKey(kind, stage string, combatants ...string) string {
	parts := make([]string, 0, len(combatants))
	for _, n := range combatants {
		if s := canonical(n); s != "" {
			parts = append(parts, s)
		}
	}
	sort.Strings(parts)
	return canonical(kind) + ":" + canonical(stage) + ":" + strings.Join(parts, "_")
}
