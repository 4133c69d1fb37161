package storage

import (
	"errors"

	"github.com/ericogr/pikabattle/internal/game"
)

// ErrNotFound is returned when no narration is cached for a key.
var ErrNotFound = errors.New("narration not found")

type Repository interface {
	// GetNarrationByKey looks up cached narration by its canonical key,
	// e.g. "start:thunder_plateau:pikachu1_pikachu2".
	GetNarrationByKey(key string) (*game.GeneratedNarration, error)
	// SaveNarration stores text under key, replacing any previous text.
	SaveNarration(key, kind, text string) error
}
