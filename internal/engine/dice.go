package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// D20 is the die used for attack and defense rolls.
const D20 = 20

// Roller produces uniform integers in [1, sides].
type Roller interface {
	Roll(sides int) int
}

type randRoller struct {
	rng *rand.Rand
}

// NewRoller returns a Roller seeded with seed. The same seed replays the
// same sequence of rolls.
func NewRoller(seed int64) Roller {
	return &randRoller{rng: rand.New(rand.NewSource(seed))}
}

func (r *randRoller) Roll(sides int) int {
	if sides < 1 {
		return 0
	}
	return r.rng.Intn(sides) + 1
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// pick returns a uniformly chosen element of items using r.
func pick(r Roller, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[r.Roll(len(items))-1]
}
