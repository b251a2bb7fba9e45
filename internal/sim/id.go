package sim

import (
	"fmt"
	"math/rand"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// newID returns "<prefix>_<epoch ms>_<9 base36 chars>". Collisions are not
// checked.
func newID(prefix string, now time.Time, rng *rand.Rand) string {
	var suffix [9]byte
	for i := range suffix {
		suffix[i] = base36[rng.Intn(len(base36))]
	}
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), suffix[:])
}
