package compute

import (
	"encoding/binary"
	"fmt"
	"math/rand"
)

// ID is a 128-bit handle shared by flavors, images, and servers.
type ID [16]byte

// String renders the id as a UUID-shaped hex string for logging.
func (id ID) String() string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", id[0:4], id[4:6], id[6:8], id[8:10], id[10:16])
}

// generator mints IDs from (current simulated time, pseudo-random 64-bit
// tail), drawn from a seeded deterministic source. Two services constructed
// with the same seed and driven through the same sequence of calls produce
// bit-identical ids — this is what makes a simulation run reproducible.
//
// Grounded on sim/rng.go's PartitionedRNG: a single seeded *rand.Rand owned
// by the service, never shared, never reseeded mid-run.
type generator struct {
	rng *rand.Rand
}

func newGenerator(seed int64) *generator {
	return &generator{rng: rand.New(rand.NewSource(seed))}
}

// next mints an ID from the given simulated time and the generator's next
// pseudo-random 64-bit value. The time component occupies the high 8 bytes
// so that ids sort roughly by creation order; the random tail disambiguates
// ids minted within the same simulated millisecond.
func (g *generator) next(simTime int64) ID {
	var id ID
	binary.BigEndian.PutUint64(id[0:8], uint64(simTime))
	binary.BigEndian.PutUint64(id[8:16], g.rng.Uint64())
	return id
}
