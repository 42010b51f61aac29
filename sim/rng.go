package sim

import (
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical parameter sets
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem names ===

// Factor stream names. Combined with the actor name via StreamName.
const (
	StreamCompute = "compute"
	StreamCapital = "capital"
	StreamTalent  = "talent"
	StreamEnergy  = "energy"
)

// StreamName returns the subsystem name for one (actor, factor) stream.
func StreamName(actor, factor string) string {
	return actor + "/" + factor
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName).
//
// Thread-safety: NOT thread-safe. Streams must be requested from a single
// goroutine; a returned *rand.Rand may then be handed to exactly one worker.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// ActorStreams bundles the four per-factor streams owned by one actor.
// Each stream is drawn from by exactly one sampling step per year.
type ActorStreams struct {
	Compute *rand.Rand
	Capital *rand.Rand
	Talent  *rand.Rand
	Energy  *rand.Rand
}

// ForActor returns the isolated factor streams for the named actor.
func (p *PartitionedRNG) ForActor(actor string) ActorStreams {
	return ActorStreams{
		Compute: p.ForSubsystem(StreamName(actor, StreamCompute)),
		Capital: p.ForSubsystem(StreamName(actor, StreamCapital)),
		Talent:  p.ForSubsystem(StreamName(actor, StreamTalent)),
		Energy:  p.ForSubsystem(StreamName(actor, StreamEnergy)),
	}
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
