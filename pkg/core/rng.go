package core

import (
	"math"
	"math/rand"
)

// OneMinusEpsilon is the largest float64 strictly less than 1. Random streams
// feeding sampling routines are clamped to it so inverted CDFs never see u=1.
const OneMinusEpsilon = 1 - 1e-16

// Sampler provides random sampling for scattering estimators.
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler whose stream is fully determined by the
// two seed words. Stochastic estimators seed one per call from a hash of the
// call's own arguments so results are reproducible and thread-independent.
func NewSeededSampler(a, b uint64) *RandomSampler {
	return &RandomSampler{random: rand.New(rand.NewSource(int64(mix64(a ^ mix64(b)))))}
}

// Get1D returns a random float64 in [0, OneMinusEpsilon]
func (r *RandomSampler) Get1D() float64 {
	return math.Min(r.random.Float64(), OneMinusEpsilon)
}

// Get2D returns two random float64 values in [0, OneMinusEpsilon]
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.Get1D(), r.Get1D())
}

// Get3D returns three random float64 values in [0, OneMinusEpsilon]
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.Get1D(), r.Get1D(), r.Get1D())
}

// Hash mixes a seed word with the bit patterns of the given floats into a
// single 64-bit value. Equal inputs always hash equally, which is what makes
// per-call random streams reproducible.
func Hash(seed uint64, values ...float64) uint64 {
	h := mix64(seed ^ 0x9e3779b97f4a7c15)
	for _, v := range values {
		h = mix64(h ^ math.Float64bits(v))
	}
	return h
}

// mix64 is the splitmix64 finalizer
func mix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
