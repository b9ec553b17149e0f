package synth

// Rand is the subset of *math/rand/v2.Rand the generators use for texture.
type Rand interface {
	NormFloat64() float64
	IntN(n int) int
}
