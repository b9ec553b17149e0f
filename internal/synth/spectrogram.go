package synth

import "math"

// SpectrogramSize is the side length of the square phonation grid.
const SpectrogramSize = 100

// Spectrogram returns a SpectrogramSize x SpectrogramSize grid indexed
// [time][harmonic], normalised into [0, 1]. Each harmonic column is a sine
// weighted by a phonation-specific envelope; breathy phonation adds noise.
func Spectrogram(frame uint64, mode Phonation, rng Rand) [][]float64 {
	f := float64(frame)
	grid := make([][]float64, SpectrogramSize)
	for r := range grid {
		grid[r] = make([]float64, SpectrogramSize)
	}

	for i := 0; i < SpectrogramSize; i++ {
		strength, freq := envelope(mode, i)
		for r := 0; r < SpectrogramSize; r++ {
			t := linspace(0, 10, SpectrogramSize, r)
			grid[r][i] = math.Sin(2*math.Pi*freq*t+f/10) * strength
		}
	}

	if mode == PhonationBreathy {
		for r := range grid {
			for c := range grid[r] {
				grid[r][c] += rng.NormFloat64() * 0.2
			}
		}
	}

	modulation := 1 + math.Sin(f/20)*0.2
	lo, hi := math.Inf(1), math.Inf(-1)
	for r := range grid {
		for c := range grid[r] {
			v := grid[r][c] * modulation
			grid[r][c] = v
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	span := hi - lo + 1e-9
	for r := range grid {
		for c := range grid[r] {
			grid[r][c] = (grid[r][c] - lo) / span
		}
	}
	return grid
}

// envelope returns the harmonic strength and frequency of column i.
func envelope(mode Phonation, i int) (strength, freq float64) {
	h := float64(i)
	switch mode {
	case PhonationFalsetto:
		// weak fundamental, energy concentrated in the upper harmonics
		if i < 20 {
			strength = math.Exp(-(h - 20) * (h - 20) / 200)
		} else {
			strength = math.Exp(-(h - 50) * (h - 50) / 500)
		}
		return strength, h / 1.5
	case PhonationBreathy:
		return math.Exp(-h/30) * 0.6, h / 2
	case PhonationPressed:
		strength = math.Exp(-h/15) * 1.2
		if i%2 == 0 {
			strength *= 1.3
		}
		return strength, h / 2
	default:
		return math.Exp(-h / 20), h / 2
	}
}
