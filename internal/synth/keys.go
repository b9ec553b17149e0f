package synth

import "math"

// Keys are the twelve pitch classes in chromatic order.
var Keys = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PrimaryKey returns the index of the key favoured at frame. It moves one
// semitone every 100 frames.
func PrimaryKey(frame uint64) int {
	return int((frame / 100) % uint64(len(Keys)))
}

// KeyProbabilities returns a probability for every key, summing to one.
// Keys near the primary key (circular distance) get a decaying share that
// shimmers over time.
func KeyProbabilities(frame uint64) [12]float64 {
	f := float64(frame)
	n := len(Keys)
	primary := PrimaryKey(frame)

	var probs [12]float64
	probs[primary] = 0.7 + 0.2*math.Sin(f/30)

	for i := 0; i < n; i++ {
		d := i - primary
		if d < 0 {
			d = -d
		}
		d = min(d, n-d)
		if d == 0 {
			continue
		}
		probs[i] = math.Max(0, 0.6-float64(d)*0.15) * (0.8 + 0.2*math.Sin(f/20+float64(i)))
	}

	var sum float64
	for _, p := range probs {
		sum += p
	}
	for i := range probs {
		probs[i] /= sum + 1e-9
	}
	return probs
}
