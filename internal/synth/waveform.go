package synth

import "math"

// ChunkSize is the number of samples produced per simulated input chunk.
const ChunkSize = 100

// CurveSize is the number of points on the embedding and distillation curves.
const CurveSize = 100

// SimulatedChunk returns the next ChunkSize input samples for frame. The
// recording source layers the 2nd and 3rd harmonics on top of the base sine.
// The live source has no synthetic chunk and yields the base sine too; callers
// drain the capture queue instead.
func SimulatedChunk(frame uint64, src Source) []float64 {
	phase := float64(frame%100) * 2 * math.Pi / 100
	out := make([]float64, ChunkSize)
	for i := range out {
		t := linspace(0, 2*math.Pi, ChunkSize, i)
		v := math.Sin(t+phase) * 0.5
		if src == SourceRecording {
			v += math.Sin(2*t+phase*1.3) * 0.3
			v += math.Sin(3*t+phase*0.7) * 0.15
		}
		out[i] = v
	}
	return out
}

// TeacherCurve returns the projected teacher embedding curve: x spans
// [0, 4pi] and y mixes two drifting sines.
func TeacherCurve(frame uint64) (x, y []float64) {
	f := float64(frame)
	x = make([]float64, CurveSize)
	y = make([]float64, CurveSize)
	for i := range x {
		t := linspace(0, 4*math.Pi, CurveSize, i)
		x[i] = t
		y[i] = math.Sin(t+f/10)*0.5 + math.Sin(2*t+f/8)*0.3
	}
	return x, y
}

// Distillation returns the teacher's soft targets and the student's
// predictions: the teacher curve with light and heavier gaussian noise.
func Distillation(frame uint64, rng Rand) (soft, student []float64) {
	_, base := TeacherCurve(frame)
	soft = make([]float64, len(base))
	student = make([]float64, len(base))
	for i, v := range base {
		soft[i] = v + rng.NormFloat64()*0.05
		student[i] = v + rng.NormFloat64()*0.15
	}
	return soft, student
}

// linspace returns the i-th of n evenly spaced values over [start, stop].
func linspace(start, stop float64, n, i int) float64 {
	if n < 2 {
		return start
	}
	return start + (stop-start)*float64(i)/float64(n-1)
}
