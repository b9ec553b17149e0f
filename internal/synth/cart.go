package synth

// StageStatus is the display state of a pipeline stage.
type StageStatus int

const (
	StagePending StageStatus = iota
	StageActive
	StageComplete
)

func (s StageStatus) String() string {
	switch s {
	case StageActive:
		return "active"
	case StageComplete:
		return "complete"
	default:
		return "pending"
	}
}

// StageStatuses returns the status of each of n stages at frame. The active
// stage advances every 100 frames and wraps around.
func StageStatuses(frame uint64, n int) []StageStatus {
	out := make([]StageStatus, n)
	if n == 0 {
		return out
	}
	current := int((frame / 100) % uint64(n))
	for i := range out {
		switch {
		case i == current:
			out[i] = StageActive
		case i < current:
			out[i] = StageComplete
		}
	}
	return out
}

// PowerFocus returns the index of the electrical node carrying the power-flow
// highlight; it moves one node per frame.
func PowerFocus(frame uint64, n int) int {
	if n == 0 {
		return 0
	}
	return int(frame % uint64(n))
}

// Fluctuate nudges a 0..100 progress value by a random step in [-2, 2].
func Fluctuate(progress int, rng Rand) int {
	return min(100, max(0, progress+rng.IntN(5)-2))
}
