package synth

import "math"

// FlowStages are the stages of the key-identification data flow.
var FlowStages = []string{
	"Audio Input", "Pre-processing", "Feature Extraction",
	"Teacher Model", "Student Model", "Phonation Analysis", "Key Detection",
}

// FlowMarkerCount is the number of markers travelling through the flow.
const FlowMarkerCount = 5

// MarkerHidden is the position reported for markers outside the pipeline.
const MarkerHidden = -2.0

// FlowMarkers returns the x position of each of n markers. Marker i sits at
// (frame/20 + 1.2i) mod 8 - 1; positions outside [0, 6) are reported as
// MarkerHidden.
func FlowMarkers(frame uint64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		pos := math.Mod(float64(frame)/20+float64(i)*1.2, 8) - 1
		if pos >= 0 && pos < 6 {
			out[i] = pos
		} else {
			out[i] = MarkerHidden
		}
	}
	return out
}
