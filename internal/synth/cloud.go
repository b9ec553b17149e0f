package synth

import "math"

// CloudSize is the number of points in the embedding cloud.
const CloudSize = 100

// Point is a position in 3-D embedding space.
type Point [3]float64

// NewCloud returns CloudSize points drawn from a standard normal distribution.
func NewCloud(rng Rand) []Point {
	pts := make([]Point, CloudSize)
	for i := range pts {
		pts[i] = Point{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
	}
	return pts
}

// RotateCloud rotates pts about the z axis by 0.01*frame radians and jitters
// each coordinate with N(0, 0.1). The input slice is not modified.
func RotateCloud(pts []Point, frame uint64, rng Rand) []Point {
	angle := float64(frame) * 0.01
	sin, cos := math.Sincos(angle)

	out := make([]Point, len(pts))
	for i, p := range pts {
		// row vector times [[cos, -sin, 0], [sin, cos, 0], [0, 0, 1]]
		out[i] = Point{
			p[0]*cos + p[1]*sin + rng.NormFloat64()*0.1,
			-p[0]*sin + p[1]*cos + rng.NormFloat64()*0.1,
			p[2] + rng.NormFloat64()*0.1,
		}
	}
	return out
}

// CloudColor returns the RGBA gradient colour of point i out of n.
func CloudColor(i, n int) [4]float64 {
	return [4]float64{
		linspace(0.3, 0.9, n, i),
		linspace(0.2, 0.7, n, i),
		1.0,
		0.8,
	}
}
