// Package synth contains the synthetic data generators that feed the
// dashboards. Every generator is a pure function of the frame counter and a
// mode selection; the only other input is an injected *rand.Rand used for
// visual texture. Output shapes are fixed per generator.
//
// Unrecognised modes fall back to each generator's base case (modal
// phonation, plain simulated input) rather than failing.
package synth
