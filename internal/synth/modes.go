package synth

import "fmt"

// Phonation is a voice production type shaping the spectrogram.
type Phonation string

const (
	PhonationModal    Phonation = "modal"
	PhonationFalsetto Phonation = "falsetto"
	PhonationBreathy  Phonation = "breathy"
	PhonationPressed  Phonation = "pressed"
)

// Phonations lists the phonation types in selector order.
var Phonations = []Phonation{PhonationModal, PhonationFalsetto, PhonationBreathy, PhonationPressed}

// IsValid reports whether p is a recognised phonation type.
func (p Phonation) IsValid() bool {
	switch p {
	case PhonationModal, PhonationFalsetto, PhonationBreathy, PhonationPressed:
		return true
	}
	return false
}

// ParsePhonation converts s to a Phonation.
func ParsePhonation(s string) (Phonation, error) {
	p := Phonation(s)
	if !p.IsValid() {
		return "", fmt.Errorf("synth: unknown phonation %q; valid values: modal, falsetto, breathy, pressed", s)
	}
	return p, nil
}

// Source selects where the input waveform comes from.
type Source string

const (
	// SourceRecording simulates a recording: a sine with two extra harmonics.
	SourceRecording Source = "sample_recording"
	// SourceSimulated is a plain sine.
	SourceSimulated Source = "simulated"
	// SourceLive drains chunks captured by a background producer.
	SourceLive Source = "live"
)

// Sources lists the audio sources in selector order.
var Sources = []Source{SourceRecording, SourceSimulated, SourceLive}

// IsValid reports whether s is a recognised source.
func (s Source) IsValid() bool {
	switch s {
	case SourceRecording, SourceSimulated, SourceLive:
		return true
	}
	return false
}

// ParseSource converts s to a Source.
func ParseSource(s string) (Source, error) {
	src := Source(s)
	if !src.IsValid() {
		return "", fmt.Errorf("synth: unknown source %q; valid values: sample_recording, simulated, live", s)
	}
	return src, nil
}
