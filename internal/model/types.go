package model

import "fmt"

// Phase identifies the controller's position in the transient state machine.
type Phase int

const (
	Initializing Phase = iota
	Accumulation
	Expansion
	Terminated
	Aborted
)

func (p Phase) String() string {
	switch p {
	case Initializing:
		return "initializing"
	case Accumulation:
		return "accumulation"
	case Expansion:
		return "expansion"
	case Terminated:
		return "terminated"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// SolverResult is the parsed outcome of one external transport calculation.
// Volumes and Masses are id-ordered over the real (non-void) regions;
// FissionProfile excludes the enclosing void region and sums to 1.
type SolverResult struct {
	KEff           float64
	KEffSigma      float64
	KEffPlus2Sigma float64
	Lifetime       float64 // s
	NuBar          float64
	Volumes        []float64 // cm^3
	Masses         []float64 // g
	FissionProfile []float64
}

// TransientState is the controller's view of the system at the end of a tick.
type TransientState struct {
	Time           float64 // s
	Neutrons       float64
	KEff           float64
	KEffPlus2Sigma float64
	Lifetime       float64 // s
	NuBar          float64
	TotalFissions  float64
	MaxTemperature float64 // K
	Phase          Phase
	FissionProfile []float64
}
