// Package analysis derives summary quantities from a recorded transient
// series: peak values, when they occurred, and how fast the fission rate
// grew while the system was supercritical.
package analysis

import (
	"fmt"
	"math"

	"critsim/internal/model"
	"critsim/internal/storage"
)

// Summary condenses a run's tick history into headline figures.
type Summary struct {
	Ticks            int
	Duration         float64 // s, from first to last recorded tick
	PeakFissions     float64 // fissions in the hottest tick
	PeakFissionsTime float64 // s
	PeakTemperature  float64 // K
	PeakTempTime     float64 // s
	PeakKEff         float64
	SupercriticalSec float64 // recorded time spent at k-eff > 1
	DoublingTime     float64 // s, shortest observed; 0 if the rate never grew
	TotalFissions    float64 // summed over all recorded ticks
	MeanLifetime     float64 // s
}

// Summarize walks the recorded series once. It needs at least one sample.
func Summarize(s *storage.Series) (*Summary, error) {
	n := len(s.Times)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty series", model.ErrDataUnavailable)
	}

	sum := &Summary{
		Ticks:            n,
		Duration:         s.Times[n-1] - s.Times[0],
		PeakFissions:     s.TotalFissions[0],
		PeakFissionsTime: s.Times[0],
		PeakTemperature:  s.MaxTemps[0],
		PeakTempTime:     s.Times[0],
	}

	lifetimeSum := 0.0
	for i := 0; i < n; i++ {
		sum.TotalFissions += s.TotalFissions[i]
		lifetimeSum += s.Lifetimes[i]

		if s.TotalFissions[i] > sum.PeakFissions {
			sum.PeakFissions = s.TotalFissions[i]
			sum.PeakFissionsTime = s.Times[i]
		}
		if s.MaxTemps[i] > sum.PeakTemperature {
			sum.PeakTemperature = s.MaxTemps[i]
			sum.PeakTempTime = s.Times[i]
		}
		if s.KEff[i] > sum.PeakKEff {
			sum.PeakKEff = s.KEff[i]
		}

		if i == 0 {
			continue
		}
		dt := s.Times[i] - s.Times[i-1]
		if s.KEff[i] > 1 {
			sum.SupercriticalSec += dt
		}
		// Shortest doubling time over any recorded interval with growth.
		if prev := s.TotalFissions[i-1]; prev > 0 && s.TotalFissions[i] > prev && dt > 0 {
			td := dt * math.Ln2 / math.Log(s.TotalFissions[i]/prev)
			if sum.DoublingTime == 0 || td < sum.DoublingTime {
				sum.DoublingTime = td
			}
		}
	}
	sum.MeanLifetime = lifetimeSum / float64(n)

	return sum, nil
}
