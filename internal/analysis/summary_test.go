package analysis

import (
	"errors"
	"math"
	"testing"

	"critsim/internal/model"
	"critsim/internal/storage"
)

func TestSummarizeEmptySeries(t *testing.T) {
	if _, err := Summarize(&storage.Series{}); !errors.Is(err, model.ErrDataUnavailable) {
		t.Fatalf("expected data-unavailable for empty series, got %v", err)
	}
}

func TestSummarizePeaksAndTotals(t *testing.T) {
	s := &storage.Series{
		Times:         []float64{0, 0.001, 0.002, 0.003},
		TotalFissions: []float64{1e9, 4e9, 2e9, 1e9},
		MaxTemps:      []float64{300, 301, 305, 304},
		Lifetimes:     []float64{4e-5, 4e-5, 4e-5, 4e-5},
		KEff:          []float64{1.005, 1.002, 0.999, 0.997},
	}
	sum, err := Summarize(s)
	if err != nil {
		t.Fatal(err)
	}

	if sum.Ticks != 4 {
		t.Errorf("ticks = %d", sum.Ticks)
	}
	if sum.Duration != 0.003 {
		t.Errorf("duration = %v", sum.Duration)
	}
	if sum.PeakFissions != 4e9 || sum.PeakFissionsTime != 0.001 {
		t.Errorf("fission peak %v at %v", sum.PeakFissions, sum.PeakFissionsTime)
	}
	if sum.PeakTemperature != 305 || sum.PeakTempTime != 0.002 {
		t.Errorf("temp peak %v at %v", sum.PeakTemperature, sum.PeakTempTime)
	}
	if sum.PeakKEff != 1.005 {
		t.Errorf("peak keff = %v", sum.PeakKEff)
	}
	if sum.TotalFissions != 8e9 {
		t.Errorf("total fissions = %v", sum.TotalFissions)
	}
	if sum.MeanLifetime != 4e-5 {
		t.Errorf("mean lifetime = %v", sum.MeanLifetime)
	}
}

func TestSummarizeSupercriticalTime(t *testing.T) {
	// Intervals are attributed to the sample that closes them. Samples at
	// t=0.001 and t=0.002 are supercritical, so two 1 ms intervals count.
	s := &storage.Series{
		Times:         []float64{0, 0.001, 0.002, 0.003},
		TotalFissions: []float64{1e9, 1e9, 1e9, 1e9},
		MaxTemps:      []float64{300, 300, 300, 300},
		Lifetimes:     []float64{4e-5, 4e-5, 4e-5, 4e-5},
		KEff:          []float64{0.99, 1.01, 1.005, 0.998},
	}
	sum, err := Summarize(s)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(sum.SupercriticalSec-0.002) > 1e-12 {
		t.Errorf("supercritical time = %v, want 0.002", sum.SupercriticalSec)
	}
	if sum.DoublingTime != 0 {
		t.Errorf("doubling time = %v, want 0 for flat fission rate", sum.DoublingTime)
	}
}

func TestSummarizeDoublingTime(t *testing.T) {
	// Fission rate doubles across the first interval, so the doubling time
	// equals the interval itself.
	s := &storage.Series{
		Times:         []float64{0, 0.001, 0.002},
		TotalFissions: []float64{1e9, 2e9, 2.5e9},
		MaxTemps:      []float64{300, 300, 300},
		Lifetimes:     []float64{4e-5, 4e-5, 4e-5},
		KEff:          []float64{1.002, 1.002, 1.001},
	}
	sum, err := Summarize(s)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(sum.DoublingTime-0.001) > 1e-12 {
		t.Errorf("doubling time = %v, want 0.001", sum.DoublingTime)
	}
}
