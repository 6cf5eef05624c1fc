package transient

import (
	"bytes"
	"strings"
	"testing"

	"critsim/internal/model"
)

func TestRecorderHeader(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf, 4)

	if err := rec.WriteHeader(); err != nil {
		t.Fatalf("write header: %v", err)
	}
	want := "Time (s), Total Fissions, Max Temperature, Neutron Lifetime (s), k-eff, k-eff+2sigma\n"
	if buf.String() != want {
		t.Errorf("header = %q, want %q", buf.String(), want)
	}
}

func TestRecorderRow(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf, 4)

	st := model.TransientState{
		Time:           0.001,
		TotalFissions:  4.167e9,
		MaxTemperature: 301.25,
		Lifetime:       4.5e-5,
		KEff:           0.98765,
		KEffPlus2Sigma: 0.99011,
	}
	if err := rec.Record(st); err != nil {
		t.Fatalf("record: %v", err)
	}

	row := buf.String()
	fields := strings.Split(strings.TrimSuffix(row, "\n"), ", ")
	if len(fields) != 6 {
		t.Fatalf("row has %d fields: %q", len(fields), row)
	}
	if fields[0] != "0.0010" {
		t.Errorf("time field = %q, want fixed precision 0.0010", fields[0])
	}
	if !strings.Contains(fields[1], "E+") {
		t.Errorf("fission field = %q, want scientific notation", fields[1])
	}
	if fields[4] != "0.98765" {
		t.Errorf("k-eff field = %q", fields[4])
	}
}

func TestRecorderPrecisionFollowsTimestep(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf, 6)

	if err := rec.Record(model.TransientState{Time: 1e-5}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "0.000010, ") {
		t.Errorf("row = %q, want time at 6 decimals", buf.String())
	}
}
