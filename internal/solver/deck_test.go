package solver

import (
	"strings"
	"testing"

	"critsim/internal/region"
)

func testGrid(t *testing.T) *region.Grid {
	t.Helper()
	g, err := region.Build(region.Spec{
		Nuclides:        []string{"h", "u-235"},
		NumberDensities: []float64{6.258e-2, 1.686e-4},
		NumAxial:        4,
		NumRadial:       3,
		TotalHeight:     53.0,
		TotalRadius:     15.0,
		AmbientTemp:     300.0,
	}, 53.0, nil)
	if err != nil {
		t.Fatalf("build grid: %v", err)
	}
	return g
}

func TestWriteDeck(t *testing.T) {
	snap := TakeSnapshot(testGrid(t), 53.0, "transient")

	var buf strings.Builder
	if err := WriteDeck(&buf, snap, true); err != nil {
		t.Fatalf("write deck: %v", err)
	}
	deck := buf.String()

	for _, want := range []string{
		"=csas6",
		"read composition",
		" h       1 0 0.06258 300   end",
		" u-235       12 0 0.0001686 300   end",
		"end composition",
		"read celldata",
		"read parameter",
		" gen=406",
		"read geometry",
		// Enclosing void cylinder at id N+1, one past the grid.
		" cylinder 13       16       54       -1",
		" media 1 1 1\n",
		" media 2 1 2 -1",
		" media 0 13 -3 -6 -9 -12",
		" boundary 13",
		"read volume",
		"  type=trace",
		"end data",
	} {
		if !strings.Contains(deck, want) {
			t.Errorf("deck missing %q", want)
		}
	}
}

func TestWriteDeckWithoutVolumeDirective(t *testing.T) {
	snap := TakeSnapshot(testGrid(t), 53.0, "transient")

	var buf strings.Builder
	if err := WriteDeck(&buf, snap, false); err != nil {
		t.Fatalf("write deck: %v", err)
	}
	if strings.Contains(buf.String(), "read volume") {
		t.Error("deck should omit the volume directive when volumes are trusted locally")
	}
}

func TestTakeSnapshot(t *testing.T) {
	g := testGrid(t)
	snap := TakeSnapshot(g, 53.0, "transient0010")

	if snap.Tag != "transient0010" {
		t.Errorf("tag = %q", snap.Tag)
	}
	if len(snap.Geometry) != 12 {
		t.Fatalf("expected 12 geometry records, got %d", len(snap.Geometry))
	}
	if len(snap.Composition) != 24 {
		t.Fatalf("expected 24 composition records, got %d", len(snap.Composition))
	}
	if snap.Geometry[11].ID != 12 {
		t.Errorf("geometry records must be id-ordered, last id = %d", snap.Geometry[11].ID)
	}
	if snap.NumRadial != 3 || snap.TotalRadius != 15.0 {
		t.Errorf("snapshot shape = %d radial, radius %v", snap.NumRadial, snap.TotalRadius)
	}
}
