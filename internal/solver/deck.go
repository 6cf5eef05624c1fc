package solver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteDeck renders the snapshot as a CSAS6-style input deck. The grammar is
// an opaque templated payload for the external code: a composition section,
// cross-section cell data, a parameter block, the nested-cylinder geometry
// with an enclosing void cylinder at id N+1, the media/exclusion mapping,
// and (optionally) a volume-trace directive.
func WriteDeck(w io.Writer, snap Snapshot, volcalc bool) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "'Input generated for SCALE 6.1 by critsim")
	fmt.Fprintln(bw, "'batch_args \\-m")
	fmt.Fprintln(bw, "=csas6")
	fmt.Fprintln(bw, "solutionmodel")
	fmt.Fprintln(bw, "v7-238")

	fmt.Fprintln(bw, "read composition")
	for _, c := range snap.Composition {
		fmt.Fprintf(bw, " %s       %d 0 %s %s   end\n",
			c.Nuclide, c.RegionID, formatDeck(c.NumberDensity), formatDeck(c.Temperature))
	}
	fmt.Fprintln(bw, "end composition")

	fmt.Fprintln(bw, "read celldata")
	fmt.Fprintln(bw, "  multiregion cylindrical left_bdy=reflected right_bdy=vacuum end")
	fmt.Fprintf(bw, "           1           %s  \n", formatDeck(snap.TotalRadius))
	fmt.Fprintln(bw, "      end zone")
	fmt.Fprintln(bw, "end celldata")

	// Material interfaces bias the k-eff boundary residuals, so the
	// generation count is doubled from the code's default 203.
	fmt.Fprintln(bw, "read parameter")
	fmt.Fprintln(bw, " gen=406")
	fmt.Fprintln(bw, " htm=no")
	fmt.Fprintln(bw, " wrs=35")
	fmt.Fprintln(bw, "end parameter")

	fmt.Fprintln(bw, "read geometry")
	fmt.Fprintln(bw, "global unit 1")
	fmt.Fprintln(bw, "com=\"global unit 1\"")
	for _, g := range snap.Geometry {
		fmt.Fprintf(bw, " cylinder %d       %s       %s        %s\n",
			g.ID, formatDeck(g.Radius), formatDeck(g.Height), formatDeck(g.BaseHeight))
	}
	void := len(snap.Geometry) + 1
	fmt.Fprintf(bw, " cylinder %d       %s       %s       -1\n",
		void, formatDeck(snap.TotalRadius+1), formatDeck(snap.TotalHeight+1))

	for i, g := range snap.Geometry {
		if i%snap.NumRadial != 0 {
			fmt.Fprintf(bw, " media %d 1 %d -%d\n", g.ID, g.ID, g.ID-1)
		} else {
			fmt.Fprintf(bw, " media %d 1 %d\n", g.ID, g.ID)
		}
	}
	// The void medium excludes each row's outermost cylinder.
	fmt.Fprintf(bw, " media 0 %d", void)
	for _, g := range snap.Geometry {
		if g.ID%snap.NumRadial == 0 {
			fmt.Fprintf(bw, " -%d", g.ID)
		}
	}
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, " boundary %d\n", void)
	fmt.Fprintln(bw, "end geometry")

	if volcalc {
		fmt.Fprintln(bw, "read volume")
		fmt.Fprintln(bw, "  type=trace")
		fmt.Fprintln(bw, "end volume")
	}
	fmt.Fprintln(bw, "end data")
	fmt.Fprintln(bw, "end")

	return bw.Flush()
}

func formatDeck(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
