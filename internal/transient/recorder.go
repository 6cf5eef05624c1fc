package transient

import (
	"fmt"
	"io"

	"critsim/internal/model"
)

// Recorder appends one comma-delimited record per tick to the results sink.
// Simulated time is written at a fixed precision derived from the timestep's
// order of magnitude; fission counts in scientific notation.
type Recorder struct {
	w             io.Writer
	timePrecision int
}

func NewRecorder(w io.Writer, timePrecision int) *Recorder {
	return &Recorder{w: w, timePrecision: timePrecision}
}

func (r *Recorder) WriteHeader() error {
	_, err := fmt.Fprint(r.w, "Time (s), Total Fissions, Max Temperature, Neutron Lifetime (s), k-eff, k-eff+2sigma\n")
	return err
}

func (r *Recorder) Record(st model.TransientState) error {
	_, err := fmt.Fprintf(r.w, "%.*f, %E, %v, %v, %v, %v\n",
		r.timePrecision, st.Time, st.TotalFissions, st.MaxTemperature,
		st.Lifetime, st.KEff, st.KEffPlus2Sigma)
	return err
}
