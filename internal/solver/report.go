package solver

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"critsim/internal/model"
)

var (
	fissionPat  = regexp.MustCompile(`\s+\d?\s+?(\d+)\s+(\S+)\s+\S+\s+(\S+)`)
	lifetimePat = regexp.MustCompile(`\slifetime\s=\s+(\S+)\s`)
	keffPat     = regexp.MustCompile(`k-eff\s+(\S+)\s\+\sor\s-\s(\S+)`)
	nuBarPat    = regexp.MustCompile(`system\snu\sbar\s+(\S+)\s`)
	volumePat   = regexp.MustCompile(`\s+\d?\s*\d?\s*\d+\s+(\d+)\s+(\S+)`)
	massPat     = regexp.MustCompile(`\s+(\d+)\s+\S+\s\+/-\s\S+\s+(\S+)`)
)

// ParseReport extracts the transient quantities from a solver report. The
// fission-density profile is normalized over the real regions, excluding the
// enclosing void at id numRegions+1. Volumes come from the standalone region
// volume table; masses from the combined mixture volume-and-mass table when
// present, otherwise volume times the solution density. When recomputeVolumes
// is set, missing volumes are an error; k-eff, lifetime, nu-bar, and the
// fission profile are always required.
func ParseReport(r io.Reader, numRegions int, density float64, recomputeVolumes bool) (model.SolverResult, error) {
	var res model.SolverResult

	profile := make([]float64, numRegions)
	volumes := make([]float64, numRegions)
	masses := make([]float64, numRegions)
	fissionSum := 0.0
	var haveLifetime, haveKEff, haveNuBar, haveVolumes, haveMasses bool

	const (
		scanNone = iota
		scanFissions
		scanVolumes
		scanMasses
	)
	section := scanNone

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		switch section {
		case scanFissions:
			if strings.Contains(line, "frequency") {
				section = scanNone
				break
			}
			if m := fissionPat.FindStringSubmatch(line); m != nil {
				id, err := strconv.Atoi(m[1])
				if err != nil {
					break
				}
				// Skip the geometric wrapper (void) region.
				if id >= 1 && id <= numRegions {
					v, err := strconv.ParseFloat(m[3], 64)
					if err != nil {
						return res, fmt.Errorf("%w: fission density for region %d: %q", model.ErrDataUnavailable, id, m[3])
					}
					profile[id-1] = v
					fissionSum += v
				}
			}
			continue
		case scanVolumes:
			if strings.Contains(line, "total mixture volume") {
				section = scanNone
				if strings.Contains(line, "total mixture mass") {
					section = scanMasses
				}
				break
			}
			if m := volumePat.FindStringSubmatch(line); m != nil {
				id, err := strconv.Atoi(m[1])
				if err != nil || id < 1 || id > numRegions {
					break
				}
				v, err := strconv.ParseFloat(m[2], 64)
				if err != nil {
					return res, fmt.Errorf("%w: volume for region %d: %q", model.ErrDataUnavailable, id, m[2])
				}
				volumes[id-1] = v
				haveVolumes = true
			}
			continue
		case scanMasses:
			if strings.Contains(line, "biasing information") {
				section = scanNone
				break
			}
			if m := massPat.FindStringSubmatch(line); m != nil {
				id, err := strconv.Atoi(m[1])
				if err != nil || id < 1 || id > numRegions {
					break
				}
				v, err := strconv.ParseFloat(m[2], 64)
				if err != nil {
					return res, fmt.Errorf("%w: mass for region %d: %q", model.ErrDataUnavailable, id, m[2])
				}
				masses[id-1] = v
				haveMasses = true
			}
			continue
		}

		switch {
		case strings.Contains(line, "**** fission densities ****"):
			section = scanFissions
		case strings.Contains(line, "total region volume"):
			section = scanVolumes
		case strings.Contains(line, "total mixture volume") && strings.Contains(line, "total mixture mass"):
			section = scanMasses
		case strings.Contains(line, "lifetime"):
			if m := lifetimePat.FindStringSubmatch(line); m != nil {
				v, err := strconv.ParseFloat(m[1], 64)
				if err != nil {
					return res, fmt.Errorf("%w: lifetime: %q", model.ErrDataUnavailable, m[1])
				}
				res.Lifetime = v
				haveLifetime = true
			}
		case strings.Contains(line, "best estimate system k-eff"):
			if m := keffPat.FindStringSubmatch(line); m != nil {
				k, err1 := strconv.ParseFloat(m[1], 64)
				s, err2 := strconv.ParseFloat(m[2], 64)
				if err1 != nil || err2 != nil {
					return res, fmt.Errorf("%w: k-eff line: %q", model.ErrDataUnavailable, line)
				}
				res.KEff = k
				res.KEffSigma = s
				res.KEffPlus2Sigma = math.Round((k+2*s)*1e5) / 1e5
				haveKEff = true
			}
		case strings.Contains(line, "system nu bar"):
			if m := nuBarPat.FindStringSubmatch(line); m != nil {
				v, err := strconv.ParseFloat(m[1], 64)
				if err != nil {
					return res, fmt.Errorf("%w: nu-bar: %q", model.ErrDataUnavailable, m[1])
				}
				res.NuBar = v
				haveNuBar = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("%w: reading report: %v", model.ErrDataUnavailable, err)
	}

	if !haveKEff {
		return res, fmt.Errorf("%w: no best-estimate k-eff in report", model.ErrDataUnavailable)
	}
	if !haveLifetime {
		return res, fmt.Errorf("%w: no neutron lifetime in report", model.ErrDataUnavailable)
	}
	if !haveNuBar {
		return res, fmt.Errorf("%w: no system nu-bar in report", model.ErrDataUnavailable)
	}
	if fissionSum <= 0 {
		return res, fmt.Errorf("%w: no fission-density table in report", model.ErrDataUnavailable)
	}
	for i := range profile {
		profile[i] /= fissionSum
	}
	res.FissionProfile = profile

	if recomputeVolumes {
		if !haveVolumes {
			return res, fmt.Errorf("%w: no region volume table in report", model.ErrDataUnavailable)
		}
		if !haveMasses {
			if density <= 0 {
				return res, fmt.Errorf("%w: no mixture mass table and no solution density", model.ErrDataUnavailable)
			}
			for i, v := range volumes {
				masses[i] = v * density
			}
		}
		res.Volumes = volumes
		res.Masses = masses
	}

	return res, nil
}
