package tui

import (
	"fmt"

	"geosimplify/internal/geom"
	"geosimplify/internal/simplify"
)

const (
	minTolerance = 1e-12
	maxTolerance = 1e12
)

// setFeatures replaces the source dataset and resets the viewport.
func (m *Model) setFeatures(fs []geom.Feature) {
	m.features = fs
	m.origData = geom.NewData(fs)
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.inspectPopup = ""
	m.resimplify()
}

// resimplify runs every feature through the simplifier at the current settings.
// Failures are kept per feature so the rest of the dataset still renders.
func (m *Model) resimplify() {
	m.results = make([]result, len(m.features))
	var ok []geom.Feature
	for i, f := range m.features {
		out, st, err := m.simp.SimplifyWithStats(f, m.tolerance, m.highQuality)
		m.results[i] = result{out: out, stats: st, err: err}
		if err == nil {
			ok = append(ok, out)
		}
	}
	m.simpData = geom.NewData(ok)
	m.bbox = m.origData.Union(m.simpData)
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
}

func (m Model) totals() (simplify.Stats, int, error) {
	var (
		st     simplify.Stats
		failed int
		first  error
	)
	for _, r := range m.results {
		if r.err != nil {
			failed++
			if first == nil {
				first = r.err
			}
			continue
		}
		st.Add(r.stats)
	}
	return st, failed, first
}

// summary describes the current simplification for the status line.
func (m Model) summary() string {
	st, failed, first := m.totals()
	s := fmt.Sprintf("tol=%g hq=%v  vertices: %d -> %d  repairs=%d",
		m.tolerance, m.highQuality, st.InputCoords, st.OutputCoords, st.RepairIterations)
	if failed > 0 {
		s += fmt.Sprintf("  error (%d of %d): %v", failed, len(m.results), first)
	}
	return s
}

func (m *Model) setTolerance(t float64) {
	if t < minTolerance || t > maxTolerance {
		m.status = fmt.Sprintf("tolerance %g out of range", t)
		return
	}
	m.tolerance = t
	m.resimplify()
	m.status = m.summary()
}
