package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"geosimplify/internal/geom"
)

// cellToLonLat converts a map cell coordinate back to lon/lat using bbox, zoom, and pan.
func (m Model) cellToLonLat(cx, cy, w, h int) (float64, float64, bool) {
	if !m.bbox.HasArea() {
		return 0, 0, false
	}
	if w <= 1 || h <= 1 {
		return 0, 0, false
	}
	zx := float64(cx-m.offsetX) / float64(w-1)
	zy := 1.0 - float64(cy-m.offsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	lon := m.bbox.MinX + nx*(m.bbox.MaxX-m.bbox.MinX)
	lat := m.bbox.MinY + ny*(m.bbox.MaxY-m.bbox.MinY)
	return lon, lat, true
}

// renderAsciiMap draws the original layer dimmed and the simplified layer on
// top of it in the accent color.
func (m Model) renderAsciiMap(w, h int) string {
	var orig, simp *brailleBuf
	if m.showOriginal {
		orig = newBrailleBuf(w, h)
		m.drawData(orig, m.origData, false)
	}
	if m.showSimplified {
		simp = newBrailleBuf(w, h)
		m.drawData(simp, m.simpData, m.fill)
	}
	hx, hy := -1, -1
	if m.hovering {
		hx, hy = m.hoverMicX/2, m.hoverMicY/4
	}
	return strings.Join(compose(w, h, orig, simp, hx, hy), "\n")
}

func (m Model) drawData(br *brailleBuf, d geom.Data, fill bool) {
	w, h := br.w, br.h
	for _, poly := range d.Polygons {
		var ringsMic [][][2]int
		for _, ring := range poly {
			var sm [][2]int
			for _, p := range ring {
				mx, my, ok := m.screenXYMicro(p[0], p[1], w, h)
				if !ok {
					continue
				}
				sm = append(sm, [2]int{mx, my})
			}
			if len(sm) >= 3 {
				ringsMic = append(ringsMic, sm)
			}
		}
		if fill && len(ringsMic) > 0 {
			fillEvenOdd(br, ringsMic, h*4)
		}
		for _, r := range ringsMic {
			for i := 0; i < len(r); i++ {
				a := r[i]
				b := r[(i+1)%len(r)]
				br.drawLineMicro(a[0], a[1], b[0], b[1])
			}
		}
	}
	for _, ls := range d.Lines {
		var prev *[2]int
		for _, p := range ls {
			mx, my, ok := m.screenXYMicro(p[0], p[1], w, h)
			if !ok {
				continue
			}
			if prev != nil {
				br.drawLineMicro(prev[0], prev[1], mx, my)
			} else {
				br.setPixel(mx, my)
			}
			prev = &[2]int{mx, my}
		}
	}
}

// fillEvenOdd fills rings per microgrid scanline. Crossings from every ring are
// pooled so holes stay empty.
func fillEvenOdd(br *brailleBuf, rings [][][2]int, hMic int) {
	for yMic := 0; yMic < hMic; yMic++ {
		var xs []int
		for _, r := range rings {
			for i := 0; i < len(r); i++ {
				a := r[i]
				b := r[(i+1)%len(r)]
				if a[1] == b[1] { // horizontal edge: skip
					continue
				}
				y0, y1 := a[1], b[1]
				x0, x1 := a[0], b[0]
				if (yMic >= y0 && yMic < y1) || (yMic >= y1 && yMic < y0) {
					t := float64(yMic-y0) / float64(y1-y0)
					xs = append(xs, int(float64(x0)+t*float64(x1-x0)))
				}
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for xMic := max(0, xs[i]); xMic <= xs[i+1]; xMic++ {
				br.setPixel(xMic, yMic)
			}
		}
	}
}

type cellLayer int

const (
	layerNone cellLayer = iota
	layerOrig
	layerSimp
	layerHover
)

var layerStyles = map[cellLayer]lipgloss.Style{
	layerOrig:  origStyle,
	layerSimp:  simpStyle,
	layerHover: hoverStyle,
}

// compose overlays the simplified buffer on the original one and styles each
// run of cells by the layer it came from. Either buffer may be nil.
func compose(w, h int, orig, simp *brailleBuf, hx, hy int) []string {
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		var (
			sb   strings.Builder
			run  []rune
			prev = layerNone
		)
		flush := func() {
			if len(run) == 0 {
				return
			}
			if st, ok := layerStyles[prev]; ok {
				sb.WriteString(st.Render(string(run)))
			} else {
				sb.WriteString(string(run))
			}
			run = run[:0]
		}
		for x := 0; x < w; x++ {
			r, layer := ' ', layerNone
			if orig != nil && orig.m[y][x] != 0 {
				r, layer = orig.cell(x, y), layerOrig
			}
			if simp != nil && simp.m[y][x] != 0 {
				r, layer = simp.cell(x, y), layerSimp
			}
			if x == hx && y == hy {
				r, layer = '◯', layerHover
			}
			if layer != prev {
				flush()
				prev = layer
			}
			run = append(run, r)
		}
		flush()
		lines[y] = sb.String()
	}
	return lines
}

// screenXYMicro maps lon/lat into a 2x4 microgrid per cell for braille rendering.
func (m Model) screenXYMicro(lon, lat float64, w, h int) (int, int, bool) {
	if !m.bbox.HasArea() {
		return 0, 0, false
	}
	nx := (lon - m.bbox.MinX) / (m.bbox.MaxX - m.bbox.MinX)
	ny := (lat - m.bbox.MinY) / (m.bbox.MaxY - m.bbox.MinY)
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	wMic := w * 2
	hMic := h * 4
	sx := int(zx*float64(wMic-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(hMic-1)) + m.offsetY*4
	return sx, sy, true
}

// screenXY maps lon/lat to current screen integer coordinates considering zoom and pan.
func (m Model) screenXY(lon, lat float64, w, h int) (int, int, bool) {
	if !m.bbox.HasArea() {
		return 0, 0, false
	}
	nx := (lon - m.bbox.MinX) / (m.bbox.MaxX - m.bbox.MinX)
	ny := (lat - m.bbox.MinY) / (m.bbox.MaxY - m.bbox.MinY)
	// Apply zoom around center (0.5, 0.5)
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	sx := int(zx*float64(w-1)) + m.offsetX
	sy := int((1.0-zy)*float64(h-1)) + m.offsetY
	return sx, sy, true
}

// visibleData returns the layers currently drawn, simplified first.
func (m Model) visibleData() []geom.Data {
	var out []geom.Data
	if m.showSimplified {
		out = append(out, m.simpData)
	}
	if m.showOriginal {
		out = append(out, m.origData)
	}
	return out
}

func forEachVertex(d geom.Data, fn func(p [2]float64)) {
	for _, ls := range d.Lines {
		for _, p := range ls {
			fn(p)
		}
	}
	for _, poly := range d.Polygons {
		for _, ring := range poly {
			for _, p := range ring {
				fn(p)
			}
		}
	}
}

// inspectNearest finds the visible vertex closest to the viewport center.
func (m Model) inspectNearest() (lon, lat float64, ok bool) {
	_, _, w, h := m.layout()
	cx, cy := w/2, h/2
	bestD := -1
	var best [2]float64
	for _, d := range m.visibleData() {
		forEachVertex(d, func(p [2]float64) {
			sx, sy, ok := m.screenXY(p[0], p[1], w, h)
			if !ok {
				return
			}
			dx, dy := sx-cx, sy-cy
			if dd := dx*dx + dy*dy; bestD < 0 || dd < bestD {
				bestD, best = dd, p
			}
		})
	}
	if bestD < 0 {
		return 0, 0, false
	}
	return best[0], best[1], true
}
