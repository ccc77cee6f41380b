package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"geosimplify/internal/geom"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

// layout returns the map origin and size for the current window, matching View.
func (m Model) layout() (originX, originY, w, h int) {
	sw := 0
	if m.showSidebar {
		sw = sidebarWidth
		originX = sw + 1
	}
	w = max(10, max(10, m.width)-sw-1)
	h = max(4, m.height-headerHeight-footerHeight)
	return originX, headerHeight, w, h
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.height-1-2) // provisional; will be refined in View
		}
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "[":
			m.setTolerance(m.tolerance / 2)
		case "]":
			m.setTolerance(m.tolerance * 2)
		case "g":
			m.highQuality = !m.highQuality
			m.resimplify()
			m.status = m.summary()
		case "o":
			m.showOriginal = !m.showOriginal
			m.status = fmt.Sprintf("original: %v", m.showOriginal)
		case "s":
			m.showSimplified = !m.showSimplified
			m.status = fmt.Sprintf("simplified: %v", m.showSimplified)
		case "f":
			m.fill = !m.fill
			m.status = fmt.Sprintf("fill: %v", m.fill)
		case "l":
			// toggle both layers
			all := m.showOriginal && m.showSimplified
			m.showOriginal = !all
			m.showSimplified = !all
			m.status = fmt.Sprintf("layers: original=%v simplified=%v", m.showOriginal, m.showSimplified)
		case "+", "=":
			if m.zoom < 64 {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > 0.05 {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
				m.l.SetSize(sidebarWidth-2, m.height-1-2)
			}
		case "p":
			m.pasteMode = true
			m.ta.SetValue("")
			m.status = "paste mode"
			m.ta.Focus()
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrsFromCurrent()
			}
		case "i":
			m.inspect()
		case "esc":
			m.inspectPopup = ""
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
				}
			}
		case "up":
			m.offsetY -= 1
		case "down":
			m.offsetY += 1
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	case tea.MouseMsg:
		m.hover(msg.X, msg.Y)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.status = "view mode"
		m.ta.Blur()
		return m, nil
	case "enter":
		w := strings.TrimSpace(m.ta.Value())
		if w == "" {
			m.status = "paste: empty"
			return m, nil
		}
		fs, err := geom.DecodeWKT([]byte(w))
		if err != nil {
			m.status = "wkt error: " + err.Error()
			return m, nil
		}
		m.selPath = ""
		m.setFeatures(fs)
		m.status = "rendered WKT  " + m.summary()
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

func (m *Model) inspect() {
	lon, lat, ok := m.inspectNearest()
	if !ok {
		m.inspectPopup = "no feature nearby"
		m.status = m.inspectPopup
		return
	}
	name := filepath.Base(m.selPath)
	if m.selPath == "" {
		name = "<pasted>"
	}
	st, failed, _ := m.totals()
	meta := []string{
		fmt.Sprintf("name: %s", name),
		fmt.Sprintf("path: %s", m.selPath),
		fmt.Sprintf("bbox: [%.5f, %.5f, %.5f, %.5f]", m.bbox.MinX, m.bbox.MinY, m.bbox.MaxX, m.bbox.MaxY),
		fmt.Sprintf("features: %d (%d failed)", len(m.features), failed),
		fmt.Sprintf("tolerance: %g  high quality: %v", m.tolerance, m.highQuality),
		fmt.Sprintf("vertices: %d -> %d", st.InputCoords, st.OutputCoords),
		fmt.Sprintf("repair iterations: %d", st.RepairIterations),
		fmt.Sprintf("nearest: lon=%.6f lat=%.6f", lon, lat),
	}
	m.inspectPopup = strings.Join(meta, "\n")
	m.status = "inspect popup"
}

// hover tracks the vertex nearest to the mouse cell over the map area.
func (m *Model) hover(cx, cy int) {
	ox, oy, w, h := m.layout()
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, h-2)
	}
	if cx < ox || cx >= ox+w || cy < oy || cy >= oy+h {
		m.hovering = false
		return
	}
	m.hovering = true
	m.hoverCellX = cx - ox
	m.hoverCellY = cy - oy
	m.hoverLon, m.hoverLat, m.hoverHasGeo = m.cellToLonLat(m.hoverCellX, m.hoverCellY, w, h)

	hxMic := m.hoverCellX * 2
	hyMic := m.hoverCellY * 4
	best := -1
	bx, by := hxMic, hyMic
	for _, d := range m.visibleData() {
		forEachVertex(d, func(p [2]float64) {
			mx, my, ok := m.screenXYMicro(p[0], p[1], w, h)
			if !ok {
				return
			}
			dx, dy := mx-hxMic, my-hyMic
			if dd := dx*dx + dy*dy; best < 0 || dd < best {
				best, bx, by = dd, mx, my
			}
		})
	}
	m.hoverMicX, m.hoverMicY = bx, by
}
