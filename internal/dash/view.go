package dash

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pipeplot/internal/extract"
	"github.com/rileyhilliard/pipeplot/internal/series"
)

// minPanelWidth is the narrowest useful chart panel; below this the auto
// layout stacks panels vertically instead.
const minPanelWidth = 48

// View renders the dashboard from the last committed snapshot. Rendering
// reads only model state, never the store, so it cannot block ingestion.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	footer := m.renderFooter()
	bodyHeight := m.height - lipgloss.Height(footer)
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	var body string
	switch {
	case len(m.snapshot) == 0:
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center,
			WaitingStyle.Render("waiting for data on stdin…"))
	case m.opts.Group:
		body = m.renderGroupedPanels(m.snapshot, m.width, bodyHeight)
	default:
		body = m.renderSharedPanel(m.snapshot, m.width, bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

// renderGroupedPanels draws one panel per series, arranged per the layout
// flag. Auto stacks vertically once panels would get too narrow.
func (m Model) renderGroupedPanels(views []series.View, width, height int) string {
	n := len(views)

	horizontal := false
	switch m.opts.Layout {
	case LayoutHorizontal:
		horizontal = true
	case LayoutVertical:
		horizontal = false
	default:
		horizontal = width/n >= minPanelWidth
	}

	panels := make([]string, 0, n)
	if horizontal {
		panelWidth := width / n
		for slot, v := range views {
			panels = append(panels, m.renderSeriesPanel(v, slot, panelWidth, height))
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
	}

	panelHeight := height / n
	if panelHeight < 4 {
		panelHeight = 4
	}
	for slot, v := range views {
		panels = append(panels, m.renderSeriesPanel(v, slot, width, panelHeight))
	}
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

// renderSeriesPanel draws a single series as a sparkline panel with a
// stats header and a time axis along the bottom.
func (m Model) renderSeriesPanel(v series.View, slot, width, height int) string {
	innerWidth := width - 2
	innerHeight := height - 2
	if innerWidth < 4 || innerHeight < 3 {
		return PanelStyle.Render("…")
	}

	header := m.renderPanelHeader(v, slot, innerWidth)

	chartHeight := innerHeight - 2
	if chartHeight < 1 {
		chartHeight = 1
	}

	// Scale to the series' own observed window so flat-ish data still
	// shows shape.
	span := v.Max - v.Min
	if span <= 0 {
		span = 1
	}
	sl := sparkline.New(innerWidth, chartHeight,
		sparkline.WithMaxValue(span),
		sparkline.WithStyle(lipgloss.NewStyle().Foreground(seriesColor(slot))))
	for _, s := range v.Samples {
		sl.Push(s.Value - v.Min)
	}
	sl.Draw()

	axis := m.renderTimeAxis(innerWidth)

	content := lipgloss.JoinVertical(lipgloss.Left, header, sl.View(), axis)
	return PanelStyle.Width(innerWidth).Height(innerHeight).Render(content)
}

// renderPanelHeader lays out the stats line on the left and the series
// title on the right, the way the panel header reads in a single row.
func (m Model) renderPanelHeader(v series.View, slot, width int) string {
	unit := m.opts.displayUnit(slot, v.Unit)
	stats := StatsStyle.Render(fmt.Sprintf("Avg: %s  Min: %s  Max: %s",
		extract.FormatValue(v.Avg, unit.Category),
		extract.FormatValue(v.Min, unit.Category),
		extract.FormatValue(v.Max, unit.Category)))
	title := TitleStyle.Render(m.opts.title(slot))

	gap := width - lipgloss.Width(stats) - lipgloss.Width(title)
	if gap < 1 {
		return stats
	}
	return stats + strings.Repeat(" ", gap) + title
}

// renderTimeAxis draws a bottom axis with a marker every 30 ticks,
// labelled in seconds of history (newest data is at the right edge).
func (m Model) renderTimeAxis(width int) string {
	row := []rune(strings.Repeat("─", width))
	secondsPerTick := m.opts.TickInterval.Seconds()

	for ticks := 30; ticks < width; ticks += 30 {
		pos := width - 1 - ticks
		if pos < 0 {
			break
		}
		label := fmt.Sprintf("%.0fs", float64(ticks)*secondsPerTick)
		if pos+1+len(label) > width {
			break
		}
		row[pos] = '├'
		copy(row[pos+1:], []rune(label))
	}

	return AxisStyle.Render(string(row))
}

// renderSharedPanel draws every series into one time-series line chart
// with a legend underneath.
func (m Model) renderSharedPanel(views []series.View, width, height int) string {
	innerWidth := width - 2
	innerHeight := height - 2
	legendHeight := 1
	chartHeight := innerHeight - legendHeight
	if innerWidth < 8 || chartHeight < 2 {
		return PanelStyle.Render("…")
	}

	minY, maxY := globalRange(views)

	tslc := timeserieslinechart.New(innerWidth, chartHeight)
	tslc.AxisStyle = AxisStyle
	tslc.LabelStyle = LegendStyle
	tslc.XLabelFormatter = timeserieslinechart.HourTimeLabelFormatter()
	tslc.SetYRange(minY, maxY)
	tslc.SetViewYRange(minY, maxY)
	tslc.SetLineStyle(runes.ThinLineStyle)

	var legend strings.Builder
	for slot, v := range views {
		name := m.opts.title(slot)
		color := seriesColor(slot)
		tslc.SetDataSetStyle(name, lipgloss.NewStyle().Foreground(color))
		for _, s := range v.Samples {
			tslc.PushDataSet(name, timeserieslinechart.TimePoint{Time: s.At, Value: s.Value})
		}

		if slot > 0 {
			legend.WriteString("  ")
		}
		unit := m.opts.displayUnit(slot, v.Unit)
		last := 0.0
		if len(v.Samples) > 0 {
			last = v.Samples[len(v.Samples)-1].Value
		}
		legend.WriteString(lipgloss.NewStyle().Foreground(color).
			Render(fmt.Sprintf("%c %s %s", runes.FullBlock, name,
				extract.FormatValue(last, unit.Category))))
	}
	tslc.DrawBrailleAll()

	content := lipgloss.JoinVertical(lipgloss.Left, tslc.View(), legend.String())
	return PanelStyle.Width(innerWidth).Height(innerHeight).Render(content)
}

// globalRange returns the min/max across all series for shared-panel
// scaling.
func globalRange(views []series.View) (float64, float64) {
	first := true
	minY, maxY := 0.0, 1.0
	for _, v := range views {
		if len(v.Samples) == 0 {
			continue
		}
		if first {
			minY, maxY = v.Min, v.Max
			first = false
			continue
		}
		if v.Min < minY {
			minY = v.Min
		}
		if v.Max > maxY {
			maxY = v.Max
		}
	}
	if maxY <= minY {
		maxY = minY + 1
	}
	return minY, maxY
}

// renderFooter shows the cadences, series totals, and the key help line.
func (m Model) renderFooter() string {
	tickRate := 0.0
	if m.opts.TickInterval > 0 {
		tickRate = 1 / m.opts.TickInterval.Seconds()
	}

	var total uint64
	for _, v := range m.snapshot {
		total += v.Total
	}
	status := fmt.Sprintf("tick %.1f/s · %.0f fps · %d series · %d samples",
		tickRate, m.fps, len(m.snapshot), total)
	if m.dropped > 0 {
		status += fmt.Sprintf(" · %d dropped", m.dropped)
	}
	if m.eof {
		status += " · input closed"
	}

	return FooterStyle.Render(status + "   " + m.help.View(m.keys))
}
