package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/hfp/internal/tui/tuistyles"
)

// DataSeries represents a single line in a chart
type DataSeries struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
}

// Marker highlights one x position, such as the retirement year.
type Marker struct {
	Index int
	Label string
	Char  rune
}

// ASCIIChart draws one or more series over a shared x axis of years.
type ASCIIChart struct {
	Title      string
	Series     []*DataSeries
	Markers    []Marker
	Labels     []string // X-axis labels
	Width      int
	Height     int
	ShowLegend bool
	XAxisLabel string
}

const yAxisWidth = 12

// NewASCIIChart creates a new ASCII chart
func NewASCIIChart(title string) *ASCIIChart {
	return &ASCIIChart{
		Title:      title,
		Width:      60,
		Height:     15,
		ShowLegend: true,
	}
}

// AddSeries adds a data series to the chart
func (c *ASCIIChart) AddSeries(name string, points []float64, color lipgloss.Color) *ASCIIChart {
	c.Series = append(c.Series, &DataSeries{Name: name, Points: points, Color: color})
	return c
}

// AddMarker draws a vertical guide at the given point index.
func (c *ASCIIChart) AddMarker(index int, label string, char rune) *ASCIIChart {
	c.Markers = append(c.Markers, Marker{Index: index, Label: label, Char: char})
	return c
}

// WithLabels sets the X-axis labels
func (c *ASCIIChart) WithLabels(labels []string) *ASCIIChart {
	c.Labels = labels
	return c
}

// WithSize sets the chart dimensions. Tiny sizes are raised to a usable minimum.
func (c *ASCIIChart) WithSize(width, height int) *ASCIIChart {
	c.Width = max(width, yAxisWidth+10)
	c.Height = max(height, 4)
	return c
}

// Render returns the styled chart
func (c *ASCIIChart) Render() string {
	if c.pointCount() == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var content strings.Builder

	if c.Title != "" {
		content.WriteString(tuistyles.TitleStyle.Render(c.Title))
		content.WriteString("\n\n")
	}

	lo, hi := c.bounds()
	content.WriteString(c.renderGrid(lo, hi))

	if c.XAxisLabel != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).Render(c.XAxisLabel))
	}

	if c.ShowLegend && (len(c.Series) > 1 || len(c.Markers) > 0) {
		content.WriteString("\n\n")
		content.WriteString(c.renderLegend())
	}

	return content.String()
}

func (c *ASCIIChart) pointCount() int {
	n := 0
	for _, s := range c.Series {
		n = max(n, len(s.Points))
	}
	return n
}

// bounds returns the padded value range across all series. A flat range is
// widened so that every value maps to a row.
func (c *ASCIIChart) bounds() (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, series := range c.Series {
		for _, point := range series.Points {
			lo = math.Min(lo, point)
			hi = math.Max(hi, point)
		}
	}

	if hi == lo {
		pad := math.Max(math.Abs(hi)*0.1, 1)
		return lo - pad, hi + pad
	}

	pad := (hi - lo) * 0.1
	return lo - pad, hi + pad
}

func (c *ASCIIChart) column(i, n, chartWidth int) int {
	if n <= 1 {
		return 0
	}
	return int(float64(i) / float64(n-1) * float64(chartWidth-1))
}

func (c *ASCIIChart) row(v, lo, hi float64) int {
	return c.Height - 1 - int((v-lo)/(hi-lo)*float64(c.Height-1))
}

func (c *ASCIIChart) renderGrid(lo, hi float64) string {
	chartWidth := c.Width - yAxisWidth
	n := c.pointCount()

	grid := make([][]rune, c.Height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", chartWidth))
	}

	for _, m := range c.Markers {
		if m.Index < 0 || m.Index >= n {
			continue
		}
		x := c.column(m.Index, n, chartWidth)
		for y := range grid {
			grid[y][x] = '┊'
		}
	}

	for seriesIdx, series := range c.Series {
		pointChar := seriesChar(seriesIdx)
		prevX, prevY := -1, -1
		for i, point := range series.Points {
			x := c.column(i, n, chartWidth)
			y := c.row(point, lo, hi)
			if prevX >= 0 {
				drawLine(grid, prevX, prevY, x, y)
			}
			if y >= 0 && y < c.Height {
				grid[y][x] = pointChar
			}
			prevX, prevY = x, y
		}
	}

	var output strings.Builder
	yAxisStyle := lipgloss.NewStyle().
		Foreground(tuistyles.ColorMuted).
		Width(yAxisWidth).
		Align(lipgloss.Right)

	for i, row := range grid {
		yValue := hi - (float64(i)/float64(c.Height-1))*(hi-lo)
		output.WriteString(yAxisStyle.Render(formatChartValue(yValue)))
		output.WriteString(" │ ")
		output.WriteString(string(row))
		output.WriteString("\n")
	}

	output.WriteString(strings.Repeat(" ", yAxisWidth))
	output.WriteString(" └")
	output.WriteString(strings.Repeat("─", chartWidth+1))
	output.WriteString("\n")

	if len(c.Labels) > 0 {
		output.WriteString(c.renderXAxisLabels(chartWidth))
	}

	return output.String()
}

func seriesChar(index int) rune {
	chars := []rune{'●', '■', '▲', '♦'}
	return chars[index%len(chars)]
}

// drawLine connects two grid cells with Bresenham's algorithm. Only blank
// cells and marker guides are overwritten.
func drawLine(grid [][]rune, x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)

	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}

	err := dx - dy
	x, y := x0, y0

	for {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
			if grid[y][x] == ' ' || grid[y][x] == '┊' {
				grid[y][x] = '·'
			}
		}
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// renderXAxisLabels places up to five labels at their column positions.
func (c *ASCIIChart) renderXAxisLabels(chartWidth int) string {
	const maxLabels = 5
	step := max(1, (len(c.Labels)+maxLabels-1)/maxLabels)

	line := []rune(strings.Repeat(" ", chartWidth+8))
	for i := 0; i < len(c.Labels); i += step {
		x := c.column(i, len(c.Labels), chartWidth)
		for j, r := range []rune(c.Labels[i]) {
			if x+j < len(line) {
				line[x+j] = r
			}
		}
	}

	return strings.Repeat(" ", yAxisWidth+3) +
		lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(strings.TrimRight(string(line), " "))
}

func (c *ASCIIChart) renderLegend() string {
	var items []string

	for i, series := range c.Series {
		symbol := lipgloss.NewStyle().Foreground(series.Color).Render(string(seriesChar(i)))
		items = append(items, fmt.Sprintf("%s %s", symbol, series.Name))
	}
	for _, m := range c.Markers {
		items = append(items, fmt.Sprintf("┊ %s", m.Label))
	}

	return lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("Legend: " + strings.Join(items, " • "))
}

// formatChartValue renders a y-axis value in units of ten thousand.
func formatChartValue(value float64) string {
	wan := value / 10000
	switch {
	case math.Abs(wan) >= 10000:
		return fmt.Sprintf("¥%.1f亿", wan/10000)
	case math.Abs(wan) >= 100:
		return fmt.Sprintf("¥%.0f万", wan)
	default:
		return fmt.Sprintf("¥%.1f万", wan)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
