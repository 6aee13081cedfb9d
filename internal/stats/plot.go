package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Series is a named sequence of values to plot.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight = 8
	minPlotWidth      = 10
	fallbackTermWidth = 80
	axisGutter        = 7 // "%4s │ "
	brailleBase       = 0x2800
)

// Per-series color and dash pattern, cycled.
var seriesStyles = []struct {
	attr   color.Attribute
	period int
	on     int
	name   string
}{
	{color.FgCyan, 1, 1, "solid"},
	{color.FgMagenta, 4, 2, "dashed"},
	{color.FgYellow, 3, 1, "dotted"},
	{color.FgGreen, 6, 4, "long dash"},
}

// brailleBits[row][col] is the dot bit inside a 2x4 braille cell.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

type canvas struct {
	cols, rows int
	cells      [][]uint8
}

func newCanvas(cols, rows int) *canvas {
	cells := make([][]uint8, rows)
	for i := range cells {
		cells[i] = make([]uint8, cols)
	}
	return &canvas{cols: cols, rows: rows, cells: cells}
}

// set marks a dot in dot coordinates (two per column, four per row).
func (c *canvas) set(x, y int) {
	if x < 0 || y < 0 || x >= c.cols*2 || y >= c.rows*4 {
		return
	}
	c.cells[y/4][x/2] |= brailleBits[y%4][x%2]
}

func (c *canvas) line(x0, y0, x1, y1 int, keep func(x int) bool) {
	steps := max(absInt(x1-x0), absInt(y1-y0))
	if steps == 0 {
		if keep(x0) {
			c.set(x0, y0)
		}
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + int(math.Round(float64(i*(x1-x0))/float64(steps)))
		y := y0 + int(math.Round(float64(i*(y1-y0))/float64(steps)))
		if keep(x) {
			c.set(x, y)
		}
	}
}

// PlotSeries renders a braille line plot, one scale per series.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return PlotSeriesWithColor(w, title, series, width, height, false)
}

// PlotSeriesWithColor renders a plot, forcing color when forceColor is set and NO_COLOR is not.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	var nonEmpty []Series
	for _, s := range series {
		if len(s.Values) > 0 {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)
	useColor := colorEnabled(w, forceColor)

	var b strings.Builder
	if title != "" {
		b.WriteString(title + "\n")
	}
	layers := make([]*canvas, len(nonEmpty))
	for i, s := range nonEmpty {
		style := seriesStyles[i%len(seriesStyles)]
		keep := func(x int) bool { return x%style.period < style.on }
		values := resample(s.Values, width*2)
		lo, hi := bounds(s.Values)
		layer := newCanvas(width, height)
		dots := height * 4
		prevX, prevY := -1, 0
		for x, v := range values {
			y := int(math.Round((hi - v) / (hi - lo) * float64(dots-1)))
			if prevX >= 0 {
				layer.line(prevX, prevY, x, y, keep)
			} else if keep(x) {
				layer.set(x, y)
			}
			prevX, prevY = x, y
		}
		layers[i] = layer
		marker := paint(string(rune(brailleBase+0xFF)), i, useColor)
		fmt.Fprintf(&b, "%s %s (%s) min=%.1f max=%.1f\n", marker, s.Name, style.name, lo, hi)
	}

	for row := 0; row < height; row++ {
		label := ""
		switch row {
		case 0:
			label = "max"
		case height - 1:
			label = "min"
		}
		fmt.Fprintf(&b, "%4s │ ", label)
		for col := 0; col < width; col++ {
			var mask uint8
			owner := -1
			for i, layer := range layers {
				if m := layer.cells[row][col]; m != 0 {
					mask |= m
					if owner < 0 {
						owner = i
					}
				}
			}
			cell := string(rune(brailleBase + int(mask)))
			if owner >= 0 {
				cell = paint(cell, owner, useColor)
			}
			b.WriteString(cell)
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// PlotWidthFor returns the plot width that fits the axis gutter into totalWidth columns.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(totalWidth-axisGutter, minPlotWidth)
}

func paint(s string, idx int, useColor bool) string {
	if !useColor {
		return s
	}
	c := color.New(seriesStyles[idx%len(seriesStyles)].attr)
	c.EnableColor()
	return c.Sprint(s)
}

func colorEnabled(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}

// resample stretches or averages values into exactly n points.
func resample(values []float64, n int) []float64 {
	if n <= 0 || len(values) == 0 {
		return nil
	}
	out := make([]float64, n)
	switch {
	case len(values) == 1 || n == 1:
		for i := range out {
			out[i] = values[0]
		}
	case len(values) > n:
		for i := range out {
			start := i * len(values) / n
			end := max((i+1)*len(values)/n, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	default:
		for i := range out {
			pos := float64(i) * float64(len(values)-1) / float64(n-1)
			idx := int(pos)
			if idx >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func bounds(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		lo--
		hi++
	}
	return lo, hi
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
