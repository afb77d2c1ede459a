/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package tui draws the rolling history in the terminal.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/phuonguno98/unodash/internal/render"
	"github.com/phuonguno98/unodash/pkg/metrics"
)

// FrameFunc builds a frame for the given core selection.
type FrameFunc func(selected []int) render.Frame

var seriesColors = []ui.Color{
	ui.ColorCyan, ui.ColorYellow, ui.ColorGreen, ui.ColorMagenta,
	ui.ColorRed, ui.ColorBlue, ui.ColorWhite,
}

// View holds the widgets of one screen.
type View struct {
	plots  map[string]*widgets.Plot
	info   *widgets.Paragraph
	status *widgets.Paragraph
	grid   *ui.Grid
}

// NewView lays out one plot per chart and a text panel.
func NewView() *View {
	v := &View{
		plots:  make(map[string]*widgets.Plot),
		info:   widgets.NewParagraph(),
		status: widgets.NewParagraph(),
		grid:   ui.NewGrid(),
	}

	for _, id := range []string{render.ChartCPU, render.ChartMemory, render.ChartDisk, render.ChartNetwork} {
		p := widgets.NewPlot()
		p.AxesColor = ui.ColorWhite
		p.LineColors = seriesColors
		p.BorderStyle.Fg = ui.ColorCyan
		v.plots[id] = p
	}
	v.info.Title = " Information "
	v.info.BorderStyle.Fg = ui.ColorYellow
	v.status.Border = false

	v.grid.Set(
		ui.NewRow(0.05, ui.NewCol(1.0, v.status)),
		ui.NewRow(0.475,
			ui.NewCol(0.35, v.plots[render.ChartCPU]),
			ui.NewCol(0.35, v.plots[render.ChartMemory]),
			ui.NewCol(0.3, v.info),
		),
		ui.NewRow(0.475,
			ui.NewCol(0.5, v.plots[render.ChartDisk]),
			ui.NewCol(0.5, v.plots[render.ChartNetwork]),
		),
	)
	return v
}

// Update copies a frame into the widgets.
func (v *View) Update(frame render.Frame) {
	for _, chart := range frame.Charts {
		p, ok := v.plots[chart.ID]
		if !ok {
			continue
		}
		p.Data, p.DataLabels = chartData(chart)
		p.Title = fmt.Sprintf(" %s [%s] ", chart.Title, chart.YLabel)
		p.MaxVal = 0
		if chart.ID != render.ChartNetwork {
			p.MaxVal = 100
		}
	}

	v.info.Text = frame.Text.CPUInfo + "\n\n" + frame.Text.RAMInfo + "\n\n" +
		frame.Text.DiskInfo + "\n\n" + frame.Text.NetworkSpeeds
	v.status.Text = fmt.Sprintf("%s   [q] quit  [1-9] toggle core  [a] all  [n] none", frame.Status)
}

// chartData converts chart series into plot lines. A chart without series gets one flat line.
func chartData(chart render.Chart) ([][]float64, []string) {
	if len(chart.Series) == 0 {
		return [][]float64{plotData(nil)}, []string{""}
	}

	data := make([][]float64, len(chart.Series))
	labels := make([]string, len(chart.Series))
	for i, s := range chart.Series {
		data[i] = plotData(s.Values)
		labels[i] = s.Name
	}
	return data, labels
}

// plotData replaces missing slots with 0 and returns at least two points.
func plotData(values []*float64) []float64 {
	out := make([]float64, 0, len(values)+2)
	for _, v := range values {
		if v == nil {
			out = append(out, 0)
			continue
		}
		out = append(out, *v)
	}
	for len(out) < 2 {
		out = append(out, 0)
	}
	return out
}

// toggleCore flips a core in a sorted selection. Cores outside 1..n are ignored.
func toggleCore(selected []int, core, n int) []int {
	if core < 1 || core > n {
		return selected
	}

	out := make([]int, 0, len(selected)+1)
	found := false
	for _, c := range selected {
		if c == core {
			found = true
			continue
		}
		out = append(out, c)
	}
	if !found {
		out = append(out, core)
		sort.Ints(out)
	}
	return out
}

// Run draws frames until ctx is done or the user quits.
// The screen refreshes on every value received from updates.
func Run(ctx context.Context, frame FrameFunc, cores int, selected []int, updates <-chan *metrics.Sample) error {
	if err := ui.Init(); err != nil {
		return fmt.Errorf("failed to init termui: %w", err)
	}
	defer ui.Close()

	view := NewView()
	termWidth, termHeight := ui.TerminalDimensions()
	view.grid.SetRect(0, 0, termWidth, termHeight)

	redraw := func() {
		view.Update(frame(selected))
		ui.Render(view.grid)
	}
	redraw()

	uiEvents := ui.PollEvents()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-uiEvents:
			if e.Type == ui.ResizeEvent {
				payload := e.Payload.(ui.Resize)
				view.grid.SetRect(0, 0, payload.Width, payload.Height)
				ui.Clear()
				redraw()
				continue
			}
			if e.Type != ui.KeyboardEvent {
				continue
			}
			switch e.ID {
			case "q", "<C-c>":
				return nil
			case "a":
				selected = render.AllCores(cores)
			case "n":
				selected = []int{}
			default:
				core, err := strconv.Atoi(e.ID)
				if err != nil {
					continue
				}
				selected = toggleCore(selected, core, cores)
			}
			redraw()
		case _, ok := <-updates:
			if !ok {
				return nil
			}
			redraw()
		}
	}
}
