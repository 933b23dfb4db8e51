package reporting

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/spboyer/parbench/internal/metrics"
)

// DefaultChartPath is where the chart is written when no path is given.
const DefaultChartPath = "benchmark_results.png"

var (
	totalColor   = color.RGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0xff}
	averageColor = color.RGBA{R: 0x55, G: 0xa8, B: 0x68, A: 0xff}
	speedupColor = color.RGBA{R: 0xdd, G: 0x84, B: 0x52, A: 0xff}
	refColor     = color.RGBA{R: 0xc4, G: 0x4e, B: 0x52, A: 0xff}
)

// ChartRenderer writes a three-panel PNG comparing total time, average time
// and speedup across configurations.
type ChartRenderer struct {
	Path   string
	Width  vg.Length
	Height vg.Length
	DPI    int
}

// NewChartRenderer returns a renderer writing to path, or DefaultChartPath.
func NewChartRenderer(path string) *ChartRenderer {
	if path == "" {
		path = DefaultChartPath
	}
	return &ChartRenderer{
		Path:   path,
		Width:  10 * vg.Inch,
		Height: 15 * vg.Inch,
		DPI:    150,
	}
}

// Render draws and saves the chart. Failures are reported as a degraded
// result rather than an error.
func (r *ChartRenderer) Render(ctx context.Context, stats *Statistics) (res RenderResult) {
	defer func() {
		if p := recover(); p != nil {
			res = r.degraded(fmt.Errorf("panic while drawing: %v", p))
		}
	}()
	if err := ctx.Err(); err != nil {
		return r.degraded(err)
	}
	if stats == nil || len(stats.Configs) == 0 {
		return r.degraded(fmt.Errorf("no statistics to plot"))
	}
	if err := r.write(stats); err != nil {
		return r.degraded(err)
	}
	return RenderResult{Artifact: r.Path, Notice: "Plot saved as " + r.Path}
}

func (r *ChartRenderer) degraded(err error) RenderResult {
	slog.Debug("chart rendering failed", "path", r.Path, "error", err)
	return RenderResult{Degraded: true, Notice: fmt.Sprintf("could not render chart %s: %v", r.Path, err)}
}

func (r *ChartRenderer) write(stats *Statistics) error {
	plots, err := buildPanels(stats)
	if err != nil {
		return err
	}

	img := vgimg.NewWith(vgimg.UseWH(r.Width, r.Height), vgimg.UseDPI(r.DPI))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 8,
		PadTop:    vg.Millimeter * 4,
		PadBottom: vg.Millimeter * 4,
		PadLeft:   vg.Millimeter * 4,
		PadRight:  vg.Millimeter * 4,
	}
	grid := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		grid[i] = []*plot.Plot{p}
	}
	canvases := plot.Align(grid, tiles, dc)
	for i := range plots {
		plots[i].Draw(canvases[i][0])
	}

	if dir := filepath.Dir(r.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating chart directory: %w", err)
		}
	}
	f, err := os.Create(r.Path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding chart: %w", err)
	}
	return f.Close()
}

func buildPanels(stats *Statistics) ([]*plot.Plot, error) {
	names := stats.Names()
	totals := make(plotter.Values, len(stats.Configs))
	avgs := make(plotter.Values, len(stats.Configs))
	speedups := make(plotter.Values, len(stats.Configs))
	for i, cs := range stats.Configs {
		totals[i] = cs.TotalSeconds
		avgs[i] = cs.AvgSeconds
		speedups[i] = cs.Speedup
	}

	total, err := barPanel(names, totals, totalColor, "%.2fs", refLine{"Sequential total", stats.BaselineTotalSeconds})
	if err != nil {
		return nil, err
	}
	total.Title.Text = fmt.Sprintf("Benchmark Results (%d files, %d executions each)\n\nTotal Execution Time", stats.Files, stats.Repetitions)
	total.Y.Label.Text = "Total time (s)"

	avg, err := barPanel(names, avgs, averageColor, "%.3fs", refLine{"Sequential average", stats.BaselineAvgSeconds})
	if err != nil {
		return nil, err
	}
	avg.Title.Text = "Average Execution Time"
	avg.Y.Label.Text = "Average time (s)"

	speed, err := barPanel(names, speedups, speedupColor, "%.2fx", refLine{"Baseline (1x)", 1})
	if err != nil {
		return nil, err
	}
	speed.Title.Text = "Speedup vs Sequential"
	speed.Y.Label.Text = "Speedup"
	speed.X.Label.Text = fmt.Sprintf("Configuration\n\nAvailable processors: %d, Instances: %d, Executions per instance: %d",
		stats.Processors, stats.Files, stats.Repetitions)

	return []*plot.Plot{total, avg, speed}, nil
}

type refLine struct {
	name  string
	value float64
}

func barPanel(names []string, values plotter.Values, fill color.Color, format string, ref refLine) (*plot.Plot, error) {
	p := plot.New()

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)

	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return nil, fmt.Errorf("building bars: %w", err)
	}
	bars.Color = fill
	bars.LineStyle.Color = color.Black
	bars.LineStyle.Width = vg.Points(0.5)
	p.Add(bars)

	line := plotter.NewFunction(func(float64) float64 { return ref.value })
	line.Color = refColor
	line.Width = vg.Points(1.5)
	line.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	line.XMin = -0.5
	line.XMax = float64(len(values)) - 0.5
	p.Add(line)
	p.Legend.Add(ref.name, line)
	p.Legend.Top = true

	xys := make(plotter.XYs, len(values))
	texts := make([]string, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: float64(i), Y: v}
		texts[i] = fmt.Sprintf(format, v)
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, fmt.Errorf("building labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
	}
	labels.Offset = vg.Point{Y: vg.Points(4)}
	p.Add(labels)

	p.NominalX(names...)
	p.X.Min = -0.5
	p.X.Max = float64(len(values)) - 0.5
	p.Y.Min = 0
	p.Y.Max = 1.15 * metrics.Max(append([]float64{ref.value}, values...))
	if p.Y.Max == 0 {
		p.Y.Max = 1
	}
	return p, nil
}
