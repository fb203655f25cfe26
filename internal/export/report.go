package export

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/san-kum/verlet/internal/storage"
)

// RenderReport writes an HTML page with one line chart per metric series
// of a stored run.
func RenderReport(out io.Writer, meta storage.RunMetadata, series map[string][]float64) error {
	if len(series) == 0 {
		return fmt.Errorf("run %s has no series", meta.ID)
	}

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	page := components.NewPage()
	page.PageTitle = "verlet " + meta.ID
	for _, name := range names {
		page.AddCharts(lineChart(meta, name, series[name]))
	}
	return page.Render(out)
}

func lineChart(meta storage.RunMetadata, name string, values []float64) *charts.Line {
	steps := make([]int, len(values))
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		steps[i] = i + 1
		if math.IsNaN(v) || math.IsInf(v, 0) {
			// echarts leaves a gap for "-"
			data[i] = opts.LineData{Value: "-"}
			continue
		}
		data[i] = opts.LineData{Value: v}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "verlet results",
			Width:     "1000px",
			Height:    "360px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    name,
			Subtitle: fmt.Sprintf("%s %s  dt=%.4f  iterations=%d", meta.Scene, meta.Preset, meta.Dt, meta.Iterations),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "step"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(steps).AddSeries(name, data,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)
	return line
}
