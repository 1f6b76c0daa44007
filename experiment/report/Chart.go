package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/samuelfneumann/godagger/dagger"
)

// Chart saves an HTML line chart of the mean return of each round,
// bounded by the mean plus and minus one standard deviation, to
// filename
func Chart(filename, title string, stats []dagger.RoundStats) error {
	if len(stats) == 0 {
		return fmt.Errorf("chart: no rounds to chart")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "round"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "return"}),
	)

	rounds := make([]string, len(stats))
	mean := make([]opts.LineData, len(stats))
	upper := make([]opts.LineData, len(stats))
	lower := make([]opts.LineData, len(stats))
	for i, s := range stats {
		rounds[i] = fmt.Sprintf("%d", s.Round)
		mean[i] = opts.LineData{Value: s.Mean}
		upper[i] = opts.LineData{Value: s.Mean + s.Std}
		lower[i] = opts.LineData{Value: s.Mean - s.Std}
	}

	line.SetXAxis(rounds).
		AddSeries("mean return", mean).
		AddSeries("mean + std", upper).
		AddSeries("mean - std", lower)

	page := components.NewPage()
	page.AddCharts(line)

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("chart: %v", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("chart: could not render chart: %v", err)
	}
	return nil
}
