package report

import (
	"fmt"
	"image/color"

	"github.com/samuelfneumann/godagger/dagger"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// errorPoints are the mean returns of rounds with error bars of one
// standard deviation
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

// Plot saves a plot of the mean return of each round, with error bars
// of one standard deviation, to filename. The image format is chosen
// by the file extension.
func Plot(filename, title string, stats []dagger.RoundStats) error {
	if len(stats) == 0 {
		return fmt.Errorf("plot: no rounds to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Round"
	p.Y.Label.Text = "Mean Return"

	pts := errorPoints{
		XYs:     make(plotter.XYs, len(stats)),
		YErrors: make(plotter.YErrors, len(stats)),
	}
	for i, s := range stats {
		pts.XYs[i].X = float64(s.Round)
		pts.XYs[i].Y = s.Mean
		pts.YErrors[i].Low = s.Std
		pts.YErrors[i].High = s.Std
	}

	line, points, err := plotter.NewLinePoints(pts.XYs)
	if err != nil {
		return fmt.Errorf("plot: could not create line: %v", err)
	}
	line.Color = color.RGBA{R: 20, G: 80, B: 200, A: 255}
	points.Color = line.Color
	points.Radius = vg.Points(2.5)

	bars, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return fmt.Errorf("plot: could not create error bars: %v", err)
	}
	bars.Color = line.Color

	p.Add(plotter.NewGrid(), line, points, bars)
	p.Legend.Add("mean return", line, points)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("plot: could not save plot: %v", err)
	}
	return nil
}
