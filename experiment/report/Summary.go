// Package report implements reporting of the statistics of DAgger
// rounds as console summaries, plots, and charts.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/samuelfneumann/godagger/dagger"
)

// Round writes a summary of a single round to w
func Round(w io.Writer, s dagger.RoundStats, color bool) error {
	au := aurora.NewAurora(color)

	loss := au.Yellow("n/a")
	if !math.IsNaN(s.ValidationLoss) {
		loss = au.Yellow(fmt.Sprintf("%.6f", s.ValidationLoss))
	}

	_, err := fmt.Fprintf(w, "%v  returns %v\n", au.Bold(au.Cyan(
		fmt.Sprintf("round %d", s.Round))), formatList(s.Returns))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "  mean return %v  std of return %v\n",
		au.Green(fmt.Sprintf("%.4f", s.Mean)),
		au.Blue(fmt.Sprintf("%.4f", s.Std)))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "  validation loss %v  new samples %d  "+
		"dataset size %d\n", loss, s.NewSamples, s.DatasetSize)
	return err
}

// Summary writes a summary of every round to w, followed by the mean
// and standard deviation of the returns of all rounds
func Summary(w io.Writer, stats []dagger.RoundStats, color bool) error {
	for _, s := range stats {
		if err := Round(w, s, color); err != nil {
			return err
		}
	}

	au := aurora.NewAurora(color)
	_, err := fmt.Fprintf(w, "%v %v\n", au.Bold("mean rewards:"),
		formatList(dagger.Means(stats)))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%v %v\n", au.Bold("std dev:"),
		formatList(dagger.StdDevs(stats)))
	return err
}

func formatList(values []float64) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = fmt.Sprintf("%.4f", v)
	}
	return "[" + strings.Join(s, ", ") + "]"
}
