package report

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// plotRatios writes a PNG histogram of the peak and loop log2 ratio
// distributions for a quick visual check of run-wide skew.
func plotRatios(filename string, peakRatios, loopRatios []float64) error {
	var vals plotter.Values
	for _, v := range append(append([]float64{}, peakRatios...), loopRatios...) {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return fmt.Errorf("no finite log2 ratios to plot")
	}

	pl := plot.New()
	pl.Title.Text = "log2 ratio distribution"
	pl.X.Label.Text = "log2(maternal/paternal)"
	pl.Y.Label.Text = "features"

	h, err := plotter.NewHist(vals, 30)
	if err != nil {
		return err
	}
	pl.Add(h)

	return pl.Save(6*vg.Inch, 4*vg.Inch, filename)
}
