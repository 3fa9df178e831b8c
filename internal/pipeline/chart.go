package pipeline

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/akozhin/epiboost/internal/model"
)

// RenderImportanceChart writes a horizontal-bar style chart of the top-N
// features by gain. The output format follows the file extension (.png,
// .svg, .pdf).
func RenderImportanceChart(importance []model.FeatureImportance, topN int, path string) error {
	if len(importance) == 0 {
		return fmt.Errorf("no feature importance to plot")
	}
	if topN <= 0 || topN > len(importance) {
		topN = len(importance)
	}

	p := plot.New()
	p.Title.Text = "Feature importance (gain)"
	p.Y.Label.Text = "Gain"

	values := make(plotter.Values, topN)
	names := make([]string, topN)
	for i := 0; i < topN; i++ {
		values[i] = importance[i].Gain
		names[i] = importance[i].Feature
	}

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return fmt.Errorf("build bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = -1.2
	p.X.Tick.Label.XAlign = -0.8

	width := vg.Length(topN) * vg.Points(30)
	if width < 4*vg.Inch {
		width = 4 * vg.Inch
	}
	if err := p.Save(width, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}
