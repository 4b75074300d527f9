package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"skilltrend-engine/internal/domain"
)

// ErrNothingToPlot is returned for an empty ranking.
var ErrNothingToPlot = errors.New("no skills to plot")

// Chart is a horizontal bar chart of skills against mention count, the
// most frequent skill on top.
type Chart struct {
	Title  string
	Counts []domain.SkillCount
}

func ChartTitle(n int, role string) string {
	if role == "" {
		return fmt.Sprintf("Top %d Most In-Demand Skills", n)
	}
	return fmt.Sprintf("Top %d Most In-Demand Skills in %s Job Listings", n, role)
}

func (c Chart) plot() (*plot.Plot, vg.Length, error) {
	n := len(c.Counts)
	if n == 0 {
		return nil, 0, ErrNothingToPlot
	}

	// NominalY puts index 0 at the bottom, so feed the ranking reversed.
	values := make(plotter.Values, n)
	labels := make([]string, n)
	for i, sc := range c.Counts {
		values[n-1-i] = float64(sc.Count)
		labels[n-1-i] = sc.Skill
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = "Number of Mentions"
	p.X.Min = 0

	bars, err := plotter.NewBarChart(values, vg.Points(10))
	if err != nil {
		return nil, 0, fmt.Errorf("bar chart: %w", err)
	}
	bars.Horizontal = true
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalY(labels...)

	height := vg.Length(n)*vg.Points(16) + 2*vg.Inch
	return p, height, nil
}

// WriteTo renders the chart as PNG.
func (c Chart) WriteTo(w io.Writer) (int64, error) {
	p, height, err := c.plot()
	if err != nil {
		return 0, err
	}
	wt, err := p.WriterTo(12*vg.Inch, height, "png")
	if err != nil {
		return 0, fmt.Errorf("render chart: %w", err)
	}
	return wt.WriteTo(w)
}

// Save writes the PNG to path, creating parent directories.
func (c Chart) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := c.WriteTo(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
