// Package chart renders word-length histograms as PNG images.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/runnerr0/wordsmith/internal/config"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	xLabel = "Length of Word"
	yLabel = "Frequency"

	// barWidth is the fraction of one length unit a bar covers.
	barWidth = 0.8
)

// Options controls the rendered image.
type Options struct {
	WidthInches  float64
	HeightInches float64
	BarColor     string
	Title        string
}

// OptionsFromConfig maps the chart section of the config file to Options.
func OptionsFromConfig(cfg config.ChartConfig) Options {
	return Options{
		WidthInches:  cfg.WidthInches,
		HeightInches: cfg.HeightInches,
		BarColor:     cfg.BarColor,
		Title:        cfg.Title,
	}
}

// Validate checks the size and colour.
func (o Options) Validate() error {
	if o.WidthInches <= 0 || o.HeightInches <= 0 {
		return fmt.Errorf("chart size must be positive, got %gx%g", o.WidthInches, o.HeightInches)
	}
	if _, err := colorful.Hex(o.BarColor); err != nil {
		return fmt.Errorf("invalid bar color %q: %w", o.BarColor, err)
	}
	return nil
}

// Histogram renders lengths (word length to count) as a bar chart and returns
// the encoded PNG. Each present length gets one bar and one tick; absent
// lengths leave gaps. An empty mapping yields a chart with axes only.
func Histogram(lengths map[int]int, opts Options) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	fill, _ := colorful.Hex(opts.BarColor)

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Y.Min = 0

	keys := make([]int, 0, len(lengths))
	for length, count := range lengths {
		if count > 0 {
			keys = append(keys, length)
		}
	}
	sort.Ints(keys)

	if len(keys) == 0 {
		p.X.Min, p.X.Max = 0, 1
		p.Y.Max = 1
	} else {
		bins := make([]plotter.HistogramBin, 0, len(keys))
		ticks := make([]plot.Tick, 0, len(keys))
		for _, length := range keys {
			x := float64(length)
			bins = append(bins, plotter.HistogramBin{
				Min:    x - barWidth/2,
				Max:    x + barWidth/2,
				Weight: float64(lengths[length]),
			})
			ticks = append(ticks, plot.Tick{Value: x, Label: strconv.Itoa(length)})
		}

		h := &plotter.Histogram{
			Bins:      bins,
			Width:     barWidth,
			FillColor: fill,
			LineStyle: plotter.DefaultLineStyle,
		}
		p.Add(h)
		p.X.Tick.Marker = plot.ConstantTicks(ticks)
		p.X.Min = float64(keys[0]) - 1
		p.X.Max = float64(keys[len(keys)-1]) + 1
	}

	wt, err := p.WriterTo(vg.Length(opts.WidthInches)*vg.Inch, vg.Length(opts.HeightInches)*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("creating png canvas: %w", err)
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	if buf.Len() == 0 {
		return nil, errors.New("encoding png: empty output")
	}
	return buf.Bytes(), nil
}
