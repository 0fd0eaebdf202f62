// Package charts renders the report figures as PNG files with gonum/plot.
package charts

import (
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/zpam/spam-svm/pkg/corpus"
	"github.com/zpam/spam-svm/pkg/sentiment"
)

// File names written into the report directory
const (
	TopTermsFile       = "top_terms.png"
	WordCloudFile      = "wordcloud.png"
	EmotionsFile       = "emotions.png"
	EmotionPercentFile = "emotions_pct.png"
)

var (
	barColor     = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	emotionColor = color.RGBA{R: 205, G: 92, B: 92, A: 255}
)

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("nothing to plot")

// TopTerms draws a bar chart of the n most frequent terms
func TopTerms(path string, freqs []corpus.TermFrequency, n int) error {
	top := corpus.Top(freqs, n)
	if len(top) == 0 {
		return errors.Wrap(ErrNoData, "top terms")
	}

	values := make(plotter.Values, len(top))
	names := make([]string, len(top))
	for i, f := range top {
		values[i] = float64(f.Count)
		names[i] = f.Term
	}

	p := plot.New()
	p.Title.Text = "Most frequent terms"
	p.Y.Label.Text = "Count"

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return errors.Wrap(err, "building term bars")
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return save(p, path, vg.Length(len(top))*24+2*vg.Inch, 4*vg.Inch)
}

// Emotions draws a vertical bar chart of emotion totals
func Emotions(path string, totals sentiment.Vector) error {
	p := plot.New()
	p.Title.Text = "Emotions in messages"
	p.Y.Label.Text = "Count"

	bars, err := plotter.NewBarChart(plotter.Values(totals[:]), vg.Points(20))
	if err != nil {
		return errors.Wrap(err, "building emotion bars")
	}
	bars.Color = emotionColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(emotionNames()...)

	return save(p, path, 8*vg.Inch, 4*vg.Inch)
}

// EmotionPercentages draws a horizontal bar chart of emotion shares
func EmotionPercentages(path string, percentages sentiment.Vector) error {
	p := plot.New()
	p.Title.Text = "Emotions in messages"
	p.X.Label.Text = "Percentage"

	bars, err := plotter.NewBarChart(plotter.Values(percentages[:]), vg.Points(14))
	if err != nil {
		return errors.Wrap(err, "building emotion percentage bars")
	}
	bars.Horizontal = true
	bars.Color = emotionColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalY(emotionNames()...)

	return save(p, path, 6*vg.Inch, 4*vg.Inch)
}

func emotionNames() []string {
	emotions := sentiment.Emotions()
	names := make([]string, len(emotions))
	for i, e := range emotions {
		names[i] = e.String()
	}
	return names
}

func save(p *plot.Plot, path string, width, height vg.Length) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "creating chart directory")
	}
	if err := p.Save(width, height, path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}
