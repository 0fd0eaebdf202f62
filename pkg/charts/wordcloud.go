package charts

import (
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/zpam/spam-svm/pkg/corpus"
)

const (
	cloudSize     = 100.0 // canvas extent in data units
	cloudInches   = 7
	minFontPt     = 8.0
	maxFontPt     = 40.0
	spiralStep    = 0.1
	spiralLimit   = 20000
	charWidthEm   = 0.6
	pointsPerUnit = cloudInches * 72 / cloudSize
)

// CloudOptions selects which terms enter the word cloud
type CloudOptions struct {
	Seed     uint64
	MaxWords int
	MinFreq  int
}

// Placement is one positioned word in the cloud
type Placement struct {
	Term string
	X, Y float64 // centre, data units
	Size float64 // font size, points
}

type box struct {
	x0, y0, x1, y1 float64
}

func (b box) overlaps(o box) bool {
	return b.x0 < o.x1 && o.x0 < b.x1 && b.y0 < o.y1 && o.y0 < b.y1
}

// Layout places terms on an Archimedean spiral, largest first. Terms that
// do not fit are dropped. The result depends only on freqs and options.
func Layout(freqs []corpus.TermFrequency, opts CloudOptions) []Placement {
	candidates := corpus.Top(corpus.AtLeast(freqs, opts.MinFreq), opts.MaxWords)
	if len(candidates) == 0 {
		return nil
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x6a09e667f3bcc908))
	hi := float64(candidates[0].Count)
	lo := float64(candidates[len(candidates)-1].Count)

	var placed []Placement
	var boxes []box
	for _, f := range candidates {
		size := maxFontPt
		if hi > lo {
			size = minFontPt + (maxFontPt-minFontPt)*(float64(f.Count)-lo)/(hi-lo)
		}
		w := float64(len(f.Term)) * size * charWidthEm / pointsPerUnit
		h := size / pointsPerUnit

		phase := rng.Float64() * 2 * math.Pi
		for i := 0; i < spiralLimit; i++ {
			t := float64(i) * spiralStep
			x := cloudSize/2 + t*math.Cos(t+phase)*0.5
			y := cloudSize/2 + t*math.Sin(t+phase)*0.5
			b := box{x - w/2, y - h/2, x + w/2, y + h/2}
			if b.x0 < 0 || b.y0 < 0 || b.x1 > cloudSize || b.y1 > cloudSize {
				continue
			}
			if collides(b, boxes) {
				continue
			}
			boxes = append(boxes, b)
			placed = append(placed, Placement{Term: f.Term, X: x, Y: y, Size: size})
			break
		}
	}

	return placed
}

func collides(b box, boxes []box) bool {
	for _, o := range boxes {
		if b.overlaps(o) {
			return true
		}
	}
	return false
}

var cloudPalette = []color.Color{
	color.RGBA{R: 27, G: 158, B: 119, A: 255},
	color.RGBA{R: 217, G: 95, B: 2, A: 255},
	color.RGBA{R: 117, G: 112, B: 179, A: 255},
	color.RGBA{R: 231, G: 41, B: 138, A: 255},
	color.RGBA{R: 102, G: 166, B: 30, A: 255},
}

// WordCloud renders the layout of freqs into a PNG
func WordCloud(path string, freqs []corpus.TermFrequency, opts CloudOptions) error {
	placed := Layout(freqs, opts)
	if len(placed) == 0 {
		return errors.Wrap(ErrNoData, "word cloud")
	}

	xys := make(plotter.XYs, len(placed))
	names := make([]string, len(placed))
	for i, pl := range placed {
		xys[i] = plotter.XY{X: pl.X, Y: pl.Y}
		names[i] = pl.Term
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: names})
	if err != nil {
		return errors.Wrap(err, "building word labels")
	}
	for i, pl := range placed {
		labels.TextStyle[i].Font.Size = vg.Points(pl.Size)
		labels.TextStyle[i].Color = cloudPalette[i%len(cloudPalette)]
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}

	p := plot.New()
	p.HideAxes()
	p.X.Min, p.X.Max = 0, cloudSize
	p.Y.Min, p.Y.Max = 0, cloudSize
	p.Add(labels)

	return save(p, path, cloudInches*vg.Inch, cloudInches*vg.Inch)
}
