package charts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zpam/spam-svm/pkg/corpus"
	"github.com/zpam/spam-svm/pkg/sentiment"
)

func sampleFreqs() []corpus.TermFrequency {
	terms := []string{"call", "free", "now", "txt", "claim", "prize", "mobil", "repli", "week", "stop", "servic", "text"}
	freqs := make([]corpus.TermFrequency, len(terms))
	for i, term := range terms {
		freqs[i] = corpus.TermFrequency{Term: term, Count: 100 - i*7, Documents: 50 - i*3}
	}
	return freqs
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Errorf("%s is not a PNG", path)
	}
}

func TestBarCharts(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, TopTermsFile)
	if err := TopTerms(path, sampleFreqs(), 5); err != nil {
		t.Fatalf("TopTerms failed: %v", err)
	}
	assertPNG(t, path)

	var totals sentiment.Vector
	for i := range totals {
		totals[i] = float64(i + 1)
	}

	path = filepath.Join(dir, EmotionsFile)
	if err := Emotions(path, totals); err != nil {
		t.Fatalf("Emotions failed: %v", err)
	}
	assertPNG(t, path)

	path = filepath.Join(dir, "nested", EmotionPercentFile)
	if err := EmotionPercentages(path, sentiment.Percentages(totals)); err != nil {
		t.Fatalf("EmotionPercentages failed: %v", err)
	}
	assertPNG(t, path)
}

func TestTopTermsEmpty(t *testing.T) {
	err := TopTerms(filepath.Join(t.TempDir(), TopTermsFile), nil, 20)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestLayoutDeterministic(t *testing.T) {
	opts := CloudOptions{Seed: 1234, MaxWords: 10, MinFreq: 30}

	a := Layout(sampleFreqs(), opts)
	b := Layout(sampleFreqs(), opts)

	if len(a) == 0 {
		t.Fatal("layout placed no words")
	}
	if len(a) != len(b) {
		t.Fatalf("layouts differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("placement %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestLayoutSeedChangesPlacement(t *testing.T) {
	a := Layout(sampleFreqs(), CloudOptions{Seed: 1234, MaxWords: 10, MinFreq: 1})
	b := Layout(sampleFreqs(), CloudOptions{Seed: 99, MaxWords: 10, MinFreq: 1})

	same := len(a) == len(b)
	for i := 0; same && i < len(a); i++ {
		same = a[i] == b[i]
	}
	if same {
		t.Error("different seeds should produce different layouts")
	}
}

func TestLayoutFilters(t *testing.T) {
	placed := Layout(sampleFreqs(), CloudOptions{Seed: 1, MaxWords: 3, MinFreq: 1})
	if len(placed) > 3 {
		t.Errorf("placed %d words, want at most 3", len(placed))
	}
	if len(placed) > 0 && placed[0].Term != "call" {
		t.Errorf("largest word = %q, want call", placed[0].Term)
	}

	// Count threshold excludes everything
	if placed := Layout(sampleFreqs(), CloudOptions{Seed: 1, MaxWords: 100, MinFreq: 1000}); len(placed) != 0 {
		t.Errorf("expected no placements, got %d", len(placed))
	}
}

func TestLayoutNoOverlap(t *testing.T) {
	placed := Layout(sampleFreqs(), CloudOptions{Seed: 7, MaxWords: 100, MinFreq: 1})

	var boxes []box
	for _, pl := range placed {
		w := float64(len(pl.Term)) * pl.Size * charWidthEm / pointsPerUnit
		h := pl.Size / pointsPerUnit
		b := box{pl.X - w/2, pl.Y - h/2, pl.X + w/2, pl.Y + h/2}
		if collides(b, boxes) {
			t.Errorf("%q overlaps an earlier word", pl.Term)
		}
		boxes = append(boxes, b)
	}
}

func TestWordCloud(t *testing.T) {
	path := filepath.Join(t.TempDir(), WordCloudFile)
	if err := WordCloud(path, sampleFreqs(), CloudOptions{Seed: 1234, MaxWords: 100, MinFreq: 5}); err != nil {
		t.Fatalf("WordCloud failed: %v", err)
	}
	assertPNG(t, path)
}
