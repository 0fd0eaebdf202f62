// Package sentiment scores messages with a polarity value and an emotion
// vector.
//
// Polarity is the VADER compound score of the raw message in [-1, 1].
// Emotions are per-category word counts from a word/emotion lexicon, over
// anger, anticipation, disgust, fear, joy, sadness, surprise, trust,
// negative and positive.
package sentiment

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/jonreiter/govader"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var wordRe = regexp.MustCompile(`[a-z']+`)

// Vector holds one value per emotion category
type Vector [NumEmotions]float64

// Get returns the value of a category
func (v Vector) Get(e Emotion) float64 {
	return v[e]
}

// Scores is the sentiment of one message
type Scores struct {
	Polarity float64
	Emotions Vector
}

// Scorer computes sentiment scores. It is not safe for concurrent use.
type Scorer struct {
	lexicon  *Lexicon
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewScorer creates a scorer; a nil lexicon selects the embedded one
func NewScorer(lexicon *Lexicon) *Scorer {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &Scorer{
		lexicon:  lexicon,
		analyzer: govader.NewSentimentIntensityAnalyzer(),
	}
}

// Score returns the polarity and emotion counts of a message
func (s *Scorer) Score(text string) Scores {
	var scores Scores

	if strings.TrimSpace(text) == "" {
		return scores
	}

	scores.Polarity = s.analyzer.PolarityScores(text).Compound

	for _, word := range wordRe.FindAllString(strings.ToLower(text), -1) {
		word = strings.Trim(word, "'")
		for _, emotion := range s.lexicon.Lookup(word) {
			scores.Emotions[emotion]++
		}
	}

	return scores
}

// ScoreAll scores every text in order
func (s *Scorer) ScoreAll(ctx context.Context, texts []string) ([]Scores, error) {
	out := make([]Scores, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = s.Score(text)
	}
	return out, nil
}

// Totals sums each emotion category across messages
func Totals(scores []Scores) Vector {
	var totals Vector
	column := make([]float64, len(scores))

	for e := 0; e < NumEmotions; e++ {
		for i, sc := range scores {
			column[i] = sc.Emotions[e]
		}
		totals[e] = floats.Sum(column)
	}

	return totals
}

// Percentages expresses each category as a share of the grand total, in percent
func Percentages(totals Vector) Vector {
	var pct Vector

	sum := floats.Sum(totals[:])
	if sum == 0 {
		return pct
	}

	for e := range totals {
		pct[e] = totals[e] / sum * 100
	}
	return pct
}

// PolaritySummary describes the polarity distribution
type PolaritySummary struct {
	Count    int
	Mean     float64
	StdDev   float64
	Median   float64
	Min      float64
	Max      float64
	Positive int
	Negative int
	Neutral  int
}

// Summarize computes polarity statistics. Polarity above 0.05 counts as
// positive and below -0.05 as negative.
func Summarize(scores []Scores) PolaritySummary {
	summary := PolaritySummary{Count: len(scores)}
	if len(scores) == 0 {
		return summary
	}

	values := make([]float64, len(scores))
	for i, sc := range scores {
		values[i] = sc.Polarity
		switch {
		case sc.Polarity >= 0.05:
			summary.Positive++
		case sc.Polarity <= -0.05:
			summary.Negative++
		default:
			summary.Neutral++
		}
	}

	summary.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		summary.StdDev = stat.StdDev(values, nil)
	}

	sort.Float64s(values)
	summary.Median = stat.Quantile(0.5, stat.Empirical, values, nil)
	summary.Min = floats.Min(values)
	summary.Max = floats.Max(values)

	return summary
}

// PrintEmotions writes emotion totals and percentages
func PrintEmotions(w io.Writer, totals Vector) {
	pct := Percentages(totals)

	fmt.Fprintf(w, "🎭 Emotion Totals:\n")
	for _, e := range Emotions() {
		fmt.Fprintf(w, "  %-13s %8.0f  %6.2f%%\n", e, totals[e], pct[e])
	}
}

// PrintSummary writes the polarity summary
func (p PolaritySummary) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "💬 Polarity (%d messages):\n", p.Count)
	fmt.Fprintf(w, "  Mean: %.4f  Std: %.4f  Median: %.4f\n", p.Mean, p.StdDev, p.Median)
	fmt.Fprintf(w, "  Min: %.4f  Max: %.4f\n", p.Min, p.Max)
	fmt.Fprintf(w, "  Positive: %d  Neutral: %d  Negative: %d\n", p.Positive, p.Neutral, p.Negative)
}
