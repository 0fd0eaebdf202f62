package pipeline

import (
	"fmt"
	"io"

	"github.com/zpam/spam-svm/pkg/corpus"
	"github.com/zpam/spam-svm/pkg/dataset"
	"github.com/zpam/spam-svm/pkg/evaluation"
	"github.com/zpam/spam-svm/pkg/profiler"
	"github.com/zpam/spam-svm/pkg/sentiment"
	"github.com/zpam/spam-svm/pkg/svm"
)

// SentimentResult aggregates the sentiment stage
type SentimentResult struct {
	Summary     sentiment.PolaritySummary
	Totals      sentiment.Vector
	Percentages sentiment.Vector
}

// Result is everything a run produces
type Result struct {
	Dataset  string
	Messages int
	Counts   map[dataset.Category]int

	TopTerms    []corpus.TermFrequency
	FullStats   corpus.Stats
	PrunedStats corpus.Stats

	// Nil when sentiment scoring is disabled
	Sentiment *SentimentResult

	IncludeSentiment bool
	Columns          int

	TrainSize   int
	TestSize    int
	TrainCounts map[dataset.Category]int
	TestCounts  map[dataset.Category]int

	Classifier *svm.Classifier
	Confusion  *evaluation.ConfusionMatrix

	Charts   []string
	Profiler *profiler.Profiler
}

// FeatureMode names the classifier input columns for a sentiment setting
func FeatureMode(includeSentiment bool) string {
	if includeSentiment {
		return "terms + sentiment"
	}
	return "terms only"
}

// FeatureMode describes which columns reached the classifier
func (r *Result) FeatureMode() string {
	return FeatureMode(r.IncludeSentiment)
}

// Print writes the human-readable report
func (r *Result) Print(w io.Writer) {
	fmt.Fprintf(w, "📊 Dataset: %s\n", r.Dataset)
	fmt.Fprintf(w, "   Messages: %d (ham: %d, spam: %d)\n\n",
		r.Messages, r.Counts[dataset.Ham], r.Counts[dataset.Spam])

	fmt.Fprintf(w, "🔤 Top %d terms:\n", len(r.TopTerms))
	for i, f := range r.TopTerms {
		fmt.Fprintf(w, "  %2d. %-16s %6d\n", i+1, f.Term, f.Count)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "📚 Document-term matrix:\n")
	printStats(w, r.FullStats)
	fmt.Fprintf(w, "   After removing sparse terms:\n")
	printStats(w, r.PrunedStats)
	fmt.Fprintln(w)

	if r.Sentiment != nil {
		r.Sentiment.Summary.PrintSummary(w)
		sentiment.PrintEmotions(w, r.Sentiment.Totals)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "🧮 Features: %d columns (%s)\n", r.Columns, r.FeatureMode())
	fmt.Fprintf(w, "✂️  Split: train %d (ham %d, spam %d), test %d (ham %d, spam %d)\n\n",
		r.TrainSize, r.TrainCounts[dataset.Ham], r.TrainCounts[dataset.Spam],
		r.TestSize, r.TestCounts[dataset.Ham], r.TestCounts[dataset.Spam])

	if r.Confusion != nil {
		r.Confusion.Print(w)
		fmt.Fprintln(w)
	}

	if len(r.Charts) > 0 {
		fmt.Fprintf(w, "🖼️  Charts:\n")
		for _, path := range r.Charts {
			fmt.Fprintf(w, "   %s\n", path)
		}
		fmt.Fprintln(w)
	}
}

func printStats(w io.Writer, s corpus.Stats) {
	fmt.Fprintf(w, "   documents: %d, terms: %d\n", s.Documents, s.Terms)
	fmt.Fprintf(w, "   non-/sparse entries: %d/%d, sparsity: %.0f%%, max term length: %d\n",
		s.NonSparse, s.Sparse, s.Sparsity*100, s.MaxTermLength)
}
