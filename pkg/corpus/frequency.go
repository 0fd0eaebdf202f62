package corpus

import (
	"fmt"
	"io"
	"sort"
)

// TermFrequency contains corpus-wide counts for a term
type TermFrequency struct {
	Term      string `json:"term"`
	Count     int    `json:"count"`     // occurrences across all documents
	Documents int    `json:"documents"` // documents containing the term
}

// TermFrequencies returns every term's totals sorted by count descending,
// ties broken alphabetically.
func (m *DocumentTermMatrix) TermFrequencies() []TermFrequency {
	totals := make([]int, len(m.terms))
	for _, row := range m.rows {
		for col, count := range row {
			totals[col] += count
		}
	}

	freqs := make([]TermFrequency, len(m.terms))
	for col, term := range m.terms {
		freqs[col] = TermFrequency{
			Term:      term,
			Count:     totals[col],
			Documents: m.docFreq[col],
		}
	}

	sort.Slice(freqs, func(i, j int) bool {
		if freqs[i].Count != freqs[j].Count {
			return freqs[i].Count > freqs[j].Count
		}
		return freqs[i].Term < freqs[j].Term
	})

	return freqs
}

// Top returns the first n frequencies (all of them when n <= 0)
func Top(freqs []TermFrequency, n int) []TermFrequency {
	if n > 0 && len(freqs) > n {
		return freqs[:n]
	}
	return freqs
}

// AtLeast returns frequencies with a count of at least minCount
func AtLeast(freqs []TermFrequency, minCount int) []TermFrequency {
	var out []TermFrequency
	for _, f := range freqs {
		if f.Count >= minCount {
			out = append(out, f)
		}
	}
	return out
}

// PrintTop prints the most frequent terms
func PrintTop(w io.Writer, freqs []TermFrequency, n int) {
	fmt.Fprintf(w, "📈 Top Terms:\n")
	for i, f := range Top(freqs, n) {
		fmt.Fprintf(w, "  %2d. %-15s %6d (%d docs)\n", i+1, f.Term, f.Count, f.Documents)
	}
}
