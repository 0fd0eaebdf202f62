// Package corpus builds document-term matrices from normalized token lists
// and prunes sparse vocabulary.
package corpus

import (
	"fmt"
	"io"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ErrEmptyVocabulary is returned when pruning leaves no terms.
var ErrEmptyVocabulary = errors.New("vocabulary is empty after pruning")

// DocumentTermMatrix holds term counts with one sparse row per document
type DocumentTermMatrix struct {
	terms   []string
	index   map[string]int
	rows    []map[int]int
	docFreq []int
}

// Build creates a matrix from tokenized documents. Columns are sorted
// lexicographically; zero-length documents produce empty rows.
func Build(docs [][]string) *DocumentTermMatrix {
	seen := make(map[string]struct{})
	for _, doc := range docs {
		for _, tok := range doc {
			seen[tok] = struct{}{}
		}
	}

	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	for i, term := range terms {
		index[term] = i
	}

	dtm := &DocumentTermMatrix{
		terms:   terms,
		index:   index,
		rows:    make([]map[int]int, len(docs)),
		docFreq: make([]int, len(terms)),
	}

	for d, doc := range docs {
		row := make(map[int]int)
		for _, tok := range doc {
			row[index[tok]]++
		}
		for col := range row {
			dtm.docFreq[col]++
		}
		dtm.rows[d] = row
	}

	return dtm
}

// NumDocs returns the number of rows
func (m *DocumentTermMatrix) NumDocs() int {
	return len(m.rows)
}

// NumTerms returns the number of columns
func (m *DocumentTermMatrix) NumTerms() int {
	return len(m.terms)
}

// Terms returns the column names in column order
func (m *DocumentTermMatrix) Terms() []string {
	out := make([]string, len(m.terms))
	copy(out, m.terms)
	return out
}

// TermIndex returns the column of a term
func (m *DocumentTermMatrix) TermIndex(term string) (int, bool) {
	i, ok := m.index[term]
	return i, ok
}

// Row returns the non-zero counts of a document keyed by column
func (m *DocumentTermMatrix) Row(doc int) map[int]int {
	return m.rows[doc]
}

// Count returns the count of a term in a document
func (m *DocumentTermMatrix) Count(doc int, term string) int {
	col, ok := m.index[term]
	if !ok {
		return 0
	}
	return m.rows[doc][col]
}

// DocFreq returns the number of documents containing the column's term
func (m *DocumentTermMatrix) DocFreq(col int) int {
	return m.docFreq[col]
}

// Sparsity returns the fraction of documents lacking the column's term
func (m *DocumentTermMatrix) Sparsity(col int) float64 {
	if len(m.rows) == 0 {
		return 1
	}
	return 1 - float64(m.docFreq[col])/float64(len(m.rows))
}

// RemoveSparseTerms keeps the terms whose sparsity does not exceed
// maxSparsity, i.e. terms present in at least (1-maxSparsity) of the
// documents. The result has the same rows and re-indexed columns.
func (m *DocumentTermMatrix) RemoveSparseTerms(maxSparsity float64) (*DocumentTermMatrix, error) {
	if maxSparsity < 0 || maxSparsity >= 1 {
		return nil, errors.Errorf("max sparsity %v outside [0, 1)", maxSparsity)
	}

	minDocs := (1 - maxSparsity) * float64(len(m.rows))

	remap := make(map[int]int)
	var kept []string
	for col, term := range m.terms {
		// Tolerance absorbs float error in 1-maxSparsity
		if float64(m.docFreq[col]) >= minDocs-1e-9 {
			remap[col] = len(kept)
			kept = append(kept, term)
		}
	}

	if len(kept) == 0 {
		return nil, ErrEmptyVocabulary
	}

	pruned := &DocumentTermMatrix{
		terms:   kept,
		index:   make(map[string]int, len(kept)),
		rows:    make([]map[int]int, len(m.rows)),
		docFreq: make([]int, len(kept)),
	}
	for i, term := range kept {
		pruned.index[term] = i
	}
	for old, col := range remap {
		pruned.docFreq[col] = m.docFreq[old]
	}

	for d, row := range m.rows {
		newRow := make(map[int]int)
		for old, count := range row {
			if col, ok := remap[old]; ok {
				newRow[col] = count
			}
		}
		pruned.rows[d] = newRow
	}

	return pruned, nil
}

// Stats summarizes a matrix
type Stats struct {
	Documents     int
	Terms         int
	NonSparse     int
	Sparse        int
	Sparsity      float64
	MaxTermLength int
}

// Stats computes matrix summary statistics
func (m *DocumentTermMatrix) Stats() Stats {
	s := Stats{Documents: len(m.rows), Terms: len(m.terms)}

	for _, row := range m.rows {
		s.NonSparse += len(row)
	}
	s.Sparse = s.Documents*s.Terms - s.NonSparse
	if total := s.Documents * s.Terms; total > 0 {
		s.Sparsity = float64(s.Sparse) / float64(total)
	}

	for _, term := range m.terms {
		if n := utf8.RuneCountInString(term); n > s.MaxTermLength {
			s.MaxTermLength = n
		}
	}

	return s
}

// PrintStats writes the matrix summary
func (m *DocumentTermMatrix) PrintStats(w io.Writer) {
	s := m.Stats()
	fmt.Fprintf(w, "<<DocumentTermMatrix (documents: %d, terms: %d)>>\n", s.Documents, s.Terms)
	fmt.Fprintf(w, "Non-/sparse entries: %d/%d\n", s.NonSparse, s.Sparse)
	fmt.Fprintf(w, "Sparsity           : %.0f%%\n", math.Round(s.Sparsity*100))
	fmt.Fprintf(w, "Maximal term length: %d\n", s.MaxTermLength)
	fmt.Fprintf(w, "Weighting          : term frequency (tf)\n")
}
