// Package features defines the labeled feature table consumed by the
// classifier: one row per message, one named column per feature.
package features

import (
	"github.com/pkg/errors"
	"github.com/zpam/spam-svm/pkg/corpus"
	"github.com/zpam/spam-svm/pkg/dataset"
	"github.com/zpam/spam-svm/pkg/sentiment"
)

// ErrSchema is returned when a table fails validation.
var ErrSchema = errors.New("invalid feature table")

// PolarityColumn names the polarity column added by WithSentiment
const PolarityColumn = "sentiment_polarity"

// Row is one labeled message; Values holds non-zero entries keyed by column
type Row struct {
	Label  dataset.Category
	Values map[int]float64
}

// Table is a validated feature matrix with a label per row
type Table struct {
	columns []string
	rows    []Row
}

// New builds a table and validates it
func New(columns []string, rows []Row) (*Table, error) {
	t := &Table{columns: columns, rows: rows}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// FromMatrix attaches labels to a document-term matrix. The label count must
// match the matrix row count.
func FromMatrix(dtm *corpus.DocumentTermMatrix, labels []dataset.Category) (*Table, error) {
	if dtm.NumDocs() != len(labels) {
		return nil, errors.Wrapf(ErrSchema, "%d rows but %d labels", dtm.NumDocs(), len(labels))
	}

	rows := make([]Row, len(labels))
	for i, label := range labels {
		values := make(map[int]float64, len(dtm.Row(i)))
		for col, count := range dtm.Row(i) {
			values[col] = float64(count)
		}
		rows[i] = Row{Label: label, Values: values}
	}

	return New(dtm.Terms(), rows)
}

// WithSentiment returns a new table with the polarity column and one column
// per emotion category appended after the existing columns.
func WithSentiment(t *Table, scores []sentiment.Scores) (*Table, error) {
	if len(scores) != len(t.rows) {
		return nil, errors.Wrapf(ErrSchema, "%d rows but %d sentiment scores", len(t.rows), len(scores))
	}

	base := len(t.columns)
	columns := append(append([]string{}, t.columns...), PolarityColumn)
	for _, e := range sentiment.Emotions() {
		columns = append(columns, "emotion_"+e.String())
	}

	rows := make([]Row, len(t.rows))
	for i, row := range t.rows {
		values := make(map[int]float64, len(row.Values)+sentiment.NumEmotions+1)
		for col, v := range row.Values {
			values[col] = v
		}
		if p := scores[i].Polarity; p != 0 {
			values[base] = p
		}
		for e, v := range scores[i].Emotions {
			if v != 0 {
				values[base+1+e] = v
			}
		}
		rows[i] = Row{Label: row.Label, Values: values}
	}

	return New(columns, rows)
}

// Validate checks the schema: named unique columns and in-range values
func (t *Table) Validate() error {
	seen := make(map[string]struct{}, len(t.columns))
	for i, name := range t.columns {
		if name == "" {
			return errors.Wrapf(ErrSchema, "column %d has no name", i)
		}
		if _, dup := seen[name]; dup {
			return errors.Wrapf(ErrSchema, "duplicate column %q", name)
		}
		seen[name] = struct{}{}
	}

	for r, row := range t.rows {
		if row.Label != dataset.Ham && row.Label != dataset.Spam {
			return errors.Wrapf(ErrSchema, "row %d has label %d", r, row.Label)
		}
		for col := range row.Values {
			if col < 0 || col >= len(t.columns) {
				return errors.Wrapf(ErrSchema, "row %d references column %d of %d", r, col, len(t.columns))
			}
		}
	}

	return nil
}

// NumRows returns the number of rows
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumColumns returns the number of feature columns, excluding the label
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// Columns returns the feature column names
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Row returns a row
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Labels returns row labels in order
func (t *Table) Labels() []dataset.Category {
	labels := make([]dataset.Category, len(t.rows))
	for i, row := range t.rows {
		labels[i] = row.Label
	}
	return labels
}
