// Package dataset loads labeled ham/spam messages from CSV files.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrInvalidLabel is returned for labels other than ham or spam.
	ErrInvalidLabel = errors.New("invalid category label")
	// ErrEmptyDataset is returned when the file holds no messages.
	ErrEmptyDataset = errors.New("dataset contains no messages")
)

// Category is the message label
type Category int

const (
	Ham Category = iota
	Spam
)

// Categories lists every label in report order.
var Categories = []Category{Ham, Spam}

func (c Category) String() string {
	switch c {
	case Ham:
		return "ham"
	case Spam:
		return "spam"
	default:
		return "unknown"
	}
}

// ParseCategory parses "ham" or "spam", ignoring case and surrounding space.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ham":
		return Ham, nil
	case "spam":
		return Spam, nil
	}
	return 0, errors.Wrapf(ErrInvalidLabel, "%q", s)
}

// Message is a single labeled message
type Message struct {
	Category Category
	Text     string
}

// Dataset holds every message loaded from one source
type Dataset struct {
	Path     string
	Messages []Message
}

// Columns names the CSV header fields holding the label and the text.
type Columns struct {
	Label string
	Text  string
}

// DefaultColumns matches the public SMS spam collection layout.
var DefaultColumns = Columns{Label: "Category", Text: "Message"}

// Load reads a dataset from a CSV file
func Load(path string, cols Columns) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening dataset")
	}
	defer file.Close()

	ds, err := Read(file, cols)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	ds.Path = path
	return ds, nil
}

// Read parses a dataset from CSV content with a header row
func Read(r io.Reader, cols Columns) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading header")
	}

	labelIdx := columnIndex(header, cols.Label)
	if labelIdx < 0 {
		return nil, errors.Wrapf(ErrMissingColumn, "%q", cols.Label)
	}
	textIdx := columnIndex(header, cols.Text)
	if textIdx < 0 {
		return nil, errors.Wrapf(ErrMissingColumn, "%q", cols.Text)
	}

	ds := &Dataset{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}

		if labelIdx >= len(record) || textIdx >= len(record) {
			return nil, errors.Errorf("line %d: expected at least %d fields, got %d",
				line, max(labelIdx, textIdx)+1, len(record))
		}

		category, err := ParseCategory(record[labelIdx])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}

		ds.Messages = append(ds.Messages, Message{
			Category: category,
			Text:     record[textIdx],
		})
	}

	if len(ds.Messages) == 0 {
		return nil, ErrEmptyDataset
	}

	return ds, nil
}

// Len returns the number of messages
func (d *Dataset) Len() int {
	return len(d.Messages)
}

// Texts returns message texts in dataset order
func (d *Dataset) Texts() []string {
	texts := make([]string, len(d.Messages))
	for i, m := range d.Messages {
		texts[i] = m.Text
	}
	return texts
}

// Labels returns message categories in dataset order
func (d *Dataset) Labels() []Category {
	labels := make([]Category, len(d.Messages))
	for i, m := range d.Messages {
		labels[i] = m.Category
	}
	return labels
}

// Counts returns the number of messages per category
func (d *Dataset) Counts() map[Category]int {
	counts := make(map[Category]int, len(Categories))
	for _, m := range d.Messages {
		counts[m.Category]++
	}
	return counts
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		// Strip a UTF-8 BOM left by spreadsheet exports
		h = strings.TrimPrefix(h, "\ufeff")
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}
