// Package svm trains and applies a linear support vector classifier on a
// feature table, using libsvm's C-SVC solver.
package svm

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	libSvm "github.com/ewalker544/libsvm-go"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/zpam/spam-svm/pkg/dataset"
	"github.com/zpam/spam-svm/pkg/features"
)

var (
	// ErrSingleClass is returned when the training rows hold fewer than two classes.
	ErrSingleClass = errors.New("training rows must contain both ham and spam")
	// ErrNoRows is returned when training is requested on no rows.
	ErrNoRows = errors.New("no training rows")
)

// Params configures training
type Params struct {
	Cost      float64 `json:"cost"`
	Scale     bool    `json:"scale"`
	Tolerance float64 `json:"tolerance"`
	CacheMB   float64 `json:"cache_mb"`
}

// DefaultParams returns a linear kernel with unit cost and standardized features
func DefaultParams() Params {
	return Params{
		Cost:      1.0,
		Scale:     true,
		Tolerance: 0.001,
		CacheMB:   100,
	}
}

// Scaling holds per-column standardization learned on training rows. A zero
// scale marks a constant column, which is fed to the solver as zero.
type Scaling struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Classifier is a trained linear SVM bound to the columns it was trained on
type Classifier struct {
	model     *libSvm.Model
	columns   []string
	index     map[string]int
	scaling   *Scaling
	params    Params
	trainedAt time.Time
	trainRows int
}

// Train fits a linear SVM on the given rows of the table
func Train(ctx context.Context, table *features.Table, rows []int, params Params) (*Classifier, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	classes := make(map[dataset.Category]bool)
	for _, r := range rows {
		classes[table.Row(r).Label] = true
	}
	if len(classes) < 2 {
		return nil, ErrSingleClass
	}

	c := &Classifier{
		columns:   table.Columns(),
		params:    params,
		trainedAt: time.Now(),
		trainRows: len(rows),
	}
	c.buildIndex()

	if params.Scale {
		c.scaling = fitScaling(table, rows)
	}

	dir, err := os.MkdirTemp("", "zpam-svm-*")
	if err != nil {
		return nil, errors.Wrap(err, "creating problem directory")
	}
	defer os.RemoveAll(dir)

	problemPath := filepath.Join(dir, "train.libsvm")
	if err := c.writeProblem(problemPath, table, rows); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	param := c.libsvmParameter()
	problem, err := libSvm.NewProblem(problemPath, param)
	if err != nil {
		return nil, errors.Wrap(err, "loading training problem")
	}

	model := libSvm.NewModel(param)
	if err := model.Train(problem); err != nil {
		return nil, errors.Wrap(err, "training svm")
	}
	c.model = model

	return c, nil
}

func (c *Classifier) libsvmParameter() *libSvm.Parameter {
	param := libSvm.NewParameter()
	param.SvmType = libSvm.C_SVC
	param.KernelType = libSvm.LINEAR
	param.C = c.params.Cost
	param.Eps = c.params.Tolerance
	param.CacheSize = int(c.params.CacheMB)
	param.QuietMode = true
	return param
}

func (c *Classifier) buildIndex() {
	c.index = make(map[string]int, len(c.columns))
	for i, name := range c.columns {
		c.index[name] = i
	}
}

func fitScaling(table *features.Table, rows []int) *Scaling {
	n := table.NumColumns()
	s := &Scaling{Mean: make([]float64, n), Scale: make([]float64, n)}

	column := make([]float64, len(rows))
	for col := 0; col < n; col++ {
		for i, r := range rows {
			column[i] = table.Row(r).Values[col]
		}
		mean, std := stat.MeanStdDev(column, nil)
		if math.IsNaN(std) || std == 0 {
			// Constant column
			continue
		}
		s.Mean[col] = mean
		s.Scale[col] = std
	}

	return s
}

// transform returns the solver input for a row, with 1-based column keys
func (c *Classifier) transform(values map[int]float64) map[int]float64 {
	x := make(map[int]float64, len(values))

	if c.scaling == nil {
		for col, v := range values {
			if v != 0 {
				x[col+1] = v
			}
		}
		return x
	}

	for col, scale := range c.scaling.Scale {
		if scale == 0 {
			continue
		}
		if v := (values[col] - c.scaling.Mean[col]) / scale; v != 0 {
			x[col+1] = v
		}
	}
	return x
}

func (c *Classifier) writeProblem(path string, table *features.Table, rows []int) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating problem file")
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, r := range rows {
		row := table.Row(r)
		x := c.transform(row.Values)

		keys := make([]int, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Ints(keys)

		w.WriteString(strconv.Itoa(int(row.Label)))
		for _, k := range keys {
			fmt.Fprintf(w, " %d:%s", k, strconv.FormatFloat(x[k], 'g', -1, 64))
		}
		w.WriteByte('\n')
	}

	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "writing problem file")
	}
	return nil
}

// Predict classifies a row given as column -> value
func (c *Classifier) Predict(values map[int]float64) dataset.Category {
	label := c.model.Predict(c.transform(values))
	return dataset.Category(int(math.Round(label)))
}

// PredictRows classifies the given rows of a table
func (c *Classifier) PredictRows(table *features.Table, rows []int) ([]dataset.Category, error) {
	if table.NumColumns() != len(c.columns) {
		return nil, errors.Errorf("table has %d columns, classifier expects %d", table.NumColumns(), len(c.columns))
	}

	out := make([]dataset.Category, len(rows))
	for i, r := range rows {
		out[i] = c.Predict(table.Row(r).Values)
	}
	return out, nil
}

// Vectorize maps normalized tokens onto the classifier's columns by name.
// Extra supplies non-term columns such as sentiment features.
func (c *Classifier) Vectorize(tokens []string, extra map[string]float64) map[int]float64 {
	values := make(map[int]float64)
	for _, tok := range tokens {
		if col, ok := c.index[tok]; ok {
			values[col]++
		}
	}
	for name, v := range extra {
		if col, ok := c.index[name]; ok && v != 0 {
			values[col] = v
		}
	}
	return values
}

// Columns returns the feature columns the classifier was trained on
func (c *Classifier) Columns() []string {
	out := make([]string, len(c.columns))
	copy(out, c.columns)
	return out
}

// HasColumn reports whether a column name is part of the model
func (c *Classifier) HasColumn(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Params returns the training parameters
func (c *Classifier) Params() Params {
	return c.params
}

// TrainRows returns the number of rows the classifier was fit on
func (c *Classifier) TrainRows() int {
	return c.trainRows
}

// TrainedAt returns when training finished
func (c *Classifier) TrainedAt() time.Time {
	return c.trainedAt
}
