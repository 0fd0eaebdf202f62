package svm

import (
	"context"
	"errors"
	"testing"

	"github.com/zpam/spam-svm/pkg/dataset"
	"github.com/zpam/spam-svm/pkg/features"
)

var separableColumns = []string{"free", "lunch", "meet", "win"}

func separableTable(t *testing.T) *features.Table {
	t.Helper()

	table, err := features.New(separableColumns, separableRows())
	if err != nil {
		t.Fatalf("building table: %v", err)
	}
	return table
}

// separableRows has spam rows dominated by "free"/"win" and ham rows by
// "meet"/"lunch".
func separableRows() []features.Row {
	var rows []features.Row
	for i := 0; i < 10; i++ {
		rows = append(rows, features.Row{
			Label:  dataset.Spam,
			Values: map[int]float64{0: float64(2 + i%3), 3: float64(1 + i%2)},
		})
		rows = append(rows, features.Row{
			Label:  dataset.Ham,
			Values: map[int]float64{1: float64(1 + i%2), 2: float64(2 + i%3)},
		})
	}
	return rows
}

func allRows(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func TestTrainSeparable(t *testing.T) {
	for _, scale := range []bool{true, false} {
		rows := separableRows()
		separable := len(rows)
		if !scale {
			// A message whose tokens were all removed has no values
			rows = append(rows, features.Row{Label: dataset.Ham, Values: map[int]float64{}})
		}
		table, err := features.New(separableColumns, rows)
		if err != nil {
			t.Fatal(err)
		}
		params := DefaultParams()
		params.Scale = scale

		c, err := Train(context.Background(), table, allRows(table.NumRows()), params)
		if err != nil {
			t.Fatalf("scale=%v: train failed: %v", scale, err)
		}

		predicted, err := c.PredictRows(table, allRows(table.NumRows()))
		if err != nil {
			t.Fatalf("predict failed: %v", err)
		}
		if len(predicted) != table.NumRows() {
			t.Fatalf("predicted %d rows, want %d", len(predicted), table.NumRows())
		}
		for i, p := range predicted[:separable] {
			if want := table.Row(i).Label; p != want {
				t.Errorf("scale=%v row %d: predicted %s, want %s", scale, i, p, want)
			}
		}
		if p := c.Predict(map[int]float64{}); p != dataset.Ham && p != dataset.Spam {
			t.Errorf("scale=%v: empty row predicted %d", scale, p)
		}

		if c.TrainRows() != table.NumRows() {
			t.Errorf("train rows = %d, want %d", c.TrainRows(), table.NumRows())
		}
	}
}

func TestTrainSingleClass(t *testing.T) {
	table := separableTable(t)

	var spamOnly []int
	for i, label := range table.Labels() {
		if label == dataset.Spam {
			spamOnly = append(spamOnly, i)
		}
	}

	_, err := Train(context.Background(), table, spamOnly, DefaultParams())
	if !errors.Is(err, ErrSingleClass) {
		t.Errorf("expected ErrSingleClass, got %v", err)
	}

	_, err = Train(context.Background(), table, nil, DefaultParams())
	if !errors.Is(err, ErrNoRows) {
		t.Errorf("expected ErrNoRows, got %v", err)
	}
}

func TestTrainCanceled(t *testing.T) {
	table := separableTable(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Train(ctx, table, allRows(table.NumRows()), DefaultParams()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestConstantColumnScaling(t *testing.T) {
	columns := []string{"always", "spam"}
	var rows []features.Row
	for i := 0; i < 6; i++ {
		rows = append(rows,
			features.Row{Label: dataset.Spam, Values: map[int]float64{0: 1, 1: 3}},
			features.Row{Label: dataset.Ham, Values: map[int]float64{0: 1}},
		)
	}
	table, err := features.New(columns, rows)
	if err != nil {
		t.Fatal(err)
	}

	s := fitScaling(table, allRows(table.NumRows()))
	if s.Scale[0] != 0 {
		t.Errorf("constant column scale = %v, want 0", s.Scale[0])
	}
	if s.Scale[1] == 0 {
		t.Error("varying column should have a non-zero scale")
	}

	c := &Classifier{scaling: s}
	x := c.transform(map[int]float64{0: 1, 1: 3})
	if _, ok := x[1]; ok {
		t.Error("constant column should not reach the solver")
	}
	if x[2] <= 0 {
		t.Errorf("above-mean value should scale positive, got %v", x[2])
	}
}

func TestSaveLoad(t *testing.T) {
	table := separableTable(t)
	c, err := Train(context.Background(), table, allRows(table.NumRows()), DefaultParams())
	if err != nil {
		t.Fatalf("train failed: %v", err)
	}

	dir := t.TempDir()
	if err := c.Save(dir); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if got, want := loaded.Columns(), c.Columns(); len(got) != len(want) {
		t.Fatalf("columns = %v, want %v", got, want)
	}
	if loaded.Params() != c.Params() {
		t.Errorf("params = %+v, want %+v", loaded.Params(), c.Params())
	}

	for i := 0; i < table.NumRows(); i++ {
		values := table.Row(i).Values
		if a, b := c.Predict(values), loaded.Predict(values); a != b {
			t.Errorf("row %d: loaded model predicts %s, original %s", i, b, a)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("expected error loading from an empty directory")
	}
}

func TestVectorize(t *testing.T) {
	c := &Classifier{columns: []string{"free", "win", features.PolarityColumn}}
	c.buildIndex()

	values := c.Vectorize(
		[]string{"free", "free", "win", "unknown"},
		map[string]float64{features.PolarityColumn: 0.5, "emotion_joy": 2},
	)

	want := map[int]float64{0: 2, 1: 1, 2: 0.5}
	if len(values) != len(want) {
		t.Fatalf("values = %v, want %v", values, want)
	}
	for col, v := range want {
		if values[col] != v {
			t.Errorf("column %d = %v, want %v", col, values[col], v)
		}
	}

	if !c.HasColumn("win") || c.HasColumn("lunch") {
		t.Error("HasColumn mismatch")
	}
}
