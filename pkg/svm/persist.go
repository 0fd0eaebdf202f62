package svm

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	libSvm "github.com/ewalker544/libsvm-go"
	"github.com/pkg/errors"
)

const (
	modelFile    = "model.libsvm"
	metadataFile = "metadata.json"
)

type metadata struct {
	Columns   []string  `json:"columns"`
	Scaling   *Scaling  `json:"scaling,omitempty"`
	Params    Params    `json:"params"`
	TrainedAt time.Time `json:"trained_at"`
	TrainRows int       `json:"train_rows"`
}

// Save writes the libsvm model and the column/scaling metadata into dir
func (c *Classifier) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating model directory")
	}

	if err := c.model.Dump(filepath.Join(dir, modelFile)); err != nil {
		return errors.Wrap(err, "writing model")
	}

	file, err := os.Create(filepath.Join(dir, metadataFile))
	if err != nil {
		return errors.Wrap(err, "creating metadata file")
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	err = encoder.Encode(metadata{
		Columns:   c.columns,
		Scaling:   c.scaling,
		Params:    c.params,
		TrainedAt: c.trainedAt,
		TrainRows: c.trainRows,
	})
	if err != nil {
		return errors.Wrap(err, "encoding metadata")
	}

	return nil
}

// Load reads a classifier saved with Save
func Load(dir string) (*Classifier, error) {
	modelPath := filepath.Join(dir, modelFile)
	if _, err := os.Stat(modelPath); err != nil {
		return nil, errors.Wrap(err, "model file")
	}

	file, err := os.Open(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, errors.Wrap(err, "opening metadata file")
	}
	defer file.Close()

	var meta metadata
	if err := json.NewDecoder(file).Decode(&meta); err != nil {
		return nil, errors.Wrap(err, "decoding metadata")
	}

	if meta.Scaling != nil && (len(meta.Scaling.Mean) != len(meta.Columns) || len(meta.Scaling.Scale) != len(meta.Columns)) {
		return nil, errors.New("metadata scaling does not match columns")
	}

	c := &Classifier{
		model:     libSvm.NewModelFromFile(modelPath),
		columns:   meta.Columns,
		scaling:   meta.Scaling,
		params:    meta.Params,
		trainedAt: meta.TrainedAt,
		trainRows: meta.TrainRows,
	}
	c.buildIndex()

	return c, nil
}
