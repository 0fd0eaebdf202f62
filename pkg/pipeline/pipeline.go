// Package pipeline runs the spam/ham analysis end to end: load, normalize,
// term frequencies, sentiment, document-term matrix, split, train and
// evaluate.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/zpam/spam-svm/pkg/cache"
	"github.com/zpam/spam-svm/pkg/charts"
	"github.com/zpam/spam-svm/pkg/config"
	"github.com/zpam/spam-svm/pkg/corpus"
	"github.com/zpam/spam-svm/pkg/dataset"
	"github.com/zpam/spam-svm/pkg/evaluation"
	"github.com/zpam/spam-svm/pkg/features"
	"github.com/zpam/spam-svm/pkg/profiler"
	"github.com/zpam/spam-svm/pkg/sentiment"
	"github.com/zpam/spam-svm/pkg/split"
	"github.com/zpam/spam-svm/pkg/svm"
	"github.com/zpam/spam-svm/pkg/textproc"
)

// Stage names recorded by the profiler
const (
	StageLoad      = "load"
	StageNormalize = "normalize"
	StageMatrix    = "document-term matrix"
	StageSentiment = "sentiment"
	StageFeatures  = "feature table"
	StageSplit     = "split"
	StageTrain     = "train"
	StageEvaluate  = "evaluate"
	StageCharts    = "charts"
)

// Pipeline holds the collaborators of a run
type Pipeline struct {
	config   *config.Config
	logger   *slog.Logger
	profiler *profiler.Profiler
	cache    cache.Cache
}

// New creates a pipeline. A nil logger falls back to slog.Default().
func New(cfg *config.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		config:   cfg,
		logger:   logger,
		profiler: profiler.NewProfiler(),
	}
}

// WithCache sets the normalized text cache
func (p *Pipeline) WithCache(c cache.Cache) *Pipeline {
	p.cache = c
	return p
}

// ResetCache drops every cached normalization. It is a no-op without a cache.
func (p *Pipeline) ResetCache(ctx context.Context) error {
	if p.cache == nil {
		return nil
	}
	if err := p.cache.Reset(ctx); err != nil {
		return errors.Wrap(err, "resetting cache")
	}
	p.logger.Info("normalization cache reset", "backend", p.config.Cache.Backend)
	return nil
}

// Profiler returns the stage timings collected so far
func (p *Pipeline) Profiler() *profiler.Profiler {
	return p.profiler
}

// Corpus is a loaded, normalized dataset with its matrices
type Corpus struct {
	Dataset *dataset.Dataset
	Docs    [][]string
	Full    *corpus.DocumentTermMatrix
	Pruned  *corpus.DocumentTermMatrix
}

// Run opens the configured cache and runs a pipeline with the default logger
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	c, err := OpenCache(cfg)
	if err != nil {
		return nil, err
	}
	if c != nil {
		defer c.Close()
	}
	return New(cfg, nil).WithCache(c).Run(ctx)
}

// Run executes every stage in order
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	cfg := p.config
	res := &Result{Profiler: p.profiler}

	prepared, err := p.Prepare(ctx)
	if err != nil {
		return nil, err
	}
	ds := prepared.Dataset

	res.Dataset = ds.Path
	res.Messages = ds.Len()
	res.Counts = ds.Counts()
	freqs := prepared.Full.TermFrequencies()
	res.TopTerms = corpus.Top(freqs, cfg.Report.TopTerms)
	res.FullStats = prepared.Full.Stats()
	res.PrunedStats = prepared.Pruned.Stats()

	scores, err := p.Sentiment(ctx, ds)
	if err != nil {
		return nil, err
	}
	if scores != nil {
		totals := sentiment.Totals(scores)
		res.Sentiment = &SentimentResult{
			Summary:     sentiment.Summarize(scores),
			Totals:      totals,
			Percentages: sentiment.Percentages(totals),
		}
	}

	table, err := p.Features(prepared, scores)
	if err != nil {
		return nil, err
	}
	res.IncludeSentiment = cfg.Features.IncludeSentiment
	res.Columns = table.NumColumns()

	var part *split.Partition
	err = p.profiler.Stage(StageSplit, func() error {
		var err error
		part, err = split.Stratified(table.Labels(), cfg.Split.TrainRatio, cfg.Split.Seed)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "splitting dataset")
	}
	res.TrainSize, res.TestSize = part.Sizes()
	res.TrainCounts = split.ClassCounts(table.Labels(), part.Train)
	res.TestCounts = split.ClassCounts(table.Labels(), part.Test)
	p.logger.Info("partitioned dataset", "train", res.TrainSize, "test", res.TestSize, "seed", cfg.Split.Seed)

	var classifier *svm.Classifier
	err = p.profiler.Stage(StageTrain, func() error {
		var err error
		classifier, err = svm.Train(ctx, table, part.Train, SVMParams(cfg))
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "training classifier")
	}
	res.Classifier = classifier

	err = p.profiler.Stage(StageEvaluate, func() error {
		predicted, err := classifier.PredictRows(table, part.Test)
		if err != nil {
			return err
		}
		actual := make([]dataset.Category, len(part.Test))
		for i, r := range part.Test {
			actual[i] = table.Row(r).Label
		}
		res.Confusion, err = evaluation.NewConfusionMatrix(actual, predicted)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "evaluating classifier")
	}
	p.logger.Info("evaluated classifier", "accuracy", res.Confusion.Accuracy(), "kappa", res.Confusion.Kappa())

	if cfg.Report.Charts {
		err = p.profiler.Stage(StageCharts, func() error {
			var err error
			res.Charts, err = p.Charts(freqs, res.Sentiment)
			return err
		})
		if err != nil {
			return nil, errors.Wrap(err, "rendering charts")
		}
	}

	return res, nil
}

// Prepare loads the dataset, normalizes every message and builds the full
// and pruned document-term matrices.
func (p *Pipeline) Prepare(ctx context.Context) (*Corpus, error) {
	cfg := p.config
	prepared := &Corpus{}

	err := p.profiler.Stage(StageLoad, func() error {
		var err error
		prepared.Dataset, err = dataset.Load(cfg.Dataset.Path, dataset.Columns{
			Label: cfg.Dataset.LabelColumn,
			Text:  cfg.Dataset.TextColumn,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	counts := prepared.Dataset.Counts()
	p.logger.Info("loaded dataset",
		"path", cfg.Dataset.Path,
		"messages", prepared.Dataset.Len(),
		"ham", counts[dataset.Ham],
		"spam", counts[dataset.Spam])

	normalizer := NewNormalizer(cfg)
	err = p.profiler.Stage(StageNormalize, func() error {
		var err error
		prepared.Docs, err = normalizer.NormalizeAll(ctx, prepared.Dataset.Texts(), p.cache)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "normalizing messages")
	}
	p.logger.Debug("normalized messages", "fingerprint", normalizer.Fingerprint())

	err = p.profiler.Stage(StageMatrix, func() error {
		prepared.Full = corpus.Build(prepared.Docs)
		var err error
		prepared.Pruned, err = prepared.Full.RemoveSparseTerms(cfg.Vocabulary.MaxSparsity)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "building document-term matrix")
	}
	p.logger.Info("built document-term matrix",
		"terms", prepared.Full.NumTerms(),
		"kept", prepared.Pruned.NumTerms(),
		"max_sparsity", cfg.Vocabulary.MaxSparsity)

	return prepared, nil
}

// Sentiment scores every message. It returns nil scores when neither the
// report nor the feature table needs them.
func (p *Pipeline) Sentiment(ctx context.Context, ds *dataset.Dataset) ([]sentiment.Scores, error) {
	cfg := p.config
	if !cfg.Sentiment.Enabled && !cfg.Features.IncludeSentiment {
		return nil, nil
	}

	var scores []sentiment.Scores
	err := p.profiler.Stage(StageSentiment, func() error {
		var err error
		scores, err = sentiment.NewScorer(nil).ScoreAll(ctx, ds.Texts())
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "scoring sentiment")
	}
	return scores, nil
}

// Features builds the classifier table from the pruned matrix, appending
// sentiment columns when configured.
func (p *Pipeline) Features(prepared *Corpus, scores []sentiment.Scores) (*features.Table, error) {
	var table *features.Table
	err := p.profiler.Stage(StageFeatures, func() error {
		var err error
		table, err = features.FromMatrix(prepared.Pruned, prepared.Dataset.Labels())
		if err != nil {
			return err
		}
		if p.config.Features.IncludeSentiment {
			table, err = features.WithSentiment(table, scores)
		}
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "building feature table")
	}
	return table, nil
}

// Charts renders the report figures and returns the written paths
func (p *Pipeline) Charts(freqs []corpus.TermFrequency, sent *SentimentResult) ([]string, error) {
	cfg := p.config.Report
	dir := cfg.OutputDir
	var written []string

	path := filepath.Join(dir, charts.TopTermsFile)
	if err := charts.TopTerms(path, freqs, cfg.TopTerms); err != nil {
		return written, err
	}
	written = append(written, path)

	path = filepath.Join(dir, charts.WordCloudFile)
	err := charts.WordCloud(path, freqs, charts.CloudOptions{
		Seed:     cfg.WordCloudSeed,
		MaxWords: cfg.WordCloudMax,
		MinFreq:  cfg.WordCloudMin,
	})
	switch {
	case errors.Cause(err) == charts.ErrNoData:
		p.logger.Warn("skipping word cloud", "min_freq", cfg.WordCloudMin)
	case err != nil:
		return written, err
	default:
		written = append(written, path)
	}

	if sent != nil {
		path = filepath.Join(dir, charts.EmotionsFile)
		if err := charts.Emotions(path, sent.Totals); err != nil {
			return written, err
		}
		written = append(written, path)

		path = filepath.Join(dir, charts.EmotionPercentFile)
		if err := charts.EmotionPercentages(path, sent.Percentages); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	p.logger.Info("rendered charts", "dir", dir, "count", len(written))
	return written, nil
}

// NewNormalizer builds the text normalizer described by the config
func NewNormalizer(cfg *config.Config) *textproc.Normalizer {
	return textproc.NewNormalizer(textproc.Config{
		CustomStopwords: cfg.Preprocess.CustomStopwords,
		StopwordSource:  cfg.Preprocess.StopwordSource,
		Stem:            cfg.Preprocess.Stem,
	})
}

// SVMParams converts the svm config section
func SVMParams(cfg *config.Config) svm.Params {
	return svm.Params{
		Cost:      cfg.SVM.Cost,
		Scale:     cfg.SVM.Scale,
		Tolerance: cfg.SVM.Tolerance,
		CacheMB:   cfg.SVM.CacheMB,
	}
}

// OpenCache creates the configured normalized text cache; nil when disabled
func OpenCache(cfg *config.Config) (cache.Cache, error) {
	if cfg.Cache.Backend != "redis" {
		return cache.New(cfg.Cache.Backend, nil)
	}

	rc := cache.DefaultRedisConfig()
	rc.RedisURL = cfg.Cache.Redis.RedisURL
	rc.KeyPrefix = cfg.Cache.Redis.KeyPrefix
	rc.DatabaseNum = cfg.Cache.Redis.DatabaseNum
	rc.BatchSize = cfg.Cache.Redis.BatchSize
	if cfg.Cache.Redis.TTL != "" {
		ttl, err := time.ParseDuration(cfg.Cache.Redis.TTL)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing cache ttl %q", cfg.Cache.Redis.TTL)
		}
		rc.TTL = ttl
	}

	return cache.New("redis", rc)
}
