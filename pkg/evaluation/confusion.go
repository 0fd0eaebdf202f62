// Package evaluation scores held-out predictions: confusion matrix, accuracy,
// Cohen's Kappa and the derived statistics of a two-class report with "ham"
// as the positive class.
package evaluation

import (
	"math"

	"github.com/bsm/mlmetrics"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/zpam/spam-svm/pkg/dataset"
)

// ErrLengthMismatch is returned when actual and predicted labels differ in length.
var ErrLengthMismatch = errors.New("actual and predicted label counts differ")

// ConfusionMatrix counts predictions per (actual, predicted) pair
type ConfusionMatrix struct {
	TrueHam   int // actual ham, predicted ham
	FalseSpam int // actual ham, predicted spam
	TrueSpam  int // actual spam, predicted spam
	FalseHam  int // actual spam, predicted ham

	metrics *mlmetrics.ConfusionMatrix
}

// Interval is a two-sided confidence interval
type Interval struct {
	Lower float64
	Upper float64
}

// NewConfusionMatrix tallies actual against predicted labels
func NewConfusionMatrix(actual, predicted []dataset.Category) (*ConfusionMatrix, error) {
	if len(actual) != len(predicted) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d actual, %d predicted", len(actual), len(predicted))
	}

	cm := &ConfusionMatrix{metrics: mlmetrics.NewConfusionMatrix()}
	for i, a := range actual {
		p := predicted[i]
		switch {
		case a == dataset.Ham && p == dataset.Ham:
			cm.TrueHam++
		case a == dataset.Ham && p == dataset.Spam:
			cm.FalseSpam++
		case a == dataset.Spam && p == dataset.Spam:
			cm.TrueSpam++
		case a == dataset.Spam && p == dataset.Ham:
			cm.FalseHam++
		default:
			return nil, errors.Errorf("unknown label pair (%d, %d) at row %d", a, p, i)
		}
		cm.metrics.Observe(int(a), int(p))
	}

	return cm, nil
}

// Total returns the number of scored predictions
func (cm *ConfusionMatrix) Total() int {
	return cm.TrueHam + cm.FalseSpam + cm.TrueSpam + cm.FalseHam
}

// ActualHam returns the number of ham messages in the reference labels
func (cm *ConfusionMatrix) ActualHam() int {
	return cm.TrueHam + cm.FalseSpam
}

// ActualSpam returns the number of spam messages in the reference labels
func (cm *ConfusionMatrix) ActualSpam() int {
	return cm.TrueSpam + cm.FalseHam
}

// PredictedHam returns the number of messages predicted ham
func (cm *ConfusionMatrix) PredictedHam() int {
	return cm.TrueHam + cm.FalseHam
}

// PredictedSpam returns the number of messages predicted spam
func (cm *ConfusionMatrix) PredictedSpam() int {
	return cm.TrueSpam + cm.FalseSpam
}

// Correct returns the number of correct predictions
func (cm *ConfusionMatrix) Correct() int {
	return cm.TrueHam + cm.TrueSpam
}

// Accuracy is the fraction of correct predictions
func (cm *ConfusionMatrix) Accuracy() float64 {
	return ratio(cm.Correct(), cm.Total())
}

// Kappa is Cohen's Kappa: agreement corrected for chance.
func (cm *ConfusionMatrix) Kappa() float64 {
	n := float64(cm.Total())
	if n == 0 {
		return math.NaN()
	}

	po := cm.Accuracy()
	pe := (float64(cm.ActualHam())*float64(cm.PredictedHam()) +
		float64(cm.ActualSpam())*float64(cm.PredictedSpam())) / (n * n)
	if pe == 1 {
		return math.NaN()
	}

	return (po - pe) / (1 - pe)
}

// AccuracyCI is the exact (Clopper-Pearson) 95% interval for accuracy
func (cm *ConfusionMatrix) AccuracyCI() Interval {
	x, n := float64(cm.Correct()), float64(cm.Total())
	if n == 0 {
		return Interval{Lower: math.NaN(), Upper: math.NaN()}
	}

	ci := Interval{Lower: 0, Upper: 1}
	if x > 0 {
		ci.Lower = distuv.Beta{Alpha: x, Beta: n - x + 1}.Quantile(0.025)
	}
	if x < n {
		ci.Upper = distuv.Beta{Alpha: x + 1, Beta: n - x}.Quantile(0.975)
	}
	return ci
}

// NoInformationRate is the share of the largest reference class
func (cm *ConfusionMatrix) NoInformationRate() float64 {
	return ratio(max(cm.ActualHam(), cm.ActualSpam()), cm.Total())
}

// AccuracyPValue is the one-sided binomial p-value for accuracy exceeding
// the no-information rate.
func (cm *ConfusionMatrix) AccuracyPValue() float64 {
	n := cm.Total()
	if n == 0 {
		return math.NaN()
	}

	nir := cm.NoInformationRate()
	if nir >= 1 {
		return 1
	}
	binom := distuv.Binomial{N: float64(n), P: nir}
	return 1 - binom.CDF(float64(cm.Correct()-1))
}

// McNemarPValue tests symmetry of the off-diagonal cells with continuity
// correction. NaN when there are no disagreements.
func (cm *ConfusionMatrix) McNemarPValue() float64 {
	b, c := float64(cm.FalseSpam), float64(cm.FalseHam)
	if b+c == 0 {
		return math.NaN()
	}

	d := math.Abs(b-c) - 1
	if d < 0 {
		d = 0
	}
	chi := d * d / (b + c)
	return distuv.ChiSquared{K: 1}.Survival(chi)
}

// Sensitivity is the ham recall
func (cm *ConfusionMatrix) Sensitivity() float64 {
	return ratio(cm.TrueHam, cm.ActualHam())
}

// Specificity is the spam recall
func (cm *ConfusionMatrix) Specificity() float64 {
	return ratio(cm.TrueSpam, cm.ActualSpam())
}

// PosPredValue is the precision of ham predictions
func (cm *ConfusionMatrix) PosPredValue() float64 {
	return ratio(cm.TrueHam, cm.PredictedHam())
}

// NegPredValue is the precision of spam predictions
func (cm *ConfusionMatrix) NegPredValue() float64 {
	return ratio(cm.TrueSpam, cm.PredictedSpam())
}

// Prevalence is the share of ham in the reference labels
func (cm *ConfusionMatrix) Prevalence() float64 {
	return ratio(cm.ActualHam(), cm.Total())
}

// DetectionRate is the share of all messages correctly predicted ham
func (cm *ConfusionMatrix) DetectionRate() float64 {
	return ratio(cm.TrueHam, cm.Total())
}

// DetectionPrevalence is the share of messages predicted ham
func (cm *ConfusionMatrix) DetectionPrevalence() float64 {
	return ratio(cm.PredictedHam(), cm.Total())
}

// BalancedAccuracy is the mean of sensitivity and specificity
func (cm *ConfusionMatrix) BalancedAccuracy() float64 {
	return (cm.Sensitivity() + cm.Specificity()) / 2
}

// ClassMetrics holds per-class precision, recall and F1
type ClassMetrics struct {
	Category  dataset.Category
	Precision float64
	Recall    float64
	F1        float64
}

// PerClass returns precision, recall and F1 for every category
func (cm *ConfusionMatrix) PerClass() []ClassMetrics {
	out := make([]ClassMetrics, 0, len(dataset.Categories))
	for _, c := range dataset.Categories {
		m := ClassMetrics{Category: c}
		// The underlying matrix only grows to labels it has observed
		if int(c) < cm.metrics.Order() {
			m.Precision = cm.metrics.Precision(int(c))
			m.Recall = cm.metrics.Sensitivity(int(c))
			m.F1 = cm.metrics.F1(int(c))
		}
		out = append(out, m)
	}
	return out
}

func ratio(num, den int) float64 {
	if den == 0 {
		return math.NaN()
	}
	return float64(num) / float64(den)
}
