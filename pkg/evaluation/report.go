package evaluation

import (
	"fmt"
	"io"
	"math"
)

// Print writes the confusion matrix and its statistics
func (cm *ConfusionMatrix) Print(w io.Writer) {
	fmt.Fprintf(w, "Confusion Matrix and Statistics\n\n")
	fmt.Fprintf(w, "          Reference\n")
	fmt.Fprintf(w, "Prediction %6s %6s\n", "ham", "spam")
	fmt.Fprintf(w, "      ham  %6d %6d\n", cm.TrueHam, cm.FalseHam)
	fmt.Fprintf(w, "      spam %6d %6d\n\n", cm.FalseSpam, cm.TrueSpam)

	ci := cm.AccuracyCI()
	fmt.Fprintf(w, "%30s : %s\n", "Accuracy", format(cm.Accuracy()))
	fmt.Fprintf(w, "%30s : (%s, %s)\n", "95% CI", format(ci.Lower), format(ci.Upper))
	fmt.Fprintf(w, "%30s : %s\n", "No Information Rate", format(cm.NoInformationRate()))
	fmt.Fprintf(w, "%30s : %s\n\n", "P-Value [Acc > NIR]", formatP(cm.AccuracyPValue()))
	fmt.Fprintf(w, "%30s : %s\n\n", "Kappa", format(cm.Kappa()))
	fmt.Fprintf(w, "%30s : %s\n\n", "Mcnemar's Test P-Value", formatP(cm.McNemarPValue()))

	fmt.Fprintf(w, "%30s : %s\n", "Sensitivity", format(cm.Sensitivity()))
	fmt.Fprintf(w, "%30s : %s\n", "Specificity", format(cm.Specificity()))
	fmt.Fprintf(w, "%30s : %s\n", "Pos Pred Value", format(cm.PosPredValue()))
	fmt.Fprintf(w, "%30s : %s\n", "Neg Pred Value", format(cm.NegPredValue()))
	fmt.Fprintf(w, "%30s : %s\n", "Prevalence", format(cm.Prevalence()))
	fmt.Fprintf(w, "%30s : %s\n", "Detection Rate", format(cm.DetectionRate()))
	fmt.Fprintf(w, "%30s : %s\n", "Detection Prevalence", format(cm.DetectionPrevalence()))
	fmt.Fprintf(w, "%30s : %s\n\n", "Balanced Accuracy", format(cm.BalancedAccuracy()))
	fmt.Fprintf(w, "%30s : %s\n\n", "'Positive' Class", "ham")

	fmt.Fprintf(w, "%-8s %10s %10s %10s\n", "Class", "Precision", "Recall", "F1")
	for _, m := range cm.PerClass() {
		fmt.Fprintf(w, "%-8s %10s %10s %10s\n", m.Category, format(m.Precision), format(m.Recall), format(m.F1))
	}
}

func format(v float64) string {
	if math.IsNaN(v) {
		return "NA"
	}
	return fmt.Sprintf("%.4f", v)
}

func formatP(v float64) string {
	if math.IsNaN(v) {
		return "NA"
	}
	if v < 2.2e-16 {
		return "< 2.2e-16"
	}
	return fmt.Sprintf("%.4g", v)
}
