package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/zpam/spam-svm/pkg/config"
	"github.com/zpam/spam-svm/pkg/email"
	"github.com/zpam/spam-svm/pkg/features"
	"github.com/zpam/spam-svm/pkg/pipeline"
	"github.com/zpam/spam-svm/pkg/sentiment"
	"github.com/zpam/spam-svm/pkg/svm"
)

var (
	testModel      string
	testFile       string
	testConfigFile string
)

var testCmd = &cobra.Command{
	Use:   "test [message]",
	Short: "Classify a single message with a saved model",
	Long: `Classify one message as ham or spam using a model saved by 'train'.

The message is taken from the argument or from --file; a file holding a raw
email is reduced to its subject and text body. Preprocessing uses the
configuration saved with the model unless --config is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var text, from, subject string
		switch {
		case testFile != "":
			data, err := os.ReadFile(testFile)
			if err != nil {
				return fmt.Errorf("failed to read message file: %v", err)
			}
			text = string(data)

			// Raw emails are reduced to subject and text body
			if email.Detect(data) {
				msg, err := email.Parse(bytes.NewReader(data))
				if err != nil {
					return fmt.Errorf("failed to parse email: %v", err)
				}
				from = msg.From
				subject = msg.Subject
				text = msg.Content()
			}
		case len(args) == 1:
			text = args[0]
		default:
			return fmt.Errorf("a message argument or --file must be specified")
		}

		configPath := testConfigFile
		if configPath == "" {
			saved := filepath.Join(testModel, modelConfigFile)
			if _, err := os.Stat(saved); err == nil {
				configPath = saved
			}
		}
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %v", err)
		}

		classifier, err := svm.Load(testModel)
		if err != nil {
			return fmt.Errorf("failed to load model: %v", err)
		}

		start := time.Now()
		tokens := pipeline.NewNormalizer(cfg).Tokens(text)

		extra := make(map[string]float64)
		if classifier.HasColumn(features.PolarityColumn) {
			scores := sentiment.NewScorer(nil).Score(text)
			extra[features.PolarityColumn] = scores.Polarity
			for _, e := range sentiment.Emotions() {
				extra["emotion_"+e.String()] = scores.Emotions.Get(e)
			}
		}

		values := classifier.Vectorize(tokens, extra)
		category := classifier.Predict(values)
		duration := time.Since(start)

		fmt.Printf("ZPAM SVM Test Results:\n")
		if testFile != "" {
			fmt.Printf("File: %s\n", testFile)
		}
		if from != "" {
			fmt.Printf("From: %s\n", from)
		}
		if subject != "" {
			fmt.Printf("Subject: %s\n", subject)
		}
		fmt.Printf("Normalized: %s\n", strings.Join(tokens, " "))
		fmt.Printf("Known terms: %d of %d\n", countKnown(classifier, tokens), len(tokens))
		fmt.Printf("Classification: %s\n", strings.ToUpper(category.String()))
		fmt.Printf("Processing time: %.2fms\n", float64(duration.Nanoseconds())/1e6)
		fmt.Printf("Model: %s (trained %s on %d messages)\n",
			testModel, classifier.TrainedAt().Format(time.RFC3339), classifier.TrainRows())

		return nil
	},
}

// countKnown returns how many tokens map onto a model column
func countKnown(classifier *svm.Classifier, tokens []string) int {
	var n int
	for _, tok := range tokens {
		if classifier.HasColumn(tok) {
			n++
		}
	}
	return n
}

func init() {
	testCmd.Flags().StringVarP(&testModel, "model", "m", "model", "Model directory saved by train")
	testCmd.Flags().StringVarP(&testFile, "file", "f", "", "Read the message from a file")
	testCmd.Flags().StringVarP(&testConfigFile, "config", "c", "", "Configuration file path")
}
