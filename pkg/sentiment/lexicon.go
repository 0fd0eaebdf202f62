package sentiment

import (
	"bufio"
	_ "embed"
	"io"
	"strings"

	"github.com/pkg/errors"
)

//go:embed data/emotions.txt
var emotionLexiconData string

// Emotion is an emotion lexicon category
type Emotion int

const (
	Anger Emotion = iota
	Anticipation
	Disgust
	Fear
	Joy
	Sadness
	Surprise
	Trust
	Negative
	Positive
)

// NumEmotions is the width of an emotion vector
const NumEmotions = 10

var emotionNames = [NumEmotions]string{
	"anger", "anticipation", "disgust", "fear", "joy",
	"sadness", "surprise", "trust", "negative", "positive",
}

func (e Emotion) String() string {
	if e < 0 || int(e) >= NumEmotions {
		return "unknown"
	}
	return emotionNames[e]
}

// Emotions lists every category in vector order
func Emotions() []Emotion {
	out := make([]Emotion, NumEmotions)
	for i := range out {
		out[i] = Emotion(i)
	}
	return out
}

// ParseEmotion parses a category name
func ParseEmotion(name string) (Emotion, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range emotionNames {
		if n == name {
			return Emotion(i), nil
		}
	}
	return 0, errors.Errorf("unknown emotion %q", name)
}

// Lexicon maps lowercase words to emotion categories
type Lexicon struct {
	words map[string][]Emotion
}

// LoadLexicon reads "word<TAB>emotion,emotion" lines; blank lines and lines
// starting with # are skipped.
func LoadLexicon(r io.Reader) (*Lexicon, error) {
	lex := &Lexicon{words: make(map[string][]Emotion)}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) != 2 {
			return nil, errors.Errorf("lexicon line %d: expected word and categories", line)
		}

		word := strings.ToLower(strings.TrimSpace(fields[0]))
		for _, name := range strings.Split(fields[1], ",") {
			emotion, err := ParseEmotion(name)
			if err != nil {
				return nil, errors.Wrapf(err, "lexicon line %d", line)
			}
			lex.words[word] = append(lex.words[word], emotion)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading lexicon")
	}

	return lex, nil
}

// DefaultLexicon returns the embedded emotion lexicon
func DefaultLexicon() *Lexicon {
	lex, err := LoadLexicon(strings.NewReader(emotionLexiconData))
	if err != nil {
		panic(err)
	}
	return lex
}

// Lookup returns the categories of a word
func (l *Lexicon) Lookup(word string) []Emotion {
	return l.words[strings.ToLower(word)]
}

// Len returns the number of words in the lexicon
func (l *Lexicon) Len() int {
	return len(l.words)
}
