// Package textproc turns raw message text into normalized, stemmed tokens.
//
// The transforms run in a fixed order and the order changes the resulting
// tokens: symbol substitution, case folding, digit removal, stopword
// removal, custom word removal, punctuation removal, whitespace collapsing
// and stemming.
package textproc

import (
	"context"
	"crypto/sha1"
	"fmt"
	"regexp"
	"strings"

	"github.com/bbalet/stopwords"
	set "github.com/deckarep/golang-set"
	"github.com/kljensen/snowball/english"
	"github.com/pkg/errors"
)

var (
	symbolRe      = regexp.MustCompile(`[/@|]`)
	digitRe       = regexp.MustCompile(`\p{Nd}+`)
	punctuationRe = regexp.MustCompile(`[\p{P}\p{S}]+`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// Config holds normalization options
type Config struct {
	CustomStopwords []string
	StopwordSource  string // english, extended
	Stem            bool
}

// DefaultConfig returns the default normalization settings
func DefaultConfig() Config {
	return Config{
		CustomStopwords: []string{"s", "company", "team"},
		StopwordSource:  "english",
		Stem:            true,
	}
}

// Cache stores normalized text keyed by an opaque string
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// BatchCache is implemented by caches that can store many entries in one
// round trip. NormalizeAll prefers it over repeated Set calls.
type BatchCache interface {
	SetMany(ctx context.Context, entries map[string]string) error
}

// Normalizer applies the normalization pipeline. It is safe for concurrent use.
type Normalizer struct {
	config      Config
	stopwords   *wordRemover
	custom      *wordRemover
	customWords set.Set
	fingerprint string
}

// NewNormalizer creates a normalizer
func NewNormalizer(config Config) *Normalizer {
	custom := NewWordSet(config.CustomStopwords)

	h := sha1.New()
	fmt.Fprintf(h, "%s|%v|%s", config.StopwordSource, config.Stem, strings.Join(config.CustomStopwords, ","))

	return &Normalizer{
		config:      config,
		stopwords:   newWordRemover(EnglishStopwords),
		custom:      newWordRemover(custom),
		customWords: custom,
		fingerprint: fmt.Sprintf("%x", h.Sum(nil))[:12],
	}
}

// Fingerprint identifies the normalizer settings; cached output produced
// under another fingerprint must not be reused.
func (n *Normalizer) Fingerprint() string {
	return n.fingerprint
}

// IsStopword reports whether a lowercase word is removed by the stopword stages
func (n *Normalizer) IsStopword(word string) bool {
	if word == "" {
		return false
	}
	if EnglishStopwords.Contains(word) || n.customWords.Contains(word) {
		return true
	}
	if n.config.StopwordSource == "extended" {
		return strings.TrimSpace(stopwords.CleanString(word, "en", false)) == ""
	}
	return false
}

// Normalize returns the cleaned text with tokens joined by single spaces
func (n *Normalizer) Normalize(text string) string {
	return strings.Join(n.Tokens(text), " ")
}

// Tokens runs the pipeline and returns the resulting tokens. Empty input or
// input made only of removed words yields no tokens. Tokens that become
// stopwords after punctuation removal or stemming ("th-e", "others") are
// dropped as well.
func (n *Normalizer) Tokens(text string) []string {
	text = symbolRe.ReplaceAllString(text, " ")
	text = strings.ToLower(text)
	text = digitRe.ReplaceAllString(text, "")
	text = n.stopwords.remove(text)
	if n.config.StopwordSource == "extended" {
		text = stopwords.CleanString(text, "en", false)
	}
	text = n.custom.remove(text)
	text = punctuationRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")

	fields := strings.Fields(text)
	tokens := fields[:0]
	for _, tok := range fields {
		if n.config.Stem {
			tok = english.Stem(tok, true)
		}
		if n.IsStopword(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// NormalizeAll tokenizes every text in order. When cache is non-nil, results
// are looked up by fingerprint and text hash. Misses are written back once
// all texts are processed, in a single batch if the cache supports it.
func (n *Normalizer) NormalizeAll(ctx context.Context, texts []string, cache Cache) ([][]string, error) {
	docs := make([][]string, len(texts))
	pending := make(map[string]string)

	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if cache == nil {
			docs[i] = n.Tokens(text)
			continue
		}

		key := n.CacheKey(text)
		cached, ok, err := cache.Get(ctx, key)
		if err != nil {
			return nil, errors.Wrap(err, "reading normalization cache")
		}
		if ok {
			docs[i] = strings.Fields(cached)
			continue
		}

		docs[i] = n.Tokens(text)
		pending[key] = strings.Join(docs[i], " ")
	}

	if err := flush(ctx, cache, pending); err != nil {
		return nil, errors.Wrap(err, "writing normalization cache")
	}
	return docs, nil
}

func flush(ctx context.Context, cache Cache, pending map[string]string) error {
	if cache == nil || len(pending) == 0 {
		return nil
	}
	if batch, ok := cache.(BatchCache); ok {
		return batch.SetMany(ctx, pending)
	}
	for key, value := range pending {
		if err := cache.Set(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

// CacheKey returns the cache key for a raw text under this normalizer
func (n *Normalizer) CacheKey(text string) string {
	h := sha1.Sum([]byte(text))
	return fmt.Sprintf("%s:%x", n.fingerprint, h)
}
