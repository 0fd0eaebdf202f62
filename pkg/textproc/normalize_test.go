package textproc

import (
	"context"
	"strings"
	"sync"
	"testing"
	"unicode"
)

var sampleMessages = []string{
	"Go until jurong point, crazy.. Available only in bugis n great world la e buffet... Cine there got amore wat...",
	"Free entry in 2 a wkly comp to win FA Cup final tkts 21st May 2005. Text FA to 87121 to receive entry question(std txt rate)T&C's apply 08452810075over18's",
	"Email me at someone@example.com or visit http://win.example/prize|now",
	"I'm gonna be home soon and i don't want to talk about this stuff anymore tonight, k? I've cried enough today.",
	"Our company team says: the s is silent",
	"",
	"1234 5678",
	"others said so",
	"th-e prize",
}

func TestTokensInvariants(t *testing.T) {
	n := NewNormalizer(DefaultConfig())

	for _, msg := range sampleMessages {
		out := n.Normalize(msg)

		for _, r := range out {
			if unicode.IsDigit(r) {
				t.Errorf("digit %q left in %q", r, out)
			}
		}
		if strings.ContainsAny(out, "/@|") {
			t.Errorf("symbol left in %q", out)
		}
		if strings.Contains(out, "  ") {
			t.Errorf("repeated whitespace in %q", out)
		}
		for _, tok := range strings.Fields(out) {
			if n.IsStopword(tok) {
				t.Errorf("stopword %q left in %q", tok, out)
			}
		}
	}
}

func TestTokensOrder(t *testing.T) {
	n := NewNormalizer(DefaultConfig())

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only digits", "1234 5678", ""},
		{"only stopwords", "The and of it is", ""},
		{"custom words", "Company TEAM s", ""},
		{"symbols split words", "win/cash@now|fast", "win cash now fast"},
		{"stemming", "running runs winners", "run run winner"},
		{"apostrophe stopword removed before punctuation", "don't stop", "stop"},
		{"digits inside words", "win 2day", "win day"},
		{"punctuation", "cash!!! claim, now.", "cash claim now"},
		{"stem becomes stopword", "others said so", "said"},
		{"punctuation joins stopword", "th-e prize", "prize"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := n.Normalize(tc.input)
			if got != tc.expected {
				t.Errorf("Normalize(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestTokensWithoutStemming(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stem = false
	n := NewNormalizer(cfg)

	got := n.Normalize("Running winners")
	if got != "running winners" {
		t.Errorf("expected unstemmed tokens, got %q", got)
	}
}

func TestExtendedStopwords(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StopwordSource = "extended"
	n := NewNormalizer(cfg)

	out := n.Normalize("The prize is yours, claim it now")
	for _, tok := range strings.Fields(out) {
		if EnglishStopwords.Contains(tok) {
			t.Errorf("stopword %q left in %q", tok, out)
		}
	}
	if !strings.Contains(out, "prize") {
		t.Errorf("expected content word to survive: %q", out)
	}

	if !n.IsStopword("others") {
		t.Error("expected extended list word to count as a stopword")
	}
	if NewNormalizer(DefaultConfig()).IsStopword("others") {
		t.Error("default normalizer should not use the extended list")
	}
	if got := n.Normalize("others said so"); got != "said" {
		t.Errorf("expected %q, got %q", "said", got)
	}
	for _, msg := range sampleMessages {
		for _, tok := range n.Tokens(msg) {
			if n.IsStopword(tok) {
				t.Errorf("stopword %q left in %q", tok, msg)
			}
		}
	}
}

func TestFingerprint(t *testing.T) {
	a := NewNormalizer(DefaultConfig())
	b := NewNormalizer(DefaultConfig())
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical configs should share a fingerprint")
	}

	cfg := DefaultConfig()
	cfg.Stem = false
	c := NewNormalizer(cfg)
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different configs should not share a fingerprint")
	}
	if a.CacheKey("hi") == c.CacheKey("hi") {
		t.Error("cache keys should include the fingerprint")
	}
}

type mapCache struct {
	mu   sync.Mutex
	data map[string]string
	gets int
	hits int
}

func (m *mapCache) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	v, ok := m.data[key]
	if ok {
		m.hits++
	}
	return v, ok, nil
}

func (m *mapCache) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func TestNormalizeAll(t *testing.T) {
	n := NewNormalizer(DefaultConfig())
	cache := &mapCache{data: map[string]string{}}

	first, err := n.NormalizeAll(context.Background(), sampleMessages, cache)
	if err != nil {
		t.Fatalf("NormalizeAll failed: %v", err)
	}
	if len(first) != len(sampleMessages) {
		t.Fatalf("expected %d documents, got %d", len(sampleMessages), len(first))
	}

	second, err := n.NormalizeAll(context.Background(), sampleMessages, cache)
	if err != nil {
		t.Fatalf("NormalizeAll failed: %v", err)
	}
	if cache.hits < len(sampleMessages) {
		t.Errorf("expected second pass to hit cache, hits=%d", cache.hits)
	}

	for i := range first {
		if strings.Join(first[i], " ") != strings.Join(second[i], " ") {
			t.Errorf("doc %d differs between cached and uncached runs", i)
		}
	}

	uncached, err := n.NormalizeAll(context.Background(), sampleMessages, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(uncached[5]) != 0 {
		t.Errorf("empty message should produce no tokens, got %v", uncached[5])
	}
}

type batchCache struct {
	mapCache
	batches int
}

func (b *batchCache) SetMany(ctx context.Context, entries map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batches++
	for k, v := range entries {
		b.data[k] = v
	}
	return nil
}

func (b *batchCache) Set(ctx context.Context, key, value string) error {
	panic("Set should not be called on a batch cache")
}

func TestNormalizeAllBatch(t *testing.T) {
	n := NewNormalizer(DefaultConfig())
	cache := &batchCache{mapCache: mapCache{data: map[string]string{}}}

	docs, err := n.NormalizeAll(context.Background(), sampleMessages, cache)
	if err != nil {
		t.Fatalf("NormalizeAll failed: %v", err)
	}
	if cache.batches != 1 {
		t.Errorf("expected one batch write, got %d", cache.batches)
	}
	if len(cache.data) != len(sampleMessages) {
		t.Errorf("expected %d cached entries, got %d", len(sampleMessages), len(cache.data))
	}

	_, err = n.NormalizeAll(context.Background(), sampleMessages, cache)
	if err != nil {
		t.Fatal(err)
	}
	if cache.batches != 1 {
		t.Errorf("fully cached pass should not write, got %d batches", cache.batches)
	}
	if got := cache.data[n.CacheKey(sampleMessages[0])]; got != strings.Join(docs[0], " ") {
		t.Errorf("cached value %q does not match tokens %v", got, docs[0])
	}
}

func TestNormalizeAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewNormalizer(DefaultConfig()).NormalizeAll(ctx, sampleMessages, nil)
	if err == nil {
		t.Error("expected context error")
	}
}

func TestEnglishStopwords(t *testing.T) {
	if EnglishStopwords.Cardinality() != 174 {
		t.Errorf("expected 174 stopwords, got %d", EnglishStopwords.Cardinality())
	}
	for _, w := range []string{"the", "i'm", "don't", "very"} {
		if !EnglishStopwords.Contains(w) {
			t.Errorf("expected %q in stopword list", w)
		}
	}
}
