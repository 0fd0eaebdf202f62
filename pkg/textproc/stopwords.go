package textproc

import (
	_ "embed"
	"regexp"
	"sort"
	"strings"

	set "github.com/deckarep/golang-set"
)

//go:embed data/stopwords_english.txt
var englishStopwordsData string

// EnglishStopwords is the classic 174-word English stopword list used by
// text-mining toolkits. Entries are lowercase and may contain apostrophes.
var EnglishStopwords = loadWordSet(englishStopwordsData)

func loadWordSet(data string) set.Set {
	words := set.NewSet()
	for _, word := range strings.Split(data, "\n") {
		word = strings.ToLower(strings.TrimSpace(word))
		if len(word) > 0 {
			words.Add(word)
		}
	}
	return words
}

// NewWordSet builds a lowercase word set from a list.
func NewWordSet(words []string) set.Set {
	return loadWordSet(strings.Join(words, "\n"))
}

// wordRemover deletes whole-word occurrences of a word list, longest
// alternatives first so "it's" wins over "it".
type wordRemover struct {
	re *regexp.Regexp
}

func newWordRemover(words set.Set) *wordRemover {
	if words.Cardinality() == 0 {
		return &wordRemover{}
	}

	list := make([]string, 0, words.Cardinality())
	for _, w := range words.ToSlice() {
		list = append(list, regexp.QuoteMeta(w.(string)))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(list)))

	return &wordRemover{re: regexp.MustCompile(`\b(?:` + strings.Join(list, "|") + `)\b`)}
}

func (wr *wordRemover) remove(text string) string {
	if wr.re == nil {
		return text
	}
	return wr.re.ReplaceAllString(text, "")
}
