// Package split partitions labeled rows into train and test sets.
package split

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/pkg/errors"
	"github.com/zpam/spam-svm/pkg/dataset"
)

// Partition holds row indices; Train and Test are sorted, disjoint and
// together cover every row.
type Partition struct {
	Train []int
	Test  []int
}

// Stratified draws ceil(n*ratio) rows of each class into the training set
// using a source seeded with seed. The remaining rows form the test set.
func Stratified(labels []dataset.Category, ratio float64, seed uint64) (*Partition, error) {
	if ratio <= 0 || ratio >= 1 {
		return nil, errors.Errorf("train ratio %v outside (0, 1)", ratio)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	byClass := make(map[dataset.Category][]int)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}

	p := &Partition{}
	// Classes are visited in a fixed order so the draw sequence only depends
	// on the seed and the labels.
	for _, class := range dataset.Categories {
		idx := byClass[class]
		if len(idx) == 0 {
			continue
		}

		shuffled := append([]int(nil), idx...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		// Epsilon keeps exact products such as 4825*0.8 from rounding up
		nTrain := int(math.Ceil(float64(len(shuffled))*ratio - 1e-9))
		p.Train = append(p.Train, shuffled[:nTrain]...)
		p.Test = append(p.Test, shuffled[nTrain:]...)
	}

	sort.Ints(p.Train)
	sort.Ints(p.Test)

	return p, nil
}

// Sizes returns the training and test set sizes
func (p *Partition) Sizes() (train, test int) {
	return len(p.Train), len(p.Test)
}

// ClassCounts counts labels of the given rows per class
func ClassCounts(labels []dataset.Category, idx []int) map[dataset.Category]int {
	counts := make(map[dataset.Category]int)
	for _, i := range idx {
		counts[labels[i]]++
	}
	return counts
}
