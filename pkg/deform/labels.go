package deform

import (
	"slices"

	"github.com/matzehuels/crossboard/pkg/errors"
)

// ReorderIndex returns the permutation that groups equal labels together in
// the given order, stable within each group, and the labels that occur in
// that order. A nil order uses the sorted unique labels.
func ReorderIndex(labels, order []string) ([]int, []string, error) {
	if order == nil {
		order = slices.Clone(labels)
		slices.Sort(order)
		order = slices.Compact(order)
	}
	pos := make(map[string]int, len(order))
	for i, o := range order {
		if _, dup := pos[o]; dup {
			return nil, nil, errors.New(errors.ErrCodeInvalidInput, "label %q appears twice in order", o)
		}
		pos[o] = i
	}
	buckets := make([][]int, len(order))
	for i, l := range labels {
		p, ok := pos[l]
		if !ok {
			return nil, nil, errors.New(errors.ErrCodeInvalidInput, "label %q is missing from order", l)
		}
		buckets[p] = append(buckets[p], i)
	}
	index := make([]int, 0, len(labels))
	var keys []string
	for i, b := range buckets {
		if len(b) == 0 {
			continue
		}
		index = append(index, b...)
		keys = append(keys, order[i])
	}
	return index, keys, nil
}

// Breakpoints returns the positions where the label differs from the
// previous one.
func Breakpoints(labels []string) []int {
	var out []int
	for i := 1; i < len(labels); i++ {
		if labels[i] != labels[i-1] {
			out = append(out, i)
		}
	}
	return out
}
