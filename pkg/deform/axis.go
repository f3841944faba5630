package deform

import (
	"slices"
	"strconv"

	"github.com/matzehuels/crossboard/pkg/dendrogram"
)

// Axis selects rows or columns.
type Axis int

const (
	Rows Axis = iota
	Cols
)

func (a Axis) String() string {
	if a == Cols {
		return "col"
	}
	return "row"
}

// clusterState is one of unclustered, pending or clustered.
type clusterState interface {
	options() (ClusterOptions, bool)
}

type unclustered struct{}

type pending struct {
	opts ClusterOptions
}

type clustered struct {
	opts ClusterOptions
	res  *clusterResult
}

func (unclustered) options() (ClusterOptions, bool) { return ClusterOptions{}, false }
func (s pending) options() (ClusterOptions, bool)   { return s.opts, true }
func (s clustered) options() (ClusterOptions, bool) { return s.opts, true }

type clusterResult struct {
	single *dendrogram.Dendrogram
	group  *dendrogram.Group
	// within is the leaf order of each chunk, in original chunk order.
	within [][]int
	// chunkOrder is the meta order, nil when the chunk order is kept.
	chunkOrder []int
}

func (r *clusterResult) tree() dendrogram.Tree {
	if r.group != nil {
		return r.group
	}
	return r.single
}

// axis is the configuration of one matrix dimension.
type axis struct {
	kind       Axis
	n          int
	reindex    []int
	bounds     []int // nil when unsplit, else 0, breakpoints..., n
	keys       []string
	chunkOrder []int
	state      clusterState
}

func newAxis(kind Axis, n int) *axis {
	return &axis{kind: kind, n: n, state: unclustered{}}
}

func (a *axis) split() bool { return a.bounds != nil }

func (a *axis) chunkCount() int {
	if !a.split() {
		return 1
	}
	return len(a.bounds) - 1
}

// invalidate drops a computed result while keeping the options.
func (a *axis) invalidate() {
	if s, ok := a.state.(clustered); ok {
		a.state = pending{opts: s.opts}
	}
}

func (a *axis) base() []int {
	if a.reindex != nil {
		return slices.Clone(a.reindex)
	}
	idx := make([]int, a.n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// chunks returns the reindexed positions of each chunk in original chunk order.
func (a *axis) chunks() [][]int {
	base := a.base()
	if !a.split() {
		return [][]int{base}
	}
	out := make([][]int, 0, len(a.bounds)-1)
	for i := 0; i+1 < len(a.bounds); i++ {
		out = append(out, base[a.bounds[i]:a.bounds[i+1]])
	}
	return out
}

func (a *axis) chunkKeys() []string {
	if a.keys != nil {
		return slices.Clone(a.keys)
	}
	keys := make([]string, a.chunkCount())
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	return keys
}

// segments resolves the display order: chunks reordered inside by res and
// then reordered by the meta order or the caller order.
func (a *axis) segments(res *clusterResult) ([][]int, []int) {
	chunks := a.chunks()
	if res != nil {
		for i, c := range chunks {
			sorted := make([]int, len(c))
			for j, leaf := range res.within[i] {
				sorted[j] = c[leaf]
			}
			chunks[i] = sorted
		}
	}

	order := a.chunkOrder
	if res != nil && res.chunkOrder != nil {
		order = res.chunkOrder
	}
	if order == nil || !a.split() {
		order = make([]int, len(chunks))
		for i := range order {
			order[i] = i
		}
	}
	out := make([][]int, len(order))
	for i, ci := range order {
		out[i] = chunks[ci]
	}
	return out, slices.Clone(order)
}
