package forest

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Tree is a CART classifier over float64 features and integer class labels
// in the range [0, Classes). Nodes are stored in a flat slice so the tree
// gob-encodes without custom marshaling.
type Tree struct {
	MaxDepth            int     // 0 => no limit
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinSamplesLeaf      int     // minimum samples in each child
	Criterion           string  // CriterionGini (default) or CriterionEntropy
	MaxFeatures         int     // 0 => consider every feature at each split
	MinImpurityDecrease float64 // minimum gain to accept a split
	RandomState         int64

	Features int
	Classes  int
	Nodes    []Node
}

// Node is one tree node. Internal nodes route x[Feature] <= Threshold to Left.
type Node struct {
	Leaf      bool
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Counts    []int
	Class     int
}

// fitSample trains on the rows of X named by sample (repeats allowed).
func (t *Tree) fitSample(X [][]float64, y []int, sample []int, classes int) error {
	if len(sample) == 0 {
		return ErrEmpty
	}

	t.Features = len(X[0])
	t.Classes = classes
	t.Nodes = t.Nodes[:0]

	b := &builder{
		tree: t,
		X:    X,
		y:    y,
		rnd:  rand.New(rand.NewSource(t.RandomState)),
	}
	if t.Criterion == CriterionEntropy {
		b.impurity = entropyFromCounts
	} else {
		b.impurity = giniFromCounts
	}

	idx := append([]int(nil), sample...)
	b.build(idx, 0)
	return nil
}

// check reports the first structural defect of a decoded tree. Children are
// always stored after their parent, so the forward-index rule also rules out
// cycles.
func (t *Tree) check(features, classes int) error {
	if t.Features != features || t.Classes != classes {
		return fmt.Errorf("shape %dx%d, forest is %dx%d", t.Features, t.Classes, features, classes)
	}
	if len(t.Nodes) == 0 {
		return fmt.Errorf("no nodes")
	}

	for i, n := range t.Nodes {
		if len(n.Counts) != classes {
			return fmt.Errorf("node %d: %d class counts, want %d", i, len(n.Counts), classes)
		}
		if n.Leaf {
			continue
		}
		if n.Feature < 0 || n.Feature >= features {
			return fmt.Errorf("node %d: feature %d out of range", i, n.Feature)
		}
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d: child index out of range", i)
		}
	}
	return nil
}

func (t *Tree) leaf(x []float64) (*Node, error) {
	if len(t.Nodes) == 0 {
		return nil, ErrNotFitted
	}
	if len(x) != t.Features {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(x), t.Features)
	}

	node := &t.Nodes[0]
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = &t.Nodes[node.Left]
		} else {
			node = &t.Nodes[node.Right]
		}
	}
	return node, nil
}

type builder struct {
	tree     *Tree
	X        [][]float64
	y        []int
	rnd      *rand.Rand
	impurity func([]int) float64
}

type split struct {
	gain      float64
	feature   int
	threshold float64
}

type pair struct {
	v float64
	c int
}

func (b *builder) build(idx []int, depth int) int {
	t := b.tree
	counts := make([]int, t.Classes)
	for _, i := range idx {
		counts[b.y[i]]++
	}

	pos := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{Counts: counts, Class: argmax(counts)})

	if isPure(counts) ||
		len(idx) < t.MinSamplesSplit ||
		len(idx) < 2*max(t.MinSamplesLeaf, 1) ||
		(t.MaxDepth > 0 && depth >= t.MaxDepth) {
		t.Nodes[pos].Leaf = true
		return pos
	}

	best := b.bestSplit(idx, counts)
	if best.feature < 0 || best.gain <= t.MinImpurityDecrease {
		t.Nodes[pos].Leaf = true
		return pos
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if b.X[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)

	n := &t.Nodes[pos]
	n.Feature = best.feature
	n.Threshold = best.threshold
	n.Left = l
	n.Right = r
	return pos
}

// bestSplit visits features in a random order until MaxFeatures non-constant
// features have been evaluated. Ties keep the first feature visited.
func (b *builder) bestSplit(idx []int, counts []int) split {
	t := b.tree
	order := b.rnd.Perm(t.Features)

	limit := t.MaxFeatures
	if limit <= 0 || limit > t.Features {
		limit = t.Features
	}

	parent := b.impurity(counts)
	best := split{feature: -1}
	vals := make([]pair, len(idx))

	visited := 0
	for _, f := range order {
		if visited >= limit {
			break
		}

		for j, i := range idx {
			vals[j] = pair{v: b.X[i][f], c: b.y[i]}
		}
		sort.SliceStable(vals, func(a, c int) bool { return vals[a].v < vals[c].v })
		if vals[0].v == vals[len(vals)-1].v {
			continue
		}
		visited++

		if s := b.scan(f, vals, counts, parent); s.gain > best.gain {
			best = s
		}
	}
	return best
}

func (b *builder) scan(f int, vals []pair, counts []int, parent float64) split {
	t := b.tree
	n := len(vals)
	minLeaf := max(t.MinSamplesLeaf, 1)

	left := make([]int, len(counts))
	right := append([]int(nil), counts...)
	result := split{feature: -1}

	for s := 1; s < n; s++ {
		c := vals[s-1].c
		left[c]++
		right[c]--

		if vals[s].v == vals[s-1].v {
			continue
		}
		if s < minLeaf || n-s < minLeaf {
			continue
		}

		weighted := (float64(s)*b.impurity(left) + float64(n-s)*b.impurity(right)) / float64(n)
		gain := parent - weighted
		if gain > result.gain {
			result = split{
				gain:      gain,
				feature:   f,
				threshold: (vals[s-1].v + vals[s].v) / 2,
			}
		}
	}
	return result
}

func validate(X [][]float64, y []int) (int, error) {
	if len(X) == 0 {
		return 0, ErrEmpty
	}
	if len(y) != len(X) {
		return 0, ErrLengthMismatch
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return 0, ErrInconsistentFeatures
		}
	}

	classes := 0
	for _, c := range y {
		if c < 0 {
			return 0, ErrInvalidLabel
		}
		classes = max(classes, c+1)
	}
	return classes, nil
}

func giniFromCounts(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 1.0
	for _, c := range counts {
		p := float64(c) / n
		res -= p * p
	}
	return res
}

func entropyFromCounts(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		res -= p * math.Log2(p)
	}
	return res
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

// argmax returns the first index holding the maximum value.
func argmax[T int | float64](arr []T) int {
	best := 0
	for i := 1; i < len(arr); i++ {
		if arr[i] > arr[best] {
			best = i
		}
	}
	return best
}
