// Package builder grows quad-trees top-down.
//
// The split decision and the child colors are strategies, so the random
// demonstration tree and a content-driven tree share the same recursion.
package builder

import (
	"math/rand"
	"time"

	"github.com/ivlev/quadview/internal/palette"
	"github.com/ivlev/quadview/internal/quadtree"
)

const (
	// SplitProbability is the chance that a sample-tree node below the depth
	// limit is subdivided.
	SplitProbability = 0.7

	// RootColor is the color of an undivided sample root.
	RootColor = "#333333"

	hueSaturation = 70
	hueLightness  = 50
)

// SplitFunc decides whether n, found at depth, should be subdivided.
type SplitFunc func(n *quadtree.Node, depth int) bool

// ColorFunc returns the colors of the four children of n in quadrant order.
type ColorFunc func(n *quadtree.Node, depth int) [4]string

// Builder subdivides nodes while Split agrees and depth is below MaxDepth.
type Builder struct {
	MaxDepth int
	Split    SplitFunc
	Colors   ColorFunc
}

// Grow expands root in place and returns it. root must be a leaf.
func (b *Builder) Grow(root *quadtree.Node) *quadtree.Node {
	b.grow(root, 0)
	return root
}

func (b *Builder) grow(n *quadtree.Node, depth int) {
	if depth >= b.MaxDepth {
		return
	}
	if !b.Split(n, depth) {
		return
	}
	n.Subdivide(b.Colors(n, depth))
	for _, q := range quadtree.Quadrants {
		b.grow(n.Children[q], depth+1)
	}
}

// RandomSplit returns a SplitFunc that says yes with probability p.
func RandomSplit(r *rand.Rand, p float64) SplitFunc {
	return func(*quadtree.Node, int) bool {
		return r.Float64() >= 1-p
	}
}

// RandomHues returns a ColorFunc drawing four independent hues at fixed
// saturation and lightness.
func RandomHues(r *rand.Rand) ColorFunc {
	return func(*quadtree.Node, int) [4]string {
		var colors [4]string
		for i := range colors {
			colors[i] = palette.HSL(r.Intn(360), hueSaturation, hueLightness)
		}
		return colors
	}
}

// NewRandom returns the Builder used for demonstration trees.
func NewRandom(maxDepth int, r *rand.Rand) *Builder {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Builder{
		MaxDepth: maxDepth,
		Split:    RandomSplit(r, SplitProbability),
		Colors:   RandomHues(r),
	}
}

// BuildSampleTree grows a random tree over the unit square. Nodes at
// maxDepth are always leaves. A nil r uses a time-seeded source.
func BuildSampleTree(maxDepth int, r *rand.Rand) *quadtree.Node {
	return NewRandom(maxDepth, r).Grow(quadtree.NewRoot(RootColor))
}
