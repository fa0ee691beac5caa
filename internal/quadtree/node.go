// Package quadtree defines the region tree used to describe a compressed image.
//
// A tree is built top-down in one pass and is treated as immutable afterwards.
// Every internal node has exactly four children that tile its boundary.
package quadtree

import "fmt"

// Quadrant identifies a child position. The numeric value is the index into
// Children.
type Quadrant int

const (
	TopLeft Quadrant = iota
	TopRight
	BottomLeft
	BottomRight
)

// Quadrants lists every quadrant in traversal order.
var Quadrants = [4]Quadrant{TopLeft, TopRight, BottomLeft, BottomRight}

var quadrantNames = [4]string{"topLeft", "topRight", "bottomLeft", "bottomRight"}

func (q Quadrant) String() string {
	if q < TopLeft || q > BottomRight {
		return fmt.Sprintf("Quadrant(%d)", int(q))
	}
	return quadrantNames[q]
}

// Children holds the four sub-nodes of a divided node, indexed by Quadrant.
type Children [4]*Node

// Node is one region of the tree.
type Node struct {
	Boundary  Rect      `json:"boundary"`
	Color     string    `json:"color"`
	IsDivided bool      `json:"isDivided"`
	Children  *Children `json:"children,omitempty"`
}

// NewNode returns a leaf covering boundary, rendered as color.
func NewNode(boundary Rect, color string) *Node {
	return &Node{
		Boundary: boundary,
		Color:    color,
	}
}

// NewRoot returns a leaf covering the unit square.
func NewRoot(color string) *Node {
	return NewNode(UnitSquare, color)
}

// IsLeaf reports whether n is rendered with its own color.
func (n *Node) IsLeaf() bool {
	return !n.IsDivided
}

// Child returns the child in quadrant q, or nil for a leaf.
func (n *Node) Child(q Quadrant) *Node {
	if n.Children == nil {
		return nil
	}
	return n.Children[q]
}

// Subdivide turns the leaf n into a divided node whose children cover the
// four quadrants of its boundary, colored in quadrant order.
//
// Subdivide is only meant to be called while a tree is being built.
// Calling it on a node that is already divided panics.
func (n *Node) Subdivide(colors [4]string) {
	if n.IsDivided {
		panic("quadtree: Subdivide called on a divided node")
	}
	quads := n.Boundary.Quadrants()
	var children Children
	for _, q := range Quadrants {
		children[q] = NewNode(quads[q], colors[q])
	}
	n.Children = &children
	n.IsDivided = true
}

// Walk calls fn for n and every descendant in pre-order. Children are visited
// in quadrant order. Nil children are skipped.
func (n *Node) Walk(fn func(n *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int), depth int) {
	fn(n, depth)
	if !n.IsDivided || n.Children == nil {
		return
	}
	for _, c := range n.Children {
		if c != nil {
			c.walk(fn, depth+1)
		}
	}
}

// Depth returns the length of the longest root-to-leaf path. A single leaf
// has depth 0.
func (n *Node) Depth() int {
	deepest := 0
	n.Walk(func(_ *Node, d int) {
		if d > deepest {
			deepest = d
		}
	})
	return deepest
}
