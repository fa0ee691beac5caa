package quadtree

import (
	"errors"
	"fmt"
)

// ErrMalformed is wrapped by every error returned from Validate.
var ErrMalformed = errors.New("malformed quad-tree")

const boundaryEpsilon = 1e-9

// Validate checks the structural invariants of a tree received from outside
// the process: the root covers the unit square, every divided node has four
// children tiling its boundary, and leaves carry no children.
func Validate(root *Node) error {
	if root == nil {
		return fmt.Errorf("%w: nil root", ErrMalformed)
	}
	if !root.Boundary.approxEqual(UnitSquare, boundaryEpsilon) {
		return fmt.Errorf("%w: root: boundary %+v is not the unit square", ErrMalformed, root.Boundary)
	}
	return validateNode(root, "root")
}

func validateNode(n *Node, path string) error {
	b := n.Boundary
	if b.Empty() {
		return fmt.Errorf("%w: %s: empty boundary %+v", ErrMalformed, path, b)
	}
	if b.X < -boundaryEpsilon || b.Y < -boundaryEpsilon ||
		b.X+b.Width > 1+boundaryEpsilon || b.Y+b.Height > 1+boundaryEpsilon {
		return fmt.Errorf("%w: %s: boundary %+v outside the unit square", ErrMalformed, path, b)
	}

	if !n.IsDivided {
		if n.Children != nil {
			return fmt.Errorf("%w: %s: leaf has children", ErrMalformed, path)
		}
		return nil
	}
	if n.Children == nil {
		return fmt.Errorf("%w: %s: divided node has no children", ErrMalformed, path)
	}

	want := b.Quadrants()
	for _, q := range Quadrants {
		child := n.Children[q]
		childPath := path + "." + q.String()
		if child == nil {
			return fmt.Errorf("%w: %s: missing child", ErrMalformed, childPath)
		}
		if !child.Boundary.approxEqual(want[q], boundaryEpsilon) {
			return fmt.Errorf("%w: %s: boundary %+v, want %+v", ErrMalformed, childPath, child.Boundary, want[q])
		}
		if err := validateNode(child, childPath); err != nil {
			return err
		}
	}
	return nil
}
