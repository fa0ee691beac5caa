package quadtree

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestNewNodeIsLeaf(t *testing.T) {
	n := NewNode(Rect{X: 0.25, Y: 0.5, Width: 0.25, Height: 0.5}, "#ff0000")
	if n.IsDivided {
		t.Error("new node should not be divided")
	}
	if n.Children != nil {
		t.Error("new node should have no children")
	}
	if !n.IsLeaf() {
		t.Error("IsLeaf() = false, want true")
	}
}

func TestSubdivideQuadrants(t *testing.T) {
	root := NewRoot("#333333")
	root.Subdivide([4]string{"a", "b", "c", "d"})

	if !root.IsDivided || root.Children == nil {
		t.Fatal("root should be divided after Subdivide")
	}

	want := []struct {
		q     Quadrant
		rect  Rect
		color string
	}{
		{TopLeft, Rect{X: 0, Y: 0, Width: 0.5, Height: 0.5}, "a"},
		{TopRight, Rect{X: 0.5, Y: 0, Width: 0.5, Height: 0.5}, "b"},
		{BottomLeft, Rect{X: 0, Y: 0.5, Width: 0.5, Height: 0.5}, "c"},
		{BottomRight, Rect{X: 0.5, Y: 0.5, Width: 0.5, Height: 0.5}, "d"},
	}
	for _, tt := range want {
		t.Run(tt.q.String(), func(t *testing.T) {
			c := root.Child(tt.q)
			if c == nil {
				t.Fatal("missing child")
			}
			if c.Boundary != tt.rect {
				t.Errorf("boundary = %+v, want %+v", c.Boundary, tt.rect)
			}
			if c.Color != tt.color {
				t.Errorf("color = %q, want %q", c.Color, tt.color)
			}
			if !c.IsLeaf() {
				t.Error("child should be a leaf")
			}
		})
	}
}

func TestSubdividePartitionsParent(t *testing.T) {
	parents := []Rect{
		UnitSquare,
		{X: 0.5, Y: 0.25, Width: 0.25, Height: 0.25},
		{X: 0.125, Y: 0.75, Width: 0.125, Height: 0.25},
	}
	for _, p := range parents {
		n := NewNode(p, "x")
		n.Subdivide([4]string{"a", "b", "c", "d"})

		sum := 0.0
		for i, a := range n.Children {
			sum += a.Boundary.Area()
			if p.Intersect(a.Boundary) != a.Boundary {
				t.Errorf("%+v: child %d %+v escapes parent", p, i, a.Boundary)
			}
			for j, b := range n.Children {
				if i >= j {
					continue
				}
				if area := a.Boundary.Intersect(b.Boundary).Area(); area != 0 {
					t.Errorf("%+v: children %d and %d overlap by %g", p, i, j, area)
				}
			}
		}
		if math.Abs(sum-p.Area()) > 1e-12 {
			t.Errorf("%+v: children area %g, want %g", p, sum, p.Area())
		}
	}
}

func TestSubdivideTwicePanics(t *testing.T) {
	n := NewRoot("x")
	n.Subdivide([4]string{"a", "b", "c", "d"})

	defer func() {
		if recover() == nil {
			t.Error("expected panic on second Subdivide")
		}
	}()
	n.Subdivide([4]string{"a", "b", "c", "d"})
}

func TestWalkPreOrder(t *testing.T) {
	root := NewRoot("r")
	root.Subdivide([4]string{"tl", "tr", "bl", "br"})
	root.Child(TopRight).Subdivide([4]string{"tr.tl", "tr.tr", "tr.bl", "tr.br"})

	var got []string
	root.Walk(func(n *Node, depth int) {
		got = append(got, n.Color)
	})

	want := "r tl tr tr.tl tr.tr tr.bl tr.br bl br"
	if s := strings.Join(got, " "); s != want {
		t.Errorf("walk order = %q, want %q", s, want)
	}
	if d := root.Depth(); d != 2 {
		t.Errorf("Depth() = %d, want 2", d)
	}
}

func TestQuadrantString(t *testing.T) {
	if s := BottomLeft.String(); s != "bottomLeft" {
		t.Errorf("BottomLeft.String() = %q", s)
	}
	if s := Quadrant(7).String(); s != "Quadrant(7)" {
		t.Errorf("Quadrant(7).String() = %q", s)
	}
}

func TestJSONRoundTripShape(t *testing.T) {
	root := NewRoot("#333333")
	root.Subdivide([4]string{"a", "b", "c", "d"})

	data, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, key := range []string{`"isDivided":true`, `"topLeft":`, `"bottomRight":`, `"width":0.5`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("encoded tree missing %s: %s", key, data)
		}
	}

	var back Node
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if err := Validate(&back); err != nil {
		t.Errorf("decoded tree invalid: %v", err)
	}
	if back.Child(BottomLeft).Color != "c" {
		t.Errorf("bottomLeft color = %q, want c", back.Child(BottomLeft).Color)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Node {
		n := NewRoot("r")
		n.Subdivide([4]string{"a", "b", "c", "d"})
		n.Child(BottomRight).Subdivide([4]string{"a", "b", "c", "d"})
		return n
	}

	tests := []struct {
		name    string
		tree    func() *Node
		wantErr string
	}{
		{"valid", valid, ""},
		{"single leaf", func() *Node { return NewRoot("r") }, ""},
		{"nil root", func() *Node { return nil }, "nil root"},
		{"root not unit square", func() *Node {
			return NewNode(Rect{Width: 0.5, Height: 1}, "r")
		}, "not the unit square"},
		{"divided without children", func() *Node {
			n := NewRoot("r")
			n.IsDivided = true
			return n
		}, "no children"},
		{"leaf with children", func() *Node {
			n := valid()
			n.Child(TopLeft).Children = &Children{}
			return n
		}, "root.topLeft: leaf has children"},
		{"three children", func() *Node {
			n := valid()
			n.Children[BottomLeft] = nil
			return n
		}, "root.bottomLeft: missing child"},
		{"wrong quadrant boundary", func() *Node {
			n := valid()
			n.Child(BottomRight).Child(TopRight).Boundary.X = 0.5
			return n
		}, "root.bottomRight.topRight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.tree())
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("error %v does not wrap ErrMalformed", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRejectsIncompleteJSON(t *testing.T) {
	data := `{"boundary":{"x":0,"y":0,"width":1,"height":1},"color":"rgb(0,0,0)","isDivided":true,
	"children":{
		"topLeft":{"boundary":{"x":0,"y":0,"width":0.5,"height":0.5},"color":"rgb(1,1,1)","isDivided":false},
		"topRight":{"boundary":{"x":0.5,"y":0,"width":0.5,"height":0.5},"color":"rgb(1,1,1)","isDivided":false},
		"bottomLeft":{"boundary":{"x":0,"y":0.5,"width":0.5,"height":0.5},"color":"rgb(1,1,1)","isDivided":false}
	}}`

	var root Node
	if err := json.Unmarshal([]byte(data), &root); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if err := Validate(&root); !errors.Is(err, ErrMalformed) {
		t.Errorf("Validate() = %v, want ErrMalformed", err)
	}
}
