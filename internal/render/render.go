// Package render paints quad-trees onto raster surfaces.
package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/ivlev/quadview/internal/palette"
	"github.com/ivlev/quadview/internal/quadtree"
)

// DefaultBorder outlines every node in the visualizer.
var DefaultBorder = palette.MustParse("rgba(255, 255, 255, 0.4)")

// Options controls Draw.
type Options struct {
	// Border is composited over each node's outline when non-nil.
	Border color.Color
	// Fallback fills leaves whose color token does not parse. Nil means black.
	Fallback color.Color
}

// Render paints root onto a new width×height surface with node outlines.
func Render(root *quadtree.Node, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	Draw(dst, root, Options{Border: DefaultBorder})
	return dst
}

// Fill paints only the leaf colors of root onto a new width×height surface.
func Fill(root *quadtree.Node, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	Draw(dst, root, Options{})
	return dst
}

// Draw paints root onto dst, scaling the unit square to dst.Bounds().
// Leaves are filled with their color; divided nodes are never filled and
// recurse into their children in quadrant order. Each pixel of dst is filled
// by exactly one leaf of a valid tree.
func Draw(dst draw.Image, root *quadtree.Node, opts Options) {
	if root == nil {
		return
	}
	p := painter{
		dst:      dst,
		bounds:   dst.Bounds(),
		border:   opts.Border,
		fallback: opts.Fallback,
		cache:    make(map[string]*image.Uniform),
	}
	if p.fallback == nil {
		p.fallback = color.Black
	}
	p.node(root)
}

type painter struct {
	dst      draw.Image
	bounds   image.Rectangle
	border   color.Color
	fallback color.Color
	cache    map[string]*image.Uniform
}

func (p *painter) node(n *quadtree.Node) {
	r := p.pixelRect(n.Boundary)

	if !n.IsDivided {
		draw.Draw(p.dst, r, p.uniform(n.Color), image.Point{}, draw.Src)
	}
	if p.border != nil {
		p.outline(r)
	}
	if n.IsDivided && n.Children != nil {
		for _, c := range n.Children {
			if c != nil {
				p.node(c)
			}
		}
	}
}

// pixelRect rounds each normalized edge independently so that neighbours
// sharing an edge map to the same pixel column or row.
func (p *painter) pixelRect(b quadtree.Rect) image.Rectangle {
	w := float64(p.bounds.Dx())
	h := float64(p.bounds.Dy())
	x0 := p.bounds.Min.X + int(math.Round(b.X*w))
	y0 := p.bounds.Min.Y + int(math.Round(b.Y*h))
	x1 := p.bounds.Min.X + int(math.Round((b.X+b.Width)*w))
	y1 := p.bounds.Min.Y + int(math.Round((b.Y+b.Height)*h))
	return image.Rect(x0, y0, x1, y1).Intersect(p.bounds)
}

// outline composites a 1px frame on the inside of r. The four strips do not
// overlap, so every frame pixel is blended once.
func (p *painter) outline(r image.Rectangle) {
	if r.Empty() {
		return
	}
	src := image.NewUniform(p.border)
	strips := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
	}
	if r.Dy() > 1 {
		strips = append(strips, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y))
	}
	if r.Dy() > 2 {
		strips = append(strips, image.Rect(r.Min.X, r.Min.Y+1, r.Min.X+1, r.Max.Y-1))
		if r.Dx() > 1 {
			strips = append(strips, image.Rect(r.Max.X-1, r.Min.Y+1, r.Max.X, r.Max.Y-1))
		}
	}
	for _, s := range strips {
		draw.Draw(p.dst, s, src, image.Point{}, draw.Over)
	}
}

func (p *painter) uniform(token string) *image.Uniform {
	if u, ok := p.cache[token]; ok {
		return u
	}
	var u *image.Uniform
	if c, err := palette.Parse(token); err == nil {
		u = image.NewUniform(c)
	} else {
		u = image.NewUniform(p.fallback)
	}
	p.cache[token] = u
	return u
}
