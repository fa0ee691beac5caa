// Package compose lays out the side-by-side comparison sheet.
package compose

import (
	"fmt"
	"image"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	margin     = 16
	titleH     = 24
	lineH      = 16
	qrMinSize  = 96
	footerPadY = 8
)

var (
	Background = color.RGBA{0xf4, 0xf4, 0xf5, 0xff}
	PanelFill  = color.RGBA{0xe4, 0xe4, 0xe7, 0xff}
	TextColor  = color.RGBA{0x18, 0x18, 0x1b, 0xff}
)

// Panel is one titled image on the sheet.
type Panel struct {
	Title string
	Image image.Image
}

// Sheet describes a comparison sheet.
type Sheet struct {
	Panels    []Panel
	PanelSize int
	// Footer lines are printed under the panels.
	Footer []string
	// QR, when set, is encoded into a QR code in the footer's right corner.
	QR string
}

// Layout returns the sheet size and the rectangle of every panel.
func (s *Sheet) Layout() (image.Rectangle, []image.Rectangle) {
	n := len(s.Panels)
	w := margin + n*(s.PanelSize+margin)
	footer := len(s.Footer)*lineH + 2*footerPadY
	if s.QR != "" && footer < qrMinSize+2*footerPadY {
		footer = qrMinSize + 2*footerPadY
	}
	h := margin + titleH + s.PanelSize + footer + margin

	rects := make([]image.Rectangle, n)
	for i := range rects {
		x := margin + i*(s.PanelSize+margin)
		y := margin + titleH
		rects[i] = image.Rect(x, y, x+s.PanelSize, y+s.PanelSize)
	}
	return image.Rect(0, 0, w, h), rects
}

// Render draws the sheet.
func (s *Sheet) Render() (*image.RGBA, error) {
	bounds, rects := s.Layout()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(Background), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(TextColor),
		Face: basicfont.Face7x13,
	}

	for i, p := range s.Panels {
		r := rects[i]
		draw.Draw(dst, r, image.NewUniform(PanelFill), image.Point{}, draw.Src)
		if p.Image != nil {
			draw.CatmullRom.Scale(dst, Fit(p.Image.Bounds(), r), p.Image, p.Image.Bounds(), draw.Src, nil)
		}
		d.Dot = fixed.P(r.Min.X, r.Min.Y-8)
		d.DrawString(p.Title)
	}

	footerTop := margin + titleH + s.PanelSize + footerPadY
	for i, line := range s.Footer {
		d.Dot = fixed.P(margin, footerTop+(i+1)*lineH-3)
		d.DrawString(line)
	}

	if s.QR != "" {
		qr, err := qrcode.New(s.QR, qrcode.Medium)
		if err != nil {
			return nil, fmt.Errorf("qr code: %w", err)
		}
		code := qr.Image(qrMinSize)
		at := image.Pt(bounds.Max.X-margin-qrMinSize, footerTop)
		draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(image.Pt(qrMinSize, qrMinSize))}, code, code.Bounds().Min, draw.Src)
	}

	return dst, nil
}

// Fit returns the largest rectangle with src's aspect ratio centred in box.
func Fit(src, box image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw <= 0 || sh <= 0 {
		return image.Rectangle{Min: box.Min, Max: box.Min}
	}
	bw, bh := box.Dx(), box.Dy()
	w, h := bw, sh*bw/sw
	if h > bh {
		w, h = sw*bh/sh, bh
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	x := box.Min.X + (bw-w)/2
	y := box.Min.Y + (bh-h)/2
	return image.Rect(x, y, x+w, y+h)
}
