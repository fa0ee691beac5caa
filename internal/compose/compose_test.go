package compose

import (
	"bytes"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"testing"

	_ "github.com/xfmoulet/qoi"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestFit(t *testing.T) {
	box := image.Rect(10, 10, 110, 110)
	tests := []struct {
		src  image.Rectangle
		want image.Rectangle
	}{
		{image.Rect(0, 0, 200, 100), image.Rect(10, 35, 110, 85)},
		{image.Rect(0, 0, 50, 100), image.Rect(35, 10, 85, 110)},
		{image.Rect(0, 0, 7, 7), image.Rect(10, 10, 110, 110)},
		{image.Rect(0, 0, 0, 5), image.Rect(10, 10, 10, 10)},
	}
	for _, tt := range tests {
		if got := Fit(tt.src, box); got != tt.want {
			t.Errorf("Fit(%v) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestSheetRender(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	s := &Sheet{
		Panels: []Panel{
			{Title: "Original", Image: solid(40, 20, red)},
			{Title: "Compressed", Image: solid(40, 20, blue)},
			{Title: "Quad-tree", Image: nil},
		},
		PanelSize: 100,
		Footer:    []string{"Leaves: 4", "Ratio: 99.6%"},
		QR:        "leaves=4 ratio=99.6",
	}

	img, err := s.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	bounds, rects := s.Layout()
	if img.Bounds() != bounds {
		t.Fatalf("bounds %v, want %v", img.Bounds(), bounds)
	}

	c0 := rects[0].Min.Add(image.Pt(50, 50))
	if got := img.RGBAAt(c0.X, c0.Y); got != red {
		t.Errorf("panel 0 centre = %v, want red", got)
	}
	c1 := rects[1].Min.Add(image.Pt(50, 50))
	if got := img.RGBAAt(c1.X, c1.Y); got != blue {
		t.Errorf("panel 1 centre = %v, want blue", got)
	}
	c2 := rects[2].Min.Add(image.Pt(50, 50))
	if got := img.RGBAAt(c2.X, c2.Y); got != PanelFill {
		t.Errorf("empty panel = %v, want panel fill", got)
	}
	// Letterbox above the 2:1 original keeps the panel fill.
	if got := img.RGBAAt(rects[0].Min.X+50, rects[0].Min.Y+5); got != PanelFill {
		t.Errorf("letterbox = %v", got)
	}
}

func TestSheetLayoutReservesQRSpace(t *testing.T) {
	plain := &Sheet{Panels: make([]Panel, 2), PanelSize: 50}
	withQR := &Sheet{Panels: make([]Panel, 2), PanelSize: 50, QR: "x"}
	a, _ := plain.Layout()
	b, _ := withQR.Layout()
	if b.Dy() <= a.Dy() {
		t.Errorf("QR sheet height %d not larger than %d", b.Dy(), a.Dy())
	}
}

func TestEncodeFormats(t *testing.T) {
	img := solid(6, 4, color.RGBA{1, 2, 3, 255})
	for _, format := range []string{"png", "jpeg", "qoi"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, img, format, 90); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			back, name, err := image.Decode(&buf)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if back.Bounds().Dx() != 6 || back.Bounds().Dy() != 4 {
				t.Errorf("%s bounds = %v", name, back.Bounds())
			}
		})
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, "gif", 0); err == nil {
		t.Error("expected error for unsupported format")
	}
	if Ext("jpeg") != ".jpg" || Ext("qoi") != ".qoi" || Ext("png") != ".png" {
		t.Error("Ext mapping wrong")
	}
}
