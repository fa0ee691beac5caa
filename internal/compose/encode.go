package compose

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/xfmoulet/qoi"
)

func Ext(format string) string {
	switch format {
	case "jpeg", "jpg":
		return ".jpg"
	case "qoi":
		return ".qoi"
	default:
		return ".png"
	}
}

// Encode writes img in format: png, jpeg (jpg) or qoi. quality only
// affects jpeg.
func Encode(w io.Writer, img image.Image, format string, quality int) error {
	switch format {
	case "png", "":
		return png.Encode(w, img)
	case "jpeg", "jpg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case "qoi":
		return qoi.Encode(w, img)
	}
	return fmt.Errorf("unsupported output format %q", format)
}

func WriteFile(path string, img image.Image, format string, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, format, quality); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
