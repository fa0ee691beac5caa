// Package source enumerates the images a run compares.
package source

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ErrNoPages is returned when a source has nothing to process.
var ErrNoPages = errors.New("source contains no images")

type Source interface {
	Count() int
	// Name is a file-system friendly label for item index.
	Name(index int) string
	Load(index int) (image.Image, error)
	Close() error
}

// Open picks the source implementation for path: PDFs are split into pages,
// anything else is treated as an image file or a directory of images.
func Open(path string, dpi int) (Source, error) {
	var (
		src Source
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		src, err = NewFitzPDFSource(path, dpi)
	} else {
		src, err = NewImageSource(path)
	}
	if err != nil {
		return nil, err
	}
	if src.Count() == 0 {
		src.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNoPages)
	}
	return src, nil
}

type FitzPDFSource struct {
	doc  *fitz.Document
	path string
	dpi  int
}

func NewFitzPDFSource(path string, dpi int) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &FitzPDFSource{doc: doc, path: path, dpi: dpi}, nil
}

func (f *FitzPDFSource) Count() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) Name(index int) string {
	return fmt.Sprintf("%s_p%03d", baseName(f.path), index+1)
}

// Load renders one page. Each call opens its own document so pages can be
// rendered from several workers at once.
func (f *FitzPDFSource) Load(index int) (image.Image, error) {
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, float64(f.dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}

func baseName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.ReplaceAll(name, " ", "_")
}
