// Package archive stores quad-trees as zstd-compressed JSON.
package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/ivlev/quadview/internal/quadtree"
)

// Ext is the file extension used for archived trees.
const Ext = ".qtree.zst"

// Encode writes root to w.
func Encode(w io.Writer, root *quadtree.Node) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return err
	}
	if err := json.NewEncoder(enc).Encode(root); err != nil {
		enc.Close()
		return fmt.Errorf("archive: encode tree: %w", err)
	}
	return enc.Close()
}

// Decode reads a tree written by Encode and validates it.
func Decode(r io.Reader) (*quadtree.Node, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var root quadtree.Node
	if err := json.NewDecoder(dec).Decode(&root); err != nil {
		return nil, fmt.Errorf("archive: decode tree: %w", err)
	}
	if err := quadtree.Validate(&root); err != nil {
		return nil, err
	}
	return &root, nil
}

// Size returns the number of bytes Encode produces for root.
func Size(root *quadtree.Node) (int64, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, root); err != nil {
		return 0, err
	}
	return int64(buf.Len()), nil
}

// WriteFile encodes root into path.
func WriteFile(path string, root *quadtree.Node) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, root); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile decodes the tree stored at path.
func ReadFile(path string) (*quadtree.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
