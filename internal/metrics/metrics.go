package metrics

import (
	"math"
	"time"

	"github.com/ivlev/quadview/internal/quadtree"
)

// NominalUnits is the baseline unit count the ratio is measured against.
const NominalUnits = 1024

// Stats summarizes one compression run.
type Stats struct {
	OriginalSize     int64   `json:"originalSize" yaml:"original_size"`         // bytes
	CompressedSize   int64   `json:"compressedSize" yaml:"compressed_size"`     // bytes
	ProcessingTime   float64 `json:"processingTime" yaml:"processing_time"`     // seconds
	LeafCount        int     `json:"leafCount" yaml:"leaf_count"`               // blocks
	CompressionRatio float64 `json:"compressionRatio" yaml:"compression_ratio"` // percent
}

// CountLeaves returns the number of undivided nodes under root. A divided
// node contributes only through its children; missing ones count as zero.
func CountLeaves(root *quadtree.Node) int {
	if root == nil {
		return 0
	}
	if !root.IsDivided {
		return 1
	}
	if root.Children == nil {
		return 0
	}
	count := 0
	for _, c := range root.Children {
		count += CountLeaves(c)
	}
	return count
}

// CompressionRatio estimates the size reduction of root against nominalUnits,
// in percent rounded to one decimal.
func CompressionRatio(root *quadtree.Node, nominalUnits int) float64 {
	return Ratio(CountLeaves(root), nominalUnits)
}

// Ratio is the percentage reduction from nominalUnits to leafCount, rounded to
// one decimal. It is not clamped: more leaves than units gives a negative
// value. A non-positive nominalUnits yields 0.
func Ratio(leafCount, nominalUnits int) float64 {
	if nominalUnits <= 0 {
		return 0
	}
	nominal := float64(nominalUnits)
	return round(((nominal-float64(leafCount))/nominal)*100, 1)
}

// Demo builds the stats reported when the tree was generated locally.
func Demo(root *quadtree.Node, originalSize, compressedSize int64, elapsed time.Duration, nominalUnits int) Stats {
	leaves := CountLeaves(root)
	return Stats{
		OriginalSize:     originalSize,
		CompressedSize:   compressedSize,
		ProcessingTime:   round(elapsed.Seconds(), 2),
		LeafCount:        leaves,
		CompressionRatio: Ratio(leaves, nominalUnits),
	}
}

// RawSize is the byte size of an uncompressed 24-bit RGB raster.
func RawSize(width, height int) int64 {
	return int64(width) * int64(height) * 3
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
