package report

import (
	"github.com/ivlev/quadview/internal/metrics"
	"github.com/ivlev/quadview/internal/system"
)

// Report describes one quadview run.
type Report struct {
	Version   string          `yaml:"version"`
	Generated string          `yaml:"generated"`
	Build     string          `yaml:"build,omitempty"`
	Mode      string          `yaml:"mode"`
	Host      system.HostInfo `yaml:"host"`
	Elapsed   float64         `yaml:"elapsed"` // seconds
	Entries   []Entry         `yaml:"entries"`
}

// Entry is the result for a single input image.
type Entry struct {
	Index      int           `yaml:"index"`
	Name       string        `yaml:"name"`
	Width      int           `yaml:"width"`
	Height     int           `yaml:"height"`
	InputBytes int64         `yaml:"input_bytes,omitempty"`
	Depth      int           `yaml:"depth"`
	Stats      metrics.Stats `yaml:"stats"`
	Outputs    Outputs       `yaml:"outputs"`
}

type Outputs struct {
	Comparison string `yaml:"comparison"`
	Compressed string `yaml:"compressed"`
	Tree       string `yaml:"tree,omitempty"`
}

func (r *Report) Totals() metrics.Stats {
	var t metrics.Stats
	for _, e := range r.Entries {
		t.OriginalSize += e.Stats.OriginalSize
		t.CompressedSize += e.Stats.CompressedSize
		t.ProcessingTime += e.Stats.ProcessingTime
		t.LeafCount += e.Stats.LeafCount
	}
	return t
}
