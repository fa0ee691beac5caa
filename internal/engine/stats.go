package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ivlev/quadview/internal/metrics"
	"github.com/ivlev/quadview/internal/report"
)

// FormatBytes renders n with a binary unit, e.g. "1.5 KB".
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}

func statsLine(s metrics.Stats) string {
	return fmt.Sprintf("leaves=%d ratio=%.1f%% original=%d compressed=%d time=%.2fs",
		s.LeafCount, s.CompressionRatio, s.OriginalSize, s.CompressedSize, s.ProcessingTime)
}

func footer(name string, s metrics.Stats) []string {
	return []string{
		name,
		fmt.Sprintf("Original: %s   Compressed: %s", FormatBytes(s.OriginalSize), FormatBytes(s.CompressedSize)),
		fmt.Sprintf("Leaves: %d   Ratio: %.1f%%   Time: %.2fs", s.LeafCount, s.CompressionRatio, s.ProcessingTime),
	}
}

func (p *ComparisonProject) printStats(rep *report.Report) {
	t := rep.Totals()
	fmt.Printf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Images: %d\n"+
			"Total Time: %.2fs\n"+
			"Compression Time: %.2fs\n"+
			"Leaves: %d\n"+
			"Original: %s | Compressed: %s\n"+
			"----------------------------\n",
		rep.Build, len(rep.Entries), rep.Elapsed, t.ProcessingTime, t.LeafCount,
		FormatBytes(t.OriginalSize), FormatBytes(t.CompressedSize),
	)

	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Mode: %s | Images: %d | Total: %.2fs | Leaves: %d\n",
		time.Now().Format("2006-01-02 15:04:05"),
		rep.Build,
		filepath.Base(p.Config.InputPath),
		rep.Mode,
		len(rep.Entries),
		rep.Elapsed,
		t.LeafCount,
	)
	f, err := os.OpenFile(filepath.Join(p.Config.OutputDir, "benchmark.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("[!] Could not write benchmark.log: %v\n", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(logEntry); err != nil {
		fmt.Printf("[!] Could not write benchmark.log: %v\n", err)
	}
}
