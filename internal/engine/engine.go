package engine

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/quadview/internal/archive"
	"github.com/ivlev/quadview/internal/builder"
	"github.com/ivlev/quadview/internal/compose"
	"github.com/ivlev/quadview/internal/config"
	"github.com/ivlev/quadview/internal/logging"
	"github.com/ivlev/quadview/internal/metrics"
	"github.com/ivlev/quadview/internal/render"
	"github.com/ivlev/quadview/internal/report"
	"github.com/ivlev/quadview/internal/service"
	"github.com/ivlev/quadview/internal/source"
	"github.com/ivlev/quadview/internal/system"
)

const ReportVersion = "1.0"

// Compressor turns an image into a compressed rendition plus its quad-tree.
// *service.Client is the production implementation.
type Compressor interface {
	Compress(ctx context.Context, img image.Image, threshold int) (*service.Result, error)
}

type ComparisonProject struct {
	Config *config.Config
	Source source.Source
	// Compressor is used in service mode. Nil means trees are generated
	// locally by the sample builder.
	Compressor Compressor
}

// NewComparisonProject wires the compressor that cfg.Mode asks for.
func NewComparisonProject(cfg *config.Config, src source.Source) *ComparisonProject {
	p := &ComparisonProject{Config: cfg, Source: src}
	if cfg.Mode == config.ModeService {
		p.Compressor = service.NewClient(cfg.ServiceURL, cfg.Timeout)
	}
	return p
}

// Run processes every image of the source and returns the run report. The
// first failed image cancels the rest.
func (p *ComparisonProject) Run(ctx context.Context) (*report.Report, error) {
	startTime := time.Now()
	cfg := p.Config

	count := p.Source.Count()
	if count == 0 {
		return nil, source.ErrNoPages
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = system.DefaultWorkers(count)
	}

	fmt.Println("--- [QUADVIEW] ---")
	fmt.Printf("[*] Source: %s | Images: %d | Mode: %s\n", cfg.InputPath, count, p.mode())
	fmt.Printf("[*] Visualizer: %dx%d | Workers: %d | Output: %s\n", cfg.Width, cfg.Height, workers, cfg.OutputDir)
	fmt.Println("------------------")

	entries := make([]report.Entry, count)
	var ready atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			entry, err := p.process(gctx, i)
			if err != nil {
				return fmt.Errorf("image %d (%s): %w", i+1, p.Source.Name(i), err)
			}
			entries[i] = entry
			fmt.Printf("[>] Ready: %d/%d\n", ready.Add(1), count)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &report.Report{
		Version:   ReportVersion,
		Generated: time.Now().Format(time.RFC3339),
		Build:     cfg.BuildVersion,
		Mode:      p.mode(),
		Host:      system.Host(),
		Elapsed:   time.Since(startTime).Seconds(),
		Entries:   entries,
	}

	if cfg.ReportPath != "" {
		if err := report.WriteReport(rep, cfg.ReportPath); err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("[*] Report: %s\n", cfg.ReportPath)
	}
	if cfg.ShowStats {
		p.printStats(rep)
	}
	return rep, nil
}

func (p *ComparisonProject) mode() string {
	if p.Compressor != nil {
		return config.ModeService
	}
	return config.ModeDemo
}

func (p *ComparisonProject) process(ctx context.Context, i int) (report.Entry, error) {
	if err := ctx.Err(); err != nil {
		return report.Entry{}, err
	}
	cfg := p.Config
	name := p.Source.Name(i)
	log := logging.Logger().With("image", name)

	img, err := p.Source.Load(i)
	if err != nil {
		return report.Entry{}, fmt.Errorf("load: %w", err)
	}
	b := img.Bounds()
	log.Debug("loaded", "width", b.Dx(), "height", b.Dy())

	var res *service.Result
	if p.Compressor != nil {
		res, err = p.Compressor.Compress(ctx, img, cfg.Threshold)
	} else {
		res, err = p.sample(i, img)
	}
	if err != nil {
		return report.Entry{}, err
	}
	log.Debug("compressed", "leaves", res.Stats.LeafCount, "ratio", res.Stats.CompressionRatio)

	visual := system.GetSurface(image.Rect(0, 0, cfg.Width, cfg.Height))
	defer system.PutSurface(visual)
	render.Draw(visual, res.Tree, render.Options{Border: render.DefaultBorder})

	sheet := &compose.Sheet{
		Panels: []compose.Panel{
			{Title: "Original", Image: img},
			{Title: "Compressed", Image: res.Compressed},
			{Title: "Quad-tree", Image: visual},
		},
		PanelSize: cfg.PanelSize,
		Footer:    footer(name, res.Stats),
	}
	if cfg.QRCode {
		sheet.QR = statsLine(res.Stats)
	}
	composed, err := sheet.Render()
	if err != nil {
		return report.Entry{}, err
	}

	ext := compose.Ext(cfg.Format)
	out := report.Outputs{
		Comparison: filepath.Join(cfg.OutputDir, name+"_comparison"+ext),
		Compressed: filepath.Join(cfg.OutputDir, name+"_compressed"+ext),
	}
	if err := compose.WriteFile(out.Comparison, composed, cfg.Format, cfg.Quality); err != nil {
		return report.Entry{}, fmt.Errorf("write comparison: %w", err)
	}
	if err := compose.WriteFile(out.Compressed, res.Compressed, cfg.Format, cfg.Quality); err != nil {
		return report.Entry{}, fmt.Errorf("write compressed: %w", err)
	}
	if cfg.SaveTree {
		out.Tree = filepath.Join(cfg.OutputDir, name+archive.Ext)
		if err := archive.WriteFile(out.Tree, res.Tree); err != nil {
			return report.Entry{}, fmt.Errorf("write tree: %w", err)
		}
	}

	entry := report.Entry{
		Index:   i,
		Name:    name,
		Width:   b.Dx(),
		Height:  b.Dy(),
		Depth:   res.Tree.Depth(),
		Stats:   res.Stats,
		Outputs: out,
	}
	if sized, ok := p.Source.(interface{ Size(int) (int64, error) }); ok {
		if n, err := sized.Size(i); err == nil {
			entry.InputBytes = n
		}
	}
	return entry, nil
}

// sample stands in for the compression service: a random tree, its leaf
// fill at the image size, and stats measured against the zstd archive.
func (p *ComparisonProject) sample(i int, img image.Image) (*service.Result, error) {
	start := time.Now()
	cfg := p.Config

	var r *rand.Rand
	if cfg.Seed != 0 {
		r = rand.New(rand.NewSource(cfg.Seed + int64(i)))
	}
	tree := builder.BuildSampleTree(cfg.MaxDepth, r)

	b := img.Bounds()
	compressed := render.Fill(tree, b.Dx(), b.Dy())

	size, err := archive.Size(tree)
	if err != nil {
		return nil, fmt.Errorf("archive size: %w", err)
	}
	stats := metrics.Demo(tree, metrics.RawSize(b.Dx(), b.Dy()), size, time.Since(start), cfg.NominalUnits)
	return &service.Result{Compressed: compressed, Tree: tree, Stats: stats}, nil
}
