package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ivlev/quadview/internal/config"
	"github.com/ivlev/quadview/internal/engine"
	"github.com/ivlev/quadview/internal/logging"
	"github.com/ivlev/quadview/internal/source"
	"github.com/ivlev/quadview/internal/system"
)

// Set with -ldflags "-X main.version=...".
var version = "dev"

const inputDir = "input/images"

func main() {
	def := config.Default()

	configPtr := flag.String("config", "", "YAML config file; flags override its values")
	inputPtr := flag.String("input", "", "Image, directory of images or PDF (default: newest file in input/images/)")
	outputPtr := flag.String("output", def.OutputDir, "Output directory")
	modePtr := flag.String("mode", def.Mode, "demo (random sample trees) or service (compression API)")
	urlPtr := flag.String("url", def.ServiceURL, "Compression service base URL")
	timeoutPtr := flag.Duration("timeout", def.Timeout, "Compression service request timeout")
	thresholdPtr := flag.Int("threshold", def.Threshold, "Colour variance threshold sent to the service")
	depthPtr := flag.Int("depth", def.MaxDepth, "Maximum depth of demo trees")
	seedPtr := flag.Int64("seed", 0, "Random seed for demo trees (0 - new trees every run)")
	unitsPtr := flag.Int("units", def.NominalUnits, "Nominal unit count for the compression ratio")
	widthPtr := flag.Int("width", def.Width, "Quad-tree visualizer width")
	heightPtr := flag.Int("height", def.Height, "Quad-tree visualizer height")
	presetPtr := flag.String("preset", "", "Visualizer size preset: small, medium, large")
	panelPtr := flag.Int("panel", def.PanelSize, "Panel size on the comparison sheet")
	workersPtr := flag.Int("workers", 0, "Worker count (0 - one per CPU)")
	dpiPtr := flag.Int("dpi", def.DPI, "DPI for PDF pages")
	formatPtr := flag.String("format", def.Format, "Output format: png, jpeg, qoi")
	qualityPtr := flag.Int("quality", def.Quality, "JPEG quality 1-100")
	treePtr := flag.Bool("save-tree", false, "Write the quad-tree as <name>.qtree.zst")
	qrPtr := flag.Bool("qr", false, "Stamp the stats as a QR code on the sheet")
	reportPtr := flag.String("report", "", "Write a YAML run report to this path")
	statsPtr := flag.Bool("stats", false, "Print a performance report")
	verbosePtr := flag.Bool("verbose", false, "Debug logging to stderr")
	saveConfigPtr := flag.String("save-config", "", "Write the effective configuration as YAML to this path")

	flag.Parse()

	if *verbosePtr {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := def
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			log.Fatalf("[-] Config error: %v", err)
		}
		cfg = loaded
		fmt.Printf("[*] Config: %s\n", *configPtr)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["preset"] {
		cfg.Preset = *presetPtr
		if err := cfg.ApplyPreset(); err != nil {
			log.Fatalf("[-] %v", err)
		}
	}
	if set["input"] {
		cfg.InputPath = *inputPtr
	}
	if set["output"] {
		cfg.OutputDir = *outputPtr
	}
	if set["mode"] {
		cfg.Mode = *modePtr
	}
	if set["url"] {
		cfg.ServiceURL = *urlPtr
	}
	if set["timeout"] {
		cfg.Timeout = *timeoutPtr
	}
	if set["threshold"] {
		cfg.Threshold = *thresholdPtr
	}
	if set["depth"] {
		cfg.MaxDepth = *depthPtr
	}
	if set["seed"] {
		cfg.Seed = *seedPtr
	}
	if set["units"] {
		cfg.NominalUnits = *unitsPtr
	}
	if set["width"] {
		cfg.Width = *widthPtr
	}
	if set["height"] {
		cfg.Height = *heightPtr
	}
	if set["panel"] {
		cfg.PanelSize = *panelPtr
	}
	if set["workers"] {
		cfg.Workers = *workersPtr
	}
	if set["dpi"] {
		cfg.DPI = *dpiPtr
	}
	if set["format"] {
		cfg.Format = *formatPtr
	}
	if set["quality"] {
		cfg.Quality = *qualityPtr
	}
	if set["save-tree"] {
		cfg.SaveTree = *treePtr
	}
	if set["qr"] {
		cfg.QRCode = *qrPtr
	}
	if set["report"] {
		cfg.ReportPath = *reportPtr
	}
	if set["stats"] {
		cfg.ShowStats = *statsPtr
	}
	cfg.BuildVersion = version

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] %v", err)
	}

	if *saveConfigPtr != "" {
		if err := cfg.Save(*saveConfigPtr); err != nil {
			log.Fatalf("[-] Could not save config: %v", err)
		}
		fmt.Printf("[*] Config saved: %s\n", *saveConfigPtr)
	}

	if cfg.InputPath == "" {
		if err := os.MkdirAll(inputDir, 0755); err != nil {
			fmt.Printf("[!] Could not create %s: %v\n", inputDir, err)
		}
		exts := append([]string{".pdf"}, source.Extensions...)
		latest, err := system.FindLatest(inputDir, exts)
		if err != nil {
			log.Fatalf("[-] Error: %v. Put images or a PDF into %s/", err, inputDir)
		}
		cfg.InputPath = latest
		fmt.Printf("[*] Selected file: %s\n", cfg.InputPath)
	}

	src, err := source.Open(cfg.InputPath, cfg.DPI)
	if err != nil {
		log.Fatalf("[-] Source error: %v", err)
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	project := engine.NewComparisonProject(cfg, src)
	rep, err := project.Run(ctx)
	if err != nil {
		src.Close()
		log.Fatalf("[-] Project error: %v", err)
	}

	for _, e := range rep.Entries {
		fmt.Printf("[*] %s: %d leaves, ratio %.1f%%\n", e.Name, e.Stats.LeafCount, e.Stats.CompressionRatio)
	}
	fmt.Printf("[+++] Success! Results: %s\n", cfg.OutputDir)
}
