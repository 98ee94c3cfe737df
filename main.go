// FILE: main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/asciimesh/config"
	"github.com/lixenwraith/asciimesh/mesh"
	"github.com/lixenwraith/asciimesh/raster"
	"github.com/lixenwraith/asciimesh/render"
	"github.com/lixenwraith/asciimesh/terminal"
)

func main() {
	var (
		configPath string
		logPath    string
		outPath    string
		width      int
		height     int
		zoom       float64
		format     string
		colorStr   string
		bgStr      string
		tintStr    string
		backend    string
	)

	flag.StringVar(&configPath, "config", defaultConfigPath(), "Config file (YAML)")
	flag.StringVar(&logPath, "log", "", "Write diagnostics to this file")
	flag.StringVar(&outPath, "o", "-", "Image mode output file ('-' for stdout)")
	flag.IntVar(&width, "width", 0, "Image mode width in cells (requires -height)")
	flag.IntVar(&height, "height", 0, "Image mode height in cells (requires -width)")
	flag.Float64Var(&zoom, "z", 1.0, "Zoom factor")
	flag.StringVar(&format, "format", config.FormatANSI, "Output format: 'plain', 'ansi' or 'html'")
	flag.StringVar(&colorStr, "c", "auto", "Color depth: 'auto', 'true', or '256'")
	flag.StringVar(&bgStr, "bg", "black", "Background color name or #rrggbb")
	flag.StringVar(&tintStr, "tint", "white", "Color of faces without material")
	flag.StringVar(&backend, "backend", config.BackendANSI, "Interactive backend: 'ansi' or 'tcell'")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	closeLog, err := setupLog(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Explicit flags override the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = width
		case "height":
			cfg.Height = height
		case "z":
			cfg.Zoom = float32(zoom)
		case "format":
			cfg.Format = format
		case "c":
			cfg.ColorMode = colorStr
		case "bg":
			cfg.Background = bgStr
		case "tint":
			cfg.Tint = tintStr
		case "backend":
			cfg.Backend = backend
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, flag.Arg(0), outPath); err != nil {
		closeLog()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, modelPath, outPath string) error {
	meshes, err := mesh.Load(modelPath)
	if err != nil {
		return err
	}
	log.Printf("Loaded %s: %d meshes, %d faces", modelPath, len(meshes), mesh.FaceCount(meshes))

	opts, err := cfg.FlushOptions()
	if err != nil {
		return err
	}
	tint, err := cfg.TintRGB()
	if err != nil {
		return err
	}
	rz := raster.New(cfg.Ramp, tint)

	if cfg.ImageMode() {
		return writeImage(cfg, meshes, rz, opts, modelPath, outPath)
	}

	if opts.Web {
		return errors.New("html output requires image mode (-width and -height)")
	}

	switch cfg.Backend {
	case config.BackendTcell:
		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		ctx := render.New(render.ModeInteractive, cfg.Zoom, nil)
		return runTcell(newViewer(ctx, meshes, rz, opts), screen)
	default:
		ctx := render.New(render.ModeInteractive, cfg.Zoom, streamSizer(terminal.StdoutSizer(), opts))
		return runANSI(newViewer(ctx, meshes, rz, opts))
	}
}

// writeImage renders a single fixed-size frame to outPath
func writeImage(cfg *config.Config, meshes []*mesh.Mesh, rz *raster.Rasterizer, opts render.FlushOptions, title, outPath string) error {
	if outPath == "-" {
		return renderImage(os.Stdout, cfg, meshes, rz, opts, title)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := renderImage(f, cfg, meshes, rz, opts, title); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// renderImage runs one image-mode frame: update, clear, rasterize, flush
func renderImage(w io.Writer, cfg *config.Config, meshes []*mesh.Mesh, rz *raster.Rasterizer, opts render.FlushOptions, title string) error {
	ctx := render.NewImage(cfg.Width, cfg.Height, cfg.Zoom)
	if _, err := ctx.Update(render.Size{}, mesh.Bounds(meshes)); err != nil {
		return err
	}
	ctx.Clear()
	rz.Draw(ctx, meshes)
	rz.Resolve(ctx)

	opts.Redraw = ctx.RedrawFor(0)
	if opts.Web {
		return ctx.FlushDocument(w, filepath.Base(title), opts)
	}
	return ctx.Flush(w, opts)
}

// setupLog routes the standard logger to a file, or discards it so frames stay clean
func setupLog(path string) (func(), error) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return func() { f.Close() }, nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "asciimesh.yaml"
	}
	return filepath.Join(dir, "asciimesh", "config.yaml")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: asciimesh [options] <model.obj|model.stl>\n\n")
	fmt.Fprintf(os.Stderr, "Without -width/-height the model is shown interactively:\n")
	fmt.Fprintf(os.Stderr, "  h/l, left/right  rotate around Y\n")
	fmt.Fprintf(os.Stderr, "  j/k, down/up     rotate around X\n")
	fmt.Fprintf(os.Stderr, "  +/-              zoom\n")
	fmt.Fprintf(os.Stderr, "  r                reset view\n")
	fmt.Fprintf(os.Stderr, "  q, Esc, Ctrl+C   quit\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}
