// Command wavecurve is a CLI tool for working with mirror correction curves.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"

	"github.com/ha1tch/wavecurve/pkg/config"
	"github.com/ha1tch/wavecurve/pkg/curve"
	"github.com/ha1tch/wavecurve/pkg/curvefile"
)

const usage = `wavecurve - mirror correction curve toolkit

Usage:
  wavecurve [-v] <command> [options]

Commands:
  new        Create a two-anchor curve
  info       Show curve information
  render     Render a curve to PNG or SVG
  convert    Convert between formats (json, yaml)
  sample     Print the curve profile as CSV

Examples:
  wavecurve new -o mirror.json --radius 150 --wave 0.25
  wavecurve info mirror.json
  wavecurve render mirror.json -o mirror.png -w 1200 -h 500 --unit mm
  wavecurve convert mirror.json -o mirror.yaml
  wavecurve sample mirror.json --steps 20 > profile.csv

Settings are read from ~/.wavecurve.toml, or from $WAVECURVE_CONFIG when set.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	args, verbose := stripVerbose(args)
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 1
	}

	cmd, args := args[0], args[1:]
	var err error
	switch cmd {
	case "new":
		err = cmdNew(args, stdout)
	case "info":
		err = cmdInfo(args, stdout)
	case "render":
		err = cmdRender(args, stdout)
	case "convert":
		err = cmdConvert(args, stdout)
	case "sample":
		err = cmdSample(args, stdout)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(stderr, usage)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func stripVerbose(args []string) ([]string, bool) {
	out := args[:0:0]
	verbose := false
	for _, a := range args {
		if a == "-v" || a == "--verbose" {
			verbose = true
			continue
		}
		out = append(out, a)
	}
	return out, verbose
}

// usageError reports a bad invocation of one command.
type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

// options collects "--name value" pairs after the positional arguments.
type options struct {
	positional []string
	values     map[string]string
}

// parseOptions splits args into positionals and the named options in
// known, which maps every accepted spelling to a canonical name.
func parseOptions(args []string, known map[string]string) (options, error) {
	o := options{values: map[string]string{}}
	for i := 0; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") || a == "-" {
			o.positional = append(o.positional, a)
			continue
		}
		name, ok := known[a]
		if !ok {
			return o, fmt.Errorf("unknown option %s", a)
		}
		if i+1 >= len(args) {
			return o, fmt.Errorf("option %s needs a value", a)
		}
		o.values[name] = args[i+1]
		i++
	}
	return o, nil
}

func (o options) float(name string, def float64) (float64, error) {
	s, ok := o.values[name]
	if !ok {
		return def, nil
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", name, err)
	}
	return v, nil
}

func (o options) int(name string, def int) (int, error) {
	s, ok := o.values[name]
	if !ok {
		return def, nil
	}
	v, err := cast.ToIntE(s)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", name, err)
	}
	return v, nil
}

func loadConfig() (*config.Config, error) {
	path := os.Getenv("WAVECURVE_CONFIG")
	if path == "" {
		var err error
		if path, err = config.Path(); err != nil {
			return config.Default(), nil
		}
	}
	slog.Debug("loading settings", "path", path)
	return config.Load(path)
}

func cmdNew(args []string, stdout io.Writer) error {
	o, err := parseOptions(args, map[string]string{
		"-o": "output", "--output": "output",
		"--radius": "radius", "--wave": "wave", "--mode": "mode",
	})
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	output := o.values["output"]
	if output == "" {
		output = "curve.json"
	}
	radius, err := o.float("radius", cfg.Mirror.RadiusMM)
	if err != nil {
		return err
	}
	wave, err := o.float("wave", cfg.Mirror.WaveHeight)
	if err != nil {
		return err
	}
	mode := cfg.Mode()
	if s, ok := o.values["mode"]; ok {
		if mode, err = curve.ParseMode(s); err != nil {
			return err
		}
	}
	if !(radius > 0) || !(wave > 0) {
		return fmt.Errorf("%w: radius %g, wave %g", curve.ErrInvalidScale, radius, wave)
	}

	doc := curvefile.NewDocument(radius, wave, mode, curve.NewPointList(radius))
	if err := curvefile.Save(output, doc); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(stdout, "Written: %s\n", output)
	return nil
}

func cmdInfo(args []string, stdout io.Writer) error {
	if len(args) < 1 {
		return usageError("wavecurve info <input>")
	}
	input := args[0]
	doc, err := curvefile.Load(input)
	if err != nil {
		return fmt.Errorf("loading %s: %w", input, err)
	}
	l, err := doc.PointList()
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Radius:      %g mm\n", doc.MirrorRadius)
	fmt.Fprintf(stdout, "Wave height: %g\n", doc.WaveHeight)
	fmt.Fprintf(stdout, "Mode:        %s\n", doc.Mode)
	fmt.Fprintf(stdout, "Anchors:     %d\n", l.Len())
	fmt.Fprintln(stdout)
	for i := 0; i < l.Len(); i++ {
		a := l.At(i)
		fmt.Fprintf(stdout, "  %2d: x=%8.2f mm  y=%+.4f  left=%.2f mm  right=%.2f mm\n",
			i, a.X, a.Y, a.X-a.LX, a.RX-a.X)
	}
	for i := 0; i < l.Last(); i++ {
		if combined, limit := curve.Overhang(l.At(i), l.At(i+1)); combined > limit {
			fmt.Fprintf(stdout, "  overhang between %d and %d: %.2f mm > %.2f mm\n", i, i+1, combined, limit)
		}
	}
	return nil
}

func cmdRender(args []string, stdout io.Writer) error {
	o, err := parseOptions(args, map[string]string{
		"-o": "output", "--output": "output",
		"-w": "width", "--width": "width",
		"-h": "height", "--height": "height",
		"--mode": "mode", "--unit": "unit", "-t": "title", "--title": "title",
	})
	if err != nil {
		return err
	}
	if len(o.positional) < 1 {
		return usageError("wavecurve render <input> [-o out.png|out.svg] [-w px] [-h px] [--mode m] [--unit u]")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	input := o.positional[0]
	doc, err := curvefile.Load(input)
	if err != nil {
		return fmt.Errorf("loading %s: %w", input, err)
	}

	output := o.values["output"]
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + cfg.Render.Format
	}
	width, err := o.int("width", cfg.Render.Width)
	if err != nil {
		return err
	}
	height, err := o.int("height", cfg.Render.Height)
	if err != nil {
		return err
	}

	scene, err := documentScene(doc, cfg, float64(width), float64(height))
	if err != nil {
		return err
	}
	if s, ok := o.values["mode"]; ok {
		if scene.Mode, err = curve.ParseMode(s); err != nil {
			return err
		}
	}
	if s, ok := o.values["unit"]; ok {
		if scene.Unit, err = curve.ParseUnit(s); err != nil {
			return err
		}
	}

	switch ext := strings.ToLower(filepath.Ext(output)); ext {
	case ".png":
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		if err := curvefile.RenderPNG(f, scene, curvefile.DefaultPNGOptions()); err != nil {
			f.Close()
			return fmt.Errorf("rendering %s: %w", output, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	case ".svg":
		opts := curvefile.DefaultSVGOptions()
		opts.Title = o.values["title"]
		if err := os.WriteFile(output, []byte(curvefile.RenderSVG(scene, opts)), 0644); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", curvefile.ErrUnknownFormat, output)
	}

	slog.Debug("rendered", "input", input, "output", output, "width", width, "height", height, "mode", scene.Mode)
	fmt.Fprintf(stdout, "Written: %s\n", output)
	return nil
}

func documentScene(doc *curvefile.Document, cfg *config.Config, width, height float64) (curve.Scene, error) {
	v, err := doc.View(curve.DefaultLayout(), width, height)
	if err != nil {
		return curve.Scene{}, err
	}
	l, err := doc.PointList()
	if err != nil {
		return curve.Scene{}, err
	}
	mode, err := doc.CurveMode()
	if err != nil {
		return curve.Scene{}, err
	}
	return curve.Scene{View: v, Points: l, Mode: mode, Unit: cfg.Unit()}, nil
}

func cmdConvert(args []string, stdout io.Writer) error {
	o, err := parseOptions(args, map[string]string{"-o": "output", "--output": "output"})
	if err != nil {
		return err
	}
	if len(o.positional) < 1 {
		return usageError("wavecurve convert <input> [-o output]")
	}
	input := o.positional[0]
	doc, err := curvefile.Load(input)
	if err != nil {
		return fmt.Errorf("loading %s: %w", input, err)
	}

	output := o.values["output"]
	if output == "" {
		// Default: swap the encoding.
		ext := filepath.Ext(input)
		base := strings.TrimSuffix(input, ext)
		if f, _ := curvefile.FormatOf(input); f == curvefile.FormatJSON {
			output = base + ".yaml"
		} else {
			output = base + ".json"
		}
	}
	if err := curvefile.Save(output, doc); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(stdout, "Written: %s\n", output)
	return nil
}

func cmdSample(args []string, stdout io.Writer) error {
	o, err := parseOptions(args, map[string]string{"--steps": "steps", "-n": "steps", "--mode": "mode"})
	if err != nil {
		return err
	}
	if len(o.positional) < 1 {
		return usageError("wavecurve sample <input> [--steps n] [--mode m]")
	}
	input := o.positional[0]
	doc, err := curvefile.Load(input)
	if err != nil {
		return fmt.Errorf("loading %s: %w", input, err)
	}
	l, err := doc.PointList()
	if err != nil {
		return err
	}
	mode, err := doc.CurveMode()
	if err != nil {
		return err
	}
	if s, ok := o.values["mode"]; ok {
		if mode, err = curve.ParseMode(s); err != nil {
			return err
		}
	}
	steps, err := o.int("steps", curve.BezierSteps)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, "x_mm,wave")
	for _, p := range curve.Profile(l, mode, doc.MirrorRadius, steps) {
		fmt.Fprintf(stdout, "%.4f,%.6f\n", p.X, p.Y)
	}
	return nil
}
