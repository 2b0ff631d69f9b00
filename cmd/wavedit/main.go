// Command wavedit is a TUI editor for mirror correction curves.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/wavecurve/pkg/config"
	"github.com/ha1tch/wavecurve/pkg/curve"
	"github.com/ha1tch/wavecurve/pkg/curvefile"
)

// MessageType selects the status bar style of a message.
type MessageType int

const (
	msgInfo MessageType = iota
	msgError
)

// terminalHitTolerance is the hit box half-size in cells.
const terminalHitTolerance = 1.5

// terminalGridSpacing is the minimum gap between vertical gridlines in cells.
const terminalGridSpacing = 16

// app holds the terminal editor state.
type app struct {
	screen   tcell.Screen
	ed       *curve.Editor
	filename string
	modified bool

	message     string
	messageType MessageType

	cfg     *config.Config
	cfgPath string

	buttons tcell.ButtonMask // buttons held at the last mouse event
	log     *slog.Logger
}

// configReloaded carries a freshly loaded config into the event loop.
type configReloaded struct {
	cfg *config.Config
}

func main() {
	args, verbose := os.Args[1:], false
	if len(args) > 0 && (args[0] == "-v" || args[0] == "--verbose") {
		args, verbose = args[1:], true
	}
	logger := newLogger(verbose)

	cfgPath, err := config.Path()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error locating settings: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		os.Exit(1)
	}

	var doc *curvefile.Document
	var filename string
	if len(args) > 0 {
		filename = args[0]
		if doc, err = curvefile.Load(filename); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", filename, err)
			os.Exit(1)
		}
	}

	// Initialize screen
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()

	a, err := newApp(screen, cfg, cfgPath, filename, doc, logger)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	stop, err := watchConfig(cfgPath, logger, func(c *config.Config) {
		screen.PostEvent(tcell.NewEventInterrupt(configReloaded{c}))
	})
	if err != nil {
		a.showMessage("Settings not watched: "+err.Error(), msgError)
	} else {
		defer stop()
	}

	// Main loop
	a.run()

	screen.Fini()
}

// newLogger writes to ~/.wavedit.log when verbose; the screen owns stderr.
func newLogger(verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	f, err := os.OpenFile(filepath.Join(home, ".wavedit.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// newApp builds the editor for the screen's current size. A nil doc
// starts a new curve at the configured scale.
func newApp(screen tcell.Screen, cfg *config.Config, cfgPath, filename string, doc *curvefile.Document, logger *slog.Logger) (*app, error) {
	a := &app{
		screen:   screen,
		filename: filename,
		cfg:      cfg,
		cfgPath:  cfgPath,
		log:      logger,
	}

	w, h := screen.Size()
	radius, wave := cfg.Mirror.RadiusMM, cfg.Mirror.WaveHeight
	if doc != nil {
		radius, wave = doc.MirrorRadius, doc.WaveHeight
	}
	view, err := curve.NewViewTransform(terminalLayout(), float64(w), float64(h-barRows), radius, wave)
	if err != nil {
		return nil, err
	}

	opts := append(cfg.EditorOptions(),
		curve.WithHitTolerance(terminalHitTolerance),
		curve.WithMinGridSpacing(terminalGridSpacing),
		curve.WithLogger(logger),
		curve.OnChange(a.changed),
	)
	if doc != nil {
		l, err := doc.PointList()
		if err != nil {
			return nil, err
		}
		mode, err := doc.CurveMode()
		if err != nil {
			return nil, err
		}
		opts = append(opts, curve.WithPoints(l), curve.WithMode(mode))
	}
	a.ed = curve.NewEditor(view, opts...)
	return a, nil
}

func (a *app) changed(c curve.ChangeKind) {
	if c != curve.ChangeLoad {
		a.modified = true
	}
	a.log.Debug("change", "kind", c)
}

func (a *app) run() {
	for {
		a.draw()
		a.screen.Show()

		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		if a.handleEvent(ev) {
			return
		}
	}
}

// handleEvent applies one event and reports whether the editor should quit.
func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		w, h := a.screen.Size()
		if err := a.ed.Resize(float64(w), float64(h-barRows)); err != nil {
			a.showMessage("Window too small", msgError)
		}
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventInterrupt:
		if r, ok := ev.Data().(configReloaded); ok {
			a.cfg = r.cfg
			a.cfg.Apply(a.ed)
			a.showMessage("Settings reloaded", msgInfo)
		}
	}
	return false
}

func (a *app) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyCtrlS:
		a.save()
		return false
	case tcell.KeyRune:
	default:
		return false
	}

	a.message = ""
	switch ev.Rune() {
	case 'q', 'Q':
		return true
	case 'b', 'B':
		if a.ed.Mode() == curve.ModeBezier {
			a.ed.SetMode(curve.ModeCubic)
		} else {
			a.ed.SetMode(curve.ModeBezier)
		}
		a.cfg.Editor.Mode = a.ed.Mode().String()
		a.saveConfig()
	case 'o', 'O':
		a.ed.SetOverhangLimit(!a.ed.OverhangLimit())
		a.cfg.Editor.DissuadeOverhangs = a.ed.OverhangLimit()
		a.saveConfig()
	case 'u', 'U':
		a.ed.SetUnit(a.ed.Unit().Next())
		a.cfg.Editor.Unit = a.ed.Unit().String()
		a.saveConfig()
	case '+', '=':
		a.ed.Scroll(1)
	case '-', '_':
		a.ed.Scroll(-1)
	case 's', 'S':
		a.save()
	}
	return false
}

// handleMouse turns tcell's held-button reports into press, move and
// release edges for the editor.
func (a *app) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	p := curve.Pt(float64(x), float64(y))
	buttons := ev.Buttons()

	if buttons&tcell.WheelUp != 0 {
		a.ed.Scroll(1)
		return
	}
	if buttons&tcell.WheelDown != 0 {
		a.ed.Scroll(-1)
		return
	}

	held := buttons & (tcell.Button1 | tcell.Button2)
	pressed := held &^ a.buttons
	released := a.buttons &^ held
	a.buttons = held

	if released&tcell.Button1 != 0 {
		a.ed.PointerUp(curve.ButtonPrimary, p)
	}
	if released&tcell.Button2 != 0 {
		a.ed.PointerUp(curve.ButtonSecondary, p)
	}
	if pressed&tcell.Button1 != 0 {
		a.ed.PointerDown(curve.ButtonPrimary, p)
	}
	if pressed&tcell.Button2 != 0 {
		a.ed.PointerDown(curve.ButtonSecondary, p)
	}
	if held != 0 && pressed == 0 {
		a.ed.PointerMove(buttonMask(held), p)
	}
}

func buttonMask(b tcell.ButtonMask) curve.ButtonMask {
	var m curve.ButtonMask
	if b&tcell.Button1 != 0 {
		m |= curve.MaskPrimary
	}
	if b&tcell.Button2 != 0 {
		m |= curve.MaskSecondary
	}
	return m
}

func (a *app) save() {
	if a.filename == "" {
		a.filename = "curve.json"
		if a.cfg.Editor.LastDir != "" {
			a.filename = filepath.Join(a.cfg.Editor.LastDir, a.filename)
		}
	}
	if err := curvefile.Save(a.filename, curvefile.FromEditor(a.ed)); err != nil {
		a.showMessage("Save failed: "+err.Error(), msgError)
		return
	}
	a.modified = false
	a.showMessage("Saved "+filepath.Base(a.filename), msgInfo)

	if dir, err := filepath.Abs(filepath.Dir(a.filename)); err == nil && dir != a.cfg.Editor.LastDir {
		a.cfg.Editor.LastDir = dir
		a.saveConfig()
	}
}

func (a *app) saveConfig() {
	if a.cfgPath == "" {
		return
	}
	if err := a.cfg.Save(a.cfgPath); err != nil {
		a.log.Warn("settings not saved", "path", a.cfgPath, "err", err)
	}
}

func (a *app) showMessage(msg string, t MessageType) {
	a.message = msg
	a.messageType = t
	a.log.Debug("message", "text", msg)
}
