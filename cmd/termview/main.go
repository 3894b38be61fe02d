// Terminal viewer: runs the simulation (or shows a saved dump) with tcell,
// two grid rows per character cell.
//
// Usage: go run ./cmd/termview [-config path] [-preset name] [-snapshot file]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/bloom/config"
	"github.com/pthm-cable/bloom/game"
	"github.com/pthm-cable/bloom/renderer"
	"github.com/pthm-cable/bloom/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.String("seed", "", "Seed string (empty = use config)")
	preset := flag.String("preset", "", "Preset to start with")
	snapshotPath := flag.String("snapshot", "", "Show a saved snapshot instead of running")
	fps := flag.Int("fps", 30, "Frames per second")
	steps := flag.Int("steps-per-update", 0, "Ticks per frame (0 = use config)")
	logPath := flag.String("log", "", "Write JSON logs to this file (default: discard)")
	flag.Parse()

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *preset != "" {
		if err := cfg.ApplyPreset(*preset); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to apply preset: %v\n", err)
			os.Exit(1)
		}
	}

	theme, err := renderer.ThemeFromConfig(cfg.Theme)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid theme: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	if *snapshotPath != "" {
		if err := showSnapshot(screen, *snapshotPath, theme); err != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	run, err := game.NewRunner(cfg, game.Options{Seed: *seed, StepsPerUpdate: *steps})
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to start simulation: %v\n", err)
		os.Exit(1)
	}
	defer run.Close()

	tv := &termView{screen: screen, run: run, theme: theme, preset: cfg.Simulation.Preset}
	tv.loop(time.Second / time.Duration(max(*fps, 1)))
}

// termView drives a Runner and draws it to the terminal.
type termView struct {
	screen tcell.Screen
	run    *game.Runner
	theme  renderer.Theme
	preset string
	status string
	buf    []color.RGBA
}

func (tv *termView) loop(frame time.Duration) {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			events <- tv.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-events:
			if !tv.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			tv.run.Update()
			tv.draw()
		}
	}
}

// handleEvent applies a key press; it returns false to quit.
func (tv *termView) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch r := ev.Rune(); r {
		case 'q':
			return false
		case ' ':
			tv.run.SetPaused(!tv.run.Paused())
		case 'r':
			tv.run.Restart()
			tv.status = "reset"
		case 'n':
			tv.run.Step()
		case '+', '.':
			tv.run.SetStepsPerUpdate(tv.run.StepsPerUpdate() + 1)
		case '-', ',':
			tv.run.SetStepsPerUpdate(tv.run.StepsPerUpdate() - 1)
		case 's':
			path, err := tv.run.SaveSnapshot("snapshots")
			if err != nil {
				tv.status = err.Error()
			} else {
				tv.status = "saved " + path
			}
		default:
			names := tv.run.Config().Derived.PresetNames
			if i := int(r - '1'); i >= 0 && i < len(names) && i < 9 {
				if err := tv.run.ApplyPreset(names[i]); err == nil {
					tv.preset = names[i]
					tv.status = "preset " + names[i]
				}
			}
		}
	case *tcell.EventResize:
		tv.screen.Sync()
	}
	return true
}

func (tv *termView) draw() {
	s := tv.screen
	s.Clear()
	_, rows := s.Size()
	fieldRows := max(rows-2, 1)

	tv.buf = drawField(s, tv.run.Sim(), tv.run.Params().FMax, tv.theme, fieldRows, tv.buf)

	st := tv.run.Sim().Stats()
	state := "running"
	if tv.run.Paused() {
		state = "paused"
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorLightGray)
	drawText(s, 0, rows-2, style, fmt.Sprintf("tick %d  bacteria %d  avgE %.3f  avgF %.3f  births %d  deaths %d",
		st.Tick, st.Agents, st.MeanEnergy, st.MeanField, st.Births, st.Deaths))
	drawText(s, 0, rows-1, style.Foreground(tcell.ColorGray), fmt.Sprintf("%s %dx %s | q quit  space pause  n step  r reset  +/- speed  1-9 preset  s snapshot | %s",
		state, tv.run.StepsPerUpdate(), tv.preset, tv.status))
	s.Show()
}

// showSnapshot draws a saved dump until a key is pressed.
func showSnapshot(s tcell.Screen, path string, theme renderer.Theme) error {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	view, err := newSnapshotView(snap)
	if err != nil {
		return err
	}

	var buf []color.RGBA
	for {
		s.Clear()
		_, rows := s.Size()
		buf = drawField(s, view, view.fieldMax(), theme, max(rows-1, 1), buf)
		drawText(s, 0, rows-1, tcell.StyleDefault.Foreground(tcell.ColorLightGray),
			fmt.Sprintf("%s  tick %d  bacteria %d  births %d  deaths %d | any key to quit",
				path, snap.Tick, len(snap.Agents), snap.Births, snap.Deaths))
		s.Show()

		switch s.PollEvent().(type) {
		case *tcell.EventKey:
			return nil
		case *tcell.EventResize:
			s.Sync()
		}
	}
}
