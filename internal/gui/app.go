package gui

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/verlet/internal/audio"
	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/interact"
	"github.com/san-kum/verlet/internal/metrics"
	"github.com/san-kum/verlet/internal/sim"
	"github.com/san-kum/verlet/internal/topology"
)

// Theme Colors (Monochrome)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
	ColLocked  = rl.NewColor(230, 90, 70, 255)
	ColCut     = rl.NewColor(230, 90, 70, 120)
)

const maxTelemetry = 300

type App struct {
	Cfg    *config.Config
	Preset string
	Reg    *topology.Registry

	Sim     *sim.Simulator
	Editor  *interact.Editor
	Cut     *interact.CutGesture
	Stretch *metrics.Stretch

	InMenu   bool
	Entries  []string // scene/preset
	Selected int

	Telemetry  []float64
	ShowPoints bool
	ShowGrid   bool
	Severed    int
	Font       rl.Font

	Audio *audio.Snapper
	Log   *slog.Logger

	quit bool
	err  error
}

func initWindow() {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(int32(config.StageWidth), int32(config.StageHeight), "verlet")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp builds the configured scene. The empty scene starts paused so the
// first clicks place points.
func NewApp(cfg *config.Config, preset string, reg *topology.Registry, log *slog.Logger) (*App, error) {
	if reg == nil {
		reg = topology.NewRegistry()
	}
	a := &App{
		Reg:        reg,
		Stretch:    metrics.NewStretch(),
		Telemetry:  make([]float64, 0, maxTelemetry),
		ShowPoints: true,
		Log:        log,
	}
	for _, scene := range config.ListScenes() {
		for _, p := range config.ListPresets(scene) {
			a.Entries = append(a.Entries, scene+"/"+p)
		}
	}

	w, err := cfg.Build(reg)
	if err != nil {
		return nil, err
	}
	w.Paused = cfg.Scene == "empty"
	a.Cfg, a.Preset = cfg, preset
	a.Sim = sim.New(w)
	a.Sim.AddMetric(a.Stretch)
	a.Editor = interact.NewEditor(w)
	a.Cut = interact.NewCutGesture(w)
	return a, nil
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, preset string, reg *topology.Registry, log *slog.Logger) error {
	app, err := NewApp(cfg, preset, reg, log)
	if err != nil {
		return err
	}

	app.Audio = audio.NewSnapper()
	if err := app.Audio.Start(); err != nil {
		log.Warn("audio unavailable", "err", err)
	}
	defer app.Audio.Stop()

	initWindow()
	defer rl.CloseWindow()
	app.Font = loadFont()

	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) load(cfg *config.Config, preset string) {
	w, err := cfg.Build(a.Reg)
	if err != nil {
		a.err = err
		a.Log.Error("load scene", "scene", cfg.Scene, "err", err)
		return
	}
	w.Paused = cfg.Scene == "empty"

	a.Cfg, a.Preset, a.err = cfg, preset, nil
	a.Sim.SetWorld(w)
	a.Editor.SetWorld(w)
	a.Cut.SetWorld(w)
	a.Severed = 0
	a.Telemetry = a.Telemetry[:0]
	a.Log.Debug("scene loaded", "scene", cfg.Scene, "preset", preset, "points", len(w.Points), "links", len(w.Links))
}

func (a *App) loadEntry(entry string) {
	scene, preset, _ := strings.Cut(entry, "/")
	if cfg := config.GetPreset(scene, preset); cfg != nil {
		a.load(cfg, preset)
	}
}

func (a *App) sever(n int) {
	if n == 0 {
		return
	}
	a.Severed += n
	if a.Audio != nil {
		a.Audio.Snap(n)
	}
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
		return
	}

	if a.InMenu {
		a.updateMenu()
		return
	}

	w := a.Sim.World()
	switch {
	case rl.IsKeyPressed(rl.KeyEscape):
		a.InMenu = true
		return
	case rl.IsKeyPressed(rl.KeySpace):
		w.Paused = !w.Paused
		a.Cut.End()
	case rl.IsKeyPressed(rl.KeyR):
		a.load(a.Cfg, a.Preset)
	case rl.IsKeyPressed(rl.KeyOne):
		a.load(config.GetPreset("rope", "default"), "default")
	case rl.IsKeyPressed(rl.KeyTwo):
		a.load(config.GetPreset("cloth", "default"), "default")
	case rl.IsKeyPressed(rl.KeyZero):
		cfg := config.DefaultConfig()
		cfg.Scene = "empty"
		a.load(cfg, "")
	case rl.IsKeyPressed(rl.KeyV):
		a.ShowPoints = !a.ShowPoints
	case rl.IsKeyPressed(rl.KeyG):
		a.ShowGrid = !a.ShowGrid
	}

	a.updateMouse()

	w = a.Sim.World()
	if w.Paused {
		return
	}
	a.Sim.Tick(a.Cfg.Dt)

	if v := a.Stretch.Value(); !math.IsInf(v, 0) && !math.IsNaN(v) {
		a.Telemetry = append(a.Telemetry, v)
	}
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
}

// updateMouse edits while paused and cuts while C is held and the world
// runs.
func (a *App) updateMouse() {
	m := rl.GetMousePosition()
	pos := toWorld(m)
	w := a.Sim.World()
	a.Editor.Enabled = w.Paused

	if rl.IsKeyDown(rl.KeyC) && !w.Paused {
		if !a.Cut.Active() {
			a.Cut.Begin(pos)
		} else {
			a.sever(a.Cut.Move(pos))
		}
	} else if a.Cut.Active() {
		a.Cut.End()
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		a.Editor.Press(pos)
	}
	a.Editor.Move(pos)
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		lock := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
		if _, err := a.Editor.Release(pos, lock); err != nil {
			a.err = err
		}
	}
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected++
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected--
	}
	if a.Selected >= len(a.Entries) {
		a.Selected = 0
	}
	if a.Selected < 0 {
		a.Selected = len(a.Entries) - 1
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = false
		return
	}
	if rl.IsKeyPressed(rl.KeyEnter) && len(a.Entries) > 0 {
		a.loadEntry(a.Entries[a.Selected])
		a.InMenu = false
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else {
		if a.ShowGrid {
			a.drawGrid(50)
		}
		a.drawWorld()
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	w := a.Sim.World()
	a.drawText("verlet", 30, 30, 24, ColSelect)
	name := a.Cfg.Scene
	if a.Preset != "" {
		name += "/" + a.Preset
	}
	a.drawText(fmt.Sprintf(":: %s", name), 130, 34, 16, ColText)
	a.drawText(fmt.Sprintf("points %d  links %d/%d  severed %d", len(w.Points), w.LiveLinks(), len(w.Links), a.Severed), 30, 62, 14, ColText)

	a.DrawTelemetry()

	status := "RUNNING"
	col := ColSelect
	switch {
	case w.Paused:
		status = "PAUSED"
		col = ColTextDim
	case a.Cut.Active():
		status = "CUTTING"
		col = ColLocked
	}
	a.drawText(status, 1080, 30, 16, col)

	if a.err != nil {
		a.drawText(a.err.Error(), 30, 86, 14, ColLocked)
	}

	a.drawText("[CLICK] PLACE  [CTRL] LOCK  [C] CUT  [SPACE] PAUSE  [R] RESET  [1/2/0] SCENE  [ESC] MENU", 330, 770, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 770, 14, ColTextDim)

	if a.Audio != nil && a.Audio.Active {
		bass, mid, high := a.Audio.Levels()
		level := (bass + mid + high) / 3
		bars := int(level * 20)
		if bars > 20 {
			bars = 20
		}
		a.drawText(fmt.Sprintf("SND [%-20s]", strings.Repeat("|", bars)), 30, 740, 14, ColAccent)
	} else {
		a.drawText("SND [OFF]", 30, 740, 14, ColTextDim)
	}
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 660
	width, height := 300, 60

	maxVal := a.Telemetry[0]
	for _, v := range a.Telemetry {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(maxTelemetry))*float32(width)
		py := float32(rectY+height) - float32(val/maxVal)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("stretch %.2f%%", a.Telemetry[len(a.Telemetry)-1]*100), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawMenu() {
	a.drawText("verlet", 50, 50, 40, ColSelect)
	a.drawText("Select Preset", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.Entries {
		if i == a.Selected {
			a.drawText(fmt.Sprintf("> %s", name), 50, y, 20, ColSelect)
		} else {
			a.drawText(fmt.Sprintf("  %s", name), 50, y, 20, ColText)
		}
		y += 28
	}

	a.drawText("ARROWS: NAVIGATE  ENTER: LOAD  ESC: BACK  Q: QUIT", 760, 770, 14, ColTextDim)
}
