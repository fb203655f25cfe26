package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/geom"
	"github.com/san-kum/verlet/internal/interact"
	"github.com/san-kum/verlet/internal/metrics"
	"github.com/san-kum/verlet/internal/sim"
	"github.com/san-kum/verlet/internal/topology"
)

const (
	width           = 80
	height          = 24
	panelWidth      = 44
	historyCapacity = 300

	// canvas offset inside the view, from canvasStyle padding
	padTop  = 1
	padLeft = 2
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(padTop, padLeft)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(panelWidth)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type TickMsg time.Time

// Model is the live terminal view: it steps the world every tick, turns
// mouse input into cuts (while running) or edits (while paused), and
// renders the world on a braille canvas.
type Model struct {
	cfg    *config.Config
	preset string
	reg    *topology.Registry

	sim     *sim.Simulator
	editor  *interact.Editor
	cut     *interact.CutGesture
	stretch *metrics.Stretch
	motion  *metrics.Motion

	canvas        *Canvas
	proj          Projection
	width, height int

	cutMode  bool
	lockMode bool
	severed  int
	onSever  func(n int)

	stretchHistory []float64
	motionHistory  []float64

	recording bool
	frames    []*image.Paletted
	showHelp  bool
	err       error
}

// NewModel builds the configured scene. The empty scene starts paused so
// points can be placed right away.
func NewModel(cfg *config.Config, preset string, reg *topology.Registry) (Model, error) {
	if reg == nil {
		reg = topology.NewRegistry()
	}
	m := Model{
		cfg:            cfg,
		preset:         preset,
		reg:            reg,
		stretch:        metrics.NewStretch(),
		motion:         metrics.NewMotion(),
		width:          width,
		height:         height,
		canvas:         NewCanvas(width, height),
		stretchHistory: make([]float64, 0, historyCapacity),
		motionHistory:  make([]float64, 0, historyCapacity),
	}
	m.proj = NewProjection(m.canvas, config.StageWidth, config.StageHeight)

	w, err := cfg.Build(reg)
	if err != nil {
		return Model{}, err
	}
	w.Paused = cfg.Scene == "empty"

	m.sim = sim.New(w)
	m.sim.AddMetric(m.stretch)
	m.sim.AddMetric(m.motion)
	m.editor = interact.NewEditor(w)
	m.cut = interact.NewCutGesture(w)
	return m, nil
}

// OnSever registers fn to be called with the number of links each cut
// severs.
func (m Model) OnSever(fn func(n int)) Model {
	m.onSever = fn
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width-panelWidth-2*padLeft-2, msg.Height-2*padTop)
	case TickMsg:
		m.step()
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	w := m.sim.World()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		w.Paused = !w.Paused
		m.cut.End()
	case "e":
		w.Paused = true
		m.cut.End()
	case "c":
		m.cutMode = !m.cutMode
	case "l":
		m.lockMode = !m.lockMode
	case "r":
		m.load(m.cfg, m.preset)
	case "1":
		m.load(config.GetPreset("rope", "default"), "default")
	case "2":
		m.load(config.GetPreset("cloth", "default"), "default")
	case "0":
		cfg := config.DefaultConfig()
		cfg.Scene = "empty"
		m.load(cfg, "")
	case "t":
		NextTheme()
	case "g":
		if m.recording {
			m.err = m.saveGIF("verlet.gif")
			m.recording = false
			m.frames = nil
		} else {
			m.recording = true
			m.frames = make([]*image.Paletted, 0)
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	m.draw()
	return m, nil
}

// load swaps in a freshly built scene. Failures leave the current world in
// place and are shown in the panel.
func (m *Model) load(cfg *config.Config, preset string) {
	if cfg == nil {
		return
	}
	w, err := cfg.Build(m.reg)
	if err != nil {
		m.err = err
		return
	}
	w.Paused = cfg.Scene == "empty"

	m.cfg, m.preset, m.err = cfg, preset, nil
	m.sim.SetWorld(w)
	m.editor.SetWorld(w)
	m.cut.SetWorld(w)
	m.severed = 0
	m.stretchHistory = m.stretchHistory[:0]
	m.motionHistory = m.motionHistory[:0]
}

// mouseToWorld converts a terminal cell to world coordinates. Cells outside
// the canvas are rejected.
func (m *Model) mouseToWorld(col, row int) (geom.Vec2, bool) {
	cx, cy := col-padLeft, row-padTop
	if cx < 0 || cy < 0 || cx >= m.canvas.Width || cy >= m.canvas.Height {
		return geom.Vec2{}, false
	}
	return m.proj.ToWorld(cx*2+1, cy*4+2), true
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	pos, ok := m.mouseToWorld(msg.X, msg.Y)
	if !ok {
		return
	}
	w := m.sim.World()
	m.editor.Enabled = w.Paused

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if w.Paused {
			m.editor.Press(pos)
		} else if m.cutMode {
			m.cut.Begin(pos)
		}
	case tea.MouseActionMotion:
		m.editor.Move(pos)
		if m.cut.Active() {
			m.sever(m.cut.Move(pos))
		}
	case tea.MouseActionRelease:
		if m.cut.Active() {
			m.sever(m.cut.Move(pos))
			m.cut.End()
			return
		}
		if _, err := m.editor.Release(pos, m.lockMode || msg.Ctrl); err != nil {
			m.err = err
		}
	}
}

func (m *Model) sever(n int) {
	if n == 0 {
		return
	}
	m.severed += n
	if m.onSever != nil {
		m.onSever(n)
	}
}

func (m *Model) step() {
	w := m.sim.World()
	if w.Paused {
		return
	}
	m.sim.Tick(m.cfg.Dt)

	m.stretchHistory = appendCapped(m.stretchHistory, m.stretch.Value())
	m.motionHistory = appendCapped(m.motionHistory, m.motion.Value())
}

// appendCapped drops non-finite values so the graphs keep their scale once
// a world diverges.
func appendCapped(s []float64, v float64) []float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return s
	}
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m *Model) resize(w, h int) {
	if w < 10 || h < 5 {
		return
	}
	m.width, m.height = w, h
	m.canvas = NewCanvas(w, h)
	m.proj = NewProjection(m.canvas, config.StageWidth, config.StageHeight)
	m.draw()
}

func (m *Model) draw() {
	m.canvas.Clear()
	w := m.sim.World()
	DrawWorld(m.canvas, m.proj, w)
	if from, to, ok := m.editor.Pending(); ok && w.Paused {
		DrawSegment(m.canvas, m.proj, from, to)
	}
}

func (m Model) status() string {
	w := m.sim.World()
	var parts []string
	switch {
	case w.Paused:
		parts = append(parts, StatusPaused.Render("EDIT"))
	default:
		parts = append(parts, StatusRunning.Render("RUNNING"))
	}
	if m.cutMode {
		parts = append(parts, StatusCutting.Render("CUT"))
	}
	if m.lockMode {
		parts = append(parts, StatusPaused.Render("LOCK"))
	}
	if m.recording {
		parts = append(parts, StatusRecording.Render("REC"))
	}
	return strings.Join(parts, " ")
}

func (m Model) View() string {
	canvasView := canvasStyle.Foreground(CurrentTheme.Links).Render(m.canvas.String())

	w := m.sim.World()
	var s strings.Builder
	title := strings.ToUpper(m.cfg.Scene)
	if m.preset != "" {
		title += " / " + m.preset
	}
	s.WriteString(HeaderStyle.Foreground(CurrentTheme.Header).Render(title) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.stretchHistory) > 1 {
		chart := asciigraph.Plot(m.stretchHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Stretch"))
		s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Graph).Render(chart) + "\n\n")
	}

	live := w.LiveLinks()
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d", m.sim.Steps()))
	row("Points", fmt.Sprintf("%d", len(w.Points)))
	row("Links", fmt.Sprintf("%d / %d", live, len(w.Links)))
	row("Severed", fmt.Sprintf("%d", m.severed))
	row("Stretch", MetricValue.Render(fmt.Sprintf("%.4f", m.stretch.Value()))+MetricLabel.Render(fmt.Sprintf(" peak %.4f", m.stretch.Peak())))

	if len(w.Links) > 0 {
		s.WriteString("\n" + MetricLabel.Render("intact ") + ProgressBar(float64(live)/float64(len(w.Links)), 24) + "\n")
	}
	s.WriteString(MetricLabel.Render("motion ") + SparklineChart(m.motionHistory, 24) + "\n")

	if m.err != nil {
		s.WriteString("\n" + errStyle.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render(Separator(30) + "\nSP:Pause C:Cut L:Lock R:Reset\n1:Rope 2:Cloth 0:Sandbox\nT:Theme G:Record ?:Help Q:Quit"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return KeyHint.Render(helpText) + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
  Space   pause or resume; while paused the mouse edits
  E       pause into edit mode
  C       arm cutting: drag across links while running
  L       place new points locked (or hold ctrl)
  R       rebuild the current scene
  1 2 0   rope, cloth, empty sandbox
  T       cycle themes
  G       toggle GIF recording
  Q       quit

  Editing: click a point and release on another to link them,
  release on empty space to add a linked point, or click empty
  space to add a lone point.`

// captureFrame rasterises the braille canvas into a two-colour image.
func (m *Model) captureFrame() {
	charW, charH := 8, 16
	dotW, dotH := charW/2, charH/4
	img := image.NewPaletted(image.Rect(0, 0, m.canvas.Width*charW, m.canvas.Height*charH), color.Palette{color.Black, color.White})

	for y := 0; y < m.canvas.PixelHeight(); y++ {
		for x := 0; x < m.canvas.PixelWidth(); x++ {
			if !m.canvas.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF(path string) error {
	if len(m.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

// Run starts the live view full screen with mouse drag reporting.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
