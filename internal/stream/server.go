// Package stream serves a running world over HTTP. Clients connect to /ws,
// receive JSON frames at a fixed rate and may send commands back.
package stream

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/geom"
	"github.com/san-kum/verlet/internal/sim"
	"github.com/san-kum/verlet/internal/topology"
	"github.com/san-kum/verlet/internal/verlet"
)

var (
	ErrUnknownCommand = errors.New("stream: unknown command")
	ErrBadCommand     = errors.New("stream: malformed command")
)

//go:embed index.html
var indexHTML []byte

// Frame is the wire form of a world. Positions are flattened to x,y pairs
// and links to index pairs; dead links are left out.
type Frame struct {
	Step      int       `json:"step"`
	Paused    bool      `json:"paused"`
	Scene     string    `json:"scene"`
	Positions []float64 `json:"positions"`
	Locked    []int     `json:"locked"`
	Links     []int     `json:"links"`
	Severed   int       `json:"severed"`
}

// Command is a client request. Type is one of cut, pause, reset or load.
type Command struct {
	Type   string     `json:"type"`
	From   *geom.Vec2 `json:"from,omitempty"`
	To     *geom.Vec2 `json:"to,omitempty"`
	Paused *bool      `json:"paused,omitempty"`
	Scene  string     `json:"scene,omitempty"`
	Preset string     `json:"preset,omitempty"`
}

type Server struct {
	mu     sync.Mutex // guards the simulator and scene fields
	sim    *sim.Simulator
	cfg    *config.Config
	preset string
	reg    *topology.Registry

	clientsMu sync.Mutex
	clients   map[*client]struct{}
	dropped   int

	fps      int
	pool     *sim.FramePool
	upgrader websocket.Upgrader
	log      *slog.Logger
}

func NewServer(cfg *config.Config, preset string, reg *topology.Registry, fps int, log *slog.Logger) (*Server, error) {
	if reg == nil {
		reg = topology.NewRegistry()
	}
	if fps <= 0 {
		fps = 30
	}
	w, err := cfg.Build(reg)
	if err != nil {
		return nil, err
	}
	return &Server{
		sim:     sim.New(w),
		cfg:     cfg,
		preset:  preset,
		reg:     reg,
		clients: make(map[*client]struct{}),
		fps:     fps,
		pool:    sim.NewFramePool(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/frame", s.handleFrame)
	return mux
}

// Run steps the world and broadcasts a frame fps times per second until ctx
// is done. The world advances one fixed step per frame.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeClients()
			return ctx.Err()
		case <-ticker.C:
			data, err := s.advance()
			if err != nil {
				s.log.Error("encode frame", "err", err)
				continue
			}
			s.broadcast(data)
		}
	}
}

// ListenAndServe runs the HTTP server and the step loop until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	go s.Run(ctx)

	s.log.Info("serving", "addr", addr, "scene", s.cfg.Scene, "fps", s.fps)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) advance() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim.Tick(s.cfg.Dt)
	return s.encodeLocked()
}

// Frame returns the current world as a frame.
func (s *Server) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameLocked()
}

func (s *Server) frameLocked() Frame {
	w := s.sim.World()

	buf := s.pool.Get(len(w.Points))
	defer s.pool.Put(buf)
	for _, p := range w.Points {
		*buf = append(*buf, p.Pos)
	}

	f := Frame{
		Step:      s.sim.Steps(),
		Paused:    w.Paused,
		Scene:     s.cfg.Scene,
		Positions: make([]float64, 0, 2*len(*buf)),
		Locked:    make([]int, 0),
		Links:     make([]int, 0, 2*len(w.Links)),
		Severed:   s.sim.Severed(),
	}
	for i, pos := range *buf {
		f.Positions = append(f.Positions, pos.X, pos.Y)
		if w.Points[i].Locked {
			f.Locked = append(f.Locked, i)
		}
	}
	for _, l := range w.Links {
		if !l.Dead {
			f.Links = append(f.Links, l.A, l.B)
		}
	}
	return f
}

func (s *Server) encodeLocked() ([]byte, error) {
	var b bytes.Buffer
	if err := json.NewEncoder(&b).Encode(s.frameLocked()); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Apply executes a client command. It returns the number of links a cut
// severed.
func (s *Server) Apply(cmd Command) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.sim.World()

	switch cmd.Type {
	case "cut":
		if cmd.From == nil || cmd.To == nil {
			return 0, fmt.Errorf("cut needs from and to: %w", ErrBadCommand)
		}
		if w.Paused {
			return 0, nil
		}
		return s.sim.CutSegment(*cmd.From, *cmd.To), nil
	case "pause":
		if cmd.Paused != nil {
			w.Paused = *cmd.Paused
		} else {
			w.Paused = !w.Paused
		}
	case "reset":
		return 0, s.loadLocked(s.cfg, s.preset)
	case "load":
		cfg := config.GetPreset(cmd.Scene, cmd.Preset)
		if cfg == nil {
			return 0, fmt.Errorf("preset %s/%s: %w", cmd.Scene, cmd.Preset, ErrBadCommand)
		}
		return 0, s.loadLocked(cfg, cmd.Preset)
	default:
		return 0, fmt.Errorf("%q: %w", cmd.Type, ErrUnknownCommand)
	}
	return 0, nil
}

func (s *Server) loadLocked(cfg *config.Config, preset string) error {
	w, err := cfg.Build(s.reg)
	if err != nil {
		return err
	}
	s.cfg, s.preset = cfg, preset
	s.sim.SetWorld(w)
	return nil
}

// World exposes the simulated world. Callers must not use it while Run is
// active.
func (s *Server) World() *verlet.World { return s.sim.World() }

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Frame()); err != nil {
		s.log.Error("write frame", "err", err)
	}
}
