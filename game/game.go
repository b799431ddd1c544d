package game

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"skyburst/engine"
	"skyburst/geom"
)

const (
	// maxDeltaTime caps a frame step so a stall does not teleport particles
	maxDeltaTime = 0.1

	fpsWindow       = 0.5
	fpsDropLimit    = 45.0
	fpsDropCooldown = 10 * time.Second
	fpsWarmup       = 3 * time.Second
)

// Game hosts an engine stage inside an ebiten window
type Game struct {
	stage    *engine.Stage
	renderer *Renderer
	profiler *Profiler
	logger   *log.Logger

	tracker     engine.PointerTracker
	touchIDs    []ebiten.TouchID
	touchActive bool
	lastTouch   geom.Point

	showDebug bool

	// FPS tracking
	fps         float64
	fpsFrames   int
	fpsTimer    float64
	lastFPSDrop time.Time

	startTime      time.Time
	lastUpdateTime time.Time
}

// NewGame wraps a started stage. profiler may be nil.
func NewGame(stage *engine.Stage, profiler *Profiler, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.Default()
	}
	now := time.Now()
	return &Game{
		stage:          stage,
		renderer:       NewRenderer(),
		profiler:       profiler,
		logger:         logger,
		fps:            60,
		startTime:      now,
		lastUpdateTime: now,
	}
}

// Update advances input and the stage by the wall-clock frame time
func (g *Game) Update() error {
	now := time.Now()
	dt := now.Sub(g.lastUpdateTime).Seconds()
	g.lastUpdateTime = now
	if dt > maxDeltaTime {
		dt = maxDeltaTime
	}

	g.handleKeys()
	g.updateFPS(dt)

	g.tracker.Pump(g.stage.Input, g.samplePointer())
	g.stage.Update(dt)
	return nil
}

// updateFPS recomputes the frame rate every half second and captures a
// profile when it drops
func (g *Game) updateFPS(dt float64) {
	g.fpsTimer += dt
	g.fpsFrames++
	if g.fpsTimer < fpsWindow {
		return
	}
	g.fps = float64(g.fpsFrames) / g.fpsTimer
	g.fpsFrames = 0
	g.fpsTimer = 0

	if g.profiler == nil || g.fps >= fpsDropLimit {
		return
	}
	if time.Since(g.startTime) < fpsWarmup || time.Since(g.lastFPSDrop) < fpsDropCooldown {
		return
	}
	g.lastFPSDrop = time.Now()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	g.logger.Printf("fps drop to %.0f with %d nodes (gc %d, heap %d KB)",
		g.fps, g.stage.Surface.Len(), m.NumGC, m.HeapAlloc/1024)

	reason := fmt.Sprintf("fps%.0f-nodes%d", g.fps, g.stage.Surface.Len())
	if err := g.profiler.Capture(reason); err != nil {
		g.logger.Printf("profile capture skipped: %v", err)
	}
}

// Draw renders the stage surface
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Render(screen, g.stage.Surface)
	if g.showDebug {
		g.renderer.RenderDebug(screen, g.fps, g.stage)
	}
}

// Layout tracks the window size so the viewport always matches it
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := float64(outsideWidth), float64(outsideHeight)
	if cw, ch := g.stage.Surface.Size(); cw != w || ch != h {
		g.stage.Surface.Resize(w, h)
	}
	return outsideWidth, outsideHeight
}

// Close stops the stage
func (g *Game) Close() {
	g.stage.Close()
}
