package game

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
	"time"
)

// ErrProfilerBusy is returned while a capture is running or cooling down
var ErrProfilerBusy = errors.New("profiler busy")

// Profiler captures a CPU profile and an execution trace when the frame rate drops
type Profiler struct {
	mu              sync.Mutex
	dir             string
	capturing       bool
	lastCapture     time.Time
	cooldown        time.Duration
	captureDuration time.Duration
	logger          *log.Logger
}

// NewProfiler creates a profiler writing into dir
func NewProfiler(dir string, logger *log.Logger) (*Profiler, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Profiler{
		dir:             dir,
		cooldown:        10 * time.Second,
		captureDuration: 5 * time.Second,
		logger:          logger,
	}, nil
}

// Capture starts a background capture tagged with reason
func (p *Profiler) Capture(reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.capturing || time.Since(p.lastCapture) < p.cooldown {
		return ErrProfilerBusy
	}
	p.capturing = true
	p.lastCapture = time.Now()

	base := fmt.Sprintf("fps-drop-%s-%s", time.Now().Format("20060102-150405"), reason)
	go func() {
		defer func() {
			p.mu.Lock()
			p.capturing = false
			p.mu.Unlock()
		}()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := p.captureCPU(base); err != nil {
				p.logger.Printf("cpu profile: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := p.captureTrace(base); err != nil {
				p.logger.Printf("trace: %v", err)
			}
		}()
		wg.Wait()

		p.summarize(base)
	}()
	return nil
}

// Capturing reports whether a capture is in progress
func (p *Profiler) Capturing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.capturing
}

func (p *Profiler) captureCPU(base string) error {
	path := filepath.Join(p.dir, base+".cpu.prof")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := pprof.StartCPUProfile(f); err != nil {
		return fmt.Errorf("start cpu profile: %w", err)
	}
	time.Sleep(p.captureDuration)
	pprof.StopCPUProfile()

	p.logger.Printf("cpu profile saved to %s", path)
	return nil
}

func (p *Profiler) captureTrace(base string) error {
	path := filepath.Join(p.dir, base+".trace")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := trace.Start(f); err != nil {
		return fmt.Errorf("start trace: %w", err)
	}
	time.Sleep(p.captureDuration)
	trace.Stop()

	p.logger.Printf("trace saved to %s", path)
	return nil
}

// summarize logs where the capture went and the heap state after it
func (p *Profiler) summarize(base string) {
	path := filepath.Join(p.dir, base+".cpu.prof")
	info, err := os.Stat(path)
	if err != nil {
		p.logger.Printf("profile %s missing: %v", base, err)
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	p.logger.Printf("profile %s (%.1f KB); inspect with: go tool pprof -http=:8080 %s", base, float64(info.Size())/1024, path)
	p.logger.Printf("heap alloc %d KB, sys %d KB, gc %d, objects %d", m.Alloc/1024, m.Sys/1024, m.NumGC, m.HeapObjects)
}
