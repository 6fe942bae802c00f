package game

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// ErrProfilerBusy is returned while a capture is running or cooling down
var ErrProfilerBusy = errors.New("profiler busy")

// Profiler captures a CPU profile and an execution trace when the update
// rate drops
type Profiler struct {
	mu              sync.Mutex
	isProfiling     bool
	lastCaptureTime time.Time
	captureCooldown time.Duration
	captureDuration time.Duration
	profilesDir     string
	logger          *slog.Logger
}

// NewProfiler creates a profiler writing into dir
func NewProfiler(dir string, logger *slog.Logger) *Profiler {
	return &Profiler{
		captureCooldown: 10 * time.Second, // Don't capture more than once every 10 seconds
		captureDuration: 5 * time.Second,
		profilesDir:     dir,
		logger:          logger,
	}
}

// CaptureProfile starts a background capture labelled with reason
func (p *Profiler) CaptureProfile(reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isProfiling {
		return errors.Wrap(ErrProfilerBusy, "capture in progress")
	}
	if since := time.Since(p.lastCaptureTime); since < p.captureCooldown {
		return errors.Wrapf(ErrProfilerBusy, "last capture was %v ago", since.Round(time.Millisecond))
	}
	if err := os.MkdirAll(p.profilesDir, 0o755); err != nil {
		return errors.Wrap(err, "create profiles dir")
	}

	p.isProfiling = true
	p.lastCaptureTime = time.Now()
	baseName := fmt.Sprintf("tps-drop-%s-%s", time.Now().Format("20060102-150405"), reason)

	go func() {
		defer func() {
			p.mu.Lock()
			p.isProfiling = false
			p.mu.Unlock()
		}()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := p.captureCPUProfile(baseName); err != nil {
				p.logger.Error("cpu profile failed", "err", err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := p.captureTrace(baseName); err != nil {
				p.logger.Error("trace failed", "err", err)
			}
		}()
		wg.Wait()

		p.logMemStats(baseName)
	}()
	return nil
}

func (p *Profiler) captureCPUProfile(baseName string) error {
	path := filepath.Join(p.profilesDir, baseName+".cpu.prof")
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create profile file")
	}
	defer file.Close()

	if err := pprof.StartCPUProfile(file); err != nil {
		return errors.Wrap(err, "start cpu profile")
	}
	time.Sleep(p.captureDuration)
	pprof.StopCPUProfile()

	p.logger.Info("cpu profile saved", "path", path)
	return nil
}

func (p *Profiler) captureTrace(baseName string) error {
	path := filepath.Join(p.profilesDir, baseName+".trace")
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create trace file")
	}
	defer file.Close()

	if err := trace.Start(file); err != nil {
		return errors.Wrap(err, "start trace")
	}
	time.Sleep(p.captureDuration)
	trace.Stop()

	p.logger.Info("trace saved", "path", path)
	return nil
}

func (p *Profiler) logMemStats(baseName string) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	p.logger.Info("capture finished",
		"name", baseName,
		"heap_alloc_kb", m.HeapAlloc/1024,
		"sys_kb", m.Sys/1024,
		"num_gc", m.NumGC,
		"heap_objects", m.HeapObjects,
	)
}

// IsProfiling returns whether a profile capture is currently in progress
func (p *Profiler) IsProfiling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isProfiling
}

// tpsMonitor detects sustained drops of the update rate
type tpsMonitor struct {
	threshold float64
	warmup    time.Duration
	cooldown  time.Duration
	start     time.Time
	lastDrop  time.Time
}

func newTPSMonitor(target int, start time.Time) *tpsMonitor {
	return &tpsMonitor{
		threshold: float64(target) * 0.9,
		warmup:    3 * time.Second,
		cooldown:  10 * time.Second,
		start:     start,
	}
}

// Observe reports whether tps measured at now counts as a new drop.
// Drops during the warm-up window or the cooldown are ignored.
func (m *tpsMonitor) Observe(tps float64, now time.Time) bool {
	if tps >= m.threshold || now.Sub(m.start) < m.warmup {
		return false
	}
	if !m.lastDrop.IsZero() && now.Sub(m.lastDrop) < m.cooldown {
		return false
	}
	m.lastDrop = now
	return true
}
