package fs

import (
	"io/fs"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
)

// ChaosConfig controls fault injection probabilities.
// Each rate is a float64 from 0.0 (never) to 1.0 (always).
type ChaosConfig struct {
	ReadFailRate    float64 // Fail ReadFile entirely
	PartialReadRate float64 // Return truncated data from ReadFile
	WriteFailRate   float64 // Fail WriteFileAtomic (old content stays)
	MkdirFailRate   float64 // Fail MkdirAll
	RemoveFailRate  float64 // Fail Remove
	StatFailRate    float64 // Fail Exists
}

// DefaultChaosConfig returns a config with modest fault rates.
func DefaultChaosConfig() ChaosConfig {
	return ChaosConfig{
		ReadFailRate:    0.05,
		PartialReadRate: 0.05,
		WriteFailRate:   0.05,
		MkdirFailRate:   0.02,
		RemoveFailRate:  0.05,
		StatFailRate:    0.02,
	}
}

// PathState is a sticky fault attached to a path.
type PathState int

const (
	// PathNormal means no persistent fault. Zero value.
	PathNormal PathState = iota
	// PathIOError makes every operation on the path return EIO.
	PathIOError
	// PathReadOnly makes writes and removes return EROFS; reads still work.
	PathReadOnly
	// PathFull makes writes return ENOSPC; reads and removes still work.
	PathFull
)

// ChaosMode controls how Chaos behaves.
type ChaosMode uint8

const (
	// ChaosModePassthrough behaves like the underlying FS. Sticky state is
	// kept but not consulted.
	ChaosModePassthrough ChaosMode = iota

	// ChaosModeInject enables fault-rate injection and sticky path state.
	ChaosModeInject

	// ChaosModeStickyOnly applies only sticky path state. Fault rates are disabled.
	ChaosModeStickyOnly
)

// Chaos wraps an [FS] and injects failures for testing.
//
// All injected errors are *fs.PathError values carrying a syscall.Errno, the
// same shape the OS returns. Use [IsInjected] to tell them apart.
type Chaos struct {
	fs     FS
	rng    *rand.Rand
	config ChaosConfig
	mode   atomic.Uint32

	mu         sync.Mutex
	pathStates map[string]PathState

	readFails    atomic.Int64
	partialReads atomic.Int64
	writeFails   atomic.Int64
	mkdirFails   atomic.Int64
	removeFails  atomic.Int64
	statFails    atomic.Int64
}

// NewChaos creates a Chaos filesystem wrapping fsys, in [ChaosModeInject].
// The seed makes fault injection reproducible.
func NewChaos(fsys FS, seed int64, config ChaosConfig) *Chaos {
	c := &Chaos{
		fs:         fsys,
		rng:        rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic test faults
		config:     config,
		pathStates: make(map[string]PathState),
	}
	c.mode.Store(uint32(ChaosModeInject))

	return c
}

// SetMode switches the injection mode. Switching never clears sticky state.
func (c *Chaos) SetMode(m ChaosMode) { c.mode.Store(uint32(m)) }

// SetPathState attaches a sticky fault to path. [PathNormal] clears it.
func (c *Chaos) SetPathState(path string, state PathState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if state == PathNormal {
		delete(c.pathStates, path)
	} else {
		c.pathStates[path] = state
	}
}

// PathState returns the sticky fault for path.
func (c *Chaos) PathState(path string) PathState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pathStates[path]
}

// ChaosStats contains counts of injected faults.
type ChaosStats struct {
	ReadFails    int64
	PartialReads int64
	WriteFails   int64
	MkdirFails   int64
	RemoveFails  int64
	StatFails    int64
}

// Stats returns the current fault injection counts.
func (c *Chaos) Stats() ChaosStats {
	return ChaosStats{
		ReadFails:    c.readFails.Load(),
		PartialReads: c.partialReads.Load(),
		WriteFails:   c.writeFails.Load(),
		MkdirFails:   c.mkdirFails.Load(),
		RemoveFails:  c.removeFails.Load(),
		StatFails:    c.statFails.Load(),
	}
}

// TotalFaults returns the total number of injected faults.
func (c *Chaos) TotalFaults() int64 {
	s := c.Stats()

	return s.ReadFails + s.PartialReads + s.WriteFails + s.MkdirFails + s.RemoveFails + s.StatFails
}

func (c *Chaos) currentMode() ChaosMode {
	return ChaosMode(c.mode.Load())
}

// should returns true with the given probability when chaos is injecting.
func (c *Chaos) should(mode ChaosMode, rate float64) bool {
	if mode != ChaosModeInject || rate <= 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rng.Float64() < rate
}

func (c *Chaos) randIntn(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rng.Intn(n)
}

// stickyErr returns the errno a sticky path state forces for op, or 0.
func (c *Chaos) stickyErr(op, path string) syscall.Errno {
	switch c.PathState(path) {
	case PathIOError:
		return syscall.EIO
	case PathReadOnly:
		if op == "write" || op == "remove" || op == "mkdir" {
			return syscall.EROFS
		}
	case PathFull:
		if op == "write" || op == "mkdir" {
			return syscall.ENOSPC
		}
	case PathNormal:
	}

	return 0
}

// pathError creates an *fs.PathError and marks it as injected.
func pathError(op, path string, errno syscall.Errno) error {
	pe := &fs.PathError{Op: op, Path: path, Err: errno}
	markInjectedPathError(pe)

	return pe
}

// fault decides whether op on path fails, consulting sticky state first and
// then the random rate.
func (c *Chaos) fault(op, path string, rate float64, counter *atomic.Int64, choices ...syscall.Errno) error {
	mode := c.currentMode()
	if mode == ChaosModePassthrough {
		return nil
	}

	if errno := c.stickyErr(op, path); errno != 0 {
		counter.Add(1)

		return pathError(op, path, errno)
	}

	if c.should(mode, rate) {
		counter.Add(1)

		return pathError(op, path, choices[c.randIntn(len(choices))])
	}

	return nil
}

func (c *Chaos) ReadFile(path string) ([]byte, error) {
	err := c.fault("read", path, c.config.ReadFailRate, &c.readFails, syscall.EIO, syscall.EACCES, syscall.EINTR)
	if err != nil {
		return nil, err
	}

	data, err := c.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if c.should(c.currentMode(), c.config.PartialReadRate) && len(data) > 1 {
		c.partialReads.Add(1)

		return data[:c.randIntn(len(data)-1)+1], nil
	}

	return data, nil
}

func (c *Chaos) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	err := c.fault("write", path, c.config.WriteFailRate, &c.writeFails,
		syscall.EACCES, syscall.EIO, syscall.ENOSPC, syscall.EDQUOT, syscall.EROFS)
	if err != nil {
		return err
	}

	return c.fs.WriteFileAtomic(path, data, perm)
}

func (c *Chaos) MkdirAll(path string, perm os.FileMode) error {
	err := c.fault("mkdir", path, c.config.MkdirFailRate, &c.mkdirFails, syscall.EACCES, syscall.ENOSPC, syscall.EROFS)
	if err != nil {
		return err
	}

	return c.fs.MkdirAll(path, perm)
}

func (c *Chaos) Remove(path string) error {
	err := c.fault("remove", path, c.config.RemoveFailRate, &c.removeFails, syscall.EACCES, syscall.EIO, syscall.EBUSY)
	if err != nil {
		return err
	}

	return c.fs.Remove(path)
}

func (c *Chaos) Exists(path string) (bool, error) {
	err := c.fault("stat", path, c.config.StatFailRate, &c.statFails, syscall.EACCES, syscall.EIO)
	if err != nil {
		return false, err
	}

	return c.fs.Exists(path)
}

// Compile-time interface check.
var _ FS = (*Chaos)(nil)
