// FILE: cmd/konane-server/pid.go
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// pidFile is a PID file held open for the life of the process,
// optionally flock'd to keep a second instance from starting.
type pidFile struct {
	path   string
	file   *os.File
	locked bool
}

// managePIDFile writes the current PID to path and returns a cleanup
// function that must be called on exit.
func managePIDFile(path string, lock bool) (func(), error) {
	p := &pidFile{path: path}

	if err := p.open(lock); err != nil {
		return nil, err
	}
	if lock {
		if err := p.acquireLock(); err != nil {
			p.file.Close()
			return nil, err
		}
	}
	if err := p.write(); err != nil {
		p.file.Close()
		os.Remove(path)
		return nil, err
	}

	return p.release, nil
}

// open creates the PID file, falling back to truncating an existing
// one once a stale check passes.
func (p *pidFile) open(lock bool) error {
	file, err := os.OpenFile(p.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err == nil {
		p.file = file
		return nil
	}
	if !os.IsExist(err) {
		return fmt.Errorf("cannot create PID file: %w", err)
	}

	if lock {
		if err := staleCheck(p.path); err != nil {
			return err
		}
	}

	file, err = os.OpenFile(p.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("cannot open PID file: %w", err)
	}
	p.file = file
	return nil
}

func (p *pidFile) acquireLock() error {
	if err := syscall.Flock(int(p.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return fmt.Errorf("cannot acquire lock: another instance is running")
		}
		return fmt.Errorf("lock failed: %w", err)
	}
	p.locked = true
	return nil
}

// write records the current PID and syncs so the file survives a
// crash right after startup.
func (p *pidFile) write() error {
	if _, err := fmt.Fprintf(p.file, "%d\n", os.Getpid()); err != nil {
		return fmt.Errorf("cannot write PID: %w", err)
	}
	if err := p.file.Sync(); err != nil {
		return fmt.Errorf("cannot sync PID file: %w", err)
	}
	return nil
}

func (p *pidFile) release() {
	if p.locked {
		syscall.Flock(int(p.file.Fd()), syscall.LOCK_UN)
	}
	p.file.Close()
	os.Remove(p.path)
}

// staleCheck inspects an existing PID file and returns an error
// describing the conflict, whether the recorded process is alive,
// defunct, or unreadable.
func staleCheck(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read existing PID file: %w", err)
	}

	pidStr := string(data)
	pid, err := strconv.Atoi(strings.TrimSpace(pidStr))
	if err != nil {
		return fmt.Errorf("corrupted PID file (contains: %q)", pidStr)
	}

	// Signal 0 probes for existence without touching the process.
	// FindProcess never fails on Unix.
	proc, _ := os.FindProcess(pid)
	if err = proc.Signal(syscall.Signal(0)); err != nil {
		if errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH) {
			return fmt.Errorf("stale PID file found for defunct process %d", pid)
		}
		return fmt.Errorf("process %d exists but cannot verify ownership: %v", pid, err)
	}

	return fmt.Errorf("stale PID file: process %d is running but not holding lock", pid)
}
