package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Pidfile is an advisory single-instance lock. Two grabbed keyboards
// fighting over the same events is not a situation worth supporting.
type Pidfile struct {
	f    *os.File
	path string
}

// AcquirePidfile takes an exclusive flock on path and records our pid in
// it. The lock is held for the life of the process; a second instance
// fails immediately instead of blocking.
func AcquirePidfile(path string) (*Pidfile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("open pidfile %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("lock %s (another instance running?): %w", path, err)
	}
	if err := f.Truncate(0); err != nil {
		f.Close()
		return nil, fmt.Errorf("truncate pidfile: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		f.Close()
		return nil, fmt.Errorf("write pidfile: %w", err)
	}
	return &Pidfile{f: f, path: path}, nil
}

// Release drops the lock and removes the file.
func (p *Pidfile) Release() {
	unix.Flock(int(p.f.Fd()), unix.LOCK_UN)
	p.f.Close()
	os.Remove(p.path)
}

// defaultPidfilePath is the per-user runtime location, matching where a
// user session keeps transient process state.
func defaultPidfilePath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir + "/sc2remap.pid"
	}
	return fmt.Sprintf("/run/user/%d/sc2remap.pid", os.Getuid())
}
