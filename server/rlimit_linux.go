//go:build linux

package server

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Every session holds its socket and at most one open file.
const fdsPerSession = 2

// reserveFds raises the soft limit of open files so that `maxConns`
// sessions fit next to the fds the process already uses.
// The hard limit is never exceeded.
func reserveFds(maxConns int) error {
	rLimit := unix.Rlimit{}
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rLimit); err != nil {
		return err
	}

	want := uint64(fdsPerSession*maxConns) + 64
	if rLimit.Cur >= want {
		return nil
	}

	if want > rLimit.Max {
		log.Warnf(
			"max_connections=%d might exceed the open file limit (hard: %d)",
			maxConns,
			rLimit.Max,
		)
		want = rLimit.Max
	}

	rLimit.Cur = want
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &rLimit); err != nil {
		return err
	}

	log.Debugf("Raised max number of open fds to %d (hard: %d)", rLimit.Cur, rLimit.Max)
	return nil
}
