//go:build unix

package client

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// IsAlive asks the socket behind `conn` for a pending error.
// Connections that are no sockets are always alive.
func IsAlive(conn net.Conn) bool {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return true
	}

	raw, err := sc.SyscallConn()
	if err != nil {
		return false
	}

	soErr, optErr := 0, error(nil)
	ctlErr := raw.Control(func(fd uintptr) {
		soErr, optErr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_ERROR)
	})

	return ctlErr == nil && optErr == nil && soErr == 0
}
