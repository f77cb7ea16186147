//go:build !unix

package client

import "net"

// IsAlive always returns true on platforms without SO_ERROR.
func IsAlive(conn net.Conn) bool {
	return true
}
