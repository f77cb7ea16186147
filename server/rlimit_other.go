//go:build !linux

package server

func reserveFds(maxConns int) error {
	return nil
}
