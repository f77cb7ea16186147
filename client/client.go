// Package client connects to a zftp server and drives an interactive shell.
package client

import (
	"context"
	"net"

	"github.com/sahib/zftp/command"
	"github.com/sahib/zftp/localfs"
	"github.com/sahib/zftp/session"
	"github.com/sahib/zftp/util/protocol"
)

// Client owns the connection to a server.
type Client struct {
	conn net.Conn
	sess *session.Client
}

// Dial connects to the server at `addr`.
// If opts.Local is nil, local paths are relative to the working directory.
func Dial(ctx context.Context, addr string, opts session.ClientOptions) (*Client, error) {
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	return newClient(conn, opts), nil
}

func newClient(conn net.Conn, opts session.ClientOptions) *Client {
	if opts.Local == nil {
		opts.Local = localfs.New(".")
	}

	return &Client{
		conn: conn,
		sess: session.NewClient(conn, opts),
	}
}

// Do runs `cmd` like session.Client.Do, but gives up early
// if the connection is found dead before or after the command.
func (cl *Client) Do(cmd command.Command) (bool, error) {
	if !IsAlive(cl.conn) {
		return false, protocol.ErrConnectionClosed
	}

	keepGoing, err := cl.sess.Do(cmd)
	if keepGoing && !IsAlive(cl.conn) {
		return false, protocol.ErrConnectionClosed
	}

	return keepGoing, err
}

// RemoteAddr return info about the remote addr
func (cl *Client) RemoteAddr() net.Addr {
	return cl.conn.RemoteAddr()
}

// Close will close the connection from the client side
func (cl *Client) Close() error {
	return cl.conn.Close()
}
