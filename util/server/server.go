package server

import (
	"context"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	e "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultMaxConnections is used when no positive limit was given.
	DefaultMaxConnections = 10

	acceptTimeout = 500 * time.Millisecond
)

// Handler is called in its own goroutine for every accepted connection.
// The connection is closed by the server once Handle returns.
type Handler interface {
	Handle(ctx context.Context, conn net.Conn)
	Quit() error
}

// Server is a generic server implementation that
// listens on a certain port and starts a new go routine
// for each new accepted connection.
// Whatever the goroutine does is defined by the user-defined handler.
type Server struct {
	lst      net.Listener
	ctx      context.Context
	cancel   context.CancelFunc
	handler  Handler
	quitCh   chan bool
	maxConns int

	mu    sync.Mutex
	conns map[net.Conn]bool
	wg    sync.WaitGroup
}

// DeadlineListener is a listener that allows to set a deadline
// for calling Accept(). This is used to check periodically for a quit signal.
type DeadlineListener interface {
	net.Listener

	SetDeadline(deadline time.Time) error
}

func (sv *Server) accept(rateCh chan struct{}) error {
	if deadLst, ok := sv.lst.(DeadlineListener); ok {
		if err := deadLst.SetDeadline(time.Now().Add(acceptTimeout)); err != nil {
			rateCh <- struct{}{}
			return err
		}
	}

	conn, err := sv.lst.Accept()
	if err != nil {
		rateCh <- struct{}{}
		if opErr, ok := err.(*net.OpError); ok && opErr.Timeout() {
			return nil
		}

		// Something else happened.
		return err
	}

	sv.track(conn, true)
	sv.wg.Add(1)

	go func() {
		defer sv.wg.Done()

		sv.handler.Handle(sv.ctx, conn)
		if err := conn.Close(); err != nil && !isClosedErr(err) {
			log.Debugf("failed to close connection to %s: %v", conn.RemoteAddr(), err)
		}

		sv.track(conn, false)
		rateCh <- struct{}{}
	}()

	return nil
}

func (sv *Server) track(conn net.Conn, open bool) {
	sv.mu.Lock()
	defer sv.mu.Unlock()

	if open {
		sv.conns[conn] = true
	} else {
		delete(sv.conns, conn)
	}
}

// closeAll interrupts running handlers by closing their connections.
func (sv *Server) closeAll() {
	sv.mu.Lock()
	defer sv.mu.Unlock()

	for conn := range sv.conns {
		conn.Close()
	}
}

func isClosedErr(err error) bool {
	return e.Is(err, net.ErrClosed)
}

// Addr returns the address the server listens on.
func (sv *Server) Addr() net.Addr {
	return sv.lst.Addr()
}

// Close stops listening. Serve() will return soon after.
func (sv *Server) Close() error {
	return sv.lst.Close()
}

// Serve accepts connections until Quit() is called or SIGINT/SIGTERM arrives.
// Before returning, all open connections are closed and their handlers waited for.
func (sv *Server) Serve() error {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalCh)

	// Reserve a pool of connections:
	rateCh := make(chan struct{}, sv.maxConns)
	for i := 0; i < cap(rateCh); i++ {
		rateCh <- struct{}{}
	}

	doServe := true

	for doServe {
		select {
		case sig := <-signalCh:
			log.Warnf("Received %s signal, quitting.", sig)
			doServe = false
		case <-sv.quitCh:
			log.Infof("Will not accept new connections now")
			doServe = false
		case <-rateCh:
			// If this signal can receive something, we have a free connection.
			if err := sv.accept(rateCh); err != nil {
				if isClosedErr(err) {
					doServe = false
					break
				}

				log.Errorf("Failed to accept connection: %s", err)
			}
		}
	}

	sv.cancel()
	sv.closeAll()
	sv.wg.Wait()
	sv.lst.Close()

	return sv.handler.Quit()
}

// Quit makes Serve() return. It does not block.
func (sv *Server) Quit() {
	select {
	case sv.quitCh <- true:
	default:
	}
}

// NewServer returns a server accepting connections from `lst` and passing
// them to `handler`. At most `maxConns` connections are served at a time.
func NewServer(ctx context.Context, lst net.Listener, handler Handler, maxConns int) (*Server, error) {
	if maxConns <= 0 {
		maxConns = DefaultMaxConnections
	}

	ctx, cancel := context.WithCancel(ctx)
	return &Server{
		ctx:      ctx,
		cancel:   cancel,
		lst:      lst,
		handler:  handler,
		quitCh:   make(chan bool, 1),
		maxConns: maxConns,
		conns:    make(map[net.Conn]bool),
	}, nil
}
