package server

import (
	"context"
	"net"
	"sync/atomic"

	"github.com/sahib/zftp/localfs"
	"github.com/sahib/zftp/session"
	"github.com/sahib/zftp/util/protocol"
	log "github.com/sirupsen/logrus"
)

// handler runs one session per connection.
// Sessions share nothing but the file system.
type handler struct {
	fs       *localfs.FS
	transfer session.TransferOptions
	served   int64
}

func (hdl *handler) Handle(ctx context.Context, conn net.Conn) {
	peer := conn.RemoteAddr().String()
	log.WithField("peer", peer).Infof("client connected")

	srv := session.NewServer(conn, session.ServerOptions{
		Lister:   hdl.fs,
		Files:    hdl.fs,
		Peer:     peer,
		Transfer: hdl.transfer,
	})

	err := srv.Serve()
	atomic.AddInt64(&hdl.served, 1)

	switch {
	case err == nil:
		log.WithField("peer", peer).Infof("session ended")
	case protocol.IsFatal(err) && ctx.Err() != nil:
		log.WithField("peer", peer).Infof("session interrupted by shutdown")
	default:
		log.WithField("peer", peer).Warnf("session ended with error: %v", err)
	}
}

func (hdl *handler) Quit() error {
	log.Infof("Served %d sessions.", atomic.LoadInt64(&hdl.served))
	return nil
}
