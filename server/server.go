package server

import (
	"context"
	"fmt"
	"net"

	"github.com/sahib/config"
	"github.com/sahib/zftp/defaults"
	"github.com/sahib/zftp/localfs"
	"github.com/sahib/zftp/session"
	"github.com/sahib/zftp/util/server"
	log "github.com/sirupsen/logrus"
)

// Server accepts clients and serves files from a root directory.
type Server struct {
	baseServer *server.Server
	handler    *handler
}

// Serve blocks until Quit() is called or the process is told to stop.
func (sv *Server) Serve() error {
	log.Infof("Serving %s on %s from now on.", sv.handler.fs.Root(), sv.Addr())
	return sv.baseServer.Serve()
}

// Addr returns the address clients can connect to.
func (sv *Server) Addr() net.Addr {
	return sv.baseServer.Addr()
}

// Quit makes Serve() return after closing all sessions.
func (sv *Server) Quit() {
	sv.baseServer.Quit()
}

// Close stops accepting new clients.
func (sv *Server) Close() error {
	return sv.baseServer.Close()
}

// BootServer creates a listening server configured by `cfg`.
// It only reads the »server« and »transfer« sections.
func BootServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	serverCfg := cfg.Section("server")
	addr := fmt.Sprintf("%s:%d", serverCfg.String("bind"), serverCfg.Int("port"))
	maxConns := int(serverCfg.Int("max_connections"))

	if err := reserveFds(maxConns); err != nil {
		log.Warnf("Failed to raise the open file limit: %v", err)
	}

	lst, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	hdl := &handler{
		fs: localfs.New(serverCfg.String("root")),
		transfer: session.TransferOptions{
			ChunkSize: int(cfg.Int("transfer.chunk_size")),
			MaxRate:   defaults.MaxRate(cfg),
		},
	}

	baseServer, err := server.NewServer(ctx, lst, hdl, maxConns)
	if err != nil {
		lst.Close()
		return nil, err
	}

	return &Server{
		baseServer: baseServer,
		handler:    hdl,
	}, nil
}
