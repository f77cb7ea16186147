package session

import (
	"io"
	"strings"

	humanize "github.com/dustin/go-humanize"
	e "github.com/pkg/errors"
	"github.com/sahib/zftp/command"
	"github.com/sahib/zftp/util"
	"github.com/sahib/zftp/util/protocol"
	log "github.com/sirupsen/logrus"
)

// ServerOptions configure a Server.
type ServerOptions struct {
	Lister Lister
	Files  FileSystem

	// Peer is used to tag log messages.
	Peer string

	Transfer TransferOptions
}

// Server answers the commands of a single client.
type Server struct {
	proto  *protocol.Protocol
	opts   ServerOptions
	logger *log.Entry
}

// NewServer returns a Server for the client on the other end of `rw`.
func NewServer(rw io.ReadWriter, opts ServerOptions) *Server {
	proto := protocol.NewProtocol(rw)
	proto.SetChunkSize(opts.Transfer.ChunkSize)
	proto.SetRateLimit(opts.Transfer.MaxRate)

	return &Server{
		proto:  proto,
		opts:   opts,
		logger: log.WithField("peer", opts.Peer),
	}
}

// Serve handles commands until the client sends DONE or a fatal error occurs.
// A client that hangs up between two commands is not an error.
func (srv *Server) Serve() error {
	for {
		frame, err := srv.proto.RecvFrame()
		if err != nil {
			if protocol.IsConnectionClosed(err) {
				srv.logger.Infof("client hung up")
				return nil
			}

			return err
		}

		cmd, err := command.ParseWire(frame)
		if err != nil {
			srv.logger.Warnf("skipping frame: %v", err)
			continue
		}

		if _, ok := cmd.(command.Done); ok {
			srv.logger.Infof("DONE")
			return nil
		}

		if err := srv.Handle(cmd); err != nil {
			if IsFatal(err) {
				return err
			}

			srv.logger.Warnf("%s failed: %v", cmd.Name(), err)
		}
	}
}

// Handle runs the server side of a single command other than DONE.
func (srv *Server) Handle(cmd command.Command) error {
	switch c := cmd.(type) {
	case command.List:
		return srv.doList(c.Path)
	case command.Get:
		return srv.doGet(c.Remote)
	case command.Put:
		return srv.doPut(c.Remote)
	}

	return e.Errorf("cannot handle %s", cmd.Name())
}

func (srv *Server) doList(path string) error {
	srv.logger.Infof("LIST %s", path)

	names, err := srv.opts.Lister.List(path)
	if err != nil {
		srv.logger.Warnf("cannot open directory %s for reading: %v", path, err)
		return srv.proto.Sendf("%s can't open directory: %s", errorPrefix, describeError(err))
	}

	entries := names[:0:0]
	for _, name := range names {
		if strings.IndexByte(name, protocol.Sentinel) >= 0 {
			srv.logger.Warnf("not listing %q: contains a zero byte", name)
			continue
		}

		entries = append(entries, name)
	}

	if err := srv.proto.Sendf("%d", len(entries)); err != nil {
		return err
	}

	for _, name := range entries {
		if err := srv.proto.SendFrame(name); err != nil {
			return err
		}
	}

	return nil
}

func (srv *Server) doGet(path string) error {
	srv.logger.Infof("GET %s", path)

	size, err := srv.opts.Files.Size(path)
	if err != nil {
		return srv.sendError(path, err)
	}

	fd, err := srv.opts.Files.Open(path)
	if err != nil {
		return srv.sendError(path, err)
	}

	defer util.Closer(fd)

	if err := srv.proto.Sendf("%d", size); err != nil {
		return err
	}

	reply, err := srv.proto.RecvString()
	if err != nil {
		return err
	}

	if reply != replyOK {
		srv.logger.Infof("client declined %s: %q", path, reply)
		return nil
	}

	srv.logger.Infof("sending %s (%s)", path, humanize.Bytes(uint64(size)))
	if _, err := srv.proto.SendFrom(fd, size); err != nil {
		return err
	}

	srv.logger.Infof("sent %s", path)
	return nil
}

func (srv *Server) sendError(path string, err error) error {
	srv.logger.Warnf("cannot serve %s: %v", path, err)
	return srv.proto.Sendf("%s %s", errorPrefix, describeError(err))
}

func (srv *Server) doPut(path string) error {
	srv.logger.Infof("PUT %s", path)

	fd, err := srv.opts.Files.Create(path)
	if err != nil {
		srv.logger.Warnf("cannot create %s: %v", path, err)
		return srv.proto.Sendf("%s: %s", replyNO, describeError(err))
	}

	if err := srv.proto.SendFrame(replyOK); err != nil {
		fd.Close()
		return err
	}

	sizeMsg, err := srv.proto.RecvString()
	if err != nil {
		fd.Close()
		return err
	}

	size, err := parseSize("file size", sizeMsg)
	if err != nil {
		fd.Close()
		srv.logger.Warnf("refusing %s: %v", path, err)
		return srv.proto.Sendf("%s: invalid size", replyNO)
	}

	// There is no space check yet; every size is accepted.
	if err := srv.proto.SendFrame(replyOK); err != nil {
		fd.Close()
		return err
	}

	srv.logger.Infof("receiving %s (%s)", path, humanize.Bytes(uint64(size)))
	_, err = srv.proto.RecvTo(fd, size)

	if cerr := fd.Close(); cerr != nil && err == nil {
		err = e.Wrapf(cerr, "close %s", path)
	}

	if err != nil {
		if rerr := srv.opts.Files.Remove(path); rerr != nil {
			srv.logger.Warnf("failed to remove partial file %s: %v", path, rerr)
		}

		return err
	}

	srv.logger.Infof("received %s", path)
	return nil
}
