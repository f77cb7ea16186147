package session

import (
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	humanize "github.com/dustin/go-humanize"
	e "github.com/pkg/errors"
	"github.com/sahib/zftp/command"
	"github.com/sahib/zftp/util/protocol"
	log "github.com/sirupsen/logrus"
)

// ClientOptions configure a Client.
type ClientOptions struct {
	// Local is where GET writes to and PUT reads from.
	Local FileSystem

	// Consent is asked before every GET. A nil func accepts all transfers.
	Consent ConsentFunc

	// Output receives the entries printed by LIST.
	Output io.Writer

	// Progress is started for every raw transfer if not nil.
	Progress ProgressFunc

	Transfer TransferOptions
}

// Client drives commands against a server.
type Client struct {
	proto *protocol.Protocol
	opts  ClientOptions
}

// NewClient returns a Client talking over `rw`.
func NewClient(rw io.ReadWriter, opts ClientOptions) *Client {
	if opts.Output == nil {
		opts.Output = ioutil.Discard
	}

	proto := protocol.NewProtocol(rw)
	proto.SetChunkSize(opts.Transfer.ChunkSize)
	proto.SetRateLimit(opts.Transfer.MaxRate)

	return &Client{proto: proto, opts: opts}
}

// Do runs `cmd` to completion.
//
// The returned bool is false when the session is over, either because
// `cmd` was DONE or because the error is fatal (see IsFatal). All other
// errors only concern `cmd` and the next command may be issued.
func (cl *Client) Do(cmd command.Command) (bool, error) {
	var err error

	switch c := cmd.(type) {
	case command.Done:
		return false, cl.doDone()
	case command.List:
		err = cl.doList(c)
	case command.Get:
		err = cl.doGet(c)
	case command.Put:
		err = cl.doPut(c)
	default:
		return true, fmt.Errorf("unsupported command: %T", cmd)
	}

	return !IsFatal(err), err
}

func (cl *Client) doDone() error {
	return cl.proto.SendFrame(command.Done{}.Wire())
}

func (cl *Client) doList(cmd command.List) error {
	if err := cl.proto.SendFrame(cmd.Wire()); err != nil {
		return err
	}

	reply, err := cl.proto.RecvString()
	if err != nil {
		return err
	}

	if strings.HasPrefix(reply, errorPrefix) {
		return parseRemoteError(reply)
	}

	count, err := parseSize("entry count", reply)
	if err != nil {
		return err
	}

	for idx := int64(0); idx < count; idx++ {
		name, err := cl.proto.RecvString()
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintln(cl.opts.Output, name); err != nil {
			log.Warnf("failed to print entry: %v", err)
		}
	}

	return nil
}

func (cl *Client) doGet(cmd command.Get) error {
	if err := cl.proto.SendFrame(cmd.Wire()); err != nil {
		return err
	}

	reply, err := cl.proto.RecvString()
	if err != nil {
		return err
	}

	if strings.HasPrefix(reply, errorPrefix) {
		return parseRemoteError(reply)
	}

	size, err := parseSize("file size", reply)
	if err != nil {
		return err
	}

	if cl.opts.Consent != nil && !cl.opts.Consent(cmd.Remote, size) {
		log.Infof("not receiving %s", cmd.Remote)
		return cl.proto.SendFrame(replyNO)
	}

	fd, err := cl.opts.Local.Create(cmd.Local)
	if err != nil {
		if serr := cl.proto.SendFrame(replyNO); serr != nil {
			return serr
		}

		return e.Wrapf(err, "cannot open %s for getting", cmd.Local)
	}

	if err := cl.proto.SendFrame(replyOK); err != nil {
		fd.Close()
		cl.removePartial(cmd.Local)
		return err
	}

	log.Infof("receiving %s (%s) to %s", cmd.Remote, humanize.Bytes(uint64(size)), cmd.Local)

	progress := cl.startProgress(cmd.Remote, size)
	_, err = cl.proto.RecvTo(progressWriter{w: fd, p: progress}, size)
	progress.Done(err)

	if cerr := fd.Close(); cerr != nil && err == nil {
		err = e.Wrapf(cerr, "close %s", cmd.Local)
	}

	if err != nil {
		cl.removePartial(cmd.Local)
		return err
	}

	log.Infof("received %s", cmd.Local)
	return nil
}

func (cl *Client) doPut(cmd command.Put) error {
	size, err := cl.opts.Local.Size(cmd.Local)
	if err != nil {
		return e.Wrapf(err, "cannot put %s", cmd.Local)
	}

	fd, err := cl.opts.Local.Open(cmd.Local)
	if err != nil {
		return e.Wrapf(err, "cannot put %s", cmd.Local)
	}

	defer fd.Close()

	if err := cl.proto.SendFrame(cmd.Wire()); err != nil {
		return err
	}

	if err := cl.expectOK(); err != nil {
		return err
	}

	if err := cl.proto.Sendf("%d", size); err != nil {
		return err
	}

	if err := cl.expectOK(); err != nil {
		return err
	}

	log.Infof("sending %s (%s) to %s", cmd.Local, humanize.Bytes(uint64(size)), cmd.Remote)

	progress := cl.startProgress(cmd.Local, size)
	_, err = cl.proto.SendFrom(progressReader{r: fd, p: progress}, size)
	progress.Done(err)

	if err != nil {
		return err
	}

	log.Infof("sent %s", cmd.Local)
	return nil
}

func (cl *Client) expectOK() error {
	reply, err := cl.proto.RecvString()
	if err != nil {
		return err
	}

	if reply != replyOK {
		return &RefusedError{Reply: reply}
	}

	return nil
}

func (cl *Client) startProgress(path string, size int64) Progress {
	if cl.opts.Progress == nil {
		return nopProgress{}
	}

	return cl.opts.Progress(path, size)
}

func (cl *Client) removePartial(path string) {
	if err := cl.opts.Local.Remove(path); err != nil {
		log.Warnf("failed to remove partial file %s: %v", path, err)
	}
}
