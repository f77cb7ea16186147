// Package protocol implements the two ways zftp moves bytes over a stream.
//
// Control messages are frames: arbitrary text followed by a single zero byte.
// File payloads are raw runs of bytes whose length was agreed on beforehand by
// exchanging a frame. There is no framing inside a raw run, so both ends must
// always move exactly the agreed number of bytes.
package protocol

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	e "github.com/pkg/errors"
	"github.com/sahib/zftp/util"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// Sentinel terminates every frame on the wire.
	Sentinel = byte(0)

	// InitialFrameCapacity is the size of the buffer a frame is received into.
	// The buffer doubles whenever a frame outgrows it.
	InitialFrameCapacity = 8192

	// DefaultChunkSize is the maximum amount of bytes moved per read
	// or write call during a raw transfer.
	DefaultChunkSize = 8192
)

var (
	// ErrConnectionClosed is returned when the peer closed the stream
	// in the middle of a frame or a raw transfer.
	ErrConnectionClosed = e.New("connection ended abruptly")

	// ErrEmbeddedSentinel is returned when a frame to be sent contains
	// the sentinel byte and would therefore be split on the other side.
	ErrEmbeddedSentinel = e.New("frame contains a zero byte")

	ErrNoReader = e.New("protocol was created without reader part")
	ErrNoWriter = e.New("protocol was created without writer part")
)

// TransportError wraps an unrecoverable read or write failure of the stream.
type TransportError struct {
	Op  string
	Err error
}

func (te *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", te.Op, te.Err)
}

// Unwrap returns the underlying stream error.
func (te *TransportError) Unwrap() error {
	return te.Err
}

// SourceError is returned by SendFrom when the local data source failed
// or ended before the announced length was reached.
type SourceError struct {
	Sent int64
	Want int64
	Err  error
}

func (se *SourceError) Error() string {
	return fmt.Sprintf("source failed after %d of %d bytes: %v", se.Sent, se.Want, se.Err)
}

// Unwrap returns the error of the local source.
func (se *SourceError) Unwrap() error {
	return se.Err
}

// IsConnectionClosed checks if `err` means that the peer went away.
func IsConnectionClosed(err error) bool {
	return e.Is(err, ErrConnectionClosed)
}

// IsTransportError checks if `err` is or wraps a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return e.As(err, &te)
}

// IsFatal reports whether `err` left the stream in a state
// where no further frame can be exchanged reliably.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var se *SourceError
	return IsConnectionClosed(err) || IsTransportError(err) || e.As(err, &se)
}

// Protocol sends and receives frames and raw runs over a stream.
// It is not safe for concurrent use; a session uses it strictly in sequence.
type Protocol struct {
	r         io.Reader
	w         io.Writer
	chunkSize int
	maxRate   int64
	limiter   *rate.Limiter
}

// NewProtocol returns a Protocol reading from and writing to `rw`.
func NewProtocol(rw io.ReadWriter) *Protocol {
	return &Protocol{r: rw, w: rw, chunkSize: DefaultChunkSize}
}

// NewProtocolReader returns a Protocol that can only receive.
func NewProtocolReader(r io.Reader) *Protocol {
	return &Protocol{r: r, chunkSize: DefaultChunkSize}
}

// NewProtocolWriter returns a Protocol that can only send.
func NewProtocolWriter(w io.Writer) *Protocol {
	return &Protocol{w: w, chunkSize: DefaultChunkSize}
}

// SetChunkSize changes the maximum size of a single read or write
// during raw transfers. Values below 1 select DefaultChunkSize.
func (p *Protocol) SetChunkSize(size int) {
	if size < 1 {
		size = DefaultChunkSize
	}

	p.chunkSize = size
	p.SetRateLimit(p.maxRate)
}

// SetRateLimit limits raw transfers to `bytesPerSec` in each direction.
// Zero or less disables the limit. Frames are never limited.
func (p *Protocol) SetRateLimit(bytesPerSec int64) {
	p.maxRate = bytesPerSec
	if bytesPerSec <= 0 {
		p.limiter = nil
		return
	}

	burst := p.chunkSize
	if bytesPerSec > int64(burst) {
		burst = int(bytesPerSec)
	}

	p.limiter = rate.NewLimiter(rate.Limit(bytesPerSec), burst)
}

func (p *Protocol) throttle(n int) {
	if p.limiter == nil || n <= 0 {
		return
	}

	// n never exceeds the burst.
	if err := p.limiter.WaitN(context.Background(), n); err != nil {
		log.Debugf("rate limiter: %v", err)
	}
}

// writeAll keeps writing until all of data went out.
// Writers may accept only a part of the data per call.
func (p *Protocol) writeAll(data []byte) error {
	if p.w == nil {
		return ErrNoWriter
	}

	sent := 0
	for sent < len(data) {
		n, err := p.w.Write(data[sent:])
		sent += n

		if err != nil {
			return &TransportError{Op: "send", Err: err}
		}

		if n == 0 {
			return &TransportError{Op: "send", Err: io.ErrShortWrite}
		}
	}

	return nil
}

// SendFrame sends `text` followed by the sentinel byte.
func (p *Protocol) SendFrame(text string) error {
	if strings.IndexByte(text, Sentinel) >= 0 {
		return ErrEmbeddedSentinel
	}

	data := make([]byte, len(text)+1)
	copy(data, text)
	data[len(text)] = Sentinel
	return p.writeAll(data)
}

// Sendf formats according to a format specifier and sends the result as frame.
func (p *Protocol) Sendf(format string, args ...interface{}) error {
	return p.SendFrame(fmt.Sprintf(format, args...))
}

// RecvFrame reads until the next sentinel byte and returns everything before it.
//
// The stream is read one byte at a time, so no byte after the sentinel
// is ever consumed. This is what allows a raw run to follow a frame directly.
func (p *Protocol) RecvFrame() ([]byte, error) {
	if p.r == nil {
		return nil, ErrNoReader
	}

	buf := make([]byte, 0, InitialFrameCapacity)
	one := make([]byte, 1)

	for {
		n, err := p.r.Read(one)
		if n == 1 {
			if one[0] == Sentinel {
				return buf, nil
			}

			if len(buf) == cap(buf) {
				grown := make([]byte, len(buf), 2*cap(buf))
				copy(grown, buf)
				buf = grown
				log.Infof("receiving long message: over %d bytes", len(buf))
			}

			buf = append(buf, one[0])
		}

		if err == io.EOF {
			return nil, ErrConnectionClosed
		}

		if err != nil {
			return nil, &TransportError{Op: "recv", Err: err}
		}
	}
}

// RecvString is like RecvFrame but converts the frame to a string.
func (p *Protocol) RecvString() (string, error) {
	frame, err := p.RecvFrame()
	if err != nil {
		return "", err
	}

	return string(frame), nil
}

// SendExact sends all of `data` as a raw run.
func (p *Protocol) SendExact(data []byte) error {
	_, err := p.SendFrom(bytes.NewReader(data), int64(len(data)))
	return err
}

// RecvExact reads a raw run of exactly `n` bytes.
func (p *Protocol) RecvExact(n int64) ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.Grow(int(util.Min64(n, int64(p.chunkSize))))

	if _, err := p.RecvTo(buf, n); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// SendFrom reads exactly `n` bytes from `r` and sends them as a raw run.
// It returns the number of bytes that went out on the stream.
//
// If `r` fails or ends early, a *SourceError is returned. The peer
// still waits for the rest of the run then, so the stream is unusable.
func (p *Protocol) SendFrom(r io.Reader, n int64) (int64, error) {
	if p.w == nil {
		return 0, ErrNoWriter
	}

	buf := make([]byte, p.chunkSize)
	sent := int64(0)

	for sent < n {
		want := util.Min64(int64(len(buf)), n-sent)
		got, err := io.ReadFull(r, buf[:want])
		if got > 0 {
			p.throttle(got)
			if werr := p.writeAll(buf[:got]); werr != nil {
				return sent, werr
			}

			sent += int64(got)
		}

		if err != nil {
			if err == io.ErrUnexpectedEOF || err == io.EOF {
				err = io.ErrUnexpectedEOF
			}

			return sent, &SourceError{Sent: sent, Want: n, Err: err}
		}
	}

	return sent, nil
}

// RecvTo reads a raw run of exactly `n` bytes and writes it to `w`.
// It returns the number of bytes taken from the stream.
//
// If `w` fails, the rest of the run is still read and dropped so that the
// next frame can be received. The write error is returned afterwards.
func (p *Protocol) RecvTo(w io.Writer, n int64) (int64, error) {
	if p.r == nil {
		return 0, ErrNoReader
	}

	buf := make([]byte, p.chunkSize)
	received := int64(0)

	var writeErr error
	for received < n {
		want := util.Min64(int64(len(buf)), n-received)
		got, err := p.r.Read(buf[:want])
		if got > 0 {
			if writeErr == nil {
				if _, werr := w.Write(buf[:got]); werr != nil {
					log.Warnf("dropping rest of transfer after write failure: %v", werr)
					writeErr = werr
				}
			}

			received += int64(got)
			p.throttle(got)
		}

		if err == io.EOF {
			if received < n {
				return received, ErrConnectionClosed
			}

			break
		}

		if err != nil {
			return received, &TransportError{Op: "recv", Err: err}
		}
	}

	if writeErr != nil {
		return received, e.Wrap(writeErr, "write")
	}

	return received, nil
}
