// Package session implements both ends of a zftp conversation.
//
// A Client turns commands into request/response exchanges with a server,
// a Server answers them. Both use one stream strictly in sequence: a command
// is finished, successfully or not, before the next one starts.
package session

import (
	"io"
)

const (
	replyOK = "OK"
	replyNO = "NO"

	// errorPrefix starts a failure reply to LIST and GET.
	errorPrefix = "ERROR"
)

// Lister returns the entry names of a directory in a fixed order.
type Lister interface {
	List(path string) ([]string, error)
}

// FileSystem gives access to the files a session reads and writes.
type FileSystem interface {
	// Size returns the length of the regular file at `path`.
	Size(path string) (int64, error)

	// Open opens the file at `path` for reading.
	Open(path string) (io.ReadCloser, error)

	// Create opens the file at `path` for writing,
	// creating it if needed and truncating it otherwise.
	Create(path string) (io.WriteCloser, error)

	// Remove deletes the file at `path`.
	Remove(path string) error
}

// ConsentFunc decides whether a GET of `size` bytes from `path` may start.
type ConsentFunc func(path string, size int64) bool

// Progress receives updates about a running raw transfer.
type Progress interface {
	// Add is called for every chunk with its size.
	Add(n int)

	// Done is called once after the transfer, with its error if any.
	Done(err error)
}

// ProgressFunc starts a Progress for transferring `size` bytes of `path`.
type ProgressFunc func(path string, size int64) Progress

// TransferOptions tune raw transfers.
type TransferOptions struct {
	// ChunkSize is the maximum amount of bytes per read or write.
	// Zero selects protocol.DefaultChunkSize.
	ChunkSize int

	// MaxRate limits transfers to this many bytes per second.
	// Zero means unlimited.
	MaxRate int64
}

type progressWriter struct {
	w io.Writer
	p Progress
}

func (pw progressWriter) Write(buf []byte) (int, error) {
	n, err := pw.w.Write(buf)
	pw.p.Add(n)
	return n, err
}

type progressReader struct {
	r io.Reader
	p Progress
}

func (pr progressReader) Read(buf []byte) (int, error) {
	n, err := pr.r.Read(buf)
	pr.p.Add(n)
	return n, err
}

type nopProgress struct{}

func (nopProgress) Add(n int)      {}
func (nopProgress) Done(err error) {}
