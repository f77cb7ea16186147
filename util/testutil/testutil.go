package testutil

import (
	"io"
	"io/ioutil"
	"os"
	"testing"
)

// CreateDummyBuf creates a byte slice that is `size` big.
// It's filled with the repeating numbers [0...254].
func CreateDummyBuf(size int64) []byte {
	buf := make([]byte, size)

	for i := int64(0); i < size; i++ {
		// Be evil and stripe the data:
		buf[i] = byte(i % 255)
	}

	return buf
}

// CreateFile creates a temporary file in `dir` (or the systems tmp-folder
// if `dir` is empty). The file will be `size` bytes big,
// filled with content from CreateDummyBuf.
func CreateFile(t *testing.T, dir string, size int64) string {
	fd, err := ioutil.TempFile(dir, "zftp_test")
	if err != nil {
		t.Fatalf("cannot create temp file: %v", err)
	}

	if _, err := fd.Write(CreateDummyBuf(size)); err != nil {
		t.Fatalf("cannot write temp file: %v", err)
	}

	if err := fd.Close(); err != nil {
		t.Fatalf("cannot close temp file: %v", err)
	}

	return fd.Name()
}

// TempDir creates a temporary directory and returns its path.
// Use Remover() to clean it up.
func TempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "zftp-test")
	if err != nil {
		t.Fatalf("cannot create temp dir: %v", err)
	}

	return dir
}

// Remover removes all files in paths recursively and errors when it fails.
// It is no error if there's nothing to delete. It's useful in defer statements.
func Remover(t *testing.T, paths ...string) {
	for _, path := range paths {
		if err := os.RemoveAll(path); err != nil {
			t.Errorf("removing temp directory failed: %v", err)
		}
	}
}

// OneByteWriter accepts at most one byte per Write call.
// It simulates a stream that only ever does partial writes.
type OneByteWriter struct {
	W io.Writer
}

func (obw OneByteWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	return obw.W.Write(p[:1])
}

// OneByteReader hands out at most one byte per Read call.
type OneByteReader struct {
	R io.Reader
}

func (obr OneByteReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	return obr.R.Read(p[:1])
}

// FailingWriter fails every write with Err.
type FailingWriter struct {
	Err error
}

func (fw FailingWriter) Write(p []byte) (int, error) {
	return 0, fw.Err
}
