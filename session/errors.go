package session

import (
	"fmt"
	"strconv"
	"strings"
	"syscall"

	e "github.com/pkg/errors"
	"github.com/sahib/zftp/util/protocol"
)

// RemoteError is the cause the server sent along with an ERROR reply.
// The command failed, but the session is fine.
type RemoteError struct {
	Cause string
}

func (re *RemoteError) Error() string {
	return "remote: " + re.Cause
}

// RefusedError is returned when the server answered anything other than OK.
type RefusedError struct {
	Reply string
}

func (re *RefusedError) Error() string {
	return fmt.Sprintf("refused: %s", re.Reply)
}

// ProtocolError means the peer sent a reply that could not be understood
// where a number was expected. Nobody knows what follows then.
type ProtocolError struct {
	What  string
	Reply string
}

func (pe *ProtocolError) Error() string {
	return fmt.Sprintf("bad %s in reply: %q", pe.What, pe.Reply)
}

// IsRemoteError checks if `err` is an ERROR reply of the peer.
func IsRemoteError(err error) bool {
	var re *RemoteError
	return e.As(err, &re)
}

// IsRefused checks if `err` is a refusal of the peer.
func IsRefused(err error) bool {
	var re *RefusedError
	return e.As(err, &re)
}

// IsProtocolError checks if `err` is a malformed reply.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return e.As(err, &pe)
}

// IsFatal reports whether the session has to end because of `err`.
// Everything else only fails the current command.
func IsFatal(err error) bool {
	return protocol.IsFatal(err) || IsProtocolError(err)
}

func parseRemoteError(reply string) *RemoteError {
	return &RemoteError{
		Cause: strings.TrimSpace(reply[len(errorPrefix):]),
	}
}

// parseSize parses a count or byte length sent as decimal number.
func parseSize(what, reply string) (int64, error) {
	size, err := strconv.ParseInt(reply, 10, 64)
	if err != nil || size < 0 {
		return 0, &ProtocolError{What: what, Reply: reply}
	}

	return size, nil
}

// describeError renders `err` the way strerror(3) would,
// e.g. "No such file or directory".
func describeError(err error) string {
	msg := err.Error()

	var errno syscall.Errno
	if e.As(err, &errno) {
		msg = errno.Error()
	}

	if msg != "" && msg[0] >= 'a' && msg[0] <= 'z' {
		msg = string(msg[0]-'a'+'A') + msg[1:]
	}

	return msg
}
