// Package command defines the requests a zftp client can send and the two
// parsers that produce them: ParseInput for text typed by a user and
// ParseWire for frames received by the server.
package command

import (
	"fmt"
)

// Command is one of Done, List, Get or Put.
type Command interface {
	// Wire returns the frame that carries the command to the server.
	Wire() string

	// Name is the lowercase keyword of the command.
	Name() string

	isCommand()
}

// Done ends the session.
type Done struct{}

// List asks for the entries of a remote directory.
type List struct {
	Path string
}

// Get fetches the remote file at Remote and stores it at Local.
type Get struct {
	Remote string
	Local  string
}

// Put uploads the local file at Local to Remote.
type Put struct {
	Local  string
	Remote string
}

func (Done) isCommand() {}
func (List) isCommand() {}
func (Get) isCommand()  {}
func (Put) isCommand()  {}

func (Done) Name() string { return "done" }
func (List) Name() string { return "list" }
func (Get) Name() string  { return "get" }
func (Put) Name() string  { return "put" }

// Wire implements Command. Only the remote path travels;
// the local side of a transfer is never told to the server.
func (Done) Wire() string {
	return "DONE"
}

func (l List) Wire() string {
	return "LIST " + l.Path
}

func (g Get) Wire() string {
	return "GET " + g.Remote
}

func (p Put) Wire() string {
	return "PUT " + p.Remote
}

func (l List) String() string {
	return fmt.Sprintf("list %q", l.Path)
}

func (g Get) String() string {
	return fmt.Sprintf("get %q into %q", g.Remote, g.Local)
}

func (p Put) String() string {
	return fmt.Sprintf("put %q from %q", p.Remote, p.Local)
}

// ParseError is returned when a line or frame does not describe a command.
type ParseError struct {
	Input  string
	Reason string
}

func (pe *ParseError) Error() string {
	if pe.Input == "" {
		return pe.Reason
	}

	return fmt.Sprintf("%s: %q", pe.Reason, pe.Input)
}

// ErrEmptyInput is returned by ParseInput for blank lines.
var ErrEmptyInput = &ParseError{Reason: "empty input"}

// IsParseError checks if `err` was caused by malformed input.
func IsParseError(err error) bool {
	_, ok := err.(*ParseError)
	return ok
}

func parseError(input, format string, args ...interface{}) error {
	return &ParseError{
		Input:  input,
		Reason: fmt.Sprintf(format, args...),
	}
}
