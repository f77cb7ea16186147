package cmd

const (
	// Success is the same as EXIT_SUCCESS in C
	Success = iota

	// BadArgs passed to cli; not our fault.
	BadArgs

	// ConnectionFailed means the server could not be reached
	// or the session ended because the connection broke.
	ConnectionFailed

	// UnknownError is an uncategorized error, probably our fault.
	UnknownError
)
