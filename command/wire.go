package command

import "strings"

// ParseWire decodes a frame received by the server.
//
// Matching is strict: the keywords are case-sensitive, followed by exactly
// one space, and the rest of the frame is the path, taken verbatim.
// DONE has to be the whole frame.
func ParseWire(frame []byte) (Command, error) {
	msg := string(frame)

	switch {
	case msg == "DONE":
		return Done{}, nil
	case strings.HasPrefix(msg, "LIST "):
		return List{Path: msg[len("LIST "):]}, nil
	case strings.HasPrefix(msg, "GET "):
		return Get{Remote: msg[len("GET "):]}, nil
	case strings.HasPrefix(msg, "PUT "):
		return Put{Remote: msg[len("PUT "):]}, nil
	}

	return nil, parseError(msg, "unrecognised command")
}
