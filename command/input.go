package command

import (
	"path"
	"strings"
)

// Keywords lists the commands a user can type, e.g. for suggestions.
var Keywords = []string{"done", "list", "get", "put"}

var escapes = map[byte]byte{
	' ':  ' ',
	't':  '\t',
	'n':  '\n',
	'r':  '\r',
	'\\': '\\',
}

// isSpace matches the characters C's isspace() matches in the "C" locale.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}

	return false
}

func hasKeyword(input, keyword string) bool {
	if len(input) < len(keyword) {
		return false
	}

	return strings.EqualFold(input[:len(keyword)], keyword)
}

// ParseInput parses a line typed by the user.
//
// The keyword is matched case-insensitively on the first four characters.
// `list` defaults to ".", `get` and `put` take one or two paths where the
// second one defaults to the base name of the first. Paths of `get` and
// `put` may contain the escapes \<space>, \t, \n, \r and \\.
func ParseInput(line string) (Command, error) {
	input := strings.TrimSpace(line)
	if input == "" {
		return nil, ErrEmptyInput
	}

	if strings.IndexByte(input, 0) >= 0 {
		return nil, parseError(input, "input contains a zero byte")
	}

	switch {
	case hasKeyword(input, "done"):
		return parseDone(input[4:])
	case hasKeyword(input, "list"):
		return parseList(input[4:])
	case hasKeyword(input, "get") && (len(input) == 3 || isSpace(input[3])):
		return parseGet(input[3:])
	case hasKeyword(input, "put") && (len(input) == 3 || isSpace(input[3])):
		return parsePut(input[3:])
	}

	return nil, parseError(input, "unrecognised command")
}

func parseDone(rest string) (Command, error) {
	if junk := strings.TrimSpace(rest); junk != "" {
		return nil, parseError(junk, "trailing junk in DONE")
	}

	return Done{}, nil
}

func parseList(rest string) (Command, error) {
	dir := strings.TrimSpace(rest)
	if dir == "" {
		dir = "."
	}

	return List{Path: dir}, nil
}

func parseGet(rest string) (Command, error) {
	remote, local, err := parsePaths("GET", rest)
	if err != nil {
		return nil, err
	}

	return Get{Remote: remote, Local: local}, nil
}

func parsePut(rest string) (Command, error) {
	local, remote, err := parsePaths("PUT", rest)
	if err != nil {
		return nil, err
	}

	return Put{Local: local, Remote: remote}, nil
}

// parsePaths returns the source and destination path of a transfer.
// If only the source is given, the destination is its base name.
func parsePaths(verb, rest string) (string, string, error) {
	tokens, err := splitEscaped(rest)
	if err != nil {
		return "", "", err
	}

	switch len(tokens) {
	case 0:
		return "", "", parseError("", "cannot %s empty path", verb)
	case 1:
		return tokens[0], path.Base(tokens[0]), nil
	case 2:
		return tokens[0], tokens[1], nil
	}

	return "", "", parseError(rest, "too many paths for %s", verb)
}

// splitEscaped splits `input` at unescaped whitespace and decodes escapes.
// The result is built fresh; `input` is only read.
func splitEscaped(input string) ([]string, error) {
	tokens := []string{}
	token := strings.Builder{}
	inToken := false

	for idx := 0; idx < len(input); idx++ {
		c := input[idx]

		switch {
		case c == '\\':
			if idx+1 == len(input) {
				return nil, parseError(input, "trailing backslash")
			}

			idx++
			decoded, ok := escapes[input[idx]]
			if !ok {
				return nil, parseError(input, "unrecognised escape \\%c", input[idx])
			}

			token.WriteByte(decoded)
			inToken = true
		case isSpace(c):
			if inToken {
				tokens = append(tokens, token.String())
				token.Reset()
				inToken = false
			}
		default:
			token.WriteByte(c)
			inToken = true
		}
	}

	if inToken {
		tokens = append(tokens, token.String())
	}

	return tokens, nil
}
