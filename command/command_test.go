package command

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseInput(t *testing.T) {
	tcs := []struct {
		input  string
		expect Command
	}{
		{"done", Done{}},
		{"  DONE  ", Done{}},
		{"list", List{Path: "."}},
		{"list   ", List{Path: "."}},
		{"LiSt /tmp", List{Path: "/tmp"}},
		{"list a\\ b", List{Path: "a\\ b"}},
		{"get a.txt b.txt", Get{Remote: "a.txt", Local: "b.txt"}},
		{"get a.txt", Get{Remote: "a.txt", Local: "a.txt"}},
		{"get /srv/data/a.txt", Get{Remote: "/srv/data/a.txt", Local: "a.txt"}},
		{"  get  a\\ b.txt  ", Get{Remote: "a b.txt", Local: "a b.txt"}},
		{"GET\ta.txt\t\tb.txt", Get{Remote: "a.txt", Local: "b.txt"}},
		{"get a\\tb", Get{Remote: "a\tb", Local: "a\tb"}},
		{"get x a\\\\b\\n\\r", Get{Remote: "x", Local: "a\\b\n\r"}},
		{"put local.txt", Put{Local: "local.txt", Remote: "local.txt"}},
		{"put dir/local.txt", Put{Local: "dir/local.txt", Remote: "local.txt"}},
		{"Put l.txt r.txt", Put{Local: "l.txt", Remote: "r.txt"}},
	}

	for _, tc := range tcs {
		cmd, err := ParseInput(tc.input)
		require.Nil(t, err, "input: %q", tc.input)
		require.Equal(t, tc.expect, cmd, "input: %q", tc.input)
	}
}

func TestParseInputErrors(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"lis /tmp",
		"done now",
		"get",
		"get    ",
		"put",
		"getter a",
		"get a\\q",
		"get a\\",
		"get a b c",
		"put a\x00b",
		"rm a",
	}

	for _, input := range inputs {
		cmd, err := ParseInput(input)
		require.Nil(t, cmd, "input: %q", input)
		require.True(t, IsParseError(err), "input: %q", input)
	}
}

func TestParseInputDoesNotTouchInput(t *testing.T) {
	input := "get a\\ b c\\\\d"
	copied := string([]byte(input))

	_, err := ParseInput(input)
	require.Nil(t, err)
	require.Equal(t, copied, input)
}

func TestParseWire(t *testing.T) {
	tcs := []struct {
		frame  string
		expect Command
	}{
		{"DONE", Done{}},
		{"LIST /tmp", List{Path: "/tmp"}},
		{"LIST ", List{Path: ""}},
		{"LIST  two spaces", List{Path: " two spaces"}},
		{"GET a b.txt", Get{Remote: "a b.txt"}},
		{"GET a\\ b", Get{Remote: "a\\ b"}},
		{"PUT x.bin", Put{Remote: "x.bin"}},
	}

	for _, tc := range tcs {
		cmd, err := ParseWire([]byte(tc.frame))
		require.Nil(t, err, "frame: %q", tc.frame)
		require.Equal(t, tc.expect, cmd, "frame: %q", tc.frame)
	}
}

func TestParseWireErrors(t *testing.T) {
	frames := []string{
		"",
		"done",
		"DONE ",
		"DONEX",
		"LIST",
		"list /tmp",
		"GET",
		"get a",
		"PUTx",
		"ERROR nope",
	}

	for _, frame := range frames {
		cmd, err := ParseWire([]byte(frame))
		require.Nil(t, cmd, "frame: %q", frame)
		require.True(t, IsParseError(err), "frame: %q", frame)
	}
}

func TestWireRoundTrip(t *testing.T) {
	cmds := []Command{
		Done{},
		List{Path: "/tmp"},
		Get{Remote: "some file.txt"},
		Put{Remote: "upload.bin"},
	}

	for _, cmd := range cmds {
		parsed, err := ParseWire([]byte(cmd.Wire()))
		require.Nil(t, err)
		require.Equal(t, cmd, parsed)
	}
}

func TestWireDropsLocalPath(t *testing.T) {
	require.Equal(t, "GET remote", Get{Remote: "remote", Local: "local"}.Wire())
	require.Equal(t, "PUT remote", Put{Remote: "remote", Local: "local"}.Wire())
}

func TestParseInputEmpty(t *testing.T) {
	for _, line := range []string{"", "   ", "\t\n"} {
		cmd, err := ParseInput(line)
		require.Nil(t, cmd)
		require.Equal(t, ErrEmptyInput, err)
		require.True(t, IsParseError(err))
	}
}
