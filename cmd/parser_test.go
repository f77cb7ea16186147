package cmd

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sahib/zftp/util/testutil"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (string, error) {
	out := &bytes.Buffer{}
	app := newApp(out)
	err := app.Run(append([]string{"zftp"}, args...))
	return out.String(), err
}

func withConfigPath(t *testing.T, fn func(path string)) {
	dir := testutil.TempDir(t)
	defer testutil.Remover(t, dir)

	fn(filepath.Join(dir, "sub", "config.yml"))
}

func TestConfigList(t *testing.T) {
	withConfigPath(t, func(path string) {
		out, err := runApp(t, "--config", path, "config")
		require.Nil(t, err)
		require.Contains(t, out, "# version: 0")
		require.Contains(t, out, "port: 49152")
		require.Contains(t, out, "chunk_size: 8192")
	})
}

func TestConfigSetGet(t *testing.T) {
	withConfigPath(t, func(path string) {
		_, err := runApp(t, "--config", path, "config", "set", "client.port", "1234")
		require.Nil(t, err)

		data, err := ioutil.ReadFile(path)
		require.Nil(t, err)
		require.Contains(t, string(data), "port: 1234")

		out, err := runApp(t, "--config", path, "config", "get", "client.port")
		require.Nil(t, err)
		require.Equal(t, "1234\n", out)

		_, err = runApp(t, "--config", path, "config", "get", "client.nope")
		require.Equal(t, BadArgs, exitCodeOf(err))

		_, err = runApp(t, "--config", path, "config", "set", "client.port", "many")
		require.Equal(t, BadArgs, exitCodeOf(err))
	})
}

func TestConnectNeedsHost(t *testing.T) {
	_, err := runApp(t, "connect")
	require.Equal(t, BadArgs, exitCodeOf(err))
}

func TestConnectRefused(t *testing.T) {
	withConfigPath(t, func(path string) {
		// Port 1 is reserved and nothing listens there in a test environment.
		_, err := runApp(t, "--config", path, "connect", "--port", "1", "127.0.0.1")
		require.Equal(t, ConnectionFailed, exitCodeOf(err))
	})
}

func TestVersion(t *testing.T) {
	out, err := runApp(t, "version")
	require.Nil(t, err)
	require.True(t, strings.HasPrefix(out, "v"))
}

func TestSuggestions(t *testing.T) {
	app := newApp(ioutil.Discard)

	similars := findSimilarCommands("serv", app.Commands)
	require.NotEmpty(t, similars)
	require.Equal(t, "serve", similars[0].name)

	similars = findSimilarCommands("daemon", app.Commands)
	require.Len(t, similars, 1)
	require.Equal(t, "serve", similars[0].name)

	require.Empty(t, findSimilarCommands("xyzzy", app.Commands))
}

func TestExitCodes(t *testing.T) {
	require.Equal(t, Success, exitCodeOf(nil))
	require.Equal(t, ConnectionFailed, exitCodeOf(ExitCode{ConnectionFailed, "nope"}))
	require.Equal(t, UnknownError, exitCodeOf(bytes.ErrTooLarge))
}
