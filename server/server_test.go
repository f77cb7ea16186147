package server

import (
	"bytes"
	"context"
	"io/ioutil"
	"net"
	"path/filepath"
	"testing"

	"github.com/sahib/config"
	"github.com/sahib/zftp/command"
	"github.com/sahib/zftp/defaults"
	"github.com/sahib/zftp/localfs"
	"github.com/sahib/zftp/session"
	"github.com/sahib/zftp/util/testutil"
	"github.com/stretchr/testify/require"
)

func withServer(t *testing.T, fn func(srv *Server, root string)) {
	root := testutil.TempDir(t)
	defer testutil.Remover(t, root)

	cfg, err := config.Open(nil, defaults.Defaults, config.StrictnessPanic)
	require.Nil(t, err)
	require.Nil(t, cfg.SetInt("server.port", 0))
	require.Nil(t, cfg.SetString("server.bind", "127.0.0.1"))
	require.Nil(t, cfg.SetString("server.root", root))

	srv, err := BootServer(context.Background(), cfg)
	require.Nil(t, err)

	done := make(chan error, 1)
	go func() {
		done <- srv.Serve()
	}()

	fn(srv, root)

	srv.Quit()
	require.Nil(t, <-done)
}

func dial(t *testing.T, srv *Server, localDir string, out *bytes.Buffer) (*session.Client, net.Conn) {
	conn, err := net.Dial("tcp", srv.Addr().String())
	require.Nil(t, err)

	return session.NewClient(conn, session.ClientOptions{
		Local:  localfs.New(localDir),
		Output: out,
	}), conn
}

func TestServeSessions(t *testing.T) {
	withServer(t, func(srv *Server, root string) {
		require.Nil(t, ioutil.WriteFile(filepath.Join(root, "x"), []byte("xyz"), 0644))

		localDir := testutil.TempDir(t)
		defer testutil.Remover(t, localDir)

		outA, outB := &bytes.Buffer{}, &bytes.Buffer{}
		clA, connA := dial(t, srv, localDir, outA)
		defer connA.Close()
		clB, connB := dial(t, srv, localDir, outB)
		defer connB.Close()

		_, err := clA.Do(command.List{Path: "."})
		require.Nil(t, err)
		require.Equal(t, ".\n..\nx\n", outA.String())

		_, err = clB.Do(command.Get{Remote: "x", Local: "y"})
		require.Nil(t, err)

		data, err := ioutil.ReadFile(filepath.Join(localDir, "y"))
		require.Nil(t, err)
		require.Equal(t, []byte("xyz"), data)

		keepGoing, err := clA.Do(command.Done{})
		require.Nil(t, err)
		require.False(t, keepGoing)

		_, err = clB.Do(command.List{Path: "."})
		require.Nil(t, err)
		require.Equal(t, ".\n..\nx\n", outB.String())
	})
}

func TestGetAbsolutePath(t *testing.T) {
	withServer(t, func(srv *Server, root string) {
		path := testutil.CreateFile(t, root, 100)

		localDir := testutil.TempDir(t)
		defer testutil.Remover(t, localDir)

		cl, conn := dial(t, srv, localDir, &bytes.Buffer{})
		defer conn.Close()

		_, err := cl.Do(command.Get{Remote: path, Local: "copy"})
		require.Nil(t, err)

		data, err := ioutil.ReadFile(filepath.Join(localDir, "copy"))
		require.Nil(t, err)
		require.Equal(t, testutil.CreateDummyBuf(100), data)
	})
}

func TestReserveFds(t *testing.T) {
	require.Nil(t, reserveFds(1))
	require.Nil(t, reserveFds(100))
}
