package localfs

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/sahib/zftp/util/testutil"
	"github.com/stretchr/testify/require"
)

func withFS(t *testing.T, fn func(fs *FS, dir string)) {
	dir := testutil.TempDir(t)
	defer testutil.Remover(t, dir)

	fn(New(dir), dir)
}

func TestList(t *testing.T) {
	withFS(t, func(fs *FS, dir string) {
		for _, name := range []string{"b", "a", "Z", "c.txt"} {
			require.Nil(t, ioutil.WriteFile(filepath.Join(dir, name), nil, 0644))
		}

		require.Nil(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

		names, err := fs.List(".")
		require.Nil(t, err)
		require.Equal(t, []string{".", "..", "Z", "a", "b", "c.txt", "sub"}, names)

		names, err = fs.List(dir)
		require.Nil(t, err)
		require.Len(t, names, 7)

		names, err = fs.List("sub")
		require.Nil(t, err)
		require.Equal(t, []string{".", ".."}, names)
	})
}

func TestListMissing(t *testing.T) {
	withFS(t, func(fs *FS, dir string) {
		_, err := fs.List("nope")
		require.True(t, os.IsNotExist(err))
	})
}

func TestFileAccess(t *testing.T) {
	withFS(t, func(fs *FS, dir string) {
		path := testutil.CreateFile(t, dir, 1024)
		name := filepath.Base(path)

		size, err := fs.Size(name)
		require.Nil(t, err)
		require.Equal(t, int64(1024), size)

		fd, err := fs.Open(path)
		require.Nil(t, err)
		data, err := ioutil.ReadAll(fd)
		require.Nil(t, err)
		require.Nil(t, fd.Close())
		require.Equal(t, testutil.CreateDummyBuf(1024), data)

		w, err := fs.Create(name)
		require.Nil(t, err)
		_, err = w.Write([]byte("hello"))
		require.Nil(t, err)
		require.Nil(t, w.Close())

		size, err = fs.Size(name)
		require.Nil(t, err)
		require.Equal(t, int64(5), size)

		require.Nil(t, fs.Remove(name))
		_, err = fs.Size(name)
		require.True(t, os.IsNotExist(err))
	})
}

func TestDirectoryIsNoFile(t *testing.T) {
	withFS(t, func(fs *FS, dir string) {
		_, err := fs.Size(".")
		require.NotNil(t, err)
		require.Contains(t, err.Error(), "is a directory")

		_, err = fs.Open(".")
		require.NotNil(t, err)
	})
}

func TestCreateInMissingDir(t *testing.T) {
	withFS(t, func(fs *FS, dir string) {
		_, err := fs.Create("missing/file")
		require.True(t, os.IsNotExist(err))
	})
}
