package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	if Clamp(-1, 0, 1) != 0 {
		t.Errorf("Clamp: -1 is not in [0, 1]")
	}

	if Clamp(+1, 0, 1) != 1 {
		t.Errorf("Clamp: +1 should be [0, 1]")
	}

	if Clamp(0, 0, 1) != 0 {
		t.Errorf("Clamp: 0 should be [0, 1]")
	}

	if Clamp(+2, 0, 1) != 1 {
		t.Errorf("Clamp: 2 was not cut")
	}
}

func TestMin64(t *testing.T) {
	require.Equal(t, int64(-1), Min64(-1, 1))
	require.Equal(t, int64(8192), Min64(1<<40, 8192))
}

type closeCounter struct {
	calls int
	err   error
}

func (cc *closeCounter) Close() error {
	cc.calls++
	return cc.err
}

func TestCloser(t *testing.T) {
	cc := &closeCounter{err: errors.New("nope")}
	Closer(cc)
	Closer(cc)
	require.Equal(t, 2, cc.calls)
}

func TestSimilar(t *testing.T) {
	keywords := []string{"done", "list", "get", "put"}

	require.Equal(t, []string{"list"}, Similar("lis", keywords, 0.6))
	require.Equal(t, []string{"get"}, Similar("gte", keywords, 0.6))
	require.Empty(t, Similar("xyzzy", keywords, 0.6))
	require.Equal(t, 1.0, LevenshteinRatio("", ""))
	require.Equal(t, 1.0, LevenshteinRatio("put", "put"))
}
