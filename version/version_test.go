package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	oldRev, oldType := GitRev, ReleaseType
	defer func() {
		GitRev, ReleaseType = oldRev, oldType
	}()

	GitRev = "0123456789abcdef"
	ReleaseType = "beta"
	require.Equal(t, "v0.1.0-beta+0123456", String())

	major, minor, patch := Numbers()
	require.Equal(t, []int{0, 1, 0}, []int{major, minor, patch})
}
