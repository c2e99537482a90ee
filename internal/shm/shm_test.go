package shm_test

import (
	"testing"

	"deedles.dev/wlr/internal/shm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestSealedMap(t *testing.T) {
	file, err := shm.Create("test")
	require.NoError(t, err)
	defer file.Close()

	_, err = file.WriteString("shared")
	require.NoError(t, err)
	require.NoError(t, shm.Seal(file))

	_, err = file.WriteString(" more")
	assert.Error(t, err)
	assert.Error(t, file.Truncate(0))

	mmap, err := shm.Map(file, 6, unix.PROT_READ)
	require.NoError(t, err)
	defer mmap.Unmap()
	assert.Equal(t, "shared", string(mmap))
}
