package registry_test

import (
	"testing"

	"deedles.dev/wlr/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	name    string
	deleted int
}

func (e *entry) Delete() {
	e.deleted++
}

func TestStore(t *testing.T) {
	s := registry.New[*entry]()

	a := &entry{name: "a"}
	s.Add(0x10, a)
	got, ok := s.Get(0x10)
	require.True(t, ok)
	assert.Same(t, a, got)
	assert.Equal(t, 1, s.Len())

	_, ok = s.Get(0x20)
	assert.False(t, ok)

	assert.True(t, s.Delete(0x10))
	assert.False(t, s.Delete(0x10))
	assert.Equal(t, 1, a.deleted)
	assert.Equal(t, 0, s.Len())
}

func TestStoreReplace(t *testing.T) {
	s := registry.New[*entry]()

	old := &entry{name: "old"}
	s.Add(0x10, old)
	s.Add(0x10, &entry{name: "new"})

	assert.Equal(t, 1, old.deleted)
	got, _ := s.Get(0x10)
	assert.Equal(t, "new", got.name)
}

func TestStoreClear(t *testing.T) {
	s := registry.New[*entry]()

	entries := []*entry{{name: "a"}, {name: "b"}, {name: "c"}}
	for i, e := range entries {
		s.Add(uintptr(i+1), e)
	}

	snap := s.Snapshot()
	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Len(t, snap, 3)
	for _, e := range entries {
		assert.Equal(t, 1, e.deleted)
	}
}
