package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Geekthedev/korra/domain"
)

func TestCreateLoadDelete(t *testing.T) {
	s := New(t.TempDir())

	id, err := s.Create("comp-1", []byte("payload"))
	assert.NoError(t, err)

	data, err := s.Load(id)
	assert.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	list := s.List("comp-1")
	assert.Len(t, list, 1)
	assert.Equal(t, id, list[0].SnapshotID)

	assert.True(t, s.Delete(id))
	_, err = s.Load(id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoadMissingReturnsNotFound(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Load("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteMissingReturnsFalse(t *testing.T) {
	s := New(t.TempDir())
	assert.False(t, s.Delete("missing"))
}

func TestListOrderMatchesInsertion(t *testing.T) {
	s := New(t.TempDir())
	id1, _ := s.Create("comp-1", []byte("a"))
	id2, _ := s.Create("comp-1", []byte("b"))

	list := s.List("comp-1")
	assert.Equal(t, []string{id1, id2}, []string{list[0].SnapshotID, list[1].SnapshotID})
}

func TestLoadIsComponentAgnostic(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.Create("comp-a", []byte("x"))
	assert.NoError(t, err)

	_, err = s.Create("comp-b", []byte("y"))
	assert.NoError(t, err)

	data, err := s.Load(id)
	assert.NoError(t, err)
	assert.Equal(t, "x", string(data))
}
