package store

import (
	"path/filepath"
	"testing"

	"EasyVis/shared/scenedata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "saves", "scenes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	s := openTemp(t)
	want := scenedata.Generate(25)

	require.NoError(t, s.Put(3, want))

	got, err := s.Get(3)
	require.NoError(t, err)
	assert.Equal(t, want.Count(), got.Count())
	assert.Equal(t, want.Names(), got.Names())
}

func TestGetMissing(t *testing.T) {
	s := openTemp(t)

	_, err := s.Get(1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutReplaces(t *testing.T) {
	s := openTemp(t)

	require.NoError(t, s.Put(1, scenedata.Generate(10)))
	require.NoError(t, s.Put(1, scenedata.Generate(40)))

	got, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, scenedata.Generate(40).Count(), got.Count())
}

func TestPutRejectsInvalid(t *testing.T) {
	s := openTemp(t)
	bad := &scenedata.Scene{Structures: map[string][]scenedata.Record{
		"a": {{Scale: []float64{1, 2}}},
	}}

	assert.ErrorIs(t, s.Put(1, bad), scenedata.ErrMalformed)
	_, err := s.Get(1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAndList(t *testing.T) {
	s := openTemp(t)
	for _, id := range []int{5, 1, 3} {
		require.NoError(t, s.Put(id, scenedata.Generate(5)))
	}

	ids, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, ids)

	require.NoError(t, s.Delete(3))
	assert.ErrorIs(t, s.Delete(3), ErrNotFound)

	ids, err = s.List()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5}, ids)
}

func TestListEmpty(t *testing.T) {
	s := openTemp(t)

	ids, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotNil(t, ids)
}

func TestReopenKeepsScenes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(7, scenedata.Generate(5)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(7)
	assert.NoError(t, err)
}

func TestOpenRecordsFormatVersion(t *testing.T) {
	s := openTemp(t)

	v, err := s.FormatVersion()
	require.NoError(t, err)
	assert.Equal(t, CurrentFormatVersion, v)
}

func TestOpenRejectsNewerFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.db.Save(&StoreMetadata{Key: formatVersionKey, Value: "99"}).Error)
	require.NoError(t, s.Close())

	_, err = Open(path)
	assert.ErrorIs(t, err, ErrNewerFormat)
}

func TestOpenFailsOnDirectory(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}
