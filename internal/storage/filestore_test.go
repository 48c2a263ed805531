package storage

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-warn/internal/models"
)

func TestFileStoreSaveLoad(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	users := map[int64]*models.UserRecord{
		42: {
			Warn:    map[int64]int{-1001: 2},
			Ban:     models.NewIDSet(-1002),
			Waiting: models.NewIDSet(),
			Locked:  models.NewIDSet(),
		},
	}
	require.NoError(t, s.Save(CategoryUsers, users))

	_, err = os.Stat(s.Path(CategoryUsers) + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file must be renamed away")

	var loaded map[int64]*models.UserRecord
	ok, err := s.Load(CategoryUsers, &loaded)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, loaded, int64(42))
	assert.Equal(t, 2, loaded[42].Warn[-1001])
	assert.True(t, loaded[42].Ban.Has(-1002))
}

func TestFileStoreLoadMissing(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	configs := map[int64]models.GroupConfig{1: {Limit: 4}}
	ok, err := s.Load(CategoryConfigs, &configs)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 4, configs[1].Limit, "target must stay untouched")

	raw, err := s.ReadRaw(CategoryConfigs)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestFileStoreLoadCorrupt(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path(CategoryBad), []byte("{not json"), 0o644))

	var bad models.BadIDs
	_, err = s.Load(CategoryBad, &bad)
	assert.Error(t, err)
}

func TestFileStoreOverwrite(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(CategoryBad, models.BadIDs{Users: models.NewIDSet(1, 2)}))
	require.NoError(t, s.Save(CategoryBad, models.BadIDs{Users: models.NewIDSet(3)}))

	var bad models.BadIDs
	ok, err := s.Load(CategoryBad, &bad)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int64{3}, bad.Users.Slice())

	raw, err := s.ReadRaw(CategoryBad)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "data")
}
