package jsondb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/wordprofile/internal/models"
)

func Test(t *testing.T) {
	t.Run("The base jsondb package test", func(t *testing.T) {
		testDBFileName := filepath.Join(t.TempDir(), "db_test.json")

		theStorage, err := New(testDBFileName)
		require.NoError(t, err)
		require.NotNil(t, theStorage)

		_, found, err := theStorage.Get(context.Background(), models.KeyUserID)
		require.NoError(t, err)
		assert.False(t, found)

		err = theStorage.Set(context.Background(), models.KeyUserID, "5f9f1c")
		assert.NoError(t, err, "The `theStorage.Set()` should not return error")

		value, found, err := theStorage.Get(context.Background(), models.KeyUserID)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "5f9f1c", value)

		err = theStorage.Ping(context.Background())
		assert.NoError(t, err, "The jsondb.Ping() should not return error")

		err = theStorage.Close()
		assert.NoError(t, err, "The jsondb.Close() should not return error")

		reopened, err := New(testDBFileName)
		require.NoError(t, err)
		value, found, err = reopened.Get(context.Background(), models.KeyUserID)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "5f9f1c", value, "the value should survive reopening")

		err = reopened.Delete(context.Background(), models.KeyUserID)
		require.NoError(t, err)
		err = reopened.Delete(context.Background(), "never-set")
		require.NoError(t, err)

		again, err := New(testDBFileName)
		require.NoError(t, err)
		_, found, err = again.Get(context.Background(), models.KeyUserID)
		require.NoError(t, err)
		assert.False(t, found, "the deletion should be flushed right away")
	})

	t.Run("broken file", func(t *testing.T) {
		testDBFileName := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(testDBFileName, []byte("{not json"), 0600))

		_, err := New(testDBFileName)
		assert.Error(t, err)
	})
}
