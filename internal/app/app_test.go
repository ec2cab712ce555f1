package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/wordprofile/internal/config"
	"github.com/patric-chuzhbe/wordprofile/internal/db/jsondb"
	"github.com/patric-chuzhbe/wordprofile/internal/models"
	"github.com/patric-chuzhbe/wordprofile/internal/session"
)

func TestGetAvailableStorageType(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want int
	}{
		{name: "dsn wins", cfg: config.Config{DatabaseDSN: "postgres://x", DBFileName: "profile.json"}, want: models.StorageTypePostgresql},
		{name: "file", cfg: config.Config{DBFileName: "profile.json"}, want: models.StorageTypeFile},
		{name: "memory", cfg: config.Config{}, want: models.StorageTypeMemory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getAvailableStorageType(&tt.cfg))
		})
	}
}

func TestNewRestoresCachedUserID(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "profile.json")
	db, err := jsondb.New(fileName)
	require.NoError(t, err)
	require.NoError(t, db.Set(context.Background(), models.KeyUserID, "cached-id"))
	require.NoError(t, db.Close())

	t.Setenv("FILE_STORAGE_PATH", fileName)
	app, err := New(config.WithDisableFlagsParsing(true))
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, "cached-id", app.Store().Profile().UserID)
	assert.Equal(t, models.StatusIdle, app.Store().Status())
}

func TestNewRemembersConfiguredToken(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, session.Claims{UserID: "token-id"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	t.Setenv("AUTH_TOKEN", token)
	app, err := New(config.WithArgs([]string{"-f", ""}))
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, "token-id", app.Store().Profile().UserID)
	cachedToken, err := app.Sessions().Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, token, cachedToken)
}

func TestNewRejectsBrokenToken(t *testing.T) {
	t.Setenv("AUTH_TOKEN", "not-a-jwt")

	_, err := New(config.WithArgs([]string{"-f", ""}))

	assert.Error(t, err)
}
