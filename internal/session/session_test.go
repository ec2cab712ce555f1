package session

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/wordprofile/internal/db/memorystorage"
	"github.com/patric-chuzhbe/wordprofile/internal/mockstorage"
	"github.com/patric-chuzhbe/wordprofile/internal/models"
)

func buildToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: userID})
	tokenString, err := token.SignedString([]byte("server-side-secret"))
	require.NoError(t, err)

	return tokenString
}

func TestRememberAndLogout(t *testing.T) {
	db, err := memorystorage.New()
	require.NoError(t, err)
	manager := New(db)
	ctx := context.Background()

	userID, err := manager.UserID(ctx)
	require.NoError(t, err)
	assert.Empty(t, userID)

	require.NoError(t, manager.Remember(ctx, "5f9f1c", "some-token"))

	userID, err = manager.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "5f9f1c", userID)

	token, err := manager.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "some-token", token)

	require.NoError(t, manager.Logout(ctx))

	userID, err = manager.UserID(ctx)
	require.NoError(t, err)
	assert.Empty(t, userID)
	token, err = manager.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestUserIDFallsBackToTokenClaim(t *testing.T) {
	db, err := memorystorage.New()
	require.NoError(t, err)
	require.NoError(t, db.Set(context.Background(), models.KeyToken, buildToken(t, "from-token")))

	userID, err := New(db).UserID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-token", userID)
}

func TestUserIDIgnoresGarbageToken(t *testing.T) {
	db, err := memorystorage.New()
	require.NoError(t, err)
	require.NoError(t, db.Set(context.Background(), models.KeyToken, "not-a-jwt"))

	userID, err := New(db).UserID(context.Background())
	require.NoError(t, err)
	assert.Empty(t, userID)
}

func TestUserIDFromToken(t *testing.T) {
	userID, err := UserIDFromToken(buildToken(t, "abc"))
	require.NoError(t, err)
	assert.Equal(t, "abc", userID)

	_, err = UserIDFromToken(buildToken(t, ""))
	assert.Error(t, err)
}

func TestRememberWithoutTokenForgetsTheOldOne(t *testing.T) {
	db, err := memorystorage.New()
	require.NoError(t, err)
	manager := New(db)
	ctx := context.Background()

	require.NoError(t, manager.Remember(ctx, "user-a", "token-a"))
	require.NoError(t, manager.Remember(ctx, "user-b", ""))

	userID, err := manager.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-b", userID)
	token, err := manager.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestStorageErrors(t *testing.T) {
	storageErr := errors.New("disk is gone")

	db := &mockstorage.StorageMock{}
	db.On("Get", mock.Anything, models.KeyUserID).Return("", false, storageErr)
	db.On("Delete", mock.Anything, models.KeyUserID).Return(storageErr)
	db.On("Set", mock.Anything, models.KeyUserID, "42").Return(nil)
	db.On("Set", mock.Anything, models.KeyToken, "t").Return(storageErr)

	manager := New(db)

	_, err := manager.UserID(context.Background())
	assert.ErrorIs(t, err, storageErr)

	err = manager.Logout(context.Background())
	assert.ErrorIs(t, err, storageErr)

	err = manager.Remember(context.Background(), "42", "t")
	assert.ErrorIs(t, err, storageErr)

	db.AssertExpectations(t)
}
