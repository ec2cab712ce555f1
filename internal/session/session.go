// Package session keeps the signed-in user's id and API token in the durable
// key-value store and ends the session on logout.
package session

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/wordprofile/internal/logger"
	"github.com/patric-chuzhbe/wordprofile/internal/models"
)

type keyValueKeeper interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Claims are the words API token claims the client cares about.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// Manager is the session collaborator of the profile store.
type Manager struct {
	db keyValueKeeper
}

// New creates a Manager on top of db.
func New(db keyValueKeeper) *Manager {
	return &Manager{
		db: db,
	}
}

// UserID returns the cached user id. When none is cached it falls back to the
// id claim of the cached token; an empty string means nobody is signed in.
func (m *Manager) UserID(ctx context.Context) (string, error) {
	userID, found, err := m.db.Get(ctx, models.KeyUserID)
	if err != nil {
		return "", fmt.Errorf("in internal/session/session.go/UserID(): error while `m.db.Get()` calling: %w", err)
	}
	if found && userID != "" {
		return userID, nil
	}

	token, err := m.Token(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", nil
	}

	userID, err = UserIDFromToken(token)
	if err != nil {
		logger.Log.Debugln("Error calling the `UserIDFromToken()`: ", zap.Error(err))
		return "", nil
	}

	return userID, nil
}

// Token returns the cached API token, or an empty string.
func (m *Manager) Token(ctx context.Context) (string, error) {
	token, _, err := m.db.Get(ctx, models.KeyToken)
	if err != nil {
		return "", fmt.Errorf("in internal/session/session.go/Token(): error while `m.db.Get()` calling: %w", err)
	}

	return token, nil
}

// Remember caches the user id and the token. An empty token forgets the
// cached one, so it never goes out with another user's requests.
func (m *Manager) Remember(ctx context.Context, userID, token string) error {
	if err := m.db.Set(ctx, models.KeyUserID, userID); err != nil {
		return fmt.Errorf("in internal/session/session.go/Remember(): error while `m.db.Set()` calling: %w", err)
	}
	if token == "" {
		if err := m.db.Delete(ctx, models.KeyToken); err != nil {
			return fmt.Errorf("in internal/session/session.go/Remember(): error while `m.db.Delete()` calling: %w", err)
		}
		return nil
	}
	if err := m.db.Set(ctx, models.KeyToken, token); err != nil {
		return fmt.Errorf("in internal/session/session.go/Remember(): error while `m.db.Set()` calling: %w", err)
	}

	return nil
}

// Logout forgets both the user id and the token.
func (m *Manager) Logout(ctx context.Context) error {
	for _, key := range []string{models.KeyUserID, models.KeyToken} {
		if err := m.db.Delete(ctx, key); err != nil {
			return fmt.Errorf("in internal/session/session.go/Logout(): error while `m.db.Delete()` calling: %w", err)
		}
	}

	return nil
}

// UserIDFromToken reads the id claim without verifying the signature: the
// client has no key, the server verifies the token on every call.
func UserIDFromToken(tokenString string) (string, error) {
	claims := &Claims{}
	_, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
	if err != nil {
		return "", err
	}
	if claims.UserID == "" {
		return "", fmt.Errorf("token has no id claim")
	}

	return claims.UserID, nil
}
