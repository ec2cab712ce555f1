package store

import (
	"context"
	"sync"

	"github.com/patric-chuzhbe/wordprofile/internal/models"
)

type usersAPI interface {
	GetUser(ctx context.Context, userID string) (*models.UserResponse, error)
	UpdateUser(ctx context.Context, userID string, credentials models.Credentials) (*models.UserResponse, error)
	DeleteUser(ctx context.Context, userID string) error
	CreateUser(ctx context.Context, credentials models.Credentials) (*models.UserResponse, error)
}

type statisticsAPI interface {
	GetStatistics(ctx context.Context, userID string) (*models.Statistics, error)
	PutStatistics(ctx context.Context, userID string, statistics models.Statistics) (*models.Statistics, error)
}

type settingsAPI interface {
	GetSettings(ctx context.Context, userID string) (*models.ServerSettings, error)
	PutSettings(ctx context.Context, userID string, settings models.Settings) (*models.ServerSettings, error)
}

type wordsAPI interface {
	usersAPI
	statisticsAPI
	settingsAPI
}

// Alerter shows a notification to the user.
type Alerter interface {
	Alert(ctx context.Context, alert models.Alert)
}

// SessionManager ends the authenticated session.
type SessionManager interface {
	Logout(ctx context.Context) error
}

// Controller owns the State. The lock is held only while a mutation or getter
// runs, never across a network call, so concurrent actions race and the last
// response to arrive wins.
type Controller struct {
	mu      sync.RWMutex
	state   State
	api     wordsAPI
	alerter Alerter
	session SessionManager
}

// New creates a Controller whose profile starts with cachedUserID and
// everything else at defaults.
func New(api wordsAPI, alerter Alerter, session SessionManager, cachedUserID string) *Controller {
	return &Controller{
		state:   newState(cachedUserID),
		api:     api,
		alerter: alerter,
		session: session,
	}
}

// SetFormField writes a single profile key, e.g. from a sign-up form.
func (c *Controller) SetFormField(key, value string) {
	c.commit(func(s *State) {
		s.setFormField(key, value)
	})
}

// SetSetting writes optional[key], or wordsPerDay when key is empty. It does
// not reach the server; use GetSetSettings with MethodPut for that.
func (c *Controller) SetSetting(key string, value any) error {
	var err error
	c.commit(func(s *State) {
		err = s.setSetting(key, value)
	})

	return err
}

// SetStatistic writes optional[key], or learnedWords when key is empty. Like
// SetSetting it stays local until GetSetStatistics with MethodPut.
func (c *Controller) SetStatistic(key string, value any) error {
	var err error
	c.commit(func(s *State) {
		err = s.setStatistic(key, value)
	})

	return err
}

func (c *Controller) commit(mutation func(s *State)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	mutation(&c.state)
}
