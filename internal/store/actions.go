package store

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/patric-chuzhbe/wordprofile/internal/apiclient"
	"github.com/patric-chuzhbe/wordprofile/internal/logger"
	"github.com/patric-chuzhbe/wordprofile/internal/metrics"
	"github.com/patric-chuzhbe/wordprofile/internal/models"
)

// Action names used in logs and metrics.
const (
	ActionFetchUser           = "fetch_user"
	ActionUpdateEmailPassword = "update_email_password"
	ActionDeleteUser          = "delete_user"
	ActionSignUp              = "signup"
	ActionGetSetStatistics    = "get_set_statistics"
	ActionGetSetSettings      = "get_set_settings"
	ActionCheckSettings       = "check_settings"
)

// Alert texts.
const (
	MessageProfileDeleted  = "Your profile was successfully deleted!"
	MessageSignUpSucceeded = "Registration successful, please sign in!"
	MessageDefaultSettings = "Default settings applied."
	MessageNoResponse      = "The server did not respond, please try again later."
)

// FetchUser loads the profile of userID, or of the current user when userID
// is empty. On failure the profile is left untouched.
func (c *Controller) FetchUser(ctx context.Context, userID string) {
	c.commit(func(s *State) {
		s.request(models.StatusLoading)
	})
	if userID == "" {
		userID = c.Profile().UserID
	}

	user, err := c.api.GetUser(ctx, userID)
	if err != nil {
		c.failWithData(ctx, ActionFetchUser, err)
		return
	}

	logger.Log.Debugw("received user data", "userId", user.ID)
	c.commit(func(s *State) {
		s.setData(*user)
		s.success()
	})
	metrics.ObserveAction(ActionFetchUser, metrics.OutcomeSuccess)
}

// UpdateEmailPassword sends the email and password currently in the profile.
func (c *Controller) UpdateEmailPassword(ctx context.Context) {
	profile := c.Profile()
	credentials := models.Credentials{
		Email:    profile.Email,
		Password: profile.Password,
	}
	c.commit(func(s *State) {
		s.request(models.StatusLoading)
	})

	user, err := c.api.UpdateUser(ctx, profile.UserID, credentials)
	if err != nil {
		c.failWithData(ctx, ActionUpdateEmailPassword, err)
		return
	}

	logger.Log.Debugw("updated user data", "userId", user.ID)
	c.commit(func(s *State) {
		s.setData(*user)
		s.success()
	})
	metrics.ObserveAction(ActionUpdateEmailPassword, metrics.OutcomeSuccess)
}

// DeleteUser removes the user on the server and logs out locally. The local
// logout happens even when the server call fails.
func (c *Controller) DeleteUser(ctx context.Context) {
	c.commit(func(s *State) {
		s.request(models.StatusLoading)
	})

	outcome := metrics.OutcomeSuccess
	err := c.api.DeleteUser(ctx, c.Profile().UserID)
	if err != nil {
		c.failWithData(ctx, ActionDeleteUser, err)
		outcome = metrics.OutcomeFallback
	}

	c.commit(func(s *State) {
		s.logout()
		s.success()
	})
	if err := c.session.Logout(ctx); err != nil {
		logger.Log.Errorln("Error calling the `c.session.Logout()`: ", zap.Error(err))
	}
	c.alerter.Alert(ctx, models.Alert{
		Status:  models.AlertInfo,
		Message: MessageProfileDeleted,
	})
	metrics.ObserveAction(ActionDeleteUser, outcome)
}

// SignUp creates a user from the email and password in the profile.
func (c *Controller) SignUp(ctx context.Context) {
	c.commit(func(s *State) {
		s.request(models.StatusLoading)
	})
	profile := c.Profile()
	credentials := models.Credentials{
		Email:    profile.Email,
		Password: profile.Password,
	}

	user, err := c.api.CreateUser(ctx, credentials)
	if err != nil {
		c.failWithData(ctx, ActionSignUp, err)
		return
	}

	c.commit(func(s *State) {
		s.setData(*user)
	})
	c.alerter.Alert(ctx, models.Alert{
		Status: models.AlertSuccess,
		Data:   MessageSignUpSucceeded,
	})
	c.commit(func(s *State) {
		s.success()
	})
	metrics.ObserveAction(ActionSignUp, metrics.OutcomeSuccess)
}

// GetSetStatistics reads the statistics from the server, or with MethodPut
// sends the local ones; either way the server's answer replaces them.
func (c *Controller) GetSetStatistics(ctx context.Context, method models.Method) {
	c.commit(func(s *State) {
		s.request(models.StatusLoading)
	})
	userID := c.Profile().UserID

	var (
		statistics *models.Statistics
		err        error
	)
	if method == models.MethodPut {
		statistics, err = c.api.PutStatistics(ctx, userID, c.Statistics())
	} else {
		statistics, err = c.api.GetStatistics(ctx, userID)
	}
	if err != nil {
		c.commit(func(s *State) {
			s.fail(models.StatusError)
		})
		c.alerter.Alert(ctx, models.Alert{
			Status:  models.AlertError,
			Message: formatErrorMessage(err),
		})
		metrics.ObserveAction(ActionGetSetStatistics, metrics.OutcomeError)
		return
	}

	logger.Log.Debugw("received statistics", "method", method, "learnedWords", statistics.LearnedWords)
	c.commit(func(s *State) {
		s.setStatistics(*statistics)
		s.success()
	})
	metrics.ObserveAction(ActionGetSetStatistics, metrics.OutcomeSuccess)
}

// GetSetSettings reads the settings from the server, or with MethodPut sends
// the local ones. Unlike GetSetStatistics, failures are swallowed: no alert is
// raised and Status keeps its loading value.
func (c *Controller) GetSetSettings(ctx context.Context, method models.Method) {
	c.commit(func(s *State) {
		s.request(models.StatusLoading)
	})
	userID := c.Profile().UserID

	var (
		settings *models.ServerSettings
		err      error
	)
	if method == models.MethodPut {
		settings, err = c.api.PutSettings(ctx, userID, c.Settings())
	} else {
		settings, err = c.api.GetSettings(ctx, userID)
	}
	if err != nil {
		logger.Log.Debugln("Swallowed error of the settings request: ", zap.Error(err))
		metrics.ObserveAction(ActionGetSetSettings, metrics.OutcomeSwallowed)
		return
	}

	c.commit(func(s *State) {
		s.setServerSettings(*settings)
		s.success()
	})
	metrics.ObserveAction(ActionGetSetSettings, metrics.OutcomeSuccess)
}

// CheckSettings adopts the server settings when they are complete and pushes
// the local ones otherwise. It does not touch Status unless it has to push.
func (c *Controller) CheckSettings(ctx context.Context) {
	settings, err := c.api.GetSettings(ctx, c.Profile().UserID)
	if err != nil {
		logger.Log.Debugln("Error calling the `c.api.GetSettings()`: ", zap.Error(err))
		c.GetSetSettings(ctx, models.MethodPut)
		c.alerter.Alert(ctx, models.Alert{
			Status: models.AlertInfo,
			Data:   MessageDefaultSettings,
		})
		metrics.ObserveAction(ActionCheckSettings, metrics.OutcomeFallback)
		return
	}

	if !settings.IsComplete() {
		logger.Log.Debugln("server settings are incomplete, pushing local ones")
		c.GetSetSettings(ctx, models.MethodPut)
		metrics.ObserveAction(ActionCheckSettings, metrics.OutcomeFallback)
		return
	}

	c.commit(func(s *State) {
		s.setServerSettings(*settings)
	})
	metrics.ObserveAction(ActionCheckSettings, metrics.OutcomeSuccess)
}

// failWithData marks the error and forwards the server payload as an alert.
func (c *Controller) failWithData(ctx context.Context, action string, err error) {
	c.commit(func(s *State) {
		s.fail(models.StatusError)
	})
	c.alerter.Alert(ctx, models.Alert{
		Status: models.AlertError,
		Data:   errorData(err),
	})
	metrics.ObserveAction(action, metrics.OutcomeError)
}

// errorData is the server's response body, or MessageNoResponse when no
// response arrived.
func errorData(err error) string {
	var responseError *apiclient.ResponseError
	if errors.As(err, &responseError) {
		return responseError.Body
	}

	logger.Log.Debugln("Request failed without a response: ", zap.Error(err))
	return MessageNoResponse
}

func formatErrorMessage(err error) string {
	var responseError *apiclient.ResponseError
	if errors.As(err, &responseError) {
		return responseError.StatusText() + ": " + responseError.Body
	}

	logger.Log.Debugln("Request failed without a response: ", zap.Error(err))
	return MessageNoResponse
}
