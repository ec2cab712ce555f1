package store

import "github.com/patric-chuzhbe/wordprofile/internal/models"

// nameField is the form key IsProfileLoaded looks at.
const nameField = "name"

// Snapshot returns a copy of the whole state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.state.clone()
}

// Status returns the request-cycle indicator.
func (c *Controller) Status() models.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.state.Status
}

// Profile returns a copy of the profile.
func (c *Controller) Profile() models.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return cloneProfile(c.state.Profile)
}

// IsProfileLoaded reports whether the profile has a name. No action sets a
// name; only SetFormField("name", ...) does.
func (c *Controller) IsProfileLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.state.Profile.Fields[nameField] != ""
}

// IsLoading reports whether a request is in flight.
func (c *Controller) IsLoading() bool {
	return c.Status() == models.StatusLoading
}

// Statistics returns a copy of the statistics.
func (c *Controller) Statistics() models.Statistics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return cloneStatistics(c.state.Statistics)
}

// Settings returns a copy of the settings.
func (c *Controller) Settings() models.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return cloneSettings(c.state.Settings)
}
