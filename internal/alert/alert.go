// Package alert delivers user-visible notifications raised by the profile
// store: to the log, and to a bounded feed the UI polls.
package alert

import (
	"context"
	"sync"

	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/wordprofile/internal/logger"
	"github.com/patric-chuzhbe/wordprofile/internal/metrics"
	"github.com/patric-chuzhbe/wordprofile/internal/models"
)

// Alerter receives notifications.
type Alerter interface {
	Alert(ctx context.Context, alert models.Alert)
}

// LogAlerter writes every alert to the global logger.
type LogAlerter struct{}

// Alert logs alert at a level matching its status.
func (LogAlerter) Alert(_ context.Context, alert models.Alert) {
	metrics.AlertsTotal.WithLabelValues(string(alert.Status)).Inc()

	if alert.Status == models.AlertError {
		logger.Log.Warnw("alert", "status", alert.Status, "data", alert.Data, "message", alert.Message)
		return
	}
	logger.Log.Infow("alert", "status", alert.Status, "data", alert.Data, "message", alert.Message)
}

// Feed keeps the most recent alerts, oldest first.
type Feed struct {
	mu       sync.Mutex
	capacity int
	alerts   []models.Alert
}

// NewFeed returns a Feed holding at most capacity alerts.
func NewFeed(capacity int) *Feed {
	if capacity < 1 {
		capacity = 1
	}

	return &Feed{
		capacity: capacity,
		alerts:   make([]models.Alert, 0, capacity),
	}
}

// Alert appends alert, dropping the oldest one when full.
func (f *Feed) Alert(_ context.Context, alert models.Alert) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.alerts) == f.capacity {
		f.alerts = f.alerts[1:]
	}
	f.alerts = append(f.alerts, alert)
}

// Recent returns the kept alerts, optionally only those with one of statuses.
func (f *Feed) Recent(statuses ...models.AlertStatus) []models.Alert {
	f.mu.Lock()
	alerts := append([]models.Alert(nil), f.alerts...)
	f.mu.Unlock()

	if len(statuses) == 0 {
		return alerts
	}

	return funk.Filter(alerts, func(a models.Alert) bool {
		return funk.Contains(statuses, a.Status)
	}).([]models.Alert)
}

// Drain returns the kept alerts and empties the feed.
func (f *Feed) Drain() []models.Alert {
	f.mu.Lock()
	defer f.mu.Unlock()

	alerts := f.alerts
	f.alerts = make([]models.Alert, 0, f.capacity)

	return alerts
}

// Multi fans an alert out to several alerters in order.
type Multi []Alerter

// Alert forwards alert to every member.
func (m Multi) Alert(ctx context.Context, alert models.Alert) {
	for _, alerter := range m {
		alerter.Alert(ctx, alert)
	}
}
