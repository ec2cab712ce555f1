package alert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/patric-chuzhbe/wordprofile/internal/models"
)

func TestFeedKeepsMostRecent(t *testing.T) {
	feed := NewFeed(2)
	ctx := context.Background()

	feed.Alert(ctx, models.Alert{Status: models.AlertInfo, Message: "one"})
	feed.Alert(ctx, models.Alert{Status: models.AlertError, Data: "two"})
	feed.Alert(ctx, models.Alert{Status: models.AlertSuccess, Data: "three"})

	assert.Equal(t, []models.Alert{
		{Status: models.AlertError, Data: "two"},
		{Status: models.AlertSuccess, Data: "three"},
	}, feed.Recent())

	assert.Equal(t, []models.Alert{
		{Status: models.AlertError, Data: "two"},
	}, feed.Recent(models.AlertError, models.AlertInfo))

	drained := feed.Drain()
	assert.Len(t, drained, 2)
	assert.Empty(t, feed.Recent())
}

func TestMultiForwardsToAll(t *testing.T) {
	first := NewFeed(5)
	second := NewFeed(5)
	alerter := Multi{LogAlerter{}, first, second}

	alerter.Alert(context.Background(), models.Alert{Status: models.AlertInfo, Message: "hello"})

	assert.Len(t, first.Recent(), 1)
	assert.Len(t, second.Recent(), 1)
}
