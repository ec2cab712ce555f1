// Package store is the client-side state container of the signed-in user's
// profile, statistics and settings.
//
// Actions (exported Controller methods that talk to the words API) are the only
// way to change remote data; they commit mutations, the only code that writes
// State, and getters return copies of it. Failures never propagate to callers:
// they end up in Status and, for most actions, in an alert.
package store

import (
	"maps"

	"github.com/patric-chuzhbe/wordprofile/internal/models"
)

// State is everything the container holds.
type State struct {
	Status     models.Status     `json:"status"`
	Profile    models.Profile    `json:"profile"`
	Statistics models.Statistics `json:"statistics"`
	Settings   models.Settings   `json:"settings"`
}

// DefaultStatistics are the statistics before the server has been asked.
func DefaultStatistics() models.Statistics {
	return models.Statistics{
		LearnedWords: 500,
		Optional:     map[string]any{},
	}
}

// DefaultSettings are the settings pushed to the server when it has none.
func DefaultSettings() models.Settings {
	return models.Settings{
		WordsPerDay: 50,
		Optional: map[string]any{
			"showWordTranslate":        true,
			"showTranscription":        true,
			"showImage":                true,
			"showTextMeaning":          true,
			"showTextMeaningTranslate": true,
			"showAudioMeaning":         true,
			"showTextExample":          true,
			"showTextExampleTranslate": true,
			"showAudioExample":         true,
			"choiceWords":              1,
		},
	}
}

func newState(cachedUserID string) State {
	return State{
		Status: models.StatusIdle,
		Profile: models.Profile{
			UserID: cachedUserID,
		},
		Statistics: DefaultStatistics(),
		Settings:   DefaultSettings(),
	}
}

func (s State) clone() State {
	s.Profile = cloneProfile(s.Profile)
	s.Statistics = cloneStatistics(s.Statistics)
	s.Settings = cloneSettings(s.Settings)

	return s
}

func cloneProfile(p models.Profile) models.Profile {
	p.Fields = maps.Clone(p.Fields)
	return p
}

func cloneStatistics(s models.Statistics) models.Statistics {
	s.Optional = maps.Clone(s.Optional)
	s.Extra = maps.Clone(s.Extra)
	return s
}

func cloneSettings(s models.Settings) models.Settings {
	s.Optional = maps.Clone(s.Optional)
	return s
}
