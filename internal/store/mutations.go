package store

import (
	"encoding/json"
	"math"

	"github.com/patric-chuzhbe/wordprofile/internal/models"
)

// Form keys that address Profile fields rather than Profile.Fields.
const (
	FieldUserID   = "userId"
	FieldEmail    = "email"
	FieldPassword = "password"
)

func (s *State) request(flag models.Status) {
	if flag == "" {
		flag = models.StatusLoading
	}
	s.Status = flag
}

func (s *State) success() {
	s.Status = models.StatusSuccess
	s.Profile.Password = ""
}

func (s *State) fail(flag models.Status) {
	if flag == "" {
		flag = models.StatusError
	}
	s.Status = flag
}

// setData never clears the email when the payload lacks one.
func (s *State) setData(payload models.UserResponse) {
	s.Profile.UserID = payload.ID
	if payload.Email != "" {
		s.Profile.Email = payload.Email
	}
}

func (s *State) logout() {
	s.Profile = models.Profile{}
}

func (s *State) setFormField(key, value string) {
	switch key {
	case FieldUserID:
		s.Profile.UserID = value
	case FieldEmail:
		s.Profile.Email = value
	case FieldPassword:
		s.Profile.Password = value
	default:
		if s.Profile.Fields == nil {
			s.Profile.Fields = map[string]string{}
		}
		s.Profile.Fields[key] = value
	}
}

func (s *State) setStatistics(statistics models.Statistics) {
	s.Statistics = cloneStatistics(statistics)
}

// setServerSettings keeps only wordsPerDay and optional of the server document.
func (s *State) setServerSettings(settings models.ServerSettings) {
	wordsPerDay := 0
	if settings.WordsPerDay != nil {
		wordsPerDay = *settings.WordsPerDay
	}
	s.Settings = models.Settings{
		WordsPerDay: wordsPerDay,
		Optional:    cloneSettings(models.Settings{Optional: settings.Optional}).Optional,
	}
}

// setSetting writes optional[key], or wordsPerDay when key is empty.
func (s *State) setSetting(key string, value any) error {
	if key == "" {
		wordsPerDay, ok := toWholeNumber(value)
		if !ok {
			return models.ErrInvalidSettingValue
		}
		s.Settings.WordsPerDay = wordsPerDay
		return nil
	}

	if !isFlagValue(value) {
		return models.ErrInvalidOptionalValue
	}
	if s.Settings.Optional == nil {
		s.Settings.Optional = map[string]any{}
	}
	s.Settings.Optional[key] = value

	return nil
}

func (s *State) setStatistic(key string, value any) error {
	if key == "" {
		learnedWords, ok := toNumber(value)
		if !ok {
			return models.ErrInvalidStatisticValue
		}
		s.Statistics.LearnedWords = learnedWords
		return nil
	}

	if value == nil {
		return models.ErrInvalidStatisticValue
	}
	if s.Statistics.Optional == nil {
		s.Statistics.Optional = map[string]any{}
	}
	s.Statistics.Optional[key] = value

	return nil
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		n, err := v.Float64()
		return n, err == nil
	}

	return 0, false
}

func toWholeNumber(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	}

	return 0, false
}

func isFlagValue(value any) bool {
	switch value.(type) {
	case bool, int, int32, int64, float64, json.Number:
		return true
	}

	return false
}
