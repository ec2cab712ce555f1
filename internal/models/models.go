// Package models holds the wire and state types shared between the API client,
// the profile store and the UI router.
package models

import (
	"encoding/json"
	"errors"
)

// Status is the request-cycle indicator of the profile store.
type Status string

const (
	StatusIdle    Status = ""
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Method selects between reading and overwriting a remote resource.
type Method int

const (
	MethodGet Method = iota
	MethodPut
)

// String returns the lower-case method name used in logs and the UI API.
func (m Method) String() string {
	if m == MethodPut {
		return "put"
	}

	return "get"
}

// ParseMethod maps "get"/"put" (any case is not accepted) to a Method.
// An empty string means MethodGet.
func ParseMethod(value string) (Method, error) {
	switch value {
	case "", "get":
		return MethodGet, nil
	case "put":
		return MethodPut, nil
	}

	return MethodGet, ErrUnknownMethod
}

// Profile is the authenticated user's identity subset held client-side.
type Profile struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Password string `json:"password"`

	// Fields keeps form keys other than userId/email/password.
	Fields map[string]string `json:"fields,omitempty"`
}

const (
	keyLearnedWords = "learnedWords"
	keyOptional     = "optional"
)

// Statistics is the per-user learning progress. It round-trips the server's
// document as is: top-level keys other than learnedWords and optional (the
// document id, for one) are kept in Extra and sent back on PUT.
type Statistics struct {
	LearnedWords float64
	Optional     map[string]any
	Extra        map[string]any
}

type statisticsFields struct {
	LearnedWords float64        `json:"learnedWords"`
	Optional     map[string]any `json:"optional"`
}

// MarshalJSON writes Extra inline next to learnedWords and optional.
func (s Statistics) MarshalJSON() ([]byte, error) {
	document := make(map[string]any, len(s.Extra)+2)
	for key, value := range s.Extra {
		document[key] = value
	}
	document[keyLearnedWords] = s.LearnedWords
	document[keyOptional] = s.Optional

	return json.Marshal(document)
}

// UnmarshalJSON reads learnedWords and optional and keeps every other key in
// Extra, which stays nil when there is none.
func (s *Statistics) UnmarshalJSON(data []byte) error {
	var fields statisticsFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var document map[string]any
	if err := json.Unmarshal(data, &document); err != nil {
		return err
	}
	delete(document, keyLearnedWords)
	delete(document, keyOptional)

	s.LearnedWords = fields.LearnedWords
	s.Optional = fields.Optional
	s.Extra = nil
	if len(document) > 0 {
		s.Extra = document
	}

	return nil
}

// Settings is the per-user training configuration.
type Settings struct {
	WordsPerDay int            `json:"wordsPerDay"`
	Optional    map[string]any `json:"optional"`
}

// ServerSettings is the settings document as the server returns it. Pointer and
// nil-able fields let callers tell a missing key from a zero value.
type ServerSettings struct {
	ID          string         `json:"id,omitempty"`
	WordsPerDay *int           `json:"wordsPerDay"`
	Optional    map[string]any `json:"optional"`
}

// IsComplete reports whether both a non-zero daily word count and an optional
// block are present.
func (s ServerSettings) IsComplete() bool {
	return s.WordsPerDay != nil && *s.WordsPerDay != 0 && s.Optional != nil
}

// Credentials is the request body of user creation and update.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UserResponse is the user document returned by the users endpoints.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// AlertStatus classifies a user-visible notification.
type AlertStatus string

const (
	AlertError   AlertStatus = "error"
	AlertInfo    AlertStatus = "info"
	AlertSuccess AlertStatus = "success"
)

// Alert is a user-visible notification. Data carries the raw server payload,
// Message a preformatted text; either may be empty.
type Alert struct {
	Status  AlertStatus `json:"status"`
	Data    string      `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// FormFieldRequest is the UI API body for writing a single profile key.
type FormFieldRequest struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

// SettingRequest is the UI API body for writing a single setting.
// An empty Key addresses wordsPerDay.
type SettingRequest struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// MethodRequest is the UI API body for the get/put actions.
type MethodRequest struct {
	Method string `json:"method" validate:"omitempty,oneof=get put"`
}

// FetchUserRequest is the UI API body for fetching a profile.
type FetchUserRequest struct {
	UserID string `json:"userId"`
}

// StatusResponse is the UI API view of the request-cycle state.
type StatusResponse struct {
	Status          Status `json:"status"`
	IsLoading       bool   `json:"isLoading"`
	IsProfileLoaded bool   `json:"isProfileLoaded"`
}

const (
	StorageTypeUnknown = iota
	StorageTypePostgresql
	StorageTypeFile
	StorageTypeMemory
)

// Keys of the durable key-value store.
const (
	KeyUserID = "userId"
	KeyToken  = "token"
)

var (
	ErrUnknownMethod         = errors.New("unknown method, expected get or put")
	ErrInvalidSettingValue   = errors.New("wordsPerDay must be a whole number")
	ErrNoUserID              = errors.New("no user id is known")
	ErrInvalidOptionalValue  = errors.New("optional setting must be a boolean or a number")
	ErrInvalidStatisticValue = errors.New("learnedWords must be a number and optional statistics must not be null")
)
