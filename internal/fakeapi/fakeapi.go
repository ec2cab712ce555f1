// Package fakeapi is an in-memory chi implementation of the words API users,
// statistics and settings endpoints. Tests start it with httptest and point
// the API client at it; failures can be injected per route.
package fakeapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Route keys for failure injection and request counting.
const (
	RouteGetUser       = "GET /users/{id}"
	RoutePutUser       = "PUT /users/{id}"
	RouteDeleteUser    = "DELETE /users/{id}"
	RouteCreateUser    = "POST /users"
	RouteGetStatistics = "GET /users/{id}/statistics"
	RoutePutStatistics = "PUT /users/{id}/statistics"
	RouteGetSettings   = "GET /users/{id}/settings"
	RoutePutSettings   = "PUT /users/{id}/settings"
)

// Failure is an injected non-2xx answer.
type Failure struct {
	StatusCode int
	Body       string
}

// Request is what the fake API saw.
type Request struct {
	Route         string
	UserID        string
	Body          string
	Authorization string
}

type user struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"`
}

// API is the fake server state.
type API struct {
	mu         sync.Mutex
	users      map[string]*user
	statistics map[string]json.RawMessage
	settings   map[string]json.RawMessage
	failures   map[string]Failure
	requests   []Request
	server     *httptest.Server
}

// New starts a fake API server. Call Close when done.
func New() *API {
	api := &API{
		users:      map[string]*user{},
		statistics: map[string]json.RawMessage{},
		settings:   map[string]json.RawMessage{},
		failures:   map[string]Failure{},
	}
	api.server = httptest.NewServer(api.router())

	return api
}

// URL is the base URL of the server.
func (a *API) URL() string {
	return a.server.URL
}

// Close shuts the server down.
func (a *API) Close() {
	a.server.Close()
}

// CloseClientConnections drops in-flight connections, producing transport errors.
func (a *API) CloseClientConnections() {
	a.server.CloseClientConnections()
}

// AddUser stores a user and returns its id.
func (a *API) AddUser(email, password string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := uuid.NewString()
	a.users[id] = &user{ID: id, Email: email, Password: password}

	return id
}

// User returns the stored email and password of a user.
func (a *API) User(id string) (email, password string, found bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	usr, found := a.users[id]
	if !found {
		return "", "", false
	}

	return usr.Email, usr.Password, true
}

// SetStatistics stores a raw statistics document for a user.
func (a *API) SetStatistics(id, document string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.statistics[id] = json.RawMessage(document)
}

// SetSettings stores a raw settings document for a user.
func (a *API) SetSettings(id, document string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.settings[id] = json.RawMessage(document)
}

// Settings returns the raw settings document of a user.
func (a *API) Settings(id string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return string(a.settings[id])
}

// Statistics returns the raw statistics document of a user.
func (a *API) Statistics(id string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return string(a.statistics[id])
}

// Fail makes route answer with failure until Recover is called.
func (a *API) Fail(route string, failure Failure) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.failures[route] = failure
}

// Recover removes an injected failure.
func (a *API) Recover(route string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.failures, route)
}

// Requests returns every request seen so far.
func (a *API) Requests() []Request {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]Request(nil), a.requests...)
}

// Count returns how many requests hit route.
func (a *API) Count(route string) int {
	count := 0
	for _, r := range a.Requests() {
		if r.Route == route {
			count++
		}
	}

	return count
}

func (a *API) router() http.Handler {
	router := chi.NewRouter()
	router.Post(`/users`, a.handle(RouteCreateUser, a.createUser))
	router.Get(`/users/{id}`, a.handle(RouteGetUser, a.getUser))
	router.Put(`/users/{id}`, a.handle(RoutePutUser, a.putUser))
	router.Delete(`/users/{id}`, a.handle(RouteDeleteUser, a.deleteUser))
	router.Get(`/users/{id}/statistics`, a.handle(RouteGetStatistics, a.getDocument(a.statistics)))
	router.Put(`/users/{id}/statistics`, a.handle(RoutePutStatistics, a.putDocument(a.statistics)))
	router.Get(`/users/{id}/settings`, a.handle(RouteGetSettings, a.getDocument(a.settings)))
	router.Put(`/users/{id}/settings`, a.handle(RoutePutSettings, a.putDocument(a.settings)))

	return router
}

type handlerFunc func(w http.ResponseWriter, id string, body []byte)

func (a *API) handle(route string, next handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		id := chi.URLParam(r, "id")

		a.mu.Lock()
		a.requests = append(a.requests, Request{
			Route:         route,
			UserID:        id,
			Body:          string(body),
			Authorization: r.Header.Get("Authorization"),
		})
		failure, failing := a.failures[route]
		a.mu.Unlock()

		if failing {
			w.WriteHeader(failure.StatusCode)
			_, _ = w.Write([]byte(failure.Body))
			return
		}

		next(w, id, body)
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, document any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(document)
}

func (a *API) createUser(w http.ResponseWriter, _ string, body []byte) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(body, &credentials); err != nil || credentials.Email == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`"email" is required`))
		return
	}

	a.mu.Lock()
	for _, usr := range a.users {
		if usr.Email == credentials.Email {
			a.mu.Unlock()
			w.WriteHeader(http.StatusExpectationFailed)
			_, _ = w.Write([]byte("user with this e-mail exists"))
			return
		}
	}
	usr := &user{ID: uuid.NewString(), Email: credentials.Email, Password: credentials.Password}
	a.users[usr.ID] = usr
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, usr)
}

func (a *API) getUser(w http.ResponseWriter, id string, _ []byte) {
	a.mu.Lock()
	usr, found := a.users[id]
	a.mu.Unlock()
	if !found {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("User not found"))
		return
	}

	writeJSON(w, http.StatusOK, usr)
}

func (a *API) putUser(w http.ResponseWriter, id string, body []byte) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(body, &credentials); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	usr, found := a.users[id]
	if found {
		usr.Email = credentials.Email
		usr.Password = credentials.Password
	}
	a.mu.Unlock()
	if !found {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("User not found"))
		return
	}

	writeJSON(w, http.StatusOK, usr)
}

func (a *API) deleteUser(w http.ResponseWriter, id string, _ []byte) {
	a.mu.Lock()
	_, found := a.users[id]
	delete(a.users, id)
	a.mu.Unlock()
	if !found {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("User not found"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) getDocument(documents map[string]json.RawMessage) handlerFunc {
	return func(w http.ResponseWriter, id string, _ []byte) {
		a.mu.Lock()
		document, found := documents[id]
		a.mu.Unlock()
		if !found {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("Not found"))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(document)
	}
}

func (a *API) putDocument(documents map[string]json.RawMessage) handlerFunc {
	return func(w http.ResponseWriter, id string, body []byte) {
		if !json.Valid(body) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("Bad request"))
			return
		}

		a.mu.Lock()
		documents[id] = json.RawMessage(body)
		a.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}
}
