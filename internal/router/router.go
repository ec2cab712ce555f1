// Package router serves the profile store to a UI over HTTP: getters as GET
// endpoints and actions as POST/PATCH endpoints answering with the new state.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/wordprofile/internal/gzippedhttp"
	"github.com/patric-chuzhbe/wordprofile/internal/logger"
	"github.com/patric-chuzhbe/wordprofile/internal/models"
	"github.com/patric-chuzhbe/wordprofile/internal/store"
)

type profileReader interface {
	Snapshot() store.State
	Status() models.Status
	Profile() models.Profile
	IsProfileLoaded() bool
	IsLoading() bool
	Statistics() models.Statistics
	Settings() models.Settings
}

type profileActions interface {
	FetchUser(ctx context.Context, userID string)
	UpdateEmailPassword(ctx context.Context)
	DeleteUser(ctx context.Context)
	SignUp(ctx context.Context)
	GetSetStatistics(ctx context.Context, method models.Method)
	GetSetSettings(ctx context.Context, method models.Method)
	CheckSettings(ctx context.Context)
	SetFormField(key, value string)
	SetSetting(key string, value any) error
}

type profileStore interface {
	profileReader
	profileActions
}

type alertFeed interface {
	Recent(statuses ...models.AlertStatus) []models.Alert
	Drain() []models.Alert
}

type pinger interface {
	Ping(ctx context.Context) error
}

type trustChecker interface {
	TrustedOnly(h http.Handler) http.Handler
}

// Router holds the handlers' dependencies.
type Router struct {
	store    profileStore
	alerts   alertFeed
	db       pinger
	validate *validator.Validate
}

var (
	errEmptyBody    = errors.New("request body is empty")
	errMissingValue = errors.New("value is required")
)

// New builds the chi router of the UI API.
func New(
	profiles profileStore,
	alerts alertFeed,
	db pinger,
	checker trustChecker,
) *chi.Mux {
	myRouter := &Router{
		store:    profiles,
		alerts:   alerts,
		db:       db,
		validate: validator.New(),
	}

	router := chi.NewRouter()
	router.Use(
		logger.WithLoggingHTTPMiddleware,
		gzippedhttp.UngzipJSONRequest,
		gzippedhttp.GzipResponse,
	)

	router.Get(`/ping`, myRouter.GetPing)
	router.With(checker.TrustedOnly).Handle(`/metrics`, promhttp.Handler())

	router.Route(`/api`, func(r chi.Router) {
		r.Get(`/state`, myRouter.GetApistate)
		r.Get(`/status`, myRouter.GetApistatus)
		r.Get(`/profile`, myRouter.GetApiprofile)
		r.Get(`/statistics`, myRouter.GetApistatistics)
		r.Get(`/settings`, myRouter.GetApisettings)
		r.Get(`/alerts`, myRouter.GetApialerts)

		r.Post(`/user/fetch`, myRouter.PostApiuserfetch)
		r.Post(`/user/signup`, myRouter.PostApiusersignup)
		r.Post(`/user/update`, myRouter.PostApiuserupdate)
		r.Post(`/user/delete`, myRouter.PostApiuserdelete)
		r.Post(`/statistics`, myRouter.PostApistatistics)
		r.Post(`/settings`, myRouter.PostApisettings)
		r.Post(`/settings/check`, myRouter.PostApisettingscheck)

		r.Patch(`/profile/field`, myRouter.PatchApiprofilefield)
		r.Patch(`/settings/setting`, myRouter.PatchApisettingssetting)
	})

	return router
}

// GetPing checks the key-value storage.
func (router *Router) GetPing(res http.ResponseWriter, req *http.Request) {
	if err := router.db.Ping(req.Context()); err != nil {
		logger.Log.Debugln("Error calling the `router.db.Ping()`: ", zap.Error(err))
		res.WriteHeader(http.StatusInternalServerError)
		return
	}
	res.WriteHeader(http.StatusOK)
}

// GetApistate answers with the whole state, password removed.
func (router *Router) GetApistate(res http.ResponseWriter, req *http.Request) {
	router.writeState(res)
}

// GetApistatus answers with the request-cycle flags.
func (router *Router) GetApistatus(res http.ResponseWriter, req *http.Request) {
	writeJSON(res, http.StatusOK, models.StatusResponse{
		Status:          router.store.Status(),
		IsLoading:       router.store.IsLoading(),
		IsProfileLoaded: router.store.IsProfileLoaded(),
	})
}

// GetApiprofile answers with the profile, password removed.
func (router *Router) GetApiprofile(res http.ResponseWriter, req *http.Request) {
	profile := router.store.Profile()
	profile.Password = ""
	writeJSON(res, http.StatusOK, profile)
}

// GetApistatistics answers with the statistics.
func (router *Router) GetApistatistics(res http.ResponseWriter, req *http.Request) {
	writeJSON(res, http.StatusOK, router.store.Statistics())
}

// GetApisettings answers with the settings.
func (router *Router) GetApisettings(res http.ResponseWriter, req *http.Request) {
	writeJSON(res, http.StatusOK, router.store.Settings())
}

// GetApialerts answers with the recent alerts; ?drain=true also clears them
// and ?status=error narrows them down.
func (router *Router) GetApialerts(res http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()
	if query.Get("drain") == "true" {
		writeJSON(res, http.StatusOK, router.alerts.Drain())
		return
	}

	var statuses []models.AlertStatus
	for _, status := range query["status"] {
		statuses = append(statuses, models.AlertStatus(status))
	}
	writeJSON(res, http.StatusOK, router.alerts.Recent(statuses...))
}

// PostApiuserfetch runs FetchUser; an empty body means the current user.
func (router *Router) PostApiuserfetch(res http.ResponseWriter, req *http.Request) {
	var request models.FetchUserRequest
	if err := router.decode(req, &request, true); err != nil {
		http.Error(res, err.Error(), http.StatusBadRequest)
		return
	}

	router.store.FetchUser(req.Context(), request.UserID)
	router.writeState(res)
}

// PostApiusersignup puts the credentials into the profile and runs SignUp.
func (router *Router) PostApiusersignup(res http.ResponseWriter, req *http.Request) {
	router.withCredentials(res, req, router.store.SignUp)
}

// PostApiuserupdate puts the credentials into the profile and runs UpdateEmailPassword.
func (router *Router) PostApiuserupdate(res http.ResponseWriter, req *http.Request) {
	router.withCredentials(res, req, router.store.UpdateEmailPassword)
}

// PostApiuserdelete runs DeleteUser.
func (router *Router) PostApiuserdelete(res http.ResponseWriter, req *http.Request) {
	router.store.DeleteUser(req.Context())
	router.writeState(res)
}

// PostApistatistics runs GetSetStatistics with {"method": "get"|"put"}.
func (router *Router) PostApistatistics(res http.ResponseWriter, req *http.Request) {
	method, ok := router.decodeMethod(res, req)
	if !ok {
		return
	}

	router.store.GetSetStatistics(req.Context(), method)
	router.writeState(res)
}

// PostApisettings runs GetSetSettings with {"method": "get"|"put"}.
func (router *Router) PostApisettings(res http.ResponseWriter, req *http.Request) {
	method, ok := router.decodeMethod(res, req)
	if !ok {
		return
	}

	router.store.GetSetSettings(req.Context(), method)
	router.writeState(res)
}

// PostApisettingscheck runs CheckSettings.
func (router *Router) PostApisettingscheck(res http.ResponseWriter, req *http.Request) {
	router.store.CheckSettings(req.Context())
	router.writeState(res)
}

// PatchApiprofilefield writes a single profile key.
func (router *Router) PatchApiprofilefield(res http.ResponseWriter, req *http.Request) {
	var request models.FormFieldRequest
	if err := router.decode(req, &request, false); err != nil {
		http.Error(res, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	router.store.SetFormField(request.Key, request.Value)
	router.writeState(res)
}

// PatchApisettingssetting writes a single setting.
func (router *Router) PatchApisettingssetting(res http.ResponseWriter, req *http.Request) {
	var request models.SettingRequest
	if err := router.decode(req, &request, false); err != nil {
		http.Error(res, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if request.Value == nil {
		http.Error(res, errMissingValue.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err := router.store.SetSetting(request.Key, request.Value); err != nil {
		http.Error(res, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	router.writeState(res)
}

func (router *Router) withCredentials(
	res http.ResponseWriter,
	req *http.Request,
	action func(ctx context.Context),
) {
	var request models.Credentials
	if err := router.decode(req, &request, false); err != nil {
		http.Error(res, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	router.store.SetFormField(store.FieldEmail, request.Email)
	router.store.SetFormField(store.FieldPassword, request.Password)
	action(req.Context())
	router.writeState(res)
}

func (router *Router) decodeMethod(res http.ResponseWriter, req *http.Request) (models.Method, bool) {
	var request models.MethodRequest
	if err := router.decode(req, &request, true); err != nil {
		http.Error(res, err.Error(), http.StatusUnprocessableEntity)
		return models.MethodGet, false
	}

	method, err := models.ParseMethod(request.Method)
	if err != nil {
		http.Error(res, err.Error(), http.StatusUnprocessableEntity)
		return models.MethodGet, false
	}

	return method, true
}

// decode reads a JSON body into target and validates it. An empty body is
// accepted only when allowEmpty is set.
func (router *Router) decode(req *http.Request, target any, allowEmpty bool) error {
	err := json.NewDecoder(req.Body).Decode(target)
	if errors.Is(err, io.EOF) {
		if allowEmpty {
			return nil
		}
		return errEmptyBody
	}
	if err != nil {
		return err
	}

	return router.validate.Struct(target)
}

func (router *Router) writeState(res http.ResponseWriter) {
	state := router.store.Snapshot()
	state.Profile.Password = ""
	writeJSON(res, http.StatusOK, state)
}

func writeJSON(res http.ResponseWriter, statusCode int, document any) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(statusCode)
	if err := json.NewEncoder(res).Encode(document); err != nil {
		logger.Log.Debugln("Error calling the `json.NewEncoder().Encode()`: ", zap.Error(err))
	}
}
