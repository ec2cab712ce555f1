package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/wordprofile/internal/alert"
	"github.com/patric-chuzhbe/wordprofile/internal/app"
	"github.com/patric-chuzhbe/wordprofile/internal/models"
	"github.com/patric-chuzhbe/wordprofile/internal/session"
	"github.com/patric-chuzhbe/wordprofile/internal/store"
)

type profileStore interface {
	Snapshot() store.State
	FetchUser(ctx context.Context, userID string)
	UpdateEmailPassword(ctx context.Context)
	DeleteUser(ctx context.Context)
	SignUp(ctx context.Context)
	GetSetStatistics(ctx context.Context, method models.Method)
	GetSetSettings(ctx context.Context, method models.Method)
	CheckSettings(ctx context.Context)
	SetFormField(key, value string)
	SetSetting(key string, value any) error
	SetStatistic(key string, value any) error
}

type commands struct {
	profiles profileStore
	alerts   *alert.Feed
	sessions *session.Manager
	serve    func() error
	out      io.Writer
}

func newCommands(application *app.App, out io.Writer) *commands {
	return &commands{
		profiles: application.Store(),
		alerts:   application.Alerts(),
		sessions: application.Sessions(),
		serve:    application.Run,
		out:      out,
	}
}

func (c *commands) dispatch(args []string) error {
	if len(args) == 0 {
		return errNoCommand
	}
	ctx := context.Background()
	name, rest := args[0], args[1:]

	switch name {
	case "serve":
		return c.serve()

	case "show":
		return c.print()

	case "use":
		if len(rest) < 1 || len(rest) > 2 {
			return fmt.Errorf("%w: use <userId> [token]", errUsage)
		}
		token := ""
		if len(rest) == 2 {
			token = rest[1]
		}
		if err := c.sessions.Remember(ctx, rest[0], token); err != nil {
			return err
		}
		c.profiles.SetFormField(store.FieldUserID, rest[0])
		return c.print()

	case "logout":
		return c.sessions.Logout(ctx)

	case "fetch":
		if len(rest) > 1 {
			return fmt.Errorf("%w: fetch [userId]", errUsage)
		}
		userID := ""
		if len(rest) == 1 {
			userID = rest[0]
		}
		c.profiles.FetchUser(ctx, userID)

	case "signup", "update":
		if len(rest) != 2 {
			return fmt.Errorf("%w: %s <email> <password>", errUsage, name)
		}
		c.profiles.SetFormField(store.FieldEmail, rest[0])
		c.profiles.SetFormField(store.FieldPassword, rest[1])
		if name == "signup" {
			c.profiles.SignUp(ctx)
		} else {
			c.profiles.UpdateEmailPassword(ctx)
		}

	case "delete":
		c.profiles.DeleteUser(ctx)

	case "stats":
		method, pairs, err := parseMethodAndPairs(rest, learnedWordsKey)
		if err != nil {
			return err
		}
		if method == models.MethodGet {
			c.profiles.GetSetStatistics(ctx, models.MethodGet)
			break
		}
		return c.put(ctx, c.profiles.GetSetStatistics, c.profiles.SetStatistic, pairs)

	case "settings":
		method, pairs, err := parseMethodAndPairs(rest, wordsPerDayKey)
		if err != nil {
			return err
		}
		if method == models.MethodGet {
			c.profiles.GetSetSettings(ctx, models.MethodGet)
			break
		}
		return c.put(ctx, c.profiles.GetSetSettings, c.profiles.SetSetting, pairs)

	case "check-settings":
		c.profiles.CheckSettings(ctx)

	default:
		return fmt.Errorf("%w: %q", errUnknownCommand, name)
	}

	return c.print()
}

// put loads the server's document, applies pairs to it and sends it back. A
// one-shot process starts from defaults, so sending without loading first
// would overwrite every key not named in pairs.
func (c *commands) put(
	ctx context.Context,
	getSet func(ctx context.Context, method models.Method),
	set func(key string, value any) error,
	pairs []pair,
) error {
	getSet(ctx, models.MethodGet)
	if c.profiles.Snapshot().Status != models.StatusSuccess {
		if err := c.print(); err != nil {
			return err
		}
		return errNotLoaded
	}

	for _, p := range pairs {
		if err := set(p.key, p.value); err != nil {
			return fmt.Errorf("%w: %q: %w", errBadPair, p.key, err)
		}
	}
	getSet(ctx, models.MethodPut)

	return c.print()
}

// print writes the state without the password, then the alerts raised by
// the command, errors first.
func (c *commands) print() error {
	state := c.profiles.Snapshot()
	state.Profile.Password = ""

	encoder := json.NewEncoder(c.out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(state); err != nil {
		return err
	}

	alerts := c.alerts.Drain()
	sort.SliceStable(alerts, func(i, j int) bool {
		return alertRank(alerts[i].Status) < alertRank(alerts[j].Status)
	})
	for _, a := range alerts {
		text := funk.ShortIf(a.Message != "", a.Message, a.Data)
		if _, err := fmt.Fprintf(c.out, "[%s] %v\n", a.Status, text); err != nil {
			return err
		}
	}

	return nil
}

func alertRank(status models.AlertStatus) int {
	return funk.IndexOf([]models.AlertStatus{models.AlertError, models.AlertInfo, models.AlertSuccess}, status)
}
