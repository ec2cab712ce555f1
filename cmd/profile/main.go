// Command profile is the client of the words API profile endpoints.
//
//	profile [flags] serve                     serve the UI API on RUN_ADDRESS
//	profile [flags] show                      print the local state
//	profile [flags] use <userId> [token]      cache the user id and token
//	profile [flags] logout                    forget the cached user id and token
//	profile [flags] fetch [userId]            load the user
//	profile [flags] signup <email> <password> register a user
//	profile [flags] update <email> <password> change email and password
//	profile [flags] delete                    delete the user
//	profile [flags] stats [get|put] [key=value ...]
//	                                          load, or load, change and push the statistics
//	profile [flags] settings [get|put] [key=value ...]
//	                                          load, or load, change and push the settings
//
// A put first loads the server's document so that keys not named on the
// command line are sent back unchanged; if that load fails nothing is sent.
// Pairs without a method mean put. learnedWords and wordsPerDay address the
// top-level numbers, any other key an optional value.
//
//	profile [flags] check-settings            load the settings or push defaults
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/patric-chuzhbe/wordprofile/internal/app"
	"github.com/patric-chuzhbe/wordprofile/internal/config"
	"github.com/patric-chuzhbe/wordprofile/internal/models"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	application, err := app.New(config.WithArgs(args))
	if err != nil {
		return err
	}
	defer application.Close()

	return newCommands(application, out).dispatch(application.Config().Args)
}

var (
	errNoCommand      = errors.New("no command given")
	errUnknownCommand = errors.New("unknown command")
	errUsage          = errors.New("wrong arguments")
	errBadPair        = errors.New("argument must look like key=value")
	errNotLoaded      = errors.New("could not load the current document from the server, nothing was sent")
)

// Keys addressing the top-level number of a document in key=value pairs.
const (
	wordsPerDayKey  = "wordsPerDay"
	learnedWordsKey = "learnedWords"
)

type pair struct {
	key   string
	value any
}

// parsePair reads key=value with a JSON value. topLevelKey maps to the empty
// key, which the store understands as the document's top-level number.
func parsePair(argument, topLevelKey string) (pair, error) {
	key, raw, found := strings.Cut(argument, "=")
	if !found || key == "" {
		return pair{}, fmt.Errorf("%w: %q", errBadPair, argument)
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return pair{}, fmt.Errorf("%w: %q: %w", errBadPair, argument, err)
	}
	if key == topLevelKey {
		key = ""
	}

	return pair{key: key, value: value}, nil
}

// parseMethodAndPairs reads [get|put] [key=value ...]. Pairs without a method
// mean put; get takes no pairs.
func parseMethodAndPairs(args []string, topLevelKey string) (models.Method, []pair, error) {
	method := models.MethodGet
	if len(args) > 0 && !strings.Contains(args[0], "=") {
		var err error
		method, err = models.ParseMethod(args[0])
		if err != nil {
			return models.MethodGet, nil, err
		}
		args = args[1:]
	} else if len(args) > 0 {
		method = models.MethodPut
	}
	if method == models.MethodGet && len(args) > 0 {
		return models.MethodGet, nil, fmt.Errorf("%w: get takes no key=value pairs", errUsage)
	}

	pairs := make([]pair, 0, len(args))
	for _, argument := range args {
		p, err := parsePair(argument, topLevelKey)
		if err != nil {
			return models.MethodGet, nil, err
		}
		pairs = append(pairs, p)
	}

	return method, pairs, nil
}
