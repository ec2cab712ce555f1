// Package config loads the profile client settings from defaults, an optional
// JSON file, a .env file, environment variables and command-line flags, in that
// order of increasing priority, and validates the result.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the full set of runtime settings.
type Config struct {
	ServerURL           string        `env:"SERVER_URL" validate:"required,url"`
	RunAddr             string        `env:"RUN_ADDRESS" validate:"hostname_port"`
	LogLevel            string        `env:"LOG_LEVEL" validate:"loglevel"`
	DBFileName          string        `env:"FILE_STORAGE_PATH" validate:"filepath"`
	DatabaseDSN         string        `env:"DATABASE_DSN"`
	DBConnectionTimeout time.Duration `env:"DB_CONNECTION_TIMEOUT"`
	MigrationsDir       string        `env:"MIGRATIONS_DIR"`
	RequestTimeout      time.Duration `env:"REQUEST_TIMEOUT"`
	AuthToken           string        `env:"AUTH_TOKEN"`
	TrustedSubnet       string        `env:"TRUSTED_SUBNET" validate:"omitempty,cidr"`
	ConfigFile          string        `env:"CONFIG"`

	// Args holds the positional arguments left after flag parsing.
	Args []string
}

var defaultConfig = Config{
	ServerURL:           "http://localhost:3000",
	RunAddr:             "localhost:8081",
	LogLevel:            "info",
	DBFileName:          "profile.json",
	DatabaseDSN:         "",
	DBConnectionTimeout: 10 * time.Second,
	MigrationsDir:       "migrations",
	RequestTimeout:      15 * time.Second,
}

// jsonConfig mirrors Config with durations as strings, e.g. "5s".
type jsonConfig struct {
	ServerURL           string `json:"server_url"`
	RunAddr             string `json:"run_address"`
	LogLevel            string `json:"log_level"`
	DBFileName          string `json:"file_storage_path"`
	DatabaseDSN         string `json:"database_dsn"`
	DBConnectionTimeout string `json:"db_connection_timeout"`
	MigrationsDir       string `json:"migrations_dir"`
	RequestTimeout      string `json:"request_timeout"`
	AuthToken           string `json:"auth_token"`
	TrustedSubnet       string `json:"trusted_subnet"`
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	if path == "" {
		return true
	}
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[value]
}

func (c *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("filepath", validateFilePath)
	if err != nil {
		return err
	}

	return validate.Struct(c)
}

// InitOption customizes New.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
	flagSet             *flag.FlagSet
	args                []string
	argsGiven           bool
}

// WithDisableFlagsParsing skips command-line parsing; tests use it.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// WithArgs parses the given arguments on a private flag set instead of os.Args.
func WithArgs(args []string) InitOption {
	return func(options *initOptions) {
		options.flagSet = flag.NewFlagSet("profile", flag.ContinueOnError)
		options.args = args
		options.argsGiven = true
	}
}

// New builds a validated Config.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{
		disableFlagsParsing: false,
		flagSet:             flag.CommandLine,
		args:                os.Args[1:],
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	err := godotenv.Load()
	if err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	values := Config{}
	applyDefaults(&values, defaultConfig)

	var fromEnv Config
	err = env.Parse(&fromEnv)
	if err != nil {
		return nil, fmt.Errorf("in internal/config/config.go/New(): error while `env.Parse()` calling: %w", err)
	}

	if fromEnv.ConfigFile != "" {
		values.ConfigFile = fromEnv.ConfigFile
		err = values.loadJSON(fromEnv.ConfigFile)
		if err != nil {
			return nil, err
		}
	}

	applyOverrides(&values, fromEnv)

	if !options.disableFlagsParsing {
		err = values.parseFlags(options.flagSet, options.args)
		if err != nil {
			return nil, err
		}
		values.Args = options.flagSet.Args()
	} else if options.argsGiven {
		values.Args = options.args
	}

	values.ServerURL = strings.TrimRight(values.ServerURL, "/")

	err = values.validate()
	if err != nil {
		return nil, err
	}

	return &values, nil
}

func applyDefaults(values *Config, defaults Config) {
	*values = defaults
}

// applyOverrides copies every non-zero field of source into values.
func applyOverrides(values *Config, source Config) {
	if source.ServerURL != "" {
		values.ServerURL = source.ServerURL
	}
	if source.RunAddr != "" {
		values.RunAddr = source.RunAddr
	}
	if source.LogLevel != "" {
		values.LogLevel = source.LogLevel
	}
	if source.DBFileName != "" {
		values.DBFileName = source.DBFileName
	}
	if source.DatabaseDSN != "" {
		values.DatabaseDSN = source.DatabaseDSN
	}
	if source.DBConnectionTimeout != 0 {
		values.DBConnectionTimeout = source.DBConnectionTimeout
	}
	if source.MigrationsDir != "" {
		values.MigrationsDir = source.MigrationsDir
	}
	if source.RequestTimeout != 0 {
		values.RequestTimeout = source.RequestTimeout
	}
	if source.AuthToken != "" {
		values.AuthToken = source.AuthToken
	}
	if source.TrustedSubnet != "" {
		values.TrustedSubnet = source.TrustedSubnet
	}
}

func (c *Config) loadJSON(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("in internal/config/config.go/loadJSON(): error while `os.ReadFile()` calling: %w", err)
	}

	var raw jsonConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("in internal/config/config.go/loadJSON(): error while `json.Unmarshal()` calling: %w", err)
	}

	fromJSON := Config{
		ServerURL:     raw.ServerURL,
		RunAddr:       raw.RunAddr,
		LogLevel:      raw.LogLevel,
		DBFileName:    raw.DBFileName,
		DatabaseDSN:   raw.DatabaseDSN,
		MigrationsDir: raw.MigrationsDir,
		AuthToken:     raw.AuthToken,
		TrustedSubnet: raw.TrustedSubnet,
	}
	if fromJSON.DBConnectionTimeout, err = parseDuration(raw.DBConnectionTimeout); err != nil {
		return err
	}
	if fromJSON.RequestTimeout, err = parseDuration(raw.RequestTimeout); err != nil {
		return err
	}

	applyOverrides(c, fromJSON)

	return nil
}

func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("in internal/config/config.go/parseDuration(): error while `time.ParseDuration()` calling: %w", err)
	}

	return d, nil
}

func (c *Config) parseFlags(flagSet *flag.FlagSet, args []string) error {
	var fromFlags Config
	flagSet.StringVar(&fromFlags.ServerURL, "s", "", "base URL of the words API server")
	flagSet.StringVar(&fromFlags.RunAddr, "a", "", "address and port to serve the UI API on")
	flagSet.StringVar(&fromFlags.LogLevel, "l", "", "logger level")
	flagSet.StringVar(&fromFlags.DBFileName, "f", "", "JSON file keeping the cached user id")
	flagSet.StringVar(&fromFlags.DatabaseDSN, "d", "", "a string with the database connection details")
	flagSet.DurationVar(&fromFlags.RequestTimeout, "t", 0, "timeout of a single API request")
	flagSet.StringVar(&fromFlags.TrustedSubnet, "n", "", "CIDR allowed to read /metrics")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	applyOverrides(c, fromFlags)
	// An explicit empty -f switches to the in-memory storage.
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == "f" {
			c.DBFileName = fromFlags.DBFileName
		}
	})

	return nil
}
