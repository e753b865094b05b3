// Package config resolves runtime settings from defaults, the environment
// and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Environments select the logging setup
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	DefaultAPIBaseURL = "https://localhost:7016"
	DefaultTasksPath  = "/tasks"

	appName = "taskdash"
	dbFile  = "taskdash.db"
	logFile = "taskdash.log"
)

// Config is the resolved runtime configuration
type Config struct {
	Env        string
	APIBaseURL string
	TasksPath  string
	DataDir    string
	// Insecure skips TLS verification, for the self-signed dev API
	Insecure    bool
	ShowVersion bool
}

// DBPath is where the local database lives
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, dbFile)
}

// LogPath is where the log file is written; the terminal belongs to the UI
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, logFile)
}

// Load reads the environment through getenv and then parses args (without
// the program name). The result is validated.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:        EnvLocal,
		APIBaseURL: DefaultAPIBaseURL,
		TasksPath:  DefaultTasksPath,
	}
	if v := getenv("TASKDASH_ENV"); v != "" {
		cfg.Env = v
	}
	if v := getenv("TASKDASH_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := getenv("TASKDASH_TASKS_PATH"); v != "" {
		cfg.TasksPath = v
	}
	if v := getenv("TASKDASH_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := getenv("TASKDASH_INSECURE"); v == "1" || strings.EqualFold(v, "true") {
		cfg.Insecure = true
	}

	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "base URL of the task API")
	fs.StringVar(&cfg.Env, "env", cfg.Env, "environment: local, dev or prod")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for the database and log file")
	fs.StringVar(&cfg.TasksPath, "tasks-path", cfg.TasksPath, "task list endpoint")
	fs.BoolVar(&cfg.Insecure, "insecure", cfg.Insecure, "skip TLS certificate verification")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")
	fs.BoolVar(&cfg.ShowVersion, "v", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.ShowVersion {
		return cfg, nil
	}

	if cfg.DataDir == "" {
		dir, err := dataDir(getenv)
		if err != nil {
			return Config{}, err
		}
		cfg.DataDir = dir
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the environment name and the API URL
func (c Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("config: unknown env %q", c.Env)
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("config: api url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: api url %q must be http or https", c.APIBaseURL)
	}
	if c.DataDir == "" {
		return errors.New("config: data dir is empty")
	}
	return nil
}

// dataDir uses the XDG data directory or falls back to ~/.local/share
func dataDir(getenv func(string) string) (string, error) {
	base := getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, appName), nil
}
