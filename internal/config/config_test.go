package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tgienger/taskdash/internal/config"
)

func env(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(nil, env(map[string]string{"XDG_DATA_HOME": "/data"}))
	require.NoError(t, err)
	require.Equal(t, config.EnvLocal, cfg.Env)
	require.Equal(t, config.DefaultAPIBaseURL, cfg.APIBaseURL)
	require.Equal(t, config.DefaultTasksPath, cfg.TasksPath)
	require.Equal(t, filepath.Join("/data", "taskdash"), cfg.DataDir)
	require.Equal(t, filepath.Join("/data", "taskdash", "taskdash.db"), cfg.DBPath())
	require.Equal(t, filepath.Join("/data", "taskdash", "taskdash.log"), cfg.LogPath())
	require.False(t, cfg.Insecure)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	e := env(map[string]string{
		"TASKDASH_ENV":        "dev",
		"TASKDASH_API_URL":    "http://env.example",
		"TASKDASH_TASKS_PATH": "/tasks/gettasks",
		"TASKDASH_DATA_DIR":   "/env-dir",
		"TASKDASH_INSECURE":   "true",
	})

	cfg, err := config.Load(nil, e)
	require.NoError(t, err)
	require.Equal(t, config.EnvDev, cfg.Env)
	require.Equal(t, "http://env.example", cfg.APIBaseURL)
	require.Equal(t, "/tasks/gettasks", cfg.TasksPath)
	require.Equal(t, "/env-dir", cfg.DataDir)
	require.True(t, cfg.Insecure)

	cfg, err = config.Load([]string{"-api", "https://flag.example", "-env", "prod", "-data-dir", "/flag-dir"}, e)
	require.NoError(t, err)
	require.Equal(t, config.EnvProd, cfg.Env)
	require.Equal(t, "https://flag.example", cfg.APIBaseURL)
	require.Equal(t, "/flag-dir", cfg.DataDir)
}

func TestLoad_Version(t *testing.T) {
	cfg, err := config.Load([]string{"--version"}, env(nil))
	require.NoError(t, err)
	require.True(t, cfg.ShowVersion)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := config.Load([]string{"-env", "staging"}, env(map[string]string{"XDG_DATA_HOME": "/d"}))
	require.ErrorContains(t, err, "unknown env")

	_, err = config.Load([]string{"-api", "ftp://example.com"}, env(map[string]string{"XDG_DATA_HOME": "/d"}))
	require.ErrorContains(t, err, "must be http or https")

	_, err = config.Load([]string{"-api", "localhost:7016"}, env(map[string]string{"XDG_DATA_HOME": "/d"}))
	require.Error(t, err)

	_, err = config.Load([]string{"-nope"}, env(nil))
	require.Error(t, err)
}
