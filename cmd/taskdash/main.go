package main

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/tgienger/taskdash/internal/api"
	"github.com/tgienger/taskdash/internal/config"
	"github.com/tgienger/taskdash/internal/db"
	"github.com/tgienger/taskdash/internal/session"
	"github.com/tgienger/taskdash/internal/store"
	"github.com/tgienger/taskdash/internal/syncer"
	"github.com/tgienger/taskdash/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(2)
	}
	if cfg.ShowVersion {
		fmt.Printf("taskdash %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	database, err := db.Open(cfg.DBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	log, closeLog, err := setupLogger(cfg.Env, cfg.LogPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	log.WithField("api", cfg.APIBaseURL).WithField("env", cfg.Env).Info("application start")

	hc := http.DefaultClient
	if cfg.Insecure {
		hc = &http.Client{Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}}
	}
	client := api.New(cfg.APIBaseURL, api.WithHTTPClient(hc), api.WithTasksPath(cfg.TasksPath))
	sess := session.New(database, log)
	sc := syncer.New(client, store.New(), sess, database, log)

	app := ui.NewApp(sc, database, log)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		log.WithError(err).Error("application failed")
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
	log.Info("application stopped")
}

// setupLogger writes to a file in every environment since the terminal
// belongs to the UI. The level follows the environment.
func setupLogger(env, path string) (*logrus.Entry, func(), error) {
	logFile, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	log := logrus.New()
	log.SetOutput(logFile)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	switch env {
	case config.EnvLocal:
		log.SetLevel(logrus.DebugLevel)
	case config.EnvDev:
		log.SetLevel(logrus.InfoLevel)
	case config.EnvProd:
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.WarnLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}

	return logrus.NewEntry(log), func() { logFile.Close() }, nil
}
