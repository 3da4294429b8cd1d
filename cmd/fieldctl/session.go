package main

//
// Creating the client environment.
//

import (
	"io"
	"os"

	"github.com/apex/log"
	"github.com/fieldops/franchise-client/internal/config"
	"github.com/fieldops/franchise-client/internal/credential"
	"github.com/fieldops/franchise-client/internal/franchise"
	"github.com/fieldops/franchise-client/internal/httpapi"
	"github.com/fieldops/franchise-client/internal/kvstore"
	"github.com/fieldops/franchise-client/internal/log/handlers/cli"
	"github.com/fieldops/franchise-client/internal/session"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// environment contains what subcommands need to talk to the backend.
type environment struct {
	// client is the backend client.
	client *httpapi.Client

	// config is the effective config.
	config *config.Config

	// logger is the logger.
	logger *log.Logger

	// metricsFile is the file where to write metrics or empty.
	metricsFile string

	// registry collects the request metrics.
	registry *prometheus.Registry

	// service wraps client with typed calls.
	service *franchise.Service

	// stateDir is the directory containing the persistent state.
	stateDir string
}

// newLogger creates the logger writing to w.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := &log.Logger{Level: log.InfoLevel, Handler: cli.New(w)}
	if verbose {
		logger.Level = log.DebugLevel
	}
	return logger
}

// readConfig reads the config honouring the command line overrides.
func readConfig(opts *Options) (*config.Config, string, error) {
	home := opts.HomeDir
	if home == "" {
		var err error
		if home, err = config.GetHome(); err != nil {
			return nil, "", err
		}
	}
	if err := os.MkdirAll(home, 0700); err != nil {
		return nil, "", errors.Wrap(err, "creating home directory")
	}
	path := opts.ConfigPath
	if path == "" {
		path = config.ConfigPath(home)
	}
	cfg, err := config.ReadOrDefault(path)
	if err != nil {
		return nil, "", err
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
		if err := cfg.Validate(); err != nil {
			return nil, "", errors.Wrap(err, "--base-url")
		}
	}
	return cfg, home, nil
}

// newEnvironment creates a new [*environment] from the options.
func newEnvironment(opts *Options, stderr io.Writer) (*environment, error) {
	logger := newLogger(stderr, opts.Verbose)
	cfg, home, err := readConfig(opts)
	if err != nil {
		return nil, err
	}
	stateDir := cfg.StateDir
	if stateDir == "" {
		stateDir = config.StateDir(home)
	}
	kvs, err := kvstore.NewFS(stateDir)
	if err != nil {
		return nil, errors.Wrap(err, "opening state directory")
	}
	logger.Debugf("fieldctl state directory: %s", stateDir)
	logger.Debugf("fieldctl backend: %s (%s)", cfg.BaseURL, cfg.Environment)

	registry := prometheus.NewRegistry()
	client := &httpapi.Client{
		BaseURL:     cfg.BaseURL,
		Credentials: credential.NewStore(kvs),
		Diagnostics: opts.Verbose && !cfg.IsProduction(),
		Logger:      logger,
		Metrics:     httpapi.NewMetrics(registry),
		Policy:      session.Policy{DemoToken: cfg.DemoToken},
		Registry:    franchise.NewRegistry(),
		Timeout:     cfg.Timeout(),
		UserAgent:   cfg.UserAgent,
	}
	env := &environment{
		client:      client,
		config:      cfg,
		logger:      logger,
		metricsFile: opts.MetricsFile,
		registry:    registry,
		service:     franchise.NewService(client),
		stateDir:    stateDir,
	}
	return env, nil
}

// Close writes the metrics file, if needed.
func (env *environment) Close() error {
	if env.metricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(env.metricsFile, env.registry); err != nil {
		return errors.Wrap(err, "writing metrics file")
	}
	env.logger.Debugf("fieldctl metrics written to %s", env.metricsFile)
	return nil
}

// withEnvironment runs fx with a new environment and closes it.
func withEnvironment(opts *Options, stderr io.Writer, fx func(env *environment) error) error {
	env, err := newEnvironment(opts, stderr)
	if err != nil {
		return err
	}
	err = fx(env)
	if cerr := env.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
