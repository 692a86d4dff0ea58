package runtimeinit

import (
	"fmt"
	"io"
	"log"

	"snap-mosaic/src/clipboard"
	"snap-mosaic/src/config"
	"snap-mosaic/src/logutil"
)

type Options struct {
	LoadOptions config.LoadOptions
	Verbose     bool
	// InitClipboard is replaced in tests.
	InitClipboard func() error
}

// Runtime is what the process needs before any window exists.
type Runtime struct {
	Env   config.Environment
	Store *config.Store
	Log   io.Closer
}

// Bootstrap loads the environment, routes logging and opens the settings store.
// A broken settings file is not fatal: the store falls back to defaults.
// An explicit log file path turns file logging on.
func Bootstrap(opts Options) (*Runtime, error) {
	env := config.LoadEnvironmentWithOptions(opts.LoadOptions)
	if opts.LoadOptions.LogFileOverride != "" {
		env.EnableFileLogging = true
	}
	if env.ConfigPath == "" {
		return nil, fmt.Errorf("no settings path resolved")
	}

	closer := logutil.Setup(logutil.Options{
		EnableFileLogging: env.EnableFileLogging,
		FilePath:          env.LogFile,
		Verbose:           opts.Verbose,
	})

	store, err := config.Open(env.ConfigPath)
	if err != nil {
		log.Printf("settings: %v; using defaults", err)
	}
	log.Printf("settings: %s", env.ConfigPath)

	initClipboard := opts.InitClipboard
	if initClipboard == nil {
		initClipboard = clipboard.Init
	}
	if err := initClipboard(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	}

	return &Runtime{Env: env, Store: store, Log: closer}, nil
}
