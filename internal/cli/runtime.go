package cli

import (
	"fmt"
	"time"

	"github.com/hxcode/nativeos/internal/config"
	"github.com/hxcode/nativeos/internal/logger"
	"github.com/hxcode/nativeos/pkg/classify"
	"github.com/hxcode/nativeos/pkg/dispatch"
	"github.com/hxcode/nativeos/pkg/history"
	"github.com/hxcode/nativeos/pkg/invoke"
	"github.com/hxcode/nativeos/pkg/registry"
)

// runtime bundles everything a command needs to dispatch.
type runtime struct {
	cfg        *config.Config
	log        *logger.Logger
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
	store      *history.Store
}

// newRuntime loads config and wires the dispatch pipeline. The caller
// must Close the runtime.
func newRuntime(console bool) (*runtime, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}

	log, err := logger.New(logger.Config{
		Level:     level,
		File:      cfg.Logging.File,
		Console:   console,
		Pretty:    console,
		Redaction: cfg.Logging.Redaction,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	descs, err := cfg.Descriptors()
	if err != nil {
		log.Close()
		return nil, err
	}

	reg, err := registry.New(descs)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to build agent registry: %w", err)
	}

	var store *history.Store
	var recorder dispatch.Recorder
	if cfg.History.Enabled {
		store, err = history.New(history.Config{
			DBPath: cfg.History.Path,
			Logger: log.Zerolog(),
		})
		if err != nil {
			// History is an observability aid; dispatching must still work
			zl := log.Zerolog()
			zl.Warn().Err(err).Msg("History store unavailable")
		} else {
			recorder = store
		}
	}

	inv := invoke.New(invoke.Config{
		Timeout: time.Duration(cfg.Invoker.TimeoutSeconds) * time.Second,
		Logger:  log.Zerolog(),
	})

	dispatcher, err := dispatch.New(dispatch.Config{
		Classifier: classify.NewDefault(),
		Registry:   reg,
		Invoker:    inv,
		Recorder:   recorder,
		Logger:     log.Zerolog(),
	})
	if err != nil {
		if store != nil {
			store.Close()
		}
		log.Close()
		return nil, err
	}

	return &runtime{
		cfg:        cfg,
		log:        log,
		registry:   reg,
		dispatcher: dispatcher,
		store:      store,
	}, nil
}

// Close releases runtime resources.
func (r *runtime) Close() {
	if r.store != nil {
		_ = r.store.Close()
	}
	_ = r.log.Close()
}
