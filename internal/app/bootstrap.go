package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"wrangle/internal/config"
	"wrangle/internal/events"
	"wrangle/internal/gitsync"
	"wrangle/internal/provider/choco"
	"wrangle/internal/reconciler"
	"wrangle/pkg/logging"
)

// gitMirrorDirName is the checkout directory for the declaration repository
// under the configuration path. It keeps config.yaml out of the work tree.
const gitMirrorDirName = "declarations"

// DeclarationPath returns the directory holding the declaration tree for
// the given configuration: the git mirror checkout when git sync is
// enabled, the configuration directory itself otherwise.
func DeclarationPath(cfg config.Config, configPath string) string {
	if cfg.GitSync.Enabled {
		return filepath.Join(configPath, gitMirrorDirName)
	}
	return configPath
}

// Application is the serve-mode agent. It owns the declaration store, the
// reconciliation manager and the optional git mirror, and runs them until
// the context is cancelled.
type Application struct {
	cfg        Config
	wrangleCfg config.Config

	configPath string
	declPath   string

	store    *config.Store
	recorder *events.Recorder
	manager  *reconciler.Manager
	syncer   *gitsync.Syncer
}

// NewApplication bootstraps the agent: logging, configuration, provider,
// reconcilers and the manager. Nothing starts running until Run is called.
func NewApplication(cfg Config) (*Application, error) {
	logLevel := logging.ParseLevel(cfg.LogLevel)
	if cfg.Debug {
		logLevel = logging.LevelDebug
	}
	var logOutput io.Writer = logging.MustStderr()
	if cfg.Silent {
		logOutput = io.Discard
	}
	logging.InitForAgent(logLevel, logOutput)

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = config.GetDefaultConfigPathOrPanic()
	}

	wrangleCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	app := &Application{
		cfg:        cfg,
		wrangleCfg: wrangleCfg,
		configPath: configPath,
		declPath:   DeclarationPath(wrangleCfg, configPath),
	}

	if wrangleCfg.GitSync.Enabled {
		// The mirror checkout holds the declaration tree; the local
		// config.yaml stays outside it.
		syncer, err := gitsync.New(wrangleCfg.GitSync, app.declPath)
		if err != nil {
			return nil, fmt.Errorf("failed to configure git sync: %w", err)
		}
		app.syncer = syncer
	}

	app.recorder = events.NewRecorder(events.DefaultCapacity).
		WithLog(events.NewLog(filepath.Join(configPath, events.DefaultLogFileName)))
	app.store = config.NewStore(app.declPath)

	p := choco.New(choco.Config{
		Command:    wrangleCfg.Provider.Command,
		GUICommand: wrangleCfg.Provider.GUICommand,
		Timeout:    wrangleCfg.Provider.Timeout,
	})

	sources := reconciler.NewSourceReconciler(p).
		WithStore(app.store).
		WithEventSink(app.recorder)
	features := reconciler.NewFeatureReconciler(p).
		WithStore(app.store).
		WithEventSink(app.recorder)

	agent := wrangleCfg.Agent
	app.manager = reconciler.NewManager(reconciler.ManagerConfig{
		DeclarationPath:  app.declPath,
		WorkerCount:      agent.Workers,
		MaxRetries:       agent.MaxRetries,
		InitialBackoff:   agent.InitialBackoff,
		MaxBackoff:       agent.MaxBackoff,
		DebounceInterval: agent.DebounceInterval,
		ReconcileTimeout: agent.ReconcileTimeout,
		OnChange: func(event reconciler.ChangeEvent) {
			app.reloadDeclarations()
		},
	})

	if err := app.manager.RegisterReconciler(sources); err != nil {
		return nil, err
	}
	if err := app.manager.RegisterReconciler(features); err != nil {
		return nil, err
	}

	return app, nil
}

// Events returns the agent's event recorder.
func (a *Application) Events() *events.Recorder {
	return a.recorder
}

// Manager returns the reconciliation manager.
func (a *Application) Manager() *reconciler.Manager {
	return a.manager
}

// Run starts the manager and blocks until ctx is cancelled, then shuts
// everything down gracefully.
func (a *Application) Run(ctx context.Context) error {
	if a.syncer != nil {
		if _, err := a.syncer.Sync(ctx); err != nil {
			// A failed initial pull is not fatal: the previous checkout
			// (if any) keeps serving until the next interval succeeds.
			logging.Error("Bootstrap", err, "Initial declaration sync failed")
			a.recorder.Record(events.ReasonDeclarationSyncFailed, events.EventData{
				Name:  a.wrangleCfg.GitSync.URL,
				Error: err.Error(),
			})
		}
		a.reloadDeclarations()
	}

	if err := a.manager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reconciliation manager: %w", err)
	}

	logging.Info("Bootstrap", "Agent started, watching %s", a.declPath)
	a.triggerFullReconcile()

	if a.syncer != nil {
		go a.runGitSyncLoop(ctx)
	}

	<-ctx.Done()

	logging.Info("Bootstrap", "Shutting down, %d reconciliations still queued", a.manager.GetQueueLength())
	err := a.manager.Stop()

	summary := a.manager.Metrics().Summary()
	logging.Info("Bootstrap", "Reconciliation totals: %d attempts, %d successes, %d failures",
		summary.TotalAttempts, summary.TotalSuccesses, summary.TotalFailures)
	for _, status := range a.manager.GetAllStatuses() {
		if status.State == reconciler.StateSynced {
			continue
		}
		logging.Warn("Bootstrap", "%s/%s left in state %s: %s",
			status.ResourceType, status.Name, status.State, status.LastError)
	}

	return err
}

// reloadDeclarations re-reads the declaration tree and records per-file
// errors as events.
func (a *Application) reloadDeclarations() {
	errs := a.store.Reload()
	for _, loadErr := range errs.Errors {
		a.recorder.Record(events.ReasonDeclarationInvalid, events.EventData{
			Name:  loadErr.FileName,
			Error: loadErr.Message,
		})
	}
}

// triggerFullReconcile queues every declared resource for reconciliation.
// Run uses it on startup and after each successful git pull so drift that
// happened while the agent was down still converges.
func (a *Application) triggerFullReconcile() {
	decls := a.store.Snapshot()
	for _, name := range decls.SourceNames() {
		a.manager.TriggerReconcile(reconciler.ResourceTypeSource, name)
	}
	for _, name := range decls.FeatureNames() {
		a.manager.TriggerReconcile(reconciler.ResourceTypeFeature, name)
	}
}

// runGitSyncLoop pulls the declaration repository on the configured
// interval until ctx is cancelled.
func (a *Application) runGitSyncLoop(ctx context.Context) {
	interval := a.wrangleCfg.GitSync.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			changed, err := a.syncer.Sync(ctx)
			if err != nil {
				logging.Error("GitSync", err, "Declaration sync failed")
				a.recorder.Record(events.ReasonDeclarationSyncFailed, events.EventData{
					Name:  a.wrangleCfg.GitSync.URL,
					Error: err.Error(),
				})
				continue
			}
			if !changed {
				continue
			}

			logging.Info("GitSync", "Declarations updated from %s", a.wrangleCfg.GitSync.URL)
			a.recorder.Record(events.ReasonDeclarationsSynced, events.EventData{
				Name: a.wrangleCfg.GitSync.URL,
			})
			a.reloadDeclarations()
			a.triggerFullReconcile()
		}
	}
}
