// Package cli backs the one-shot commands with a concurrent executor over
// the declared resources.
package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/sync/errgroup"

	"wrangle/internal/api"
	"wrangle/internal/config"
	"wrangle/internal/formatting"
	"wrangle/internal/provider"
	"wrangle/internal/reconciler"
)

// ValidateOutputFormat validates that the given format string is a
// supported output format. Returns nil if valid, or an error with a helpful
// message listing valid formats.
func ValidateOutputFormat(format string) error {
	for _, valid := range formatting.ValidFormats() {
		if formatting.OutputFormat(format) == valid {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format: %q (valid: table, json, yaml)", format)
}

// Options configures an Executor run.
type Options struct {
	// DryRun reports prospective changes without mutating anything.
	DryRun bool

	// Workers bounds concurrent reconciliation passes. Defaults to 2.
	Workers int

	// Quiet suppresses the progress spinner.
	Quiet bool

	// EventSink receives outcomes; may be nil.
	EventSink reconciler.EventSink
}

// Executor runs one-shot reconciliation over a set of declarations.
//
// Passes for distinct resources run concurrently: they share no mutable
// state and each touches exactly one resource. Within a pass the provider
// calls stay strictly sequential.
type Executor struct {
	sources  *reconciler.SourceReconciler
	features *reconciler.FeatureReconciler
	options  Options
}

// NewExecutor creates an executor over the given provider.
func NewExecutor(p provider.Provider, options Options) *Executor {
	if options.Workers <= 0 {
		options.Workers = 2
	}

	sources := reconciler.NewSourceReconciler(p)
	features := reconciler.NewFeatureReconciler(p)
	if options.EventSink != nil {
		sources.WithEventSink(options.EventSink)
		features.WithEventSink(options.EventSink)
	}

	return &Executor{
		sources:  sources,
		features: features,
		options:  options,
	}
}

// Run reconciles every declaration and returns the per-resource results in
// stable order. A failed pass never stops its siblings; all failures are
// joined into the returned error.
func (e *Executor) Run(ctx context.Context, decls *config.Declarations) ([]api.ReconcileResult, error) {
	stop := e.startSpinner()
	defer stop()

	opts := reconciler.Options{DryRun: e.options.DryRun}

	var mu sync.Mutex
	var results []api.ReconcileResult
	var failures []error

	collect := func(result api.ReconcileResult, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			failures = append(failures, err)
			return
		}
		results = append(results, result)
	}

	var g errgroup.Group
	g.SetLimit(e.options.Workers)

	for _, name := range decls.SourceNames() {
		desired := decls.Sources[name]
		g.Go(func() error {
			collect(e.sources.ReconcileSource(ctx, desired, opts))
			return nil
		})
	}

	for _, name := range decls.FeatureNames() {
		desired := decls.Features[name]
		g.Go(func() error {
			collect(e.features.ReconcileFeature(ctx, desired, opts))
			return nil
		})
	}

	// Workers never return errors; failures are collected per resource.
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Kind != results[j].Kind {
			return results[i].Kind < results[j].Kind
		}
		return results[i].Resource < results[j].Resource
	})

	return results, errors.Join(failures...)
}

// Check runs a dry-run pass and returns ChangesPendingError when any
// resource is out of its desired state.
func (e *Executor) Check(ctx context.Context, decls *config.Declarations) ([]api.ReconcileResult, error) {
	saved := e.options.DryRun
	e.options.DryRun = true
	defer func() { e.options.DryRun = saved }()

	results, err := e.Run(ctx, decls)
	if err != nil {
		return results, err
	}

	pending := 0
	for _, result := range results {
		if result.Changed {
			pending++
		}
	}
	if pending > 0 {
		return results, &ChangesPendingError{Count: pending}
	}
	return results, nil
}

// startSpinner shows progress while a run is in flight. The returned stop
// function is idempotent.
func (e *Executor) startSpinner() func() {
	if e.options.Quiet {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if e.options.DryRun {
		s.Suffix = " Checking declared state..."
	} else {
		s.Suffix = " Reconciling declared state..."
	}
	s.Color("cyan")
	s.Start()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.Stop()
		})
	}
}

// Summarize renders a short one-line outcome for human output.
func Summarize(results []api.ReconcileResult, dryRun bool) string {
	changed := 0
	for _, result := range results {
		if result.Changed {
			changed++
		}
	}

	if changed == 0 {
		return text.FgGreen.Sprint("Everything already in desired state.")
	}
	if dryRun {
		return text.FgCyan.Sprintf("%d of %d resources would change.", changed, len(results))
	}
	return text.FgGreen.Sprintf("%d of %d resources changed.", changed, len(results))
}
