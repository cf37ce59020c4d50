package config

import (
	"sync"

	"wrangle/internal/api"
	"wrangle/pkg/logging"
)

// Store is a reloadable view over the declaration directory. Serve mode
// reloads it whenever the change detector fires, while reconciler workers
// read it concurrently.
type Store struct {
	mu sync.RWMutex

	configPath string
	decls      *Declarations
}

// NewStore creates a store over configPath and performs the initial load.
// Load errors are logged and the offending files skipped.
func NewStore(configPath string) *Store {
	s := &Store{configPath: configPath}
	s.Reload()
	return s
}

// Reload re-reads all declarations from disk and returns any per-file
// errors. The previous view stays in place until the new one is ready.
func (s *Store) Reload() *ConfigurationErrorCollection {
	decls, errs := LoadDeclarations(s.configPath)

	s.mu.Lock()
	s.decls = decls
	s.mu.Unlock()

	if errs.HasErrors() {
		logging.Warn("DeclarationStore", "Reload completed with %d declaration errors", len(errs.Errors))
	}
	return errs
}

// GetSource implements the source reconciler's declaration store.
func (s *Store) GetSource(name string) (api.SourceDescriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.decls.GetSource(name)
}

// GetFeature implements the feature reconciler's declaration store.
func (s *Store) GetFeature(name string) (api.FeatureDescriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.decls.GetFeature(name)
}

// Snapshot returns the current declaration view.
func (s *Store) Snapshot() *Declarations {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.decls
}
