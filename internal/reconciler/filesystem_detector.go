package reconciler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"wrangle/pkg/logging"
)

// declarationDirs maps resource types to the subdirectory of the declaration
// tree that holds their YAML files.
var declarationDirs = map[ResourceType]string{
	ResourceTypeSource:  "sources",
	ResourceTypeFeature: "features",
}

// FilesystemDetector implements ChangeDetector for a directory tree of
// declaration files.
//
// It uses fsnotify to watch the per-resource-type subdirectories and emits a
// debounced change event per declaration. Editors tend to produce bursts of
// writes (temp file, rename, chmod), so raw events for the same declaration
// are merged within the debounce window.
type FilesystemDetector struct {
	mu sync.RWMutex

	// baseDir is the root of the declaration tree
	baseDir string

	// watcher is the fsnotify watcher instance
	watcher *fsnotify.Watcher

	// resourceTypes is the set of resource types being watched
	resourceTypes map[ResourceType]bool

	// debounceInterval is how long to wait for additional changes
	debounceInterval time.Duration

	// pending tracks debounced events awaiting emission
	pending map[string]*pendingChange

	// stopCh signals shutdown
	stopCh chan struct{}

	// running indicates if the detector is active
	running bool
}

// pendingChange tracks a debounced event for one declaration.
type pendingChange struct {
	event ChangeEvent
	timer *time.Timer
}

// NewFilesystemDetector creates a new filesystem change detector rooted at
// baseDir.
func NewFilesystemDetector(baseDir string, debounceInterval time.Duration) *FilesystemDetector {
	if debounceInterval == 0 {
		debounceInterval = 500 * time.Millisecond
	}

	return &FilesystemDetector{
		baseDir:          baseDir,
		resourceTypes:    make(map[ResourceType]bool),
		debounceInterval: debounceInterval,
		pending:          make(map[string]*pendingChange),
		stopCh:           make(chan struct{}),
	}
}

// Start begins watching for declaration changes.
func (d *FilesystemDetector) Start(ctx context.Context, changes chan<- ChangeEvent) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		d.mu.Unlock()
		return err
	}

	d.watcher = watcher
	d.running = true
	d.stopCh = make(chan struct{})
	d.mu.Unlock()

	if err := d.setupWatches(); err != nil {
		d.Stop()
		return err
	}

	go d.processEvents(ctx, changes)

	logging.Info("FilesystemDetector", "Started watching %s for declaration changes", d.baseDir)
	return nil
}

// setupWatches adds filesystem watches for all registered resource types.
func (d *FilesystemDetector) setupWatches() error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for resourceType := range d.resourceTypes {
		if err := d.addWatchForType(resourceType); err != nil {
			logging.Warn("FilesystemDetector", "Failed to add watch for %s: %v", resourceType, err)
			// Continue with other types
		}
	}

	return nil
}

// addWatchForType adds a watch for a specific resource type directory.
func (d *FilesystemDetector) addWatchForType(resourceType ResourceType) error {
	dirName, ok := declarationDirs[resourceType]
	if !ok {
		return nil
	}

	watchPath := filepath.Join(d.baseDir, dirName)

	// Create directory if it doesn't exist
	if err := os.MkdirAll(watchPath, 0755); err != nil {
		return err
	}

	if err := d.watcher.Add(watchPath); err != nil {
		return err
	}

	logging.Debug("FilesystemDetector", "Watching directory: %s", watchPath)
	return nil
}

// processEvents handles filesystem events and generates change events.
func (d *FilesystemDetector) processEvents(ctx context.Context, changes chan<- ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			d.cancelPending()
			return

		case <-d.stopCh:
			d.cancelPending()
			return

		case event, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			d.handleFsEvent(event, changes)

		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("FilesystemDetector", err, "Filesystem watcher error")
		}
	}
}

// handleFsEvent processes a single filesystem event.
func (d *FilesystemDetector) handleFsEvent(event fsnotify.Event, changes chan<- ChangeEvent) {
	if !isYAMLFile(event.Name) {
		return
	}

	resourceType, name := d.parseFilePath(event.Name)
	if resourceType == "" {
		return
	}

	d.mu.RLock()
	watching := d.resourceTypes[resourceType]
	d.mu.RUnlock()
	if !watching {
		return
	}

	var operation ChangeOperation
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		operation = OperationCreate
	case event.Op&fsnotify.Write == fsnotify.Write:
		operation = OperationUpdate
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		operation = OperationDelete
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		// Rename is treated as delete (the new name will trigger a create)
		operation = OperationDelete
	default:
		return
	}

	d.debounceEvent(ChangeEvent{
		Type:      resourceType,
		Name:      name,
		Operation: operation,
		Timestamp: time.Now(),
		Source:    SourceFilesystem,
		FilePath:  event.Name,
	}, changes)
}

// debounceEvent coalesces rapid successive changes to the same declaration.
func (d *FilesystemDetector) debounceEvent(event ChangeEvent, changes chan<- ChangeEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := string(event.Type) + "/" + event.Name

	if entry, ok := d.pending[key]; ok {
		entry.timer.Stop()
		event.Operation = mergeOperations(entry.event.Operation, event.Operation)
	}

	timer := time.AfterFunc(d.debounceInterval, func() {
		d.mu.Lock()
		entry, ok := d.pending[key]
		if ok {
			delete(d.pending, key)
		}
		d.mu.Unlock()

		if ok {
			select {
			case changes <- entry.event:
				logging.Debug("FilesystemDetector", "Emitted change event: %s %s/%s",
					entry.event.Operation, entry.event.Type, entry.event.Name)
			default:
				logging.Warn("FilesystemDetector", "Change event channel full, dropping event for %s/%s",
					entry.event.Type, entry.event.Name)
			}
		}
	})

	d.pending[key] = &pendingChange{
		event: event,
		timer: timer,
	}
}

// mergeOperations merges two operations into a single logical operation.
func mergeOperations(old, new ChangeOperation) ChangeOperation {
	if old == OperationCreate {
		if new == OperationDelete {
			// Create + Delete within the window still emits Delete so the
			// reconciler can clean up
			return OperationDelete
		}
		// Create + Update = Create
		return OperationCreate
	}

	// Update + Delete = Delete
	if old == OperationUpdate && new == OperationDelete {
		return OperationDelete
	}

	return new
}

// parseFilePath extracts the resource type and name from a file path.
func (d *FilesystemDetector) parseFilePath(path string) (ResourceType, string) {
	relPath, err := filepath.Rel(d.baseDir, path)
	if err != nil {
		return "", ""
	}

	parts := strings.Split(relPath, string(filepath.Separator))
	if len(parts) < 2 {
		return "", ""
	}

	dirName := parts[0]
	fileName := parts[len(parts)-1]

	var resourceType ResourceType
	for rt, dn := range declarationDirs {
		if dn == dirName {
			resourceType = rt
			break
		}
	}

	if resourceType == "" {
		return "", ""
	}

	name := strings.TrimSuffix(fileName, ".yaml")
	name = strings.TrimSuffix(name, ".yml")

	return resourceType, name
}

// cancelPending stops all pending debounce timers.
func (d *FilesystemDetector) cancelPending() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, entry := range d.pending {
		entry.timer.Stop()
	}
	d.pending = make(map[string]*pendingChange)
}

// Stop gracefully stops the filesystem detector.
func (d *FilesystemDetector) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return nil
	}

	d.running = false
	close(d.stopCh)

	if d.watcher != nil {
		if err := d.watcher.Close(); err != nil {
			logging.Error("FilesystemDetector", err, "Error closing filesystem watcher")
		}
		d.watcher = nil
	}

	logging.Info("FilesystemDetector", "Stopped filesystem detector")
	return nil
}

// GetSource returns the change source type.
func (d *FilesystemDetector) GetSource() ChangeSource {
	return SourceFilesystem
}

// AddResourceType adds a resource type to watch.
func (d *FilesystemDetector) AddResourceType(resourceType ResourceType) error {
	d.mu.Lock()
	d.resourceTypes[resourceType] = true
	running := d.running
	d.mu.Unlock()

	if running {
		return d.addWatchForType(resourceType)
	}

	return nil
}

// RemoveResourceType removes a resource type from watching.
func (d *FilesystemDetector) RemoveResourceType(resourceType ResourceType) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.resourceTypes, resourceType)

	// fsnotify watches stay in place; events for unregistered types are
	// filtered in handleFsEvent

	return nil
}

// isYAMLFile checks if a file path is a YAML file.
func isYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
