package reconciler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wrangle/pkg/logging"
)

// Manager coordinates all reconciliation activities in agent mode.
//
// It manages:
//   - The declaration change detector (filesystem watching)
//   - Resource-specific reconcilers
//   - Work queue and worker pool
//   - Retry logic with exponential backoff
type Manager struct {
	mu sync.RWMutex

	config ManagerConfig

	// changeDetector detects declaration changes
	changeDetector ChangeDetector

	// reconcilers maps resource types to their reconcilers
	reconcilers map[ResourceType]Reconciler

	// queue is the work queue for reconciliation requests
	queue *delayedQueue

	// statusTracker tracks reconciliation status for each resource
	statusTracker map[string]*ReconcileStatus

	// metrics counts attempts and outcomes per resource type
	metrics *Metrics

	// changeChan receives change events from the detector
	changeChan chan ChangeEvent

	// ctx is the manager's context
	ctx context.Context

	// cancelFunc cancels the manager's context
	cancelFunc context.CancelFunc

	// wg tracks running workers
	wg sync.WaitGroup

	// running indicates if the manager is active
	running bool
}

// NewManager creates a new reconciliation manager.
func NewManager(config ManagerConfig) *Manager {
	// Apply defaults
	if config.WorkerCount == 0 {
		config.WorkerCount = 2
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 5
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = time.Second
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = 5 * time.Minute
	}
	if config.DebounceInterval == 0 {
		config.DebounceInterval = 500 * time.Millisecond
	}
	if config.ReconcileTimeout == 0 {
		config.ReconcileTimeout = 30 * time.Second
	}
	if config.DisabledResourceTypes == nil {
		config.DisabledResourceTypes = make(map[ResourceType]bool)
	}

	return &Manager{
		config:        config,
		reconcilers:   make(map[ResourceType]Reconciler),
		queue:         NewDelayedQueue(),
		statusTracker: make(map[string]*ReconcileStatus),
		metrics:       NewMetrics(),
		changeChan:    make(chan ChangeEvent, 100),
	}
}

// RegisterReconciler registers a reconciler for a specific resource type.
func (m *Manager) RegisterReconciler(reconciler Reconciler) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	resourceType := reconciler.GetResourceType()
	if _, exists := m.reconcilers[resourceType]; exists {
		return fmt.Errorf("reconciler for %s already registered", resourceType)
	}

	m.reconcilers[resourceType] = reconciler
	logging.Info("ReconcileManager", "Registered reconciler for %s", resourceType)

	// If detector is configured, add this resource type to watch
	if m.changeDetector != nil {
		if err := m.changeDetector.AddResourceType(resourceType); err != nil {
			logging.Warn("ReconcileManager", "Failed to add watch for %s: %v", resourceType, err)
		}
	}

	return nil
}

// Start begins the reconciliation system.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}

	if m.config.DeclarationPath == "" {
		m.mu.Unlock()
		return fmt.Errorf("declaration path required")
	}

	m.ctx, m.cancelFunc = context.WithCancel(ctx)
	m.running = true
	m.changeDetector = NewFilesystemDetector(m.config.DeclarationPath, m.config.DebounceInterval)

	// Add all registered resource types to the detector
	for resourceType := range m.reconcilers {
		if err := m.changeDetector.AddResourceType(resourceType); err != nil {
			logging.Warn("ReconcileManager", "Failed to add watch for %s: %v", resourceType, err)
		}
	}

	m.mu.Unlock()

	// Start change detector
	if err := m.changeDetector.Start(m.ctx, m.changeChan); err != nil {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
		return fmt.Errorf("failed to start change detector: %w", err)
	}

	// Start event processor
	m.wg.Add(1)
	go m.processChangeEvents()

	// Start workers
	for i := 0; i < m.config.WorkerCount; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	logging.Info("ReconcileManager", "Started with %d workers watching %s",
		m.config.WorkerCount, m.config.DeclarationPath)
	return nil
}

// processChangeEvents converts change events to reconcile requests.
func (m *Manager) processChangeEvents() {
	defer m.wg.Done()

	for {
		select {
		case <-m.ctx.Done():
			return

		case event, ok := <-m.changeChan:
			if !ok {
				return
			}
			m.handleChangeEvent(event)
		}
	}
}

// handleChangeEvent processes a single change event.
func (m *Manager) handleChangeEvent(event ChangeEvent) {
	if !m.IsResourceTypeEnabled(event.Type) {
		logging.Debug("ReconcileManager", "Skipping change event for disabled resource type: %s %s/%s",
			event.Operation, event.Type, event.Name)
		return
	}

	logging.Debug("ReconcileManager", "Handling change event: %s %s/%s",
		event.Operation, event.Type, event.Name)

	if m.config.OnChange != nil {
		m.config.OnChange(event)
	}

	m.updateStatus(event.Type, event.Name, StatePending, "")

	m.queue.Add(ReconcileRequest{
		Type:    event.Type,
		Name:    event.Name,
		Attempt: 1,
	})
}

// worker processes reconciliation requests from the queue.
func (m *Manager) worker(id int) {
	defer m.wg.Done()

	logging.Debug("ReconcileManager", "Worker %d started", id)

	for {
		req, ok := m.queue.Get(m.ctx)
		if !ok {
			logging.Debug("ReconcileManager", "Worker %d shutting down", id)
			return
		}

		m.processRequest(req)
		m.queue.Done(req)
	}
}

// processRequest handles a single reconciliation request.
func (m *Manager) processRequest(req ReconcileRequest) {
	m.mu.RLock()
	reconciler, ok := m.reconcilers[req.Type]
	timeout := m.config.ReconcileTimeout
	m.mu.RUnlock()

	if !ok {
		logging.Warn("ReconcileManager", "No reconciler for resource type: %s", req.Type)
		return
	}

	m.updateStatus(req.Type, req.Name, StateReconciling, "")
	m.metrics.RecordAttempt(req.Type)

	logging.Debug("ReconcileManager", "Reconciling %s/%s (attempt %d)",
		req.Type, req.Name, req.Attempt)

	// Bound the pass so a hung provider call cannot block a worker forever
	ctx, cancel := context.WithTimeout(m.ctx, timeout)
	defer cancel()

	result := reconciler.Reconcile(ctx, req)

	if ctx.Err() == context.DeadlineExceeded {
		result.Error = fmt.Errorf("reconciliation timed out after %v", timeout)
		result.Requeue = true
	}

	if result.Error != nil {
		m.handleReconcileError(req, result)
	} else if result.RequeueAfter > 0 {
		// Periodic resync: re-observe provider state even without
		// declaration changes
		m.queue.AddAfter(req, result.RequeueAfter)
		m.handleSuccess(req)
	} else {
		m.handleSuccess(req)
	}
}

// handleReconcileError handles a failed reconciliation.
func (m *Manager) handleReconcileError(req ReconcileRequest, result Result) {
	logging.Warn("ReconcileManager", "Reconciliation failed for %s/%s: %v",
		req.Type, req.Name, result.Error)

	m.metrics.RecordFailure(req.Type)

	// Non-retryable errors (e.g. a feature name the provider does not
	// know) go terminal immediately.
	if !result.Requeue {
		m.updateStatus(req.Type, req.Name, StateFailed, result.Error.Error())
		return
	}

	if req.Attempt >= m.config.MaxRetries {
		logging.Error("ReconcileManager", result.Error,
			"Max retries exceeded for %s/%s", req.Type, req.Name)
		m.updateStatus(req.Type, req.Name, StateFailed, result.Error.Error())
		return
	}

	m.updateStatus(req.Type, req.Name, StateError, result.Error.Error())

	backoff := m.calculateBackoff(req.Attempt)

	req.Attempt++
	req.LastError = result.Error
	m.queue.AddAfter(req, backoff)

	logging.Debug("ReconcileManager", "Requeuing %s/%s after %v (attempt %d)",
		req.Type, req.Name, backoff, req.Attempt)
}

// handleSuccess handles a successful reconciliation.
func (m *Manager) handleSuccess(req ReconcileRequest) {
	logging.Debug("ReconcileManager", "Successfully reconciled %s/%s", req.Type, req.Name)
	m.metrics.RecordSuccess(req.Type)
	m.updateStatus(req.Type, req.Name, StateSynced, "")
}

// calculateBackoff computes exponential backoff.
func (m *Manager) calculateBackoff(attempt int) time.Duration {
	// Exponential backoff: initial * 2^attempt
	backoff := m.config.InitialBackoff * time.Duration(1<<uint(attempt-1))

	if backoff > m.config.MaxBackoff {
		backoff = m.config.MaxBackoff
	}

	return backoff
}

// updateStatus updates the reconciliation status for a resource.
func (m *Manager) updateStatus(resourceType ResourceType, name string, state ReconcileState, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := statusKey(resourceType, name)
	status, ok := m.statusTracker[key]
	if !ok {
		status = &ReconcileStatus{
			ResourceType: resourceType,
			Name:         name,
		}
		m.statusTracker[key] = status
	}

	status.State = state
	status.LastError = errMsg

	switch state {
	case StateSynced:
		now := time.Now()
		status.LastReconcileTime = &now
		status.RetryCount = 0
	case StateError:
		status.RetryCount++
	}
}

// statusKey generates a unique key for status tracking.
func statusKey(resourceType ResourceType, name string) string {
	return string(resourceType) + "/" + name
}

// Stop gracefully shuts down the reconciliation manager.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	m.mu.Unlock()

	logging.Info("ReconcileManager", "Stopping reconciliation manager...")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.changeDetector != nil {
		if err := m.changeDetector.Stop(); err != nil {
			logging.Error("ReconcileManager", err, "Error stopping change detector")
		}
	}

	m.queue.Shutdown()
	m.wg.Wait()

	logging.Info("ReconcileManager", "Reconciliation manager stopped")
	return nil
}

// GetStatus returns the reconciliation status for a resource.
func (m *Manager) GetStatus(resourceType ResourceType, name string) (*ReconcileStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status, ok := m.statusTracker[statusKey(resourceType, name)]
	return status, ok
}

// GetAllStatuses returns all reconciliation statuses.
func (m *Manager) GetAllStatuses() []ReconcileStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	statuses := make([]ReconcileStatus, 0, len(m.statusTracker))
	for _, status := range m.statusTracker {
		statuses = append(statuses, *status)
	}
	return statuses
}

// Metrics returns the manager's metrics collector.
func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

// TriggerReconcile manually triggers reconciliation for a resource. The
// bootstrap uses this to enqueue every declaration once at startup.
func (m *Manager) TriggerReconcile(resourceType ResourceType, name string) {
	event := ChangeEvent{
		Type:      resourceType,
		Name:      name,
		Operation: OperationUpdate,
		Timestamp: time.Now(),
		Source:    SourceManual,
	}
	m.handleChangeEvent(event)
}

// IsRunning returns whether the manager is running.
func (m *Manager) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

// GetQueueLength returns the current queue length.
func (m *Manager) GetQueueLength() int {
	return m.queue.Len()
}

// IsResourceTypeEnabled checks if reconciliation is enabled for a resource
// type.
func (m *Manager) IsResourceTypeEnabled(resourceType ResourceType) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Must be registered and not disabled
	_, registered := m.reconcilers[resourceType]
	return registered && !m.config.DisabledResourceTypes[resourceType]
}

// DisableResourceType disables reconciliation for a specific resource type.
func (m *Manager) DisableResourceType(resourceType ResourceType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.config.DisabledResourceTypes[resourceType] = true
	logging.Info("ReconcileManager", "Disabled reconciliation for %s", resourceType)
}

// EnableResourceType enables reconciliation for a specific resource type.
func (m *Manager) EnableResourceType(resourceType ResourceType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.config.DisabledResourceTypes, resourceType)
	logging.Info("ReconcileManager", "Enabled reconciliation for %s", resourceType)
}
