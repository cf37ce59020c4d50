package reconciler

import (
	"context"
	"sync"
	"time"
)

// requestKey generates a unique key for a reconcile request. This is used
// for deduplication and tracking across queue implementations.
func requestKey(req ReconcileRequest) string {
	return string(req.Type) + "/" + req.Name
}

// workQueue implements ReconcileQueue with deduplication. Requests are
// keyed: a re-add of a queued key updates the stored request without
// changing its FIFO position, and a re-add of an in-flight key lands in
// the stale set and is requeued once Done is called, so at most one pass
// per resource runs at a time.
type workQueue struct {
	mu sync.Mutex

	// order holds the keys waiting to be handed out, oldest first.
	order []string

	// pending maps a waiting key to its most recent request.
	pending map[string]ReconcileRequest

	// inFlight holds keys handed out by Get and not yet marked Done.
	inFlight map[string]struct{}

	// stale holds requests re-added while their key was in flight.
	stale map[string]ReconcileRequest

	closed bool

	// wake carries at most one pending wakeup for blocked Get calls;
	// each consumer re-arms it when work remains.
	wake chan struct{}

	// closedCh is closed by Shutdown to release every blocked Get.
	closedCh chan struct{}
}

// NewQueue creates a new reconciliation queue.
func NewQueue() ReconcileQueue {
	return &workQueue{
		pending:  make(map[string]ReconcileRequest),
		inFlight: make(map[string]struct{}),
		stale:    make(map[string]ReconcileRequest),
		wake:     make(chan struct{}, 1),
		closedCh: make(chan struct{}),
	}
}

// signal wakes at most one blocked Get without ever blocking the caller.
func (q *workQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Add adds or updates a request in the queue.
func (q *workQueue) Add(req ReconcileRequest) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	key := requestKey(req)

	if _, busy := q.inFlight[key]; busy {
		q.stale[key] = req
		return
	}

	if _, waiting := q.pending[key]; waiting {
		q.pending[key] = req
		return
	}

	q.order = append(q.order, key)
	q.pending[key] = req
	q.signal()
}

// Get retrieves the next request, blocking if necessary. It returns false
// when the context is cancelled, or when the queue has been shut down and
// drained.
func (q *workQueue) Get(ctx context.Context) (ReconcileRequest, bool) {
	for {
		q.mu.Lock()
		if len(q.order) > 0 {
			key := q.order[0]
			q.order = q.order[1:]
			req := q.pending[key]
			delete(q.pending, key)
			q.inFlight[key] = struct{}{}
			if len(q.order) > 0 {
				// One wakeup was consumed for this item; re-arm it so
				// another waiter can pick up the remainder.
				q.signal()
			}
			q.mu.Unlock()
			return req, true
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return ReconcileRequest{}, false
		}

		select {
		case <-ctx.Done():
			return ReconcileRequest{}, false
		case <-q.closedCh:
		case <-q.wake:
		}
	}
}

// Done marks a request as completed. A request re-added during its pass is
// moved from the stale set back onto the queue.
func (q *workQueue) Done(req ReconcileRequest) {
	q.mu.Lock()
	defer q.mu.Unlock()

	key := requestKey(req)
	delete(q.inFlight, key)

	if staleReq, ok := q.stale[key]; ok {
		delete(q.stale, key)
		q.order = append(q.order, key)
		q.pending[key] = staleReq
		q.signal()
	}
}

// Len returns the number of waiting requests.
func (q *workQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}

// Shutdown stops the queue. Waiting requests can still be drained by Get;
// new Adds are ignored.
func (q *workQueue) Shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.closedCh)
}

// delayedQueue wraps a workQueue with delayed requeue support, used for
// backoff between retry attempts.
type delayedQueue struct {
	base *workQueue

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewDelayedQueue creates a queue that supports delayed requeuing.
func NewDelayedQueue() *delayedQueue {
	return &delayedQueue{
		base:   NewQueue().(*workQueue),
		timers: make(map[string]*time.Timer),
	}
}

// Add adds a request immediately.
func (d *delayedQueue) Add(req ReconcileRequest) {
	d.base.Add(req)
}

// AddAfter adds a request after a delay. A second delayed add for the same
// key replaces the pending timer.
func (d *delayedQueue) AddAfter(req ReconcileRequest, delay time.Duration) {
	if delay <= 0 {
		d.base.Add(req)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	key := requestKey(req)

	if timer, ok := d.timers[key]; ok {
		timer.Stop()
	}

	d.timers[key] = time.AfterFunc(delay, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()

		// The base queue drops the add itself once it is shut down.
		d.base.Add(req)
	})
}

// Get retrieves the next request.
func (d *delayedQueue) Get(ctx context.Context) (ReconcileRequest, bool) {
	return d.base.Get(ctx)
}

// Done marks a request as completed.
func (d *delayedQueue) Done(req ReconcileRequest) {
	d.base.Done(req)
}

// Len returns the number of waiting requests.
func (d *delayedQueue) Len() int {
	return d.base.Len()
}

// Shutdown stops the base queue first so late-firing timers become no-ops,
// then cancels every pending timer.
func (d *delayedQueue) Shutdown() {
	d.base.Shutdown()

	d.mu.Lock()
	for _, timer := range d.timers {
		timer.Stop()
	}
	d.timers = make(map[string]*time.Timer)
	d.mu.Unlock()
}
