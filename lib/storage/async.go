package storage

import (
	"sync"

	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("storage")

// Result is the outcome of an asynchronous read.
type Result struct {
	Value string
	Ok    bool
	Err   error
}

type opType uint8

const (
	opSet opType = iota
	opRemove
	opGet
)

type job struct {
	op    opType
	key   string
	value string
	reply chan Result
}

// Async puts a write-behind queue in front of a slower backend. SetItem and
// RemoveItem return as soon as the operation is queued; a single worker
// applies queued operations in order. Reads are queued behind the writes
// issued before them, so a read never observes a stale value.
//
// Errors of queued writes are passed to the OnError callback and returned by
// the next call to Wait.
type Async struct {
	backend Storage
	onError func(key string, err error)

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []job
	busy    bool
	closed  bool
	lastErr error
	wake    chan struct{}
	done    chan struct{}
}

// AsyncOptions configures an Async storage.
type AsyncOptions struct {
	// OnError is called from the worker for every failed queued write.
	OnError func(key string, err error)
}

// NewAsync starts a worker applying operations to backend.
func NewAsync(backend Storage, opts *AsyncOptions) *Async {
	a := &Async{
		backend: backend,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	if opts != nil {
		a.onError = opts.OnError
	}
	a.cond = sync.NewCond(&a.mu)
	go a.run()
	return a
}

// --------------------------------------------------------------------------
// Interface Methods (docu see storage.Storage and storage.SyncReader)
// --------------------------------------------------------------------------

func (a *Async) SetItem(key string, value string) error {
	return a.enqueue(job{op: opSet, key: key, value: value})
}

func (a *Async) RemoveItem(key string) error {
	return a.enqueue(job{op: opRemove, key: key})
}

// GetItem waits for the result of GetItemAsync.
func (a *Async) GetItem(key string) (string, bool, error) {
	res := <-a.GetItemAsync(key)
	return res.Value, res.Ok, res.Err
}

// GetItemAsync queues a read behind all pending writes and returns a channel
// that receives its result.
func (a *Async) GetItemAsync(key string) <-chan Result {
	reply := make(chan Result, 1)
	if err := a.enqueue(job{op: opGet, key: key, reply: reply}); err != nil {
		reply <- Result{Err: err}
	}
	return reply
}

// GetItemSync waits until every queued operation has been applied and then
// reads the backend directly.
func (a *Async) GetItemSync(key string) (string, bool, error) {
	if err := a.drain(); err != nil {
		return "", false, err
	}
	if r, ok := a.backend.(SyncReader); ok {
		return r.GetItemSync(key)
	}
	return a.backend.GetItem(key)
}

// Keys waits until every queued operation has been applied and lists the
// keys of the backend.
func (a *Async) Keys(prefix string) ([]string, error) {
	if err := a.drain(); err != nil {
		return nil, err
	}
	if l, ok := a.backend.(Lister); ok {
		return l.Keys(prefix)
	}
	return nil, NewError(RetCUnsupportedOperation, "backend cannot list keys")
}

// Wait blocks until the queue is empty and returns the first write error
// observed since the previous call to Wait.
func (a *Async) Wait() error {
	if err := a.drain(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	err := a.lastErr
	a.lastErr = nil
	return err
}

// Close applies the remaining operations and stops the worker.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()
	a.signal()
	<-a.done
	return a.Wait()
}

// --------------------------------------------------------------------------
// Worker
// --------------------------------------------------------------------------

func (a *Async) enqueue(j job) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return NewError(RetCClosed, "async storage is closed")
	}
	a.queue = append(a.queue, j)
	a.mu.Unlock()
	a.signal()
	return nil
}

func (a *Async) signal() {
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// drain waits until the worker has applied every queued operation.
func (a *Async) drain() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for len(a.queue) > 0 || a.busy {
		if a.closed && !a.busy && len(a.queue) > 0 {
			// worker is gone, nothing will drain the queue any more
			return NewError(RetCClosed, "async storage is closed")
		}
		a.cond.Wait()
	}
	return nil
}

func (a *Async) run() {
	defer close(a.done)
	for range a.wake {
		for {
			a.mu.Lock()
			if len(a.queue) == 0 {
				closed := a.closed
				a.cond.Broadcast()
				a.mu.Unlock()
				if closed {
					return
				}
				break
			}
			j := a.queue[0]
			a.queue[0] = job{}
			a.queue = a.queue[1:]
			a.busy = true
			a.mu.Unlock()

			a.apply(j)

			a.mu.Lock()
			a.busy = false
			a.mu.Unlock()
		}
	}
}

func (a *Async) apply(j job) {
	switch j.op {
	case opGet:
		value, ok, err := a.backend.GetItem(j.key)
		j.reply <- Result{Value: value, Ok: ok, Err: err}
		return
	case opSet:
		a.report(j.key, a.backend.SetItem(j.key, j.value))
	case opRemove:
		a.report(j.key, a.backend.RemoveItem(j.key))
	}
}

func (a *Async) report(key string, err error) {
	if err == nil {
		return
	}
	plog.Errorf("%s: queued write failed: %v", key, err)
	a.mu.Lock()
	if a.lastErr == nil {
		a.lastErr = err
	}
	a.mu.Unlock()
	if a.onError != nil {
		a.onError(key, err)
	}
}
