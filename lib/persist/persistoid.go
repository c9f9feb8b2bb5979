package persist

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/dPersist/lib/container"
	"github.com/ValentinKolb/dPersist/lib/lazy"
	"github.com/jonboulle/clockwork"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var plog = logger.GetLogger("persist")

// Persistoid owns the debounced writes and the lifecycle of one persisted
// slice.
//
// Update records the latest state and (re)starts the debounce timer, so a
// burst of updates results in one write of the last state. Flush, Pause,
// Persist and Purge cancel the pending timer before they act.
//
// Actions emitted by the persistoid (the rehydration notice) are buffered
// until SetStore attaches a store. From then on they are dispatched from a
// separate goroutine, never from the caller's stack, so a reducer can trigger
// them without re-entering the store.
//
// Thread-safety: all methods are safe for concurrent use.
type Persistoid struct {
	cfg        Config
	storageKey string

	// debounce state, guarded by mu
	mu         sync.Mutex
	lastState  any
	hasPending bool
	paused     bool
	timer      clockwork.Timer
	gen        uint64
	seq        uint64

	// writeMu serializes storage writes; written is the sequence number of
	// the last write that reached storage
	writeMu sync.Mutex
	written uint64

	// dispatch state, guarded by dmu
	dmu         sync.Mutex
	store       container.Dispatcher
	onRehydrate func(RehydratePayload)
	pending     []container.Action
	outbox      []func()
	draining    bool

	restored atomic.Bool

	// fields owned by nested slices, never written by this slice
	nested *xsync.MapOf[string, struct{}]
}

// NewPersistoid creates the persistoid of the slice described by cfg.
func NewPersistoid(cfg Config) (*Persistoid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newPersistoid(cfg.withDefaults(AutoMergeLevel1)), nil
}

// newPersistoid expects a validated config with defaults applied.
func newPersistoid(cfg Config) *Persistoid {
	return &Persistoid{
		cfg:        cfg,
		storageKey: BuildKey(cfg),
		nested:     xsync.NewMapOf[string, struct{}](),
	}
}

// Key returns the identifier of the slice.
func (p *Persistoid) Key() string {
	return p.cfg.Key
}

// StorageKey returns the key the slice is stored under.
func (p *Persistoid) StorageKey() string {
	return p.storageKey
}

// IsRestored reports whether the slice was rehydrated from storage.
func (p *Persistoid) IsRestored() bool {
	return p.restored.Load()
}

// SetNested marks fields as owned by slices persisted on their own. They are
// neither written nor compared by this persistoid.
func (p *Persistoid) SetNested(fields ...string) {
	for _, field := range fields {
		p.nested.Store(field, struct{}{})
	}
}

// owns reports whether field is written by this persistoid.
func (p *Persistoid) owns(field string) bool {
	if !p.cfg.persisted(field) {
		return false
	}
	_, nested := p.nested.Load(field)
	return !nested
}

// --------------------------------------------------------------------------
// Scheduling
// --------------------------------------------------------------------------

// Update records state as the pending state and restarts the debounce timer.
// While paused the state is only recorded.
func (p *Persistoid) Update(state any) {
	p.mu.Lock()
	p.lastState = state
	p.hasPending = true
	if p.paused {
		p.mu.Unlock()
		return
	}
	p.cancelLocked()

	if p.cfg.Delay == NoDelay {
		state, seq := p.takeLocked()
		p.mu.Unlock()
		p.report(p.write(state, seq))
		return
	}

	gen := p.gen
	p.timer = p.cfg.Clock.AfterFunc(p.cfg.Delay, func() { p.fire(gen) })
	p.mu.Unlock()
	plog.Debugf("%s: write scheduled in %s", p.storageKey, p.cfg.Delay)
}

// UpdateIfChanged calls Update with next unless the relevant fields of prev
// and next are identical. The relevant fields are the whitelist, or every
// field of the states.
func (p *Persistoid) UpdateIfChanged(prev, next any) {
	if container.Same(prev, next) {
		return
	}
	prevKeys, nextKeys := p.cfg.Whitelist, p.cfg.Whitelist
	if len(p.cfg.Whitelist) == 0 {
		prevKeys, nextKeys = container.Fields(prev), container.Fields(next)
	}
	if len(prevKeys) != len(nextKeys) {
		p.Update(next)
		return
	}
	for _, key := range nextKeys {
		if _, nested := p.nested.Load(key); nested {
			continue
		}
		a, _ := container.Field(prev, key)
		b, _ := container.Field(next, key)
		if !container.Same(a, b) {
			p.Update(next)
			return
		}
	}
}

// fire runs when the debounce timer of generation gen expires.
func (p *Persistoid) fire(gen uint64) {
	p.mu.Lock()
	if gen != p.gen || !p.hasPending {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	state, seq := p.takeLocked()
	p.mu.Unlock()

	p.report(p.write(state, seq))
}

// cancelLocked stops the pending timer. A timer that already fired sees a
// newer generation and does nothing.
func (p *Persistoid) cancelLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.gen++
}

// takeLocked removes the pending state and reserves a write sequence number.
func (p *Persistoid) takeLocked() (any, uint64) {
	state := p.lastState
	p.lastState = nil
	p.hasPending = false
	p.seq++
	return state, p.seq
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// Flush cancels the pending timer and writes the pending state, if any.
func (p *Persistoid) Flush() error {
	p.mu.Lock()
	p.cancelLocked()
	if !p.hasPending {
		p.mu.Unlock()
		return nil
	}
	state, seq := p.takeLocked()
	p.mu.Unlock()
	return p.write(state, seq)
}

// Pause cancels the pending timer and stops scheduling writes until Persist.
func (p *Persistoid) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
	p.paused = true
}

// Persist resumes scheduling and writes the pending state, if any.
func (p *Persistoid) Persist() error {
	p.mu.Lock()
	p.cancelLocked()
	p.paused = false
	if !p.hasPending {
		p.mu.Unlock()
		return nil
	}
	state, seq := p.takeLocked()
	p.mu.Unlock()
	return p.write(state, seq)
}

// Purge cancels the pending timer, drops the pending state and removes the
// slice from storage. Writes that started before Purge do not reach storage
// afterwards.
func (p *Persistoid) Purge() error {
	p.mu.Lock()
	p.cancelLocked()
	_, seq := p.takeLocked()
	p.mu.Unlock()

	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	p.written = seq
	counter("purges", p.cfg.Key).Inc()
	if err := p.cfg.Storage.RemoveItem(p.storageKey); err != nil {
		return WrapError(RetCStorage, "remove "+p.storageKey, err)
	}
	plog.Infof("%s: purged", p.storageKey)
	return nil
}

// --------------------------------------------------------------------------
// Writing
// --------------------------------------------------------------------------

// write encodes state and stores it unless a newer write or a purge already
// reached storage.
func (p *Persistoid) write(state any, seq uint64) error {
	start := time.Now()
	text, fields, err := p.encode(state)
	if err != nil {
		counter("write_errors", p.cfg.Key).Inc()
		return err
	}

	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if seq < p.written {
		plog.Debugf("%s: skipping stale write", p.storageKey)
		return nil
	}
	p.written = seq

	if err := p.cfg.Storage.SetItem(p.storageKey, text); err != nil {
		counter("write_errors", p.cfg.Key).Inc()
		return WrapError(RetCStorage, "write "+p.storageKey, err)
	}
	counter("storage_writes", p.cfg.Key).Inc()
	observeWrite(p.cfg.Key, start)
	plog.Debugf("%s: wrote %d fields", p.storageKey, fields)
	return nil
}

// encode builds the snapshot text: every persisted field encoded on its own,
// plus the metadata marked as not rehydrated.
func (p *Persistoid) encode(state any) (string, int, error) {
	if state != nil && !container.Keyed(state) {
		return "", 0, NewError(RetCSerialize, fmt.Sprintf("state of %s is %T, not a mapping with string keys", p.storageKey, lazy.ValueOf(state)))
	}
	keys := p.cfg.Whitelist
	if len(keys) == 0 {
		keys = container.Fields(state)
	}

	snapshot := make(map[string]any, len(keys)+1)
	for _, key := range keys {
		if !p.owns(key) {
			continue
		}
		value, ok := container.Field(state, key)
		if !ok {
			continue
		}
		value = lazy.ValueOf(value)
		for _, t := range p.cfg.Transforms {
			if t.In != nil {
				value = t.In(value, key, state)
			}
		}
		if value == nil {
			continue
		}
		text, err := p.cfg.serializeField(value)
		if err != nil {
			return "", 0, WrapError(RetCSerialize, "encode field "+key+" of "+p.storageKey, err)
		}
		snapshot[key] = text
	}
	fields := len(snapshot)

	meta, err := p.cfg.serializeField(PersistMeta{Version: p.cfg.CurrentVersion(), Rehydrated: false})
	if err != nil {
		return "", 0, WrapError(RetCSerialize, "encode metadata of "+p.storageKey, err)
	}
	snapshot[PersistKey] = meta

	text, err := p.cfg.serialize(snapshot)
	if err != nil {
		return "", 0, WrapError(RetCSerialize, "encode snapshot "+p.storageKey, err)
	}
	return text, fields, nil
}

// report handles errors of writes nobody waits for.
func (p *Persistoid) report(err error) {
	if err == nil {
		return
	}
	plog.Errorf("%s: write failed: %v", p.storageKey, err)
	if p.cfg.OnError != nil {
		p.cfg.OnError(p.cfg.Key, err)
	}
}

// --------------------------------------------------------------------------
// Dispatching
// --------------------------------------------------------------------------

// SetStore attaches the persistoid to a store. Buffered actions are
// dispatched, followed by onRehydrate if the slice was already rehydrated.
// Only the first call has an effect.
func (p *Persistoid) SetStore(d container.Dispatcher, onRehydrate func(RehydratePayload)) {
	p.dmu.Lock()
	defer p.dmu.Unlock()
	if p.store != nil {
		return
	}
	p.store = d
	p.onRehydrate = onRehydrate

	for _, action := range p.pending {
		p.enqueueLocked(p.dispatchJob(action))
	}
	p.pending = nil
	if p.restored.Load() && onRehydrate != nil {
		p.enqueueLocked(p.rehydrateJob())
	}
}

// Dispatch sends action to the attached store from another goroutine, or
// buffers it until SetStore.
func (p *Persistoid) Dispatch(action container.Action) {
	p.dmu.Lock()
	defer p.dmu.Unlock()
	if p.store == nil {
		p.bufferLocked(action)
		return
	}
	p.enqueueLocked(p.dispatchJob(action))
}

// Rehydrate marks the slice as restored and announces state to the store.
func (p *Persistoid) Rehydrate(state any) {
	counter("rehydrations", p.cfg.Key).Inc()
	action := RehydrateAction(p.cfg.Key, state)

	p.dmu.Lock()
	defer p.dmu.Unlock()
	p.restored.Store(true)
	if p.store == nil {
		p.bufferLocked(action)
		return
	}
	p.enqueueLocked(p.dispatchJob(action))
	if p.onRehydrate != nil {
		p.enqueueLocked(p.rehydrateJob())
	}
}

// bufferLocked keeps action until a store is attached, dropping the oldest
// action when the buffer is full.
func (p *Persistoid) bufferLocked(action container.Action) {
	if len(p.pending) >= maxPendingActions {
		plog.Warningf("%s: pending action buffer full, dropping %s", p.storageKey, p.pending[0].Type)
		p.pending[0] = container.Action{}
		p.pending = p.pending[1:]
	}
	p.pending = append(p.pending, action)
}

func (p *Persistoid) dispatchJob(action container.Action) func() {
	store := p.store
	return func() { store.Dispatch(action) }
}

func (p *Persistoid) rehydrateJob() func() {
	cb, key := p.onRehydrate, p.cfg.Key
	return func() { cb(RehydratePayload{Key: key}) }
}

// enqueueLocked appends job to the outbox and starts a drain goroutine if
// none is running.
func (p *Persistoid) enqueueLocked(job func()) {
	p.outbox = append(p.outbox, job)
	if !p.draining {
		p.draining = true
		go p.drain()
	}
}

// drain runs queued jobs in order until the outbox is empty.
func (p *Persistoid) drain() {
	for {
		p.dmu.Lock()
		if len(p.outbox) == 0 {
			p.draining = false
			p.dmu.Unlock()
			return
		}
		job := p.outbox[0]
		p.outbox[0] = nil
		p.outbox = p.outbox[1:]
		p.dmu.Unlock()

		job()
	}
}
