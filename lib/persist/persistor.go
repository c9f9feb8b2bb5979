package persist

import (
	"errors"
	"slices"

	"github.com/ValentinKolb/dPersist/lib/container"
	"github.com/puzpuzpuz/xsync/v3"
)

// PersistorOptions configures PersistStore.
type PersistorOptions struct {
	// OnRehydrate is called once per slice after it was restored. It runs on
	// a dispatch goroutine, never inside a reducer.
	OnRehydrate func(payload RehydratePayload)
}

// Persistor controls every persisted slice of one store.
type Persistor struct {
	store       container.Dispatcher
	onRehydrate func(RehydratePayload)
	persistoids *xsync.MapOf[string, *Persistoid]
}

// PersistStore registers the persisted reducers of store and returns the
// persistor controlling them. bootstrapped, if set, is called before the
// register handshake.
func PersistStore(store container.Dispatcher, opts *PersistorOptions, bootstrapped func()) *Persistor {
	p := &Persistor{
		store:       store,
		persistoids: xsync.NewMapOf[string, *Persistoid](),
	}
	if opts != nil {
		p.onRehydrate = opts.OnRehydrate
	}
	if bootstrapped != nil {
		bootstrapped()
	}

	store.Dispatch(RegisterAction(p.register))
	plog.Debugf("registered %d persisted slices", p.persistoids.Size())
	return p
}

// register attaches po to the store. A persistoid is attached once, a second
// persistoid for the same storage key is ignored.
func (p *Persistor) register(po *Persistoid) {
	if existing, loaded := p.persistoids.LoadOrStore(po.StorageKey(), po); loaded {
		if existing != po {
			plog.Warningf("%s: ignoring second persisted reducer", po.StorageKey())
		}
		return
	}
	po.SetStore(p.store, func(payload RehydratePayload) {
		if p.onRehydrate != nil {
			p.onRehydrate(payload)
		}
	})
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// Persist resumes writing on every slice and writes their pending states.
func (p *Persistor) Persist() error {
	err := p.each(func(po *Persistoid) error { return po.Persist() })
	p.store.Dispatch(PersistAction())
	return err
}

// Pause stops writing on every slice.
func (p *Persistor) Pause() {
	_ = p.each(func(po *Persistoid) error {
		po.Pause()
		return nil
	})
	p.store.Dispatch(PauseAction())
}

// Flush writes the pending state of every slice.
func (p *Persistor) Flush() error {
	err := p.each(func(po *Persistoid) error { return po.Flush() })
	p.store.Dispatch(FlushAction())
	return err
}

// Purge removes every slice from storage.
func (p *Persistor) Purge() error {
	err := p.each(func(po *Persistoid) error { return po.Purge() })
	p.store.Dispatch(PurgeAction())
	return err
}

// --------------------------------------------------------------------------
// Inspection
// --------------------------------------------------------------------------

// Keys returns the identifiers of the registered slices in sorted order.
func (p *Persistor) Keys() []string {
	keys := make([]string, 0, p.persistoids.Size())
	p.persistoids.Range(func(_ string, po *Persistoid) bool {
		keys = append(keys, po.Key())
		return true
	})
	slices.Sort(keys)
	return keys
}

// Persistoid returns the persistoid of the slice key.
func (p *Persistor) Persistoid(key string) (*Persistoid, bool) {
	return p.persistoids.Load(KeyPrefix + key)
}

// each runs fn on every persistoid in key order and joins the errors.
func (p *Persistor) each(fn func(po *Persistoid) error) error {
	var errs []error
	for _, key := range p.Keys() {
		if po, ok := p.Persistoid(key); ok {
			if err := fn(po); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
