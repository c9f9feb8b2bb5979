package persist

import (
	"github.com/ValentinKolb/dPersist/lib/container"
	"github.com/ValentinKolb/dPersist/lib/lazy"
)

// RegisterPayload is the payload of ActionRegister. Every persisted reducer
// passes its persistoid to Register.
type RegisterPayload struct {
	Register func(p *Persistoid)
}

// RegisterAction creates the register handshake action.
func RegisterAction(register func(p *Persistoid)) container.Action {
	return container.Action{Type: ActionRegister, Payload: RegisterPayload{Register: register}}
}

// RehydrateAction announces the reconciled state of the slice key.
func RehydrateAction(key string, state any) container.Action {
	return container.Action{Type: ActionRehydrate, Key: key, Payload: state}
}

// FlushAction, PauseAction, PersistAction and PurgeAction are the marker
// actions broadcast by the Persistor.
func FlushAction() container.Action   { return container.Action{Type: ActionFlush} }
func PauseAction() container.Action   { return container.Action{Type: ActionPause} }
func PersistAction() container.Action { return container.Action{Type: ActionPersist} }
func PurgeAction() container.Action   { return container.Action{Type: ActionPurge} }

// AsLazy wraps value in a resolved view, views are returned unchanged.
func AsLazy(value any) *lazy.View {
	return lazy.As(value)
}
