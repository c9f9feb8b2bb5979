package demo

import (
	"maps"
	"time"

	"github.com/ValentinKolb/dPersist/lib/codec"
	"github.com/ValentinKolb/dPersist/lib/container"
	"github.com/ValentinKolb/dPersist/lib/lazy"
	"github.com/ValentinKolb/dPersist/lib/persist"
	"github.com/ValentinKolb/dPersist/lib/storage"
	"github.com/jonboulle/clockwork"
)

// Demo actions
const (
	ActionClick  = "demo/CLICK"
	ActionRename = "demo/RENAME"
)

// Slice ids of the demo application
const (
	RootKey    = "demo"
	ProfileKey = "demo-profile"
)

// App is a small persisted application: a click counter persisted in the
// root slice and a profile persisted in a slice of its own.
type App struct {
	Store     *container.Store
	Persistor *persist.Persistor
}

// AppOptions configures NewApp.
type AppOptions struct {
	Storage     storage.Storage
	Codec       codec.Codec
	Delay       time.Duration
	Clock       clockwork.Clock
	OnRehydrate func(payload persist.RehydratePayload)
}

// NewApp builds the store of the demo application and registers its
// persisted slices.
func NewApp(opts AppOptions) (*App, error) {
	profile, err := persist.PersistReducer(persist.Config{
		Key:     ProfileKey,
		Storage: opts.Storage,
		Codec:   opts.Codec,
		Delay:   opts.Delay,
		Clock:   opts.Clock,
		Version: persist.Versioned(1),
		Migrate: persist.CreateMigrate(persist.MigrationManifest{
			1: addProfileTheme,
		}),
	}, profileReducer)
	if err != nil {
		return nil, err
	}

	root, err := persist.PersistCombineReducers(persist.Config{
		Key:     RootKey,
		Storage: opts.Storage,
		Codec:   opts.Codec,
		Delay:   opts.Delay,
		Clock:   opts.Clock,
	}, map[string]container.Reducer{
		"clicks":  clicksReducer,
		"profile": profile,
	})
	if err != nil {
		return nil, err
	}

	store := container.New(root)
	persistor := persist.PersistStore(store, &persist.PersistorOptions{OnRehydrate: opts.OnRehydrate}, nil)
	return &App{Store: store, Persistor: persistor}, nil
}

// Clicks returns the current click count.
func (a *App) Clicks() float64 {
	value, _ := container.Field(a.Store.State(), "clicks")
	return lazy.ToNumber(value)
}

// Profile returns the current profile.
func (a *App) Profile() map[string]any {
	value, _ := container.Field(a.Store.State(), "profile")
	profile, _ := lazy.ValueOf(value).(map[string]any)
	return profile
}

// --------------------------------------------------------------------------
// Reducers
// --------------------------------------------------------------------------

func clicksReducer(state any, action container.Action) any {
	if state == nil {
		return 0.0
	}
	if action.Type != ActionClick {
		return state
	}
	return lazy.ToNumber(state) + 1
}

func profileReducer(state any, action container.Action) any {
	if state == nil {
		return map[string]any{"name": "anonymous", "theme": "light"}
	}
	if action.Type != ActionRename {
		return state
	}
	current, _ := lazy.ValueOf(state).(map[string]any)
	next := maps.Clone(current)
	if next == nil {
		next = make(map[string]any)
	}
	next["name"] = action.Payload
	return next
}

// addProfileTheme upgrades profiles written before themes existed.
func addProfileTheme(state persist.PersistedState) persist.PersistedState {
	next := maps.Clone(state)
	if _, ok := next["theme"]; !ok {
		next["theme"] = "light"
	}
	return next
}
