package demo

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ValentinKolb/dPersist/lib/codec"
	"github.com/ValentinKolb/dPersist/lib/container"
	"github.com/ValentinKolb/dPersist/lib/storage"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, s storage.Storage) *App {
	t.Helper()
	app, err := NewApp(AppOptions{
		Storage: s,
		Codec:   codec.NewJSONCodec(),
		Delay:   time.Second,
		Clock:   clockwork.NewFakeClock(),
	})
	require.NoError(t, err)
	return app
}

func TestClicksAreRestoredWithoutTouchingTheProfile(t *testing.T) {
	counting := storage.NewCounting(storage.NewMemory())

	app := newTestApp(t, counting)
	for i := 0; i < 50; i++ {
		app.Store.Dispatch(container.Action{Type: ActionClick})
	}
	require.NoError(t, app.Persistor.Flush())
	assert.Equal(t, int64(1), counting.Writes("persist:demo"))

	text, ok, err := counting.GetItem("persist:demo")
	require.NoError(t, err)
	require.True(t, ok)
	var raw map[string]string
	require.NoError(t, json.Unmarshal([]byte(text), &raw))
	assert.NotContains(t, raw, "profile")

	restarted := newTestApp(t, counting)
	assert.Equal(t, 50.0, restarted.Clicks())
	assert.Equal(t, int64(0), counting.Reads("persist:demo-profile"))
}

func TestProfileMigration(t *testing.T) {
	mem := storage.NewMemory()
	// a profile written by version 0, before themes existed
	require.NoError(t, mem.SetItem("persist:demo-profile",
		`{"name":"\"ada\"","_persist":"{\"version\":0,\"rehydrated\":false}"}`))

	app := newTestApp(t, mem)
	assert.Equal(t, map[string]any{"name": "ada", "theme": "light"}, app.Profile())

	app.Store.Dispatch(container.Action{Type: ActionRename, Payload: "grace"})
	require.NoError(t, app.Persistor.Flush())

	text, ok, err := mem.GetItem("persist:demo-profile")
	require.NoError(t, err)
	require.True(t, ok)
	var raw map[string]string
	require.NoError(t, json.Unmarshal([]byte(text), &raw))
	assert.Equal(t, `"grace"`, raw["name"])
	assert.Equal(t, `{"version":1,"rehydrated":false}`, raw["_persist"])
}
