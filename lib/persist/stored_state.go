package persist

import (
	"github.com/ValentinKolb/dPersist/lib/storage"
)

// GetStoredState reads and decodes the snapshot of the slice described by
// cfg. It returns nil without error when nothing is stored.
//
// Every field is decoded on its own and passed through the Out transforms in
// reverse order. The metadata defaults to the unversioned value and is always
// marked as rehydrated.
func GetStoredState(cfg Config) (PersistedState, error) {
	key := BuildKey(cfg)

	var (
		serialized string
		ok         bool
		err        error
	)
	if r, isSync := cfg.Storage.(storage.SyncReader); isSync {
		serialized, ok, err = r.GetItemSync(key)
	} else {
		serialized, ok, err = cfg.Storage.GetItem(key)
	}
	counter("storage_reads", cfg.Key).Inc()
	if err != nil {
		return nil, WrapError(RetCStorage, "read "+key, err)
	}
	if !ok || serialized == "" {
		return nil, nil
	}

	decoded, err := cfg.deserialize(serialized)
	if err != nil {
		return nil, WrapError(RetCSerialize, "decode snapshot "+key, err)
	}
	raw, isMap := decoded.(map[string]any)
	if !isMap {
		return nil, NewError(RetCSerialize, "snapshot "+key+" is not a mapping")
	}

	state := make(PersistedState, len(raw))
	for field, value := range raw {
		text, isText := value.(string)
		if !isText {
			return nil, NewError(RetCSerialize, "field "+field+" of "+key+" is not encoded text")
		}
		sub, err := cfg.deserializeField(text)
		if err != nil {
			return nil, WrapError(RetCSerialize, "decode field "+field+" of "+key, err)
		}
		if field != PersistKey {
			for i := len(cfg.Transforms) - 1; i >= 0; i-- {
				if out := cfg.Transforms[i].Out; out != nil {
					sub = out(sub, field, raw)
				}
			}
		}
		state[field] = sub
	}

	meta := state.Meta()
	meta.Rehydrated = true
	state[PersistKey] = meta

	return state, nil
}
