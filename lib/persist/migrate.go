package persist

import (
	"slices"
)

// MigrationManifest maps a schema version to the step that upgrades a
// snapshot from the previous version to it.
type MigrationManifest map[int]func(state PersistedState) PersistedState

// MigrateFunc upgrades a restored snapshot to currentVersion.
type MigrateFunc func(state PersistedState, currentVersion int) PersistedState

type migrateOptions struct {
	debug bool
}

// MigrateOption configures CreateMigrate.
type MigrateOption func(*migrateOptions)

// WithDebug logs every decision of the migration at info level.
func WithDebug() MigrateOption {
	return func(o *migrateOptions) {
		o.debug = true
	}
}

// CreateMigrate returns a MigrateFunc running the steps of manifest.
//
// A snapshot at version v targeting version c runs every step k with
// v < k <= c in ascending order, each step receiving the output of the
// previous one. Snapshots at or above c are returned unchanged. Versions
// without a step are skipped.
func CreateMigrate(manifest MigrationManifest, opts ...MigrateOption) MigrateFunc {
	var o migrateOptions
	for _, opt := range opts {
		opt(&o)
	}
	logf := plog.Debugf
	if o.debug {
		logf = plog.Infof
	}

	return func(state PersistedState, currentVersion int) PersistedState {
		if state == nil {
			logf("migrate: no inbound state, skipping")
			return nil
		}

		inbound := state.Meta().Version
		if inbound == currentVersion {
			logf("migrate: versions match (%d), noop", currentVersion)
			return state
		}
		if inbound > currentVersion {
			logf("migrate: downgrading version %d to %d is not supported", inbound, currentVersion)
			return state
		}

		versions := make([]int, 0, len(manifest))
		for v := range manifest {
			if v > inbound && v <= currentVersion {
				versions = append(versions, v)
			}
		}
		slices.Sort(versions)
		logf("migrate: running %v from version %d", versions, inbound)

		for _, v := range versions {
			step := manifest[v]
			if step == nil {
				logf("migrate: no step for version %d, skipping", v)
				continue
			}
			state = step(state)
		}
		return state
	}
}
