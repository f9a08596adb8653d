package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yourname/healthtrack/internal"
	"github.com/yourname/healthtrack/internal/storage"
)

// ErrExportUnavailable is returned only when no payload can be assembled at
// all; partial availability degrades to defaults silently.
var ErrExportUnavailable = errors.New("no export payload could be assembled")

// Assembler builds the combined export payload from persisted state. It never
// mutates anything.
type Assembler struct {
	store    storage.KVStore
	fallback internal.HealthRecord
	logger   internal.Logger
}

func NewAssembler(store storage.KVStore, fallback internal.HealthRecord, logger internal.Logger) *Assembler {
	return &Assembler{store: store, fallback: fallback, logger: logger}
}

// ExportAll reads the persisted health record (or the fallback) and the
// persisted workout collection (or an empty one).
func (a *Assembler) ExportAll(ctx context.Context) (internal.ExportPayload, error) {
	rec := a.fallback
	rec.ActivityHistory = append([]internal.ActivityPoint(nil), a.fallback.ActivityHistory...)

	raw, ok, healthErr := a.store.Get(ctx, storage.KeyHealthData)
	if healthErr != nil {
		a.logger.Warnf("export: failed to read health data, using fallback: %v", healthErr)
	} else if ok {
		var parsed internal.HealthRecord
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			a.logger.Warnf("export: corrupt health data, using fallback: %v", err)
		} else {
			rec = parsed
		}
	}

	workouts := []internal.Workout{}
	raw, ok, workoutsErr := a.store.Get(ctx, storage.KeyWorkouts)
	if workoutsErr != nil {
		a.logger.Warnf("export: failed to read workouts, exporting none: %v", workoutsErr)
	} else if ok {
		var parsed []internal.Workout
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			a.logger.Warnf("export: corrupt workouts value, exporting none: %v", err)
		} else if parsed != nil {
			workouts = parsed
		}
	}

	if healthErr != nil && workoutsErr != nil {
		return internal.ExportPayload{}, fmt.Errorf("%w: %v", ErrExportUnavailable, healthErr)
	}

	return internal.ExportPayload{HealthData: rec, Workouts: workouts}, nil
}
