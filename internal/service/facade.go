package service

import (
	"context"
	"encoding/json"
	"math/rand"

	"github.com/yourname/healthtrack/internal"
	"github.com/yourname/healthtrack/internal/connectivity"
	"github.com/yourname/healthtrack/internal/storage"
)

// Options carries the injected fallback values and cache tuning. Zero values
// select the built-in templates.
type Options struct {
	Fallback   *internal.HealthRecord
	Samples    []internal.Workout
	Milestones []internal.Milestone
	Cache      CacheOptions
}

// Facade composes the store, cache, ledger, milestone tracker, export
// assembler and connectivity monitor into the single interface the
// presentation layer consumes.
type Facade struct {
	store     storage.KVStore
	logger    internal.Logger
	cache     *RecordCache
	ledger    *Ledger
	tracker   *MilestoneTracker
	assembler *Assembler
	monitor   *connectivity.Monitor
}

func NewFacade(ctx context.Context, store storage.KVStore, monitor *connectivity.Monitor, logger internal.Logger, opts Options) *Facade {
	fallback := FallbackRecord()
	if opts.Fallback != nil {
		fallback = *opts.Fallback
	}
	samples := opts.Samples
	if samples == nil {
		samples = SampleWorkouts()
	}
	defaults := opts.Milestones
	if defaults == nil {
		defaults = DefaultMilestones()
	}

	f := &Facade{
		store:     store,
		logger:    logger,
		cache:     NewRecordCache(store, fallback, opts.Cache, logger),
		ledger:    NewLedger(ctx, store, samples, logger),
		tracker:   NewMilestoneTracker(ctx, store, defaults, logger),
		assembler: NewAssembler(store, fallback, logger),
		monitor:   monitor,
	}

	f.cache.OnUpdate(f.tracker.Apply)
	f.ledger.OnDurationChange(func(ctx context.Context, delta int) {
		f.cache.AdjustActiveMinutes(ctx, delta)
	})

	return f
}

// Mount runs the first-access behavior: when a locally stored user exists, a
// randomized sample record is regenerated, simulating a fresh data pull for
// offline/demo operation.
func (f *Facade) Mount(ctx context.Context) {
	raw, ok, err := f.store.Get(ctx, storage.KeyHealthUser)
	if err != nil || !ok {
		return
	}
	var user internal.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		f.logger.Warnf("facade: corrupt stored user, skipping sample regeneration: %v", err)
		return
	}
	f.regenerateSample(ctx)
}

func (f *Facade) regenerateSample(ctx context.Context) {
	steps := rand.Intn(5000) + 3000
	heartRate := rand.Intn(30) + 60
	activeMinutes := rand.Intn(60) + 30
	sleepHours := float64(rand.Intn(4) + 5)
	f.cache.Update(ctx, internal.HealthUpdate{
		Steps:         &steps,
		HeartRate:     &heartRate,
		ActiveMinutes: &activeMinutes,
		SleepHours:    &sleepHours,
	})
}

// ReadHealthSnapshot serves the tri-state record, loading it when stale.
func (f *Facade) ReadHealthSnapshot(ctx context.Context) Snapshot {
	return f.cache.Read(ctx)
}

// HealthSnapshot reports the cache state without triggering a load.
func (f *Facade) HealthSnapshot() Snapshot {
	return f.cache.Snapshot()
}

func (f *Facade) UpdateHealthData(ctx context.Context, upd internal.HealthUpdate) internal.HealthRecord {
	return f.cache.Update(ctx, upd)
}

func (f *Facade) ExportAll(ctx context.Context) (internal.ExportPayload, error) {
	return f.assembler.ExportAll(ctx)
}

func (f *Facade) AddWorkout(ctx context.Context, req WorkoutRequest) internal.Workout {
	return f.ledger.Add(ctx, req)
}

func (f *Facade) EditWorkout(ctx context.Context, id string, req WorkoutRequest) []internal.Workout {
	return f.ledger.Edit(ctx, id, req)
}

func (f *Facade) DeleteWorkout(ctx context.Context, id string) []internal.Workout {
	return f.ledger.Delete(ctx, id)
}

func (f *Facade) Workouts() []internal.Workout {
	return f.ledger.Workouts()
}

func (f *Facade) Milestones() []internal.Milestone {
	return f.tracker.Milestones()
}

func (f *Facade) IsOffline() bool {
	return f.monitor.IsOffline()
}

func (f *Facade) CheckConnection(ctx context.Context) bool {
	return f.monitor.CheckConnection(ctx)
}
