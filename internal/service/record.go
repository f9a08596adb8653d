package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yourname/healthtrack/internal"
	"github.com/yourname/healthtrack/internal/storage"
)

// ErrLoadExhausted is surfaced through Snapshot.Err once every load attempt
// has failed. The snapshot still carries the fallback record so the dashboard
// never renders an empty state.
var ErrLoadExhausted = errors.New("health data load retries exhausted")

func ValidateHealthUpdate(upd *internal.HealthUpdate) error {
	return validate.Struct(upd)
}

// Snapshot is the tri-state result served to consumers. Data is never empty:
// it is the fallback record until a real one is available.
type Snapshot struct {
	Loading bool
	Err     error
	Data    internal.HealthRecord
}

type CacheOptions struct {
	RetryDelay time.Duration // delay between load attempts
	StaleTime  time.Duration // freshness window of a loaded result
	MaxRetries int           // additional attempts after the first failure
}

func (o CacheOptions) withDefaults() CacheOptions {
	if o.RetryDelay <= 0 {
		o.RetryDelay = time.Second
	}
	if o.StaleTime <= 0 {
		o.StaleTime = time.Minute
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 2
	}
	return o
}

// RecordCache serves the current HealthRecord with retry, stale-time and
// fallback-on-error semantics. It owns the health_data key.
type RecordCache struct {
	store    storage.KVStore
	fallback internal.HealthRecord
	logger   internal.Logger
	opts     CacheOptions

	mu        sync.Mutex
	cached    *internal.HealthRecord
	cachedErr error
	loadedAt  time.Time
	loading   bool

	hooks []func(ctx context.Context, rec internal.HealthRecord)
}

func NewRecordCache(store storage.KVStore, fallback internal.HealthRecord, opts CacheOptions, logger internal.Logger) *RecordCache {
	return &RecordCache{
		store:    store,
		fallback: fallback,
		logger:   logger,
		opts:     opts.withDefaults(),
	}
}

// OnUpdate registers a hook fired synchronously after every successful
// mutation. Milestone re-evaluation is wired through here.
func (c *RecordCache) OnUpdate(fn func(ctx context.Context, rec internal.HealthRecord)) {
	c.hooks = append(c.hooks, fn)
}

// Read returns the current record, loading it if the cached result is stale.
// Reads within the stale window return the cached value untouched.
func (c *RecordCache) Read(ctx context.Context) Snapshot {
	c.mu.Lock()
	if c.fresh() {
		snap := Snapshot{Err: c.cachedErr, Data: *c.cached}
		c.mu.Unlock()
		return snap
	}
	c.loading = true
	c.mu.Unlock()

	rec, err := c.loadWithRetry(ctx)

	c.mu.Lock()
	c.cached = &rec
	c.cachedErr = err
	c.loadedAt = time.Now()
	c.loading = false
	c.mu.Unlock()

	return Snapshot{Err: err, Data: rec}
}

// Snapshot reports the cache state without triggering a load.
func (c *RecordCache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached == nil {
		return Snapshot{Loading: true, Data: c.fallbackCopy()}
	}
	return Snapshot{Loading: c.loading, Err: c.cachedErr, Data: *c.cached}
}

// Update merges the partial update onto the current record, stamps a fresh
// timestamp, persists, publishes into the cache and fires the post-update
// hooks. On any failure it degrades to merging onto the fallback template and
// never raises to the caller.
func (c *RecordCache) Update(ctx context.Context, upd internal.HealthUpdate) internal.HealthRecord {
	cur, err := c.current(ctx)
	if err != nil {
		c.logger.Errorf("record: load before update failed, merging onto fallback: %v", err)
		return c.publishFallbackMerge(upd)
	}

	merged := applyUpdate(cur, upd)
	merged.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)

	// The chart series is never persisted; health_data carries the record
	// without it.
	persisted := merged
	persisted.ActivityHistory = nil
	raw, err := json.Marshal(persisted)
	if err == nil {
		err = c.store.Set(ctx, storage.KeyHealthData, string(raw))
	}
	if err != nil {
		c.logger.Errorf("record: failed to persist health data: %v", err)
		return c.publishFallbackMerge(upd)
	}

	c.publish(merged)
	for _, fn := range c.hooks {
		fn(ctx, merged)
	}
	return merged
}

// AdjustActiveMinutes applies a signed active-minutes delta, clamped so the
// value never goes below zero. Workout mutations reconcile through here.
func (c *RecordCache) AdjustActiveMinutes(ctx context.Context, delta int) internal.HealthRecord {
	cur, err := c.current(ctx)
	if err != nil {
		cur = c.fallbackCopy()
	}
	next := cur.ActiveMinutes + delta
	if next < 0 {
		next = 0
	}
	return c.Update(ctx, internal.HealthUpdate{ActiveMinutes: &next})
}

func (c *RecordCache) publishFallbackMerge(upd internal.HealthUpdate) internal.HealthRecord {
	merged := applyUpdate(c.fallbackCopy(), upd)
	c.publish(merged)
	return merged
}

func (c *RecordCache) publish(rec internal.HealthRecord) {
	c.mu.Lock()
	c.cached = &rec
	c.cachedErr = nil
	c.loadedAt = time.Now()
	c.mu.Unlock()
}

// fresh reports whether the cached value is inside the stale window.
// Callers must hold c.mu.
func (c *RecordCache) fresh() bool {
	return c.cached != nil && time.Since(c.loadedAt) < c.opts.StaleTime
}

// current returns the cached record when fresh, otherwise a single load
// attempt. Update paths do not ride the retry loop.
func (c *RecordCache) current(ctx context.Context) (internal.HealthRecord, error) {
	c.mu.Lock()
	if c.fresh() {
		rec := *c.cached
		c.mu.Unlock()
		return rec, nil
	}
	c.mu.Unlock()
	return c.loadOnce(ctx)
}

func (c *RecordCache) loadWithRetry(ctx context.Context) (internal.HealthRecord, error) {
	attempts := 1 + c.opts.MaxRetries
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(c.opts.RetryDelay):
			case <-ctx.Done():
				return c.fallbackCopy(), fmt.Errorf("%w: %v", ErrLoadExhausted, ctx.Err())
			}
		}
		rec, err := c.loadOnce(ctx)
		if err == nil {
			return rec, nil
		}
		lastErr = err
		c.logger.Warnf("record: load attempt %d/%d failed: %v", i+1, attempts, err)
	}
	return c.fallbackCopy(), fmt.Errorf("%w: %v", ErrLoadExhausted, lastErr)
}

// loadOnce reads the persisted record. An absent or unparsable value yields
// the fallback snapshot without error; only a failing store read is an error.
func (c *RecordCache) loadOnce(ctx context.Context) (internal.HealthRecord, error) {
	raw, ok, err := c.store.Get(ctx, storage.KeyHealthData)
	if err != nil {
		return internal.HealthRecord{}, err
	}
	fb := c.fallbackCopy()
	if !ok {
		return fb, nil
	}
	var rec internal.HealthRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		c.logger.Warnf("record: corrupt health data, using fallback: %v", err)
		return fb, nil
	}
	// The activity history only ever comes from the fallback template.
	rec.ActivityHistory = fb.ActivityHistory
	return rec, nil
}

func (c *RecordCache) fallbackCopy() internal.HealthRecord {
	rec := c.fallback
	rec.ActivityHistory = append([]internal.ActivityPoint(nil), c.fallback.ActivityHistory...)
	return rec
}

func applyUpdate(rec internal.HealthRecord, upd internal.HealthUpdate) internal.HealthRecord {
	if upd.Steps != nil {
		rec.Steps = *upd.Steps
	}
	if upd.HeartRate != nil {
		rec.HeartRate = *upd.HeartRate
	}
	if upd.ActiveMinutes != nil {
		rec.ActiveMinutes = *upd.ActiveMinutes
	}
	if upd.SleepHours != nil {
		rec.SleepHours = *upd.SleepHours
	}
	return rec
}
