package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourname/healthtrack/internal"
	"github.com/yourname/healthtrack/internal/storage"
)

func testCacheOptions() CacheOptions {
	return CacheOptions{
		RetryDelay: time.Millisecond,
		StaleTime:  time.Minute,
		MaxRetries: 2,
	}
}

func newTestCache(store storage.KVStore) *RecordCache {
	return NewRecordCache(store, FallbackRecord(), testCacheOptions(), internal.NewNopLogger())
}

func TestReadSeedsFallbackWhenEmpty(t *testing.T) {
	store := newFakeStore()
	cache := newTestCache(store)

	snap := cache.Read(context.Background())
	assert.NoError(t, snap.Err)
	assert.False(t, snap.Loading)
	assert.Equal(t, 8543, snap.Data.Steps)
	assert.Equal(t, 72, snap.Data.HeartRate)
	assert.Len(t, snap.Data.ActivityHistory, 7)
}

func TestReadIsIdempotentWithinStaleWindow(t *testing.T) {
	store := newFakeStore()
	rec := internal.HealthRecord{ID: "r1", UserID: "u1", Steps: 1200, HeartRate: 68, SleepHours: 6.5, CreatedAt: "2023-01-01T00:00:00Z"}
	raw, _ := json.Marshal(rec)
	store.put(storage.KeyHealthData, string(raw))

	cache := newTestCache(store)
	first := cache.Read(context.Background())
	second := cache.Read(context.Background())

	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, 1, store.getCount(storage.KeyHealthData))
}

func TestReadGraftsFallbackHistory(t *testing.T) {
	store := newFakeStore()
	rec := internal.HealthRecord{ID: "r1", Steps: 100, HeartRate: 70}
	raw, _ := json.Marshal(rec)
	store.put(storage.KeyHealthData, string(raw))

	cache := newTestCache(store)
	snap := cache.Read(context.Background())
	assert.NoError(t, snap.Err)
	assert.Equal(t, 100, snap.Data.Steps)
	// the chart series always comes from the fallback template
	assert.Len(t, snap.Data.ActivityHistory, 7)
	assert.Equal(t, "2023-01-01", snap.Data.ActivityHistory[0].Name)
}

func TestReadFallsBackOnCorruptRecord(t *testing.T) {
	store := newFakeStore()
	store.put(storage.KeyHealthData, "{not valid json")

	cache := newTestCache(store)
	snap := cache.Read(context.Background())
	assert.NoError(t, snap.Err)
	assert.Equal(t, 8543, snap.Data.Steps)
}

func TestReadRetriesThenFallsBack(t *testing.T) {
	store := newFakeStore()
	store.failGets[storage.KeyHealthData] = errors.New("disk error")

	cache := newTestCache(store)
	snap := cache.Read(context.Background())

	assert.True(t, errors.Is(snap.Err, ErrLoadExhausted))
	assert.Equal(t, 8543, snap.Data.Steps)
	// 1 initial attempt + 2 retries
	assert.Equal(t, 3, store.getCount(storage.KeyHealthData))
}

func TestUpdateMergesAndRefreshesTimestamp(t *testing.T) {
	store := newFakeStore()
	rec := internal.HealthRecord{ID: "r1", UserID: "u1", Steps: 100, HeartRate: 70, SleepHours: 8, CreatedAt: "2023-01-01T00:00:00Z"}
	raw, _ := json.Marshal(rec)
	store.put(storage.KeyHealthData, string(raw))

	cache := newTestCache(store)
	steps := 5000
	merged := cache.Update(context.Background(), internal.HealthUpdate{Steps: &steps})

	assert.Equal(t, 5000, merged.Steps)
	assert.Equal(t, 70, merged.HeartRate)
	assert.Equal(t, 8.0, merged.SleepHours)

	prior, err := time.Parse(time.RFC3339Nano, "2023-01-01T00:00:00Z")
	require.NoError(t, err)
	stamped, err := time.Parse(time.RFC3339Nano, merged.CreatedAt)
	require.NoError(t, err)
	assert.True(t, stamped.After(prior))
}

func TestUpdatePersistsWithoutHistoryAndPublishes(t *testing.T) {
	store := newFakeStore()
	cache := newTestCache(store)

	steps := 4000
	cache.Update(context.Background(), internal.HealthUpdate{Steps: &steps})

	raw, ok := store.value(storage.KeyHealthData)
	require.True(t, ok)
	var persisted map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.NotContains(t, persisted, "activity_history")

	// the published value serves subsequent reads without a re-fetch
	before := store.getCount(storage.KeyHealthData)
	snap := cache.Read(context.Background())
	assert.NoError(t, snap.Err)
	assert.Equal(t, 4000, snap.Data.Steps)
	assert.Equal(t, before, store.getCount(storage.KeyHealthData))
}

func TestUpdateFallsBackOnWriteFailure(t *testing.T) {
	store := newFakeStore()
	store.failSets[storage.KeyHealthData] = errors.New("disk full")

	cache := newTestCache(store)
	steps := 9999
	merged := cache.Update(context.Background(), internal.HealthUpdate{Steps: &steps})

	// partial update merged onto the fallback template, never raised
	assert.Equal(t, 9999, merged.Steps)
	assert.Equal(t, 72, merged.HeartRate)

	snap := cache.Read(context.Background())
	assert.Equal(t, 9999, snap.Data.Steps)
}

func TestUpdateFiresPostUpdateHooks(t *testing.T) {
	store := newFakeStore()
	cache := newTestCache(store)

	var seen []int
	cache.OnUpdate(func(ctx context.Context, rec internal.HealthRecord) {
		seen = append(seen, rec.Steps)
	})

	steps := 123
	cache.Update(context.Background(), internal.HealthUpdate{Steps: &steps})
	require.Len(t, seen, 1)
	assert.Equal(t, 123, seen[0])
}

func TestAdjustActiveMinutesClampsAtZero(t *testing.T) {
	store := newFakeStore()
	rec := internal.HealthRecord{ID: "r1", ActiveMinutes: 10, HeartRate: 70}
	raw, _ := json.Marshal(rec)
	store.put(storage.KeyHealthData, string(raw))

	cache := newTestCache(store)
	got := cache.AdjustActiveMinutes(context.Background(), -40)
	assert.Equal(t, 0, got.ActiveMinutes)
}

func TestSnapshotDoesNotTriggerLoad(t *testing.T) {
	store := newFakeStore()
	cache := newTestCache(store)

	snap := cache.Snapshot()
	assert.True(t, snap.Loading)
	assert.Equal(t, 8543, snap.Data.Steps)
	assert.Equal(t, 0, store.getCount(storage.KeyHealthData))
}
