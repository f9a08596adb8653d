package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yourname/healthtrack/internal"
	"github.com/yourname/healthtrack/internal/storage"
)

var validate = validator.New()

type WorkoutRequest struct {
	Name           string `json:"name" validate:"required"`
	Type           string `json:"type" validate:"required,oneof=cardio strength flexibility sport other"`
	Duration       int    `json:"duration" validate:"required,gt=0"`
	CaloriesBurned int    `json:"caloriesBurned" validate:"gte=0"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
}

func ValidateWorkoutRequest(req *WorkoutRequest) error {
	return validate.Struct(req)
}

// Ledger exclusively owns the ordered workout collection. The whole
// collection is persisted on every mutation, and every duration change
// reconciles the health record's active minutes before the call returns.
type Ledger struct {
	store   storage.KVStore
	logger  internal.Logger
	samples []internal.Workout

	mu        sync.Mutex
	workouts  []internal.Workout
	lastStamp int64

	onDurationChange func(ctx context.Context, delta int)
}

// NewLedger loads the persisted collection. An absent or unparsable value
// seeds the fixed sample set and persists it immediately.
func NewLedger(ctx context.Context, store storage.KVStore, samples []internal.Workout, logger internal.Logger) *Ledger {
	l := &Ledger{
		store:   store,
		logger:  logger,
		samples: samples,
	}

	raw, ok, err := store.Get(ctx, storage.KeyWorkouts)
	if err == nil && ok {
		var workouts []internal.Workout
		if err := json.Unmarshal([]byte(raw), &workouts); err == nil {
			l.workouts = workouts
			return l
		}
		logger.Warnf("workout: corrupt workouts value, reseeding samples: %v", err)
	} else if err != nil {
		logger.Warnf("workout: failed to read workouts, reseeding samples: %v", err)
	}

	l.workouts = append([]internal.Workout(nil), samples...)
	l.persist(ctx)
	return l
}

// OnDurationChange registers the active-minutes reconciliation hook. It runs
// synchronously inside every mutation that changes a duration.
func (l *Ledger) OnDurationChange(fn func(ctx context.Context, delta int)) {
	l.onDurationChange = fn
}

// Workouts returns a copy of the collection in insertion order. Any display
// ordering is the presentation layer's concern.
func (l *Ledger) Workouts() []internal.Workout {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.copyLocked()
}

// Add assigns a fresh id, appends the entry, persists the collection and
// increases active minutes by the new entry's duration.
func (l *Ledger) Add(ctx context.Context, req WorkoutRequest) internal.Workout {
	l.mu.Lock()
	w := internal.Workout{
		ID:             l.nextIDLocked(),
		Name:           req.Name,
		Type:           req.Type,
		Duration:       req.Duration,
		CaloriesBurned: req.CaloriesBurned,
		Date:           req.Date,
	}
	l.workouts = append(l.workouts, w)
	l.persist(ctx)
	l.mu.Unlock()

	if l.onDurationChange != nil {
		l.onDurationChange(ctx, w.Duration)
	}
	return w
}

// Edit replaces the entry's fields, keeping the id. An unknown id is a silent
// no-op. Active minutes are adjusted by the signed duration difference.
func (l *Ledger) Edit(ctx context.Context, id string, req WorkoutRequest) []internal.Workout {
	l.mu.Lock()
	idx := l.indexLocked(id)
	if idx < 0 {
		out := l.copyLocked()
		l.mu.Unlock()
		return out
	}
	oldDuration := l.workouts[idx].Duration
	l.workouts[idx] = internal.Workout{
		ID:             id,
		Name:           req.Name,
		Type:           req.Type,
		Duration:       req.Duration,
		CaloriesBurned: req.CaloriesBurned,
		Date:           req.Date,
	}
	l.persist(ctx)
	out := l.copyLocked()
	l.mu.Unlock()

	if delta := req.Duration - oldDuration; delta != 0 && l.onDurationChange != nil {
		l.onDurationChange(ctx, delta)
	}
	return out
}

// Delete removes the entry and decrements active minutes by its duration.
// An unknown id is a silent no-op.
func (l *Ledger) Delete(ctx context.Context, id string) []internal.Workout {
	l.mu.Lock()
	idx := l.indexLocked(id)
	if idx < 0 {
		out := l.copyLocked()
		l.mu.Unlock()
		return out
	}
	removed := l.workouts[idx]
	l.workouts = append(l.workouts[:idx], l.workouts[idx+1:]...)
	l.persist(ctx)
	out := l.copyLocked()
	l.mu.Unlock()

	if l.onDurationChange != nil {
		l.onDurationChange(ctx, -removed.Duration)
	}
	return out
}

func (l *Ledger) indexLocked(id string) int {
	for i, w := range l.workouts {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) copyLocked() []internal.Workout {
	return append([]internal.Workout(nil), l.workouts...)
}

// nextIDLocked derives the id from the creation instant, bumped past the
// previous stamp so rapid successive adds stay unique and monotonic.
func (l *Ledger) nextIDLocked() string {
	stamp := time.Now().UnixMilli()
	if stamp <= l.lastStamp {
		stamp = l.lastStamp + 1
	}
	l.lastStamp = stamp
	return fmt.Sprintf("workout-%d", stamp)
}

// persist writes the whole collection. Write failures are logged; the
// in-memory collection stays authoritative.
func (l *Ledger) persist(ctx context.Context) {
	raw, err := json.Marshal(l.workouts)
	if err == nil {
		err = l.store.Set(ctx, storage.KeyWorkouts, string(raw))
	}
	if err != nil {
		l.logger.Errorf("workout: failed to persist workouts: %v", err)
	}
}
