package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/yourname/healthtrack/internal"
	"github.com/yourname/healthtrack/internal/storage"
)

// EvaluateMilestones derives the achievement state from a health record.
// Transitions are one-directional: an already-achieved entry is never
// re-evaluated. changed is true iff any entry flipped in this call.
func EvaluateMilestones(rec internal.HealthRecord, current []internal.Milestone) ([]internal.Milestone, bool) {
	next := append([]internal.Milestone(nil), current...)
	changed := false

	mark := func(idx int, cond bool) {
		if idx < len(next) && cond && !next[idx].Achieved {
			next[idx].Achieved = true
			changed = true
		}
	}

	mark(0, rec.Steps > 0)
	mark(1, rec.ActiveMinutes >= 30)
	mark(2, rec.SleepHours >= 7)
	mark(3, rec.HeartRate >= 60 && rec.HeartRate <= 100)

	return next, changed
}

// MilestoneTracker owns the persisted milestone list and applies evaluations
// after every health record mutation.
type MilestoneTracker struct {
	store  storage.KVStore
	logger internal.Logger

	mu   sync.Mutex
	list []internal.Milestone
}

// NewMilestoneTracker loads the persisted list. An absent value establishes
// the defaults and persists them; an unparsable or wrong-shaped value falls
// back to the defaults in memory.
func NewMilestoneTracker(ctx context.Context, store storage.KVStore, defaults []internal.Milestone, logger internal.Logger) *MilestoneTracker {
	t := &MilestoneTracker{store: store, logger: logger}

	raw, ok, err := store.Get(ctx, storage.KeyMilestones)
	if err == nil && ok {
		var list []internal.Milestone
		if err := json.Unmarshal([]byte(raw), &list); err == nil && len(list) == len(defaults) {
			t.list = list
			return t
		}
		logger.Warnf("milestone: unusable persisted milestones, using defaults")
		t.list = append([]internal.Milestone(nil), defaults...)
		return t
	}
	if err != nil {
		logger.Warnf("milestone: failed to read milestones, using defaults: %v", err)
		t.list = append([]internal.Milestone(nil), defaults...)
		return t
	}

	t.list = append([]internal.Milestone(nil), defaults...)
	t.persist(ctx)
	return t
}

// Apply re-evaluates against the record and persists only when a value
// flipped.
func (t *MilestoneTracker) Apply(ctx context.Context, rec internal.HealthRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, changed := EvaluateMilestones(rec, t.list)
	if !changed {
		return
	}
	t.list = next
	t.persist(ctx)
}

func (t *MilestoneTracker) Milestones() []internal.Milestone {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]internal.Milestone(nil), t.list...)
}

func (t *MilestoneTracker) persist(ctx context.Context) {
	raw, err := json.Marshal(t.list)
	if err == nil {
		err = t.store.Set(ctx, storage.KeyMilestones, string(raw))
	}
	if err != nil {
		t.logger.Errorf("milestone: failed to persist milestones: %v", err)
	}
}
